package dv

import (
	"time"

	"github.com/shopspring/decimal"
)

type DV struct {
	ID       uint      `gorm:"primaryKey"`
	DVNumber string    `gorm:"column:dv_number;type:varchar(100);not null;uniqueIndex:uq_dvs_dv_number"`
	DVDate   time.Time `gorm:"column:dv_date;type:date;not null"`

	Payee       string          `gorm:"type:varchar(255);not null"`
	Particulars string          `gorm:"type:text;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`

	Status     string `gorm:"type:varchar(20);not null;default:'draft';index:idx_dvs_status"`
	OfficeCode *string `gorm:"type:varchar(50);index:idx_dvs_office_code"`

	CreatedBy  uint  `gorm:"not null"`
	ApprovedBy *uint

	VoucherNumber *string `gorm:"type:varchar(100)"`
	AccountCode   *string `gorm:"type:varchar(100)"`
	Remarks       *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Creator  *DVUser `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE"`
	Approver *DVUser `gorm:"foreignKey:ApprovedBy;constraint:OnDelete:SET NULL"`
}

func (DV) TableName() string {
	return "dvs"
}

// DVUser is the minimal projection of the externally-owned users table,
// enough to resolve creator/approver display names.
type DVUser struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"column:name;type:varchar(255)"`
}

func (DVUser) TableName() string {
	return "users"
}
