package dv

import "github.com/shopspring/decimal"

type CreateDVRequest struct {
	DVNumber      string           `json:"dv_number" binding:"required"`
	DVDate        string           `json:"dv_date" binding:"required"`
	Payee         string           `json:"payee" binding:"required,max=255"`
	Particulars   string           `json:"particulars" binding:"required"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Status        string           `json:"status" binding:"omitempty,oneof=draft submitted approved disapproved cancelled"`
	OfficeCode    *string          `json:"office_code"`
	VoucherNumber *string          `json:"voucher_number"`
	AccountCode   *string          `json:"account_code"`
	Remarks       *string          `json:"remarks"`
}

// UpdateDVRequest carries "sometimes" semantics: a nil field is absent from
// the request and left untouched; a present field is validated and applied.
type UpdateDVRequest struct {
	DVNumber      *string          `json:"dv_number"`
	DVDate        *string          `json:"dv_date"`
	Payee         *string          `json:"payee" binding:"omitempty,max=255"`
	Particulars   *string          `json:"particulars"`
	Amount        *decimal.Decimal `json:"amount"`
	Status        *string          `json:"status" binding:"omitempty,oneof=draft submitted approved disapproved cancelled"`
	OfficeCode    *string          `json:"office_code"`
	ApprovedBy    *uint            `json:"approved_by"`
	VoucherNumber *string          `json:"voucher_number"`
	AccountCode   *string          `json:"account_code"`
	Remarks       *string          `json:"remarks"`
}

type DisapproveDVRequest struct {
	Remarks string `json:"remarks" binding:"required"`
}

type ListDVQuery struct {
	Status     string
	OfficeCode string
	Search     string
	Page       int
}

type DVUserResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type DVResponse struct {
	ID            uint            `json:"id"`
	DVNumber      string          `json:"dv_number"`
	DVDate        string          `json:"dv_date"`
	Payee         string          `json:"payee"`
	Particulars   string          `json:"particulars"`
	Amount        string          `json:"amount"`
	Status        string          `json:"status"`
	OfficeCode    *string         `json:"office_code"`
	CreatedBy     uint            `json:"created_by"`
	ApprovedBy    *uint           `json:"approved_by"`
	VoucherNumber *string         `json:"voucher_number"`
	AccountCode   *string         `json:"account_code"`
	Remarks       *string         `json:"remarks"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
	Creator       *DVUserResponse `json:"creator,omitempty"`
	Approver      *DVUserResponse `json:"approver,omitempty"`
}
