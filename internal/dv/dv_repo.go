package dv

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// PageSize is fixed; the API exposes only a page number.
const PageSize = 15

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, d *DV) error
	FindByID(ctx context.Context, id uint) (*DV, error)
	Search(ctx context.Context, q ListDVQuery) ([]DV, int64, error)
	Update(ctx context.Context, d *DV) error
	Delete(ctx context.Context, id uint) (int64, error)
	DVNumberExists(ctx context.Context, dvNumber string, excludeID *uint) (bool, error)
	UserExists(ctx context.Context, userID uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, d *DV) error {
	return r.db.WithContext(ctx).Omit("Creator", "Approver").Create(d).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*DV, error) {
	var d DV
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Approver").
		First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) Search(ctx context.Context, q ListDVQuery) ([]DV, int64, error) {
	db := r.db.WithContext(ctx).Model(&DV{})

	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.OfficeCode != "" {
		db = db.Where("office_code = ?", q.OfficeCode)
	}
	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		db = db.Where(
			"LOWER(dv_number) LIKE ? OR LOWER(payee) LIKE ? OR LOWER(particulars) LIKE ?",
			needle, needle, needle,
		)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}

	var dvs []DV
	err := db.
		Preload("Creator").
		Preload("Approver").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&dvs).Error
	return dvs, total, err
}

func (r *repository) Update(ctx context.Context, d *DV) error {
	return r.db.WithContext(ctx).Omit("Creator", "Approver").Save(d).Error
}

func (r *repository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&DV{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *repository) DVNumberExists(ctx context.Context, dvNumber string, excludeID *uint) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&DV{}).
		Where("dv_number = ?", dvNumber)
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) UserExists(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&DVUser{}).
		Where("id = ?", userID).
		Count(&count).Error
	return count > 0, err
}
