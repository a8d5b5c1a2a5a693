package repository

import (
	"context"

	"clinicpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotationRepository interface {
	Create(ctx context.Context, quotation *model.Quotation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error)
	List(ctx context.Context, page, limit int) ([]model.Quotation, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListNumbersByPrefix(ctx context.Context, prefix string) ([]string, error)
}

type quotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, quotation *model.Quotation) error {
	return GetDB(ctx, r.db).Create(quotation).Error
}

func (r *quotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	var quotation model.Quotation
	if err := GetDB(ctx, r.db).Preload("Lines").First(&quotation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *quotationRepository) List(ctx context.Context, page, limit int) ([]model.Quotation, int64, error) {
	var quotations []model.Quotation
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Quotation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&quotations).Error; err != nil {
		return nil, 0, err
	}

	return quotations, total, nil
}

func (r *quotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("quotation_id = ?", id).Delete(&model.QuotationLine{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Quotation{}).Error
}

func (r *quotationRepository) ListNumbersByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var numbers []string
	if err := GetDB(ctx, r.db).Model(&model.Quotation{}).
		Where("number LIKE ?", prefix+"%").
		Pluck("number", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}
