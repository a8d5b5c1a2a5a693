package repository

import (
	"context"

	"clinicpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogRepository interface {
	Create(ctx context.Context, item *model.CatalogItem) error
	Update(ctx context.Context, item *model.CatalogItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.CatalogItem, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error)
	List(ctx context.Context, status, search string, page, limit int) ([]model.CatalogItem, int64, error)
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status string) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Create(ctx context.Context, item *model.CatalogItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *catalogRepository) Update(ctx context.Context, item *model.CatalogItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *catalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.CatalogItem{}).Error
}

func (r *catalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error) {
	var item model.CatalogItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.CatalogItem, error) {
	var items []model.CatalogItem
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *catalogRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error) {
	db := GetDB(ctx, r.db)
	// Row locking exists only on postgres; sqlite serializes writes at
	// the database level.
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var item model.CatalogItem
	if err := db.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) List(ctx context.Context, status, search string, page, limit int) ([]model.CatalogItem, int64, error) {
	var items []model.CatalogItem
	var total int64

	db := GetDB(ctx, r.db).Model(&model.CatalogItem{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if search != "" {
		db = db.Where("brand ILIKE ? OR model ILIKE ? OR serial_no ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *catalogRepository) UpdateStatus(ctx context.Context, ids []uuid.UUID, status string) error {
	if len(ids) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Model(&model.CatalogItem{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}
