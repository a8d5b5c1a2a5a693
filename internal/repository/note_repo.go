package repository

import (
	"context"

	"clinicpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepository interface {
	Create(ctx context.Context, note *model.FinancialNote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FinancialNote, error)
	List(ctx context.Context, kind string, page, limit int) ([]model.FinancialNote, int64, error)
	ListNumbersByPrefix(ctx context.Context, prefix string) ([]string, error)
}

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *model.FinancialNote) error {
	return GetDB(ctx, r.db).Create(note).Error
}

func (r *noteRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FinancialNote, error) {
	var note model.FinancialNote
	if err := GetDB(ctx, r.db).First(&note, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) List(ctx context.Context, kind string, page, limit int) ([]model.FinancialNote, int64, error) {
	var notes []model.FinancialNote
	var total int64

	db := GetDB(ctx, r.db).Model(&model.FinancialNote{})
	if kind != "" {
		db = db.Where("kind = ?", kind)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&notes).Error; err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

func (r *noteRepository) ListNumbersByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var numbers []string
	if err := GetDB(ctx, r.db).Model(&model.FinancialNote{}).
		Where("number LIKE ?", prefix+"%").
		Pluck("number", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}
