package repository

import (
	"context"

	"clinicpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Patient, int64, error)
}

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return GetDB(ctx, r.db).Create(patient).Error
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	return GetDB(ctx, r.db).Save(patient).Error
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Patient{}).Error
}

func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var patient model.Patient
	if err := GetDB(ctx, r.db).First(&patient, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, search string, page, limit int) ([]model.Patient, int64, error) {
	var patients []model.Patient
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Patient{})
	if search != "" {
		db = db.Where("name ILIKE ? OR phone LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&patients).Error; err != nil {
		return nil, 0, err
	}

	return patients, total, nil
}
