package repository

import (
	"context"

	"clinicpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.AdvanceBooking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AdvanceBooking, error)
	List(ctx context.Context, status string, page, limit int) ([]model.AdvanceBooking, int64, error)
	// ListRedeemable returns ACTIVE bookings that no payment record
	// references yet, so a booking is never offered twice. Bookings
	// taken before the patient was registered have no patient link and
	// are offered to every patient.
	ListRedeemable(ctx context.Context, patientID uuid.UUID) ([]model.AdvanceBooking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.AdvanceBooking) error {
	return GetDB(ctx, r.db).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AdvanceBooking, error) {
	var booking model.AdvanceBooking
	if err := GetDB(ctx, r.db).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, status string, page, limit int) ([]model.AdvanceBooking, int64, error) {
	var bookings []model.AdvanceBooking
	var total int64

	db := GetDB(ctx, r.db).Model(&model.AdvanceBooking{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *bookingRepository) ListRedeemable(ctx context.Context, patientID uuid.UUID) ([]model.AdvanceBooking, error) {
	var bookings []model.AdvanceBooking
	if err := GetDB(ctx, r.db).
		Where("(patient_id = ? OR patient_id IS NULL) AND status = ?", patientID, model.BookingActive).
		Where("id NOT IN (?)", GetDB(ctx, r.db).Model(&model.PaymentRecord{}).
			Select("booking_id").Where("booking_id IS NOT NULL")).
		Order("created_at asc").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.AdvanceBooking{}).
		Where("id = ?", id).
		Update("status", status).Error
}
