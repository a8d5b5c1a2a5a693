package service

import (
	"context"
	"fmt"
	"time"

	"clinicpos/internal/model"
	"clinicpos/internal/repository"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	PatientID    string `json:"patient_id"`
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`
	Amount       string `json:"amount" binding:"required"`
	Note         string `json:"note"`
}

type BookingResponse struct {
	ID           string  `json:"id"`
	PatientID    *string `json:"patient_id"`
	PatientName  string  `json:"patient_name"`
	PatientPhone string  `json:"patient_phone"`
	Amount       string  `json:"amount"`
	Status       string  `json:"status"`
	Note         string  `json:"note"`
	CreatedAt    string  `json:"created_at"`
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (BookingResponse, error)
	GetBooking(ctx context.Context, id string) (BookingResponse, error)
	ListBookings(ctx context.Context, status string, page, limit int) ([]BookingResponse, int64, error)
	ListRedeemable(ctx context.Context, patientID string) ([]BookingResponse, error)
	CancelBooking(ctx context.Context, userID string, id string) (BookingResponse, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	patientRepo repository.PatientRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	patientRepo repository.PatientRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		patientRepo: patientRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (BookingResponse, error) {
	amount, err := parseOptionalAmount(req.Amount, "amount")
	if err != nil {
		return BookingResponse{}, err
	}
	if !amount.IsPositive() {
		return BookingResponse{}, fmt.Errorf("amount must be positive")
	}

	booking := model.AdvanceBooking{
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		Amount:       amount,
		Status:       model.BookingActive,
		Note:         req.Note,
	}

	// Bookings taken before registration carry only a name and phone;
	// the patient link is optional until invoicing.
	if req.PatientID != "" {
		patientID, parseErr := uuid.Parse(req.PatientID)
		if parseErr != nil {
			return BookingResponse{}, fmt.Errorf("invalid patient_id: %w", parseErr)
		}
		patient, findErr := s.patientRepo.FindByID(ctx, patientID)
		if findErr != nil {
			return BookingResponse{}, fmt.Errorf("patient not found: %w", findErr)
		}
		booking.PatientID = &patient.ID
		if booking.PatientName == "" {
			booking.PatientName = patient.Name
		}
		if booking.PatientPhone == "" {
			booking.PatientPhone = patient.Phone
		}
	}

	if booking.PatientName == "" {
		return BookingResponse{}, fmt.Errorf("patient name is required")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.bookingRepo.Create(txCtx, &booking); createErr != nil {
			return fmt.Errorf("failed to create booking: %w", createErr)
		}
		s.writeAudit(txCtx, userID, model.ActionCreateBooking, booking.ID.String(), booking.PatientName)
		return nil
	})
	if err != nil {
		return BookingResponse{}, err
	}

	return toBookingResponse(booking), nil
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (BookingResponse, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return BookingResponse{}, fmt.Errorf("invalid booking id: %w", err)
	}
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return BookingResponse{}, fmt.Errorf("booking not found: %w", err)
	}
	return toBookingResponse(*booking), nil
}

func (s *bookingService) ListBookings(ctx context.Context, status string, page, limit int) ([]BookingResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	bookings, total, err := s.bookingRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch bookings: %w", err)
	}

	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, toBookingResponse(b))
	}
	return result, total, nil
}

// ListRedeemable returns ACTIVE bookings that no payment record has
// claimed yet: the patient's own plus any taken before registration
// without a patient link.
func (s *bookingService) ListRedeemable(ctx context.Context, patientID string) ([]BookingResponse, error) {
	pid, err := uuid.Parse(patientID)
	if err != nil {
		return nil, fmt.Errorf("invalid patient id: %w", err)
	}

	bookings, err := s.bookingRepo.ListRedeemable(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch redeemable bookings: %w", err)
	}

	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, toBookingResponse(b))
	}
	return result, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID string, id string) (BookingResponse, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return BookingResponse{}, fmt.Errorf("invalid booking id: %w", err)
	}

	var booking *model.AdvanceBooking
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		booking, findErr = s.bookingRepo.FindByID(txCtx, bookingID)
		if findErr != nil {
			return fmt.Errorf("booking not found: %w", findErr)
		}
		if booking.Status != model.BookingActive {
			return fmt.Errorf("booking is %s, only ACTIVE bookings can be cancelled", booking.Status)
		}
		if updateErr := s.bookingRepo.UpdateStatus(txCtx, bookingID, model.BookingCancelled); updateErr != nil {
			return fmt.Errorf("failed to cancel booking: %w", updateErr)
		}
		booking.Status = model.BookingCancelled
		s.writeAudit(txCtx, userID, model.ActionCancelBooking, booking.ID.String(), booking.PatientName)
		return nil
	})
	if err != nil {
		return BookingResponse{}, err
	}

	return toBookingResponse(*booking), nil
}

func (s *bookingService) writeAudit(ctx context.Context, userID, action, entityID, entityName string) {
	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
	}
	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}
	_ = s.auditRepo.Log(ctx, &entry)
}

func toBookingResponse(booking model.AdvanceBooking) BookingResponse {
	resp := BookingResponse{
		ID:           booking.ID.String(),
		PatientName:  booking.PatientName,
		PatientPhone: booking.PatientPhone,
		Amount:       booking.Amount.StringFixed(2),
		Status:       booking.Status,
		Note:         booking.Note,
		CreatedAt:    booking.CreatedAt.Format(time.RFC3339),
	}
	if booking.PatientID != nil {
		id := booking.PatientID.String()
		resp.PatientID = &id
	}
	return resp
}
