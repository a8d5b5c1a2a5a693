package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinicpos/internal/model"
	"clinicpos/internal/repository"

	"github.com/google/uuid"
)

type PatientRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email"`
	Address string `json:"address"`
	State   string `json:"state"`
	Age     *int   `json:"age"`
}

type PatientResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	State     string `json:"state"`
	Age       *int   `json:"age"`
	CreatedAt string `json:"created_at"`
}

type PatientService interface {
	CreatePatient(ctx context.Context, req PatientRequest) (PatientResponse, error)
	UpdatePatient(ctx context.Context, id string, req PatientRequest) (PatientResponse, error)
	DeletePatient(ctx context.Context, id string) error
	GetPatient(ctx context.Context, id string) (PatientResponse, error)
	ListPatients(ctx context.Context, search string, page, limit int) ([]PatientResponse, int64, error)
}

type patientService struct {
	patientRepo repository.PatientRepository
}

func NewPatientService(patientRepo repository.PatientRepository) PatientService {
	return &patientService{patientRepo: patientRepo}
}

func (s *patientService) CreatePatient(ctx context.Context, req PatientRequest) (PatientResponse, error) {
	patient := model.Patient{
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Email:   req.Email,
		Address: req.Address,
		State:   req.State,
		Age:     req.Age,
	}
	if patient.Name == "" || patient.Phone == "" {
		return PatientResponse{}, fmt.Errorf("name and phone are required")
	}

	if err := s.patientRepo.Create(ctx, &patient); err != nil {
		return PatientResponse{}, fmt.Errorf("failed to create patient: %w", err)
	}
	return toPatientResponse(patient), nil
}

func (s *patientService) UpdatePatient(ctx context.Context, id string, req PatientRequest) (PatientResponse, error) {
	patientID, err := uuid.Parse(id)
	if err != nil {
		return PatientResponse{}, fmt.Errorf("invalid patient id: %w", err)
	}

	patient, err := s.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		return PatientResponse{}, fmt.Errorf("patient not found: %w", err)
	}

	patient.Name = strings.TrimSpace(req.Name)
	patient.Phone = strings.TrimSpace(req.Phone)
	patient.Email = req.Email
	patient.Address = req.Address
	patient.State = req.State
	patient.Age = req.Age
	if patient.Name == "" || patient.Phone == "" {
		return PatientResponse{}, fmt.Errorf("name and phone are required")
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return PatientResponse{}, fmt.Errorf("failed to update patient: %w", err)
	}
	return toPatientResponse(*patient), nil
}

func (s *patientService) DeletePatient(ctx context.Context, id string) error {
	patientID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid patient id: %w", err)
	}
	if err := s.patientRepo.Delete(ctx, patientID); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

func (s *patientService) GetPatient(ctx context.Context, id string) (PatientResponse, error) {
	patientID, err := uuid.Parse(id)
	if err != nil {
		return PatientResponse{}, fmt.Errorf("invalid patient id: %w", err)
	}
	patient, err := s.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		return PatientResponse{}, fmt.Errorf("patient not found: %w", err)
	}
	return toPatientResponse(*patient), nil
}

func (s *patientService) ListPatients(ctx context.Context, search string, page, limit int) ([]PatientResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	patients, total, err := s.patientRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch patients: %w", err)
	}

	result := make([]PatientResponse, 0, len(patients))
	for _, p := range patients {
		result = append(result, toPatientResponse(p))
	}
	return result, total, nil
}

func toPatientResponse(patient model.Patient) PatientResponse {
	return PatientResponse{
		ID:        patient.ID.String(),
		Name:      patient.Name,
		Phone:     patient.Phone,
		Email:     patient.Email,
		Address:   patient.Address,
		State:     patient.State,
		Age:       patient.Age,
		CreatedAt: patient.CreatedAt.Format(time.RFC3339),
	}
}
