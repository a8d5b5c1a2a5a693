package service

import (
	"context"
	"fmt"
	"time"

	"clinicpos/internal/billing"
	"clinicpos/internal/model"
	"clinicpos/internal/repository"

	"github.com/google/uuid"
)

type IssueNoteRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=CREDIT DEBIT"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Amount      string `json:"amount" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	InvoiceID   string `json:"invoice_id"`
}

type NoteResponse struct {
	ID            string  `json:"id"`
	Number        string  `json:"number"`
	Kind          string  `json:"kind"`
	Date          string  `json:"date"`
	PatientID     *string `json:"patient_id"`
	PatientName   string  `json:"patient_name"`
	Amount        string  `json:"amount"`
	AmountInWords string  `json:"amount_in_words"`
	Reason        string  `json:"reason"`
	InvoiceID     *string `json:"invoice_id"`
	CreatedAt     string  `json:"created_at"`
}

type NoteService interface {
	IssueNote(ctx context.Context, userID string, req IssueNoteRequest) (NoteResponse, error)
	GetNote(ctx context.Context, id string) (NoteResponse, error)
	ListNotes(ctx context.Context, kind string, page, limit int) ([]NoteResponse, int64, error)
}

type noteService struct {
	noteRepo    repository.NoteRepository
	patientRepo repository.PatientRepository
	invoiceRepo repository.InvoiceRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewNoteService(
	noteRepo repository.NoteRepository,
	patientRepo repository.PatientRepository,
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) NoteService {
	return &noteService{
		noteRepo:    noteRepo,
		patientRepo: patientRepo,
		invoiceRepo: invoiceRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// IssueNote creates a credit or debit note. The two kinds run separate
// number series so a credit note never consumes a debit sequence slot.
func (s *noteService) IssueNote(ctx context.Context, userID string, req IssueNoteRequest) (NoteResponse, error) {
	amount, err := parseOptionalAmount(req.Amount, "amount")
	if err != nil {
		return NoteResponse{}, err
	}
	if !amount.IsPositive() {
		return NoteResponse{}, fmt.Errorf("amount must be positive")
	}

	note := model.FinancialNote{
		Kind:        req.Kind,
		Date:        time.Now(),
		PatientName: req.PatientName,
		Amount:      amount,
		Reason:      req.Reason,
	}

	if req.PatientID != "" {
		patientID, parseErr := uuid.Parse(req.PatientID)
		if parseErr != nil {
			return NoteResponse{}, fmt.Errorf("invalid patient_id: %w", parseErr)
		}
		patient, findErr := s.patientRepo.FindByID(ctx, patientID)
		if findErr != nil {
			return NoteResponse{}, fmt.Errorf("patient not found: %w", findErr)
		}
		note.PatientID = &patient.ID
		if note.PatientName == "" {
			note.PatientName = patient.Name
		}
	}
	if note.PatientName == "" {
		return NoteResponse{}, fmt.Errorf("patient name is required")
	}

	if req.InvoiceID != "" {
		invoiceID, parseErr := uuid.Parse(req.InvoiceID)
		if parseErr != nil {
			return NoteResponse{}, fmt.Errorf("invalid invoice_id: %w", parseErr)
		}
		invoice, findErr := s.invoiceRepo.FindByID(ctx, invoiceID)
		if findErr != nil {
			return NoteResponse{}, fmt.Errorf("invoice not found: %w", findErr)
		}
		note.InvoiceID = &invoice.ID
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		family := billing.FamilyCreditNote
		if note.Kind == model.NoteDebit {
			family = billing.FamilyDebitNote
		}
		prefix := billing.PrefixFor(family, note.Date)
		issued, listErr := s.noteRepo.ListNumbersByPrefix(txCtx, prefix)
		if listErr != nil {
			return fmt.Errorf("failed to scan issued numbers: %w", listErr)
		}
		note.Number = billing.NextNumber(issued, prefix)

		if createErr := s.noteRepo.Create(txCtx, &note); createErr != nil {
			return fmt.Errorf("failed to create note: %w", createErr)
		}

		entry := model.AuditLog{
			Action:     model.ActionIssueNote,
			EntityID:   note.Number,
			EntityName: note.PatientName,
		}
		if userID != "" {
			if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
				entry.UserID = &parsed
			}
		}
		_ = s.auditRepo.Log(txCtx, &entry)
		return nil
	})
	if err != nil {
		return NoteResponse{}, err
	}

	return toNoteResponse(note), nil
}

func (s *noteService) GetNote(ctx context.Context, id string) (NoteResponse, error) {
	noteID, err := uuid.Parse(id)
	if err != nil {
		return NoteResponse{}, fmt.Errorf("invalid note id: %w", err)
	}
	note, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return NoteResponse{}, fmt.Errorf("note not found: %w", err)
	}
	return toNoteResponse(*note), nil
}

func (s *noteService) ListNotes(ctx context.Context, kind string, page, limit int) ([]NoteResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	notes, total, err := s.noteRepo.List(ctx, kind, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notes: %w", err)
	}

	result := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		result = append(result, toNoteResponse(n))
	}
	return result, total, nil
}

func toNoteResponse(note model.FinancialNote) NoteResponse {
	resp := NoteResponse{
		ID:            note.ID.String(),
		Number:        note.Number,
		Kind:          note.Kind,
		Date:          note.Date.Format("2006-01-02"),
		PatientName:   note.PatientName,
		Amount:        note.Amount.StringFixed(2),
		AmountInWords: billing.AmountInWords(note.Amount),
		Reason:        note.Reason,
		CreatedAt:     note.CreatedAt.Format(time.RFC3339),
	}
	if note.PatientID != nil {
		id := note.PatientID.String()
		resp.PatientID = &id
	}
	if note.InvoiceID != nil {
		id := note.InvoiceID.String()
		resp.InvoiceID = &id
	}
	return resp
}
