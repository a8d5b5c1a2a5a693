package service

import (
	"context"
	"testing"
	"time"

	"clinicpos/internal/billing"
	"clinicpos/internal/model"
	"clinicpos/internal/repository"
)

func newNoteService(env *testEnv) NoteService {
	auditRepo := repository.NewAuditRepository(env.db)
	txManager := repository.NewTransactionManager(env.db)
	return NewNoteService(repository.NewNoteRepository(env.db), env.patientRepo, env.invoiceRepo, auditRepo, txManager)
}

func TestIssueNoteSeparateSeries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	notes := newNoteService(env)

	credit, err := notes.IssueNote(ctx, "", IssueNoteRequest{
		Kind:        model.NoteCredit,
		PatientName: "Refund Patient",
		Amount:      "2500",
		Reason:      "Returned accessory",
	})
	if err != nil {
		t.Fatalf("issue credit note: %v", err)
	}

	debit, err := notes.IssueNote(ctx, "", IssueNoteRequest{
		Kind:        model.NoteDebit,
		PatientName: "Charge Patient",
		Amount:      "800",
		Reason:      "Undercharged fitting fee",
	})
	if err != nil {
		t.Fatalf("issue debit note: %v", err)
	}

	cnPrefix := billing.PrefixFor(billing.FamilyCreditNote, time.Now())
	dnPrefix := billing.PrefixFor(billing.FamilyDebitNote, time.Now())
	if credit.Number != cnPrefix+"001" {
		t.Errorf("credit number = %q, want %q", credit.Number, cnPrefix+"001")
	}
	if debit.Number != dnPrefix+"001" {
		t.Errorf("debit number = %q, want %q (debit series is independent)", debit.Number, dnPrefix+"001")
	}

	second, err := notes.IssueNote(ctx, "", IssueNoteRequest{
		Kind:        model.NoteCredit,
		PatientName: "Refund Patient",
		Amount:      "100",
		Reason:      "Goodwill adjustment",
	})
	if err != nil {
		t.Fatalf("issue second credit note: %v", err)
	}
	if second.Number != cnPrefix+"002" {
		t.Errorf("second credit number = %q, want %q", second.Number, cnPrefix+"002")
	}
}

func TestIssueNoteValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	notes := newNoteService(env)

	if _, err := notes.IssueNote(ctx, "", IssueNoteRequest{
		Kind:   model.NoteCredit,
		Amount: "100",
		Reason: "No patient",
	}); err == nil {
		t.Fatal("expected error for missing patient name")
	}

	if _, err := notes.IssueNote(ctx, "", IssueNoteRequest{
		Kind:        model.NoteCredit,
		PatientName: "Zero Patient",
		Amount:      "0",
		Reason:      "Zero amount",
	}); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestIssueNoteLinksInvoice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	notes := newNoteService(env)

	invoice, err := env.invoices.CreateInvoice(ctx, "", CreateInvoiceRequest{
		Kind:         model.InvoiceKindSales,
		PatientName:  "Linked Patient",
		PatientPhone: "9822000011",
		ManualLines:  []ManualLineRequest{{Description: "Hearing aid", UnitPrice: "10000", GSTRatePct: 18}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	note, err := notes.IssueNote(ctx, "", IssueNoteRequest{
		Kind:        model.NoteCredit,
		PatientName: "Linked Patient",
		Amount:      "1000",
		Reason:      "Partial refund",
		InvoiceID:   invoice.ID,
	})
	if err != nil {
		t.Fatalf("issue note: %v", err)
	}
	if note.InvoiceID == nil || *note.InvoiceID != invoice.ID {
		t.Errorf("note invoice id = %v, want %s", note.InvoiceID, invoice.ID)
	}
	if note.AmountInWords != "One Thousand Rupees Only" {
		t.Errorf("amount in words = %q, want One Thousand Rupees Only", note.AmountInWords)
	}
}
