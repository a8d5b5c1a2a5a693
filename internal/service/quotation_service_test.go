package service

import (
	"context"
	"testing"
	"time"

	"clinicpos/internal/billing"
	"clinicpos/internal/model"
	"clinicpos/internal/repository"
)

func newQuotationService(env *testEnv) QuotationService {
	auditRepo := repository.NewAuditRepository(env.db)
	txManager := repository.NewTransactionManager(env.db)
	return NewQuotationService(repository.NewQuotationRepository(env.db), env.catalogRepo, env.patientRepo, auditRepo, txManager, "Maharashtra")
}

func TestCreateQuotationDoesNotConsumeStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	quotations := newQuotationService(env)
	item := env.seedItem(t, "SN-Q001", 10000)

	resp, err := quotations.CreateQuotation(ctx, "", CreateQuotationRequest{
		PatientName: "Quote Patient",
		StockLines:  []StockLineRequest{{ItemID: item.ID.String()}},
	})
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}

	wantPrefix := billing.PrefixFor(billing.FamilyQuotation, time.Now())
	if resp.Number != wantPrefix+"001" {
		t.Errorf("number = %q, want %q", resp.Number, wantPrefix+"001")
	}
	if resp.GrandTotal != "11800.00" {
		t.Errorf("grand total = %s, want 11800.00", resp.GrandTotal)
	}

	// Quoting never reserves the item.
	stored, err := env.catalogRepo.FindByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	if stored.Status != model.ItemAvailable {
		t.Errorf("item status = %s, want AVAILABLE", stored.Status)
	}
}

func TestQuotationSeriesIndependentOfInvoices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	quotations := newQuotationService(env)

	if _, err := env.invoices.CreateInvoice(ctx, "", CreateInvoiceRequest{
		Kind:         model.InvoiceKindSales,
		PatientName:  "Invoice Patient",
		PatientPhone: "9822000010",
		ManualLines:  []ManualLineRequest{{Description: "Hearing aid", UnitPrice: "9000", GSTRatePct: 18}},
	}); err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	resp, err := quotations.CreateQuotation(ctx, "", CreateQuotationRequest{
		PatientName: "Quote Patient",
		ManualLines: []ManualLineRequest{{Description: "Hearing aid", UnitPrice: "9000", GSTRatePct: 18}},
	})
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}

	wantPrefix := billing.PrefixFor(billing.FamilyQuotation, time.Now())
	if resp.Number != wantPrefix+"001" {
		t.Errorf("number = %q, want %q (quotation series starts fresh)", resp.Number, wantPrefix+"001")
	}
}
