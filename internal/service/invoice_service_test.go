package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"clinicpos/internal/billing"
	"clinicpos/internal/model"
	"clinicpos/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Patient{},
		&model.CatalogItem{},
		&model.Invoice{},
		&model.InvoiceLine{},
		&model.PaymentRecord{},
		&model.Quotation{},
		&model.QuotationLine{},
		&model.AdvanceBooking{},
		&model.FinancialNote{},
		&model.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db          *gorm.DB
	invoiceRepo repository.InvoiceRepository
	catalogRepo repository.CatalogRepository
	patientRepo repository.PatientRepository
	bookingRepo repository.BookingRepository
	invoices    InvoiceService
	bookings    BookingService
}

func newTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t, t.Name())
	invoiceRepo := repository.NewInvoiceRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	return &testEnv{
		db:          db,
		invoiceRepo: invoiceRepo,
		catalogRepo: catalogRepo,
		patientRepo: patientRepo,
		bookingRepo: bookingRepo,
		invoices:    NewInvoiceService(invoiceRepo, catalogRepo, patientRepo, bookingRepo, auditRepo, txManager, nil, "Maharashtra"),
		bookings:    NewBookingService(bookingRepo, patientRepo, auditRepo, txManager),
	}
}

func (e *testEnv) seedItem(t *testing.T, serial string, mrp int64) model.CatalogItem {
	item := model.CatalogItem{
		Brand:      "Signia",
		Model:      "Pure 312",
		SerialNo:   serial,
		HSN:        "90214090",
		GSTRatePct: 18,
		MRP:        decimal.NewFromInt(mrp),
		Status:     model.ItemAvailable,
	}
	if err := e.db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func (e *testEnv) seedPatient(t *testing.T, name string) model.Patient {
	patient := model.Patient{Name: name, Phone: "9822012345", State: "Maharashtra"}
	if err := e.db.Create(&patient).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return patient
}

func TestCreateInvoiceStockAndManualLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.seedItem(t, "SN-1001", 10000)

	resp, err := env.invoices.CreateInvoice(ctx, "", CreateInvoiceRequest{
		Kind:         model.InvoiceKindSales,
		PatientName:  "Asha Kulkarni",
		PatientPhone: "9822000001",
		PatientState: "Maharashtra",
		StockLines:   []StockLineRequest{{ItemID: item.ID.String()}},
		ManualLines: []ManualLineRequest{
			{Description: "Custom ear mould", UnitPrice: "2000", GSTRatePct: 18},
		},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	wantPrefix := billing.PrefixFor(billing.FamilySalesInvoice, time.Now())
	if resp.Number != wantPrefix+"001" {
		t.Errorf("number = %q, want %q", resp.Number, wantPrefix+"001")
	}
	// 12000 taxable @18% intra-state: 1080 CGST + 1080 SGST
	if resp.GrandTotal != "14160.00" {
		t.Errorf("grand total = %s, want 14160.00", resp.GrandTotal)
	}
	if resp.CGSTTotal != "1080.00" || resp.SGSTTotal != "1080.00" || resp.IGSTTotal != "0.00" {
		t.Errorf("tax split = %s/%s/%s, want 1080.00/1080.00/0.00", resp.CGSTTotal, resp.SGSTTotal, resp.IGSTTotal)
	}
	if resp.PaymentStatus != billing.StatusUnpaid {
		t.Errorf("payment status = %s, want UNPAID", resp.PaymentStatus)
	}
	if len(resp.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(resp.Lines))
	}
	foundManual := false
	for _, line := range resp.Lines {
		if line.SourceID == "SVC-001" {
			foundManual = true
		}
	}
	if !foundManual {
		t.Error("expected a manual line with source id SVC-001")
	}
	if len(resp.RateSummary) != 1 || resp.RateSummary[0].GSTRatePct != 18 {
		t.Errorf("rate summary = %+v, want single 18%% bucket", resp.RateSummary)
	}

	// The stock item is consumed by the commit.
	stored, err := env.catalogRepo.FindByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	if stored.Status != model.ItemSold {
		t.Errorf("item status = %s, want SOLD", stored.Status)
	}
}

func TestCreateInvoiceInterState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.invoices.CreateInvoice(ctx, "", CreateInvoiceRequest{
		Kind:         model.InvoiceKindService,
		PatientName:  "Ravi Menon",
		PatientPhone: "9822000002",
		PatientState: "Kerala",
		ManualLines: []ManualLineRequest{
			{Description: "Hearing aid repair", UnitPrice: "10000", GSTRatePct: 18},
		},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if resp.IGSTTotal != "1800.00" {
		t.Errorf("igst = %s, want 1800.00", resp.IGSTTotal)
	}
	if resp.CGSTTotal != "0.00" || resp.SGSTTotal != "0.00" {
		t.Errorf("cgst/sgst = %s/%s, want 0.00/0.00", resp.CGSTTotal, resp.SGSTTotal)
	}

	wantPrefix := billing.PrefixFor(billing.FamilyServiceInvoice, time.Now())
	if resp.Number != wantPrefix+"001" {
		t.Errorf("number = %q, want %q", resp.Number, wantPrefix+"001")
	}
}

func TestCreateInvoiceSequentialNumbers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var last string
	for i := 0; i < 3; i++ {
		resp, err := env.invoices.CreateInvoice(ctx, "", CreateInvoiceRequest{
			Kind:         model.InvoiceKindSales,
			PatientName:  "Seq Patient",
			PatientPhone: "9822000003",
			ManualLines: []ManualLineRequest{
				{Description: "Battery pack", UnitPrice: "500", GSTRatePct: 18},
			},
		})
		if err != nil {
			t.Fatalf("create invoice %d: %v", i, err)
		}
		last = resp.Number
	}

	wantPrefix := billing.PrefixFor(billing.FamilySalesInvoice, time.Now())
	if last != wantPrefix+"003" {
		t.Errorf("third number = %q, want %q", last, wantPrefix+"003")
	}
}

func TestCreateInvoiceRejectsSoldItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.seedItem(t, "SN-2001", 8000)

	req := CreateInvoiceRequest{
		Kind:         model.InvoiceKindSales,
		PatientName:  "First Buyer",
		PatientPhone: "9822000004",
		StockLines:   []StockLineRequest{{ItemID: item.ID.String()}},
	}
	if _, err := env.invoices.CreateInvoice(ctx, "", req); err != nil {
		t.Fatalf("first sale: %v", err)
	}

	req.PatientName = "Second Buyer"
	if _, err := env.invoices.CreateInvoice(ctx, "", req); err == nil {
		t.Fatal("expected error selling an already sold item")
	}
}

func TestCreateInvoiceRejectsDuplicateStockLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.seedItem(t, "SN-2002", 8000)

	_, err := env.invoices.CreateInvoice(ctx, "", CreateInvoiceRequest{
		Kind:         model.InvoiceKindSales,
		PatientName:  "Double Buyer",
		PatientPhone: "9822000014",
		StockLines: []StockLineRequest{
			{ItemID: item.ID.String()},
			{ItemID: item.ID.String()},
		},
	})
	if err == nil {
		t.Fatal("expected error listing the same item twice")
	}

	// The rejected commit must not touch the item.
	stored, err := env.catalogRepo.FindByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	if stored.Status != model.ItemAvailable {
		t.Errorf("item status = %s, want AVAILABLE", stored.Status)
	}
}

func TestRecordAndRemovePayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.invoices.CreateInvoice(ctx, "", CreateInvoiceRequest{
		Kind:         model.InvoiceKindSales,
		PatientName:  "Ledger Patient",
		PatientPhone: "9822000005",
		ManualLines: []ManualLineRequest{
			{Description: "Hearing aid", UnitPrice: "10000", GSTRatePct: 18},
		},
		Payments: []PaymentRequest{{Amount: "5000", Method: billing.MethodCash}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if created.PaymentStatus != billing.StatusPartial {
		t.Errorf("status after deposit = %s, want PARTIAL", created.PaymentStatus)
	}
	if created.BalanceDue != "6800.00" {
		t.Errorf("balance = %s, want 6800.00", created.BalanceDue)
	}

	paid, err := env.invoices.RecordPayment(ctx, "", created.ID, PaymentRequest{Amount: "6800", Method: billing.MethodUPI})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if paid.PaymentStatus != billing.StatusPaid {
		t.Errorf("status after settlement = %s, want PAID", paid.PaymentStatus)
	}
	if paid.BalanceDue != "0.00" {
		t.Errorf("balance = %s, want 0.00", paid.BalanceDue)
	}

	// Removing the settlement reopens the balance.
	reopened, err := env.invoices.RemovePayment(ctx, "", created.ID, paid.Payments[1].ID)
	if err != nil {
		t.Fatalf("remove payment: %v", err)
	}
	if reopened.PaymentStatus != billing.StatusPartial {
		t.Errorf("status after removal = %s, want PARTIAL", reopened.PaymentStatus)
	}
	if reopened.BalanceDue != "6800.00" {
		t.Errorf("balance = %s, want 6800.00", reopened.BalanceDue)
	}
}

func TestPaymentRejectsUnknownMethod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.invoices.CreateInvoice(ctx, "", CreateInvoiceRequest{
		Kind:         model.InvoiceKindSales,
		PatientName:  "Method Patient",
		PatientPhone: "9822000006",
		ManualLines: []ManualLineRequest{
			{Description: "Dome pack", UnitPrice: "300", GSTRatePct: 18},
		},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if _, err := env.invoices.RecordPayment(ctx, "", created.ID, PaymentRequest{Amount: "100", Method: "BARTER"}); err == nil {
		t.Fatal("expected error for unknown payment method")
	}
	if _, err := env.invoices.RecordPayment(ctx, "", created.ID, PaymentRequest{Amount: "0", Method: billing.MethodCash}); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestAdvanceRedemptionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.seedPatient(t, "Advance Patient")

	booking, err := env.bookings.CreateBooking(ctx, "", CreateBookingRequest{
		PatientID: patient.ID.String(),
		Amount:    "3000",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	redeemable, err := env.bookings.ListRedeemable(ctx, patient.ID.String())
	if err != nil {
		t.Fatalf("list redeemable: %v", err)
	}
	if len(redeemable) != 1 {
		t.Fatalf("redeemable = %d, want 1", len(redeemable))
	}

	created, err := env.invoices.CreateInvoice(ctx, "", CreateInvoiceRequest{
		Kind:            model.InvoiceKindSales,
		PatientID:       patient.ID.String(),
		ManualLines:     []ManualLineRequest{{Description: "Hearing aid", UnitPrice: "10000", GSTRatePct: 18}},
		RedeemBookingID: booking.ID,
	})
	if err != nil {
		t.Fatalf("create invoice with redemption: %v", err)
	}

	if len(created.Payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(created.Payments))
	}
	if created.Payments[0].Method != billing.MethodAdvance {
		t.Errorf("method = %s, want ADVANCE", created.Payments[0].Method)
	}
	if created.Payments[0].BookingID == nil || *created.Payments[0].BookingID != booking.ID {
		t.Errorf("payment booking id = %v, want %s", created.Payments[0].BookingID, booking.ID)
	}

	stored, err := env.bookings.GetBooking(ctx, booking.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if stored.Status != model.BookingConsumed {
		t.Errorf("booking status = %s, want CONSUMED", stored.Status)
	}

	redeemable, err = env.bookings.ListRedeemable(ctx, patient.ID.String())
	if err != nil {
		t.Fatalf("list redeemable: %v", err)
	}
	if len(redeemable) != 0 {
		t.Errorf("redeemable after consumption = %d, want 0", len(redeemable))
	}

	// A consumed booking cannot fund a second invoice.
	if _, err := env.invoices.RedeemAdvance(ctx, "", created.ID, RedeemAdvanceRequest{BookingID: booking.ID}); err == nil {
		t.Fatal("expected error redeeming a consumed booking")
	}
}

func TestListRedeemableIncludesUnlinkedBookings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.seedPatient(t, "Walk-in Patient")

	// Taken over the counter before the patient record existed.
	booking, err := env.bookings.CreateBooking(ctx, "", CreateBookingRequest{
		PatientName:  "Walk-in Patient",
		PatientPhone: "9822000015",
		Amount:       "2000",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	redeemable, err := env.bookings.ListRedeemable(ctx, patient.ID.String())
	if err != nil {
		t.Fatalf("list redeemable: %v", err)
	}
	if len(redeemable) != 1 || redeemable[0].ID != booking.ID {
		t.Fatalf("redeemable = %+v, want the unlinked booking", redeemable)
	}
}

func TestRemoveAdvancePaymentReactivatesBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.seedPatient(t, "Reactivation Patient")

	booking, err := env.bookings.CreateBooking(ctx, "", CreateBookingRequest{
		PatientID: patient.ID.String(),
		Amount:    "2000",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	created, err := env.invoices.CreateInvoice(ctx, "", CreateInvoiceRequest{
		Kind:            model.InvoiceKindSales,
		PatientID:       patient.ID.String(),
		ManualLines:     []ManualLineRequest{{Description: "Hearing aid", UnitPrice: "5000", GSTRatePct: 18}},
		RedeemBookingID: booking.ID,
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if _, err := env.invoices.RemovePayment(ctx, "", created.ID, created.Payments[0].ID); err != nil {
		t.Fatalf("remove payment: %v", err)
	}

	stored, err := env.bookings.GetBooking(ctx, booking.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if stored.Status != model.BookingActive {
		t.Errorf("booking status = %s, want ACTIVE", stored.Status)
	}
}

func TestDeleteInvoiceRestoresStockAndBookings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.seedPatient(t, "Restore Patient")
	item := env.seedItem(t, "SN-3001", 12000)

	booking, err := env.bookings.CreateBooking(ctx, "", CreateBookingRequest{
		PatientID: patient.ID.String(),
		Amount:    "4000",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	created, err := env.invoices.CreateInvoice(ctx, "", CreateInvoiceRequest{
		Kind:            model.InvoiceKindSales,
		PatientID:       patient.ID.String(),
		StockLines:      []StockLineRequest{{ItemID: item.ID.String()}},
		RedeemBookingID: booking.ID,
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	result, err := env.invoices.DeleteInvoice(ctx, "", created.ID)
	if err != nil {
		t.Fatalf("delete invoice: %v", err)
	}
	if len(result.RestoredItemIDs) != 1 || result.RestoredItemIDs[0] != item.ID.String() {
		t.Errorf("restored items = %v, want [%s]", result.RestoredItemIDs, item.ID)
	}
	if len(result.ReactivatedBookings) != 1 || result.ReactivatedBookings[0] != booking.ID {
		t.Errorf("reactivated bookings = %v, want [%s]", result.ReactivatedBookings, booking.ID)
	}

	stored, err := env.catalogRepo.FindByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	if stored.Status != model.ItemAvailable {
		t.Errorf("item status = %s, want AVAILABLE", stored.Status)
	}

	storedBooking, err := env.bookings.GetBooking(ctx, booking.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if storedBooking.Status != model.BookingActive {
		t.Errorf("booking status = %s, want ACTIVE", storedBooking.Status)
	}

	if _, err := env.invoices.GetInvoice(ctx, created.ID); err == nil {
		t.Fatal("expected deleted invoice to be gone")
	}
}

func TestCreateInvoiceSnapshotsPatient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.seedPatient(t, "Snapshot Patient")

	created, err := env.invoices.CreateInvoice(ctx, "", CreateInvoiceRequest{
		Kind:        model.InvoiceKindSales,
		PatientID:   patient.ID.String(),
		ManualLines: []ManualLineRequest{{Description: "Fitting fee", UnitPrice: "1500", GSTRatePct: 18}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if created.PatientName != "Snapshot Patient" {
		t.Errorf("snapshot name = %q, want Snapshot Patient", created.PatientName)
	}

	// Later edits to the patient record must not touch the document.
	if err := env.db.Model(&model.Patient{}).Where("id = ?", patient.ID).Update("name", "Renamed").Error; err != nil {
		t.Fatalf("rename patient: %v", err)
	}
	stored, err := env.invoices.GetInvoice(ctx, created.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if stored.PatientName != "Snapshot Patient" {
		t.Errorf("stored snapshot name = %q, want Snapshot Patient", stored.PatientName)
	}
}

func TestCreateInvoiceRequiresName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.invoices.CreateInvoice(context.Background(), "", CreateInvoiceRequest{
		Kind:        model.InvoiceKindSales,
		ManualLines: []ManualLineRequest{{Description: "Item", UnitPrice: "100", GSTRatePct: 18}},
	})
	if err == nil {
		t.Fatal("expected error for missing patient name")
	}
}
