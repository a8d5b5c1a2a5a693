package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"clinicpos/internal/billing"
	"clinicpos/internal/model"
	"clinicpos/internal/repository"
	ws "clinicpos/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

// StockLineRequest selects one catalog item for the invoice. Price,
// HSN, and GST rate come from the item record; only the discount is
// entered at the counter.
type StockLineRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Discount string `json:"discount"`
}

// ManualLineRequest is a typed-in service or accessory line with no
// stock record behind it.
type ManualLineRequest struct {
	Description string `json:"description" binding:"required"`
	HSN         string `json:"hsn"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	Discount    string `json:"discount"`
	GSTRatePct  int    `json:"gst_rate_pct"`
}

type PaymentRequest struct {
	Amount  string `json:"amount" binding:"required"`
	Method  string `json:"method" binding:"required"`
	Account string `json:"account"`
	Note    string `json:"note"`
}

type CreateInvoiceRequest struct {
	Kind             string              `json:"kind" binding:"required,oneof=SALES SERVICE"`
	PatientID        string              `json:"patient_id"`
	PatientName      string              `json:"patient_name"`
	PatientPhone     string              `json:"patient_phone"`
	PatientAddress   string              `json:"patient_address"`
	PatientState     string              `json:"patient_state"`
	StockLines       []StockLineRequest  `json:"stock_lines" binding:"dive"`
	ManualLines      []ManualLineRequest `json:"manual_lines" binding:"dive"`
	GlobalAdjustment string              `json:"global_adjustment"`
	Payments         []PaymentRequest    `json:"payments" binding:"dive"`
	RedeemBookingID  string              `json:"redeem_booking_id"`
	Notes            string              `json:"notes"`
	Warranty         string              `json:"warranty"`
}

type RedeemAdvanceRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
}

type InvoiceLineResponse struct {
	SourceID     string  `json:"source_id"`
	ItemID       *string `json:"item_id"`
	Description  string  `json:"description"`
	HSN          string  `json:"hsn"`
	UnitPrice    string  `json:"unit_price"`
	Discount     string  `json:"discount"`
	TaxableValue string  `json:"taxable_value"`
	GSTRatePct   int     `json:"gst_rate_pct"`
	CGST         string  `json:"cgst"`
	SGST         string  `json:"sgst"`
	IGST         string  `json:"igst"`
	LineTotal    string  `json:"line_total"`
}

type PaymentResponse struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	Amount    string  `json:"amount"`
	Method    string  `json:"method"`
	Account   string  `json:"account"`
	Note      string  `json:"note"`
	BookingID *string `json:"booking_id"`
}

type RateSummaryResponse struct {
	GSTRatePct   int    `json:"gst_rate_pct"`
	TaxableValue string `json:"taxable_value"`
	CGST         string `json:"cgst"`
	SGST         string `json:"sgst"`
	IGST         string `json:"igst"`
}

type InvoiceResponse struct {
	ID               string                `json:"id"`
	Number           string                `json:"number"`
	Kind             string                `json:"kind"`
	IssueDate        string                `json:"issue_date"`
	PatientID        *string               `json:"patient_id"`
	PatientName      string                `json:"patient_name"`
	PatientPhone     string                `json:"patient_phone"`
	PatientAddress   string                `json:"patient_address"`
	PatientState     string                `json:"patient_state"`
	Lines            []InvoiceLineResponse `json:"lines"`
	Payments         []PaymentResponse     `json:"payments"`
	RateSummary      []RateSummaryResponse `json:"rate_summary"`
	Subtotal         string                `json:"subtotal"`
	LineDiscount     string                `json:"line_discount"`
	GlobalAdjustment string                `json:"global_adjustment"`
	TotalDiscount    string                `json:"total_discount"`
	TaxableTotal     string                `json:"taxable_total"`
	CGSTTotal        string                `json:"cgst_total"`
	SGSTTotal        string                `json:"sgst_total"`
	IGSTTotal        string                `json:"igst_total"`
	TaxTotal         string                `json:"tax_total"`
	GrandTotal       string                `json:"grand_total"`
	AmountInWords    string                `json:"amount_in_words"`
	TotalPaid        string                `json:"total_paid"`
	BalanceDue       string                `json:"balance_due"`
	PaymentStatus    string                `json:"payment_status"`
	ConsumedItemIDs  []string              `json:"consumed_item_ids"`
	Notes            string                `json:"notes"`
	Warranty         string                `json:"warranty"`
	CreatedAt        string                `json:"created_at"`
}

type DeleteInvoiceResponse struct {
	RestoredItemIDs     []string `json:"restored_item_ids"`
	ReactivatedBookings []string `json:"reactivated_bookings"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter repository.InvoiceListFilter) ([]InvoiceResponse, int64, error)
	DeleteInvoice(ctx context.Context, userID string, id string) (DeleteInvoiceResponse, error)
	RecordPayment(ctx context.Context, userID string, invoiceID string, req PaymentRequest) (InvoiceResponse, error)
	RemovePayment(ctx context.Context, userID string, invoiceID, paymentID string) (InvoiceResponse, error)
	RedeemAdvance(ctx context.Context, userID string, invoiceID string, req RedeemAdvanceRequest) (InvoiceResponse, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	catalogRepo repository.CatalogRepository
	patientRepo repository.PatientRepository
	bookingRepo repository.BookingRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
	homeState   string
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	catalogRepo repository.CatalogRepository,
	patientRepo repository.PatientRepository,
	bookingRepo repository.BookingRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	homeState string,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		catalogRepo: catalogRepo,
		patientRepo: patientRepo,
		bookingRepo: bookingRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
		homeState:   homeState,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error) {
	adjustment, err := parseOptionalAmount(req.GlobalAdjustment, "global_adjustment")
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoice := model.Invoice{
		Kind:           req.Kind,
		IssueDate:      time.Now(),
		PatientName:    strings.TrimSpace(req.PatientName),
		PatientPhone:   strings.TrimSpace(req.PatientPhone),
		PatientAddress: req.PatientAddress,
		PatientState:   req.PatientState,
		Notes:          req.Notes,
		Warranty:       req.Warranty,
	}

	// A linked patient record fills any snapshot field the request left
	// blank.
	if req.PatientID != "" {
		patientID, parseErr := uuid.Parse(req.PatientID)
		if parseErr != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid patient_id: %w", parseErr)
		}
		patient, findErr := s.patientRepo.FindByID(ctx, patientID)
		if findErr != nil {
			return InvoiceResponse{}, fmt.Errorf("patient not found: %w", findErr)
		}
		invoice.PatientID = &patient.ID
		if invoice.PatientName == "" {
			invoice.PatientName = patient.Name
		}
		if invoice.PatientPhone == "" {
			invoice.PatientPhone = patient.Phone
		}
		if invoice.PatientAddress == "" {
			invoice.PatientAddress = patient.Address
		}
		if invoice.PatientState == "" {
			invoice.PatientState = patient.State
		}
	}

	if invoice.PatientName == "" {
		return InvoiceResponse{}, fmt.Errorf("patient name is required")
	}
	if invoice.PatientPhone == "" {
		return InvoiceResponse{}, fmt.Errorf("patient phone is required")
	}

	// Each catalog row is one serialized device; listing it twice on one
	// invoice would price a single unit twice.
	seenItems := make(map[string]struct{}, len(req.StockLines))
	for _, line := range req.StockLines {
		if _, dup := seenItems[line.ItemID]; dup {
			return InvoiceResponse{}, fmt.Errorf("catalog item %s listed more than once", line.ItemID)
		}
		seenItems[line.ItemID] = struct{}{}
	}

	var consumedItemIDs []uuid.UUID
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		draft := billing.Draft{
			GlobalAdjustment: adjustment,
			InterState:       billing.InterState(invoice.PatientState, s.homeState),
		}

		// Stock lines lock their catalog rows; an item already SOLD or
		// missing fails the whole commit.
		for _, line := range req.StockLines {
			itemID, parseErr := uuid.Parse(line.ItemID)
			if parseErr != nil {
				return fmt.Errorf("invalid item_id %q: %w", line.ItemID, parseErr)
			}
			item, findErr := s.catalogRepo.FindByIDForUpdate(txCtx, itemID)
			if findErr != nil {
				return fmt.Errorf("catalog item %s not found: %w", line.ItemID, findErr)
			}
			if item.Status != model.ItemAvailable {
				return fmt.Errorf("catalog item %s %s is not available", item.Brand, item.Model)
			}
			discount, amountErr := parseOptionalAmount(line.Discount, "discount")
			if amountErr != nil {
				return amountErr
			}
			draft.Lines = append(draft.Lines, billing.DraftLine{
				SourceID:    item.ID.String(),
				Description: item.Brand + " " + item.Model,
				HSN:         item.HSN,
				UnitPrice:   item.MRP,
				Discount:    discount,
				GSTRatePct:  item.GSTRatePct,
			})
			consumedItemIDs = append(consumedItemIDs, item.ID)
		}

		for i, line := range req.ManualLines {
			price, amountErr := parseOptionalAmount(line.UnitPrice, "unit_price")
			if amountErr != nil {
				return amountErr
			}
			discount, amountErr := parseOptionalAmount(line.Discount, "discount")
			if amountErr != nil {
				return amountErr
			}
			draft.Lines = append(draft.Lines, billing.DraftLine{
				SourceID:    billing.ManualSourceID(i + 1),
				Description: line.Description,
				HSN:         line.HSN,
				UnitPrice:   price,
				Discount:    discount,
				GSTRatePct:  line.GSTRatePct,
			})
		}

		built, buildErr := billing.Build(draft)
		if buildErr != nil {
			return buildErr
		}

		family := billing.FamilySalesInvoice
		if req.Kind == model.InvoiceKindService {
			family = billing.FamilyServiceInvoice
		}
		prefix := billing.PrefixFor(family, invoice.IssueDate)
		issued, listErr := s.invoiceRepo.ListNumbersByPrefix(txCtx, prefix)
		if listErr != nil {
			return fmt.Errorf("failed to scan issued numbers: %w", listErr)
		}
		invoice.Number = billing.NextNumber(issued, prefix)

		applyTotals(&invoice, built.Totals)
		for _, line := range built.Lines {
			invoice.Lines = append(invoice.Lines, toModelLine(line))
		}

		// Initial receipts go through the ledger so amount and method
		// validation matches later appends exactly.
		ledger := billing.Ledger{GrandTotal: invoice.GrandTotal}
		for _, p := range req.Payments {
			amount, amountErr := parseOptionalAmount(p.Amount, "amount")
			if amountErr != nil {
				return amountErr
			}
			record := model.PaymentRecord{
				ID:      uuid.New(),
				Date:    invoice.IssueDate,
				Amount:  amount,
				Method:  p.Method,
				Account: p.Account,
				Note:    p.Note,
			}
			if appendErr := ledger.Append(toLedgerPayment(record)); appendErr != nil {
				return appendErr
			}
			invoice.Payments = append(invoice.Payments, record)
		}

		if req.RedeemBookingID != "" {
			record, redeemErr := s.redeemInTx(txCtx, &ledger, req.RedeemBookingID, invoice.PatientID, invoice.IssueDate)
			if redeemErr != nil {
				return redeemErr
			}
			invoice.Payments = append(invoice.Payments, *record)
		}

		if createErr := s.invoiceRepo.Create(txCtx, &invoice); createErr != nil {
			return fmt.Errorf("failed to create invoice: %w", createErr)
		}

		if statusErr := s.catalogRepo.UpdateStatus(txCtx, consumedItemIDs, model.ItemSold); statusErr != nil {
			return fmt.Errorf("failed to mark items sold: %w", statusErr)
		}

		s.writeAudit(txCtx, userID, model.ActionCreateInvoice, invoice.Number, invoice.PatientName, req)
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	if len(consumedItemIDs) > 0 {
		broadcast(s.hub, "catalog_updated", map[string]interface{}{"status": model.ItemSold, "count": len(consumedItemIDs)})
	}

	return s.GetInvoice(ctx, invoice.ID.String())
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}
	invoice, err := s.invoiceRepo.FindByIDWithDetails(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invoice not found: %w", err)
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter repository.InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

// DeleteInvoice removes a committed invoice, restores any consumed
// catalog items to AVAILABLE, and reactivates bookings whose redemption
// payments disappear with the document.
func (s *invoiceService) DeleteInvoice(ctx context.Context, userID string, id string) (DeleteInvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return DeleteInvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	var resp DeleteInvoiceResponse
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByIDWithDetails(txCtx, invoiceID)
		if findErr != nil {
			return fmt.Errorf("invoice not found: %w", findErr)
		}

		var itemIDs []uuid.UUID
		for _, line := range invoice.Lines {
			if line.ItemID != nil {
				itemIDs = append(itemIDs, *line.ItemID)
				resp.RestoredItemIDs = append(resp.RestoredItemIDs, line.ItemID.String())
			}
		}
		if statusErr := s.catalogRepo.UpdateStatus(txCtx, itemIDs, model.ItemAvailable); statusErr != nil {
			return fmt.Errorf("failed to restore items: %w", statusErr)
		}

		for _, p := range invoice.Payments {
			if p.BookingID == nil {
				continue
			}
			if bookingErr := s.bookingRepo.UpdateStatus(txCtx, *p.BookingID, model.BookingActive); bookingErr != nil {
				return fmt.Errorf("failed to reactivate booking: %w", bookingErr)
			}
			resp.ReactivatedBookings = append(resp.ReactivatedBookings, p.BookingID.String())
		}

		if deleteErr := s.invoiceRepo.Delete(txCtx, invoiceID); deleteErr != nil {
			return fmt.Errorf("failed to delete invoice: %w", deleteErr)
		}

		s.writeAudit(txCtx, userID, model.ActionDeleteInvoice, invoice.Number, invoice.PatientName,
			map[string]interface{}{"restored_items": resp.RestoredItemIDs})
		return nil
	})
	if err != nil {
		return DeleteInvoiceResponse{}, err
	}

	if len(resp.RestoredItemIDs) > 0 {
		broadcast(s.hub, "catalog_updated", map[string]interface{}{"status": model.ItemAvailable, "count": len(resp.RestoredItemIDs)})
	}

	return resp, nil
}

func (s *invoiceService) RecordPayment(ctx context.Context, userID string, invoiceID string, req PaymentRequest) (InvoiceResponse, error) {
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}
	amount, err := parseOptionalAmount(req.Amount, "amount")
	if err != nil {
		return InvoiceResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByIDWithDetails(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("invoice not found: %w", findErr)
		}

		record := model.PaymentRecord{
			ID:        uuid.New(),
			InvoiceID: invoice.ID,
			Date:      time.Now(),
			Amount:    amount,
			Method:    req.Method,
			Account:   req.Account,
			Note:      req.Note,
		}

		ledger := ledgerFor(*invoice)
		if appendErr := ledger.Append(toLedgerPayment(record)); appendErr != nil {
			return appendErr
		}

		if addErr := s.invoiceRepo.AddPayment(txCtx, &record); addErr != nil {
			return fmt.Errorf("failed to record payment: %w", addErr)
		}

		s.writeAudit(txCtx, userID, model.ActionRecordPayment, invoice.Number, invoice.PatientName, req)
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	broadcast(s.hub, "payment_recorded", map[string]interface{}{"invoice_id": invoiceID})
	return s.GetInvoice(ctx, invoiceID)
}

func (s *invoiceService) RemovePayment(ctx context.Context, userID string, invoiceID, paymentID string) (InvoiceResponse, error) {
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}
	pid, err := uuid.Parse(paymentID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid payment id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		payment, findErr := s.invoiceRepo.FindPayment(txCtx, id, pid)
		if findErr != nil {
			return fmt.Errorf("payment not found: %w", findErr)
		}

		// Dropping an advance-funded receipt frees the booking again.
		if payment.BookingID != nil {
			if bookingErr := s.bookingRepo.UpdateStatus(txCtx, *payment.BookingID, model.BookingActive); bookingErr != nil {
				return fmt.Errorf("failed to reactivate booking: %w", bookingErr)
			}
		}

		if deleteErr := s.invoiceRepo.DeletePayment(txCtx, pid); deleteErr != nil {
			return fmt.Errorf("failed to remove payment: %w", deleteErr)
		}

		s.writeAudit(txCtx, userID, model.ActionRemovePayment, invoiceID, "",
			map[string]string{"payment_id": paymentID})
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return s.GetInvoice(ctx, invoiceID)
}

func (s *invoiceService) RedeemAdvance(ctx context.Context, userID string, invoiceID string, req RedeemAdvanceRequest) (InvoiceResponse, error) {
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByIDWithDetails(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("invoice not found: %w", findErr)
		}

		ledger := ledgerFor(*invoice)
		record, redeemErr := s.redeemInTx(txCtx, &ledger, req.BookingID, invoice.PatientID, time.Now())
		if redeemErr != nil {
			return redeemErr
		}
		record.InvoiceID = invoice.ID

		if addErr := s.invoiceRepo.AddPayment(txCtx, record); addErr != nil {
			return fmt.Errorf("failed to record redemption: %w", addErr)
		}

		s.writeAudit(txCtx, userID, model.ActionRedeemAdvance, invoice.Number, invoice.PatientName, req)
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	broadcast(s.hub, "payment_recorded", map[string]interface{}{"invoice_id": invoiceID})
	return s.GetInvoice(ctx, invoiceID)
}

// redeemInTx validates a booking, runs the redemption through the
// ledger, and flips the booking to CONSUMED. The returned record still
// needs its InvoiceID set when the invoice row does not exist yet.
func (s *invoiceService) redeemInTx(ctx context.Context, ledger *billing.Ledger, bookingID string, patientID *uuid.UUID, at time.Time) (*model.PaymentRecord, error) {
	bid, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id: %w", err)
	}
	booking, err := s.bookingRepo.FindByID(ctx, bid)
	if err != nil {
		return nil, fmt.Errorf("booking not found: %w", err)
	}
	if booking.Status != model.BookingActive {
		return nil, fmt.Errorf("booking is %s, only ACTIVE bookings can be redeemed", booking.Status)
	}
	if booking.PatientID != nil && patientID != nil && *booking.PatientID != *patientID {
		return nil, fmt.Errorf("booking belongs to a different patient")
	}

	paymentID := uuid.New()
	if err := ledger.RedeemAdvance(paymentID.String(), booking.ID.String(), booking.Amount, at); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, model.BookingConsumed); err != nil {
		return nil, fmt.Errorf("failed to consume booking: %w", err)
	}

	return &model.PaymentRecord{
		ID:        paymentID,
		Date:      at,
		Amount:    booking.Amount,
		Method:    billing.MethodAdvance,
		Note:      "Advance booking " + booking.ID.String(),
		BookingID: &booking.ID,
	}, nil
}

func (s *invoiceService) writeAudit(ctx context.Context, userID, action, entityID, entityName string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)
	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}
	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}
	// Best-effort audit log — don't fail the operation if logging fails
	_ = s.auditRepo.Log(ctx, &entry)
}

// --- Helpers ---

func parseOptionalAmount(value, field string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", field, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", field)
	}
	return amount, nil
}

func applyTotals(invoice *model.Invoice, totals billing.Totals) {
	invoice.Subtotal = totals.Subtotal
	invoice.LineDiscount = totals.LineDiscount
	invoice.GlobalAdjustment = totals.GlobalAdjustment
	invoice.TotalDiscount = totals.TotalDiscount
	invoice.TaxableTotal = totals.TaxableTotal
	invoice.CGSTTotal = totals.CGSTTotal
	invoice.SGSTTotal = totals.SGSTTotal
	invoice.IGSTTotal = totals.IGSTTotal
	invoice.TaxTotal = totals.TaxTotal
	invoice.GrandTotal = totals.GrandTotal
}

func toModelLine(line billing.PricedLine) model.InvoiceLine {
	modelLine := model.InvoiceLine{
		SourceID:     line.SourceID,
		Description:  line.Description,
		HSN:          line.HSN,
		UnitPrice:    line.UnitPrice,
		Discount:     line.Discount,
		TaxableValue: line.TaxableValue,
		GSTRatePct:   line.GSTRatePct,
		CGST:         line.CGST,
		SGST:         line.SGST,
		IGST:         line.IGST,
		LineTotal:    line.LineTotal,
	}
	if !billing.IsManualSource(line.SourceID) {
		if itemID, err := uuid.Parse(line.SourceID); err == nil {
			modelLine.ItemID = &itemID
		}
	}
	return modelLine
}

func toLedgerPayment(p model.PaymentRecord) billing.Payment {
	payment := billing.Payment{
		ID:      p.ID.String(),
		Date:    p.Date,
		Amount:  p.Amount,
		Method:  p.Method,
		Account: p.Account,
		Note:    p.Note,
	}
	if p.BookingID != nil {
		payment.BookingID = p.BookingID.String()
	}
	return payment
}

func ledgerFor(invoice model.Invoice) billing.Ledger {
	ledger := billing.Ledger{GrandTotal: invoice.GrandTotal}
	for _, p := range invoice.Payments {
		ledger.Payments = append(ledger.Payments, toLedgerPayment(p))
	}
	return ledger
}

func toPricedLines(lines []model.InvoiceLine) []billing.PricedLine {
	priced := make([]billing.PricedLine, 0, len(lines))
	for _, line := range lines {
		priced = append(priced, billing.PricedLine{
			SourceID:     line.SourceID,
			Description:  line.Description,
			HSN:          line.HSN,
			UnitPrice:    line.UnitPrice,
			Discount:     line.Discount,
			TaxableValue: line.TaxableValue,
			GSTRatePct:   line.GSTRatePct,
			CGST:         line.CGST,
			SGST:         line.SGST,
			IGST:         line.IGST,
			LineTotal:    line.LineTotal,
		})
	}
	return priced
}

// --- Mapping ---

func toInvoiceResponse(invoice model.Invoice) InvoiceResponse {
	ledger := ledgerFor(invoice)

	resp := InvoiceResponse{
		ID:               invoice.ID.String(),
		Number:           invoice.Number,
		Kind:             invoice.Kind,
		IssueDate:        invoice.IssueDate.Format("2006-01-02"),
		PatientName:      invoice.PatientName,
		PatientPhone:     invoice.PatientPhone,
		PatientAddress:   invoice.PatientAddress,
		PatientState:     invoice.PatientState,
		Subtotal:         invoice.Subtotal.StringFixed(2),
		LineDiscount:     invoice.LineDiscount.StringFixed(2),
		GlobalAdjustment: invoice.GlobalAdjustment.StringFixed(2),
		TotalDiscount:    invoice.TotalDiscount.StringFixed(2),
		TaxableTotal:     invoice.TaxableTotal.StringFixed(2),
		CGSTTotal:        invoice.CGSTTotal.StringFixed(2),
		SGSTTotal:        invoice.SGSTTotal.StringFixed(2),
		IGSTTotal:        invoice.IGSTTotal.StringFixed(2),
		TaxTotal:         invoice.TaxTotal.StringFixed(2),
		GrandTotal:       invoice.GrandTotal.StringFixed(2),
		AmountInWords:    billing.AmountInWords(invoice.GrandTotal),
		TotalPaid:        ledger.TotalPaid().StringFixed(2),
		BalanceDue:       ledger.BalanceDue().StringFixed(2),
		PaymentStatus:    ledger.Status(),
		Notes:            invoice.Notes,
		Warranty:         invoice.Warranty,
		CreatedAt:        invoice.CreatedAt.Format(time.RFC3339),
	}

	if invoice.PatientID != nil {
		id := invoice.PatientID.String()
		resp.PatientID = &id
	}

	for _, line := range invoice.Lines {
		lineResp := InvoiceLineResponse{
			SourceID:     line.SourceID,
			Description:  line.Description,
			HSN:          line.HSN,
			UnitPrice:    line.UnitPrice.StringFixed(2),
			Discount:     line.Discount.StringFixed(2),
			TaxableValue: line.TaxableValue.StringFixed(2),
			GSTRatePct:   line.GSTRatePct,
			CGST:         line.CGST.StringFixed(2),
			SGST:         line.SGST.StringFixed(2),
			IGST:         line.IGST.StringFixed(2),
			LineTotal:    line.LineTotal.StringFixed(2),
		}
		if line.ItemID != nil {
			id := line.ItemID.String()
			lineResp.ItemID = &id
			resp.ConsumedItemIDs = append(resp.ConsumedItemIDs, id)
		}
		resp.Lines = append(resp.Lines, lineResp)
	}

	for _, row := range billing.Summarize(toPricedLines(invoice.Lines)) {
		resp.RateSummary = append(resp.RateSummary, RateSummaryResponse{
			GSTRatePct:   row.GSTRatePct,
			TaxableValue: row.TaxableValue.StringFixed(2),
			CGST:         row.CGST.StringFixed(2),
			SGST:         row.SGST.StringFixed(2),
			IGST:         row.IGST.StringFixed(2),
		})
	}

	for _, p := range invoice.Payments {
		paymentResp := PaymentResponse{
			ID:      p.ID.String(),
			Date:    p.Date.Format("2006-01-02"),
			Amount:  p.Amount.StringFixed(2),
			Method:  p.Method,
			Account: p.Account,
			Note:    p.Note,
		}
		if p.BookingID != nil {
			id := p.BookingID.String()
			paymentResp.BookingID = &id
		}
		resp.Payments = append(resp.Payments, paymentResp)
	}

	return resp
}
