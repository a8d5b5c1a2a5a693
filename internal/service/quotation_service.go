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

// Quotations reuse the invoice pricing pipeline but never touch stock
// or payments; a quoted item stays AVAILABLE until an invoice consumes
// it.

type CreateQuotationRequest struct {
	PatientID        string              `json:"patient_id"`
	PatientName      string              `json:"patient_name"`
	PatientPhone     string              `json:"patient_phone"`
	PatientAddress   string              `json:"patient_address"`
	PatientState     string              `json:"patient_state"`
	StockLines       []StockLineRequest  `json:"stock_lines" binding:"dive"`
	ManualLines      []ManualLineRequest `json:"manual_lines" binding:"dive"`
	GlobalAdjustment string              `json:"global_adjustment"`
	ValidUntil       string              `json:"valid_until"`
	Notes            string              `json:"notes"`
}

type QuotationResponse struct {
	ID               string                `json:"id"`
	Number           string                `json:"number"`
	IssueDate        string                `json:"issue_date"`
	ValidUntil       string                `json:"valid_until,omitempty"`
	PatientID        *string               `json:"patient_id"`
	PatientName      string                `json:"patient_name"`
	PatientPhone     string                `json:"patient_phone"`
	PatientAddress   string                `json:"patient_address"`
	PatientState     string                `json:"patient_state"`
	Lines            []InvoiceLineResponse `json:"lines"`
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
	Notes            string                `json:"notes"`
	CreatedAt        string                `json:"created_at"`
}

type QuotationService interface {
	CreateQuotation(ctx context.Context, userID string, req CreateQuotationRequest) (QuotationResponse, error)
	GetQuotation(ctx context.Context, id string) (QuotationResponse, error)
	ListQuotations(ctx context.Context, page, limit int) ([]QuotationResponse, int64, error)
	DeleteQuotation(ctx context.Context, id string) error
}

type quotationService struct {
	quotationRepo repository.QuotationRepository
	catalogRepo   repository.CatalogRepository
	patientRepo   repository.PatientRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	homeState     string
}

func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	catalogRepo repository.CatalogRepository,
	patientRepo repository.PatientRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	homeState string,
) QuotationService {
	return &quotationService{
		quotationRepo: quotationRepo,
		catalogRepo:   catalogRepo,
		patientRepo:   patientRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		homeState:     homeState,
	}
}

func (s *quotationService) CreateQuotation(ctx context.Context, userID string, req CreateQuotationRequest) (QuotationResponse, error) {
	adjustment, err := parseOptionalAmount(req.GlobalAdjustment, "global_adjustment")
	if err != nil {
		return QuotationResponse{}, err
	}

	quotation := model.Quotation{
		IssueDate:      time.Now(),
		PatientName:    req.PatientName,
		PatientPhone:   req.PatientPhone,
		PatientAddress: req.PatientAddress,
		PatientState:   req.PatientState,
		Notes:          req.Notes,
	}

	if req.ValidUntil != "" {
		validUntil, parseErr := time.Parse("2006-01-02", req.ValidUntil)
		if parseErr != nil {
			return QuotationResponse{}, fmt.Errorf("invalid valid_until: %w", parseErr)
		}
		quotation.ValidUntil = &validUntil
	}

	if req.PatientID != "" {
		patientID, parseErr := uuid.Parse(req.PatientID)
		if parseErr != nil {
			return QuotationResponse{}, fmt.Errorf("invalid patient_id: %w", parseErr)
		}
		patient, findErr := s.patientRepo.FindByID(ctx, patientID)
		if findErr != nil {
			return QuotationResponse{}, fmt.Errorf("patient not found: %w", findErr)
		}
		quotation.PatientID = &patient.ID
		if quotation.PatientName == "" {
			quotation.PatientName = patient.Name
		}
		if quotation.PatientPhone == "" {
			quotation.PatientPhone = patient.Phone
		}
		if quotation.PatientAddress == "" {
			quotation.PatientAddress = patient.Address
		}
		if quotation.PatientState == "" {
			quotation.PatientState = patient.State
		}
	}

	if quotation.PatientName == "" {
		return QuotationResponse{}, fmt.Errorf("patient name is required")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		draft := billing.Draft{
			GlobalAdjustment: adjustment,
			InterState:       billing.InterState(quotation.PatientState, s.homeState),
		}

		// Quoted items are read without locking and are not required to
		// be AVAILABLE; a quote carries no reservation.
		for _, line := range req.StockLines {
			itemID, parseErr := uuid.Parse(line.ItemID)
			if parseErr != nil {
				return fmt.Errorf("invalid item_id %q: %w", line.ItemID, parseErr)
			}
			item, findErr := s.catalogRepo.FindByID(txCtx, itemID)
			if findErr != nil {
				return fmt.Errorf("catalog item %s not found: %w", line.ItemID, findErr)
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

		prefix := billing.PrefixFor(billing.FamilyQuotation, quotation.IssueDate)
		issued, listErr := s.quotationRepo.ListNumbersByPrefix(txCtx, prefix)
		if listErr != nil {
			return fmt.Errorf("failed to scan issued numbers: %w", listErr)
		}
		quotation.Number = billing.NextNumber(issued, prefix)

		quotation.Subtotal = built.Totals.Subtotal
		quotation.LineDiscount = built.Totals.LineDiscount
		quotation.GlobalAdjustment = built.Totals.GlobalAdjustment
		quotation.TotalDiscount = built.Totals.TotalDiscount
		quotation.TaxableTotal = built.Totals.TaxableTotal
		quotation.CGSTTotal = built.Totals.CGSTTotal
		quotation.SGSTTotal = built.Totals.SGSTTotal
		quotation.IGSTTotal = built.Totals.IGSTTotal
		quotation.TaxTotal = built.Totals.TaxTotal
		quotation.GrandTotal = built.Totals.GrandTotal

		for _, line := range built.Lines {
			quotationLine := model.QuotationLine{
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
				if itemID, parseErr := uuid.Parse(line.SourceID); parseErr == nil {
					quotationLine.ItemID = &itemID
				}
			}
			quotation.Lines = append(quotation.Lines, quotationLine)
		}

		if createErr := s.quotationRepo.Create(txCtx, &quotation); createErr != nil {
			return fmt.Errorf("failed to create quotation: %w", createErr)
		}

		s.writeAudit(txCtx, userID, quotation.Number, quotation.PatientName)
		return nil
	})
	if err != nil {
		return QuotationResponse{}, err
	}

	return s.GetQuotation(ctx, quotation.ID.String())
}

func (s *quotationService) GetQuotation(ctx context.Context, id string) (QuotationResponse, error) {
	quotationID, err := uuid.Parse(id)
	if err != nil {
		return QuotationResponse{}, fmt.Errorf("invalid quotation id: %w", err)
	}
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return QuotationResponse{}, fmt.Errorf("quotation not found: %w", err)
	}
	return toQuotationResponse(*quotation), nil
}

func (s *quotationService) ListQuotations(ctx context.Context, page, limit int) ([]QuotationResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	quotations, total, err := s.quotationRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch quotations: %w", err)
	}

	result := make([]QuotationResponse, 0, len(quotations))
	for _, q := range quotations {
		result = append(result, toQuotationResponse(q))
	}
	return result, total, nil
}

func (s *quotationService) DeleteQuotation(ctx context.Context, id string) error {
	quotationID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid quotation id: %w", err)
	}
	if err := s.quotationRepo.Delete(ctx, quotationID); err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	return nil
}

func (s *quotationService) writeAudit(ctx context.Context, userID, number, patientName string) {
	entry := model.AuditLog{
		Action:     model.ActionCreateQuotation,
		EntityID:   number,
		EntityName: patientName,
	}
	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}
	_ = s.auditRepo.Log(ctx, &entry)
}

func toQuotationResponse(quotation model.Quotation) QuotationResponse {
	resp := QuotationResponse{
		ID:               quotation.ID.String(),
		Number:           quotation.Number,
		IssueDate:        quotation.IssueDate.Format("2006-01-02"),
		PatientName:      quotation.PatientName,
		PatientPhone:     quotation.PatientPhone,
		PatientAddress:   quotation.PatientAddress,
		PatientState:     quotation.PatientState,
		Subtotal:         quotation.Subtotal.StringFixed(2),
		LineDiscount:     quotation.LineDiscount.StringFixed(2),
		GlobalAdjustment: quotation.GlobalAdjustment.StringFixed(2),
		TotalDiscount:    quotation.TotalDiscount.StringFixed(2),
		TaxableTotal:     quotation.TaxableTotal.StringFixed(2),
		CGSTTotal:        quotation.CGSTTotal.StringFixed(2),
		SGSTTotal:        quotation.SGSTTotal.StringFixed(2),
		IGSTTotal:        quotation.IGSTTotal.StringFixed(2),
		TaxTotal:         quotation.TaxTotal.StringFixed(2),
		GrandTotal:       quotation.GrandTotal.StringFixed(2),
		AmountInWords:    billing.AmountInWords(quotation.GrandTotal),
		Notes:            quotation.Notes,
		CreatedAt:        quotation.CreatedAt.Format(time.RFC3339),
	}

	if quotation.PatientID != nil {
		id := quotation.PatientID.String()
		resp.PatientID = &id
	}
	if quotation.ValidUntil != nil {
		resp.ValidUntil = quotation.ValidUntil.Format("2006-01-02")
	}

	var priced []billing.PricedLine
	for _, line := range quotation.Lines {
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
		}
		resp.Lines = append(resp.Lines, lineResp)

		priced = append(priced, billing.PricedLine{
			SourceID:     line.SourceID,
			TaxableValue: line.TaxableValue,
			GSTRatePct:   line.GSTRatePct,
			CGST:         line.CGST,
			SGST:         line.SGST,
			IGST:         line.IGST,
		})
	}

	for _, row := range billing.Summarize(priced) {
		resp.RateSummary = append(resp.RateSummary, RateSummaryResponse{
			GSTRatePct:   row.GSTRatePct,
			TaxableValue: row.TaxableValue.StringFixed(2),
			CGST:         row.CGST.StringFixed(2),
			SGST:         row.SGST.StringFixed(2),
			IGST:         row.IGST.StringFixed(2),
		})
	}

	return resp
}
