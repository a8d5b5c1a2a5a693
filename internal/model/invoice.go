package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice kind constants — sales (hardware) and service invoices run on
// separate statutory number series.
const (
	InvoiceKindSales   = "SALES"
	InvoiceKindService = "SERVICE"
)

// Invoice is a committed billing document: header snapshot, priced
// lines, and the payment ledger. Number is the statutory sequential ID
// assigned at commit time and never reused.
type Invoice struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Number    string     `gorm:"type:varchar(40);uniqueIndex;not null" json:"number"`
	Kind      string     `gorm:"type:varchar(20);not null;index" json:"kind"` // SALES, SERVICE
	IssueDate time.Time  `gorm:"type:date;not null;index" json:"issue_date"`
	PatientID *uuid.UUID `gorm:"type:uuid;index" json:"patient_id"`
	Patient   *Patient   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`

	// Counterparty snapshot — frozen at commit so later patient edits
	// never change an issued document.
	PatientName    string `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientPhone   string `gorm:"type:varchar(50);not null" json:"patient_phone"`
	PatientAddress string `gorm:"type:text" json:"patient_address"`
	PatientState   string `gorm:"type:varchar(100)" json:"patient_state"`

	Lines    []InvoiceLine   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lines"`
	Payments []PaymentRecord `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"payments"`

	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"subtotal"`
	LineDiscount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"line_discount"`
	GlobalAdjustment decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"global_adjustment"`
	TotalDiscount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_discount"`
	TaxableTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"taxable_total"`
	CGSTTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cgst_total"`
	SGSTTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"sgst_total"`
	IGSTTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"igst_total"`
	TaxTotal         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_total"`
	GrandTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"grand_total"`

	Notes     string    `gorm:"type:text" json:"notes"`
	Warranty  string    `gorm:"type:text" json:"warranty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceLine is one priced line, immutable once the invoice is
// committed. ItemID is set only for stock-backed lines; manual lines
// carry a synthetic SourceID instead.
type InvoiceLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	SourceID     string          `gorm:"type:varchar(60);not null" json:"source_id"`
	ItemID       *uuid.UUID      `gorm:"type:uuid;index" json:"item_id"`
	Description  string          `gorm:"type:varchar(255);not null" json:"description"`
	HSN          string          `gorm:"type:varchar(20)" json:"hsn"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Discount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	TaxableValue decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"taxable_value"`
	GSTRatePct   int             `gorm:"type:int;not null" json:"gst_rate_pct"`
	CGST         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cgst"`
	SGST         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"sgst"`
	IGST         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"igst"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"line_total"`
}

// PaymentRecord is one receipt against an invoice. BookingID is set
// when the payment was funded by redeeming an advance booking; the
// column is the authoritative spent-marker for that booking.
type PaymentRecord struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Date      time.Time       `gorm:"type:date;not null" json:"date"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Method    string          `gorm:"type:varchar(20);not null" json:"method"`
	Account   string          `gorm:"type:varchar(100)" json:"account"`
	Note      string          `gorm:"type:text" json:"note"`
	BookingID *uuid.UUID      `gorm:"type:uuid;index" json:"booking_id"`
	CreatedAt time.Time       `json:"created_at"`
}
