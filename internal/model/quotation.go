package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quotation shares the invoice header shape but carries no payment
// ledger and consumes no stock. Its numbers come from the QT series.
type Quotation struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Number     string     `gorm:"type:varchar(40);uniqueIndex;not null" json:"number"`
	IssueDate  time.Time  `gorm:"type:date;not null;index" json:"issue_date"`
	ValidUntil *time.Time `gorm:"type:date" json:"valid_until,omitempty"`
	PatientID  *uuid.UUID `gorm:"type:uuid;index" json:"patient_id"`
	Patient    *Patient   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`

	PatientName    string `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientPhone   string `gorm:"type:varchar(50)" json:"patient_phone"`
	PatientAddress string `gorm:"type:text" json:"patient_address"`
	PatientState   string `gorm:"type:varchar(100)" json:"patient_state"`

	Lines []QuotationLine `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"lines"`

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

// QuotationLine mirrors InvoiceLine for quoted documents.
type QuotationLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	QuotationID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"quotation_id"`
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
