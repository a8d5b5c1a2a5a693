package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialNote kind constants
const (
	NoteCredit = "CREDIT"
	NoteDebit  = "DEBIT"
)

// FinancialNote is a standalone credit or debit note. It never posts
// against an invoice balance by itself; offsetting a balance is done by
// recording a CREDIT_NOTE payment on the invoice explicitly.
type FinancialNote struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Number      string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"number"`
	Kind        string          `gorm:"type:varchar(10);not null;index" json:"kind"` // CREDIT, DEBIT
	Date        time.Time       `gorm:"type:date;not null" json:"date"`
	PatientID   *uuid.UUID      `gorm:"type:uuid;index" json:"patient_id"`
	Patient     *Patient        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	PatientName string          `gorm:"type:varchar(255);not null" json:"patient_name"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Reason      string          `gorm:"type:text" json:"reason"`
	InvoiceID   *uuid.UUID      `gorm:"type:uuid;index" json:"invoice_id"`
	CreatedAt   time.Time       `json:"created_at"`
}
