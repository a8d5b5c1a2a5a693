package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus enum constants
const (
	BookingActive    = "ACTIVE"
	BookingConsumed  = "CONSUMED"
	BookingCancelled = "CANCELLED"
)

// AdvanceBooking is a pre-payment token redeemable as one payment on
// one invoice. PatientID may be nil while the booking predates a formal
// patient record; the name/phone snapshot identifies it until then.
type AdvanceBooking struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID    *uuid.UUID      `gorm:"type:uuid;index" json:"patient_id"`
	Patient      *Patient        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	PatientName  string          `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientPhone string          `gorm:"type:varchar(50)" json:"patient_phone"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Status       string          `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	Note         string          `gorm:"type:text" json:"note"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
