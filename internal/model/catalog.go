package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemStatus enum constants
const (
	ItemAvailable = "AVAILABLE"
	ItemSold      = "SOLD"
)

// CatalogItem is one sellable unit in stock (hearing aids are serialised,
// so one row is one physical device). Committing an invoice flips the
// consumed items to SOLD; deleting that invoice flips them back.
type CatalogItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Brand      string          `gorm:"type:varchar(255);not null" json:"brand"`
	Model      string          `gorm:"type:varchar(255);not null" json:"model"`
	SerialNo   string          `gorm:"type:varchar(100);uniqueIndex" json:"serial_no"`
	HSN        string          `gorm:"type:varchar(20)" json:"hsn"`
	GSTRatePct int             `gorm:"type:int;not null;default:18" json:"gst_rate_pct"`
	MRP        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"mrp"`
	Status     string          `gorm:"type:varchar(20);not null;default:'AVAILABLE';index" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}
