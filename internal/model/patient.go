package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient is the counterparty on billing documents. State drives the
// place-of-supply decision when an invoice is committed.
type Patient struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string         `gorm:"type:varchar(50);not null;index" json:"phone"`
	Email     string         `gorm:"type:varchar(255)" json:"email"`
	Address   string         `gorm:"type:text" json:"address"`
	State     string         `gorm:"type:varchar(100)" json:"state"`
	Age       *int           `gorm:"type:int" json:"age"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
