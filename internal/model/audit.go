package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateInvoice   = "CREATE_INVOICE"
	ActionDeleteInvoice   = "DELETE_INVOICE"
	ActionRecordPayment   = "RECORD_PAYMENT"
	ActionRemovePayment   = "REMOVE_PAYMENT"
	ActionRedeemAdvance   = "REDEEM_ADVANCE"
	ActionCreateQuotation = "CREATE_QUOTATION"
	ActionIssueNote       = "ISSUE_NOTE"
	ActionCreateBooking   = "CREATE_BOOKING"
	ActionCancelBooking   = "CANCEL_BOOKING"
	ActionCreateItem      = "CREATE_ITEM"
	ActionUpdateItem      = "UPDATE_ITEM"
	ActionDeleteItem      = "DELETE_ITEM"
)

// AuditLog tracks Who, What, and When for billing-critical changes.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable when written by an automated job
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/document number)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
