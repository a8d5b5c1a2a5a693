package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enum constants
const (
	MethodCash       = "CASH"
	MethodUPI        = "UPI"
	MethodTransfer   = "BANK_TRANSFER"
	MethodCheque     = "CHEQUE"
	MethodEMI        = "EMI"
	MethodCard       = "CARD"
	MethodAdvance    = "ADVANCE"
	MethodCreditNote = "CREDIT_NOTE"
)

// PaymentStatus enum constants
const (
	StatusPaid    = "PAID"
	StatusPartial = "PARTIAL"
	StatusUnpaid  = "UNPAID"
)

var paymentMethods = map[string]bool{
	MethodCash: true, MethodUPI: true, MethodTransfer: true,
	MethodCheque: true, MethodEMI: true, MethodCard: true,
	MethodAdvance: true, MethodCreditNote: true,
}

// ValidPaymentMethod reports whether method is a known payment method.
func ValidPaymentMethod(method string) bool {
	return paymentMethods[method]
}

// paidTolerance absorbs up to one rupee of rounding drift when deciding
// whether an invoice is settled.
var paidTolerance = decimal.NewFromInt(1)

// Payment is one receipt against an invoice. BookingID links a payment
// created by redeeming an advance booking back to that booking, so a
// booking can never be offered for redemption twice.
type Payment struct {
	ID        string
	Date      time.Time
	Amount    decimal.Decimal
	Method    string
	Account   string
	Note      string
	BookingID string
}

// Ledger is the payment history of one committed document. Balance and
// status are always derived from the current payment list and the grand
// total, never stored independently.
type Ledger struct {
	GrandTotal decimal.Decimal
	Payments   []Payment
}

// Append records a new payment. The amount must be positive and the
// method must be known.
func (l *Ledger) Append(p Payment) error {
	if !p.Amount.IsPositive() {
		return fmt.Errorf("payment amount must be positive, got %s", p.Amount)
	}
	if !ValidPaymentMethod(p.Method) {
		return fmt.Errorf("unknown payment method %q", p.Method)
	}
	l.Payments = append(l.Payments, p)
	return nil
}

// Remove drops the payment with the given id, e.g. when a receipt was
// entered in error.
func (l *Ledger) Remove(paymentID string) error {
	for i, p := range l.Payments {
		if p.ID == paymentID {
			l.Payments = append(l.Payments[:i], l.Payments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("payment %s not found", paymentID)
}

// TotalPaid sums all recorded payments.
func (l *Ledger) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// BalanceDue is the outstanding amount, floored at zero on overpayment.
func (l *Ledger) BalanceDue() decimal.Decimal {
	due := l.GrandTotal.Sub(l.TotalPaid())
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// Status classifies the ledger: PAID when the balance is within the
// one-rupee tolerance, PARTIAL when anything has been received, UNPAID
// otherwise.
func (l *Ledger) Status() string {
	if l.BalanceDue().LessThanOrEqual(paidTolerance) {
		return StatusPaid
	}
	if l.TotalPaid().IsPositive() {
		return StatusPartial
	}
	return StatusUnpaid
}

// RedeemedBookingIDs lists the advance bookings already consumed by this
// ledger's payments.
func (l *Ledger) RedeemedBookingIDs() []string {
	var ids []string
	for _, p := range l.Payments {
		if strings.TrimSpace(p.BookingID) != "" {
			ids = append(ids, p.BookingID)
		}
	}
	return ids
}

// RedeemAdvance appends a payment funded by an advance booking. The
// ledger rejects redeeming the same booking twice; flipping the booking
// record to consumed is the caller's job.
func (l *Ledger) RedeemAdvance(paymentID, bookingID string, amount decimal.Decimal, at time.Time) error {
	for _, id := range l.RedeemedBookingIDs() {
		if id == bookingID {
			return fmt.Errorf("advance booking %s already redeemed on this document", bookingID)
		}
	}
	return l.Append(Payment{
		ID:        paymentID,
		Date:      at,
		Amount:    amount,
		Method:    MethodAdvance,
		Note:      "Advance booking " + bookingID,
		BookingID: bookingID,
	})
}
