package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLedgerPartialThenPaid(t *testing.T) {
	l := &Ledger{GrandTotal: d(11800)}

	if err := l.Append(Payment{ID: "p1", Amount: d(5000), Method: MethodCash}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if !l.BalanceDue().Equal(d(6800)) {
		t.Fatalf("balance = %s, want 6800", l.BalanceDue())
	}
	if l.Status() != StatusPartial {
		t.Fatalf("status = %s, want PARTIAL", l.Status())
	}

	if err := l.Append(Payment{ID: "p2", Amount: d(6800), Method: MethodUPI}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if !l.BalanceDue().IsZero() {
		t.Fatalf("balance = %s, want 0", l.BalanceDue())
	}
	if l.Status() != StatusPaid {
		t.Fatalf("status = %s, want PAID", l.Status())
	}
}

func TestLedgerUnpaid(t *testing.T) {
	l := &Ledger{GrandTotal: d(5000)}
	if l.Status() != StatusUnpaid {
		t.Fatalf("status = %s, want UNPAID", l.Status())
	}
	if !l.BalanceDue().Equal(d(5000)) {
		t.Fatalf("balance = %s, want 5000", l.BalanceDue())
	}
}

func TestLedgerOneRupeeTolerance(t *testing.T) {
	l := &Ledger{GrandTotal: d(1000)}
	if err := l.Append(Payment{ID: "p1", Amount: d(999), Method: MethodCard}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if l.Status() != StatusPaid {
		t.Fatalf("status = %s, want PAID within one-rupee tolerance", l.Status())
	}
}

func TestLedgerOverpaymentFloorsBalance(t *testing.T) {
	l := &Ledger{GrandTotal: d(1000)}
	if err := l.Append(Payment{ID: "p1", Amount: d(1500), Method: MethodCash}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if !l.BalanceDue().IsZero() {
		t.Fatalf("balance = %s, want 0", l.BalanceDue())
	}
}

func TestLedgerRejectsNonPositiveAmount(t *testing.T) {
	l := &Ledger{GrandTotal: d(1000)}
	if err := l.Append(Payment{ID: "p1", Amount: decimal.Zero, Method: MethodCash}); err == nil {
		t.Fatal("expected error for zero amount")
	}
	if err := l.Append(Payment{ID: "p2", Amount: d(-5), Method: MethodCash}); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestLedgerRejectsUnknownMethod(t *testing.T) {
	l := &Ledger{GrandTotal: d(1000)}
	if err := l.Append(Payment{ID: "p1", Amount: d(100), Method: "BARTER"}); err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestLedgerRemoveRecomputes(t *testing.T) {
	l := &Ledger{GrandTotal: d(1000)}
	if err := l.Append(Payment{ID: "p1", Amount: d(600), Method: MethodCash}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Append(Payment{ID: "p2", Amount: d(400), Method: MethodCash}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if l.Status() != StatusPaid {
		t.Fatalf("status = %s, want PAID", l.Status())
	}

	if err := l.Remove("p2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !l.BalanceDue().Equal(d(400)) {
		t.Fatalf("balance = %s, want 400", l.BalanceDue())
	}
	if l.Status() != StatusPartial {
		t.Fatalf("status = %s, want PARTIAL", l.Status())
	}

	if err := l.Remove("missing"); err == nil {
		t.Fatal("expected error removing unknown payment")
	}
}

func TestLedgerRedeemAdvance(t *testing.T) {
	l := &Ledger{GrandTotal: d(10000)}
	at := time.Now()

	if err := l.RedeemAdvance("p1", "bk-1", d(2000), at); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if got := l.RedeemedBookingIDs(); len(got) != 1 || got[0] != "bk-1" {
		t.Fatalf("redeemed ids = %v, want [bk-1]", got)
	}
	if l.Payments[0].Method != MethodAdvance {
		t.Fatalf("method = %s, want ADVANCE", l.Payments[0].Method)
	}

	// Same booking must never be spent twice.
	if err := l.RedeemAdvance("p2", "bk-1", d(2000), at); err == nil {
		t.Fatal("expected error on double redemption")
	}
}

func TestLedgerZeroTotalIsPaid(t *testing.T) {
	l := &Ledger{}
	if l.Status() != StatusPaid {
		t.Fatalf("status = %s, want PAID for zero-total document", l.Status())
	}
}
