// Package billing implements the invoice computation core: GST splitting,
// draft pricing, the payment ledger, document sequencing, and the
// amount-in-words formatter. Everything in this package is pure — no
// database access, no globals — so services can call it from inside or
// outside a transaction.
package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// GST slabs accepted on a line. Zero-rated supplies are valid.
var gstRates = map[int]bool{0: true, 5: true, 12: true, 18: true}

// ValidGSTRate reports whether ratePct is one of the supported GST slabs.
func ValidGSTRate(ratePct int) bool {
	return gstRates[ratePct]
}

// TaxSplit carries the per-line tax breakup. Exactly one of the
// CGST/SGST pair or IGST is non-zero for a taxed line, never both.
type TaxSplit struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
	IGST decimal.Decimal
}

// Total returns the combined tax of the split.
func (t TaxSplit) Total() decimal.Decimal {
	return t.CGST.Add(t.SGST).Add(t.IGST)
}

// InterState decides the place of supply by comparing the counterparty's
// state against the clinic's home state. A blank counterparty state is
// treated as local supply.
func InterState(counterpartyState, homeState string) bool {
	cp := strings.TrimSpace(counterpartyState)
	if cp == "" {
		return false
	}
	return cp != strings.TrimSpace(homeState)
}

// SplitTax computes the GST on a taxable value and splits it into
// CGST+SGST halves for local supply or a single IGST amount for
// inter-state supply. No rounding is applied here; callers round only
// when rendering.
func SplitTax(taxable decimal.Decimal, ratePct int, interState bool) (TaxSplit, error) {
	if !ValidGSTRate(ratePct) {
		return TaxSplit{}, fmt.Errorf("unsupported GST rate %d%%", ratePct)
	}

	tax := taxable.Mul(decimal.NewFromInt(int64(ratePct))).Div(decimal.NewFromInt(100))
	if interState {
		return TaxSplit{IGST: tax}, nil
	}
	half := tax.Div(decimal.NewFromInt(2))
	return TaxSplit{CGST: half, SGST: half}, nil
}
