package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DocFamily identifies a document numbering series. Each family has its
// own prefix so sequences never collide across families.
type DocFamily string

const (
	FamilySalesInvoice   DocFamily = "SALES_INVOICE"
	FamilyServiceInvoice DocFamily = "SERVICE_INVOICE"
	FamilyCreditNote     DocFamily = "CREDIT_NOTE"
	FamilyDebitNote      DocFamily = "DEBIT_NOTE"
	FamilyQuotation      DocFamily = "QUOTATION"
)

// FinancialYear returns the Indian financial-year label ("24-25") for t.
// The year boundary is April 1: months April onward belong to the year
// starting that April.
func FinancialYear(t time.Time) string {
	year := t.Year()
	if t.Month() < time.April {
		year--
	}
	return fmt.Sprintf("%02d-%02d", year%100, (year+1)%100)
}

// PrefixFor builds the document-number prefix for a family within the
// financial year containing t. The exact shapes are fixed for statutory
// continuity with previously issued documents.
func PrefixFor(family DocFamily, t time.Time) string {
	fy := FinancialYear(t)
	switch family {
	case FamilySalesInvoice:
		return "BRRPL-IM-HA-" + fy + "-"
	case FamilyServiceInvoice:
		return "BRRPL-IM-SR-" + fy + "-"
	case FamilyCreditNote:
		return "BRRPL/CN/" + fy + "/"
	case FamilyDebitNote:
		return "BRRPL/DN/" + fy + "/"
	case FamilyQuotation:
		return "BRRPL/QT/" + fy + "/"
	}
	return ""
}

// NextNumber scans the existing document numbers for the given prefix,
// finds the highest trailing sequence, and returns the next number
// zero-padded to three digits. The caller must pass the complete set of
// issued numbers for the family; uniqueness under concurrent commits is
// the storage layer's responsibility.
func NextNumber(existing []string, prefix string) string {
	max := 0
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if n, ok := trailingSeq(id); ok && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, max+1)
}

// trailingSeq extracts the numeric segment after the last separator.
func trailingSeq(id string) (int, bool) {
	idx := strings.LastIndexAny(id, "-/")
	if idx < 0 || idx == len(id)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
