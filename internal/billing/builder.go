package billing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ManualSourcePrefix marks lines that were typed in by hand (services,
// accessories without a stock record). Lines carrying this prefix never
// consume catalog stock.
const ManualSourcePrefix = "SVC-"

// ManualSourceID builds a synthetic source identifier for the n-th
// manual line on a draft.
func ManualSourceID(n int) string {
	return fmt.Sprintf("%s%03d", ManualSourcePrefix, n)
}

// IsManualSource reports whether a line source identifier denotes a
// manual (non-stock) line.
func IsManualSource(sourceID string) bool {
	return strings.HasPrefix(sourceID, ManualSourcePrefix)
}

// DraftLine is one selected product or service while a document is being
// composed. Discount is an absolute currency amount off the unit price.
type DraftLine struct {
	SourceID    string
	Description string
	HSN         string
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	GSTRatePct  int
}

// Draft is the caller-owned composition state handed to Build. Building
// never mutates the draft.
type Draft struct {
	Lines            []DraftLine
	GlobalAdjustment decimal.Decimal
	InterState       bool
}

// PricedLine is a draft line after tax computation, ready to persist.
type PricedLine struct {
	SourceID     string
	Description  string
	HSN          string
	UnitPrice    decimal.Decimal
	Discount     decimal.Decimal
	TaxableValue decimal.Decimal
	GSTRatePct   int
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	IGST         decimal.Decimal
	LineTotal    decimal.Decimal
}

// Totals aggregates a priced document. GrandTotal is floored at zero
// when the global adjustment exceeds the taxed total.
type Totals struct {
	Subtotal         decimal.Decimal
	LineDiscount     decimal.Decimal
	GlobalAdjustment decimal.Decimal
	TotalDiscount    decimal.Decimal
	TaxableTotal     decimal.Decimal
	CGSTTotal        decimal.Decimal
	SGSTTotal        decimal.Decimal
	IGSTTotal        decimal.Decimal
	TaxTotal         decimal.Decimal
	GrandTotal       decimal.Decimal
}

// RateSummary is one row of the per-rate GST breakup table required on
// the printed invoice.
type RateSummary struct {
	GSTRatePct   int
	TaxableValue decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	IGST         decimal.Decimal
}

// BuildResult is the complete priced document produced from a draft.
type BuildResult struct {
	Lines       []PricedLine
	Totals      Totals
	RateSummary []RateSummary
}

// Build prices a draft: per-line taxable value and GST split, document
// totals, and the per-rate summary. It is a pure function — identical
// drafts always produce identical results. An empty draft yields a
// zero-total document, which is valid (e.g. a pure-advance receipt).
// A discount larger than the unit price clamps the taxable value to
// zero rather than failing; that is accepted data entry.
func Build(d Draft) (BuildResult, error) {
	res := BuildResult{Lines: make([]PricedLine, 0, len(d.Lines))}

	for i, line := range d.Lines {
		if strings.TrimSpace(line.Description) == "" {
			return BuildResult{}, fmt.Errorf("line %d: description is required", i+1)
		}

		taxable := line.UnitPrice.Sub(line.Discount)
		if taxable.IsNegative() {
			taxable = decimal.Zero
		}

		split, err := SplitTax(taxable, line.GSTRatePct, d.InterState)
		if err != nil {
			return BuildResult{}, fmt.Errorf("line %d: %w", i+1, err)
		}

		priced := PricedLine{
			SourceID:     line.SourceID,
			Description:  line.Description,
			HSN:          line.HSN,
			UnitPrice:    line.UnitPrice,
			Discount:     line.Discount,
			TaxableValue: taxable,
			GSTRatePct:   line.GSTRatePct,
			CGST:         split.CGST,
			SGST:         split.SGST,
			IGST:         split.IGST,
			LineTotal:    taxable.Add(split.Total()),
		}
		res.Lines = append(res.Lines, priced)

		res.Totals.Subtotal = res.Totals.Subtotal.Add(line.UnitPrice)
		res.Totals.LineDiscount = res.Totals.LineDiscount.Add(line.Discount)
		res.Totals.TaxableTotal = res.Totals.TaxableTotal.Add(taxable)
		res.Totals.CGSTTotal = res.Totals.CGSTTotal.Add(split.CGST)
		res.Totals.SGSTTotal = res.Totals.SGSTTotal.Add(split.SGST)
		res.Totals.IGSTTotal = res.Totals.IGSTTotal.Add(split.IGST)
	}

	res.Totals.GlobalAdjustment = d.GlobalAdjustment
	res.Totals.TotalDiscount = res.Totals.LineDiscount.Add(d.GlobalAdjustment)
	res.Totals.TaxTotal = res.Totals.CGSTTotal.Add(res.Totals.SGSTTotal).Add(res.Totals.IGSTTotal)

	grand := res.Totals.TaxableTotal.Add(res.Totals.TaxTotal).Sub(d.GlobalAdjustment)
	if grand.IsNegative() {
		grand = decimal.Zero
	}
	res.Totals.GrandTotal = grand
	res.RateSummary = Summarize(res.Lines)

	return res, nil
}

// Summarize groups priced lines by GST rate for the compliance breakup
// table, ordered by rate ascending. It works on freshly built and on
// persisted lines alike.
func Summarize(lines []PricedLine) []RateSummary {
	byRate := make(map[int]*RateSummary)
	for _, line := range lines {
		row, ok := byRate[line.GSTRatePct]
		if !ok {
			row = &RateSummary{GSTRatePct: line.GSTRatePct}
			byRate[line.GSTRatePct] = row
		}
		row.TaxableValue = row.TaxableValue.Add(line.TaxableValue)
		row.CGST = row.CGST.Add(line.CGST)
		row.SGST = row.SGST.Add(line.SGST)
		row.IGST = row.IGST.Add(line.IGST)
	}

	summary := make([]RateSummary, 0, len(byRate))
	for _, row := range byRate {
		summary = append(summary, *row)
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].GSTRatePct < summary[j].GSTRatePct
	})
	return summary
}
