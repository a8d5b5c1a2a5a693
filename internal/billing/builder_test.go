package billing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestBuildIntraStateSingleLine(t *testing.T) {
	draft := Draft{
		Lines: []DraftLine{{
			SourceID:    "item-1",
			Description: "Hearing aid, right ear",
			HSN:         "9021",
			UnitPrice:   d(10000),
			GSTRatePct:  18,
		}},
	}

	res, err := Build(draft)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(res.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(res.Lines))
	}
	line := res.Lines[0]
	if !line.CGST.Equal(d(900)) || !line.SGST.Equal(d(900)) || !line.IGST.IsZero() {
		t.Fatalf("tax split = %s/%s/%s, want 900/900/0", line.CGST, line.SGST, line.IGST)
	}
	if !line.LineTotal.Equal(line.TaxableValue.Add(line.CGST).Add(line.SGST).Add(line.IGST)) {
		t.Fatalf("line total %s does not equal taxable+tax", line.LineTotal)
	}
	if !res.Totals.GrandTotal.Equal(d(11800)) {
		t.Fatalf("grand total = %s, want 11800", res.Totals.GrandTotal)
	}
}

func TestBuildInterStateSingleLine(t *testing.T) {
	draft := Draft{
		Lines: []DraftLine{{
			SourceID:    "item-1",
			Description: "Hearing aid, right ear",
			UnitPrice:   d(10000),
			GSTRatePct:  18,
		}},
		InterState: true,
	}

	res, err := Build(draft)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	line := res.Lines[0]
	if !line.IGST.Equal(d(1800)) || !line.CGST.IsZero() || !line.SGST.IsZero() {
		t.Fatalf("tax split = %s/%s/%s, want 0/0/1800", line.CGST, line.SGST, line.IGST)
	}
	if !res.Totals.GrandTotal.Equal(d(11800)) {
		t.Fatalf("grand total = %s, want 11800", res.Totals.GrandTotal)
	}
}

func TestBuildDiscountExceedsPriceClampsToZero(t *testing.T) {
	draft := Draft{
		Lines: []DraftLine{{
			SourceID:    ManualSourceID(1),
			Description: "Fitting charges",
			UnitPrice:   d(500),
			Discount:    d(800),
			GSTRatePct:  18,
		}},
	}

	res, err := Build(draft)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	line := res.Lines[0]
	if !line.TaxableValue.IsZero() {
		t.Fatalf("taxable = %s, want 0", line.TaxableValue)
	}
	if !line.LineTotal.IsZero() {
		t.Fatalf("line total = %s, want 0", line.LineTotal)
	}
	if !res.Totals.Subtotal.Equal(d(500)) {
		t.Fatalf("subtotal = %s, want 500 (pre-discount)", res.Totals.Subtotal)
	}
}

func TestBuildEmptyDraft(t *testing.T) {
	res, err := Build(Draft{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !res.Totals.GrandTotal.IsZero() || !res.Totals.TaxTotal.IsZero() {
		t.Fatalf("expected zero totals, got grand=%s tax=%s", res.Totals.GrandTotal, res.Totals.TaxTotal)
	}
	if len(res.RateSummary) != 0 {
		t.Fatalf("expected empty rate summary, got %d rows", len(res.RateSummary))
	}
}

func TestBuildGlobalAdjustmentFloorsGrandTotal(t *testing.T) {
	draft := Draft{
		Lines: []DraftLine{{
			SourceID:    ManualSourceID(1),
			Description: "Ear mould",
			UnitPrice:   d(1000),
			GSTRatePct:  0,
		}},
		GlobalAdjustment: d(5000),
	}

	res, err := Build(draft)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !res.Totals.GrandTotal.IsZero() {
		t.Fatalf("grand total = %s, want 0", res.Totals.GrandTotal)
	}
	if !res.Totals.TotalDiscount.Equal(d(5000)) {
		t.Fatalf("total discount = %s, want 5000", res.Totals.TotalDiscount)
	}
}

func TestBuildRateSummaryGroupsByRate(t *testing.T) {
	draft := Draft{
		Lines: []DraftLine{
			{SourceID: "item-1", Description: "Device A", UnitPrice: d(10000), GSTRatePct: 18},
			{SourceID: "item-2", Description: "Device B", UnitPrice: d(20000), GSTRatePct: 18},
			{SourceID: ManualSourceID(1), Description: "Batteries", UnitPrice: d(500), GSTRatePct: 12},
			{SourceID: ManualSourceID(2), Description: "Consultation", UnitPrice: d(800), GSTRatePct: 0},
		},
	}

	res, err := Build(draft)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(res.RateSummary) != 3 {
		t.Fatalf("expected 3 rate rows, got %d", len(res.RateSummary))
	}
	if res.RateSummary[0].GSTRatePct != 0 || res.RateSummary[1].GSTRatePct != 12 || res.RateSummary[2].GSTRatePct != 18 {
		t.Fatalf("rate rows not sorted ascending: %+v", res.RateSummary)
	}
	row18 := res.RateSummary[2]
	if !row18.TaxableValue.Equal(d(30000)) {
		t.Fatalf("18%% taxable = %s, want 30000", row18.TaxableValue)
	}
	if !row18.CGST.Equal(d(2700)) || !row18.SGST.Equal(d(2700)) {
		t.Fatalf("18%% cgst/sgst = %s/%s, want 2700/2700", row18.CGST, row18.SGST)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	draft := Draft{
		Lines: []DraftLine{
			{SourceID: "item-1", Description: "Device A", UnitPrice: d(33333), Discount: d(333), GSTRatePct: 18},
			{SourceID: ManualSourceID(1), Description: "Service", UnitPrice: d(777), GSTRatePct: 5},
		},
		GlobalAdjustment: d(100),
	}

	a, err := Build(draft)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	b, err := Build(draft)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !a.Totals.GrandTotal.Equal(b.Totals.GrandTotal) || !a.Totals.TaxTotal.Equal(b.Totals.TaxTotal) {
		t.Fatalf("same draft produced different totals: %+v vs %+v", a.Totals, b.Totals)
	}
}

func TestBuildRejectsBlankDescription(t *testing.T) {
	draft := Draft{Lines: []DraftLine{{SourceID: ManualSourceID(1), UnitPrice: d(100), GSTRatePct: 18, Description: "  "}}}
	if _, err := Build(draft); err == nil {
		t.Fatal("expected error for blank description")
	}
}

func TestManualSourceID(t *testing.T) {
	id := ManualSourceID(3)
	if id != "SVC-003" {
		t.Fatalf("got %s, want SVC-003", id)
	}
	if !IsManualSource(id) {
		t.Fatal("manual id not recognised")
	}
	if IsManualSource("6f1f5f1e-item") {
		t.Fatal("stock id misclassified as manual")
	}
}
