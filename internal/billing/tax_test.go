package billing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplitTaxIntraState(t *testing.T) {
	split, err := SplitTax(decimal.NewFromInt(10000), 18, false)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if !split.CGST.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("cgst = %s, want 900", split.CGST)
	}
	if !split.SGST.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("sgst = %s, want 900", split.SGST)
	}
	if !split.IGST.IsZero() {
		t.Fatalf("igst = %s, want 0", split.IGST)
	}
	if !split.Total().Equal(decimal.NewFromInt(1800)) {
		t.Fatalf("total = %s, want 1800", split.Total())
	}
}

func TestSplitTaxInterState(t *testing.T) {
	split, err := SplitTax(decimal.NewFromInt(10000), 18, true)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if !split.IGST.Equal(decimal.NewFromInt(1800)) {
		t.Fatalf("igst = %s, want 1800", split.IGST)
	}
	if !split.CGST.IsZero() || !split.SGST.IsZero() {
		t.Fatalf("cgst/sgst = %s/%s, want 0/0", split.CGST, split.SGST)
	}
}

func TestSplitTaxZeroRate(t *testing.T) {
	split, err := SplitTax(decimal.NewFromInt(5000), 0, false)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if !split.Total().IsZero() {
		t.Fatalf("total = %s, want 0", split.Total())
	}
}

func TestSplitTaxRejectsUnknownRate(t *testing.T) {
	if _, err := SplitTax(decimal.NewFromInt(100), 28, false); err == nil {
		t.Fatal("expected error for unsupported rate")
	}
}

func TestInterState(t *testing.T) {
	cases := []struct {
		counterparty string
		home         string
		want         bool
	}{
		{"Karnataka", "Karnataka", false},
		{" Karnataka ", "Karnataka", false},
		{"Kerala", "Karnataka", true},
		{"", "Karnataka", false},
		{"   ", "Karnataka", false},
	}
	for _, tc := range cases {
		if got := InterState(tc.counterparty, tc.home); got != tc.want {
			t.Errorf("InterState(%q, %q) = %v, want %v", tc.counterparty, tc.home, got, tc.want)
		}
	}
}
