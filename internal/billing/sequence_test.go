package billing

import (
	"testing"
	"time"
)

func TestFinancialYear(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2024-04-01", "24-25"},
		{"2024-12-15", "24-25"},
		{"2025-03-31", "24-25"},
		{"2025-04-01", "25-26"},
		{"2024-01-10", "23-24"},
	}
	for _, tc := range cases {
		d, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.date, err)
		}
		if got := FinancialYear(d); got != tc.want {
			t.Errorf("FinancialYear(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}
}

func TestPrefixFor(t *testing.T) {
	at, _ := time.Parse("2006-01-02", "2024-07-01")
	cases := []struct {
		family DocFamily
		want   string
	}{
		{FamilySalesInvoice, "BRRPL-IM-HA-24-25-"},
		{FamilyServiceInvoice, "BRRPL-IM-SR-24-25-"},
		{FamilyCreditNote, "BRRPL/CN/24-25/"},
		{FamilyDebitNote, "BRRPL/DN/24-25/"},
		{FamilyQuotation, "BRRPL/QT/24-25/"},
	}
	for _, tc := range cases {
		if got := PrefixFor(tc.family, at); got != tc.want {
			t.Errorf("PrefixFor(%s) = %s, want %s", tc.family, got, tc.want)
		}
	}
}

func TestNextNumberStartsAtOne(t *testing.T) {
	got := NextNumber(nil, "BRRPL-IM-HA-24-25-")
	if got != "BRRPL-IM-HA-24-25-001" {
		t.Fatalf("got %s, want BRRPL-IM-HA-24-25-001", got)
	}
}

func TestNextNumberMonotonic(t *testing.T) {
	prefix := "BRRPL-IM-HA-24-25-"
	var issued []string
	for i := 1; i <= 5; i++ {
		next := NextNumber(issued, prefix)
		want := prefix + "00" + string(rune('0'+i))
		if next != want {
			t.Fatalf("step %d: got %s, want %s", i, next, want)
		}
		issued = append(issued, next)
	}
}

func TestNextNumberIgnoresOtherPrefixes(t *testing.T) {
	existing := []string{
		"BRRPL-IM-HA-24-25-006",
		"BRRPL-IM-SR-24-25-042",
		"BRRPL/CN/24-25/099",
		"BRRPL-IM-HA-23-24-120",
	}
	got := NextNumber(existing, "BRRPL-IM-HA-24-25-")
	if got != "BRRPL-IM-HA-24-25-007" {
		t.Fatalf("got %s, want BRRPL-IM-HA-24-25-007", got)
	}
}

func TestNextNumberSkipsMalformed(t *testing.T) {
	existing := []string{"BRRPL-IM-HA-24-25-abc", "BRRPL-IM-HA-24-25-002"}
	got := NextNumber(existing, "BRRPL-IM-HA-24-25-")
	if got != "BRRPL-IM-HA-24-25-003" {
		t.Fatalf("got %s, want BRRPL-IM-HA-24-25-003", got)
	}
}
