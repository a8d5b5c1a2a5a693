package billing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "Rupees Only"},
		{1, "One Rupees Only"},
		{19, "Nineteen Rupees Only"},
		{20, "Twenty Rupees Only"},
		{45, "Forty Five Rupees Only"},
		{100, "One Hundred Rupees Only"},
		{567, "Five Hundred and Sixty Seven Rupees Only"},
		{1000, "One Thousand Rupees Only"},
		{11800, "Eleven Thousand Eight Hundred Rupees Only"},
		{100001, "One Lakh and One Rupees Only"},
		{1500000, "Fifteen Lakh Rupees Only"},
		{1234567, "Twelve Lakh Thirty Four Thousand Five Hundred and Sixty Seven Rupees Only"},
		{10000000, "One Crore Rupees Only"},
		{23456789, "Two Crore Thirty Four Lakh Fifty Six Thousand Seven Hundred and Eighty Nine Rupees Only"},
		{1000000000, "One Hundred Crore Rupees Only"},
		{1234567890, "One Hundred and Twenty Three Crore Forty Five Lakh Sixty Seven Thousand Eight Hundred and Ninety Rupees Only"},
	}
	for _, tc := range cases {
		if got := AmountInWords(decimal.NewFromInt(tc.amount)); got != tc.want {
			t.Errorf("AmountInWords(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestAmountInWordsDiscardsPaise(t *testing.T) {
	amt, _ := decimal.NewFromString("1500.75")
	got := AmountInWords(amt)
	want := "One Thousand Five Hundred Rupees Only"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
