package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var unitWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tenWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// AmountInWords renders an amount as the statutory "amount in words"
// line using the Indian numbering system (crore/lakh/thousand/hundred).
// Paise are discarded; a zero amount renders as "Rupees Only".
func AmountInWords(amount decimal.Decimal) string {
	n := amount.IntPart()
	if n <= 0 {
		return "Rupees Only"
	}
	return numberWords(n) + " Rupees Only"
}

// numberWords renders n > 0 with Indian grouping. The crore segment is
// rendered recursively, so amounts of a hundred crore and beyond come
// out as "One Hundred Crore" rather than overflowing the digit tables.
func numberWords(n int64) string {
	crore := n / 10000000
	n %= 10000000
	lakh := n / 100000
	n %= 100000
	thousand := n / 1000
	n %= 1000
	hundred := n / 100
	last := n % 100

	var parts []string
	if crore > 0 {
		parts = append(parts, numberWords(crore)+" Crore")
	}
	if lakh > 0 {
		parts = append(parts, twoDigitWords(lakh)+" Lakh")
	}
	if thousand > 0 {
		parts = append(parts, twoDigitWords(thousand)+" Thousand")
	}
	if hundred > 0 {
		parts = append(parts, unitWords[hundred]+" Hundred")
	}
	if last > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and "+twoDigitWords(last))
		} else {
			parts = append(parts, twoDigitWords(last))
		}
	}

	return strings.Join(parts, " ")
}

func twoDigitWords(n int64) string {
	if n < 20 {
		return unitWords[n]
	}
	w := tenWords[n/10]
	if n%10 > 0 {
		w += " " + unitWords[n%10]
	}
	return w
}
