package billing

import "math"

var ones = [...]string{
	"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten",
	"Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

const (
	thousand = 1_000
	lakh     = 1_00_000
	crore    = 1_00_00_000
)

// AmountToWords spells a rupee amount using the Indian scale, e.g.
// 1250.50 -> "Rupees One Thousand Two Hundred Fifty and Fifty Paise".
// Paise are rounded to the nearest hundredth; a zero paise clause is omitted.
func AmountToWords(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		amount = 0
	}
	whole := math.Floor(amount)
	paise := int64(math.Round((amount - whole) * 100))
	if paise == 100 {
		whole++
		paise = 0
	}

	out := "Rupees " + wholeToWords(whole)
	if paise > 0 {
		out += " and " + IntegerToWords(paise) + " Paise"
	}
	return out
}

// wholeToWords spells an integral w >= 0. It splits off crore groups as
// floats, so amounts past the int64 range still come out as "... Crore Crore".
func wholeToWords(w float64) string {
	if w < crore {
		return IntegerToWords(int64(w))
	}
	return wholeToWords(math.Floor(w/crore)) + " Crore" + rest(int64(math.Mod(w, crore)))
}

// IntegerToWords spells n (n >= 0) in words. Zero is only ever produced for
// n == 0 itself, never inside a larger phrase.
func IntegerToWords(n int64) string {
	if n <= 0 {
		return ones[0]
	}
	return spell(n)
}

func spell(n int64) string {
	switch {
	case n < 20:
		return ones[n]
	case n < 100:
		return tens[n/10] + rest(n%10)
	case n < thousand:
		return ones[n/100] + " Hundred" + rest(n%100)
	case n < lakh:
		return spell(n/thousand) + " Thousand" + rest(n%thousand)
	case n < crore:
		return spell(n/lakh) + " Lakh" + rest(n%lakh)
	default:
		return spell(n/crore) + " Crore" + rest(n%crore)
	}
}

func rest(n int64) string {
	if n == 0 {
		return ""
	}
	return " " + spell(n)
}
