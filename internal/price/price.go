// Package price normalizes free-text price strings into integer kyat
// amounts. Menu prices are entered by store admins as free text and may mix
// Myanmar and ASCII digits with currency words and separators ("၂,၅၀၀ Ks").
package price

import "strings"

// Myanmar digits map 1:1 onto ASCII digits.
var myanmarDigits = strings.NewReplacer(
	"၀", "0",
	"၁", "1",
	"၂", "2",
	"၃", "3",
	"၄", "4",
	"၅", "5",
	"၆", "6",
	"၇", "7",
	"၈", "8",
	"၉", "9",
)

// Parse converts a free-text price string into an integer amount.
// Every non-digit character is discarded after transliteration; a string
// with no digits parses to 0. Parse never fails: malformed admin input must
// degrade, not error, because it feeds both cart totalling and unavailable-
// item adjustment and the two call sites have to agree.
func Parse(s string) int64 {
	s = myanmarDigits.Replace(s)

	var n int64
	var seen bool
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		seen = true
		if n > (1<<62)/10 {
			// Digit string longer than any real price; treat as garbage.
			return 0
		}
		n = n*10 + int64(r-'0')
	}
	if !seen {
		return 0
	}
	return n
}

// Format renders an amount with thousands separators for display payloads,
// e.g. 2500 -> "2,500".
func Format(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}

	var b []byte
	for i := 0; ; i++ {
		if i > 0 && i%3 == 0 {
			b = append(b, ',')
		}
		b = append(b, byte('0'+n%10))
		n /= 10
		if n == 0 {
			break
		}
	}
	if neg {
		b = append(b, '-')
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
