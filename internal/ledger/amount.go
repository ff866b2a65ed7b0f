package ledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// groupedThousands matches "1,750" or "12.500.000": a non-zero leading group of
// up to three digits followed by groups of exactly three.
var groupedThousands = regexp.MustCompile(`^-?[1-9]\d{0,2}([,.]\d{3})+$`)

// ParseAmount reads an amount typed by a person or rendered by a spreadsheet.
// With both separators present the last one is the decimal mark. Commas before
// groups of exactly three digits ("1,750") and repeated dots ("12.500.000")
// group thousands. A single dot is always the decimal point, and any other lone
// comma ("17,5", "0,750") is the decimal mark.
func ParseAmount(value string) (decimal.Decimal, error) {
	s := strings.NewReplacer(" ", "", "\u00a0", "").Replace(strings.TrimSpace(value))

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")

	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case groupedThousands.MatchString(s) && !singleDot(s):
		s = strings.NewReplacer(",", "", ".", "").Replace(s)
	case strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", value, err)
	}
	return amount, nil
}

// singleDot reports "1.750": one dot reads as a decimal point, as it does in the
// numbers the store itself writes.
func singleDot(s string) bool {
	return !strings.Contains(s, ",") && strings.Count(s, ".") == 1
}
