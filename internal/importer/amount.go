package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a rupiah amount written the Indonesian way.
// Examples: "12.500" -> 12500, "Rp 12.500,50" -> 12500.50, "3500" -> 3500,
// "2.75" -> 2.75. A blank cell is zero.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	for _, prefix := range []string{"idr", "rp.", "rp"} {
		clean = strings.TrimPrefix(clean, prefix)
	}

	clean = strings.ReplaceAll(clean, " ", "")
	if clean == "" {
		return decimal.Zero, nil
	}

	switch {
	case strings.Contains(clean, ","):
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case thousandsGrouped(clean):
		clean = strings.ReplaceAll(clean, ".", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}

	return d, nil
}

// thousandsGrouped reports whether every dot in s is followed by exactly
// three digits, as in "1.250.000".
func thousandsGrouped(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return false
	}

	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}

	return true
}

func parseQuantity(s string) (int, error) {
	d, err := parseAmount(s)
	if err != nil {
		return 0, err
	}

	if !d.IsInteger() {
		return 0, fmt.Errorf("stock %q is not a whole number", s)
	}

	return int(d.IntPart()), nil
}
