package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CleanSKU strips zero-width characters and surrounding whitespace from a SKU
// while preserving literal symbols such as '+'. Stocky exports occasionally
// carry zero-width spaces pasted in from product pages.
func CleanSKU(s string) string {
	s = strings.ReplaceAll(s, "​", "")
	s = strings.ReplaceAll(s, "\uFEFF", "")
	return strings.TrimSpace(s)
}

// ParseQty coerces a cell to a non-negative integer quantity. Integral float
// spellings like "2.0" are accepted; anything else is rejected.
func ParseQty(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative quantity %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	if f < 0 || math.Trunc(f) != f {
		return 0, fmt.Errorf("not a non-negative integer: %q", s)
	}
	return int(f), nil
}

// ParseMoney coerces a cell to a non-negative decimal cost.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", d)
	}
	return d, nil
}
