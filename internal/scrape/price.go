package scrape

import (
	"fmt"
	"strconv"
	"strings"
)

var ErrPriceParse = fmt.Errorf("failed to parse price")

// priceReplacer strips Danish currency decorations and normalizes the number
// format: "kr." and ",-" suffixes go away, "." is a thousands separator and
// is dropped, "," is the decimal separator and becomes ".".
var priceReplacer = strings.NewReplacer(
	"kr.", "",
	",-", "",
	".", "",
	",", ".",
	" ", "",
	" ", "",
)

// ParsePrice converts a scraped price string like "12.345,67 kr." into a
// float. The order of replacements matters: "kr." must be removed before the
// thousands-separator dot, and ",-" before the decimal comma.
func ParsePrice(raw string) (float64, error) {
	sanitized := priceReplacer.Replace(strings.TrimSpace(raw))
	price, err := strconv.ParseFloat(sanitized, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrPriceParse, raw, err)
	}
	return price, nil
}
