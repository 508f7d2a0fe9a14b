package extraction

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	totalLabel  = regexp.MustCompile(`(?i)\b(grand\s+total|total|amount\s+due|balance\s+due)\b`)
	strictPrice = regexp.MustCompile(`\$?(\d+\.\d{2})\b`)
)

// ExtractTotal scans from the bottom of the receipt for a labelled total.
// Subtotal lines are ignored. Returns nil when no total is found.
func ExtractTotal(lines []string) *Amount {
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		lower := strings.ToLower(line)
		if strings.Contains(lower, "subtotal") || strings.Contains(lower, "sub-total") || strings.Contains(lower, "sub total") {
			continue
		}
		if !totalLabel.MatchString(line) {
			continue
		}

		prices := strictPrice.FindAllStringSubmatch(line, -1)
		if len(prices) == 0 {
			continue
		}
		d, err := decimal.NewFromString(prices[len(prices)-1][1])
		if err != nil {
			continue
		}
		return &Amount{Decimal: d}
	}
	return nil
}
