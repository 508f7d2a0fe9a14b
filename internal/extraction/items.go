package extraction

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// headerScanLimit bounds how far down the receipt the items header is searched for
const headerScanLimit = 20

var separatorLine = regexp.MustCompile(`^[-=]{3,}[-=\s]*$`)

// itemPatterns are applied in order and the first match wins for a line.
// Several overlap; the order decides ambiguous lines such as "Soap #4411 3.99".
var itemPatterns = []*regexp.Regexp{
	// Milk 1.80
	regexp.MustCompile(`^(.+?)\s+(\d+\.\d{2})$`),
	// 2 x Milk 3.60
	regexp.MustCompile(`^(?:\d+\s*[xX]\s+)?(.+?)\s+(\d+\.\d{2})$`),
	// Soap #4411 3.99
	regexp.MustCompile(`^(.+?)(?:\s+#\S+)?\s+(\d+\.\d{2})$`),
	// Milk $1.80
	regexp.MustCompile(`^(.+?)\s+\$?(\d+\.\d{2})$`),
	// Milk$1.80
	regexp.MustCompile(`^(.+?)\s*\$(\d+\.\d{2})$`),
}

// ExtractItems pulls (description, price) pairs from the item section of a receipt
func ExtractItems(lines []string) []Item {
	start := itemsStart(lines)
	end := itemsEnd(lines)

	items := make([]Item, 0)
	if start >= end {
		return items
	}

	for _, line := range lines[start:end] {
		if item, ok := matchItem(line); ok {
			items = append(items, item)
		}
	}
	return items
}

// itemsStart returns the index just after the items header or separator, or 0
func itemsStart(lines []string) int {
	limit := min(len(lines), headerScanLimit)
	for i := 0; i < limit; i++ {
		if headerKeywords.in(lines[i]) || isSeparator(lines[i]) {
			return i + 1
		}
	}
	return 0
}

// itemsEnd returns the index of the first totals or separator line in the second half, or len(lines)
func itemsEnd(lines []string) int {
	for i := len(lines) / 2; i < len(lines); i++ {
		if footerKeywords.in(lines[i]) || isSeparator(lines[i]) {
			return i
		}
	}
	return len(lines)
}

func isSeparator(line string) bool {
	return separatorLine.MatchString(line)
}

func matchItem(line string) (Item, bool) {
	for _, p := range itemPatterns {
		m := p.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		desc := strings.TrimSpace(m[1])
		price, err := decimal.NewFromString(m[2])
		if desc == "" || err != nil {
			continue
		}
		return Item{Description: desc, Amount: Amount{Decimal: price}}, true
	}
	return Item{}, false
}
