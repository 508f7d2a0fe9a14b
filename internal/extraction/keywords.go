package extraction

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// keywordGroup is a fixed list of lowercase substrings matched in one pass.
// MatchThreadSafe is used so a group can be shared by concurrent extractions.
type keywordGroup struct {
	matcher *ahocorasick.Matcher
}

func newKeywordGroup(words ...string) *keywordGroup {
	return &keywordGroup{matcher: ahocorasick.NewStringMatcher(words)}
}

// in reports whether any keyword occurs in s, ignoring case
func (k *keywordGroup) in(s string) bool {
	if s == "" {
		return false
	}
	return len(k.matcher.MatchThreadSafe([]byte(strings.ToLower(s)))) > 0
}

var (
	gasBrands = []string{"shell", "exxon", "chevron", "mobil", "texaco", "sunoco", "citgo", "valero"}

	transportationKeywords = newKeywordGroup(append([]string{"gas", "petrol"}, gasBrands...)...)
	groceryKeywords        = newKeywordGroup("supermarket", "grocery", "food", "market", "mart")
	restaurantKeywords     = newKeywordGroup("restaurant", "cafe", "bar", "grill", "diner")

	gasReceiptKeywords        = newKeywordGroup(append([]string{"fuel", "litres", "liters", "gallons", "pump"}, gasBrands...)...)
	restaurantReceiptKeywords = newKeywordGroup("restaurant", "cafe", "grill", "diner", "bistro", "server", "table", "tip", "gratuity")

	dateKeywords   = newKeywordGroup("date", "purchase", "transaction")
	headerKeywords = newKeywordGroup("item", "description", "qty", "quantity")
	footerKeywords = newKeywordGroup("subtotal", "sub-total", "tax", "total")

	cardKeywords = newKeywordGroup("credit", "visa", "mastercard", "debit", "card")
	cashKeywords = newKeywordGroup("cash")
)
