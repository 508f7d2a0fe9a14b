package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is a spending category assigned from the vendor name
type Category string

const (
	CategoryTransportation Category = "Transportation"
	CategoryGroceries      Category = "Groceries"
	CategoryRestaurant     Category = "Restaurant"
	CategoryShopping       Category = "Shopping"
	CategoryOther          Category = "Other"
)

// Categories lists every valid category
var Categories = []Category{
	CategoryTransportation,
	CategoryGroceries,
	CategoryRestaurant,
	CategoryShopping,
	CategoryOther,
}

// ParseCategory matches s case-insensitively against the known categories
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// ReceiptType selects which heuristics apply to a receipt
type ReceiptType string

const (
	ReceiptTypeGas        ReceiptType = "gas"
	ReceiptTypeRestaurant ReceiptType = "restaurant"
	ReceiptTypeRetail     ReceiptType = "retail"
)

// PaymentMethod is how a receipt was paid
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "Card"
	PaymentCash PaymentMethod = "Cash"
)

// ParsePaymentMethod matches s case-insensitively against Card and Cash
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "card":
		return PaymentCard, nil
	case "cash":
		return PaymentCash, nil
	}
	return "", fmt.Errorf("unknown payment method: %q", s)
}

// Source records which code path produced an extracted value
type Source int

const (
	// SourcePriority means the value came from a keyword-adjacent match
	SourcePriority Source = iota
	// SourceFallback means the value came from a blind full-text scan
	SourceFallback
	// SourceDefault means nothing matched and a default was used
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourcePriority:
		return "priority"
	case SourceFallback:
		return "fallback"
	default:
		return "default"
	}
}

func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Source) UnmarshalText(b []byte) error {
	switch string(b) {
	case "priority":
		*s = SourcePriority
	case "fallback":
		*s = SourceFallback
	case "default":
		*s = SourceDefault
	default:
		return fmt.Errorf("unknown source: %q", string(b))
	}
	return nil
}

// Amount is a decimal money value that always renders with two fraction digits
type Amount struct {
	decimal.Decimal
}

// NewAmount parses a plain decimal string such as "12.50"
func NewAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return Amount{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return Amount{Decimal: d}, nil
}

func (a Amount) String() string {
	return a.StringFixed(2)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.StringFixed(2))
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	return a.Decimal.UnmarshalJSON(b)
}

// Item is a single priced line from a receipt
type Item struct {
	Description string `json:"description"`
	Amount      Amount `json:"amount"`
}
