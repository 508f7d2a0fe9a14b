package extraction

import (
	"fmt"
	"strings"
)

// Policy decides how many expense drafts a receipt produces
type Policy int

const (
	// PolicyPerItem produces one draft per extracted item
	PolicyPerItem Policy = iota
	// PolicySingle produces one draft for the whole receipt
	PolicySingle
)

// ParsePolicy accepts "items" or "single"
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "items", "per-item":
		return PolicyPerItem, nil
	case "single", "receipt":
		return PolicySingle, nil
	}
	return 0, fmt.Errorf("unknown assembly policy: %q", s)
}

const unknownDescription = "Unknown Expense"

// Draft is an expense ready to be persisted
type Draft struct {
	Description   string        `json:"description"`
	Amount        Amount        `json:"amount"`
	Date          string        `json:"date"`
	Category      Category      `json:"category"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// Assemble builds expense drafts from a result.
// It always returns at least one draft: when there are no items, or the policy is
// PolicySingle, the vendor becomes the description and the amount is the extracted
// total, else fallbackTotal, else zero.
func Assemble(r Result, policy Policy, fallbackTotal *Amount) []Draft {
	base := Draft{
		Date:          r.Date,
		Category:      r.Category,
		PaymentMethod: r.PaymentMethod,
	}

	if policy == PolicyPerItem && len(r.Items) > 0 {
		drafts := make([]Draft, 0, len(r.Items))
		for _, item := range r.Items {
			d := base
			d.Description = item.Description
			d.Amount = item.Amount
			drafts = append(drafts, d)
		}
		return drafts
	}

	d := base
	d.Description = strings.TrimSpace(r.Vendor)
	if d.Description == "" {
		d.Description = unknownDescription
	}
	switch {
	case r.Total != nil:
		d.Amount = *r.Total
	case fallbackTotal != nil:
		d.Amount = *fallbackTotal
	}
	return []Draft{d}
}
