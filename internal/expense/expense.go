package expense

import (
	"time"

	"github.com/zombor/hisaab-dost/internal/extraction"
)

// Expense is a single persisted spending record
type Expense struct {
	ID            string                   `json:"id"`
	ReceiptID     string                   `json:"receipt_id,omitempty"` // receipt this expense was extracted from
	Description   string                   `json:"description"`
	Amount        int64                    `json:"amount"` // minor units of Currency
	Currency      string                   `json:"currency"`
	Date          time.Time                `json:"date"`
	Category      extraction.Category      `json:"category"`
	PaymentMethod extraction.PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// Receipt records one scan: the stored file, its transcription and the expenses it produced
type Receipt struct {
	ID          string            `json:"id"`
	Filename    string            `json:"filename,omitempty"`
	ContentType string            `json:"content_type,omitempty"`
	RawText     string            `json:"raw_text"`
	Extraction  extraction.Result `json:"extraction"`
	ExpenseIDs  []string          `json:"expense_ids"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Filter narrows expense listings and exports. Zero values match everything.
type Filter struct {
	From     *time.Time
	To       *time.Time
	Category extraction.Category
}

// Matches reports whether e passes the filter; From and To are inclusive dates
func (f Filter) Matches(e *Expense) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.From != nil && e.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Date.After(*f.To) {
		return false
	}
	return true
}

// Update holds user corrections to an extracted expense; nil fields are left as is
type Update struct {
	Description   *string                   `json:"description,omitempty"`
	Amount        *extraction.Amount        `json:"amount,omitempty"`
	Date          *string                   `json:"date,omitempty"`
	Category      *extraction.Category      `json:"category,omitempty"`
	PaymentMethod *extraction.PaymentMethod `json:"payment_method,omitempty"`
}
