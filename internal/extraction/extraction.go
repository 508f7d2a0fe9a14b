// Package extraction turns OCR receipt text into a structured expense result.
//
// Every stage is a pure function of its input. The only outside dependency is the
// Clock used when no date can be found, so concurrent extractions need no coordination.
package extraction

import (
	"strings"
	"time"
)

// Clock provides the current time for the date fallback
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Result is the structured form of one receipt
type Result struct {
	Vendor        string        `json:"vendor"`
	Category      Category      `json:"category"`
	ReceiptType   ReceiptType   `json:"receiptType"`
	Date          string        `json:"date"`
	DateSource    Source        `json:"dateSource"`
	Items         []Item        `json:"items"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Total         *Amount       `json:"total,omitempty"`
}

// Extractor runs the extraction pipeline
type Extractor struct {
	clock Clock
}

// Option configures an Extractor
type Option func(*Extractor)

// WithClock overrides the clock used for the "today" date fallback
func WithClock(c Clock) Option {
	return func(e *Extractor) {
		e.clock = c
	}
}

// New creates an Extractor using the system clock unless overridden
func New(opts ...Option) *Extractor {
	e := &Extractor{clock: systemClock{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Date extracts the receipt date, falling back to today
func (e *Extractor) Date(lines []string) (string, Source) {
	if d, src, ok := ExtractDate(lines); ok {
		return d, src
	}
	return e.clock.Now().Format(isoDate), SourceDefault
}

// Extract runs every stage over the raw OCR text
func (e *Extractor) Extract(text string) Result {
	lines := SplitLines(text)
	vendor := IdentifyVendor(lines)
	date, dateSource := e.Date(lines)

	return Result{
		Vendor:        vendor,
		Category:      Categorize(vendor),
		ReceiptType:   DetectReceiptType(lines, vendor),
		Date:          date,
		DateSource:    dateSource,
		Items:         ExtractItems(lines),
		PaymentMethod: DetectPaymentMethod(strings.Join(lines, "\n")),
		Total:         ExtractTotal(lines),
	}
}
