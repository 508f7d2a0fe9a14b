package scanning

import (
	"context"
	"errors"
)

// ErrEmptyTranscript is returned when the model produced no readable text
var ErrEmptyTranscript = errors.New("empty receipt transcript")

// ErrUnreadableImage is returned when an upload cannot be converted for the model
var ErrUnreadableImage = errors.New("unreadable receipt image")

// Scanner transcribes a receipt image or PDF into raw OCR text
type Scanner interface {
	// ReadText returns the receipt text, one printed line per line
	ReadText(ctx context.Context, imageData []byte, contentType string) (string, error)
	// Close releases any resources held by the scanner
	Close() error
}
