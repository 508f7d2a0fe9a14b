package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/hisaab-dost/internal/extraction"
	"github.com/zombor/hisaab-dost/internal/scanning"
)

const dateLayout = "2006-01-02"

var (
	// ErrNoScanner is returned by ScanReceipt when no OCR backend is configured
	ErrNoScanner = errors.New("no receipt scanner configured")

	// ErrInvalid marks errors caused by bad user input
	ErrInvalid = errors.New("invalid input")
)

// IDGenerator generates unique IDs for records
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type systemTime struct{}

func (systemTime) Now() time.Time {
	return time.Now()
}

// Config holds the service settings that come from flags
type Config struct {
	Currency string            // ISO-4217 code amounts are stored in
	Policy   extraction.Policy // how receipts are split into expenses
}

// Service handles receipt scanning and expense records
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	extractor   *extraction.Extractor
	idGenerator IDGenerator
	timeSource  TimeSource
	currency    string
	policy      extraction.Policy
}

// NewService creates a new Service with UUID IDs and the system clock
func NewService(db DB, scanner scanning.Scanner, storage Storage, cfg Config) *Service {
	return NewServiceWithDeps(db, scanner, storage, cfg, uuidGenerator{}, systemTime{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, cfg Config, idGen IDGenerator, timeSrc TimeSource) *Service {
	currency := cfg.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		extractor:   extraction.New(extraction.WithClock(timeSrc)),
		idGenerator: idGen,
		timeSource:  timeSrc,
		currency:    currency,
		policy:      cfg.Policy,
	}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	repeatedSpaces      = regexp.MustCompile(`\s+`)
)

// sanitizeFilename strips special characters and truncates long phone-generated names
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = strings.TrimSpace(repeatedSpaces.ReplaceAllString(base, " "))

	const maxLen = 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	if base == "" {
		base = "receipt"
	}
	return base + ext
}

// ExtractText runs the extraction pipeline without persisting anything
func (s *Service) ExtractText(text string) extraction.Result {
	return s.extractor.Extract(text)
}

// ScanReceipt stores an uploaded receipt, transcribes it, and saves the extracted expenses
func (s *Service) ScanReceipt(ctx context.Context, filename string, data []byte, contentType string) (*Receipt, []*Expense, error) {
	if s.scanner == nil {
		return nil, nil, ErrNoScanner
	}

	id := s.idGenerator.Generate()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, nil, fmt.Errorf("saving file: %w", err)
	}

	text, err := s.scanner.ReadText(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.removeFile(savedPath)
		return nil, nil, fmt.Errorf("scanning receipt: %w", err)
	}

	receipt, expenses, err := s.record(id, text, nil, func(r *Receipt) {
		r.Filename = savedPath
		r.ContentType = contentType
	})
	if err != nil {
		s.removeFile(savedPath)
		return nil, nil, err
	}

	slog.Info("Scanned receipt",
		"receipt_id", receipt.ID,
		"vendor", receipt.Extraction.Vendor,
		"receipt_type", receipt.Extraction.ReceiptType,
		"date_source", receipt.Extraction.DateSource,
		"items", len(receipt.Extraction.Items),
		"expenses", len(expenses),
	)
	return receipt, expenses, nil
}

// CreateFromText extracts expenses from already transcribed text and saves them.
// fallbackTotal is used when the receipt has no items and no readable total.
func (s *Service) CreateFromText(text string, fallbackTotal *extraction.Amount) (*Receipt, []*Expense, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, fmt.Errorf("%w: receipt text is required", ErrInvalid)
	}
	if fallbackTotal != nil && fallbackTotal.IsNegative() {
		return nil, nil, fmt.Errorf("%w: total cannot be negative", ErrInvalid)
	}
	return s.record(s.idGenerator.Generate(), text, fallbackTotal, nil)
}

// record extracts, assembles and persists one receipt
func (s *Service) record(id, text string, fallbackTotal *extraction.Amount, decorate func(*Receipt)) (*Receipt, []*Expense, error) {
	now := s.timeSource.Now()
	result := s.extractor.Extract(text)
	drafts := extraction.Assemble(result, s.policy, fallbackTotal)

	receipt := &Receipt{
		ID:         id,
		RawText:    text,
		Extraction: result,
		ExpenseIDs: make([]string, 0, len(drafts)),
		CreatedAt:  now,
	}
	if decorate != nil {
		decorate(receipt)
	}

	expenses := make([]*Expense, 0, len(drafts))
	for _, d := range drafts {
		date, err := time.Parse(dateLayout, d.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing extracted date %q: %w", d.Date, err)
		}
		amount, err := toMinorUnits(d.Amount, s.currency)
		if err != nil {
			return nil, nil, fmt.Errorf("expense %q: %w", d.Description, err)
		}
		e := &Expense{
			ID:            s.idGenerator.Generate(),
			ReceiptID:     id,
			Description:   d.Description,
			Amount:        amount,
			Currency:      s.currency,
			Date:          date,
			Category:      d.Category,
			PaymentMethod: d.PaymentMethod,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		expenses = append(expenses, e)
		receipt.ExpenseIDs = append(receipt.ExpenseIDs, e.ID)
	}

	if err := s.db.SaveScan(receipt, expenses); err != nil {
		return nil, nil, fmt.Errorf("saving receipt to database: %w", err)
	}
	return receipt, expenses, nil
}

func (s *Service) removeFile(name string) {
	if err := s.storage.Delete(name); err != nil {
		slog.Warn("Failed to delete file", "filename", name, "error", err)
	}
}

// GetExpense retrieves an expense by ID
func (s *Service) GetExpense(id string) (*Expense, error) {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	return expense, nil
}

// ListExpenses returns matching expenses, newest first
func (s *Service) ListExpenses(filter Filter) ([]*Expense, error) {
	all, err := s.db.ListExpenses()
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	expenses := make([]*Expense, 0, len(all))
	for _, e := range all {
		if filter.Matches(e) {
			expenses = append(expenses, e)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[i].Date.After(expenses[j].Date)
		}
		return expenses[i].ID < expenses[j].ID
	})
	return expenses, nil
}

// UpdateExpense applies a user correction to an expense
func (s *Service) UpdateExpense(id string, u Update) (*Expense, error) {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}

	if u.Description != nil {
		desc := strings.TrimSpace(*u.Description)
		if desc == "" {
			return nil, fmt.Errorf("%w: description cannot be empty", ErrInvalid)
		}
		expense.Description = desc
	}
	if u.Amount != nil {
		if u.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: amount cannot be negative", ErrInvalid)
		}
		amount, err := toMinorUnits(*u.Amount, expense.Currency)
		if err != nil {
			return nil, err
		}
		expense.Amount = amount
	}
	if u.Date != nil {
		date, err := time.Parse(dateLayout, *u.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q: expected YYYY-MM-DD", ErrInvalid, *u.Date)
		}
		expense.Date = date
	}
	if u.Category != nil {
		c, err := extraction.ParseCategory(string(*u.Category))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		expense.Category = c
	}
	if u.PaymentMethod != nil {
		pm, err := extraction.ParsePaymentMethod(string(*u.PaymentMethod))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		expense.PaymentMethod = pm
	}
	expense.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveExpense(expense); err != nil {
		return nil, fmt.Errorf("updating expense: %w", err)
	}
	return expense, nil
}

// DeleteExpense removes an expense
func (s *Service) DeleteExpense(id string) error {
	if err := s.db.DeleteExpense(id); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	return nil
}

// GetReceipt retrieves a receipt with its expenses
func (s *Service) GetReceipt(id string) (*Receipt, []*Expense, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, nil, fmt.Errorf("getting receipt: %w", err)
	}

	expenses := make([]*Expense, 0, len(receipt.ExpenseIDs))
	for _, eid := range receipt.ExpenseIDs {
		e, err := s.db.GetExpense(eid)
		if err != nil {
			return nil, nil, fmt.Errorf("getting expense %s: %w", eid, err)
		}
		expenses = append(expenses, e)
	}
	return receipt, expenses, nil
}

// ListReceipts returns all receipts, newest first
func (s *Service) ListReceipts() ([]*Receipt, error) {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	sort.SliceStable(receipts, func(i, j int) bool {
		return receipts[i].CreatedAt.After(receipts[j].CreatedAt)
	})
	return receipts, nil
}

// GetReceiptFile retrieves the uploaded file for a receipt
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt: %w", err)
	}
	if receipt.Filename == "" {
		return nil, "", fmt.Errorf("receipt %s has no file: %w", id, ErrNotFound)
	}

	data, err := s.storage.Get(receipt.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}
	return data, receipt.ContentType, nil
}

// DeleteReceipt removes a receipt, its file and its expenses
func (s *Service) DeleteReceipt(id string) error {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return fmt.Errorf("getting receipt for deletion: %w", err)
	}

	if receipt.Filename != "" {
		// a missing file should not block removing the records
		s.removeFile(receipt.Filename)
	}

	if err := s.db.DeleteReceipt(id); err != nil {
		return fmt.Errorf("deleting receipt from database: %w", err)
	}
	return nil
}
