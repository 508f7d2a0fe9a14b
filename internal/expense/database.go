package expense

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.etcd.io/bbolt"
)

const (
	expenseBucketName = "expenses"
	receiptBucketName = "receipts"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// DB defines the interface for database operations
type DB interface {
	// SaveExpense inserts or replaces an expense
	SaveExpense(expense *Expense) error

	// GetExpense retrieves an expense by ID
	GetExpense(id string) (*Expense, error)

	// ListExpenses returns all expenses
	ListExpenses() ([]*Expense, error)

	// DeleteExpense removes an expense and unlinks it from its receipt
	DeleteExpense(id string) error

	// SaveScan stores a receipt and the expenses extracted from it atomically
	SaveScan(receipt *Receipt, expenses []*Expense) error

	// GetReceipt retrieves a receipt by ID
	GetReceipt(id string) (*Receipt, error)

	// ListReceipts returns all receipts
	ListReceipts() ([]*Receipt, error)

	// DeleteReceipt removes a receipt together with its expenses
	DeleteReceipt(id string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{expenseBucketName, receiptBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

func put(b *bbolt.Bucket, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", id, err)
	}
	return b.Put([]byte(id), data)
}

func get[T any](b *bbolt.Bucket, kind, id string) (*T, error) {
	data := b.Get([]byte(id))
	if data == nil {
		return nil, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshaling %s %s: %w", kind, id, err)
	}
	return &v, nil
}

func list[T any](b *bbolt.Bucket, kind string) ([]*T, error) {
	out := make([]*T, 0)
	err := b.ForEach(func(k, v []byte) error {
		var item T
		if err := json.Unmarshal(v, &item); err != nil {
			return fmt.Errorf("unmarshaling %s: %w", kind, err)
		}
		out = append(out, &item)
		return nil
	})
	return out, err
}

// SaveExpense inserts or replaces an expense
func (b *BoltDB) SaveExpense(expense *Expense) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return put(tx.Bucket([]byte(expenseBucketName)), expense.ID, expense)
	})
}

// GetExpense retrieves an expense by ID
func (b *BoltDB) GetExpense(id string) (*Expense, error) {
	var expense *Expense
	err := b.db.View(func(tx *bbolt.Tx) error {
		var err error
		expense, err = get[Expense](tx.Bucket([]byte(expenseBucketName)), "expense", id)
		return err
	})
	return expense, err
}

// ListExpenses returns all expenses in key order
func (b *BoltDB) ListExpenses() ([]*Expense, error) {
	var expenses []*Expense
	err := b.db.View(func(tx *bbolt.Tx) error {
		var err error
		expenses, err = list[Expense](tx.Bucket([]byte(expenseBucketName)), "expense")
		return err
	})
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

// DeleteExpense removes an expense and unlinks it from its receipt
func (b *BoltDB) DeleteExpense(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		expenses := tx.Bucket([]byte(expenseBucketName))
		expense, err := get[Expense](expenses, "expense", id)
		if err != nil {
			return err
		}

		if expense.ReceiptID != "" {
			receipts := tx.Bucket([]byte(receiptBucketName))
			receipt, err := get[Receipt](receipts, "receipt", expense.ReceiptID)
			switch {
			case errors.Is(err, ErrNotFound):
				// orphaned expense, nothing to unlink
			case err != nil:
				return err
			default:
				receipt.ExpenseIDs = slices.DeleteFunc(receipt.ExpenseIDs, func(eid string) bool { return eid == id })
				if err := put(receipts, receipt.ID, receipt); err != nil {
					return err
				}
			}
		}

		return expenses.Delete([]byte(id))
	})
}

// SaveScan stores a receipt and its expenses in one transaction
func (b *BoltDB) SaveScan(receipt *Receipt, expenses []*Expense) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		eb := tx.Bucket([]byte(expenseBucketName))
		for _, e := range expenses {
			if err := put(eb, e.ID, e); err != nil {
				return err
			}
		}
		return put(tx.Bucket([]byte(receiptBucketName)), receipt.ID, receipt)
	})
}

// GetReceipt retrieves a receipt by ID
func (b *BoltDB) GetReceipt(id string) (*Receipt, error) {
	var receipt *Receipt
	err := b.db.View(func(tx *bbolt.Tx) error {
		var err error
		receipt, err = get[Receipt](tx.Bucket([]byte(receiptBucketName)), "receipt", id)
		return err
	})
	return receipt, err
}

// ListReceipts returns all receipts in key order
func (b *BoltDB) ListReceipts() ([]*Receipt, error) {
	var receipts []*Receipt
	err := b.db.View(func(tx *bbolt.Tx) error {
		var err error
		receipts, err = list[Receipt](tx.Bucket([]byte(receiptBucketName)), "receipt")
		return err
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// DeleteReceipt removes a receipt together with its expenses
func (b *BoltDB) DeleteReceipt(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		receipts := tx.Bucket([]byte(receiptBucketName))
		receipt, err := get[Receipt](receipts, "receipt", id)
		if err != nil {
			return err
		}

		expenses := tx.Bucket([]byte(expenseBucketName))
		for _, eid := range receipt.ExpenseIDs {
			if err := expenses.Delete([]byte(eid)); err != nil {
				return fmt.Errorf("deleting expense %s: %w", eid, err)
			}
		}
		return receipts.Delete([]byte(id))
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
