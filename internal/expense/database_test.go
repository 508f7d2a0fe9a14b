package expense

import (
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/hisaab-dost/internal/extraction"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		db, err = NewBoltDB(filepath.Join(tmpDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	newExpense := func(id, receiptID string) *Expense {
		return &Expense{
			ID:            id,
			ReceiptID:     receiptID,
			Description:   "Milk",
			Amount:        18000,
			Currency:      "PKR",
			Date:          time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Category:      extraction.CategoryGroceries,
			PaymentMethod: extraction.PaymentCash,
		}
	}

	Describe("SaveExpense", func() {
		It("should round-trip the expense", func() {
			Expect(db.SaveExpense(newExpense("e1", ""))).To(Succeed())

			saved, err := db.GetExpense("e1")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.Description).To(Equal("Milk"))
			Expect(saved.Amount).To(Equal(int64(18000)))
			Expect(saved.Category).To(Equal(extraction.CategoryGroceries))
		})

		It("should replace an existing expense", func() {
			e := newExpense("e1", "")
			Expect(db.SaveExpense(e)).To(Succeed())
			e.Description = "Whole Milk"
			Expect(db.SaveExpense(e)).To(Succeed())

			all, err := db.ListExpenses()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
			Expect(all[0].Description).To(Equal("Whole Milk"))
		})
	})

	Describe("GetExpense", func() {
		When("the expense does not exist", func() {
			It("returns ErrNotFound", func() {
				_, err := db.GetExpense("missing")
				Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
			})
		})
	})

	Describe("SaveScan", func() {
		var receipt *Receipt

		BeforeEach(func() {
			receipt = &Receipt{
				ID:         "r1",
				RawText:    "Imtiaz Mart",
				ExpenseIDs: []string{"e1", "e2"},
				Extraction: extraction.Result{Vendor: "Imtiaz Mart", Category: extraction.CategoryGroceries},
			}
			Expect(db.SaveScan(receipt, []*Expense{newExpense("e1", "r1"), newExpense("e2", "r1")})).To(Succeed())
		})

		It("should store the receipt", func() {
			saved, err := db.GetReceipt("r1")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.ExpenseIDs).To(Equal([]string{"e1", "e2"}))
			Expect(saved.Extraction.Vendor).To(Equal("Imtiaz Mart"))
		})

		It("should store every expense", func() {
			all, err := db.ListExpenses()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})

		Describe("DeleteExpense", func() {
			It("should unlink the expense from its receipt", func() {
				Expect(db.DeleteExpense("e1")).To(Succeed())

				saved, err := db.GetReceipt("r1")
				Expect(err).NotTo(HaveOccurred())
				Expect(saved.ExpenseIDs).To(Equal([]string{"e2"}))

				_, err = db.GetExpense("e1")
				Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
			})
		})

		Describe("DeleteReceipt", func() {
			It("should remove the receipt and its expenses", func() {
				Expect(db.DeleteReceipt("r1")).To(Succeed())

				_, err := db.GetReceipt("r1")
				Expect(errors.Is(err, ErrNotFound)).To(BeTrue())

				all, err := db.ListExpenses()
				Expect(err).NotTo(HaveOccurred())
				Expect(all).To(BeEmpty())
			})
		})

		Describe("ListReceipts", func() {
			It("should return the stored receipts", func() {
				receipts, err := db.ListReceipts()
				Expect(err).NotTo(HaveOccurred())
				Expect(receipts).To(HaveLen(1))
				Expect(receipts[0].ID).To(Equal("r1"))
			})
		})
	})

	Describe("DeleteExpense", func() {
		When("the expense does not exist", func() {
			It("returns ErrNotFound", func() {
				Expect(errors.Is(db.DeleteExpense("missing"), ErrNotFound)).To(BeTrue())
			})
		})

		When("the expense has no receipt", func() {
			It("should delete it", func() {
				Expect(db.SaveExpense(newExpense("e9", ""))).To(Succeed())
				Expect(db.DeleteExpense("e9")).To(Succeed())
			})
		})
	})

	Describe("DeleteReceipt", func() {
		When("the receipt does not exist", func() {
			It("returns ErrNotFound", func() {
				Expect(errors.Is(db.DeleteReceipt("missing"), ErrNotFound)).To(BeTrue())
			})
		})
	})

	Describe("reopening", func() {
		It("should keep data across opens", func() {
			Expect(db.SaveExpense(newExpense("e1", ""))).To(Succeed())
			Expect(db.Close()).To(Succeed())

			var err error
			db, err = NewBoltDB(filepath.Join(tmpDir, "test.db"))
			Expect(err).NotTo(HaveOccurred())

			_, err = db.GetExpense("e1")
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
