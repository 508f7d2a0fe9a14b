package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractItems", func() {
	var (
		lines []string
		items []Item
	)

	JustBeforeEach(func() {
		items = ExtractItems(lines)
	})

	When("the receipt has an items header and a subtotal", func() {
		BeforeEach(func() {
			lines = []string{"ITEMS", "Milk 1.80", "Bread 2.50", "SUBTOTAL", "Tax 0.30", "TOTAL 4.60"}
		})

		It("should return only the lines between the boundaries", func() {
			Expect(items).To(HaveLen(2))
		})

		It("should capture description and amount", func() {
			Expect(items[0].Description).To(Equal("Milk"))
			Expect(items[0].Amount.String()).To(Equal("1.80"))
			Expect(items[1].Description).To(Equal("Bread"))
			Expect(items[1].Amount.String()).To(Equal("2.50"))
		})
	})

	When("a totals keyword appears before the middle of the receipt", func() {
		BeforeEach(func() {
			lines = []string{"ITEMS", "Tax-free Soap 2.00", "Milk 1.80", "Bread 2.50", "Eggs 3.00", "SUBTOTAL 9.30"}
		})

		It("should not end the item section there", func() {
			Expect(items).To(HaveLen(4))
			Expect(items[0].Description).To(Equal("Tax-free Soap"))
			Expect(items[3].Description).To(Equal("Eggs"))
		})
	})

	When("a separator opens the section in the first half", func() {
		BeforeEach(func() {
			lines = []string{"Corner Store", "-----", "Pen 1.00", "Ink 2.00", "Pad 3.00", "Total 6.00"}
		})

		It("should only treat later separators as the end", func() {
			Expect(items).To(HaveLen(3))
			Expect(items[0].Description).To(Equal("Pen"))
			Expect(items[2].Description).To(Equal("Pad"))
		})
	})

	When("the header comes after the middle of the receipt", func() {
		BeforeEach(func() {
			lines = []string{"Corner Store", "Soap 2.00", "Milk 1.80", "Qty sold 2", "Bread 2.50", "Total 6.30"}
		})

		It("should start after the header and end at the total", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Description).To(Equal("Bread"))
		})
	})

	When("the header comes after the middle and the total follows immediately", func() {
		BeforeEach(func() {
			lines = []string{"Corner Store", "Soap 2.00", "Milk 1.80", "Bread 2.50", "Item count 3", "Total 6.30"}
		})

		It("should return an empty list", func() {
			Expect(items).NotTo(BeNil())
			Expect(items).To(BeEmpty())
		})
	})

	When("there are no boundaries and no prices", func() {
		BeforeEach(func() {
			lines = []string{"Welcome", "Thanks for visiting", "See you soon"}
		})

		It("should return an empty list", func() {
			Expect(items).NotTo(BeNil())
			Expect(items).To(BeEmpty())
		})
	})

	When("the boundaries are degenerate", func() {
		BeforeEach(func() {
			lines = []string{"Store", "Bag 0.10", "-----", "Pen 1.00"}
		})

		It("should return an empty list", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("there are no lines", func() {
		BeforeEach(func() {
			lines = nil
		})

		It("should return an empty list", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("a separator opens the item section", func() {
		BeforeEach(func() {
			lines = []string{
				"Hardware Depot",
				"Store #12",
				"=====",
				"Hammer 12.99",
				"Nails box of 100",
				"Glue $3.49",
				"Tape$1.25",
				"=====",
				"Total 17.73",
			}
		})

		It("should skip lines without a price", func() {
			Expect(items).To(HaveLen(3))
		})

		It("should accept dollar-prefixed prices", func() {
			Expect(items[1].Description).To(Equal("Glue"))
			Expect(items[1].Amount.String()).To(Equal("3.49"))
			Expect(items[2].Description).To(Equal("Tape"))
			Expect(items[2].Amount.String()).To(Equal("1.25"))
		})
	})

	When("a line carries a quantity or a SKU", func() {
		BeforeEach(func() {
			lines = []string{"Qty Description Price", "2 x Milk 3.60", "Soap #4411 3.99"}
		})

		It("should keep the first pattern's capture", func() {
			Expect(items).To(HaveLen(2))
			Expect(items[0].Description).To(Equal("2 x Milk"))
			Expect(items[1].Description).To(Equal("Soap #4411"))
		})
	})

	When("a price does not have exactly two decimals", func() {
		BeforeEach(func() {
			lines = []string{"Item", "Apples 1.5", "Pears 12", "Plums 2.345", "Figs 4.20"}
		})

		It("should ignore the malformed prices", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Description).To(Equal("Figs"))
		})
	})
})

var _ = Describe("ExtractTotal", func() {
	DescribeTable("finding totals",
		func(lines []string, expected string) {
			total := ExtractTotal(lines)
			if expected == "" {
				Expect(total).To(BeNil())
				return
			}
			Expect(total).NotTo(BeNil())
			Expect(total.String()).To(Equal(expected))
		},
		Entry("plain total", []string{"Milk 1.80", "TOTAL 4.60"}, "4.60"),
		Entry("ignores subtotal", []string{"Subtotal 4.30", "Tax 0.30"}, ""),
		Entry("prefers the last total", []string{"Total 4.00", "Grand Total $4.40"}, "4.40"),
		Entry("amount due", []string{"Amount Due: 9.99"}, "9.99"),
		Entry("label without price", []string{"Total", "Thanks"}, ""),
		Entry("no lines", nil, ""),
	)
})
