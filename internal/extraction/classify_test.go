package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Categorize", func() {
	DescribeTable("mapping vendors to categories",
		func(vendor string, expected Category) {
			Expect(Categorize(vendor)).To(Equal(expected))
		},
		Entry("gas brand", "SHELL Station 42", CategoryTransportation),
		Entry("gas and grocery keywords prefer transportation", "Shell Mart", CategoryTransportation),
		Entry("petrol", "City Petrol Pump", CategoryTransportation),
		Entry("grocery", "Al-Fatah Grocery", CategoryGroceries),
		Entry("mart", "Imtiaz Mart", CategoryGroceries),
		Entry("grocery checked before restaurant", "Food Court Grill", CategoryGroceries),
		Entry("restaurant", "Kolachi Restaurant", CategoryRestaurant),
		Entry("cafe", "Gloria Jean's Cafe", CategoryRestaurant),
		Entry("unmatched vendor", "Unknown Boutique", CategoryShopping),
		Entry("empty vendor", "", CategoryOther),
		Entry("whitespace vendor", "   ", CategoryOther),
	)
})

var _ = Describe("DetectReceiptType", func() {
	DescribeTable("classifying receipts",
		func(lines []string, vendor string, expected ReceiptType) {
			Expect(DetectReceiptType(lines, vendor)).To(Equal(expected))
		},
		Entry("gas brand vendor", []string{"Total 10.00"}, "Chevron", ReceiptTypeGas),
		Entry("fuel in text", []string{"Pump 3", "Unleaded 12.4 Gallons"}, "Quick Stop", ReceiptTypeGas),
		Entry("gas wins over restaurant", []string{"Fuel 20.00", "Tip 2.00"}, "Diner", ReceiptTypeGas),
		Entry("restaurant vendor", []string{"Total 10.00"}, "Joe's Diner", ReceiptTypeRestaurant),
		Entry("gratuity in text", []string{"Gratuity 3.00"}, "Nando's", ReceiptTypeRestaurant),
		Entry("retail default", []string{"Shirt 19.99"}, "Outfitters", ReceiptTypeRetail),
	)
})

var _ = Describe("DetectPaymentMethod", func() {
	DescribeTable("detecting payment methods",
		func(text string, expected PaymentMethod) {
			Expect(DetectPaymentMethod(text)).To(Equal(expected))
		},
		Entry("visa", "PAID VISA ****1234", PaymentCard),
		Entry("debit", "Debit sale", PaymentCard),
		Entry("cash", "CASH TENDERED 20.00", PaymentCash),
		Entry("card wins over cash", "Cash back on card", PaymentCard),
		Entry("no keyword", "Thank you for shopping", PaymentCard),
		Entry("empty", "", PaymentCard),
	)
})

var _ = Describe("ParseCategory", func() {
	It("should accept any case", func() {
		c, err := ParseCategory("groceries")
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(CategoryGroceries))
	})

	It("should reject unknown categories", func() {
		_, err := ParseCategory("Travel")
		Expect(err).To(HaveOccurred())
	})
})
