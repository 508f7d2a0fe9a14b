package extraction

import "strings"

// Categorize maps a vendor name to a category.
// Groups are checked in a fixed order and the first group with a hit wins.
// An empty vendor is Other; a named vendor that matches nothing is Shopping.
func Categorize(vendor string) Category {
	vendor = strings.TrimSpace(vendor)
	if vendor == "" {
		return CategoryOther
	}

	switch {
	case transportationKeywords.in(vendor):
		return CategoryTransportation
	case groceryKeywords.in(vendor):
		return CategoryGroceries
	case restaurantKeywords.in(vendor):
		return CategoryRestaurant
	}
	return CategoryShopping
}

// DetectReceiptType classifies a receipt as gas, restaurant or retail.
// Gas checks strictly precede restaurant checks.
func DetectReceiptType(lines []string, vendor string) ReceiptType {
	text := strings.ToLower(strings.Join(lines, " "))

	if gasReceiptKeywords.in(vendor) || gasReceiptKeywords.in(text) {
		return ReceiptTypeGas
	}
	if restaurantReceiptKeywords.in(vendor) || restaurantReceiptKeywords.in(text) {
		return ReceiptTypeRestaurant
	}
	return ReceiptTypeRetail
}

// DetectPaymentMethod guesses the payment method from the full receipt text.
// Card is the default when neither card nor cash keywords appear.
func DetectPaymentMethod(text string) PaymentMethod {
	if cardKeywords.in(text) {
		return PaymentCard
	}
	if cashKeywords.in(text) {
		return PaymentCash
	}
	return PaymentCard
}
