// Package format renders prices, card numbers and checkout totals for display.
package format

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
)

// LowStockThreshold is the stock level at or below which a product is flagged as running out.
const LowStockThreshold = 10

var (
	freeShippingThreshold = decimal.NewFromInt(50)
	shippingCost          = decimal.RequireFromString("5.99")
	taxRate               = decimal.RequireFromString("0.08")
	maxGroupedUnits       = decimal.NewFromInt(math.MaxInt64)

	printer = message.NewPrinter(language.AmericanEnglish)
)

// Price renders amount in dollars with grouping, for example "$1,234.50". The digits come from
// the decimal itself, so large amounts keep every cent.
func Price(amount decimal.Decimal) string {
	sign := ""
	if amount.Round(2).IsNegative() {
		sign = "-"
	}
	rounded := amount.Abs().Round(2)
	whole, cents, _ := strings.Cut(rounded.StringFixed(2), ".")
	if units := rounded.Truncate(0); units.LessThanOrEqual(maxGroupedUnits) {
		whole = printer.Sprintf("%v", number.Decimal(units.IntPart()))
	}
	return sign + "$" + whole + "." + cents
}

// MaskCard hides all but the last four characters of a card number.
func MaskCard(cardNumber string) string {
	cardNumber = strings.ReplaceAll(strings.TrimSpace(cardNumber), " ", "")
	if len(cardNumber) < 4 {
		return cardNumber
	}
	return "**** **** **** " + cardNumber[len(cardNumber)-4:]
}

// MaskedCard is MaskCard applied to a saved card.
func MaskedCard(card domain.PaymentCard) string {
	return MaskCard(card.CardNumber)
}

// Stock describes a product's availability.
func Stock(quantity int) string {
	switch {
	case quantity <= 0:
		return "Out of stock"
	case quantity <= LowStockThreshold:
		return printer.Sprintf("Only %d left", quantity)
	default:
		return "In stock"
	}
}

// Totals is the checkout estimate shown beside the cart. The backend remains the authority
// on what is charged.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// OrderTotals estimates tax and shipping for lines. Shipping is free from 50.00 upwards and
// for an empty cart.
func OrderTotals(lines []domain.CartLine) Totals {
	subtotal := domain.LinesTotal(lines)
	tax := subtotal.Mul(taxRate).Round(2)
	shipping := decimal.Zero
	if len(lines) > 0 && subtotal.LessThan(freeShippingThreshold) {
		shipping = shippingCost
	}
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
