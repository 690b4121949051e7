package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	minCardNumberLength = 13
	maxCardNumberLength = 19
	minCVVLength        = 3
	maxCVVLength        = 4
)

// ErrInvalidCard is returned when a card fails client-side validation.
var ErrInvalidCard = errors.New("invalid payment card")

// PaymentCard is a saved card. The backend enforces at most one default card per user.
type PaymentCard struct {
	CardID         int64  `json:"cardId,omitempty"`
	CardNumber     string `json:"cardNumber"`
	CardholderName string `json:"cardholderName"`
	ExpiryMonth    int    `json:"expiryMonth"`
	ExpiryYear     int    `json:"expiryYear"`
	CVV            string `json:"cvv,omitempty"`
	IsDefault      bool   `json:"isDefault"`
}

// Last4 returns the trailing four digits of the card number.
func (c PaymentCard) Last4() string {
	digits := onlyDigits(c.CardNumber)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// Validate checks the card the way the checkout forms do before submitting it.
func (c PaymentCard) Validate(now time.Time) error {
	var problems []string

	number := onlyDigits(c.CardNumber)
	if len(number) < minCardNumberLength || len(number) > maxCardNumberLength {
		problems = append(problems, "card number must be 13-19 digits")
	}
	if strings.TrimSpace(c.CardholderName) == "" {
		problems = append(problems, "cardholder name is required")
	}
	if c.ExpiryMonth < 1 || c.ExpiryMonth > 12 {
		problems = append(problems, "expiry month must be between 1 and 12")
	}
	year := now.Year()
	if c.ExpiryYear < year {
		problems = append(problems, "card has expired")
	} else if c.ExpiryYear == year && c.ExpiryMonth >= 1 && c.ExpiryMonth < int(now.Month()) {
		problems = append(problems, "card has expired")
	}
	cvv := strings.TrimSpace(c.CVV)
	if cvv != "" && (len(cvv) < minCVVLength || len(cvv) > maxCVVLength || onlyDigits(cvv) != cvv) {
		problems = append(problems, "cvv must be 3-4 digits")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCard, strings.Join(problems, "; "))
	}
	return nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PaymentMethod is the checkout payment choice.
type PaymentMethod string

const (
	PaymentMethodSavedCard PaymentMethod = "SAVED_CARD"
	PaymentMethodNewCard   PaymentMethod = "NEW_CARD"
	PaymentMethodCOD       PaymentMethod = "COD"
)

// Valid reports whether the method is one of the known choices.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodSavedCard, PaymentMethodNewCard, PaymentMethodCOD:
		return true
	}
	return false
}

// PaymentSelection is the checkout payment choice bound to an in-progress order.
// SelectedCard is set only for SAVED_CARD and NewCardDraft only for NEW_CARD.
type PaymentSelection struct {
	Method       PaymentMethod `json:"method,omitempty"`
	SelectedCard *PaymentCard  `json:"selectedCard,omitempty"`
	NewCardDraft *PaymentCard  `json:"newCardDraft,omitempty"`
}
