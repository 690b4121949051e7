package storefront

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/apiclient"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/persist"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/routes"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/state"
)

// Payment payload values understood by the order endpoint.
const (
	paymentMethodCard = "Card"
	paymentMethodCOD  = "Cash on Delivery"
	demoGatewayName   = "Demo Payment Gateway"
	codGatewayName    = "None"
	codGatewayID      = "N/A"
)

// OrderValidationError names the checkout step that is incomplete.
type OrderValidationError struct {
	Message string
}

func (e *OrderValidationError) Error() string { return e.Message }

// Unwrap lets callers match ErrValidation.
func (e *OrderValidationError) Unwrap() error { return ErrValidation }

// BuildOrderRequest derives the place-order payload from the checkout selections in st.
// NEW_CARD and SAVED_CARD both go out as a "Card" payment with a synthesised gateway id;
// only SAVED_CARD references the stored card.
func BuildOrderRequest(st state.State, paymentID string) (domain.OrderRequest, error) {
	address := st.Auth.CheckoutAddress
	if address == nil {
		return domain.OrderRequest{}, &OrderValidationError{Message: "Please select a delivery address."}
	}
	sel := st.Payment.Selection
	req := domain.OrderRequest{AddressID: address.AddressID}

	switch sel.Method {
	case domain.PaymentMethodSavedCard:
		if sel.SelectedCard == nil {
			return domain.OrderRequest{}, &OrderValidationError{Message: "Please select a payment card before proceeding."}
		}
		cardID := sel.SelectedCard.CardID
		req.PaymentMethod = paymentMethodCard
		req.CardID = &cardID
		req.PgName = demoGatewayName
		req.PgPaymentID = paymentID
	case domain.PaymentMethodNewCard:
		if !draftComplete(sel.NewCardDraft) {
			return domain.OrderRequest{}, &OrderValidationError{Message: "Please fill out all card details before proceeding."}
		}
		req.PaymentMethod = paymentMethodCard
		req.PgName = demoGatewayName
		req.PgPaymentID = paymentID
	case domain.PaymentMethodCOD:
		req.PaymentMethod = paymentMethodCOD
		req.PgName = codGatewayName
		req.PgPaymentID = codGatewayID
	default:
		return domain.OrderRequest{}, &OrderValidationError{Message: "Please select a payment method."}
	}
	return req, nil
}

func draftComplete(card *domain.PaymentCard) bool {
	return card != nil &&
		strings.TrimSpace(card.CardNumber) != "" &&
		strings.TrimSpace(card.CardholderName) != "" &&
		card.ExpiryMonth != 0 &&
		card.ExpiryYear != 0 &&
		strings.TrimSpace(card.CVV) != ""
}

// SubmitUserOrder places the order. Success clears the cart, the checkout address, the payment
// selection and their persisted keys, then opens the confirmation page. Failure leaves all of
// them untouched so the order can be retried.
func (s *Service) SubmitUserOrder(ctx context.Context) (domain.Order, error) {
	req, err := BuildOrderRequest(s.State(), s.paymentIDs())
	if err != nil {
		s.notifier.Error(err.Error())
		return domain.Order{}, err
	}

	s.begin(state.ScopeOrders)
	var order domain.Order
	if err := s.api.Send(ctx, http.MethodPost, "/order/users/place-order", req, &order); err != nil {
		return domain.Order{}, s.failLoudly(ctx, state.ScopeOrders, "place order", apiclient.MessageOr(err, "Failed to place order"), err)
	}

	s.remove(persist.KeyCheckoutAddress, persist.KeyCheckoutCard, persist.KeyCartItems)
	s.store.Dispatch(state.CheckoutAddressReset{})
	s.store.Dispatch(state.CartCleared{})
	s.store.Dispatch(state.PaymentSelectionCleared{})
	s.succeed(state.ScopeOrders)
	s.notifier.Success("Order placed successfully!")
	s.navigator.Navigate(routes.OrderConfirm)
	return order, nil
}

// GetUserOrders loads a page of the signed-in user's orders, newest first. pageSize <= 0 uses the
// configured default.
func (s *Service) GetUserOrders(ctx context.Context, pageNumber, pageSize int) error {
	if pageNumber < 0 {
		pageNumber = 0
	}
	if pageSize <= 0 {
		pageSize = s.ordersSize
	}
	query := url.Values{}
	query.Set("pageNumber", strconv.Itoa(pageNumber))
	query.Set("pageSize", strconv.Itoa(pageSize))
	query.Set("sortBy", "orderId")
	query.Set("sortOrder", "desc")

	s.begin(state.ScopeOrders)
	var page domain.Page[domain.Order]
	if err := s.api.Send(ctx, http.MethodGet, withQuery("/orders/users", query.Encode()), nil, &page); err != nil {
		return s.failQuietly(ctx, state.ScopeOrders, "fetch user orders", apiclient.MessageOr(err, "Failed to fetch orders"), err)
	}
	s.store.Dispatch(state.UserOrdersLoaded{Page: page})
	s.succeed(state.ScopeOrders)
	return nil
}

func orderStatusEndpoint(orderID int64) string {
	return fmt.Sprintf("/admin/orders/%d/status", orderID)
}
