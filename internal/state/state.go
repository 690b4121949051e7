// Package state is the single in-memory source of truth shared by the storefront.
// Every slice is changed only by its reducer, applied synchronously by Store.Dispatch.
package state

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/persist"
)

// State is the whole tree.
type State struct {
	Catalog   CatalogState   `json:"catalog"`
	Cart      CartState      `json:"cart"`
	Auth      AuthState      `json:"auth"`
	Payment   PaymentState   `json:"payment"`
	Orders    OrdersState    `json:"orders"`
	Customers CustomersState `json:"customers"`
	Admin     AdminState     `json:"admin"`
	Status    StatusState    `json:"status"`
}

// Reduce applies action to every slice.
func Reduce(s State, action Action) State {
	if action == nil {
		return s
	}
	return State{
		Catalog:   reduceCatalog(s.Catalog, action),
		Cart:      reduceCart(s.Cart, action),
		Auth:      reduceAuth(s.Auth, action),
		Payment:   reducePayment(s.Payment, action),
		Orders:    reduceOrders(s.Orders, action),
		Customers: reduceCustomers(s.Customers, action),
		Admin:     reduceAdmin(s.Admin, action),
		Status:    reduceStatus(s.Status, action),
	}
}

// Bootstrap builds the initial tree from the persisted snapshot. Unreadable keys are
// logged and skipped so a corrupt value never blocks startup.
func Bootstrap(store persist.Store, logger *zap.Logger) State {
	if logger == nil {
		logger = zap.NewNop()
	}
	var initial State
	if store == nil {
		return initial
	}

	var session domain.Session
	if load(store, persist.KeyAuth, &session, logger) && session.Valid() {
		initial.Auth.Session = &session
	}

	var lines []domain.CartLine
	if load(store, persist.KeyCartItems, &lines, logger) {
		initial.Cart.Lines = lines
		initial.Cart.TotalAmount = domain.LinesTotal(lines)
	}

	var address domain.Address
	if load(store, persist.KeyCheckoutAddress, &address, logger) {
		initial.Auth.CheckoutAddress = &address
	}

	var card domain.PaymentCard
	if load(store, persist.KeyCheckoutCard, &card, logger) {
		initial.Payment.Selection = domain.PaymentSelection{
			Method:       domain.PaymentMethodSavedCard,
			SelectedCard: &card,
		}
	}
	return initial
}

func load(store persist.Store, key string, dst any, logger *zap.Logger) bool {
	err := store.Load(key, dst)
	if err == nil {
		return true
	}
	if !errors.Is(err, persist.ErrNotFound) {
		logger.Warn("skipping unreadable persisted value", zap.String("key", key), zap.Error(err))
	}
	return false
}
