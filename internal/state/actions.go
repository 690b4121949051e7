package state

import "github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"

// Action is the closed set of intents a reducer understands.
type Action interface {
	isAction()
}

// Request lifecycle.
type (
	RequestStarted struct {
		Scope Scope
	}
	RequestSucceeded struct {
		Scope Scope
	}
	RequestFailed struct {
		Scope   Scope
		Message string
	}
	ButtonLoadingSet struct {
		Loading bool
	}
)

// Catalog.
type (
	ProductsLoaded struct {
		Page domain.Page[domain.CatalogItem]
	}
	CategoriesLoaded struct {
		Page domain.Page[domain.Category]
	}
)

// Cart.
type (
	// CartLineUpserted replaces the line with the same product id, or appends it.
	CartLineUpserted struct {
		Line domain.CartLine
	}
	CartLineRemoved struct {
		ProductID int64
	}
	// CartReplaced adopts a cart wholesale, as returned by the server or the local fallback.
	CartReplaced struct {
		Cart domain.Cart
	}
	CartCleared struct{}
)

// Auth and addresses.
type (
	SessionStarted struct {
		Session domain.Session
	}
	SessionEnded    struct{}
	UsernameUpdated struct {
		Username string
	}
	AddressesLoaded struct {
		Addresses []domain.Address
	}
	CheckoutAddressSelected struct {
		Address domain.Address
	}
	CheckoutAddressReset struct{}
)

// Payment.
type (
	PaymentCardsLoaded struct {
		Cards []domain.PaymentCard
	}
	PaymentCardSelected struct {
		Card domain.PaymentCard
	}
	PaymentMethodSelected struct {
		Method domain.PaymentMethod
	}
	NewCardDraftSet struct {
		Draft domain.PaymentCard
	}
	PaymentSelectionCleared struct{}
)

// Orders, customers and analytics.
type (
	AdminOrdersLoaded struct {
		Page domain.Page[domain.Order]
	}
	UserOrdersLoaded struct {
		Page domain.Page[domain.Order]
	}
	CustomersLoaded struct {
		Page domain.Page[domain.Customer]
	}
	CustomerDetailsLoaded struct {
		Details domain.CustomerDetails
	}
	AnalyticsLoaded struct {
		Analytics domain.Analytics
	}
)

func (RequestStarted) isAction()          {}
func (RequestSucceeded) isAction()        {}
func (RequestFailed) isAction()           {}
func (ButtonLoadingSet) isAction()        {}
func (ProductsLoaded) isAction()          {}
func (CategoriesLoaded) isAction()        {}
func (CartLineUpserted) isAction()        {}
func (CartLineRemoved) isAction()         {}
func (CartReplaced) isAction()            {}
func (CartCleared) isAction()             {}
func (SessionStarted) isAction()          {}
func (SessionEnded) isAction()            {}
func (UsernameUpdated) isAction()         {}
func (AddressesLoaded) isAction()         {}
func (CheckoutAddressSelected) isAction() {}
func (CheckoutAddressReset) isAction()    {}
func (PaymentCardsLoaded) isAction()      {}
func (PaymentCardSelected) isAction()     {}
func (PaymentMethodSelected) isAction()   {}
func (NewCardDraftSet) isAction()         {}
func (PaymentSelectionCleared) isAction() {}
func (AdminOrdersLoaded) isAction()       {}
func (UserOrdersLoaded) isAction()        {}
func (CustomersLoaded) isAction()         {}
func (CustomerDetailsLoaded) isAction()   {}
func (AnalyticsLoaded) isAction()         {}
