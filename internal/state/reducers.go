package state

import (
	"slices"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
)

// CatalogState holds the products and categories lists. Loaded flips once a product page arrives.
type CatalogState struct {
	RequestStatus
	Products           []domain.CatalogItem `json:"products"`
	Pagination         domain.PageInfo      `json:"pagination"`
	Loaded             bool                 `json:"loaded"`
	Categories         []domain.Category    `json:"categories"`
	CategoryPagination domain.PageInfo      `json:"categoryPagination"`
	CategoryStatus     RequestStatus        `json:"categoryStatus"`
}

// Stock returns the known stock of productID. known is false when the catalog has not been
// loaded or does not list the product.
func (c CatalogState) Stock(productID int64) (stock int, known bool) {
	if !c.Loaded {
		return 0, false
	}
	for _, item := range c.Products {
		if item.ProductID == productID {
			return item.Quantity, true
		}
	}
	return 0, false
}

func reduceCatalog(s CatalogState, action Action) CatalogState {
	if status, ok := lifecycle(ScopeCatalog, s.RequestStatus, action); ok {
		s.RequestStatus = status
		return s
	}
	if status, ok := lifecycle(ScopeCategories, s.CategoryStatus, action); ok {
		s.CategoryStatus = status
		return s
	}
	switch a := action.(type) {
	case ProductsLoaded:
		s.Products = a.Page.Content
		s.Pagination = a.Page.PageInfo
		s.Loaded = true
	case CategoriesLoaded:
		s.Categories = a.Page.Content
		s.CategoryPagination = a.Page.PageInfo
	}
	return s
}

// CartState wraps the cart. BasketID is nil until the server cart has been adopted.
type CartState struct {
	RequestStatus
	domain.Cart
}

// Line returns the cart line of productID.
func (c CartState) Line(productID int64) (domain.CartLine, bool) {
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return line, true
		}
	}
	return domain.CartLine{}, false
}

func reduceCart(s CartState, action Action) CartState {
	if status, ok := lifecycle(ScopeCart, s.RequestStatus, action); ok {
		s.RequestStatus = status
		return s
	}
	switch a := action.(type) {
	case CartLineUpserted:
		if a.Line.Quantity < 1 {
			return s
		}
		lines := slices.Clone(s.Lines)
		idx := slices.IndexFunc(lines, func(l domain.CartLine) bool { return l.ProductID == a.Line.ProductID })
		if idx >= 0 {
			lines[idx] = a.Line
		} else {
			lines = append(lines, a.Line)
		}
		s.Lines = lines
		s.TotalAmount = domain.LinesTotal(lines)
	case CartLineRemoved:
		idx := slices.IndexFunc(s.Lines, func(l domain.CartLine) bool { return l.ProductID == a.ProductID })
		if idx < 0 {
			return s
		}
		s.Lines = slices.Delete(slices.Clone(s.Lines), idx, idx+1)
		s.TotalAmount = domain.LinesTotal(s.Lines)
	case CartReplaced:
		s.Cart = a.Cart
	case CartCleared:
		s.Cart = domain.Cart{}
	}
	return s
}

// AuthState holds the session, the user's addresses and the checkout address reference.
type AuthState struct {
	RequestStatus
	Session         *domain.Session  `json:"session,omitempty"`
	Addresses       []domain.Address `json:"addresses"`
	CheckoutAddress *domain.Address  `json:"checkoutAddress,omitempty"`
}

// Authenticated reports whether a complete session is present.
func (a AuthState) Authenticated() bool { return a.Session.Valid() }

func reduceAuth(s AuthState, action Action) AuthState {
	if status, ok := lifecycle(ScopeAuth, s.RequestStatus, action); ok {
		s.RequestStatus = status
		return s
	}
	switch a := action.(type) {
	case SessionStarted:
		if !a.Session.Valid() {
			return s
		}
		session := a.Session
		user := *session.User
		session.User = &user
		s.Session = &session
	case SessionEnded:
		s.Session = nil
		s.Addresses = nil
		s.CheckoutAddress = nil
	case UsernameUpdated:
		if !s.Session.Valid() {
			return s
		}
		user := *s.Session.User
		user.Username = a.Username
		s.Session = &domain.Session{Credential: s.Session.Credential, User: &user}
	case AddressesLoaded:
		s.Addresses = a.Addresses
	case CheckoutAddressSelected:
		address := a.Address
		s.CheckoutAddress = &address
	case CheckoutAddressReset:
		s.CheckoutAddress = nil
	}
	return s
}

// PaymentState holds the saved cards and the checkout payment selection.
type PaymentState struct {
	RequestStatus
	Cards     []domain.PaymentCard    `json:"cards"`
	Selection domain.PaymentSelection `json:"selection"`
}

func reducePayment(s PaymentState, action Action) PaymentState {
	if status, ok := lifecycle(ScopePayment, s.RequestStatus, action); ok {
		s.RequestStatus = status
		return s
	}
	switch a := action.(type) {
	case PaymentCardsLoaded:
		s.Cards = a.Cards
	case PaymentCardSelected:
		card := a.Card
		s.Selection = domain.PaymentSelection{Method: domain.PaymentMethodSavedCard, SelectedCard: &card}
	case PaymentMethodSelected:
		if !a.Method.Valid() {
			return s
		}
		sel := s.Selection
		sel.Method = a.Method
		if a.Method != domain.PaymentMethodSavedCard {
			sel.SelectedCard = nil
		}
		if a.Method != domain.PaymentMethodNewCard {
			sel.NewCardDraft = nil
		}
		s.Selection = sel
	case NewCardDraftSet:
		draft := a.Draft
		s.Selection = domain.PaymentSelection{Method: domain.PaymentMethodNewCard, NewCardDraft: &draft}
	case PaymentSelectionCleared:
		s.Selection = domain.PaymentSelection{}
	}
	return s
}

// OrdersState holds the admin order list and the signed-in user's order history.
type OrdersState struct {
	RequestStatus
	AdminOrders    []domain.Order  `json:"adminOrders"`
	Pagination     domain.PageInfo `json:"pagination"`
	UserOrders     []domain.Order  `json:"userOrders"`
	UserPagination domain.PageInfo `json:"userPagination"`
}

func reduceOrders(s OrdersState, action Action) OrdersState {
	if status, ok := lifecycle(ScopeOrders, s.RequestStatus, action); ok {
		s.RequestStatus = status
		return s
	}
	switch a := action.(type) {
	case AdminOrdersLoaded:
		s.AdminOrders = a.Page.Content
		s.Pagination = a.Page.PageInfo
	case UserOrdersLoaded:
		s.UserOrders = a.Page.Content
		s.UserPagination = a.Page.PageInfo
	}
	return s
}

// CustomersState holds the admin customer list and the last opened customer detail.
type CustomersState struct {
	RequestStatus
	Customers  []domain.Customer       `json:"customers"`
	Pagination domain.PageInfo         `json:"pagination"`
	Details    *domain.CustomerDetails `json:"details,omitempty"`
}

func reduceCustomers(s CustomersState, action Action) CustomersState {
	if status, ok := lifecycle(ScopeCustomers, s.RequestStatus, action); ok {
		s.RequestStatus = status
		return s
	}
	switch a := action.(type) {
	case CustomersLoaded:
		s.Customers = a.Page.Content
		s.Pagination = a.Page.PageInfo
	case CustomerDetailsLoaded:
		details := a.Details
		s.Details = &details
	}
	return s
}

// AdminState holds the dashboard analytics.
type AdminState struct {
	RequestStatus
	Analytics domain.Analytics `json:"analytics"`
}

func reduceAdmin(s AdminState, action Action) AdminState {
	if status, ok := lifecycle(ScopeAdmin, s.RequestStatus, action); ok {
		s.RequestStatus = status
		return s
	}
	if a, ok := action.(AnalyticsLoaded); ok {
		s.Analytics = a.Analytics
	}
	return s
}
