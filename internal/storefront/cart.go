package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/apiclient"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/persist"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/routes"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/state"
)

// ErrOutOfStock is returned when a cart change exceeds the known stock.
var ErrOutOfStock = fmt.Errorf("%w: not enough stock", ErrValidation)

// CartSource tells where a loaded cart came from.
type CartSource int

const (
	// CartFromServer is the authoritative server-side cart.
	CartFromServer CartSource = iota + 1
	// CartFromLocalFallback is the persisted local cart, used when the server fetch failed.
	CartFromLocalFallback
)

func (c CartSource) String() string {
	switch c {
	case CartFromServer:
		return "server"
	case CartFromLocalFallback:
		return "local"
	}
	return "unknown"
}

// CartResult is the cart adopted by LoadUserCartData.
type CartResult struct {
	Source CartSource
	Cart   domain.Cart
}

type serverCart struct {
	CartID     int64             `json:"cartId"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	Products   []domain.CartLine `json:"products"`
}

// AddItemToCart merges line into the cart with quantity, replacing any line for the same product.
// No request is made; the cart is synced lazily at login, checkout and logout.
func (s *Service) AddItemToCart(line domain.CartLine, quantity int) error {
	if quantity < 1 {
		return s.invalid("Quantity must be at least 1")
	}
	if stock, known := s.State().Catalog.Stock(line.ProductID); known && stock < quantity {
		s.notifier.Error("Out of stock")
		return fmt.Errorf("%w: product %d has %d, requested %d", ErrOutOfStock, line.ProductID, stock, quantity)
	}

	line.Quantity = quantity
	s.store.Dispatch(state.CartLineUpserted{Line: line})
	s.notifier.Success(line.ProductName + " added to the cart")
	s.persistCart()
	return nil
}

// IncreaseCartItemQuantity bumps line by one and returns the new quantity. When no catalog
// has been loaded the stock cannot be checked and the change is allowed.
func (s *Service) IncreaseCartItemQuantity(line domain.CartLine) (int, error) {
	next := line.Quantity + 1
	catalog := s.State().Catalog
	if catalog.Loaded {
		stock, known := catalog.Stock(line.ProductID)
		if !known || stock < next {
			s.notifier.Error("Quantity Reached to Limit")
			return line.Quantity, fmt.Errorf("%w: product %d capped at %d", ErrOutOfStock, line.ProductID, line.Quantity)
		}
	}

	line.Quantity = next
	s.store.Dispatch(state.CartLineUpserted{Line: line})
	s.persistCart()
	return next, nil
}

// DecreaseCartItemQuantity lowers line by one, never below 1, and returns the new quantity.
func (s *Service) DecreaseCartItemQuantity(line domain.CartLine) int {
	next := line.Quantity - 1
	if next < 1 {
		next = 1
	}
	line.Quantity = next
	s.store.Dispatch(state.CartLineUpserted{Line: line})
	s.persistCart()
	return next
}

// RemoveItemFromCart drops the line for line.ProductID.
func (s *Service) RemoveItemFromCart(line domain.CartLine) {
	s.store.Dispatch(state.CartLineRemoved{ProductID: line.ProductID})
	s.notifier.Success(line.ProductName + " removed from cart")
	s.persistCart()
}

// LoadUserCartData adopts the server cart. If the fetch fails and a local cart was persisted,
// that cart is adopted instead with its total recomputed and no basket id.
func (s *Service) LoadUserCartData(ctx context.Context) (CartResult, error) {
	s.begin(state.ScopeCart)

	var payload serverCart
	fetchErr := s.api.Send(ctx, http.MethodGet, "/carts/users/cart", nil, &payload)
	if fetchErr == nil {
		basketID := payload.CartID
		cart := domain.Cart{Lines: payload.Products, TotalAmount: payload.TotalPrice, BasketID: &basketID}
		s.store.Dispatch(state.CartReplaced{Cart: cart})
		s.persistCart()
		s.succeed(state.ScopeCart)
		return CartResult{Source: CartFromServer, Cart: cart}, nil
	}

	var lines []domain.CartLine
	if err := s.persist.Load(persist.KeyCartItems, &lines); err != nil {
		if !errors.Is(err, persist.ErrNotFound) {
			s.log(ctx).Warn("local cart unreadable", zap.Error(err))
		}
		return CartResult{}, s.failQuietly(ctx, state.ScopeCart, "load cart", apiclient.MessageOr(fetchErr, "Failed to fetch cart items"), fetchErr)
	}

	s.log(ctx).Info("server cart unavailable, using local cart", zap.Int("lines", len(lines)), zap.Error(fetchErr))
	cart := domain.Cart{Lines: lines, TotalAmount: domain.LinesTotal(lines)}
	s.store.Dispatch(state.CartReplaced{Cart: cart})
	s.succeed(state.ScopeCart)
	return CartResult{Source: CartFromLocalFallback, Cart: cart}, nil
}

// InitializeUserCart pushes lines to the server cart and then adopts the server's copy.
func (s *Service) InitializeUserCart(ctx context.Context, lines []domain.CartLine) (CartResult, error) {
	s.begin(state.ScopeCart)
	if err := s.api.Send(ctx, http.MethodPost, "/cart/create", domain.CartItemRefs(lines), nil); err != nil {
		return CartResult{}, s.failQuietly(ctx, state.ScopeCart, "create cart", apiclient.MessageOr(err, "Failed to create cart items"), err)
	}
	return s.LoadUserCartData(ctx)
}

// mergeGuestCart folds guest into the server cart and adopts the result. A guest line replaces
// the server line for the same product. Without guest lines the server cart is adopted as is.
func (s *Service) mergeGuestCart(ctx context.Context, guest []domain.CartLine) error {
	if len(guest) == 0 {
		_, err := s.LoadUserCartData(ctx)
		return err
	}

	var payload serverCart
	if err := s.api.Send(ctx, http.MethodGet, "/carts/users/cart", nil, &payload); err != nil {
		var apiErr *apiclient.Error
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
			return fmt.Errorf("fetch server cart: %w", err)
		}
	}
	_, err := s.InitializeUserCart(ctx, mergeLines(payload.Products, guest))
	return err
}

func mergeLines(base, overlay []domain.CartLine) []domain.CartLine {
	merged := slices.Clone(base)
	for _, line := range overlay {
		idx := slices.IndexFunc(merged, func(l domain.CartLine) bool { return l.ProductID == line.ProductID })
		if idx >= 0 {
			merged[idx] = line
			continue
		}
		merged = append(merged, line)
	}
	return merged
}

// SyncCartForCheckout pushes the cart, re-fetches it for the server's totals, then opens checkout.
// Anonymous visitors are sent to login and an empty cart aborts; neither issues a request.
func (s *Service) SyncCartForCheckout(ctx context.Context) error {
	current := s.State()
	if !current.Auth.Authenticated() {
		err := s.invalid("Please login to proceed to checkout")
		s.navigator.Navigate(routes.Login)
		return err
	}
	if len(current.Cart.Lines) == 0 {
		return s.invalid("Your cart is empty")
	}

	s.begin(state.ScopeCart)
	if err := s.api.Send(ctx, http.MethodPost, "/cart/create", domain.CartItemRefs(current.Cart.Lines), nil); err != nil {
		return s.failLoudly(ctx, state.ScopeCart, "sync cart", apiclient.MessageOr(err, "Failed to sync cart"), err)
	}
	if _, err := s.LoadUserCartData(ctx); err != nil {
		s.log(ctx).Warn("re-fetch after cart sync failed", zap.Error(err))
	}
	s.succeed(state.ScopeCart)
	s.navigator.Navigate(routes.Checkout)
	return nil
}

func (s *Service) persistCart() {
	s.save(persist.KeyCartItems, s.State().Cart.Lines)
}
