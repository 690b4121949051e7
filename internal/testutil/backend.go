// Package testutil provides an in-memory storefront backend for exercising the client end to end.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
)

const defaultPageSize = 10

// Failure makes a route reply with Status and Body instead of its normal response.
// Delay holds the reply back; the wait ends early when the client gives up.
type Failure struct {
	Status int
	Body   any
	Delay  time.Duration
}

// Call records one request received by the backend.
type Call struct {
	Method        string
	Route         string
	Path          string
	Query         string
	Authorization string
	Body          []byte
}

// Account is a user able to sign in.
type Account struct {
	User     domain.User
	Password string
}

// Token returns the bearer credential issued to the account.
func (a Account) Token() string { return "token-" + a.User.Username }

type cartPayload struct {
	CartID     int64             `json:"cartId"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	Products   []domain.CartLine `json:"products"`
}

// Backend is a fake REST backend holding its data in memory. Routes match the real API
// under /api and protected routes require a bearer token of a known account.
type Backend struct {
	Server *httptest.Server

	mu         sync.Mutex
	accounts   map[string]Account
	products   []domain.CatalogItem
	categories []domain.Category
	addresses  []domain.Address
	cards      []domain.PaymentCard
	orders     []domain.Order
	customers  []domain.Customer
	analytics  domain.Analytics
	cart       *cartPayload
	uploads    map[int64]string
	failures   map[string]Failure
	calls      []Call
	nextID     int64
}

// BackendOption seeds a Backend.
type BackendOption func(*Backend)

// WithAccount registers an account able to sign in.
func WithAccount(account Account) BackendOption {
	return func(b *Backend) {
		b.accounts[account.User.Username] = account
	}
}

// WithProducts seeds the catalog.
func WithProducts(products ...domain.CatalogItem) BackendOption {
	return func(b *Backend) {
		b.products = append(b.products, products...)
	}
}

// WithCategories seeds the categories.
func WithCategories(categories ...domain.Category) BackendOption {
	return func(b *Backend) {
		b.categories = append(b.categories, categories...)
	}
}

// WithAddresses seeds the signed-in user's addresses.
func WithAddresses(addresses ...domain.Address) BackendOption {
	return func(b *Backend) {
		b.addresses = append(b.addresses, addresses...)
	}
}

// WithCards seeds the signed-in user's payment cards.
func WithCards(cards ...domain.PaymentCard) BackendOption {
	return func(b *Backend) {
		b.cards = append(b.cards, cards...)
	}
}

// WithOrders seeds the order history.
func WithOrders(orders ...domain.Order) BackendOption {
	return func(b *Backend) {
		b.orders = append(b.orders, orders...)
	}
}

// WithCustomers seeds the admin customer list.
func WithCustomers(customers ...domain.Customer) BackendOption {
	return func(b *Backend) {
		b.customers = append(b.customers, customers...)
	}
}

// WithAnalytics sets the dashboard figures.
func WithAnalytics(analytics domain.Analytics) BackendOption {
	return func(b *Backend) {
		b.analytics = analytics
	}
}

// WithServerCart seeds the server-side cart.
func WithServerCart(cartID int64, lines ...domain.CartLine) BackendOption {
	return func(b *Backend) {
		b.cart = &cartPayload{CartID: cartID, TotalPrice: domain.LinesTotal(lines), Products: lines}
	}
}

// NewBackend starts a Backend that is closed when the test ends.
func NewBackend(t testing.TB, opts ...BackendOption) *Backend {
	t.Helper()

	b := &Backend{
		accounts: make(map[string]Account),
		uploads:  make(map[int64]string),
		failures: make(map[string]Failure),
		nextID:   1000,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// BaseURL is the API root to configure the client with.
func (b *Backend) BaseURL() string { return b.Server.URL + "/api" }

// Fail makes method+route reply with failure until Recover is called.
// route is the pattern relative to /api, for example "/addresses/{addressID}".
func (b *Backend) Fail(method, route string, failure Failure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+route] = failure
}

// Recover removes a failure set with Fail.
func (b *Backend) Recover(method, route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, method+" "+route)
}

// Calls returns every request received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// CallCount returns how many requests matched method and route.
func (b *Backend) CallCount(method, route string) int {
	count := 0
	for _, call := range b.Calls() {
		if call.Method == method && call.Route == route {
			count++
		}
	}
	return count
}

// LastCall returns the most recent request for method and route.
func (b *Backend) LastCall(method, route string) (Call, bool) {
	calls := b.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method && calls[i].Route == route {
			return calls[i], true
		}
	}
	return Call{}, false
}

// ServerCart returns the server-side cart lines, or nil when no cart exists.
func (b *Backend) ServerCart() []domain.CartLine {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cart == nil {
		return nil
	}
	return append([]domain.CartLine(nil), b.cart.Products...)
}

// Orders returns the stored orders.
func (b *Backend) Orders() []domain.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Order(nil), b.orders...)
}

// Upload returns the content uploaded as the image of productID.
func (b *Backend) Upload(productID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploads[productID]
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signin", b.handle(false, b.signin))
		api.Post("/auth/signup", b.handle(false, b.signup))
		api.Get("/public/products", b.handle(false, b.listProducts))
		api.Get("/public/categories", b.handle(false, b.listCategories))

		api.Put("/auth/user/username", b.handle(true, b.updateUsername))
		api.Get("/auth/customers", b.handle(true, b.listCustomers))

		api.Get("/admin/products", b.handle(true, b.listProducts))
		api.Post("/admin/categories/{categoryID}/product", b.handle(true, b.createProduct))
		api.Put("/admin/products/{productID}", b.handle(true, b.updateProduct))
		api.Delete("/admin/products/{productID}", b.handle(true, b.deleteProduct))
		api.Put("/admin/products/{productID}/image", b.handle(true, b.uploadImage))
		api.Post("/admin/categories", b.handle(true, b.createCategory))
		api.Put("/admin/categories/{categoryID}", b.handle(true, b.updateCategory))
		api.Delete("/admin/categories/{categoryID}", b.handle(true, b.deleteCategory))
		api.Get("/admin/app/analytics", b.handle(true, b.getAnalytics))
		api.Get("/admin/orders", b.handle(true, b.listOrders))
		api.Put("/admin/orders/{orderID}/status", b.handle(true, b.updateOrderStatus))
		api.Get("/admin/addresses/user/{userID}", b.handle(true, b.listAddresses))
		api.Get("/admin/payment-cards/user/{userID}", b.handle(true, b.listCards))
		api.Get("/admin/orders/user/{userID}", b.handle(true, b.listOrders))

		api.Get("/addresses", b.handle(true, b.listAddresses))
		api.Post("/addresses", b.handle(true, b.createAddress))
		api.Put("/addresses/{addressID}", b.handle(true, b.updateAddress))
		api.Delete("/addresses/{addressID}", b.handle(true, b.deleteAddress))

		api.Get("/users/payment-cards", b.handle(true, b.listCards))
		api.Get("/payment-cards", b.handle(true, b.listCards))
		api.Post("/payment-cards", b.handle(true, b.createCard))
		api.Put("/payment-cards/{cardID}", b.handle(true, b.updateCard))
		api.Delete("/payment-cards/{cardID}", b.handle(true, b.deleteCard))
		api.Put("/payment-cards/{cardID}/set-default", b.handle(true, b.setDefaultCard))

		api.Post("/cart/create", b.handle(true, b.createCart))
		api.Get("/carts/users/cart", b.handle(true, b.getCart))

		api.Post("/order/users/place-order", b.handle(true, b.placeOrder))
		api.Get("/orders/users", b.handle(true, b.listOrders))
	})
	return r
}

// handle records the call, applies configured failures and the auth check, then runs next
// with the backend lock held so every handler sees a consistent snapshot.
func (b *Backend) handle(protected bool, next func(w http.ResponseWriter, r *http.Request, body []byte)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		route := strings.TrimPrefix(chi.RouteContext(r.Context()).RoutePattern(), "/api")
		body, _ := io.ReadAll(io.LimitReader(r.Body, 1<<20))

		b.mu.Lock()
		b.calls = append(b.calls, Call{
			Method:        r.Method,
			Route:         route,
			Path:          strings.TrimPrefix(r.URL.Path, "/api"),
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		failure, failing := b.failures[r.Method+" "+route]
		b.mu.Unlock()

		if failing {
			if failure.Delay > 0 {
				select {
				case <-time.After(failure.Delay):
				case <-r.Context().Done():
					return
				}
			}
			status := failure.Status
			if status == 0 {
				status = http.StatusInternalServerError
			}
			writeJSON(w, status, failure.Body)
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		if protected && !b.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Full authentication is required to access this resource"})
			return
		}
		next(w, r, body)
	}
}

func (b *Backend) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return false
	}
	for _, account := range b.accounts {
		if account.Token() == token {
			return true
		}
	}
	return false
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

func (b *Backend) signin(w http.ResponseWriter, _ *http.Request, body []byte) {
	var creds domain.Credentials
	if err := json.Unmarshal(body, &creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed request"})
		return
	}
	account, ok := b.accounts[creds.Username]
	if !ok || account.Password != creds.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Bad credentials", "status": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       account.User.ID,
		"username": account.User.Username,
		"email":    account.User.Email,
		"roles":    account.User.Roles,
		"jwtToken": account.Token(),
	})
}

func (b *Backend) signup(w http.ResponseWriter, _ *http.Request, body []byte) {
	var reg domain.Registration
	if err := json.Unmarshal(body, &reg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed request"})
		return
	}
	if len(reg.Password) < 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"password": "size must be between 6 and 40"})
		return
	}
	if _, taken := b.accounts[reg.Username]; taken {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Error: Username is already taken!"})
		return
	}
	user := domain.User{ID: b.id(), Username: reg.Username, Email: reg.Email, Roles: []string{domain.RoleUser}}
	b.accounts[reg.Username] = Account{User: user, Password: reg.Password}
	if reg.Address != nil {
		address := *reg.Address
		address.AddressID = b.id()
		b.addresses = append(b.addresses, address)
	}
	if reg.Card != nil {
		card := *reg.Card
		card.CardID = b.id()
		b.cards = append(b.cards, card)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully!"})
}

func (b *Backend) updateUsername(w http.ResponseWriter, r *http.Request, body []byte) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(body, &req); err != nil || strings.TrimSpace(req.Username) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Username is required"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Username updated successfully"})
}

func (b *Backend) listProducts(w http.ResponseWriter, r *http.Request, _ []byte) {
	items := b.products
	if category := r.URL.Query().Get("category"); category != "" {
		id, _ := strconv.ParseInt(category, 10, 64)
		items = filter(items, func(p domain.CatalogItem) bool { return p.CategoryID == id })
	}
	if keyword := strings.ToLower(r.URL.Query().Get("keyword")); keyword != "" {
		items = filter(items, func(p domain.CatalogItem) bool {
			return strings.Contains(strings.ToLower(p.ProductName), keyword)
		})
	}
	writeJSON(w, http.StatusOK, paginate(items, r))
}

func (b *Backend) listCategories(w http.ResponseWriter, r *http.Request, _ []byte) {
	writeJSON(w, http.StatusOK, paginate(b.categories, r))
}

func (b *Backend) listCustomers(w http.ResponseWriter, r *http.Request, _ []byte) {
	writeJSON(w, http.StatusOK, paginate(b.customers, r))
}

func (b *Backend) createProduct(w http.ResponseWriter, r *http.Request, body []byte) {
	var product domain.CatalogItem
	if err := json.Unmarshal(body, &product); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"description": "malformed product"})
		return
	}
	product.ProductID = b.id()
	product.CategoryID = pathID(r, "categoryID")
	b.products = append(b.products, product)
	writeJSON(w, http.StatusCreated, product)
}

func (b *Backend) updateProduct(w http.ResponseWriter, r *http.Request, body []byte) {
	id := pathID(r, "productID")
	var product domain.CatalogItem
	if err := json.Unmarshal(body, &product); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"description": "malformed product"})
		return
	}
	for i := range b.products {
		if b.products[i].ProductID == id {
			product.ProductID = id
			b.products[i] = product
			writeJSON(w, http.StatusOK, product)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"description": "Product not found"})
}

func (b *Backend) deleteProduct(w http.ResponseWriter, r *http.Request, _ []byte) {
	id := pathID(r, "productID")
	before := len(b.products)
	b.products = filter(b.products, func(p domain.CatalogItem) bool { return p.ProductID != id })
	if len(b.products) == before {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (b *Backend) uploadImage(w http.ResponseWriter, r *http.Request, body []byte) {
	id := pathID(r, "productID")
	r.Body = io.NopCloser(strings.NewReader(string(body)))
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"description": "image is required"})
		return
	}
	defer file.Close()
	raw, _ := io.ReadAll(file)
	b.uploads[id] = string(raw)
	for i := range b.products {
		if b.products[i].ProductID == id {
			b.products[i].Image = header.Filename
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"productId": id, "image": header.Filename})
}

func (b *Backend) createCategory(w http.ResponseWriter, _ *http.Request, body []byte) {
	var category domain.Category
	if err := json.Unmarshal(body, &category); err != nil || strings.TrimSpace(category.CategoryName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"categoryName": "must not be blank"})
		return
	}
	for _, existing := range b.categories {
		if strings.EqualFold(existing.CategoryName, category.CategoryName) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Category already exists"})
			return
		}
	}
	category.CategoryID = b.id()
	b.categories = append(b.categories, category)
	writeJSON(w, http.StatusCreated, category)
}

func (b *Backend) updateCategory(w http.ResponseWriter, r *http.Request, body []byte) {
	id := pathID(r, "categoryID")
	var category domain.Category
	if err := json.Unmarshal(body, &category); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"categoryName": "must not be blank"})
		return
	}
	for i := range b.categories {
		if b.categories[i].CategoryID == id {
			b.categories[i].CategoryName = category.CategoryName
			writeJSON(w, http.StatusOK, b.categories[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Category not found"})
}

func (b *Backend) deleteCategory(w http.ResponseWriter, r *http.Request, _ []byte) {
	id := pathID(r, "categoryID")
	b.categories = filter(b.categories, func(c domain.Category) bool { return c.CategoryID != id })
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (b *Backend) getAnalytics(w http.ResponseWriter, _ *http.Request, _ []byte) {
	writeJSON(w, http.StatusOK, b.analytics)
}

func (b *Backend) listOrders(w http.ResponseWriter, r *http.Request, _ []byte) {
	writeJSON(w, http.StatusOK, paginate(b.orders, r))
}

func (b *Backend) updateOrderStatus(w http.ResponseWriter, r *http.Request, body []byte) {
	id := pathID(r, "orderID")
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := json.Unmarshal(body, &req); err != nil || !req.Status.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid order status"})
		return
	}
	for i := range b.orders {
		if b.orders[i].OrderID == id {
			b.orders[i].Status = req.Status
			writeJSON(w, http.StatusOK, map[string]string{"message": "Order status updated"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Order not found"})
}

func (b *Backend) listAddresses(w http.ResponseWriter, _ *http.Request, _ []byte) {
	writeJSON(w, http.StatusOK, nonNil(b.addresses))
}

func (b *Backend) createAddress(w http.ResponseWriter, _ *http.Request, body []byte) {
	var address domain.Address
	if err := json.Unmarshal(body, &address); err != nil || strings.TrimSpace(address.Street) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Street name must not be blank"})
		return
	}
	address.AddressID = b.id()
	b.addresses = append(b.addresses, address)
	writeJSON(w, http.StatusCreated, address)
}

func (b *Backend) updateAddress(w http.ResponseWriter, r *http.Request, body []byte) {
	id := pathID(r, "addressID")
	var address domain.Address
	if err := json.Unmarshal(body, &address); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed address"})
		return
	}
	for i := range b.addresses {
		if b.addresses[i].AddressID == id {
			address.AddressID = id
			b.addresses[i] = address
			writeJSON(w, http.StatusOK, address)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Address not found"})
}

func (b *Backend) deleteAddress(w http.ResponseWriter, r *http.Request, _ []byte) {
	id := pathID(r, "addressID")
	b.addresses = filter(b.addresses, func(a domain.Address) bool { return a.AddressID != id })
	writeJSON(w, http.StatusOK, map[string]string{"message": "Address deleted successfully"})
}

func (b *Backend) listCards(w http.ResponseWriter, _ *http.Request, _ []byte) {
	writeJSON(w, http.StatusOK, nonNil(b.cards))
}

func (b *Backend) createCard(w http.ResponseWriter, _ *http.Request, body []byte) {
	var card domain.PaymentCard
	if err := json.Unmarshal(body, &card); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed card"})
		return
	}
	card.CardID = b.id()
	card.IsDefault = len(b.cards) == 0
	b.cards = append(b.cards, card)
	writeJSON(w, http.StatusCreated, card)
}

func (b *Backend) updateCard(w http.ResponseWriter, r *http.Request, body []byte) {
	id := pathID(r, "cardID")
	var card domain.PaymentCard
	if err := json.Unmarshal(body, &card); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed card"})
		return
	}
	for i := range b.cards {
		if b.cards[i].CardID == id {
			card.CardID = id
			card.IsDefault = b.cards[i].IsDefault
			b.cards[i] = card
			writeJSON(w, http.StatusOK, card)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Payment card not found"})
}

func (b *Backend) deleteCard(w http.ResponseWriter, r *http.Request, _ []byte) {
	id := pathID(r, "cardID")
	b.cards = filter(b.cards, func(c domain.PaymentCard) bool { return c.CardID != id })
	writeJSON(w, http.StatusOK, map[string]string{"message": "Payment card deleted"})
}

func (b *Backend) setDefaultCard(w http.ResponseWriter, r *http.Request, _ []byte) {
	id := pathID(r, "cardID")
	found := false
	for i := range b.cards {
		b.cards[i].IsDefault = b.cards[i].CardID == id
		found = found || b.cards[i].IsDefault
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Payment card not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Default card updated"})
}

func (b *Backend) createCart(w http.ResponseWriter, _ *http.Request, body []byte) {
	var refs []domain.CartItemRef
	if err := json.Unmarshal(body, &refs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed cart"})
		return
	}
	lines := make([]domain.CartLine, 0, len(refs))
	for _, ref := range refs {
		product, ok := find(b.products, func(p domain.CatalogItem) bool { return p.ProductID == ref.ProductID })
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": fmt.Sprintf("Product not found with productId: %d", ref.ProductID)})
			return
		}
		if product.Quantity < ref.Quantity {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Please, make an order of the " + product.ProductName + " less than or equal to the quantity " + strconv.Itoa(product.Quantity) + "."})
			return
		}
		price := product.Price
		if !product.SpecialPrice.IsZero() {
			price = product.SpecialPrice
		}
		line := product.AsCartLine(ref.Quantity)
		line.Price = price
		lines = append(lines, line)
	}
	cartID := int64(1)
	if b.cart != nil {
		cartID = b.cart.CartID
	}
	b.cart = &cartPayload{CartID: cartID, TotalPrice: domain.LinesTotal(lines), Products: lines}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Cart created/updated with the new items successfully"})
}

func (b *Backend) getCart(w http.ResponseWriter, _ *http.Request, _ []byte) {
	if b.cart == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Cart not found"})
		return
	}
	writeJSON(w, http.StatusOK, b.cart)
}

func (b *Backend) placeOrder(w http.ResponseWriter, _ *http.Request, body []byte) {
	var req domain.OrderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed order"})
		return
	}
	if b.cart == nil || len(b.cart.Products) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Cart is empty"})
		return
	}
	if _, ok := find(b.addresses, func(a domain.Address) bool { return a.AddressID == req.AddressID }); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Address not found"})
		return
	}

	items := make([]domain.OrderItem, 0, len(b.cart.Products))
	for _, line := range b.cart.Products {
		items = append(items, domain.OrderItem{
			OrderItemID:         b.id(),
			Product:             domain.CatalogItem{ProductID: line.ProductID, ProductName: line.ProductName},
			Quantity:            line.Quantity,
			OrderedProductPrice: line.Price,
		})
	}
	order := domain.Order{
		OrderID:     b.id(),
		OrderItems:  items,
		OrderDate:   time.Now().UTC().Format("2006-01-02"),
		TotalAmount: b.cart.TotalPrice,
		Status:      domain.OrderStatusAccepted,
		AddressID:   req.AddressID,
		Payment: domain.Payment{
			PaymentID:     b.id(),
			PaymentMethod: req.PaymentMethod,
			PgPaymentID:   req.PgPaymentID,
			PgName:        req.PgName,
			PgStatus:      req.PgStatus,
		},
	}
	b.orders = append(b.orders, order)
	b.cart = nil
	writeJSON(w, http.StatusCreated, order)
}

func paginate[T any](items []T, r *http.Request) domain.Page[T] {
	pageNumber, _ := strconv.Atoi(r.URL.Query().Get("pageNumber"))
	if pageNumber < 0 {
		pageNumber = 0
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	start := pageNumber * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	content := append([]T{}, items[start:end]...)
	return domain.Page[T]{
		Content: content,
		PageInfo: domain.PageInfo{
			PageNumber:    pageNumber,
			PageSize:      pageSize,
			TotalElements: int64(total),
			TotalPages:    totalPages,
			LastPage:      pageNumber >= totalPages-1,
		},
	}
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, item := range items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
