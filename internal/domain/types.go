package domain

import (
	"github.com/shopspring/decimal"
)

// Role names issued by the backend.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// User is the authenticated principal attached to a Session.
type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// HasRole reports whether the user carries the provided role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user may access admin routes.
func (u User) IsAdmin() bool { return u.HasRole(RoleAdmin) }

// Session pairs the bearer credential with the user it was issued for.
// A zero Session means nobody is signed in; a credential never exists without a user.
type Session struct {
	Credential string `json:"credential"`
	User       *User  `json:"user"`
}

// Valid reports whether both halves of the session are present.
func (s *Session) Valid() bool {
	return s != nil && s.Credential != "" && s.User != nil
}

// Credentials is the sign-in payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the sign-up payload. Address and Card are optional and submitted in the same request.
type Registration struct {
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Roles    []string     `json:"role,omitempty"`
	Address  *Address     `json:"address,omitempty"`
	Card     *PaymentCard `json:"paymentCard,omitempty"`
}

// CartLine is one product entry of the shopping cart.
type CartLine struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Subtotal returns price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the lines plus the server-side identity when synced.
type Cart struct {
	Lines       []CartLine      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	BasketID    *int64          `json:"basketId,omitempty"`
}

// LinesTotal recomputes the cart total from its lines.
func LinesTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// CartItemRef is the wire shape used when pushing the cart to the backend.
type CartItemRef struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CartItemRefs projects cart lines onto their wire references.
func CartItemRefs(lines []CartLine) []CartItemRef {
	refs := make([]CartItemRef, 0, len(lines))
	for _, line := range lines {
		refs = append(refs, CartItemRef{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return refs
}

// Address is a delivery address owned by the signed-in user.
type Address struct {
	AddressID    int64  `json:"addressId,omitempty"`
	BuildingName string `json:"buildingName"`
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	Pincode      string `json:"pincode"`
}

// CatalogItem is a product as listed by the catalog endpoints. Quantity is the known stock.
type CatalogItem struct {
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Discount     decimal.Decimal `json:"discount"`
	SpecialPrice decimal.Decimal `json:"specialPrice"`
	Quantity     int             `json:"quantity"`
	Image        string          `json:"image,omitempty"`
	CategoryID   int64           `json:"categoryId,omitempty"`
}

// AsCartLine converts the catalog entry into a cart line with the given quantity.
func (c CatalogItem) AsCartLine(quantity int) CartLine {
	return CartLine{
		ProductID:   c.ProductID,
		ProductName: c.ProductName,
		Image:       c.Image,
		Description: c.Description,
		Price:       c.Price,
		Quantity:    quantity,
	}
}

// Category groups catalog items.
type Category struct {
	CategoryID   int64  `json:"categoryId,omitempty"`
	CategoryName string `json:"categoryName"`
}

// OrderStatus values use the backend's wire strings.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusAccepted  OrderStatus = "Order Accepted !"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Valid reports whether the status is one the backend accepts.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	OrderItemID         int64           `json:"orderItemId"`
	Product             CatalogItem     `json:"product"`
	Quantity            int             `json:"quantity"`
	Discount            decimal.Decimal `json:"discount"`
	OrderedProductPrice decimal.Decimal `json:"orderedProductPrice"`
}

// Payment records how an order was paid.
type Payment struct {
	PaymentID         int64  `json:"paymentId"`
	PaymentMethod     string `json:"paymentMethod"`
	PgPaymentID       string `json:"pgPaymentId"`
	PgStatus          string `json:"pgStatus"`
	PgResponseMessage string `json:"pgResponseMessage"`
	PgName            string `json:"pgName"`
}

// Order is immutable from the client's perspective except Status, which only admins change.
type Order struct {
	OrderID     int64           `json:"orderId"`
	Email       string          `json:"email"`
	OrderItems  []OrderItem     `json:"orderItems"`
	OrderDate   string          `json:"orderDate"`
	Payment     Payment         `json:"payment"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      OrderStatus     `json:"orderStatus"`
	AddressID   int64           `json:"addressId"`
}

// OrderRequest is the place-order payload.
type OrderRequest struct {
	AddressID         int64  `json:"addressId"`
	PaymentMethod     string `json:"paymentMethod"`
	CardID            *int64 `json:"cardId,omitempty"`
	PgName            string `json:"pgName"`
	PgPaymentID       string `json:"pgPaymentId"`
	PgStatus          string `json:"pgStatus,omitempty"`
	PgResponseMessage string `json:"pgResponseMessage,omitempty"`
}

// Analytics is the admin dashboard summary. The backend sends the figures as strings.
type Analytics struct {
	ProductCount string `json:"productCount"`
	TotalRevenue string `json:"totalRevenue"`
	TotalOrders  string `json:"totalOrders"`
}

// CustomerRole mirrors the backend role object attached to customer records.
type CustomerRole struct {
	RoleID   int64  `json:"roleId"`
	RoleName string `json:"roleName"`
}

// Customer is a registered shopper as listed by the admin console.
type Customer struct {
	UserID   int64          `json:"userId"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Roles    []CustomerRole `json:"roles,omitempty"`
}

// CustomerDetails aggregates the per-customer lookups shown in the admin detail view.
type CustomerDetails struct {
	UserID       int64         `json:"userId"`
	Addresses    []Address     `json:"addresses"`
	PaymentCards []PaymentCard `json:"paymentCards"`
	Orders       []Order       `json:"orders"`
}
