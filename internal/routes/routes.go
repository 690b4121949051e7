// Package routes names the storefront locations and decides who may visit them.
package routes

import (
	"strings"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
)

// Locations navigated to by the action creators and guarded by Guard.
const (
	Home         = "/"
	Login        = "/login"
	Register     = "/register"
	Products     = "/products"
	Cart         = "/cart"
	Checkout     = "/checkout"
	OrderConfirm = "/order-confirm"
	Profile      = "/profile"
	Admin        = "/admin"
)

// Access is the gate a route sits behind.
type Access int

const (
	// Open routes are visible to everyone.
	Open Access = iota
	// PublicOnly routes are for anonymous visitors, such as the login page.
	PublicOnly
	// Private routes require a session.
	Private
	// AdminOnly routes require a session carrying the admin role.
	AdminOnly
)

var table = map[string]Access{
	Home:         Open,
	Products:     Open,
	Cart:         Open,
	Login:        PublicOnly,
	Register:     PublicOnly,
	Checkout:     Private,
	OrderConfirm: Private,
	Profile:      Private,
	Admin:        AdminOnly,
}

// AccessFor returns the gate registered for route or for its nearest registered parent, so
// "/admin/products" sits behind the same gate as "/admin". Unknown routes are Open.
func AccessFor(route string) Access {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	route = strings.TrimSuffix(route, "/")
	for route != "" {
		if access, ok := table[route]; ok {
			return access
		}
		i := strings.LastIndex(route, "/")
		if i <= 0 {
			break
		}
		route = route[:i]
	}
	return table[Home]
}

// Guard decides whether session may enter a route gated by access. When it may not,
// redirect is where the visitor is sent instead.
func Guard(session *domain.Session, access Access) (redirect string, ok bool) {
	signedIn := session.Valid()
	switch access {
	case PublicOnly:
		if signedIn {
			return Home, false
		}
	case Private:
		if !signedIn {
			return Login, false
		}
	case AdminOnly:
		if !signedIn {
			return Login, false
		}
		if !session.User.IsAdmin() {
			return Home, false
		}
	}
	return "", true
}
