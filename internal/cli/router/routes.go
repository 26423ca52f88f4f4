// Package router resolves storefront screens and decides, before every
// navigation, whether the current session may see them.
package router

import (
	"net/url"

	"github.com/raflibima25/go-electroshop/internal/cli/session"
)

// DefaultTitle is used for routes without a title
const DefaultTitle = "ElectroShop"

// Route names
const (
	LandingPage     = "LandingPage"
	LoginAuth       = "LoginAuth"
	Register        = "Register"
	GoogleCallback  = "GoogleCallback"
	DashboardAdmin  = "DashboardAdmin"
	ProductList     = "ProductList"
	UserProductList = "UserProductList"
	ShoppingCart    = "ShoppingCart"
	ChatAssistant   = "ChatAssistant"
	NotFound        = "NotFound"
)

// Meta is the static metadata attached to a route
type Meta struct {
	RequiresAuth bool
	Role         session.Role // empty means any role
	Title        string
}

// Route is one entry of the route table
type Route struct {
	Path string
	Name string
	Meta Meta
}

// Routes returns the route table in match order. NotFound is last and
// matches every path.
func Routes() []Route {
	return []Route{
		{Path: "/", Name: LandingPage, Meta: Meta{Title: "ElectroShop - Home"}},
		{Path: "/login", Name: LoginAuth, Meta: Meta{Title: "Login"}},
		{Path: "/register", Name: Register, Meta: Meta{Title: "Register"}},
		{Path: "/auth/google/callback", Name: GoogleCallback},

		{Path: "/admin-dashboard", Name: DashboardAdmin, Meta: Meta{RequiresAuth: true, Role: session.RoleAdmin, Title: "Admin Dashboard"}},
		{Path: "/products", Name: ProductList, Meta: Meta{RequiresAuth: true, Role: session.RoleAdmin, Title: "Products Management"}},

		{Path: "/user/products", Name: UserProductList, Meta: Meta{RequiresAuth: true, Role: session.RoleUser, Title: "Browse Products"}},
		{Path: "/user/cart", Name: ShoppingCart, Meta: Meta{RequiresAuth: true, Role: session.RoleUser, Title: "Shopping Cart"}},
		{Path: "/user/chat", Name: ChatAssistant, Meta: Meta{RequiresAuth: true, Role: session.RoleUser, Title: "Chat Assistant"}},

		{Path: "/", Name: NotFound},
	}
}

// Location is a navigation target. Either Path or Name is set.
type Location struct {
	Path  string
	Name  string
	Query url.Values
}

// FullPath returns the path with its encoded query string
func (l Location) FullPath() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// HomeFor returns the landing screen for an authenticated role
func HomeFor(role session.Role) Location {
	if role == session.RoleAdmin {
		return Location{Path: "/admin-dashboard"}
	}
	return Location{Path: "/user/products"}
}
