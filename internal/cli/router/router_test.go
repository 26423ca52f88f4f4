package router

import (
	"errors"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raflibima25/go-electroshop/internal/cli/session"
)

type fakeState struct {
	authenticated bool
	role          session.Role
}

func (f fakeState) IsAuthenticated() bool { return f.authenticated }
func (f fakeState) Role() session.Role    { return f.role }

var (
	anonymous = fakeState{}
	admin     = fakeState{authenticated: true, role: session.RoleAdmin}
	user      = fakeState{authenticated: true, role: session.RoleUser}
)

func TestResolve(t *testing.T) {
	r := New(anonymous, zerolog.Nop())

	tests := []struct {
		path     string
		wantName string
		wantPath string
	}{
		{"/", LandingPage, "/"},
		{"", LandingPage, "/"},
		{"/login", LoginAuth, "/login"},
		{"/login/", LoginAuth, "/login"},
		{"/register", Register, "/register"},
		{"/auth/google/callback", GoogleCallback, "/auth/google/callback"},
		{"/admin-dashboard", DashboardAdmin, "/admin-dashboard"},
		{"/products", ProductList, "/products"},
		{"/user/products", UserProductList, "/user/products"},
		{"user/cart", ShoppingCart, "/user/cart"},
		{"/user/chat", ChatAssistant, "/user/chat"},
		{"/does/not/exist", NotFound, "/does/not/exist"},
		{"/products/42", NotFound, "/products/42"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rt, loc, err := r.Resolve(Location{Path: tt.path})
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name)
			assert.Equal(t, tt.wantPath, loc.Path)
		})
	}
}

func TestResolve_ByName(t *testing.T) {
	r := New(anonymous, zerolog.Nop())

	rt, loc, err := r.Resolve(Location{Name: ShoppingCart})
	require.NoError(t, err)
	assert.Equal(t, "/user/cart", loc.Path)
	assert.Equal(t, "Shopping Cart", rt.Meta.Title)

	_, _, err = r.Resolve(Location{Name: "Checkout"})
	assert.True(t, errors.Is(err, ErrUnknownRoute))
}

func TestResolve_KeepsQuery(t *testing.T) {
	r := New(anonymous, zerolog.Nop())

	_, loc, err := r.Resolve(Location{Path: "/user/products?category=phone"})
	require.NoError(t, err)
	assert.Equal(t, "/user/products", loc.Path)
	assert.Equal(t, "phone", loc.Query.Get("category"))
	assert.Equal(t, "/user/products?category=phone", loc.FullPath())
}

func TestGuard_ProtectedRoutesRequireLogin(t *testing.T) {
	r := New(anonymous, zerolog.Nop())

	for _, rt := range Routes() {
		if !rt.Meta.RequiresAuth {
			continue
		}
		t.Run(rt.Name, func(t *testing.T) {
			_, loc, err := r.Resolve(Location{Path: rt.Path})
			require.NoError(t, err)

			d := Guard(rt, loc, anonymous)
			require.False(t, d.Allowed())
			assert.Equal(t, LoginAuth, d.Redirect.Name)
			assert.Equal(t, rt.Path, d.Redirect.Query.Get("redirect"))
		})
	}
}

func TestGuard_RedirectKeepsFullPath(t *testing.T) {
	rt := Routes()[6] // UserProductList
	require.Equal(t, UserProductList, rt.Name)

	to := Location{Path: "/user/products", Query: url.Values{"page": []string{"2"}}}
	d := Guard(rt, to, anonymous)

	require.NotNil(t, d.Redirect)
	assert.Equal(t, "/user/products?page=2", d.Redirect.Query.Get("redirect"))
}

func TestGuard_RoleMismatch(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		state  fakeState
		wantTo string
	}{
		{"admin to user products", "/user/products", admin, "/admin-dashboard"},
		{"admin to cart", "/user/cart", admin, "/admin-dashboard"},
		{"admin to chat", "/user/chat", admin, "/admin-dashboard"},
		{"user to dashboard", "/admin-dashboard", user, "/user/products"},
		{"user to product management", "/products", user, "/user/products"},
		{"admin to login", "/login", admin, "/admin-dashboard"},
		{"user to register", "/register", user, "/user/products"},
	}

	r := New(anonymous, zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, loc, err := r.Resolve(Location{Path: tt.path})
			require.NoError(t, err)

			d := Guard(rt, loc, tt.state)
			require.NotNil(t, d.Redirect)
			assert.Equal(t, tt.wantTo, d.Redirect.Path)
		})
	}
}

func TestGuard_Allowed(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		state fakeState
		title string
	}{
		{"anonymous landing", "/", anonymous, "ElectroShop - Home"},
		{"anonymous login", "/login", anonymous, "Login"},
		{"anonymous callback", "/auth/google/callback", anonymous, DefaultTitle},
		{"admin dashboard", "/admin-dashboard", admin, "Admin Dashboard"},
		{"admin products", "/products", admin, "Products Management"},
		{"user cart", "/user/cart", user, "Shopping Cart"},
		{"user landing", "/", user, "ElectroShop - Home"},
		{"admin not found", "/nope", admin, DefaultTitle},
		{"user not found", "/nope", user, DefaultTitle},
		{"anonymous not found", "/nope", anonymous, DefaultTitle},
	}

	r := New(anonymous, zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, loc, err := r.Resolve(Location{Path: tt.path})
			require.NoError(t, err)

			d := Guard(rt, loc, tt.state)
			assert.True(t, d.Allowed())
			assert.Equal(t, tt.title, d.Title)
		})
	}
}

func TestPush_FollowsRedirects(t *testing.T) {
	r := New(anonymous, zerolog.Nop())

	require.NoError(t, r.Push(Location{Path: "/user/cart"}))
	assert.Equal(t, "/login?redirect=%2Fuser%2Fcart", r.CurrentPath())
	assert.Equal(t, LoginAuth, r.CurrentRoute().Name)
	assert.Equal(t, "Login", r.Title())
}

func TestPush_AuthenticatedLoginGoesHome(t *testing.T) {
	r := New(admin, zerolog.Nop())

	require.NoError(t, r.Push(Location{Name: LoginAuth}))
	assert.Equal(t, "/admin-dashboard", r.CurrentPath())
	assert.Equal(t, "Admin Dashboard", r.Title())
}

func TestPush_InitialLocation(t *testing.T) {
	r := New(anonymous, zerolog.Nop())
	assert.Equal(t, "/", r.CurrentPath())
	assert.Equal(t, "ElectroShop - Home", r.Title())
}

// loopState flips role on every read so role homes keep bouncing
type loopState struct{ n int }

func (l *loopState) IsAuthenticated() bool { return true }
func (l *loopState) Role() session.Role {
	l.n++
	if l.n%2 == 0 {
		return session.RoleAdmin
	}
	return session.RoleUser
}

func TestPush_RedirectLoop(t *testing.T) {
	r := New(&loopState{}, zerolog.Nop())

	err := r.Push(Location{Path: "/admin-dashboard"})
	assert.ErrorIs(t, err, ErrRedirectLoop)
	assert.Equal(t, "/", r.CurrentPath())
}
