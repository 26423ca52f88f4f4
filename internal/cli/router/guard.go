package router

import (
	"net/url"

	"github.com/raflibima25/go-electroshop/internal/cli/session"
)

// AuthState is the session view the guard needs
type AuthState interface {
	IsAuthenticated() bool
	Role() session.Role
}

// Decision is the outcome of guarding one navigation
type Decision struct {
	Title    string
	Redirect *Location
}

// Allowed reports whether navigation proceeds to the requested route
func (d Decision) Allowed() bool {
	return d.Redirect == nil
}

// Guard decides whether to, resolved to route, may be shown for state
func Guard(route Route, to Location, state AuthState) Decision {
	d := Decision{Title: route.Meta.Title}
	if d.Title == "" {
		d.Title = DefaultTitle
	}

	authenticated := state.IsAuthenticated()

	if route.Meta.RequiresAuth && !authenticated {
		d.Redirect = &Location{
			Name:  LoginAuth,
			Query: url.Values{"redirect": []string{to.FullPath()}},
		}
		return d
	}

	if !authenticated {
		return d
	}

	role := state.Role()

	// Signed-in users never see the login or register screens
	if to.Path == "/login" || to.Path == "/register" {
		home := HomeFor(role)
		d.Redirect = &home
		return d
	}

	if route.Meta.Role != "" && route.Meta.Role != role {
		home := HomeFor(role)
		d.Redirect = &home
		return d
	}

	// NotFound is shown as is for both roles
	return d
}
