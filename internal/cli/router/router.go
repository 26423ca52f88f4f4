package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// maxRedirects bounds how many guard redirects one Push may follow
const maxRedirects = 10

var (
	ErrRedirectLoop = errors.New("too many redirects")
	ErrUnknownRoute = errors.New("unknown route")
)

// Router tracks the current screen and guards every navigation
type Router struct {
	mux    *mux.Router
	routes map[string]Route
	state  AuthState
	logger zerolog.Logger

	current Location
	route   Route
	title   string
}

// New creates a Router positioned at "/"
func New(state AuthState, logger zerolog.Logger) *Router {
	m := mux.NewRouter()
	routes := make(map[string]Route)

	for _, rt := range Routes() {
		routes[rt.Name] = rt
		if rt.Name == NotFound {
			m.PathPrefix("/").Name(rt.Name)
			continue
		}
		m.Path(rt.Path).Name(rt.Name)
	}

	r := &Router{
		mux:     m,
		routes:  routes,
		state:   state,
		logger:  logger,
		current: Location{Path: "/", Name: LandingPage},
		route:   routes[LandingPage],
		title:   routes[LandingPage].Meta.Title,
	}
	return r
}

// Resolve maps a location to its route and a normalized location
func (r *Router) Resolve(to Location) (Route, Location, error) {
	if to.Name != "" {
		rt, ok := r.routes[to.Name]
		if !ok {
			return Route{}, Location{}, fmt.Errorf("%w: %s", ErrUnknownRoute, to.Name)
		}
		loc := Location{Path: rt.Path, Name: rt.Name, Query: to.Query}
		if rt.Name == NotFound && to.Path != "" {
			loc.Path = to.Path
		}
		return rt, loc, nil
	}

	u, err := url.Parse(to.Path)
	if err != nil {
		return Route{}, Location{}, fmt.Errorf("invalid path '%s': %w", to.Path, err)
	}

	path := u.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}

	query := to.Query
	if len(query) == 0 && u.RawQuery != "" {
		query = u.Query()
	}

	req, err := http.NewRequest(http.MethodGet, (&url.URL{Path: path}).String(), nil)
	if err != nil {
		return Route{}, Location{}, fmt.Errorf("invalid path '%s': %w", path, err)
	}

	var match mux.RouteMatch
	if !r.mux.Match(req, &match) || match.Route == nil {
		return Route{}, Location{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}

	rt := r.routes[match.Route.GetName()]
	return rt, Location{Path: path, Name: rt.Name, Query: query}, nil
}

// Push navigates to the location, following guard redirects
func (r *Router) Push(to Location) error {
	for hop := 0; hop <= maxRedirects; hop++ {
		rt, loc, err := r.Resolve(to)
		if err != nil {
			return err
		}

		decision := Guard(rt, loc, r.state)
		if decision.Allowed() {
			r.current = loc
			r.route = rt
			r.title = decision.Title
			r.logger.Debug().Str("path", loc.FullPath()).Str("route", rt.Name).Msg("Navigated")
			return nil
		}

		r.logger.Debug().
			Str("from", loc.FullPath()).
			Str("to", describe(*decision.Redirect)).
			Msg("Navigation redirected")
		to = *decision.Redirect
	}

	return fmt.Errorf("%w while navigating to %s", ErrRedirectLoop, describe(to))
}

// Current returns the current location
func (r *Router) Current() Location {
	return r.current
}

// CurrentRoute returns the route of the current location
func (r *Router) CurrentRoute() Route {
	return r.route
}

// CurrentPath returns the current full path including the query
func (r *Router) CurrentPath() string {
	return r.current.FullPath()
}

// Title returns the title of the current screen
func (r *Router) Title() string {
	return r.title
}

func describe(l Location) string {
	if l.Name != "" && l.Path == "" {
		return l.Name
	}
	return l.FullPath()
}
