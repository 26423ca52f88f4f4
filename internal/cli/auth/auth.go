// Package auth implements the session lifecycle: login, logout, the
// imperative auth check and the display-name initials.
package auth

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/raflibima25/go-electroshop/internal/cli/client"
	"github.com/raflibima25/go-electroshop/internal/cli/router"
	"github.com/raflibima25/go-electroshop/internal/cli/session"
)

const (
	msgLoginFailed     = "Login failed"
	msgUnexpectedError = "An unexpected error occurred"
)

// Authenticator sends credentials to the API
type Authenticator interface {
	Login(ctx context.Context, creds client.Credentials) (*client.Response, error)
}

// CartSyncer merges the local cart after login
type CartSyncer interface {
	Sync(ctx context.Context)
}

// Navigator moves between screens
type Navigator interface {
	Push(to router.Location) error
	CurrentPath() string
}

// Result is the outcome of a login attempt
type Result struct {
	Success bool
	Message string
	Data    *client.LoginData
}

// Service ties the session store to the API and the router
type Service struct {
	api    Authenticator
	store  session.Store
	reader *session.Reader
	syncer CartSyncer
	nav    Navigator
	logger zerolog.Logger
}

// NewService creates a Service
func NewService(api Authenticator, store session.Store, syncer CartSyncer, nav Navigator, logger zerolog.Logger) *Service {
	return &Service{
		api:    api,
		store:  store,
		reader: session.NewReader(store, logger),
		syncer: syncer,
		nav:    nav,
		logger: logger,
	}
}

// Reader returns the session reader backing the service
func (s *Service) Reader() *session.Reader {
	return s.reader
}

// Login authenticates, stores the token and admin flag, then syncs the
// local cart before returning. It never returns an error; failures are
// described by Result.Message.
func (s *Service) Login(ctx context.Context, creds client.Credentials) Result {
	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Login request failed")
		return Result{Message: failureMessage(err)}
	}

	env, err := resp.Envelope()
	if err != nil {
		s.logger.Debug().Err(err).Msg("Login response could not be decoded")
		return Result{Message: msgUnexpectedError}
	}

	if !env.Status {
		msg := env.Message
		if msg == "" {
			msg = msgLoginFailed
		}
		return Result{Message: msg}
	}

	var data client.LoginData
	if err := env.DecodeData(&data); err != nil {
		s.logger.Debug().Err(err).Msg("Login response has no usable data")
		return Result{Message: msgUnexpectedError}
	}

	if err := s.store.Set(session.KeyToken, data.AccessToken); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store access token")
		return Result{Message: msgUnexpectedError}
	}
	if err := s.store.Set(session.KeyIsAdmin, strconv.FormatBool(data.IsAdmin)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store admin flag")
		return Result{Message: msgUnexpectedError}
	}

	s.syncer.Sync(ctx)

	return Result{Success: true, Data: &data}
}

func failureMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return msgUnexpectedError
}

// Logout clears the session and navigates to the login screen. A failing
// removal is logged and stops the sequence, so navigation is skipped.
func (s *Service) Logout() {
	for _, key := range []string{session.KeyToken, session.KeyIsAdmin, session.KeyUserName} {
		if err := s.store.Remove(key); err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("Error logout")
			return
		}
	}

	if err := s.nav.Push(router.Location{Name: router.LoginAuth}); err != nil {
		s.logger.Error().Err(err).Msg("Error logout")
	}
}

// CheckAuth reports whether the session satisfies required, navigating
// away when it does not. An empty required role accepts any signed-in user.
func (s *Service) CheckAuth(required session.Role) bool {
	if !s.reader.IsAuthenticated() {
		s.push(router.Location{
			Name:  router.LoginAuth,
			Query: url.Values{"redirect": []string{s.nav.CurrentPath()}},
		})
		return false
	}

	role := s.reader.Role()
	if required != "" && required != role {
		s.push(router.HomeFor(role))
		return false
	}

	return true
}

func (s *Service) push(to router.Location) {
	if err := s.nav.Push(to); err != nil {
		s.logger.Error().Err(err).Msg("Navigation failed")
	}
}

// Initials returns the upper-cased first letters of each space-separated
// word of the display name
func (s *Service) Initials() string {
	return Initials(s.reader.DisplayName())
}

// Initials computes initials for name. Empty words contribute nothing.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Split(name, " ") {
		r, size := utf8.DecodeRuneInString(word)
		if size == 0 {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
