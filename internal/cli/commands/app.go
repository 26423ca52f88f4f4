package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/raflibima25/go-electroshop/internal/cli/auth"
	"github.com/raflibima25/go-electroshop/internal/cli/cartsync"
	"github.com/raflibima25/go-electroshop/internal/cli/client"
	"github.com/raflibima25/go-electroshop/internal/cli/notify"
	"github.com/raflibima25/go-electroshop/internal/cli/output"
	"github.com/raflibima25/go-electroshop/internal/cli/router"
	"github.com/raflibima25/go-electroshop/internal/cli/session"
	"github.com/raflibima25/go-electroshop/internal/config"
)

// App holds everything a command needs. It is built once per invocation
// by the root command.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	In  io.Reader
	Out io.Writer
	Err io.Writer

	Store    session.Store
	Reader   *session.Reader
	API      *client.Client
	Cart     *client.CartService
	Products *client.ProductService
	Notifier notify.Notifier
	Syncer   *cartsync.Synchronizer
	Router   *router.Router
	Auth     *auth.Service
	Printer  *output.Printer

	validate   *validator.Validate
	closeStore func() error
}

// Deps are the inputs used to build an App
type Deps struct {
	Config *config.Config
	Logger zerolog.Logger

	// Store overrides the configured session backend when set. It is
	// closed with the App if it implements io.Closer.
	Store  session.Store
	Format output.Format

	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	NoColor bool
}

// NewApp wires the session store, API services, cart synchronizer, router
// and auth service together
func NewApp(ctx context.Context, d Deps) (*App, error) {
	if d.Config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Err == nil {
		d.Err = os.Stderr
	}

	store := d.Store
	closeStore := func() error { return nil }
	if store == nil {
		var err error
		store, closeStore, err = session.Open(ctx, d.Config.Session)
		if err != nil {
			return nil, fmt.Errorf("failed to open session store: %w", err)
		}
	} else if c, ok := store.(io.Closer); ok {
		closeStore = c.Close
	}

	reader := session.NewReader(store, d.Logger)

	opts := []client.Option{
		client.WithTimeout(d.Config.API.Timeout),
		client.WithTokenSource(reader),
		client.WithLogger(d.Logger),
	}
	if d.Config.API.InsecureSkipVerify {
		opts = append(opts, client.WithInsecureSkipVerify())
	}
	api := client.New(d.Config.API.BaseURL, opts...)

	event := d.Logger.Debug().Str("api_url", api.BaseURL())
	if fs, ok := store.(*session.FileStore); ok {
		event = event.Str("session_file", fs.Path())
	}
	event.Msg("Client initialized")

	cart := client.NewCartService(api)
	notifier := notify.NewConsole(d.Err, d.NoColor)
	syncer := cartsync.New(store, cart, notifier, d.Logger)
	nav := router.New(reader, d.Logger)

	return &App{
		Config:     d.Config,
		Logger:     d.Logger,
		In:         d.In,
		Out:        d.Out,
		Err:        d.Err,
		Store:      store,
		Reader:     reader,
		API:        api,
		Cart:       cart,
		Products:   client.NewProductService(api),
		Notifier:   notifier,
		Syncer:     syncer,
		Router:     nav,
		Auth:       auth.NewService(api, store, syncer, nav, d.Logger),
		Printer:    output.NewPrinter(d.Out, d.Format),
		validate:   validator.New(),
		closeStore: closeStore,
	}, nil
}

// Close releases the session store
func (a *App) Close() error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}

// Validate checks v against its validate tags
func (a *App) Validate(v any) error {
	if err := a.validate.Struct(v); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

// Navigate pushes a screen and reports where the guard landed. It returns
// false when the user was redirected elsewhere.
func (a *App) Navigate(to router.Location) (bool, error) {
	if err := a.Router.Push(to); err != nil {
		return false, err
	}

	want, _, err := a.Router.Resolve(to)
	if err != nil {
		return false, err
	}
	return a.Router.CurrentRoute().Name == want.Name, nil
}

// requireScreen navigates to a screen and turns a guard redirect into an
// error naming where the user was sent
func (a *App) requireScreen(name string) error {
	ok, err := a.Navigate(router.Location{Name: name})
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	current := a.Router.CurrentRoute()
	if current.Name == router.LoginAuth {
		return fmt.Errorf("you must be logged in (run 'electroshop login')")
	}
	return fmt.Errorf("access denied: redirected to %s", a.Router.Current().FullPath())
}

// decode reads the envelope data of resp into v
func decode(resp *client.Response, v any) error {
	env, err := resp.Envelope()
	if err != nil {
		return err
	}
	return env.DecodeData(v)
}

// message returns the envelope message of resp, or fallback
func message(resp *client.Response, fallback string) string {
	env, err := resp.Envelope()
	if err != nil || env.Message == "" {
		return fallback
	}
	return env.Message
}

type appKey struct{}

// WithApp returns a context carrying app
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// appFrom returns the App attached to the command's context
func appFrom(ctx context.Context) (*App, error) {
	app, ok := ctx.Value(appKey{}).(*App)
	if !ok || app == nil {
		return nil, fmt.Errorf("command is not initialized")
	}
	return app, nil
}
