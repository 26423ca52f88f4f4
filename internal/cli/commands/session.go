package commands

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/raflibima25/go-electroshop/internal/auth"
	cliauth "github.com/raflibima25/go-electroshop/internal/cli/auth"
	"github.com/raflibima25/go-electroshop/internal/cli/output"
	"github.com/raflibima25/go-electroshop/internal/cli/router"
	"github.com/raflibima25/go-electroshop/internal/cli/session"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			return runLogout(app)
		},
	}
}

func runLogout(app *App) error {
	wasAuthenticated := app.Reader.IsAuthenticated()

	// Always clear, so a role or name left without a token goes too
	app.Auth.Logout()
	if app.Reader.IsAuthenticated() {
		return fmt.Errorf("failed to clear the session, see logs for details")
	}

	if !wasAuthenticated {
		fmt.Fprintln(app.Out, "Not logged in.")
		return nil
	}
	fmt.Fprintln(app.Out, "✓ Logged out")
	return nil
}

type whoami struct {
	Authenticated bool       `json:"authenticated" yaml:"authenticated"`
	Name          string     `json:"name,omitempty" yaml:"name,omitempty"`
	Initials      string     `json:"initials,omitempty" yaml:"initials,omitempty"`
	Email         string     `json:"email,omitempty" yaml:"email,omitempty"`
	Role          string     `json:"role,omitempty" yaml:"role,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			return runWhoami(app)
		},
	}
}

func runWhoami(app *App) error {
	token, ok := app.Reader.Token()
	if !ok {
		return app.Printer.Print(whoami{}, &output.Table{
			Header: []string{"AUTHENTICATED"},
			Rows:   [][]string{{"no"}},
		})
	}

	info := whoami{
		Authenticated: true,
		Name:          app.Reader.DisplayName(),
		Initials:      app.Auth.Initials(),
		Role:          app.Reader.Role().String(),
	}

	// The token is only decoded for display; the API verifies it
	if claims, err := auth.ParseUnverified(token); err == nil {
		info.Email = claims.Email
		if claims.Name != "" && info.Name == session.DefaultDisplayName {
			info.Name = claims.Name
			info.Initials = cliauth.Initials(claims.Name)
		}
		if claims.ExpiresAt != nil {
			exp := claims.ExpiresAt.Time
			info.ExpiresAt = &exp
		}
	} else {
		app.Logger.Debug().Err(err).Msg("Stored token is not a readable JWT")
	}

	table := &output.Table{Header: []string{"NAME", "INITIALS", "EMAIL", "ROLE", "EXPIRES"}}
	expires := "-"
	if info.ExpiresAt != nil {
		expires = info.ExpiresAt.Local().Format(time.RFC1123)
	}
	table.AddRow(info.Name, info.Initials, orDash(info.Email), info.Role, expires)

	return app.Printer.Print(info, table)
}

// NewOpenCmd creates the open command
func NewOpenCmd() *cobra.Command {
	var browser bool

	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Navigate to a storefront screen",
		Long: `Navigate to a storefront screen, applying the same access rules as the web app.

Examples:
  $ electroshop open /user/cart
  $ electroshop open /admin-dashboard --browser`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			return runOpen(app, args[0], browser)
		},
	}

	cmd.Flags().BoolVar(&browser, "browser", false, "Also open the screen in the web browser")

	return cmd
}

func runOpen(app *App, path string, browser bool) error {
	if err := app.Router.Push(router.Location{Path: path}); err != nil {
		return err
	}

	current := app.Router.CurrentPath()
	fmt.Fprintf(app.Out, "%s\n", app.Router.Title())
	fmt.Fprintf(app.Out, "  Path: %s\n", current)
	if app.Router.CurrentRoute().Name == router.NotFound {
		fmt.Fprintln(app.Out, "  Page not found")
	}

	if !browser {
		return nil
	}

	pageURL := strings.TrimRight(app.Config.API.WebURL, "/") + current
	fmt.Fprintf(app.Out, "  URL: %s\n", pageURL)
	if err := openBrowser(pageURL); err != nil {
		return fmt.Errorf("failed to open browser: %w\nPlease visit: %s", err, pageURL)
	}
	return nil
}

// openBrowser opens the URL in the default browser
var openBrowser = func(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
