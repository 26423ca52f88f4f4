package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/raflibima25/go-electroshop/internal/cli/client"
	"github.com/raflibima25/go-electroshop/internal/cli/router"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password, redirect string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the storefront",
		Long: `Sign in to the storefront.

Any items added to the cart while logged out are moved to your account.

Examples:
  $ electroshop login --email jane@example.com
  $ electroshop login --email jane@example.com --redirect /user/cart`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			return runLogin(cmd, app, email, password, redirect)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set ELECTROSHOP_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set ELECTROSHOP_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&redirect, "redirect", "", "Screen to open after login")

	return cmd
}

func runLogin(cmd *cobra.Command, app *App, email, password, redirect string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("ELECTROSHOP_EMAIL")
	}
	if password == "" {
		password = os.Getenv("ELECTROSHOP_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or ELECTROSHOP_EMAIL env var)")
	}

	if password == "" {
		p, err := readPassword(app)
		if err != nil {
			return err
		}
		password = p
	}

	creds := client.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := app.Validate(creds); err != nil {
		return err
	}

	result := app.Auth.Login(cmd.Context(), creds)
	if !result.Success {
		return fmt.Errorf("login failed: %s", result.Message)
	}

	target := router.HomeFor(app.Reader.Role())
	if redirect != "" {
		target = router.Location{Path: redirect}
	}
	if err := app.Router.Push(target); err != nil {
		return err
	}

	fmt.Fprintln(app.Out, "✓ Login successful!")
	fmt.Fprintf(app.Out, "  User: %s\n", result.Data.Name)
	if result.Data.IsAdmin {
		fmt.Fprintln(app.Out, "  Role: Admin")
	}
	fmt.Fprintf(app.Out, "  Screen: %s (%s)\n", app.Router.Title(), app.Router.CurrentPath())

	return nil
}

// readPassword prompts on a terminal and reads one line otherwise
func readPassword(app *App) (string, error) {
	if f, ok := app.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(app.Err, "Password: ")
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(app.Err) // New line after password input
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(bytePassword), nil
	}

	line, err := bufio.NewReader(app.In).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" && err != nil {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or ELECTROSHOP_PASSWORD env var)")
	}
	return line, nil
}
