package commands

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/raflibima25/go-electroshop/internal/cli/cartsync"
	"github.com/raflibima25/go-electroshop/internal/cli/client"
	"github.com/raflibima25/go-electroshop/internal/cli/notify"
	"github.com/raflibima25/go-electroshop/internal/cli/output"
	"github.com/raflibima25/go-electroshop/internal/cli/router"
)

// NewCartCmd creates the cart command group
func NewCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
		Long: `Manage the shopping cart.

While logged out, "cart add" keeps items in a local cart that is moved to
your account on the next login.`,
	}

	cmd.AddCommand(newCartListCmd())
	cmd.AddCommand(newCartAddCmd())
	cmd.AddCommand(newCartUpdateCmd())
	cmd.AddCommand(newCartRemoveCmd())
	cmd.AddCommand(newCartClearCmd())
	cmd.AddCommand(newCartSyncCmd())

	return cmd
}

func newCartListCmd() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Show the cart",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			if local {
				return runCartListLocal(app)
			}
			return runCartList(cmd, app)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Show the local (not yet synchronized) cart")

	return cmd
}

func runCartList(cmd *cobra.Command, app *App) error {
	if err := app.requireScreen(router.ShoppingCart); err != nil {
		return err
	}

	resp, err := app.Cart.GetUserCart(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get cart: %w", err)
	}

	var cart client.Cart
	if err := decode(resp, &cart); err != nil {
		return err
	}

	if len(cart.Items) == 0 {
		app.Printer.Println("Your cart is empty.")
		app.Printer.Println("\nAdd a product with: electroshop cart add <product-id>")
		return app.Printer.Print(cart, nil)
	}

	table := &output.Table{Header: []string{"ITEM", "PRODUCT", "CATEGORY", "QTY", "PRICE", "SUBTOTAL"}}
	for _, item := range cart.Items {
		table.AddRow(
			item.ID,
			item.Product.Name,
			item.Product.Category,
			item.Quantity,
			formatPrice(item.Product.Price),
			formatPrice(item.Product.Price*float64(item.Quantity)),
		)
	}

	if err := app.Printer.Print(cart, table); err != nil {
		return err
	}
	app.Printer.Printf("\nTotal: %d items, %s\n", cart.TotalItems, formatPrice(cart.TotalPrice))
	return nil
}

func runCartListLocal(app *App) error {
	entries, err := cartsync.LoadLocal(app.Store)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		app.Printer.Println("Local cart is empty.")
		return app.Printer.Print([]cartsync.Entry{}, nil)
	}

	table := &output.Table{Header: []string{"PRODUCT", "QTY"}}
	for _, entry := range entries {
		table.AddRow(entry.Product(), entry.Quantity)
	}
	return app.Printer.Print(entries, table)
}

func newCartAddCmd() *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			productID, err := parseUintArg("product id", args[0])
			if err != nil {
				return err
			}
			return runCartAdd(cmd, app, productID, quantity)
		},
	}

	cmd.Flags().IntVarP(&quantity, "qty", "q", 1, "Quantity to add")

	return cmd
}

func runCartAdd(cmd *cobra.Command, app *App, productID uint, quantity int) error {
	req := client.AddToCartRequest{ProductID: productID, Quantity: quantity}
	if err := app.Validate(req); err != nil {
		return err
	}

	if !app.Reader.IsAuthenticated() {
		entries, err := cartsync.AddLocal(app.Store, productID, quantity)
		if err != nil {
			return err
		}
		app.Notifier.Notify(
			fmt.Sprintf("Added to local cart (%d lines). Log in to save it to your account.", len(entries)),
			notify.KindInfo,
		)
		return nil
	}

	if err := app.requireScreen(router.ShoppingCart); err != nil {
		return err
	}

	resp, err := app.Cart.AddToCart(cmd.Context(), productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}

	app.Notifier.Notify(message(resp, "Item added to cart"), notify.KindSuccess)
	return nil
}

func newCartUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <item-id> <quantity>",
		Short: "Change the quantity of a cart item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			itemID, err := parseUintArg("item id", args[0])
			if err != nil {
				return err
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity '%s'", args[1])
			}

			if err := app.Validate(client.UpdateCartItemRequest{Quantity: quantity}); err != nil {
				return err
			}
			if err := app.requireScreen(router.ShoppingCart); err != nil {
				return err
			}

			resp, err := app.Cart.UpdateCartItem(cmd.Context(), itemID, quantity)
			if err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}

			app.Notifier.Notify(message(resp, "Cart item updated"), notify.KindSuccess)
			return nil
		},
	}
}

func newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <item-id>",
		Aliases: []string{"remove"},
		Short:   "Remove an item from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			itemID, err := parseUintArg("item id", args[0])
			if err != nil {
				return err
			}
			if err := app.requireScreen(router.ShoppingCart); err != nil {
				return err
			}

			resp, err := app.Cart.RemoveCartItem(cmd.Context(), itemID)
			if err != nil {
				return fmt.Errorf("failed to remove cart item: %w", err)
			}

			app.Notifier.Notify(message(resp, "Item removed from cart"), notify.KindSuccess)
			return nil
		},
	}
}

func newCartClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.requireScreen(router.ShoppingCart); err != nil {
				return err
			}

			if !yes {
				confirmed, err := confirm(app, "Remove every item from your cart")
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(app.Out, "Cancelled.")
					return nil
				}
			}

			resp, err := app.Cart.ClearCart(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to clear cart: %w", err)
			}

			app.Notifier.Notify(message(resp, "Cart cleared"), notify.KindSuccess)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newCartSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Move the local cart to your account",
		Long: `Move the local cart to your account.

This runs automatically after login; use it to retry after a failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			if !app.Reader.IsAuthenticated() {
				return fmt.Errorf("you must be logged in (run 'electroshop login')")
			}

			app.Syncer.Sync(cmd.Context())

			remaining, err := cartsync.LoadLocal(app.Store)
			if err != nil {
				return err
			}
			if len(remaining) > 0 {
				return fmt.Errorf("%d local cart lines could not be synchronized, see logs for details", len(remaining))
			}
			return nil
		},
	}
}

// confirm asks a yes/no question
func confirm(app *App, label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     io.NopCloser(app.In),
		Stdout:    nopWriteCloser{app.Err},
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, fmt.Errorf("cancelled")
		}
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return true, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func parseUintArg(name, s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s '%s'", name, s)
	}
	return uint(id), nil
}

// formatPrice renders a rupiah amount with dot thousands separators
func formatPrice(price float64) string {
	if price < 0 {
		return "-Rp " + humanize.FormatFloat("#.###,", math.Abs(price))
	}
	return "Rp " + humanize.FormatFloat("#.###,", price)
}
