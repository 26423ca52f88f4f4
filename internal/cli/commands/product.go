package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raflibima25/go-electroshop/internal/cli/client"
	"github.com/raflibima25/go-electroshop/internal/cli/notify"
	"github.com/raflibima25/go-electroshop/internal/cli/output"
	"github.com/raflibima25/go-electroshop/internal/cli/router"
	"github.com/raflibima25/go-electroshop/internal/cli/session"
)

// NewProductCmd creates the product command group
func NewProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"products"},
		Short:   "Browse and manage the catalog",
	}

	cmd.AddCommand(newProductListCmd())
	cmd.AddCommand(newProductGetCmd())
	cmd.AddCommand(newProductCategoriesCmd())
	cmd.AddCommand(newProductCreateCmd())
	cmd.AddCommand(newProductUpdateCmd())
	cmd.AddCommand(newProductDeleteCmd())

	return cmd
}

func newProductListCmd() *cobra.Command {
	var filter client.ProductFilter

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List products",
		Long: `List products.

Examples:
  $ electroshop product ls --category laptop
  $ electroshop product ls --search galaxy --max-price 15000000
  $ electroshop product ls --page 2 --limit 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			return runProductList(cmd, app, filter)
		},
	}

	cmd.Flags().StringVar(&filter.Category, "category", "", "Only show this category")
	cmd.Flags().StringVar(&filter.Search, "search", "", "Match name or category")
	cmd.Flags().Float64Var(&filter.MinPrice, "min-price", 0, "Minimum price")
	cmd.Flags().Float64Var(&filter.MaxPrice, "max-price", 0, "Maximum price")
	cmd.Flags().IntVar(&filter.Page, "page", 0, "Page number (default 1)")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Items per page (default 10)")

	return cmd
}

func runProductList(cmd *cobra.Command, app *App, filter client.ProductFilter) error {
	if err := app.Validate(filter); err != nil {
		return err
	}

	resp, err := app.Products.GetProducts(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	var list client.ProductList
	if err := decode(resp, &list); err != nil {
		return err
	}

	if len(list.Products) == 0 {
		app.Printer.Println("No products found.")
		return app.Printer.Print(list, nil)
	}

	table := &output.Table{Header: []string{"ID", "NAME", "CATEGORY", "PRICE"}}
	for _, p := range list.Products {
		table.AddRow(p.ID, p.Name, p.Category, formatPrice(p.Price))
	}

	if err := app.Printer.Print(list, table); err != nil {
		return err
	}
	app.Printer.Printf("\nPage %d of %d (%d products)\n",
		list.Pagination.CurrentPage, list.Pagination.TotalPage, list.Pagination.TotalItems)
	return nil
}

func newProductGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <product-id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseUintArg("product id", args[0])
			if err != nil {
				return err
			}

			resp, err := app.Products.GetProductByID(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get product: %w", err)
			}

			var p client.Product
			if err := decode(resp, &p); err != nil {
				return err
			}
			return printProduct(app, p)
		},
	}
}

func printProduct(app *App, p client.Product) error {
	table := &output.Table{Header: []string{"ID", "NAME", "CATEGORY", "PRICE", "IMAGE"}}
	table.AddRow(p.ID, p.Name, p.Category, formatPrice(p.Price), orDash(p.ImageLink))
	return app.Printer.Print(p, table)
}

func newProductCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := app.Products.GetCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			var data struct {
				Categories []string `json:"categories" yaml:"categories"`
			}
			if err := decode(resp, &data); err != nil {
				return err
			}

			table := &output.Table{Header: []string{"CATEGORY"}}
			for _, c := range data.Categories {
				table.AddRow(c)
			}
			return app.Printer.Print(data, table)
		},
	}
}

// productFlags binds the create/update body to flags
func productFlags(cmd *cobra.Command, req *client.ProductRequest) {
	cmd.Flags().StringVar(&req.Name, "name", "", "Product name")
	cmd.Flags().StringVar(&req.Category, "category", "", "Product category")
	cmd.Flags().Float64Var(&req.Price, "price", 0, "Price")
	cmd.Flags().StringVar(&req.Thumbnail, "thumbnail", "", "Thumbnail URL")
	cmd.Flags().StringVar(&req.ImageLink, "image-link", "", "Image URL")
}

// requireAdmin runs the admin check and opens the management screen
func requireAdmin(app *App) error {
	if !app.Auth.CheckAuth(session.RoleAdmin) {
		if app.Router.CurrentRoute().Name == router.LoginAuth {
			return fmt.Errorf("you must be logged in (run 'electroshop login')")
		}
		return fmt.Errorf("access denied: admin privileges required")
	}
	return app.requireScreen(router.ProductList)
}

func newProductCreateCmd() *cobra.Command {
	var req client.ProductRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product (admin)",
		Long: `Create a product (admin).

Examples:
  $ electroshop product create --name "iPad Air" --category tablet --price 9999000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.Validate(req); err != nil {
				return err
			}
			if err := requireAdmin(app); err != nil {
				return err
			}

			resp, err := app.Products.CreateProduct(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}

			var p client.Product
			if err := decode(resp, &p); err != nil {
				return err
			}

			app.Notifier.Notify(message(resp, "Product created"), notify.KindSuccess)
			return printProduct(app, p)
		},
	}

	productFlags(cmd, &req)

	return cmd
}

func newProductUpdateCmd() *cobra.Command {
	var req client.ProductRequest

	cmd := &cobra.Command{
		Use:   "update <product-id>",
		Short: "Replace a product's details (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseUintArg("product id", args[0])
			if err != nil {
				return err
			}
			if err := app.Validate(req); err != nil {
				return err
			}
			if err := requireAdmin(app); err != nil {
				return err
			}

			resp, err := app.Products.UpdateProduct(cmd.Context(), id, req)
			if err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}

			var p client.Product
			if err := decode(resp, &p); err != nil {
				return err
			}

			app.Notifier.Notify(message(resp, "Product updated"), notify.KindSuccess)
			return printProduct(app, p)
		},
	}

	productFlags(cmd, &req)

	return cmd
}

func newProductDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <product-id>",
		Short: "Delete a product (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseUintArg("product id", args[0])
			if err != nil {
				return err
			}
			if err := requireAdmin(app); err != nil {
				return err
			}

			if !yes {
				confirmed, err := confirm(app, fmt.Sprintf("Delete product %d", id))
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(app.Out, "Cancelled.")
					return nil
				}
			}

			resp, err := app.Products.DeleteProduct(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to delete product: %w", err)
			}

			app.Notifier.Notify(message(resp, "Product deleted"), notify.KindSuccess)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
