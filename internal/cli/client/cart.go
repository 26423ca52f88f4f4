package client

import (
	"context"
	"fmt"
	"net/http"
)

// AddToCartRequest represents the add-to-cart request body
type AddToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

// UpdateCartItemRequest represents the update-quantity request body
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartItem represents a single item in the cart
type CartItem struct {
	ID       uint    `json:"id" yaml:"id"`
	Quantity int     `json:"quantity" yaml:"quantity"`
	Product  Product `json:"product" yaml:"product"`
}

// Cart represents the server-side cart
type Cart struct {
	Items      []CartItem `json:"items" yaml:"items"`
	TotalItems int        `json:"total_items" yaml:"total_items"`
	TotalPrice float64    `json:"total_price" yaml:"total_price"`
}

// CartService maps cart operations to API requests
type CartService struct {
	client *Client
}

// NewCartService creates a cart service on top of c
func NewCartService(c *Client) *CartService {
	return &CartService{client: c}
}

// GetUserCart fetches the current user's cart
func (s *CartService) GetUserCart(ctx context.Context) (*Response, error) {
	return s.client.Do(ctx, http.MethodGet, "/cart", nil, nil)
}

// AddToCart adds quantity of a product to the cart
func (s *CartService) AddToCart(ctx context.Context, productID uint, quantity int) (*Response, error) {
	return s.client.Do(ctx, http.MethodPost, "/cart", nil, AddToCartRequest{
		ProductID: productID,
		Quantity:  quantity,
	})
}

// UpdateCartItem sets the quantity of a cart item
func (s *CartService) UpdateCartItem(ctx context.Context, itemID uint, quantity int) (*Response, error) {
	return s.client.Do(ctx, http.MethodPut, fmt.Sprintf("/cart/%d", itemID), nil, UpdateCartItemRequest{
		Quantity: quantity,
	})
}

// RemoveCartItem removes a cart item
func (s *CartService) RemoveCartItem(ctx context.Context, itemID uint) (*Response, error) {
	return s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", itemID), nil, nil)
}

// ClearCart removes every item from the cart
func (s *CartService) ClearCart(ctx context.Context) (*Response, error) {
	return s.client.Do(ctx, http.MethodDelete, "/cart", nil, nil)
}
