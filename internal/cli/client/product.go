package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Product represents a product as returned by the API
type Product struct {
	ID        uint      `json:"id" yaml:"id"`
	Thumbnail string    `json:"thumbnail" yaml:"thumbnail"`
	Category  string    `json:"category" yaml:"category"`
	Name      string    `json:"name" yaml:"name"`
	Price     float64   `json:"price" yaml:"price"`
	ImageLink string    `json:"image_link" yaml:"image_link"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Pagination describes one page of a product listing
type Pagination struct {
	CurrentPage int   `json:"current_page" yaml:"current_page"`
	TotalPage   int   `json:"total_page" yaml:"total_page"`
	TotalItems  int64 `json:"total_items" yaml:"total_items"`
	ItemPerPage int   `json:"item_per_page" yaml:"item_per_page"`
}

// ProductList is the data payload of a product listing
type ProductList struct {
	Products   []Product  `json:"products" yaml:"products"`
	Pagination Pagination `json:"pagination" yaml:"pagination"`
}

// ProductRequest is the body for creating or updating a product
type ProductRequest struct {
	Thumbnail string  `json:"thumbnail" validate:"omitempty,url"`
	Category  string  `json:"category" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"required,gt=0"`
	ImageLink string  `json:"image_link" validate:"omitempty,url"`
}

// ProductFilter holds the optional listing parameters. Zero values are omitted.
type ProductFilter struct {
	Category string  `validate:"omitempty"`
	Search   string  `validate:"omitempty"`
	MinPrice float64 `validate:"gte=0"`
	MaxPrice float64 `validate:"gte=0"`
	Page     int     `validate:"gte=0"`
	Limit    int     `validate:"gte=0,lte=100"`
}

// Values encodes the filter as query parameters
func (f ProductFilter) Values() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.MinPrice > 0 {
		q.Set("min_price", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// ProductService maps product operations to API requests
type ProductService struct {
	client *Client
}

// NewProductService creates a product service on top of c
func NewProductService(c *Client) *ProductService {
	return &ProductService{client: c}
}

// GetProducts lists products matching filter
func (s *ProductService) GetProducts(ctx context.Context, filter ProductFilter) (*Response, error) {
	return s.client.Do(ctx, http.MethodGet, "/product", filter.Values(), nil)
}

// GetProductByID fetches a single product
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*Response, error) {
	return s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/product/%d", id), nil, nil)
}

// CreateProduct creates a product (admin only)
func (s *ProductService) CreateProduct(ctx context.Context, req ProductRequest) (*Response, error) {
	return s.client.Do(ctx, http.MethodPost, "/product-management", nil, req)
}

// UpdateProduct replaces a product's fields (admin only)
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req ProductRequest) (*Response, error) {
	return s.client.Do(ctx, http.MethodPut, fmt.Sprintf("/product-management/%d", id), nil, req)
}

// DeleteProduct deletes a product (admin only)
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) (*Response, error) {
	return s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/product-management/%d", id), nil, nil)
}

// GetCategories lists the distinct product categories
func (s *ProductService) GetCategories(ctx context.Context) (*Response, error) {
	return s.client.Do(ctx, http.MethodGet, "/product/categories", nil, nil)
}
