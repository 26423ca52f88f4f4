package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticToken string

func (s staticToken) Token() (string, bool) {
	return string(s), s != ""
}

// recordedRequest captures what the mock API server received
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	ReqID  string
	Body   map[string]any
}

// mockAPIServer records every request and replies with status/body
func mockAPIServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			ReqID:  r.Header.Get("X-Request-ID"),
		}

		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			if err := json.Unmarshal(data, &rec.Body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		requests = append(requests, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, &requests
}

func TestCartService_Requests(t *testing.T) {
	server, requests := mockAPIServer(t, http.StatusOK, `{"status":true,"message":"ok"}`)
	cart := NewCartService(New(server.URL+"/api", WithTokenSource(staticToken("tok"))))
	ctx := context.Background()

	calls := []struct {
		name   string
		call   func() (*Response, error)
		method string
		path   string
		body   map[string]any
	}{
		{"get", func() (*Response, error) { return cart.GetUserCart(ctx) }, "GET", "/api/cart", nil},
		{"add", func() (*Response, error) { return cart.AddToCart(ctx, 7, 2) }, "POST", "/api/cart", map[string]any{"product_id": float64(7), "quantity": float64(2)}},
		{"update", func() (*Response, error) { return cart.UpdateCartItem(ctx, 3, 5) }, "PUT", "/api/cart/3", map[string]any{"quantity": float64(5)}},
		{"remove", func() (*Response, error) { return cart.RemoveCartItem(ctx, 3) }, "DELETE", "/api/cart/3", nil},
		{"clear", func() (*Response, error) { return cart.ClearCart(ctx) }, "DELETE", "/api/cart", nil},
	}

	for i, tt := range calls {
		resp, err := tt.call()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d", tt.name, resp.StatusCode)
		}

		got := (*requests)[i]
		if got.Method != tt.method || got.Path != tt.path {
			t.Errorf("%s: got %s %s, want %s %s", tt.name, got.Method, got.Path, tt.method, tt.path)
		}
		if got.Auth != "Bearer tok" {
			t.Errorf("%s: Authorization = %q", tt.name, got.Auth)
		}
		if got.ReqID == "" {
			t.Errorf("%s: missing X-Request-ID", tt.name)
		}
		if tt.body != nil {
			for k, v := range tt.body {
				if got.Body[k] != v {
					t.Errorf("%s: body[%s] = %v, want %v", tt.name, k, got.Body[k], v)
				}
			}
		} else if got.Body != nil {
			t.Errorf("%s: unexpected body %v", tt.name, got.Body)
		}
	}
}

func TestProductService_Requests(t *testing.T) {
	server, requests := mockAPIServer(t, http.StatusOK, `{"status":true}`)
	products := NewProductService(New(server.URL + "/api"))
	ctx := context.Background()

	req := ProductRequest{Category: "laptop", Name: "ThinkPad", Price: 1200}

	calls := []struct {
		call   func() (*Response, error)
		method string
		path   string
		query  string
	}{
		{func() (*Response, error) { return products.GetProducts(ctx, ProductFilter{}) }, "GET", "/api/product", ""},
		{func() (*Response, error) {
			return products.GetProducts(ctx, ProductFilter{Category: "phone", MinPrice: 10.5, Page: 2, Limit: 20})
		}, "GET", "/api/product", "category=phone&limit=20&min_price=10.5&page=2"},
		{func() (*Response, error) { return products.GetProductByID(ctx, 9) }, "GET", "/api/product/9", ""},
		{func() (*Response, error) { return products.CreateProduct(ctx, req) }, "POST", "/api/product-management", ""},
		{func() (*Response, error) { return products.UpdateProduct(ctx, 9, req) }, "PUT", "/api/product-management/9", ""},
		{func() (*Response, error) { return products.DeleteProduct(ctx, 9) }, "DELETE", "/api/product-management/9", ""},
		{func() (*Response, error) { return products.GetCategories(ctx) }, "GET", "/api/product/categories", ""},
	}

	for i, tt := range calls {
		if _, err := tt.call(); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		got := (*requests)[i]
		if got.Method != tt.method || got.Path != tt.path || got.Query != tt.query {
			t.Errorf("call %d: got %s %s?%s, want %s %s?%s", i, got.Method, got.Path, got.Query, tt.method, tt.path, tt.query)
		}
		if got.Auth != "" {
			t.Errorf("call %d: unexpected Authorization header without token source", i)
		}
	}

	if (*requests)[3].Body["name"] != "ThinkPad" {
		t.Errorf("create body = %v", (*requests)[3].Body)
	}
}

func TestClient_NoTokenStored(t *testing.T) {
	server, requests := mockAPIServer(t, http.StatusOK, `{}`)
	c := New(server.URL, WithTokenSource(staticToken("")))

	if _, err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (*requests)[0].Auth != "" {
		t.Errorf("Authorization = %q, want empty", (*requests)[0].Auth)
	}
}

func TestClient_APIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"envelope message", http.StatusUnauthorized, `{"status":false,"message":"bad credentials"}`, "bad credentials"},
		{"gin error field", http.StatusBadRequest, `{"error":"invalid"}`, "invalid"},
		{"plain text", http.StatusBadGateway, `upstream down`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := mockAPIServer(t, tt.status, tt.body)
			_, err := New(server.URL).Do(context.Background(), http.MethodGet, "/", nil, nil)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T (%v)", err, err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.message {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.message)
			}
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := New(server.URL, WithTimeout(50*time.Millisecond))
	start := time.Now()
	_, err := c.Do(context.Background(), http.MethodGet, "/slow", nil, nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("timeout not applied")
	}
}

func TestClient_Cancellation(t *testing.T) {
	server, _ := mockAPIServer(t, http.StatusOK, `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(server.URL).Do(ctx, http.MethodGet, "/", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestResponse_Envelope(t *testing.T) {
	resp := &Response{Body: []byte(`{"status":true,"message":"ok","data":{"access_token":"T","is_admin":true}}`)}

	env, err := resp.Envelope()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !env.Status || env.Message != "ok" {
		t.Errorf("envelope = %+v", env)
	}

	var data LoginData
	if err := env.DecodeData(&data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.AccessToken != "T" || !data.IsAdmin {
		t.Errorf("data = %+v", data)
	}

	empty := &Envelope{Status: true}
	if err := empty.DecodeData(&data); err == nil {
		t.Error("expected error for missing data")
	}
}
