package client

import (
	"context"
	"net/http"
)

// Credentials represents the login request body
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginData is the data payload of a successful login
type LoginData struct {
	AccessToken string `json:"access_token"`
	IsAdmin     bool   `json:"is_admin"`
	Name        string `json:"name,omitempty"`
}

// Login sends credentials to the authentication endpoint
func (c *Client) Login(ctx context.Context, creds Credentials) (*Response, error) {
	return c.Do(ctx, http.MethodPost, "/auth/login", nil, creds)
}
