package api

import (
	"context"
	"fmt"
)

// Login performs POST /auth/login. An application-level rejection (wrong
// credentials) is not returned as an error: the server answers with a JSON
// body carrying an error message and no token, and that body is handed back
// to the caller as-is. Only transport failures and undecodable responses
// produce a non-nil error.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	resp, err := c.Post(ctx, "/auth/login", req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var loginResp LoginResponse
	if err := DecodeJSON(resp, &loginResp); err != nil {
		return nil, err
	}

	return &loginResp, nil
}

// Register performs POST /users/register and returns the created profile.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*UserProfile, error) {
	resp, err := c.Post(ctx, "/users/register", req)
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var user UserProfile
	if err := DecodeJSON(resp, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Me performs GET /users/me for the current bearer token.
func (c *Client) Me(ctx context.Context) (*UserProfile, error) {
	resp, err := c.Get(ctx, "/users/me")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var user UserProfile
	if err := DecodeJSON(resp, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
