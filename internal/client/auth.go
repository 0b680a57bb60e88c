package client

import (
	"context"
	"fmt"
	"net/http"

	"taskplanner/internal/model"
)

type credentials struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation,omitempty"`
}

type authRequest struct {
	User credentials `json:"user"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Signup creates an account and returns its token.
func (c *Client) Signup(ctx context.Context, email, password, confirmation string) (string, error) {
	var resp tokenResponse
	req := authRequest{User: credentials{Email: email, Password: password, PasswordConfirmation: confirmation}}
	if err := c.do(ctx, http.MethodPost, "/signup", req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	req := authRequest{User: credentials{Email: email, Password: password}}
	if err := c.do(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/users/current", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes the account email.
func (c *Client) UpdateUser(ctx context.Context, id uint, email string) (*model.User, error) {
	var user model.User
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d", id), body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, id uint, current, password, confirmation string) error {
	body := map[string]string{
		"current_password":      current,
		"password":              password,
		"password_confirmation": confirmation,
	}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d/update_password", id), body, nil)
}
