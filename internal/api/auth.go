// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/jeranaias/chatwithdata-tui/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetTokenRequest struct {
	Token string `json:"token"`
}

type updatePasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Login exchanges credentials for a token and user record.
func (c *Client) Login(ctx context.Context, email, password string) (model.AuthResponse, error) {
	var out model.AuthResponse
	r, err := c.jsonRequest("login", http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return out, err
	}
	err = c.do(ctx, r, &out)
	return out, err
}

// Signup provisions an account and returns its token and user record.
func (c *Client) Signup(ctx context.Context, name, email, password string) (model.AuthResponse, error) {
	var out model.AuthResponse
	r, err := c.jsonRequest("signup", http.MethodPost, "/auth/signup", signupRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return out, err
	}
	err = c.do(ctx, r, &out)
	return out, err
}

// RequestPasswordReset asks the backend to send reset instructions.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	r, err := c.jsonRequest("reset-password", http.MethodPost, "/auth/reset-password", resetRequest{Email: email})
	if err != nil {
		return err
	}
	return c.do(ctx, r, nil)
}

// VerifyResetToken checks that a password reset token is still valid.
func (c *Client) VerifyResetToken(ctx context.Context, token string) error {
	r, err := c.jsonRequest("verify-reset-token", http.MethodPost, "/auth/verify-reset-token", resetTokenRequest{Token: token})
	if err != nil {
		return err
	}
	return c.do(ctx, r, nil)
}

// UpdatePassword sets a new password using a reset token.
func (c *Client) UpdatePassword(ctx context.Context, token, newPassword string) error {
	r, err := c.jsonRequest("update-password", http.MethodPost, "/auth/update-password",
		updatePasswordRequest{Token: token, NewPassword: newPassword})
	if err != nil {
		return err
	}
	return c.do(ctx, r, nil)
}

// DeleteAccount deletes the signed-in user's account.
func (c *Client) DeleteAccount(ctx context.Context) error {
	r, _ := c.jsonRequest("delete-account", http.MethodPost, "/auth/delete-account", nil)
	return c.do(ctx, r, nil)
}
