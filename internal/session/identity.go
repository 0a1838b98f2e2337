// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/chatwithdata-tui/internal/model"
)

// Demo account. Signing in with these credentials never reaches the backend.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo123"
	DemoToken    = "demo-token"
)

// DemoUser is the identity of the demo session.
var DemoUser = model.User{ID: "1", Name: "Demo User", Email: DemoEmail}

// PlaceholderName is shown when a restored token carries no identity.
const PlaceholderName = "Signed-in user"

// IdentityFromToken derives a user record from a stored token.
//
// JWT claims are read without verifying the signature; the backend remains
// the authority and rejects a bad token on the next call.
func IdentityFromToken(token string) model.User {
	if token == DemoToken {
		return DemoUser
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		u := model.User{
			ID:    claimString(claims, "sub"),
			Name:  claimString(claims, "name"),
			Email: claimString(claims, "email"),
		}
		if u.ID == "" {
			u.ID = claimString(claims, "user_id")
		}
		if u.ID != "" || u.Email != "" {
			return u
		}
	}

	return model.User{Name: PlaceholderName}
}

func claimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

// NormalizeEmail trims surrounding space and applies Unicode NFC so that
// visually identical addresses compare equal.
func NormalizeEmail(email string) string {
	return norm.NFC.String(strings.TrimSpace(email))
}
