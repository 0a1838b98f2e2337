// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authentication state of the client.
//
// A Store is the single source of truth for whether someone is signed in
// and as whom. Its mutators (Restore, Login, Signup, Logout, Sync) are the
// only way to change that state, and the invariant
//
//	Authenticated() == (credential store holds a token)
//
// holds after each of them returns.
//
// # Key Types
//
//   - Store: the session state container
//   - Navigator: receives view changes (login view, home view)
//   - Authenticator: the backend operations a Store needs
//
// # Usage
//
//	store := session.NewStore(credentials, client, session.DefaultConfig())
//	if store.Restore() == session.StateAuthenticated {
//	    // show the home view
//	}
//	err := store.Login(ctx, email, password)
//
// # Demo Account
//
// demo@example.com / demo123 signs in locally without contacting the
// backend, unless disabled with Config.DemoLogin.
package session
