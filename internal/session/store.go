// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/chatwithdata-tui/internal/api"
	"github.com/jeranaias/chatwithdata-tui/internal/logging"
	"github.com/jeranaias/chatwithdata-tui/internal/model"
	"github.com/jeranaias/chatwithdata-tui/internal/storage"
)

// =============================================================================
// STATE AND NAVIGATION
// =============================================================================

// State is the authentication state of a Store.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
)

// String returns a human-readable name for the state.
func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// View is a navigation target signalled by the Store.
type View int

const (
	ViewLogin View = iota
	ViewHome
)

// String returns a human-readable name for the view.
func (v View) String() string {
	if v == ViewHome {
		return "home"
	}
	return "login"
}

// Navigator receives view changes after state transitions.
type Navigator interface {
	Navigate(View)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(View)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(v View) { f(v) }

// Messages shown after a successful session change.
const (
	MsgWelcomeBack    = "Welcome back!"
	MsgAccountCreated = "Account created successfully!"
	MsgResetSent      = "Reset instructions sent!"
	MsgPasswordSet    = "Password updated. Sign in with your new password."
)

// Authenticator is the subset of the backend client used by the Store.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (model.AuthResponse, error)
	Signup(ctx context.Context, name, email, password string) (model.AuthResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetToken(ctx context.Context, token string) error
	UpdatePassword(ctx context.Context, token, newPassword string) error
}

// =============================================================================
// CONFIG
// =============================================================================

// Config configures a Store.
type Config struct {
	// DemoLogin enables the local demo account (default: true)
	DemoLogin bool

	// ResetInterval is the minimum time between password reset requests
	ResetInterval time.Duration

	Navigator Navigator
	Logger    *zap.Logger
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		DemoLogin:     true,
		ResetInterval: 30 * time.Second,
	}
}

// =============================================================================
// STORE
// =============================================================================

// Store is the session state container. It is safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	creds         storage.CredentialStore
	auth          Authenticator
	nav           Navigator
	logger        *zap.Logger
	demoLogin     bool
	resetLimiter  *rate.Limiter
	authenticated bool
	token         string
	user          model.User
}

// NewStore creates an unauthenticated store. Call Restore to pick up a
// stored credential.
func NewStore(creds storage.CredentialStore, auth Authenticator, cfg Config) *Store {
	logger := logging.OrNop(cfg.Logger)
	interval := cfg.ResetInterval
	if interval <= 0 {
		interval = DefaultConfig().ResetInterval
	}
	return &Store{
		creds:        creds,
		auth:         auth,
		nav:          cfg.Navigator,
		logger:       logger,
		demoLogin:    cfg.DemoLogin,
		resetLimiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// SetNavigator replaces the navigation target.
func (s *Store) SetNavigator(nav Navigator) {
	s.mu.Lock()
	s.nav = nav
	s.mu.Unlock()
}

// Authenticated reports whether a user is signed in.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Demo reports whether the current session is the offline demo session.
// The backend does not know the demo token.
func (s *Store) Demo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated && s.token == DemoToken
}

// State returns the current state.
func (s *Store) State() State {
	if s.Authenticated() {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

// User returns a copy of the current user record and whether one is set.
func (s *Store) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.authenticated
}

// =============================================================================
// MUTATORS
// =============================================================================

// Restore re-derives the session from the credential store. It does not
// signal navigation; the caller picks the initial view from the result.
func (s *Store) Restore() State {
	token, ok := s.creds.Token()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyTokenLocked(token, ok)
	s.logger.Info("session restored", zap.Bool("authenticated", s.authenticated))
	if s.authenticated {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

// Sync re-reads the credential store after an external change and signals
// navigation when the authentication state flipped. It reports whether the
// state changed.
func (s *Store) Sync() bool {
	token, ok := s.creds.Token()

	s.mu.Lock()
	was := s.authenticated
	if ok == was && token == s.token {
		s.mu.Unlock()
		return false
	}
	s.applyTokenLocked(token, ok)
	now := s.authenticated
	nav := s.nav
	s.mu.Unlock()

	if was == now {
		return false
	}
	s.logger.Info("session changed externally", zap.Bool("authenticated", now))
	navigate(nav, viewFor(now))
	return true
}

func (s *Store) applyTokenLocked(token string, ok bool) {
	if !ok {
		s.authenticated = false
		s.token = ""
		s.user = model.User{}
		return
	}
	s.authenticated = true
	s.token = token
	s.user = IdentityFromToken(token)
}

// Login signs in. On failure the credential store and the state are left
// untouched and the error is returned for display.
func (s *Store) Login(ctx context.Context, email, password string) error {
	email = NormalizeEmail(email)
	if err := validateCredentials("login", email, password); err != nil {
		return err
	}

	if s.demoLogin && email == DemoEmail && password == DemoPassword {
		s.logger.Info("demo login")
		return s.establish(DemoToken, DemoUser)
	}

	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", zap.String("kind", api.KindOf(err).String()))
		return err
	}
	s.logger.Info("login succeeded", zap.String("user_id", resp.User.ID))
	return s.establish(resp.Token, resp.User)
}

// Signup provisions an account and signs in with it.
func (s *Store) Signup(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if err := validation.Validate(name, validation.Required.Error("Name is required")); err != nil {
		return api.Validationf("signup", "%s", err.Error())
	}
	if err := validateCredentials("signup", email, password); err != nil {
		return err
	}

	resp, err := s.auth.Signup(ctx, name, email, password)
	if err != nil {
		s.logger.Warn("signup failed", zap.String("kind", api.KindOf(err).String()))
		return err
	}
	s.logger.Info("signup succeeded", zap.String("user_id", resp.User.ID))
	return s.establish(resp.Token, resp.User)
}

// Logout clears the credential and user synchronously and signals
// navigation to the login view. Storage errors are logged, not returned.
func (s *Store) Logout() {
	if err := s.creds.Clear(); err != nil {
		s.logger.Error("failed to clear credentials", zap.Error(err))
	}

	s.mu.Lock()
	s.authenticated = false
	s.token = ""
	s.user = model.User{}
	nav := s.nav
	s.mu.Unlock()

	s.logger.Info("logged out")
	navigate(nav, ViewLogin)
}

// RequestPasswordReset asks the backend to email reset instructions.
// Requests closer together than the configured interval fail with a
// Validation error without reaching the backend.
func (s *Store) RequestPasswordReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if err := validation.Validate(email,
		validation.Required.Error("Email is required"),
		is.EmailFormat.Error("Enter a valid email address"),
	); err != nil {
		return api.Validationf("reset-password", "%s", err.Error())
	}

	if !s.resetLimiter.Allow() {
		return api.Validationf("reset-password", "Please wait before requesting another reset email")
	}

	if err := s.auth.RequestPasswordReset(ctx, email); err != nil {
		s.logger.Warn("password reset request failed", zap.String("kind", api.KindOf(err).String()))
		return err
	}
	return nil
}

// VerifyResetToken checks a reset token from the reset email.
func (s *Store) VerifyResetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if err := validation.Validate(token, validation.Required.Error("Reset token is required")); err != nil {
		return api.Validationf("verify-reset-token", "%s", err.Error())
	}
	if err := s.auth.VerifyResetToken(ctx, token); err != nil {
		s.logger.Warn("reset token rejected", zap.String("kind", api.KindOf(err).String()))
		return err
	}
	return nil
}

// CompletePasswordReset verifies token and then sets password. The session
// is left alone; the user signs in again with the new password.
func (s *Store) CompletePasswordReset(ctx context.Context, token, password string) error {
	if err := validation.Validate(password, validation.Required.Error("New password is required")); err != nil {
		return api.Validationf("update-password", "%s", err.Error())
	}
	if err := s.VerifyResetToken(ctx, token); err != nil {
		return err
	}
	if err := s.auth.UpdatePassword(ctx, strings.TrimSpace(token), password); err != nil {
		s.logger.Warn("password update failed", zap.String("kind", api.KindOf(err).String()))
		return err
	}
	s.logger.Info("password updated")
	return nil
}

// establish persists the token and marks the session authenticated.
func (s *Store) establish(token string, user model.User) error {
	if err := s.creds.Save(token); err != nil {
		s.logger.Error("failed to persist credentials", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.authenticated = true
	s.token = token
	s.user = user
	nav := s.nav
	s.mu.Unlock()

	navigate(nav, ViewHome)
	return nil
}

func validateCredentials(op, email, password string) error {
	if err := validation.Validate(email,
		validation.Required.Error("Email is required"),
		is.EmailFormat.Error("Enter a valid email address"),
	); err != nil {
		return api.Validationf(op, "%s", err.Error())
	}
	if err := validation.Validate(password, validation.Required.Error("Password is required")); err != nil {
		return api.Validationf(op, "%s", err.Error())
	}
	return nil
}

func viewFor(authenticated bool) View {
	if authenticated {
		return ViewHome
	}
	return ViewLogin
}

func navigate(nav Navigator, v View) {
	if nav != nil {
		nav.Navigate(v)
	}
}
