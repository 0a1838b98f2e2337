// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/chatwithdata-tui/internal/chats"
	"github.com/jeranaias/chatwithdata-tui/internal/config"
	"github.com/jeranaias/chatwithdata-tui/internal/logging"
	"github.com/jeranaias/chatwithdata-tui/internal/session"
	"github.com/jeranaias/chatwithdata-tui/internal/storage"
	"github.com/jeranaias/chatwithdata-tui/internal/ui/components"
	"github.com/jeranaias/chatwithdata-tui/internal/ui/styles"
)

// =============================================================================
// SCREENS AND FOCUS
// =============================================================================

// Screen is the top-level view.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenSignup
	ScreenReset
	ScreenNewPassword
	ScreenHome
)

// String returns the screen name.
func (s Screen) String() string {
	switch s {
	case ScreenSignup:
		return "signup"
	case ScreenReset:
		return "reset"
	case ScreenNewPassword:
		return "new-password"
	case ScreenHome:
		return "home"
	default:
		return "login"
	}
}

// formKind maps an auth screen to its form.
func (s Screen) formKind() components.FormKind {
	switch s {
	case ScreenSignup:
		return components.FormSignup
	case ScreenReset:
		return components.FormReset
	case ScreenNewPassword:
		return components.FormNewPassword
	default:
		return components.FormLogin
	}
}

// Focus is the home screen pane receiving keys.
type Focus int

const (
	FocusSidebar Focus = iota
	FocusDropZone
	FocusThread
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options wires the model to the rest of the client.
type Options struct {
	Config  *config.Config
	Logger  *zap.Logger
	Session *session.Store
	Client  chats.Backend

	// Watcher reports external credential changes (optional)
	Watcher *storage.Watcher

	// Now is the clock used for timestamps and toasts (default: time.Now)
	Now func() time.Time
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model.
type Model struct {
	ctx     context.Context
	cfg     *config.Config
	logger  *zap.Logger
	session *session.Store
	ctrl    *chats.Controller
	bridge  *Bridge
	watcher *storage.Watcher
	now     func() time.Time

	// Layout
	screen Screen
	focus  Focus
	width  int
	height int

	// Styling and keys
	theme    *styles.Theme
	keys     KeyMap
	formKeys FormKeyMap
	spinner  spinner.Model

	// Auth screens
	form *components.Form

	// Home screen
	header   *components.Header
	sidebar  *components.Sidebar
	thread   *components.Thread
	dropzone *components.DropZone
	status   *components.StatusBar

	// Overlays
	toasts       *components.ToastManager
	dropdown     *components.Dropdown
	confirm      *components.ConfirmDialog
	confirmReply chan<- bool
	renaming     bool
	renameID     string
	renameInput  textinput.Model

	// userID is the signed-in user last shown, to notice account swaps
	userID string

	// inflight counts dispatched commands that show the spinner
	inflight int

	// static disables timer loops so tests can drive the model directly
	static       bool
	spinning     bool
	toastTicking bool
	mouseOn      bool
}

// New creates the model. The initial screen follows the session state.
func New(ctx context.Context, bridge *Bridge, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := logging.OrNop(opts.Logger)
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	toasts := components.NewToastManager()
	toasts.SetClock(now)

	ctrl := chats.New(opts.Client, opts.Session, chats.Options{
		Confirmer: bridge,
		Notifier:  toasts,
		Logger:    logger.Named("chats"),
	})
	opts.Session.SetNavigator(bridge)

	sp := spinner.New()
	sp.Spinner = styles.DotsSpinner.Spinner()

	ri := textinput.New()
	ri.Prompt = "Title: "
	ri.CharLimit = 200
	ri.Width = 40

	theme := styles.NewTheme(cfg.UI.Theme)
	sp.Style = theme.Spinner

	m := Model{
		ctx:         ctx,
		cfg:         cfg,
		logger:      logger,
		session:     opts.Session,
		ctrl:        ctrl,
		bridge:      bridge,
		watcher:     opts.Watcher,
		now:         now,
		theme:       theme,
		keys:        DefaultKeyMap(),
		formKeys:    DefaultFormKeyMap(),
		spinner:     sp,
		header:      components.NewHeader(),
		sidebar:     components.NewSidebar(),
		thread:      components.NewThread(),
		dropzone:    components.NewDropZone(),
		status:      components.NewStatusBar(),
		toasts:      toasts,
		dropdown:    components.NewSettingsDropdown(),
		renameInput: ri,
	}
	m.status.Hints = m.keys.ShortHelp()
	m.sidebar.Focused = true

	if opts.Session.Authenticated() {
		m.screen = ScreenHome
		m.showUser()
	} else {
		m.screen = ScreenLogin
		m.form = components.NewForm(components.FormLogin)
	}
	return m
}

// Init starts the credential watcher and, when signed in, the first
// history fetch.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.watchCmd()}
	if m.screen == ScreenHome {
		cmds = append(cmds, m.refreshCmd())
	} else {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// showUser copies the session user into the header.
func (m *Model) showUser() {
	user, ok := m.session.User()
	if !ok {
		m.userID = ""
		m.header.SetUser("")
		return
	}
	m.userID = user.ID
	m.header.SetUser(user.DisplayName())
}

// =============================================================================
// RUN
// =============================================================================

// Run starts the terminal UI and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	bridge := NewBridge()
	m := New(ctx, bridge, opts)

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	bridge.Attach(p)
	defer bridge.Detach()

	m.logger.Info("tui started", zap.Stringer("screen", m.screen))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
