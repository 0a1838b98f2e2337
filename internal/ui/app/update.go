// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/chatwithdata-tui/internal/api"
	"github.com/jeranaias/chatwithdata-tui/internal/chats"
	"github.com/jeranaias/chatwithdata-tui/internal/session"
	"github.com/jeranaias/chatwithdata-tui/internal/ui/components"
)

// MsgBusy is shown when a mutation is attempted while another is pending.
const MsgBusy = "Please wait for the current operation to finish"

// =============================================================================
// UPDATE
// =============================================================================

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	cmd = tea.Batch(cmd, m.startSpinner(), m.startToastTick())
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.status.Spinner = m.spinner.View()
		m.syncPending()
		return m, cmd

	case components.ToastTickMsg:
		m.toasts.Tick()
		if !m.toasts.HasToasts() || m.static {
			m.toastTicking = false
			return m, nil
		}
		return m, components.ToastTickCmd()

	case navigateMsg:
		return m.handleNavigate(msg.view)

	case confirmRequestMsg:
		if m.confirm != nil {
			msg.reply <- false
			return m, nil
		}
		m.dropdown.Close()
		m.confirm = components.NewConfirmDialog(msg.prompt)
		m.confirmReply = msg.reply
		cmd := m.releaseMouse()
		return m, cmd

	case authDoneMsg:
		return m.handleAuthDone(msg)

	case passwordSetMsg:
		return m.handlePasswordSet(msg)

	case resetDoneMsg:
		m.inflight--
		if msg.err != nil {
			m.toasts.Add(components.ToastKindError, errorText(msg.err))
		}
		if m.form == nil || m.form.Kind != components.FormReset {
			return m, nil
		}
		m.form.SetBusy(false)
		if msg.err != nil {
			m.form.SetError(errorText(msg.err))
			return m, nil
		}
		m.form.SetInfo(session.MsgResetSent)
		m.toasts.Add(components.ToastKindSuccess, session.MsgResetSent)
		return m, nil

	case historyMsg:
		if m.screen != ScreenHome {
			return m, nil
		}
		m.sidebar.SetLoading(false)
		m.syncFromController()
		return m, nil

	case chatMsg:
		if m.screen != ScreenHome {
			return m, nil
		}
		if msg.err != nil {
			if id, ok := m.ctrl.Selected(); ok && id == msg.id {
				m.thread.Clear()
			}
		}
		m.syncFromController()
		if m.ctrl.NewChatContext() && m.focus == FocusThread {
			return m.setFocus(FocusSidebar)
		}
		return m, nil

	case opDoneMsg:
		return m.handleOpDone(msg)

	case credentialsChangedMsg:
		return m.handleCredentialsChanged()

	case watchStoppedMsg:
		m.logger.Debug("credential watcher stopped")
		return m, nil
	}

	// Cursor blink and other widget-internal messages.
	return m.forwardToFocused(msg)
}

// forwardToFocused passes msg to whichever text input is active.
func (m Model) forwardToFocused(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.screen != ScreenHome && m.form != nil:
		_, cmd = m.form.Update(msg)
	case m.renaming:
		m.renameInput, cmd = m.renameInput.Update(msg)
	case m.focus == FocusDropZone:
		_, cmd = m.dropzone.Update(msg)
	}
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Modal overlays take every key.
	if m.confirm != nil {
		done, result := m.confirm.HandleKey(msg)
		if done {
			m.answerConfirm(result)
		}
		return m, nil
	}

	if m.screen != ScreenHome {
		return m.handleFormKey(msg)
	}

	if m.renaming {
		return m.handleRenameKey(msg)
	}

	if m.dropdown.IsOpen() {
		m, cmd := m.runAction(m.dropdown.HandleKey(msg))
		cmd = tea.Batch(cmd, m.releaseMouse())
		return m, cmd
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.focus {
	case FocusDropZone:
		return m.handleDropZoneKey(msg)
	case FocusThread:
		return m.handleThreadKey(msg)
	default:
		return m.handleSidebarKey(msg)
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.Quit):
		return m, tea.Quit
	case m.form.Busy():
		return m, nil
	case key.Matches(msg, m.formKeys.Signup):
		return m.showScreen(ScreenSignup)
	case key.Matches(msg, m.formKeys.Reset):
		return m.showScreen(ScreenReset)
	case key.Matches(msg, m.formKeys.Token) && m.screen == ScreenReset:
		return m.showScreen(ScreenNewPassword)
	case key.Matches(msg, m.formKeys.Login):
		return m.showScreen(ScreenLogin)
	case key.Matches(msg, m.formKeys.Back) && m.screen != ScreenLogin:
		return m.showScreen(ScreenLogin)
	case key.Matches(msg, m.formKeys.Demo) && m.screen == ScreenLogin && m.cfg.Auth.DemoLogin:
		m.form.SetValue(components.FieldEmail, session.DemoEmail)
		m.form.SetValue(components.FieldPassword, session.DemoPassword)
		return m.submitForm()
	}

	submit, cmd := m.form.Update(msg)
	if submit {
		return m.submitForm()
	}
	return m, cmd
}

// submitForm dispatches the current auth form.
func (m Model) submitForm() (Model, tea.Cmd) {
	f := m.form
	f.SetError("")
	f.SetInfo("")
	f.SetBusy(true)
	m.inflight++

	switch f.Kind {
	case components.FormSignup:
		return m, m.signupCmd(f.Value(components.FieldName), f.Value(components.FieldEmail), f.Value(components.FieldPassword))
	case components.FormReset:
		return m, m.resetCmd(f.Value(components.FieldEmail))
	case components.FormNewPassword:
		return m, m.newPasswordCmd(f.Value(components.FieldToken), f.Value(components.FieldPassword))
	default:
		return m, m.loginCmd(f.Value(components.FieldEmail), f.Value(components.FieldPassword))
	}
}

// showScreen switches between the auth screens with a fresh form.
func (m Model) showScreen(s Screen) (Model, tea.Cmd) {
	if s == m.screen && m.form != nil {
		return m, nil
	}
	m.screen = s
	m.form = components.NewForm(s.formKind())
	return m, textinput.Blink
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.endRename()
		return m, nil
	case "enter":
		id, title := m.renameID, m.renameInput.Value()
		m.endRename()
		m.inflight++
		return m, m.renameCmd(id, title)
	}
	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m *Model) endRename() {
	m.renaming = false
	m.renameID = ""
	m.renameInput.Blur()
	m.renameInput.Reset()
}

func (m Model) handleDropZoneKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.setFocus(FocusSidebar)
	case key.Matches(msg, m.keys.Focus):
		return m.setFocus(FocusSidebar)
	}

	paths, cmd := m.dropzone.Update(msg)
	if len(paths) == 0 {
		return m, cmd
	}
	m.dropzone.SetBusy(true)
	m.inflight++
	return m, tea.Batch(cmd, m.uploadCmd(paths))
}

func (m Model) handleThreadKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Focus):
		return m.setFocus(FocusSidebar)
	case key.Matches(msg, m.keys.Settings):
		return m.openDropdown()
	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.DismissNewest()
		return m, nil
	}
	return m, m.thread.Update(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.sidebar.CursorUp()
	case key.Matches(msg, m.keys.Down):
		m.sidebar.CursorDown()
	case key.Matches(msg, m.keys.Top):
		m.sidebar.CursorTop()
	case key.Matches(msg, m.keys.Bottom):
		m.sidebar.CursorBottom()

	case key.Matches(msg, m.keys.Open):
		id, isNew := m.sidebar.Current()
		if isNew {
			return m.startNewChat()
		}
		return m.openChat(id)

	case key.Matches(msg, m.keys.NewChat):
		m.sidebar.CursorTop()
		return m.startNewChat()

	case key.Matches(msg, m.keys.Rename):
		chat, ok := m.sidebar.CurrentChat()
		if !ok {
			return m, nil
		}
		m.renaming = true
		m.renameID = chat.ID
		m.renameInput.SetValue(chat.Title)
		m.renameInput.CursorEnd()
		cmd := m.renameInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		if id, isNew := m.sidebar.Current(); !isNew {
			m.inflight++
			return m, m.deleteCmd(id)
		}

	case key.Matches(msg, m.keys.Archive):
		if id, isNew := m.sidebar.Current(); !isNew {
			m.inflight++
			return m, m.archiveCmd(id)
		}

	case key.Matches(msg, m.keys.Refresh):
		m.sidebar.SetLoading(true)
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Focus):
		if m.ctrl.NewChatContext() {
			return m.setFocus(FocusDropZone)
		}
		return m.setFocus(FocusThread)

	case key.Matches(msg, m.keys.Settings):
		return m.openDropdown()

	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()

	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.DismissNewest()
	}
	return m, nil
}

// =============================================================================
// MOUSE HANDLING
// =============================================================================

// handleMouse only sees events while the settings menu holds the mouse.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if !m.dropdown.IsOpen() {
		if m.screen == ScreenHome && m.focus == FocusThread {
			return m, m.thread.Update(msg)
		}
		return m, nil
	}

	action, _ := m.dropdown.HandleMouse(msg)
	m, cmd := m.runAction(action)
	cmd = tea.Batch(cmd, m.releaseMouse())
	return m, cmd
}

// =============================================================================
// SETTINGS MENU
// =============================================================================

// openDropdown shows the settings menu and, when allowed, captures the
// mouse until it closes.
func (m Model) openDropdown() (Model, tea.Cmd) {
	m.dropdown.X = max(m.width-m.dropdown.Width()-1, 0)
	m.dropdown.Y = 1
	m.dropdown.Open()

	if m.cfg.UI.Mouse && !m.mouseOn {
		m.mouseOn = true
		return m, tea.EnableMouseCellMotion
	}
	return m, nil
}

// releaseMouse gives the mouse back once the menu is closed.
func (m *Model) releaseMouse() tea.Cmd {
	if !m.mouseOn || m.dropdown.IsOpen() {
		return nil
	}
	m.mouseOn = false
	return tea.DisableMouse
}

func (m Model) runAction(action components.DropdownAction) (Model, tea.Cmd) {
	switch action {
	case components.ActionToggleTheme:
		m.toggleTheme()
	case components.ActionArchiveAll:
		m.inflight++
		return m, m.archiveAllCmd()
	case components.ActionDeleteAll:
		m.inflight++
		return m, m.deleteAllCmd()
	case components.ActionDeleteAccount:
		m.inflight++
		return m, m.deleteAccountCmd()
	case components.ActionLogout:
		return m, m.logoutCmd()
	}
	return m, nil
}

func (m *Model) toggleTheme() {
	m.theme.Toggle()
	m.spinner.Style = m.theme.Spinner
	m.thread.Render(m.theme, m.now())
	m.logger.Debug("theme toggled", zap.String("mode", m.theme.Mode()))
}

// =============================================================================
// CONFIRMATION
// =============================================================================

// answerConfirm replies to the waiting controller and closes the dialog.
func (m *Model) answerConfirm(result bool) {
	if m.confirmReply != nil {
		m.confirmReply <- result
	}
	m.confirm = nil
	m.confirmReply = nil
}

// =============================================================================
// ASYNC RESULTS
// =============================================================================

func (m Model) handleNavigate(v session.View) (Model, tea.Cmd) {
	m.logger.Debug("navigate", zap.Stringer("view", v), zap.Stringer("from", m.screen))

	if v == session.ViewHome {
		if m.screen == ScreenHome {
			return m, nil
		}
		m.screen = ScreenHome
		m.form = nil
		m.showUser()
		m.ctrl.Reset()
		m.sidebar.SetChats(nil)
		m.sidebar.SetLoading(true)
		m.sidebar.SetSelected("")
		m.thread.Clear()
		m.thread.Render(m.theme, m.now())
		m, cmd := m.setFocus(FocusSidebar)
		return m, tea.Batch(cmd, m.refreshCmd())
	}

	if m.screen != ScreenHome {
		return m, nil
	}
	if m.confirm != nil {
		m.answerConfirm(false)
	}
	m.dropdown.Close()
	if m.renaming {
		m.endRename()
	}
	m.ctrl.Reset()
	m.dropzone.Blur()
	m.dropzone.SetBusy(false)
	m.showUser()
	m.screen = ScreenLogin
	m.form = components.NewForm(components.FormLogin)
	cmd := tea.Batch(m.releaseMouse(), textinput.Blink)
	return m, cmd
}

func (m Model) handleAuthDone(msg authDoneMsg) (Model, tea.Cmd) {
	m.inflight--
	if msg.err != nil {
		m.toasts.Add(components.ToastKindError, errorText(msg.err))
		if m.form != nil && m.form.Kind == msg.form {
			m.form.SetBusy(false)
			m.form.ClearPassword()
			m.form.SetError(errorText(msg.err))
		}
		return m, nil
	}

	if msg.form == components.FormSignup {
		m.toasts.Add(components.ToastKindSuccess, session.MsgAccountCreated)
	} else {
		m.toasts.Add(components.ToastKindSuccess, session.MsgWelcomeBack)
	}
	return m, nil
}

// handlePasswordSet returns to sign in after a successful reset.
func (m Model) handlePasswordSet(msg passwordSetMsg) (Model, tea.Cmd) {
	m.inflight--
	if msg.err != nil {
		m.toasts.Add(components.ToastKindError, errorText(msg.err))
		if m.form != nil && m.form.Kind == components.FormNewPassword {
			m.form.SetBusy(false)
			m.form.ClearPassword()
			m.form.SetError(errorText(msg.err))
		}
		return m, nil
	}

	m.toasts.Add(components.ToastKindSuccess, session.MsgPasswordSet)
	if m.screen != ScreenNewPassword {
		return m, nil
	}
	m, cmd := m.showScreen(ScreenLogin)
	m.form.SetInfo(session.MsgPasswordSet)
	return m, cmd
}

func (m Model) handleOpDone(msg opDoneMsg) (Model, tea.Cmd) {
	if msg.name != "logout" {
		m.inflight--
	}
	if msg.name == "upload" {
		m.dropzone.SetBusy(false)
	}
	if errors.Is(msg.err, chats.ErrBusy) {
		m.toasts.Add(components.ToastKindWarning, MsgBusy)
	}
	if msg.err != nil {
		m.logger.Debug("operation failed", zap.String("op", msg.name), zap.Error(msg.err))
	}
	if m.screen != ScreenHome {
		return m, nil
	}

	m.syncFromController()
	if msg.name == "upload" && msg.err == nil && !m.ctrl.NewChatContext() {
		return m.setFocus(FocusThread)
	}
	if m.ctrl.NewChatContext() && m.focus == FocusThread {
		return m.setFocus(FocusSidebar)
	}
	return m, nil
}

func (m Model) handleCredentialsChanged() (Model, tea.Cmd) {
	prev := m.userID
	m.showUser()

	cmd := m.watchCmd()
	if m.screen == ScreenHome && m.userID != "" && m.userID != prev {
		m.logger.Info("signed-in account changed, reloading")
		m.ctrl.Reset()
		m.sidebar.SetChats(nil)
		m.sidebar.SetLoading(true)
		m.thread.Clear()
		m.thread.Render(m.theme, m.now())
		return m, tea.Batch(cmd, m.refreshCmd())
	}
	return m, cmd
}

// =============================================================================
// HOME SCREEN STATE
// =============================================================================

func (m Model) startNewChat() (Model, tea.Cmd) {
	m.ctrl.NewChat()
	m.syncFromController()
	return m.setFocus(FocusDropZone)
}

func (m Model) openChat(id string) (Model, tea.Cmd) {
	if sel, ok := m.ctrl.Selected(); ok && sel == id {
		if _, loaded := m.ctrl.Detail(); loaded {
			return m.setFocus(FocusThread)
		}
	}
	m.sidebar.SetSelected(id)
	m.thread.SetLoading()
	m.thread.Render(m.theme, m.now())
	m, cmd := m.setFocus(FocusThread)
	return m, tea.Batch(cmd, m.selectCmd(id))
}

func (m Model) setFocus(f Focus) (Model, tea.Cmd) {
	m.focus = f
	m.sidebar.Focused = f == FocusSidebar
	if f == FocusDropZone {
		return m, m.dropzone.Focus()
	}
	m.dropzone.Blur()
	return m, nil
}

// syncFromController copies the controller state into the widgets.
func (m *Model) syncFromController() {
	m.sidebar.SetChats(m.ctrl.History())
	m.syncPending()

	id, ok := m.ctrl.Selected()
	switch {
	case !ok:
		m.sidebar.SetSelected("")
		m.thread.Clear()
	default:
		m.sidebar.SetSelected(id)
		if chat, loaded := m.ctrl.Detail(); loaded {
			m.thread.SetChat(chat)
		}
	}
	m.thread.Render(m.theme, m.now())
}

func (m *Model) syncPending() {
	op := m.ctrl.Pending()
	m.sidebar.SetPending(op)
	m.status.Pending = op
}

// layout sizes the widgets for the window.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.status.Width = m.width

	mainW, bodyH := m.mainSize()
	m.thread.SetSize(mainW, bodyH)
	m.thread.Render(m.theme, m.now())
}

// mainSize returns the size of the pane right of the sidebar.
func (m Model) mainSize() (width, height int) {
	height = max(m.height-2, 1)
	width = m.width - m.theme.SidebarWidth() - 2
	return max(width, 10), height
}

// =============================================================================
// TIMERS
// =============================================================================

// busy reports whether anything is in flight that shows the spinner.
func (m Model) busy() bool {
	return m.inflight > 0 || !m.ctrl.Pending().Idle()
}

func (m *Model) startSpinner() tea.Cmd {
	if m.static || m.spinning || !m.busy() {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *Model) startToastTick() tea.Cmd {
	if m.static || m.toastTicking || !m.toasts.HasToasts() {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}

// errorText returns the message shown for err on a form.
func errorText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return err.Error()
}
