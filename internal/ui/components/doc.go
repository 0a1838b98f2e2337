// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the UI components of the chatwithdata TUI.

Components are plain structs driven by the app model: they take key or
mouse messages through HandleKey/Update methods and render with a
*styles.Theme. None of them talk to the backend.

# Screens

  - Form (form.go) - login, signup and password reset forms with an inline
    error line
  - Header (header.go) - brand, signed-in user and the settings button
  - Sidebar (sidebar.go) - chat history with title and last-message
    preview, "No chats yet." when empty
  - Thread (thread.go) - messages of the selected chat, assistant answers
    rendered as markdown with glamour
  - DropZone (dropzone.go) - document input shown only in new-chat context
  - StatusBar (statusbar.go) - pending operation and key hints

# Overlays

  - Dropdown (dropdown.go) - settings menu; outside clicks dismiss it
  - ConfirmDialog (confirm.go) - modal yes/no question, "No" focused
  - ToastManager (toast.go) - auto-dismissing notifications, safe for
    concurrent use so it can serve as a chats.Notifier
*/
package components
