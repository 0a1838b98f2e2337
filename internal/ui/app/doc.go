// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the Bubble Tea program of the chatwithdata terminal UI.
//
// The Model owns the login, signup, password reset and home screens. All
// backend work runs in commands that call the session store and the chat
// controller; their results come back as messages. Goroutines that must
// reach the running program (navigation signals, confirmation requests)
// go through a Bridge.
//
// Home screen layout:
//
//	+---------------------------------------------------+
//	| chatwithdata  Ada            [=] Settings (s)     |
//	+-------------+-------------------------------------+
//	| + New chat  |                                     |
//	|             |   thread, or the drop zone when     |
//	| Q3 report   |   starting a new chat               |
//	|  preview    |                                     |
//	+-------------+-------------------------------------+
//	| [OK] Ready                 enter open  n new ...  |
//	+---------------------------------------------------+
package app
