// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatwithdata-tui/internal/session"
)

// =============================================================================
// PROGRAM BRIDGE
// =============================================================================

// Bridge delivers messages from goroutines (commands, the session store,
// the credential watcher) into the running program. Before a program is
// attached, messages are queued and can be drained by the caller.
type Bridge struct {
	mu      sync.Mutex
	program *tea.Program
	queue   []tea.Msg
}

// NewBridge creates a detached bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes future messages to p. Queued messages are flushed first.
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	b.program = p
	queued := b.queue
	b.queue = nil
	b.mu.Unlock()

	for _, msg := range queued {
		p.Send(msg)
	}
}

// Detach stops routing to the program; later messages are queued.
func (b *Bridge) Detach() {
	b.mu.Lock()
	b.program = nil
	b.mu.Unlock()
}

// Send delivers msg to the program, or queues it when detached.
func (b *Bridge) Send(msg tea.Msg) {
	b.mu.Lock()
	p := b.program
	if p == nil {
		b.queue = append(b.queue, msg)
	}
	b.mu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}

// Drain returns and clears the queued messages.
func (b *Bridge) Drain() []tea.Msg {
	b.mu.Lock()
	defer b.mu.Unlock()
	queued := b.queue
	b.queue = nil
	return queued
}

// =============================================================================
// ADAPTERS
// =============================================================================

// Navigate implements session.Navigator.
func (b *Bridge) Navigate(v session.View) {
	b.Send(navigateMsg{view: v})
}

// Confirm implements chats.Confirmer. It shows a dialog in the program and
// blocks until the user answers or ctx is done.
func (b *Bridge) Confirm(ctx context.Context, prompt string) bool {
	reply := make(chan bool, 1)
	b.Send(confirmRequestMsg{prompt: prompt, reply: reply})

	select {
	case ok := <-reply:
		return ok
	case <-ctx.Done():
		return false
	}
}
