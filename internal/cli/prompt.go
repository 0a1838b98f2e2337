// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// prompt.go - Line-edited prompts for credentials and confirmations.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// ErrPromptCancelled is returned when the user aborts a prompt.
var ErrPromptCancelled = errors.New("cancelled")

// Prompter reads single lines of user input.
type Prompter interface {
	Prompt(prompt string) (string, error)
	// PromptPassword reads a line without echoing it.
	PromptPassword(prompt string) (string, error)
}

// =============================================================================
// TERMINAL PROMPTER
// =============================================================================

// TerminalPrompter prompts on the controlling terminal with readline-style
// editing. Each prompt owns the terminal only while it is active.
type TerminalPrompter struct{}

// Prompt reads one edited line.
func (TerminalPrompter) Prompt(prompt string) (string, error) {
	return withLiner(func(line *liner.State) (string, error) {
		return line.Prompt(prompt)
	})
}

// PromptPassword reads one line with echo disabled.
func (TerminalPrompter) PromptPassword(prompt string) (string, error) {
	return withLiner(func(line *liner.State) (string, error) {
		return line.PasswordPrompt(prompt)
	})
}

func withLiner(read func(*liner.State) (string, error)) (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	input, err := read(line)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", ErrPromptCancelled
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// =============================================================================
// READER PROMPTER
// =============================================================================

// ReaderPrompter reads answers line by line from r, echoing prompts to w.
// It serves piped input and tests.
type ReaderPrompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewReaderPrompter creates a prompter over r. w may be nil.
func NewReaderPrompter(r io.Reader, w io.Writer) *ReaderPrompter {
	if w == nil {
		w = io.Discard
	}
	return &ReaderPrompter{r: bufio.NewReader(r), w: w}
}

// Prompt writes prompt and reads the next line.
func (p *ReaderPrompter) Prompt(prompt string) (string, error) {
	fmt.Fprint(p.w, prompt)
	input, err := p.r.ReadString('\n')
	if err != nil && (input == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", ErrPromptCancelled
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// PromptPassword reads the next line; input from a reader is never echoed.
func (p *ReaderPrompter) PromptPassword(prompt string) (string, error) {
	answer, err := p.Prompt(prompt)
	fmt.Fprintln(p.w)
	return answer, err
}
