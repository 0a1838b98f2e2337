// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatwithdata-tui/internal/ui/styles"
	"github.com/jeranaias/chatwithdata-tui/internal/upload"
)

// =============================================================================
// DROP ZONE
// =============================================================================

// Drop zone texts.
const (
	DropZoneTitle = "Drop a document here to start a new chat"
	DropZoneHint  = "Drag a file onto the terminal or type its path, then press enter"
)

// DropZone accepts a document path for a new chat. Most terminals paste
// the path of a file dragged onto them, so a dropped file arrives as text.
type DropZone struct {
	input textinput.Model
	busy  bool
}

// NewDropZone creates an unfocused drop zone.
func NewDropZone() *DropZone {
	ti := textinput.New()
	ti.Placeholder = "/path/to/document.pdf"
	ti.Prompt = "> "
	ti.CharLimit = 4096
	return &DropZone{input: ti}
}

// Focus gives the path input focus.
func (d *DropZone) Focus() tea.Cmd { return d.input.Focus() }

// Blur removes focus.
func (d *DropZone) Blur() { d.input.Blur() }

// Focused reports whether the path input has focus.
func (d *DropZone) Focused() bool { return d.input.Focused() }

// SetBusy marks an upload in flight; input is ignored meanwhile.
func (d *DropZone) SetBusy(busy bool) { d.busy = busy }

// Value returns the typed text.
func (d *DropZone) Value() string { return d.input.Value() }

// Update handles input. On enter it returns the parsed paths and clears
// the field.
func (d *DropZone) Update(msg tea.Msg) (paths []string, cmd tea.Cmd) {
	if d.busy {
		return nil, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		paths = ParsePaths(d.input.Value())
		if len(paths) > 0 {
			d.input.Reset()
		}
		return paths, nil
	}
	d.input, cmd = d.input.Update(msg)
	return nil, cmd
}

// View renders the zone at width columns. spinner is shown while busy.
func (d *DropZone) View(theme *styles.Theme, width int, spinner string) string {
	style := theme.DropZone
	if d.input.Focused() {
		style = theme.DropZoneFocused
	}
	inner := max(width-6, 20)
	d.input.Width = inner - 4

	status := d.input.View()
	if d.busy {
		status = spinner + " Uploading..."
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.DropZoneTitle.Render(DropZoneTitle),
		"",
		theme.DropZoneFormats.Render(upload.SupportedFormats),
		theme.DropZoneFormats.Render(DropZoneHint),
		"",
		lipgloss.NewStyle().Width(inner).Render(status),
	)
	return style.Width(width - 2).Render(body)
}

// =============================================================================
// PATH PARSING
// =============================================================================

// ParsePaths splits text pasted by a terminal into file paths. It accepts
// shell quoting ('a b', "a b", a\ b), file:// URLs and a leading ~/.
func ParsePaths(text string) []string {
	var paths []string
	for _, word := range splitWords(strings.TrimSpace(text)) {
		if p := normalizePath(word); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func splitWords(s string) []string {
	var words []string
	var cur strings.Builder
	var quote rune
	inWord := false

	for i := 0; i < len(s); i++ {
		c := rune(s[i])
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteByte(s[i])
			}
		case c == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
			inWord = true
		case c == '\'' || c == '"':
			quote = c
			inWord = true
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteByte(s[i])
			inWord = true
		}
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words
}

func normalizePath(p string) string {
	if strings.HasPrefix(p, "file://") {
		u, err := url.Parse(p)
		if err != nil {
			return ""
		}
		p = u.Path
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
