// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatwithdata-tui/internal/ui/styles"
)

// =============================================================================
// AUTH FORMS
// =============================================================================

// FormKind selects the fields and title of a Form.
type FormKind int

const (
	FormLogin FormKind = iota
	FormSignup
	FormReset
	FormNewPassword
)

// Field names.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldToken    = "token"
)

// String returns the form title.
func (k FormKind) String() string {
	switch k {
	case FormSignup:
		return "Create an account"
	case FormReset:
		return "Reset your password"
	case FormNewPassword:
		return "Choose a new password"
	default:
		return "Sign in"
	}
}

func (k FormKind) fields() []string {
	switch k {
	case FormSignup:
		return []string{FieldName, FieldEmail, FieldPassword}
	case FormReset:
		return []string{FieldEmail}
	case FormNewPassword:
		return []string{FieldToken, FieldPassword}
	default:
		return []string{FieldEmail, FieldPassword}
	}
}

// Form is an auth form with an inline error or info line.
type Form struct {
	Kind   FormKind
	names  []string
	inputs []textinput.Model
	focus  int

	err  string
	info string
	busy bool
}

// NewForm creates a form of kind with the first field focused.
func NewForm(kind FormKind) *Form {
	f := &Form{Kind: kind, names: kind.fields()}
	for _, name := range f.names {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		switch name {
		case FieldName:
			ti.Placeholder = "Your name"
		case FieldEmail:
			ti.Placeholder = "you@example.com"
		case FieldToken:
			ti.Placeholder = "Token from the reset email"
		case FieldPassword:
			ti.Placeholder = "Password"
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '*'
		}
		f.inputs = append(f.inputs, ti)
	}
	f.inputs[0].Focus()
	return f
}

// Value returns the trimmed value of field, or "" when the form has none.
// Passwords are returned as typed.
func (f *Form) Value(field string) string {
	for i, name := range f.names {
		if name == field {
			if name == FieldPassword {
				return f.inputs[i].Value()
			}
			return strings.TrimSpace(f.inputs[i].Value())
		}
	}
	return ""
}

// SetValue fills field.
func (f *Form) SetValue(field, value string) {
	for i, name := range f.names {
		if name == field {
			f.inputs[i].SetValue(value)
		}
	}
}

// FocusedField returns the name of the focused field.
func (f *Form) FocusedField() string { return f.names[f.focus] }

// SetError shows err inline and clears any info line.
func (f *Form) SetError(err string) {
	f.err = err
	f.info = ""
}

// SetInfo shows a success line and clears any error.
func (f *Form) SetInfo(info string) {
	f.info = info
	f.err = ""
}

// Error returns the inline error.
func (f *Form) Error() string { return f.err }

// Info returns the inline info line.
func (f *Form) Info() string { return f.info }

// SetBusy marks a submission in flight.
func (f *Form) SetBusy(busy bool) { f.busy = busy }

// Busy reports whether a submission is in flight.
func (f *Form) Busy() bool { return f.busy }

// ClearPassword empties the password field after a failed attempt.
func (f *Form) ClearPassword() { f.SetValue(FieldPassword, "") }

// Update handles a message. submit is true when enter is pressed on the
// last field.
func (f *Form) Update(msg tea.Msg) (submit bool, cmd tea.Cmd) {
	if f.busy {
		return false, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return false, f.move(1)
		case "shift+tab", "up":
			return false, f.move(-1)
		case "enter":
			if f.focus == len(f.inputs)-1 {
				return true, nil
			}
			return false, f.move(1)
		}
	}

	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return false, cmd
}

func (f *Form) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

// View renders the form. links are footer hints such as "C-n  Sign up",
// one per line.
func (f *Form) View(theme *styles.Theme, spinner string, links ...string) string {
	var b strings.Builder
	b.WriteString(theme.FormTitle.Render(f.Kind.String()))
	b.WriteString("\n")

	for i, name := range f.names {
		label := strings.ToUpper(name[:1]) + name[1:]
		b.WriteString(theme.FormLabel.Render(label))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}

	switch {
	case f.busy:
		b.WriteString(theme.Spinner.Render(spinner) + " " + theme.FormHint.Render("Please wait..."))
	case f.err != "":
		b.WriteString(theme.FormError.Render(styles.StatusIndicators.Error + " " + f.err))
	case f.info != "":
		b.WriteString(theme.FormSuccess.Render(styles.StatusIndicators.Success + " " + f.info))
	default:
		b.WriteString(theme.FormHint.Render("enter to submit, tab to switch fields"))
	}

	if len(links) > 0 {
		b.WriteString("\n\n")
		b.WriteString(theme.FormLink.Render(strings.Join(links, "\n")))
	}
	return theme.FormBox.Render(b.String())
}
