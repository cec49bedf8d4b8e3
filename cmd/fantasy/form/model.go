// Package form is the interactive registration screen.
//
// The Model is a thin bubbletea shell around registration.Reduce: key
// presses become registration events, and the returned Effect becomes a
// tea.Cmd (the HTTP call, the redirect timer, the switch-to-login hook).
package form

import (
	"context"
	"time"

	"fantasysala/cmd/fantasy/ui"
	"fantasysala/internal/registration"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Config holds everything the screen needs from its caller.
type Config struct {
	// Register sends the account creation request. Required.
	Register registration.RegisterFunc

	// OnSwitchToLogin runs after a successful registration (once
	// RedirectDelay has passed) or when the user picks "sign in". The
	// returned command, if any, is handed back to the program.
	OnSwitchToLogin func() tea.Cmd

	// RedirectDelay defaults to registration.DefaultRedirectDelay.
	RedirectDelay time.Duration

	// Context scopes outgoing requests. Defaults to context.Background.
	Context context.Context

	Styles ui.Styles
	Logger *zap.Logger

	// CursorMode for the text inputs. Blink unless set.
	CursorMode cursor.Mode
}

// Messages produced by the model's commands.
type (
	registerResultMsg struct {
		attempt int
		err     error
	}

	redirectMsg struct {
		attempt int
	}
)

// Model is the registration screen.
type Model struct {
	state registration.State

	inputs []textinput.Model // aligned with registration.AllFields
	focus  int               // index into inputs, or focusSubmit/focusLogin

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  ui.Styles

	register registration.RegisterFunc
	onSwitch func() tea.Cmd
	delay    time.Duration
	ctx      context.Context
	logger   *zap.Logger

	width    int
	switched bool
	quitting bool
}

// Focus targets after the six inputs.
var (
	focusSubmit = len(registration.AllFields)
	focusLogin  = len(registration.AllFields) + 1
	focusCount  = len(registration.AllFields) + 2
)

// New builds the screen with empty fields and the first input focused.
func New(cfg Config) Model {
	if cfg.RedirectDelay <= 0 {
		cfg.RedirectDelay = registration.DefaultRedirectDelay
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Styles.Theme == (ui.Theme{}) {
		cfg.Styles = ui.DefaultStyles()
	}

	m := Model{
		inputs:   make([]textinput.Model, len(registration.AllFields)),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(cfg.Styles.Spinner)),
		help:     help.New(),
		keys:     defaultKeyMap(),
		styles:   cfg.Styles,
		register: cfg.Register,
		onSwitch: cfg.OnSwitchToLogin,
		delay:    cfg.RedirectDelay,
		ctx:      cfg.Context,
		logger:   cfg.Logger,
	}

	for i, field := range registration.AllFields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder(field)
		in.CharLimit = 150
		in.Width = 32
		if field.Secret() {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		in.Cursor.SetMode(cfg.CursorMode)
		m.inputs[i] = in
	}
	m.inputs[0].Focus()

	return m
}

func placeholder(f registration.FieldName) string {
	switch f {
	case registration.FieldFirstName:
		return "Your first name"
	case registration.FieldLastName:
		return "Your last name"
	case registration.FieldUsername:
		return "Pick a username"
	case registration.FieldEmail:
		return "you@email.com"
	case registration.FieldPassword:
		return "At least 6 characters"
	case registration.FieldPassword2:
		return "Repeat your password"
	}
	return ""
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// State exposes the form state for callers and tests.
func (m Model) State() registration.State {
	return m.state
}

// Switched reports whether the switch-to-login hook has fired.
func (m Model) Switched() bool {
	return m.switched
}
