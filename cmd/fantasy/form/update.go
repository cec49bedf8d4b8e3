package form

import (
	"time"

	"fantasysala/internal/registration"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Update handles key presses, window resizes and command results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.help.Width = msg.Width
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case registerResultMsg:
		return m.handleResult(msg)

	case redirectMsg:
		next, effect := registration.Reduce(m.state, registration.RedirectElapsed{Attempt: msg.attempt})
		m.state = next
		if effect == registration.EffectSwitchToLogin {
			return m.switchToLogin()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and other input-internal messages.
	return m.updateFocusedInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Login):
		return m.apply(registration.SwitchRequested{})
	}

	// Inputs and buttons are disabled while loading and on the success screen.
	if m.state.Phase == registration.PhaseLoading || m.state.Phase == registration.PhaseSuccess {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		return m.setFocus(m.focus + 1)

	case key.Matches(msg, m.keys.Prev):
		return m.setFocus(m.focus - 1)

	case key.Matches(msg, m.keys.Submit):
		if m.focus == focusLogin && msg.String() == "enter" {
			return m.apply(registration.SwitchRequested{})
		}
		return m.apply(registration.SubmitRequested{})
	}

	if m.focus >= len(m.inputs) {
		return m, nil
	}

	field := registration.AllFields[m.focus]
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		m.state, _ = registration.Reduce(m.state, registration.FieldChanged{Field: field, Value: after})
	}
	return m, cmd
}

// apply runs one event through the reducer and turns the effect into a command.
func (m Model) apply(ev registration.Event) (tea.Model, tea.Cmd) {
	next, effect := registration.Reduce(m.state, ev)
	m.state = next

	switch effect {
	case registration.EffectSendRequest:
		m.blurAll()
		m.logger.Info("submitting registration",
			zap.Int("attempt", next.Attempt),
			zap.String("username", next.Fields.Username))
		return m, tea.Batch(m.sendCmd(next.Attempt, next.Fields), m.spinner.Tick)

	case registration.EffectSwitchToLogin:
		return m.switchToLogin()
	}

	// Invalid submit: jump to the first field with a message.
	if _, ok := ev.(registration.SubmitRequested); ok {
		if invalid := next.Errors.Invalid(); len(invalid) > 0 {
			m.logger.Debug("registration blocked by validation", zap.Int("invalid_fields", len(invalid)))
			return m.setFocus(indexOf(invalid[0]))
		}
	}
	return m, nil
}

func (m Model) handleResult(msg registerResultMsg) (tea.Model, tea.Cmd) {
	var ev registration.Event = registration.SubmitSucceeded{Attempt: msg.attempt}
	if msg.err != nil {
		ev = registration.SubmitFailed{Attempt: msg.attempt, Message: msg.err.Error()}
	}

	next, effect := registration.Reduce(m.state, ev)
	if next == m.state {
		m.logger.Debug("ignoring stale registration result", zap.Int("attempt", msg.attempt))
		return m, nil
	}
	m.state = next

	if effect == registration.EffectScheduleRedirect {
		m.syncInputs()
		m.logger.Info("registration succeeded", zap.Int("attempt", msg.attempt))
		attempt := msg.attempt
		return m, tea.Tick(m.delay, func(time.Time) tea.Msg {
			return redirectMsg{attempt: attempt}
		})
	}

	m.logger.Warn("registration failed", zap.Int("attempt", msg.attempt), zap.Error(msg.err))
	return m.setFocus(m.focus)
}

func (m Model) sendCmd(attempt int, fields registration.Fields) tea.Cmd {
	register, ctx := m.register, m.ctx
	return func() tea.Msg {
		return registerResultMsg{attempt: attempt, err: register(ctx, fields)}
	}
}

func (m Model) switchToLogin() (tea.Model, tea.Cmd) {
	m.switched = true
	m.logger.Debug("switching to login")
	m.focus = 0
	m.blurAll()
	m.inputs[0].Focus()
	if m.onSwitch == nil {
		return m, nil
	}
	return m, m.onSwitch()
}

func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus >= len(m.inputs) {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// setFocus moves focus, wrapping around inputs and the two buttons.
func (m Model) setFocus(i int) (tea.Model, tea.Cmd) {
	m.focus = ((i % focusCount) + focusCount) % focusCount
	m.blurAll()
	if m.focus < len(m.inputs) {
		return m, m.inputs[m.focus].Focus()
	}
	return m, nil
}

func (m *Model) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// syncInputs copies field values from the state into the text inputs. Only
// needed when the reducer changes fields on its own (reset after success).
func (m *Model) syncInputs() {
	for i, f := range registration.AllFields {
		if v := m.state.Fields.Get(f); m.inputs[i].Value() != v {
			m.inputs[i].SetValue(v)
		}
	}
}

func indexOf(f registration.FieldName) int {
	for i, name := range registration.AllFields {
		if name == f {
			return i
		}
	}
	return 0
}
