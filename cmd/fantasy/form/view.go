package form

import (
	"strings"

	"fantasysala/cmd/fantasy/ui"
	"fantasysala/internal/registration"

	"github.com/charmbracelet/lipgloss"
)

const dividerWidth = 38

// View renders the form, or the success card while the redirect is pending.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state.Phase == registration.PhaseSuccess {
		return m.renderSuccess()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.state.Phase == registration.PhaseError && m.state.Banner != "" {
		b.WriteString(m.styles.Banner.Render("● " + m.state.Banner))
		b.WriteString("\n")
	}

	for i, field := range registration.AllFields {
		b.WriteString(m.renderField(i, field))
		b.WriteString("\n")
	}

	b.WriteString(m.renderSubmit())
	b.WriteString("\n")
	b.WriteString(m.styles.RenderDivider(dividerWidth))
	b.WriteString("\n")
	b.WriteString(m.renderLoginLink())
	b.WriteString("\n")
	b.WriteString(m.styles.Notice.Render("🔒 Your data is protected and secure."))
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(m.help.View(m.keys)))

	return m.styles.Card.Render(b.String())
}

func (m Model) renderHeader() string {
	title := lipgloss.JoinVertical(lipgloss.Center,
		ui.Logo(m.styles),
		m.styles.Title.Render("Create account"),
		m.styles.Subtitle.Render("Join Fantasy Fútbol Sala"),
	)
	return m.styles.Header.Render(title)
}

func (m Model) renderField(i int, field registration.FieldName) string {
	style := m.styles.Input
	switch {
	case m.state.Errors.Get(field) != "":
		style = m.styles.InputInvalid
	case i == m.focus && !m.state.Loading():
		style = m.styles.InputFocused
	}

	lines := []string{
		m.styles.Label.Render(field.Label() + " *"),
		style.Render(m.inputs[i].View()),
	}
	if msg := m.state.Errors.Get(field); msg != "" {
		lines = append(lines, m.styles.FieldError.Render(msg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderSubmit() string {
	if m.state.Loading() {
		return m.styles.ButtonBusy.Render(m.spinner.View() + " Creating account...")
	}
	if m.focus == focusSubmit {
		return m.styles.ButtonActive.Render("+ Create account")
	}
	return m.styles.Button.Render("+ Create account")
}

func (m Model) renderLoginLink() string {
	link := "Sign in"
	if m.focus == focusLogin && !m.state.Loading() {
		link = "[ Sign in ]"
	}
	return m.styles.Muted.Render("Already have an account? ") + m.styles.Link.Render(link)
}

func (m Model) renderSuccess() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Success.Render("✔ Account created!"),
		"",
		m.styles.Muted.Render("Your account has been created. Redirecting to login..."),
	)
	return m.styles.Card.Render(body)
}
