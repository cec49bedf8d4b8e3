package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fantasysala/cmd/fantasy/form"
	"fantasysala/cmd/fantasy/ui"
	"fantasysala/internal/authapi"
	"fantasysala/internal/logging"
	"fantasysala/internal/registration"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	noTUI      bool
	formValues registration.Fields
)

// registerCmd opens the registration form
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a Fantasy Fútbol Sala account",
	Long: `Opens the registration form. All six fields are required:
first name, last name, username (3+ characters), email, password
(6+ characters) and its confirmation.

After the account is created the form hands off to the login screen.

Scripted use:
  FANTASY_PASSWORD=secret1 fantasy register --no-tui \
    --first-name Ana --last-name García --username pivote9 --email ana@club.es`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	f := registerCmd.Flags()
	f.BoolVar(&noTUI, "no-tui", false, "Submit the form from flags without the interactive screen")
	f.StringVar(&formValues.Username, "username", "", "Username")
	f.StringVar(&formValues.Email, "email", "", "Email address")
	f.StringVar(&formValues.Password, "password", "", "Password (or set FANTASY_PASSWORD)")
	f.StringVar(&formValues.Password2, "password2", "", "Password confirmation (or set FANTASY_PASSWORD)")
	f.StringVar(&formValues.FirstName, "first-name", "", "First name")
	f.StringVar(&formValues.LastName, "last-name", "", "Last name")
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := authapi.NewClient(cfg.API.BaseURL,
		authapi.WithTimeout(cfg.GetAPITimeout()),
		authapi.WithLogger(logging.For(logger, cfg.Logging, logging.CategoryAPI)),
	)
	formLogger := logging.For(logger, cfg.Logging, logging.CategoryForm)

	if noTUI {
		fields := formValues
		if pw := os.Getenv("FANTASY_PASSWORD"); pw != "" {
			if fields.Password == "" {
				fields.Password = pw
			}
			if fields.Password2 == "" {
				fields.Password2 = pw
			}
		}
		return runOneShot(ctx, cmd.OutOrStdout(), oneShotOptions{
			Register: client.RegisterFunc(),
			Fields:   fields,
			Delay:    cfg.GetRedirectDelay(),
			Theme:    cfg.UI.Theme,
			Logger:   formLogger,
		})
	}

	return runInteractive(ctx, cmd.OutOrStdout(), client, formLogger)
}

func runInteractive(ctx context.Context, out io.Writer, client *authapi.Client, log *zap.Logger) error {
	m := form.New(form.Config{
		Register: client.RegisterFunc(),
		OnSwitchToLogin: func() tea.Cmd {
			return tea.Quit
		},
		RedirectDelay: cfg.GetRedirectDelay(),
		Context:       ctx,
		Styles:        ui.NewStyles(ui.ThemeByName(cfg.UI.Theme)),
		Logger:        log,
	})

	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("registration form failed: %w", err)
	}

	if fm, ok := final.(form.Model); ok && fm.Switched() {
		fmt.Fprintln(out, "Continue at the login screen.")
	}
	return nil
}

type oneShotOptions struct {
	Register registration.RegisterFunc
	Fields   registration.Fields
	Delay    time.Duration
	Theme    string
	Logger   *zap.Logger
}

// runOneShot drives registration.Form from flag values and prints a
// markdown summary of the outcome.
func runOneShot(ctx context.Context, out io.Writer, opts oneShotOptions) error {
	switched := make(chan struct{})
	f := registration.NewForm(opts.Register,
		registration.WithRedirectDelay(opts.Delay),
		registration.WithOnSwitchToLogin(func() { close(switched) }),
		registration.WithLogger(opts.Logger),
	)
	defer f.Close()

	for _, name := range registration.AllFields {
		f.Set(name, opts.Fields.Get(name))
	}

	err := f.Submit(ctx)
	switch {
	case errors.Is(err, registration.ErrSubmitInvalid):
		errs := f.State().Errors
		printMarkdown(out, opts.Theme, validationReport(errs))
		return fmt.Errorf("registration not sent: %d invalid field(s)", len(errs.Invalid()))
	case err != nil:
		printMarkdown(out, opts.Theme, failureReport(f.State().Banner, err))
		return fmt.Errorf("registration failed: %w", err)
	}

	printMarkdown(out, opts.Theme, successReport(opts.Fields.Username, opts.Delay))

	select {
	case <-switched:
		fmt.Fprintln(out, "Continue at the login screen.")
	case <-ctx.Done():
	}
	return nil
}

func validationReport(errs registration.ValidationErrors) string {
	var b strings.Builder
	b.WriteString("# Registration not sent\n\nFix the following fields:\n\n")
	for _, name := range errs.Invalid() {
		fmt.Fprintf(&b, "- **%s**: %s\n", name.Label(), errs.Get(name))
	}
	return b.String()
}

func failureReport(banner string, err error) string {
	var b strings.Builder
	b.WriteString("# Registration failed\n\n")
	if banner == "" {
		banner = registration.DefaultErrorMessage
	}
	fmt.Fprintf(&b, "> %s\n", strings.ReplaceAll(banner, "\n", "\n> "))

	var apiErr *authapi.Error
	if errors.As(err, &apiErr) {
		b.WriteString("\n")
		if apiErr.Status != 0 {
			fmt.Fprintf(&b, "_HTTP %d, request %s_\n", apiErr.Status, apiErr.RequestID)
		} else {
			fmt.Fprintf(&b, "_%s error, request %s_\n", apiErr.Kind, apiErr.RequestID)
		}
	}
	b.WriteString("\nYour details were kept; fix them and run the command again.\n")
	return b.String()
}

func successReport(username string, delay time.Duration) string {
	return fmt.Sprintf("# Account created!\n\nWelcome, **%s**. Redirecting to login in %s...\n", username, delay)
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(out io.Writer, theme, md string) {
	style := glamour.WithAutoStyle()
	switch theme {
	case "light", "dark", "notty", "ascii":
		style = glamour.WithStandardStyle(theme)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err == nil {
		if rendered, rerr := r.Render(md); rerr == nil {
			fmt.Fprint(out, rendered)
			return
		}
	}
	fmt.Fprint(out, md)
}
