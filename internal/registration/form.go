package registration

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultRedirectDelay is how long the success screen stays up before the
// form hands off to the login view.
const DefaultRedirectDelay = 2 * time.Second

var (
	// ErrSubmitInvalid is returned by Submit when validation fails. The
	// per-field messages are in State().Errors.
	ErrSubmitInvalid = errors.New("registration: form has invalid fields")

	// ErrBusy is returned when a submit arrives after the account was
	// created but before the redirect.
	ErrBusy = errors.New("registration: form is not accepting submissions")

	// ErrClosed is returned once Close has been called.
	ErrClosed = errors.New("registration: form closed")
)

// RegisterFunc sends one registration request. A nil error means the server
// answered 2xx. The error text is shown to the user verbatim.
type RegisterFunc func(ctx context.Context, f Fields) error

// Form is a goroutine-safe container around Reduce for callers that are not
// an event loop (the one-shot CLI, tests, embedding programs).
type Form struct {
	mu     sync.Mutex
	state  State
	closed bool
	timer  *time.Timer

	register RegisterFunc
	delay    time.Duration
	onSwitch func()
	logger   *zap.Logger

	inflight singleflight.Group
}

// FormOption configures a Form.
type FormOption func(*Form)

// WithRedirectDelay overrides DefaultRedirectDelay.
func WithRedirectDelay(d time.Duration) FormOption {
	return func(f *Form) {
		if d >= 0 {
			f.delay = d
		}
	}
}

// WithOnSwitchToLogin sets the callback invoked after a successful
// registration (once the delay elapses) or on SwitchToLogin.
func WithOnSwitchToLogin(fn func()) FormOption {
	return func(f *Form) {
		f.onSwitch = fn
	}
}

// WithLogger attaches a logger. Field values other than username and email
// are never logged.
func WithLogger(l *zap.Logger) FormOption {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewForm creates an empty form that submits through register.
func NewForm(register RegisterFunc, opts ...FormOption) *Form {
	f := &Form{
		register: register,
		delay:    DefaultRedirectDelay,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns a snapshot of the form.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Set updates one field and clears its validation message.
func (f *Form) Set(name FieldName, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state, _ = Reduce(f.state, FieldChanged{Field: name, Value: value})
}

// Validate runs the validator, stores the result for display and reports
// whether the form is valid.
func (f *Form) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Errors = Validate(f.state.Fields)
	return f.state.Errors.Empty()
}

// Submit validates and, if valid, sends the registration. Concurrent calls
// share a single request and all receive its outcome.
//
// On success the fields are cleared and the switch-to-login callback fires
// after the redirect delay. On failure the fields are kept and the error
// message is stored as the banner.
func (f *Form) Submit(ctx context.Context) error {
	_, err, shared := f.inflight.Do("submit", func() (interface{}, error) {
		return nil, f.submit(ctx)
	})
	if shared {
		f.logger.Debug("joined in-flight registration")
	}
	return err
}

func (f *Form) submit(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	next, effect := Reduce(f.state, SubmitRequested{})
	f.state = next
	if effect != EffectSendRequest {
		invalid := !next.Errors.Empty()
		f.mu.Unlock()
		if invalid {
			f.logger.Debug("registration blocked by validation",
				zap.Int("invalid_fields", len(next.Errors.Invalid())))
			return ErrSubmitInvalid
		}
		return ErrBusy
	}
	attempt, fields := next.Attempt, next.Fields
	f.mu.Unlock()

	f.logger.Info("submitting registration",
		zap.Int("attempt", attempt),
		zap.String("username", fields.Username),
		zap.String("email", fields.Email))

	err := f.register(ctx, fields)

	f.mu.Lock()
	if f.closed {
		// Nobody is looking at this form anymore; drop the result.
		f.mu.Unlock()
		f.logger.Debug("dropping registration result for closed form", zap.Int("attempt", attempt))
		return ErrClosed
	}
	if err != nil {
		f.state, _ = Reduce(f.state, SubmitFailed{Attempt: attempt, Message: err.Error()})
		f.mu.Unlock()
		f.logger.Warn("registration failed", zap.Int("attempt", attempt), zap.Error(err))
		return err
	}
	var schedule bool
	f.state, effect = Reduce(f.state, SubmitSucceeded{Attempt: attempt})
	if effect == EffectScheduleRedirect {
		schedule = true
		f.timer = time.AfterFunc(f.delay, func() { f.redirect(attempt) })
	}
	f.mu.Unlock()

	f.logger.Info("registration succeeded",
		zap.Int("attempt", attempt),
		zap.Bool("redirect_scheduled", schedule),
		zap.Duration("delay", f.delay))
	return nil
}

func (f *Form) redirect(attempt int) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	var effect Effect
	f.state, effect = Reduce(f.state, RedirectElapsed{Attempt: attempt})
	f.timer = nil
	f.mu.Unlock()

	if effect == EffectSwitchToLogin {
		f.switchToLogin()
	}
}

// SwitchToLogin is the manual "already have an account" action. It is
// ignored while a request is in flight.
func (f *Form) SwitchToLogin() bool {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return false
	}
	var effect Effect
	f.state, effect = Reduce(f.state, SwitchRequested{})
	if effect == EffectSwitchToLogin && f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()

	if effect != EffectSwitchToLogin {
		return false
	}
	f.switchToLogin()
	return true
}

func (f *Form) switchToLogin() {
	f.logger.Debug("switching to login")
	if f.onSwitch != nil {
		f.onSwitch()
	}
}

// Close stops any pending redirect. A request already on the wire is not
// cancelled; its result is ignored.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}
