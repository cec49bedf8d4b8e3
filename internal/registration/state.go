package registration

// Phase is the submission status of the form.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
	PhaseSuccess
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseSuccess:
		return "success"
	}
	return "unknown"
}

// State is everything the form renders from.
type State struct {
	Fields Fields
	Errors ValidationErrors
	Phase  Phase

	// Banner is the top-level transport error message. Only set in PhaseError.
	Banner string

	// Attempt increments on every dispatched request. Completion events carry
	// the attempt they belong to so late results can be dropped.
	Attempt int
}

// Loading reports whether inputs are disabled waiting on the server.
func (s State) Loading() bool {
	return s.Phase == PhaseLoading
}

// Event is an input to Reduce.
type Event interface {
	event()
}

// FieldChanged is a keystroke in one input.
type FieldChanged struct {
	Field FieldName
	Value string
}

// SubmitRequested is the user pressing "Create account".
type SubmitRequested struct{}

// SubmitSucceeded is a 2xx response for Attempt.
type SubmitSucceeded struct {
	Attempt int
}

// SubmitFailed is a non-2xx response or transport failure for Attempt.
type SubmitFailed struct {
	Attempt int
	Message string
}

// RedirectElapsed fires when the post-success delay for Attempt ends.
type RedirectElapsed struct {
	Attempt int
}

// SwitchRequested is the user choosing "Sign in" instead of registering.
type SwitchRequested struct{}

func (FieldChanged) event()    {}
func (SubmitRequested) event() {}
func (SubmitSucceeded) event() {}
func (SubmitFailed) event()    {}
func (RedirectElapsed) event() {}
func (SwitchRequested) event() {}

// Effect tells the caller what side effect to run after a transition.
type Effect int

const (
	EffectNone Effect = iota
	// EffectSendRequest: POST s.Fields and report back with s.Attempt.
	EffectSendRequest
	// EffectScheduleRedirect: wait the redirect delay, then send RedirectElapsed.
	EffectScheduleRedirect
	// EffectSwitchToLogin: invoke the onSwitchToLogin callback.
	EffectSwitchToLogin
)

func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectSendRequest:
		return "send_request"
	case EffectScheduleRedirect:
		return "schedule_redirect"
	case EffectSwitchToLogin:
		return "switch_to_login"
	}
	return "unknown"
}

// DefaultErrorMessage is shown when a failure carries no usable text.
const DefaultErrorMessage = "Registration failed"

// Reduce applies one event and returns the next state plus the effect the
// caller must perform. It never performs I/O.
func Reduce(s State, ev Event) (State, Effect) {
	switch e := ev.(type) {
	case FieldChanged:
		// Inputs are disabled while loading and hidden on the success screen.
		if s.Phase == PhaseLoading || s.Phase == PhaseSuccess {
			return s, EffectNone
		}
		s.Fields = s.Fields.Set(e.Field, e.Value)
		if s.Errors.Get(e.Field) != "" {
			s.Errors = s.Errors.Clear(e.Field)
		}
		return s, EffectNone

	case SubmitRequested:
		if s.Phase == PhaseLoading || s.Phase == PhaseSuccess {
			return s, EffectNone
		}
		s.Errors = Validate(s.Fields)
		if !s.Errors.Empty() {
			return s, EffectNone
		}
		s.Phase = PhaseLoading
		s.Banner = ""
		s.Attempt++
		return s, EffectSendRequest

	case SubmitSucceeded:
		if s.Phase != PhaseLoading || e.Attempt != s.Attempt {
			return s, EffectNone
		}
		s.Fields = Fields{}
		s.Errors = ValidationErrors{}
		s.Banner = ""
		s.Phase = PhaseSuccess
		return s, EffectScheduleRedirect

	case SubmitFailed:
		if s.Phase != PhaseLoading || e.Attempt != s.Attempt {
			return s, EffectNone
		}
		s.Phase = PhaseError
		s.Banner = e.Message
		if s.Banner == "" {
			s.Banner = DefaultErrorMessage
		}
		return s, EffectNone

	case RedirectElapsed:
		if s.Phase != PhaseSuccess || e.Attempt != s.Attempt {
			return s, EffectNone
		}
		s.Phase = PhaseIdle
		return s, EffectSwitchToLogin

	case SwitchRequested:
		if s.Phase == PhaseLoading {
			return s, EffectNone
		}
		// Leaving the success screen early cancels the pending redirect.
		if s.Phase == PhaseSuccess {
			s.Phase = PhaseIdle
		}
		return s, EffectSwitchToLogin
	}
	return s, EffectNone
}
