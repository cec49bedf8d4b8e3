package registration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fillForm(f *Form, fields Fields) {
	for _, name := range AllFields {
		f.Set(name, fields.Get(name))
	}
}

func TestForm_InvalidSubmitNeverCallsServer(t *testing.T) {
	var calls int32
	form := NewForm(func(context.Context, Fields) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	defer form.Close()

	form.Set(FieldUsername, "ab")

	err := form.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInvalid)
	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.Equal(t, MsgUsernameTooShort, form.State().Errors.Username)
	assert.Equal(t, PhaseIdle, form.State().Phase)
}

func TestForm_Validate(t *testing.T) {
	form := NewForm(nil)
	defer form.Close()

	assert.False(t, form.Validate())
	assert.Len(t, form.State().Errors.Invalid(), 6)

	fillForm(form, validFields())
	assert.True(t, form.Validate())
}

func TestForm_SuccessClearsFieldsAndSwitchesAfterDelay(t *testing.T) {
	var got Fields
	switched := make(chan struct{})
	form := NewForm(
		func(_ context.Context, f Fields) error {
			got = f
			return nil
		},
		WithRedirectDelay(20*time.Millisecond),
		WithOnSwitchToLogin(func() { close(switched) }),
	)
	defer form.Close()
	fillForm(form, validFields())

	start := time.Now()
	require.NoError(t, form.Submit(context.Background()))
	assert.Equal(t, validFields(), got)

	st := form.State()
	assert.Equal(t, PhaseSuccess, st.Phase)
	assert.Equal(t, Fields{}, st.Fields)

	select {
	case <-switched:
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("switch-to-login callback never fired")
	}
	assert.Equal(t, PhaseIdle, form.State().Phase)
}

func TestForm_FailureKeepsFields(t *testing.T) {
	form := NewForm(func(context.Context, Fields) error {
		return errors.New("Username taken")
	})
	defer form.Close()
	fillForm(form, validFields())

	err := form.Submit(context.Background())
	require.EqualError(t, err, "Username taken")

	st := form.State()
	assert.Equal(t, PhaseError, st.Phase)
	assert.Equal(t, "Username taken", st.Banner)
	assert.Equal(t, validFields(), st.Fields)
}

func TestForm_ConcurrentSubmitsSendOneRequest(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	started := make(chan struct{})
	form := NewForm(func(context.Context, Fields) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return nil
	}, WithRedirectDelay(time.Hour))
	defer form.Close()
	fillForm(form, validFields())

	var wg sync.WaitGroup
	errs := make([]error, 5)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = form.Submit(context.Background())
	}()
	<-started

	for i := 1; i < len(errs); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = form.Submit(context.Background())
		}(i)
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.NoError(t, errs[0])
	for _, err := range errs[1:] {
		// Either joined the in-flight call or arrived after success.
		if err != nil {
			assert.ErrorIs(t, err, ErrBusy)
		}
	}
}

func TestForm_CloseDropsLateResultAndRedirect(t *testing.T) {
	release := make(chan struct{})
	var switched int32
	form := NewForm(func(context.Context, Fields) error {
		<-release
		return nil
	},
		WithRedirectDelay(time.Millisecond),
		WithOnSwitchToLogin(func() { atomic.AddInt32(&switched, 1) }),
	)
	fillForm(form, validFields())

	done := make(chan error, 1)
	go func() { done <- form.Submit(context.Background()) }()

	require.Eventually(t, func() bool { return form.State().Loading() }, time.Second, time.Millisecond)
	form.Close()
	close(release)

	assert.ErrorIs(t, <-done, ErrClosed)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&switched))
	assert.Equal(t, PhaseLoading, form.State().Phase, "late result is not applied")

	assert.ErrorIs(t, form.Submit(context.Background()), ErrClosed)
}

func TestForm_SwitchToLogin(t *testing.T) {
	var switched int32
	form := NewForm(nil, WithOnSwitchToLogin(func() { atomic.AddInt32(&switched, 1) }))
	defer form.Close()

	assert.True(t, form.SwitchToLogin())
	assert.Equal(t, int32(1), atomic.LoadInt32(&switched))
}

func TestForm_ManualSwitchDuringSuccessStopsTimer(t *testing.T) {
	var switched int32
	form := NewForm(
		func(context.Context, Fields) error { return nil },
		WithRedirectDelay(30*time.Millisecond),
		WithOnSwitchToLogin(func() { atomic.AddInt32(&switched, 1) }),
	)
	defer form.Close()
	fillForm(form, validFields())
	require.NoError(t, form.Submit(context.Background()))

	assert.True(t, form.SwitchToLogin())
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&switched))
}
