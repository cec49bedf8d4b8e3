package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"fantasysala/internal/registration"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sampleFields() registration.Fields {
	return registration.Fields{
		Username:  "ricardinho",
		Email:     "r@futsal.es",
		Password:  "pivot123",
		Password2: "pivot123",
		FirstName: "Ricardo",
		LastName:  "Filipe",
	}
}

// newServer returns a test server and a client wired to it.
func newServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, WithHTTPClient(srv.Client()))
}

func TestRegister_SendsOnePostWithAllFields(t *testing.T) {
	var hits int32
	var got registration.Fields
	var header http.Header
	_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, RegisterPath, r.URL.Path)
		header = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 7, "username": "ricardinho"}`))
	})

	resp, err := client.Register(context.Background(), sampleFields())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	if diff := cmp.Diff(sampleFields(), got); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.NotEmpty(t, header.Get("X-Request-ID"))
	assert.Equal(t, resp.RequestID, header.Get("X-Request-ID"))
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.JSONEq(t, `{"id": 7, "username": "ricardinho"}`, string(resp.Payload))
}

func TestRegister_Accepts200(t *testing.T) {
	_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	resp, err := client.Register(context.Background(), sampleFields())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestRegister_ErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", http.StatusBadRequest, `{"error":"Username taken"}`, "Username taken"},
		{"json without error field", http.StatusBadRequest, `{"username":["already exists"]}`, `{"username":["already exists"]}`},
		{"error field not a string", http.StatusBadRequest, `{"error":{"code":1}}`, `{"error":{"code":1}}`},
		{"blank error field", http.StatusConflict, `{"error":""}`, `{"error":""}`},
		{"plain text", http.StatusInternalServerError, "Internal Server Error", "Internal Server Error"},
		{"malformed json", http.StatusBadRequest, `{"error":`, `{"error":`},
		{"empty body", http.StatusBadGateway, "", FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := client.Register(context.Background(), sampleFields())
			assert.Nil(t, resp)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr), "want *Error, got %T", err)
			assert.Equal(t, KindStatus, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, tt.body, apiErr.Body)
		})
	}
}

func TestRegister_SuccessWithInvalidJSON(t *testing.T) {
	_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	})

	_, err := client.Register(context.Background(), sampleFields())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindDecode, apiErr.Kind)
	assert.Equal(t, "created", apiErr.Body)
}

func TestRegister_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url)
	_, err := client.Register(context.Background(), sampleFields())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindTransport, apiErr.Kind)
	assert.Zero(t, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestRegister_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Register(ctx, sampleFields())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindTransport, apiErr.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRegisterFunc_DrivesForm(t *testing.T) {
	_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Username taken"}`))
	})

	form := registration.NewForm(client.RegisterFunc())
	defer form.Close()
	f := sampleFields()
	for _, name := range registration.AllFields {
		form.Set(name, f.Get(name))
	}

	err := form.Submit(context.Background())
	require.Error(t, err)

	st := form.State()
	assert.Equal(t, registration.PhaseError, st.Phase)
	assert.Equal(t, "Username taken", st.Banner)
	assert.Equal(t, sampleFields(), st.Fields)
}

func TestNewClient_Endpoint(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8000/api/auth/register/", NewClient("").Endpoint())
	assert.Equal(t, "https://api.example.com/api/auth/register/", NewClient("https://api.example.com/").Endpoint())
}
