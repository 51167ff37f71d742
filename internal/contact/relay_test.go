package contact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRelayPostsForm(t *testing.T) {
	var gotMethod, gotType, gotAccept string
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		_ = r.ParseForm()
		gotForm = map[string]string{
			"name":    r.PostForm.Get("name"),
			"email":   r.PostForm.Get("email"),
			"message": r.PostForm.Get("message"),
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	relay := NewHTTPRelay(srv.URL, time.Second)
	err := relay.Submit(context.Background(), Fields{Name: "Sam", Email: "sam@example.com", Message: "hello there"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/x-www-form-urlencoded", gotType)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, map[string]string{"name": "Sam", "email": "sam@example.com", "message": "hello there"}, gotForm)
}

func TestHTTPRelayNon2xxIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := NewHTTPRelay(srv.URL, time.Second).Submit(context.Background(), Fields{Email: "a@b.co", Message: "x"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
}

func TestHTTPRelayWithoutEndpoint(t *testing.T) {
	err := NewHTTPRelay("  ", time.Second).Submit(context.Background(), Fields{})
	assert.ErrorIs(t, err, ErrRelayUnavailable)
}

func TestMapRelayError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{name: "not configured", err: ErrRelayUnavailable, code: "RELAY_NOT_CONFIGURED"},
		{name: "timeout", err: context.DeadlineExceeded, code: "RELAY_TIMEOUT"},
		{name: "rate limited", err: &StatusError{StatusCode: http.StatusTooManyRequests}, code: "RELAY_RATE_LIMITED"},
		{name: "server error", err: &StatusError{StatusCode: http.StatusBadGateway}, code: "RELAY_UNAVAILABLE"},
		{name: "rejected", err: &StatusError{StatusCode: http.StatusBadRequest}, code: "RELAY_REJECTED"},
		{name: "other", err: errors.New("boom"), code: "RELAY_FAILURE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var friendly *FriendlyError
			require.True(t, errors.As(mapRelayError(tc.err), &friendly))
			assert.Equal(t, tc.code, friendly.Code)
			assert.NotEmpty(t, friendly.Message)
			assert.ErrorIs(t, friendly, tc.err)
		})
	}
	assert.NoError(t, mapRelayError(nil))
}

func TestHTTPRelayUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewHTTPRelay(url, time.Second).Submit(context.Background(), Fields{Email: "a@b.co", Message: "x"})
	require.Error(t, err)
	var friendly *FriendlyError
	require.True(t, errors.As(mapRelayError(err), &friendly))
	assert.Equal(t, "RELAY_UNREACHABLE", friendly.Code)
}
