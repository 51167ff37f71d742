package contact

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRelay struct {
	err   error
	calls []Fields
}

func (r *stubRelay) Submit(_ context.Context, fields Fields) error {
	r.calls = append(r.calls, fields)
	return r.err
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestServiceSubmitSuccessRecordsSent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "contact.json"))
	relay := &stubRelay{}
	svc := NewService(relay, WithStore(store), WithClock(fixedClock()))

	receipt, err := svc.Submit(context.Background(), Fields{Name: " Sam ", Email: "sam@example.com", Message: " hi "}, "web")
	require.NoError(t, err)
	assert.Equal(t, SuccessMessage, receipt.Message)
	require.Len(t, relay.calls, 1)
	assert.Equal(t, Fields{Name: "Sam", Email: "sam@example.com", Message: "hi"}, relay.calls[0])

	sub, err := svc.Lookup(context.Background(), receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, sub.Status)
	assert.Equal(t, "web", sub.Origin)
	assert.Empty(t, sub.Failure)
}

func TestServiceSubmitInvalidSkipsRelay(t *testing.T) {
	relay := &stubRelay{}
	svc := NewService(relay)

	_, err := svc.Submit(context.Background(), Fields{Email: "sam@example.com"}, "web")
	require.ErrorIs(t, err, ErrInvalidSubmission)
	assert.Empty(t, relay.calls)
}

func TestServiceSubmitRelayFailureRecordsFailed(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "contact.json"))
	svc := NewService(&stubRelay{err: &StatusError{StatusCode: 503}}, WithStore(store), WithClock(fixedClock()))

	receipt, err := svc.Submit(context.Background(), Fields{Email: "sam@example.com", Message: "hi"}, "ssh")
	var friendly *FriendlyError
	require.True(t, errors.As(err, &friendly))
	assert.Equal(t, "RELAY_UNAVAILABLE", friendly.Code)
	assert.Empty(t, receipt.Message)

	sub, err := store.Get(context.Background(), receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, sub.Status)
	assert.Contains(t, sub.Failure, "503")
}

func TestServiceWithoutRelay(t *testing.T) {
	_, err := NewService(nil).Submit(context.Background(), Fields{Email: "sam@example.com", Message: "hi"}, "web")
	var friendly *FriendlyError
	require.True(t, errors.As(err, &friendly))
	assert.Equal(t, "RELAY_NOT_CONFIGURED", friendly.Code)
}

func TestServiceLookupWithoutStore(t *testing.T) {
	_, err := NewService(&stubRelay{}).Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
