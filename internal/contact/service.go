package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// SuccessMessage is shown after the relay accepts a submission.
const SuccessMessage = "> Message transmission successful."

// Receipt describes an accepted submission.
type Receipt struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Service validates, records and relays contact submissions.
type Service struct {
	relay Relay
	store Store
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

// WithStore records every submission. Without one, submissions are only
// relayed.
func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(relay Relay, opts ...Option) *Service {
	s := &Service{
		relay: relay,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates fields and forwards them to the relay. Validation errors
// wrap ErrInvalidSubmission; relay failures are returned as *FriendlyError.
func (s *Service) Submit(ctx context.Context, fields Fields, origin string) (Receipt, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return Receipt{}, err
	}

	now := s.now().UTC()
	sub := Submission{
		ID:        s.newID(),
		Name:      fields.Name,
		Email:     fields.Email,
		Message:   fields.Message,
		Status:    StatusPending,
		Origin:    origin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.store != nil {
		if err := s.store.Create(ctx, sub); err != nil {
			// Delivery matters more than the local record.
			log.Warn("contact record failed", "event", "contact_store_failed", "id", sub.ID, "err", err)
		}
	}

	var relayErr error
	if s.relay == nil {
		relayErr = ErrRelayUnavailable
	} else {
		relayErr = s.relay.Submit(ctx, fields)
	}

	status, failure := StatusSent, ""
	if relayErr != nil {
		status, failure = StatusFailed, relayErr.Error()
	}
	s.record(ctx, sub.ID, status, failure)

	if relayErr != nil {
		mapped := mapRelayError(relayErr)
		var friendly *FriendlyError
		code := ""
		if errors.As(mapped, &friendly) {
			code = friendly.Code
		}
		log.Warn("contact relay failed", "event", "contact_relay_failed", "id", sub.ID, "origin", origin, "code", code, "err", relayErr)
		return Receipt{ID: sub.ID}, mapped
	}

	log.Info("contact submitted", "event", "contact_sent", "id", sub.ID, "origin", origin)
	return Receipt{ID: sub.ID, Message: SuccessMessage}, nil
}

// Lookup returns a recorded submission.
func (s *Service) Lookup(ctx context.Context, id string) (Submission, error) {
	if s.store == nil {
		return Submission{}, fmt.Errorf("lookup %s: %w", id, ErrNotFound)
	}
	return s.store.Get(ctx, id)
}

func (s *Service) record(ctx context.Context, id string, status Status, failure string) {
	if s.store == nil {
		return
	}
	// The request context may already be cancelled after a relay timeout.
	ctx = context.WithoutCancel(ctx)
	if err := s.store.UpdateStatus(ctx, id, status, failure, s.now()); err != nil {
		log.Warn("contact status update failed", "event", "contact_store_failed", "id", id, "status", status, "err", err)
	}
}
