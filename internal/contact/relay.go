package contact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxRelayResponseBytes = 64 * 1024

// Relay delivers a submission to the third-party form endpoint.
type Relay interface {
	Submit(ctx context.Context, fields Fields) error
}

// HTTPRelay posts form-encoded submissions to a form relay endpoint.
type HTTPRelay struct {
	endpoint string
	client   *http.Client
}

// NewHTTPRelay returns a relay for endpoint. An empty endpoint yields a relay
// that always fails with ErrRelayUnavailable.
func NewHTTPRelay(endpoint string, timeout time.Duration) *HTTPRelay {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRelay{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: timeout},
	}
}

func (r *HTTPRelay) Submit(ctx context.Context, fields Fields) error {
	if r.endpoint == "" {
		return ErrRelayUnavailable
	}

	form := url.Values{}
	if fields.Name != "" {
		form.Set("name", fields.Name)
	}
	form.Set("email", fields.Email)
	form.Set("message", fields.Message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post relay: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxRelayResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}
