package router

import (
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/logging"
)

type contextKey string

const sessionMetadataKey contextKey = "session-metadata"

const ptyRequiredMessage = "interactive terminal requires an attached PTY\n"

// Descriptor names one middleware in the chain.
type Descriptor struct {
	Name       string
	Middleware wish.Middleware
}

// Metadata is what the session-metadata middleware records about a
// connection before the app handler runs.
type Metadata struct {
	SessionID string
	User      string
	RemoteIP  string
	Term      string
	Width     int
	Height    int
	StartedAt time.Time
}

// DefaultChain returns the session middleware shared by every SSH app, in
// execution order: connection logging, PTY requirement, session metadata.
func DefaultChain(logger *log.Logger) []Descriptor {
	if logger == nil {
		logger = log.Default()
	}
	return []Descriptor{
		{Name: "session-logging", Middleware: logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel)},
		{Name: "require-pty", Middleware: RequirePTY()},
		{Name: "session-metadata", Middleware: SessionMetadata()},
	}
}

// MiddlewareFromDescriptors converts descriptors listed in execution order
// into the slice wish.WithMiddleware expects, where the last entry runs
// first.
func MiddlewareFromDescriptors(chain []Descriptor) []wish.Middleware {
	out := make([]wish.Middleware, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Middleware == nil {
			continue
		}
		out = append(out, chain[i].Middleware)
	}
	return out
}

// Compose wraps h with the chain so the first descriptor runs outermost.
func Compose(h ssh.Handler, chain []Descriptor) ssh.Handler {
	for _, mw := range MiddlewareFromDescriptors(chain) {
		h = mw(h)
	}
	return h
}

// RequirePTY rejects sessions that did not request a terminal.
func RequirePTY() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			if _, _, ok := s.Pty(); !ok {
				log.Warn("session rejected", "event", "pty_required", "remote_ip", RemoteIP(s))
				_, _ = s.Write([]byte(ptyRequiredMessage))
				_ = s.Exit(1)
				return
			}
			next(s)
		}
	}
}

// SessionMetadata stores Metadata on the session context.
func SessionMetadata() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			pty, _, _ := s.Pty()
			ctx := s.Context()
			ctx.SetValue(sessionMetadataKey, Metadata{
				SessionID: ctx.SessionID(),
				User:      s.User(),
				RemoteIP:  RemoteIP(s),
				Term:      pty.Term,
				Width:     pty.Window.Width,
				Height:    pty.Window.Height,
				StartedAt: time.Now().UTC(),
			})
			next(s)
		}
	}
}

// MetadataFrom returns the metadata recorded for a session, if any.
func MetadataFrom(ctx ssh.Context) (Metadata, bool) {
	if ctx == nil {
		return Metadata{}, false
	}
	md, ok := ctx.Value(sessionMetadataKey).(Metadata)
	return md, ok
}

// RemoteIP extracts the client host from the session's remote address.
func RemoteIP(s ssh.Session) string {
	remote := s.RemoteAddr()
	if remote == nil {
		return "unknown"
	}

	host, _, err := net.SplitHostPort(remote.String())
	if err != nil {
		return remote.String()
	}

	if host == "" {
		return "unknown"
	}
	return host
}
