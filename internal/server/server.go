package server

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	bm "github.com/charmbracelet/wish/bubbletea"

	"portfolio-terminal/internal/config"
	"portfolio-terminal/internal/router"
	"portfolio-terminal/internal/theme"
	"portfolio-terminal/internal/tui"
)

const (
	version         = "dev"
	shutdownTimeout = 10 * time.Second
)

// Runtime wires config + middleware + Wish server as a testable unit.
type Runtime struct {
	cfg           config.Config
	middlewareIDs []string
	server        *ssh.Server
}

// Chain returns the full SSH middleware chain in execution order.
func Chain(cfg config.Config, app bm.Handler, logger *log.Logger) []router.Descriptor {
	chain := []router.Descriptor{
		{Name: "rate-limit", Middleware: RateLimitMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst)},
		{Name: "max-sessions", Middleware: MaxSessionsMiddleware(cfg.MaxSessions)},
	}
	chain = append(chain, router.DefaultChain(logger)...)
	return append(chain, router.Descriptor{Name: "bubbletea", Middleware: bm.Middleware(app)})
}

func New(cfg config.Config, app bm.Handler) (*Runtime, error) {
	chain := Chain(cfg, app, log.Default())

	wishServer, err := wish.NewServer(
		wish.WithAddress(cfg.Address()),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(router.MiddlewareFromDescriptors(chain)...),
	)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(chain))
	for _, descriptor := range chain {
		ids = append(ids, descriptor.Name)
	}

	return &Runtime{cfg: cfg, middlewareIDs: ids, server: wishServer}, nil
}

func (r *Runtime) MiddlewareIDs() []string {
	out := make([]string, len(r.middlewareIDs))
	copy(out, r.middlewareIDs)
	return out
}

func (r *Runtime) Address() string {
	return r.server.Addr
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (r *Runtime) Run(ctx context.Context) error {
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := r.server.Shutdown(shutdownCtx); err != nil {
			log.Warn("ssh shutdown incomplete", "event", "shutdown", "err", err)
		}
	}()

	log.Info("ssh server starting",
		"event", "startup",
		"version", version,
		"addr", r.server.Addr,
		"middleware", r.middlewareIDs,
		"host_key_path", r.cfg.HostKeyPath,
		"idle_timeout", r.cfg.IdleTimeout,
		"max_sessions", r.cfg.MaxSessions,
	)
	err := r.server.ListenAndServe()
	if errors.Is(err, ssh.ErrServerClosed) || err == nil {
		return nil
	}

	return err
}

// ThemeOptions selects the palette for SSH sessions.
type ThemeOptions struct {
	Variant    theme.Variant
	ForceColor bool
	ForceMono  bool
	Debug      bool
}

// TeaHandler serves the portfolio model for each interactive session.
func TeaHandler(setup *tui.Setup, opts ThemeOptions) bm.Handler {
	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		return sessionModel(sess, setup, opts, bm.MakeRenderer(sess)), []tea.ProgramOption{
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		}
	}
}

func sessionModel(sess ssh.Session, setup *tui.Setup, opts ThemeOptions, renderer *lipgloss.Renderer) tui.Model {
	pty, _, _ := sess.Pty()
	session := ResolveSession(pty.Term, pty.Window.Width, pty.Window.Height, opts, renderer)

	if md, ok := router.MetadataFrom(sess.Context()); ok {
		log.Info("session started",
			"event", "session_start",
			"session_id", md.SessionID,
			"remote_ip", md.RemoteIP,
			"term", md.Term,
			"colors", session.Capabilities.Profile.Colors,
		)
	}

	return setup.NewModel(session)
}

// ResolveSession picks the palette for a terminal, falling back to the mono
// variant when the configured one cannot be resolved.
func ResolveSession(term string, width, height int, opts ThemeOptions, renderer *lipgloss.Renderer) tui.Session {
	bundle, profile, err := theme.ResolveWithOptions(opts.Variant, theme.ResolveOptions{
		Term:       term,
		ForceColor: opts.ForceColor,
		ForceMono:  opts.ForceMono,
		Debug:      opts.Debug,
	})
	if err != nil {
		log.Warn("theme fallback", "event", "theme_resolve_failed", "variant", opts.Variant, "err", err)
		bundle, profile, _ = theme.ResolveWithOptions(theme.VariantMono, theme.ResolveOptions{Term: term})
	}

	return tui.Session{
		Width:    width,
		Height:   height,
		Bundle:   bundle,
		Renderer: renderer,
		// Mouse cell motion is always requested, so any real terminal
		// reports pointer presses.
		Capabilities: theme.Capabilities{Pointer: profile.IsTTY, Profile: profile},
	}
}
