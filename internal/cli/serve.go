package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"portfolio-terminal/internal/config"
	"portfolio-terminal/internal/contact"
	"portfolio-terminal/internal/server"
	"portfolio-terminal/internal/web"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio over SSH and HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	setup, err := buildSetup(cfg)
	if err != nil {
		return err
	}
	opts, err := themeOptions(cfg)
	if err != nil {
		return err
	}

	sshRuntime, err := server.New(cfg, server.TeaHandler(setup, opts))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sshRuntime.Run(gctx) })

	if cfg.HTTPEnabled {
		svc, cleanup, err := contactService(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		httpServer, err := web.New(setup, svc)
		if err != nil {
			return err
		}
		g.Go(func() error { return httpServer.Run(gctx, cfg.HTTPAddr) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete", "event", "shutdown")
	return nil
}

// contactService wires the relay, the submission store and its pruner. The
// returned cleanup stops the pruner and closes the store.
func contactService(cfg config.Config) (*contact.Service, func(), error) {
	relay := contact.NewHTTPRelay(cfg.ContactRelayURL, cfg.ContactRelayTimeout)
	if cfg.ContactRelayURL == "" {
		log.Warn("contact relay not configured", "event", "contact_relay_disabled")
	}

	store, err := contact.OpenStore(cfg.ContactStore, cfg.ContactStorePath)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return contact.NewService(relay), func() {}, nil
	}

	pruner, err := contact.NewPruner(store, cfg.ContactRetention)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	if err := pruner.Start(cfg.ContactPruneSchedule); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	cleanup := func() {
		pruner.Stop()
		if err := store.Close(); err != nil {
			log.Warn("contact store close failed", "event", "shutdown", "err", err)
		}
	}
	return contact.NewService(relay, contact.WithStore(store)), cleanup, nil
}
