package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	robfigcron "github.com/robfig/cron/v3"
)

// Pruner deletes submissions older than the retention window on a cron
// schedule.
type Pruner struct {
	store     Store
	retention time.Duration
	now       func() time.Time
	cron      *robfigcron.Cron
}

func NewPruner(store Store, retention time.Duration) (*Pruner, error) {
	if store == nil {
		return nil, errors.New("pruner requires a store")
	}
	if retention <= 0 {
		return nil, fmt.Errorf("retention must be positive, got %s", retention)
	}
	return &Pruner{store: store, retention: retention, now: time.Now}, nil
}

// PruneOnce removes every submission created before now minus retention.
func (p *Pruner) PruneOnce(ctx context.Context) (int, error) {
	cutoff := p.now().UTC().Add(-p.retention)
	n, err := p.store.PruneBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info("contact submissions pruned", "event", "contact_pruned", "removed", n, "cutoff", cutoff.Format(time.RFC3339))
	}
	return n, nil
}

// Start schedules PruneOnce with a standard cron expression or descriptor
// such as "@daily".
func (p *Pruner) Start(schedule string) error {
	if p.cron != nil {
		return errors.New("pruner already started")
	}
	c := robfigcron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := p.PruneOnce(context.Background()); err != nil {
			log.Warn("contact prune failed", "event", "contact_prune_failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("parse prune schedule %q: %w", schedule, err)
	}
	c.Start()
	p.cron = c
	return nil
}

// Stop halts the schedule and waits for a running prune to finish.
func (p *Pruner) Stop() {
	if p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
	p.cron = nil
}
