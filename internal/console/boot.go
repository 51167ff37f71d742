package console

import (
	"context"
	"time"
)

// DefaultCadence is the reveal interval between boot lines.
const DefaultCadence = 500 * time.Millisecond

// BootState returns the playback state.
func (c *Console) BootState() BootState { return c.bootState }

// StartBoot begins playback. Only the first call on an instance has any
// effect; it reports whether this call started the sequence.
func (c *Console) StartBoot() bool {
	if c.started || c.disposed {
		return false
	}
	c.started = true
	return true
}

// AdvanceBoot performs one playback step: it reveals the next boot line, or
// once every line has had its slot, marks the console ready. It reports
// whether another step is pending. Hosts call it once immediately after
// StartBoot and then once per cadence.
func (c *Console) AdvanceBoot() bool {
	if !c.started || c.disposed || c.bootState == Ready {
		return false
	}
	if c.bootNext < len(c.boot) {
		c.appendLine(KindOutput, c.boot[c.bootNext])
		c.bootNext++
		return true
	}
	c.bootState = Ready
	return false
}

// Dispose tears the console down. Pending boot steps become no-ops and no
// further lines are appended.
func (c *Console) Dispose() {
	c.disposed = true
	c.active = false
}

// Disposed reports whether Dispose has been called.
func (c *Console) Disposed() bool { return c.disposed }

// Player drives boot playback from a wall-clock ticker for hosts without an
// event loop of their own. Construct one per process and share it.
type Player struct {
	cadence time.Duration
}

// NewPlayer returns a player revealing one line per cadence. Non-positive
// cadences fall back to DefaultCadence.
func NewPlayer(cadence time.Duration) *Player {
	if cadence <= 0 {
		cadence = DefaultCadence
	}
	return &Player{cadence: cadence}
}

// Cadence returns the reveal interval.
func (p *Player) Cadence() time.Duration { return p.cadence }

// Steps returns a channel that yields one value per cadence until ctx is
// done. The owner of the console calls AdvanceBoot for each receive, which
// keeps every mutation on the owner goroutine.
func (p *Player) Steps(ctx context.Context) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		defer close(out)
		ticker := time.NewTicker(p.cadence)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- struct{}{}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Play runs the whole playback synchronously, blocking between steps. It
// returns ctx.Err() when cancelled mid-sequence and disposes of nothing; the
// caller owns teardown. The onStep callback runs after each step.
func (p *Player) Play(ctx context.Context, c *Console, onStep func()) error {
	if !c.StartBoot() {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !c.AdvanceBoot() {
		notify(onStep)
		return nil
	}
	notify(onStep)
	for range p.Steps(ctx) {
		more := c.AdvanceBoot()
		notify(onStep)
		if !more {
			return nil
		}
	}
	return ctx.Err()
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
