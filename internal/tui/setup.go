package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"portfolio-terminal/internal/console"
	"portfolio-terminal/internal/content"
	"portfolio-terminal/internal/theme"
)

// Setup is the one-time, per-process state shared by every session model:
// the content document, its command table and the boot cadence. Hosts build
// it before the first console exists.
type Setup struct {
	doc      *content.Document
	commands console.Table
	cadence  time.Duration
}

// NewSetup builds the command table once. A nil clock uses time.Now and a
// non-positive cadence uses console.DefaultCadence.
func NewSetup(doc *content.Document, cadence time.Duration, now func() time.Time) (*Setup, error) {
	if doc == nil {
		return nil, errors.New("tui: nil document")
	}
	if now == nil {
		now = time.Now
	}
	commands, err := content.Commands(doc, now)
	if err != nil {
		return nil, fmt.Errorf("build command table: %w", err)
	}
	if cadence <= 0 {
		cadence = console.DefaultCadence
	}
	return &Setup{doc: doc, commands: commands, cadence: cadence}, nil
}

func (s *Setup) Document() *content.Document { return s.doc }
func (s *Setup) Commands() console.Table     { return s.commands }
func (s *Setup) Cadence() time.Duration      { return s.cadence }

// Session carries what a host knows about one client.
type Session struct {
	Width        int
	Height       int
	Bundle       theme.Bundle
	Renderer     *lipgloss.Renderer
	Capabilities theme.Capabilities
}

// consoleHost records console requests so the model can act on them after
// the console call returns.
type consoleHost struct {
	focus  bool
	closed bool
}

func (h *consoleHost) RequestFocus() { h.focus = true }
func (h *consoleHost) RequestClose() { h.closed = true }

func (h *consoleHost) drain() (focus, closed bool) {
	focus, closed = h.focus, h.closed
	h.focus, h.closed = false, false
	return focus, closed
}
