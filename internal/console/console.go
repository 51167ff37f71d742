// Package console implements the line-oriented pseudo-terminal shown on the
// portfolio: a scripted boot playback followed by a small REPL that resolves
// typed text against a fixed command table.
//
// A Console is owned by exactly one host goroutine. It performs no I/O; hosts
// feed it signals and render Snapshot.
package console

import (
	"fmt"
	"strings"
)

// Kind classifies a scrollback line.
type Kind int

const (
	KindCommand Kind = iota
	KindOutput
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindOutput:
		return "output"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Line is one immutable scrollback entry.
type Line struct {
	Kind Kind
	Text string
}

// BootState tracks the one-shot boot playback.
type BootState int

const (
	Booting BootState = iota
	Ready
)

const (
	cmdClear = "clear"
	cmdExit  = "exit"

	exitUnsupported = "Exit command only works in modal mode."
)

// Host receives the requests a console emits. Implementations must not call
// back into the console synchronously.
type Host interface {
	RequestClose()
	RequestFocus()
}

// Options configures a console instance.
type Options struct {
	Boot     []string
	Commands Table
	Modal    bool
	Host     Host
}

// Console is the command console state machine.
type Console struct {
	boot      []string
	bootNext  int
	bootState BootState
	started   bool
	disposed  bool

	commands Table
	modal    bool
	host     Host

	scrollback []Line
	history    []string
	historyIdx int

	active bool
	input  string
}

// New constructs a console in the Booting state. Playback begins with
// StartBoot.
func New(opts Options) *Console {
	return &Console{
		boot:       append([]string(nil), opts.Boot...),
		bootState:  Booting,
		commands:   opts.Commands,
		modal:      opts.Modal,
		host:       opts.Host,
		historyIdx: -1,
	}
}

// Modal reports whether the console runs in modal presentation.
func (c *Console) Modal() bool { return c.modal }

// Active reports whether the console owns keyboard focus.
func (c *Console) Active() bool { return c.active }

// Initialized reports whether boot playback has completed.
func (c *Console) Initialized() bool { return c.bootState == Ready }

// Input returns the uncommitted input buffer.
func (c *Console) Input() string { return c.input }

// HistoryIndex returns the recall cursor, -1 when not recalling.
func (c *Console) HistoryIndex() int { return c.historyIdx }

// Lines returns a copy of the scrollback.
func (c *Console) Lines() []Line {
	return append([]Line(nil), c.scrollback...)
}

// Activate gives the console keyboard focus and asks the host to focus the
// input surface.
func (c *Console) Activate() {
	if c.disposed {
		return
	}
	c.active = true
	if c.host != nil {
		c.host.RequestFocus()
	}
}

// Cancel handles an explicit cancel signal (Escape). Modal consoles ask the
// host to close; inline consoles deactivate.
func (c *Console) Cancel() {
	if c.disposed {
		return
	}
	if c.modal {
		c.requestClose()
		return
	}
	c.deactivate()
}

// OutsideInteraction handles a pointer interaction outside the console's
// bounds. Modal consoles own the screen and ignore it.
func (c *Console) OutsideInteraction() {
	if c.disposed || c.modal {
		return
	}
	c.deactivate()
}

// Close forwards a close request in modal mode.
func (c *Console) Close() {
	if c.disposed || !c.modal {
		return
	}
	c.requestClose()
}

func (c *Console) deactivate() {
	if !c.active {
		return
	}
	c.active = false
	c.input = ""
}

// SetInput replaces the uncommitted input buffer. Ignored until the console
// is ready and active.
func (c *Console) SetInput(text string) {
	if !c.accepting() {
		return
	}
	c.input = text
}

// Submit commits the current input.
func (c *Console) Submit() {
	if !c.accepting() {
		return
	}
	raw := c.input
	if strings.TrimSpace(raw) == "" {
		return
	}
	c.input = ""
	c.historyIdx = -1
	c.execute(raw)
}

func (c *Console) accepting() bool {
	return !c.disposed && c.active && c.bootState == Ready
}

func (c *Console) execute(raw string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return
	}

	c.appendLine(KindCommand, trimmed)
	c.history = append(c.history, raw)

	name := strings.ToLower(trimmed)
	switch name {
	case cmdClear:
		c.scrollback = nil
		return
	case cmdExit:
		if c.modal {
			c.requestClose()
			return
		}
		c.appendLine(KindOutput, exitUnsupported)
		return
	}

	producer, ok := c.commands.Lookup(name)
	if !ok {
		c.appendLine(KindError, fmt.Sprintf("Command not found: %s. Type 'help' for available commands.", name))
		return
	}
	for _, text := range producer().Output() {
		c.appendLine(KindOutput, text)
	}
}

// RecallPrevious loads the next-older history entry into the input buffer.
func (c *Console) RecallPrevious() {
	if !c.accepting() || len(c.history) == 0 {
		return
	}
	if c.historyIdx < len(c.history)-1 {
		c.historyIdx++
	}
	c.input = c.history[len(c.history)-1-c.historyIdx]
}

// RecallNext moves toward the most recent entry, clearing the input once the
// cursor walks past it.
func (c *Console) RecallNext() {
	if !c.accepting() {
		return
	}
	if c.historyIdx > 0 {
		c.historyIdx--
		c.input = c.history[len(c.history)-1-c.historyIdx]
		return
	}
	c.historyIdx = -1
	c.input = ""
}

func (c *Console) appendLine(kind Kind, text string) {
	c.scrollback = append(c.scrollback, Line{Kind: kind, Text: text})
}

func (c *Console) requestClose() {
	if c.host != nil {
		c.host.RequestClose()
	}
}

// Snapshot is a render-ready copy of console state.
type Snapshot struct {
	Lines        []Line
	Input        string
	Active       bool
	Initialized  bool
	Modal        bool
	HistoryLen   int
	HistoryIndex int
}

// Snapshot copies the current state.
func (c *Console) Snapshot() Snapshot {
	return Snapshot{
		Lines:        c.Lines(),
		Input:        c.input,
		Active:       c.active,
		Initialized:  c.bootState == Ready,
		Modal:        c.modal,
		HistoryLen:   len(c.history),
		HistoryIndex: c.historyIdx,
	}
}
