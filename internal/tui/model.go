package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"portfolio-terminal/internal/console"
	"portfolio-terminal/internal/theme"
)

const (
	headerRows = 1
	footerRows = 1

	inlineConsoleRows = 8
	defaultWidth      = 80
	defaultHeight     = 24
)

type target int

const (
	targetInline target = iota
	targetModal
)

// Boot messages carry the console generation so a step scheduled for a
// console that has since been torn down is dropped.
type (
	bootStartMsg struct {
		target target
		gen    int
	}
	bootStepMsg struct {
		target target
		gen    int
	}
)

// Model is the per-session bubbletea model: the scrollable portfolio page
// with an inline console, plus an optional modal console.
type Model struct {
	setup   *Setup
	keys    keyMap
	styles  styles
	wrapper theme.TiltWrapper

	width    int
	height   int
	viewport viewport.Model
	input    textinput.Model

	inline     *console.Console
	inlineHost *consoleHost
	modal      *console.Console
	modalHost  *consoleHost
	modalGen   int

	offsets       map[string]int
	consoleTop    int
	consoleHeight int

	quitting bool
}

// NewModel constructs a session model. Boot playback for the inline console
// starts from Init.
func (s *Setup) NewModel(sess Session) Model {
	width, height := sess.Width, sess.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 256

	host := &consoleHost{}
	m := Model{
		setup:   s,
		keys:    defaultKeyMap(),
		styles:  newStyles(sess.Bundle, sess.Renderer),
		wrapper: theme.SelectWrapper(sess.Capabilities, sess.Bundle, sess.Renderer),
		input:   in,
		inline: console.New(console.Options{
			Boot:     s.doc.BootMessages(false),
			Commands: s.commands,
			Host:     host,
		}),
		inlineHost: host,
		viewport:   viewport.New(width, max(height-headerRows-footerRows, 1)),
		offsets:    map[string]int{},
	}
	m.resize(width, height)
	return m
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return bootStartMsg{target: targetInline} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case bootStartMsg:
		c := m.consoleFor(msg.target, msg.gen)
		if c == nil || !c.StartBoot() {
			return m, nil
		}
		return m, m.advance(msg.target, msg.gen)
	case bootStepMsg:
		return m, m.advance(msg.target, msg.gen)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.focused() != nil {
		m.refresh()
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}
	if c := m.focused(); c != nil {
		return m.handleConsoleKey(c, msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Terminal):
		return m, m.openModal()
	case key.Matches(msg, m.keys.Activate):
		m.inline.Activate()
		return m, m.sync()
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	}
	for id, binding := range m.keys.sectionKeys() {
		if key.Matches(msg, binding) {
			m.viewport.SetYOffset(m.offsets[id])
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleConsoleKey routes every key to the focused console. Page navigation
// and scrolling are suppressed while a console holds focus.
func (m Model) handleConsoleKey(c *console.Console, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Cancel):
		c.Cancel()
	case key.Matches(msg, m.keys.Submit):
		c.SetInput(m.input.Value())
		c.Submit()
	case key.Matches(msg, m.keys.Prev):
		c.RecallPrevious()
	case key.Matches(msg, m.keys.Next):
		c.RecallNext()
	default:
		m.input, cmd = m.input.Update(msg)
		c.SetInput(m.input.Value())
	}
	return m, tea.Batch(cmd, m.sync())
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.modal.OutsideInteraction()
		}
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	if m.insideConsole(msg.Y) {
		m.inline.Activate()
	} else {
		m.inline.OutsideInteraction()
	}
	return m, m.sync()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.inline.Dispose()
	if m.modal != nil {
		m.modal.Dispose()
		m.modal = nil
	}
	return m, tea.Quit
}

func (m *Model) openModal() tea.Cmd {
	m.modalGen++
	m.modalHost = &consoleHost{}
	m.modal = console.New(console.Options{
		Boot:     m.setup.doc.BootMessages(true),
		Commands: m.setup.commands,
		Modal:    true,
		Host:     m.modalHost,
	})
	m.modal.Activate()
	gen := m.modalGen
	return tea.Batch(m.sync(), func() tea.Msg { return bootStartMsg{target: targetModal, gen: gen} })
}

func (m *Model) closeModal() {
	m.modal.Dispose()
	m.modal = nil
	m.modalHost = nil
}

func (m *Model) advance(t target, gen int) tea.Cmd {
	c := m.consoleFor(t, gen)
	if c == nil {
		return nil
	}
	more := c.AdvanceBoot()
	m.refresh()
	if !more {
		return nil
	}
	return tea.Tick(m.setup.cadence, func(time.Time) tea.Msg {
		return bootStepMsg{target: t, gen: gen}
	})
}

func (m Model) consoleFor(t target, gen int) *console.Console {
	switch t {
	case targetInline:
		return m.inline
	case targetModal:
		if m.modal != nil && gen == m.modalGen {
			return m.modal
		}
	}
	return nil
}

// focused returns the console that owns the keyboard, if any. An open modal
// always does.
func (m Model) focused() *console.Console {
	if m.modal != nil {
		return m.modal
	}
	if m.inline.Active() {
		return m.inline
	}
	return nil
}

// sync applies pending host requests and mirrors console input into the
// text field.
func (m *Model) sync() tea.Cmd {
	var focusReq bool
	if m.modal != nil {
		focus, closed := m.modalHost.drain()
		if closed {
			m.closeModal()
		}
		focusReq = focus
	}
	if focus, _ := m.inlineHost.drain(); focus && m.modal == nil {
		focusReq = true
	}

	var cmd tea.Cmd
	c := m.focused()
	switch {
	case c == nil:
		m.input.Blur()
		m.input.SetValue("")
	case focusReq || !m.input.Focused():
		cmd = m.input.Focus()
	}
	if c != nil && m.input.Value() != c.Input() {
		m.input.SetValue(c.Input())
		m.input.CursorEnd()
	}
	m.refresh()
	return cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = width
	m.viewport.Height = max(height-headerRows-footerRows, 1)
	m.input.Width = max(width-12, 10)
	m.refresh()
}

func (m *Model) refresh() {
	p := m.renderPage()
	m.offsets = p.offsets
	m.consoleTop, m.consoleHeight = p.consoleTop, p.consoleHeight
	m.viewport.SetContent(p.String())
}

func (m Model) insideConsole(y int) bool {
	if y < headerRows || y >= headerRows+m.viewport.Height {
		return false
	}
	row := y - headerRows + m.viewport.YOffset
	return row >= m.consoleTop && row < m.consoleTop+m.consoleHeight
}

// ModalOpen reports whether the modal console is showing.
func (m Model) ModalOpen() bool { return m.modal != nil }

// InlineActive reports whether the inline console holds focus.
func (m Model) InlineActive() bool { return m.inline.Active() }

// BackToTopVisible reports whether the page is scrolled past the hero.
func (m Model) BackToTopVisible() bool {
	about, ok := m.offsets["about"]
	return ok && about > 0 && m.viewport.YOffset >= about
}
