package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"portfolio-terminal/internal/console"
	"portfolio-terminal/internal/content"
	"portfolio-terminal/internal/theme"
)

func newTestModel(t *testing.T, width, height int) Model {
	t.Helper()
	doc, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default() error: %v", err)
	}
	fixed := time.Date(2024, 3, 9, 14, 5, 6, 0, time.Local)
	setup, err := NewSetup(doc, 10*time.Millisecond, func() time.Time { return fixed })
	if err != nil {
		t.Fatalf("NewSetup() error: %v", err)
	}
	bundle, err := theme.Resolve(theme.VariantMono, "xterm-256color")
	if err != nil {
		t.Fatalf("theme.Resolve() error: %v", err)
	}
	return setup.NewModel(Session{
		Width:        width,
		Height:       height,
		Bundle:       bundle,
		Capabilities: theme.Capabilities{Pointer: true, Profile: theme.DetectTermProfile("xterm-256color")},
	})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out, cmd
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEscape}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = update(t, m, msg)
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = press(t, m, string(r))
	}
	return m
}

// boot drives playback to completion the way tea.Tick would.
func boot(t *testing.T, m Model, tgt target, gen int) Model {
	t.Helper()
	m, _ = update(t, m, bootStartMsg{target: tgt, gen: gen})
	for i := 0; i < 64; i++ {
		c := m.consoleFor(tgt, gen)
		if c == nil || c.Initialized() {
			return m
		}
		m, _ = update(t, m, bootStepMsg{target: tgt, gen: gen})
	}
	t.Fatal("boot did not complete")
	return m
}

func lineTexts(lines []console.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func TestInitStartsInlineBoot(t *testing.T) {
	m := newTestModel(t, 100, 40)
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init() returned nil cmd")
	}
	msg, ok := cmd().(bootStartMsg)
	if !ok || msg.target != targetInline {
		t.Fatalf("Init() msg = %#v, want inline bootStartMsg", msg)
	}

	m, next := update(t, m, msg)
	if next == nil {
		t.Fatal("expected a scheduled boot step")
	}
	if got := lineTexts(m.inline.Lines()); len(got) != 1 || got[0] != "Welcome to my interactive terminal!" {
		t.Fatalf("first boot line not revealed immediately: %q", got)
	}

	m = boot(t, m, targetInline, 0)
	want := m.setup.doc.BootMessages(false)
	if got := lineTexts(m.inline.Lines()); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("boot lines = %q, want %q", got, want)
	}
	if !m.inline.Initialized() {
		t.Fatal("inline console should be ready")
	}
}

func TestActivateAndSubmitInline(t *testing.T) {
	m := boot(t, newTestModel(t, 100, 40), targetInline, 0)

	m = press(t, m, "i")
	if !m.InlineActive() {
		t.Fatal("i should activate the inline console")
	}
	m = typeText(t, m, "whoami")
	if m.inline.Input() != "whoami" {
		t.Fatalf("console input = %q", m.inline.Input())
	}
	m = press(t, m, "enter")

	lines := m.inline.Lines()
	tail := lines[len(lines)-2:]
	if tail[0] != (console.Line{Kind: console.KindCommand, Text: "whoami"}) || tail[1] != (console.Line{Kind: console.KindOutput, Text: "guest"}) {
		t.Fatalf("unexpected tail %#v", tail)
	}
	if m.input.Value() != "" {
		t.Fatalf("text field not cleared: %q", m.input.Value())
	}
}

func TestKeysIgnoredWhileBooting(t *testing.T) {
	m := newTestModel(t, 100, 40)
	m, _ = update(t, m, bootStartMsg{target: targetInline})

	m = press(t, m, "i")
	m = typeText(t, m, "help")
	m = press(t, m, "enter")

	if m.inline.Input() != "" {
		t.Fatalf("input accepted before ready: %q", m.inline.Input())
	}
	for _, l := range m.inline.Lines() {
		if l.Kind == console.KindCommand {
			t.Fatalf("command executed before ready: %#v", l)
		}
	}
}

func TestRecallKeysDoNotScrollPage(t *testing.T) {
	m := boot(t, newTestModel(t, 100, 20), targetInline, 0)
	m = press(t, m, "i")
	m = typeText(t, m, "about")
	m = press(t, m, "enter")

	m.viewport.SetYOffset(3)
	before := m.viewport.YOffset
	m = press(t, m, "up")
	if m.input.Value() != "about" {
		t.Fatalf("recall did not load history: %q", m.input.Value())
	}
	if m.viewport.YOffset != before {
		t.Fatalf("viewport scrolled from %d to %d", before, m.viewport.YOffset)
	}
	m = press(t, m, "down")
	if m.input.Value() != "" || m.inline.HistoryIndex() != -1 {
		t.Fatalf("recall next should clear: input=%q index=%d", m.input.Value(), m.inline.HistoryIndex())
	}
}

func TestNavigationKeys(t *testing.T) {
	m := boot(t, newTestModel(t, 100, 20), targetInline, 0)

	m = press(t, m, "p")
	if m.viewport.YOffset == 0 {
		t.Fatal("p should jump to projects")
	}
	if !m.BackToTopVisible() {
		t.Fatal("back-to-top indicator should show past the hero")
	}
	if !strings.Contains(m.View(), "↑ h top") {
		t.Fatal("status line should render the back-to-top hint")
	}
	m = press(t, m, "h")
	if m.viewport.YOffset != 0 || m.BackToTopVisible() {
		t.Fatalf("h should return to top, offset=%d", m.viewport.YOffset)
	}
}

func TestNavigationSuppressedWhileConsoleActive(t *testing.T) {
	m := boot(t, newTestModel(t, 100, 20), targetInline, 0)
	m = press(t, m, "i", "p", "q")

	if m.viewport.YOffset != 0 {
		t.Fatalf("page moved while console active: %d", m.viewport.YOffset)
	}
	if m.quitting {
		t.Fatal("q should be typed into the console, not quit")
	}
	if m.inline.Input() != "pq" {
		t.Fatalf("console input = %q, want pq", m.inline.Input())
	}

	m = press(t, m, "esc")
	if m.InlineActive() {
		t.Fatal("esc should deactivate the inline console")
	}
	if m.inline.Input() != "" {
		t.Fatalf("deactivate should clear input, got %q", m.inline.Input())
	}
}

func TestModalExitCloses(t *testing.T) {
	m := boot(t, newTestModel(t, 100, 40), targetInline, 0)
	m = press(t, m, "t")
	if !m.ModalOpen() || !m.modal.Modal() || !m.modal.Active() {
		t.Fatal("t should open an active modal console")
	}
	m = boot(t, m, targetModal, m.modalGen)
	if got := lineTexts(m.modal.Lines()); strings.Join(got, "|") != strings.Join(m.setup.doc.BootMessages(true), "|") {
		t.Fatalf("modal boot lines = %q", got)
	}
	if !strings.Contains(m.View(), "Terminal session opened.") {
		t.Fatal("modal view should render its scrollback")
	}

	m = typeText(t, m, "exit")
	m = press(t, m, "enter")
	if m.ModalOpen() {
		t.Fatal("exit should close the modal")
	}
	if m.InlineActive() {
		t.Fatal("inline console should stay inactive")
	}
}

func TestModalEscapeClosesAndDropsStaleTicks(t *testing.T) {
	m := boot(t, newTestModel(t, 100, 40), targetInline, 0)
	m = press(t, m, "t")
	staleGen := m.modalGen
	m = press(t, m, "esc")
	if m.ModalOpen() {
		t.Fatal("esc should close the modal")
	}

	m = press(t, m, "t")
	m, _ = update(t, m, bootStartMsg{target: targetModal, gen: m.modalGen})
	count := len(m.modal.Lines())

	m, cmd := update(t, m, bootStepMsg{target: targetModal, gen: staleGen})
	if cmd != nil {
		t.Fatal("stale tick should not schedule another step")
	}
	if len(m.modal.Lines()) != count {
		t.Fatalf("stale tick appended to the new modal: %d -> %d", count, len(m.modal.Lines()))
	}
}

func TestModalIgnoresOutsideClicks(t *testing.T) {
	m := boot(t, newTestModel(t, 100, 40), targetInline, 0)
	m = press(t, m, "t")
	m, _ = update(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.ModalOpen() || !m.modal.Active() {
		t.Fatal("modal should ignore outside interaction")
	}
}

func TestMouseActivatesAndDeactivatesInline(t *testing.T) {
	m := boot(t, newTestModel(t, 100, 40), targetInline, 0)

	inside := headerRows + m.consoleTop + 1 - m.viewport.YOffset
	m, _ = update(t, m, tea.MouseMsg{X: 4, Y: inside, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.InlineActive() {
		t.Fatalf("click at row %d should activate (pane %d+%d)", inside, m.consoleTop, m.consoleHeight)
	}

	outside := headerRows + m.consoleTop + m.consoleHeight + 1 - m.viewport.YOffset
	m, _ = update(t, m, tea.MouseMsg{X: 4, Y: outside, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.InlineActive() {
		t.Fatalf("click at row %d should deactivate", outside)
	}
}

func TestViewRendersSections(t *testing.T) {
	m := boot(t, newTestModel(t, 120, 200), targetInline, 0)
	view := m.View()
	for _, want := range []string{"Alex Rivera", "About Me", "Projects", "ssh-folio", "Get In Touch", "alex@example.dev", "press i or click to type"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
	if strings.Contains(view, "<strong>") {
		t.Fatal("markup should be stripped")
	}
	for _, id := range []string{"hero", "about", "skills", "projects", "experience", "contact"} {
		if _, ok := m.offsets[id]; !ok {
			t.Fatalf("missing offset for %s", id)
		}
	}
}

func TestCtrlCQuitsFromAnyState(t *testing.T) {
	m := boot(t, newTestModel(t, 100, 40), targetInline, 0)
	m = press(t, m, "i")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ctrl+c should quit")
	}
	if !m.inline.Disposed() || m.View() != "" {
		t.Fatal("quit should dispose the console and blank the view")
	}
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(t, 80, 24)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})
	if m.viewport.Width != 120 || m.viewport.Height != 50-headerRows-footerRows {
		t.Fatalf("viewport = %dx%d", m.viewport.Width, m.viewport.Height)
	}
}
