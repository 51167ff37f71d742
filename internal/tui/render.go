package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"portfolio-terminal/internal/console"
	"portfolio-terminal/internal/theme"
)

type styles struct {
	header  lipgloss.Style
	body    lipgloss.Style
	heading lipgloss.Style
	prompt  lipgloss.Style
	command lipgloss.Style
	output  lipgloss.Style
	errLine lipgloss.Style
	card    lipgloss.Style
	muted   lipgloss.Style
	pane    lipgloss.Style
	plain   lipgloss.Style
}

func newStyles(b theme.Bundle, r *lipgloss.Renderer) styles {
	plain := lipgloss.NewStyle()
	if r != nil {
		plain = r.NewStyle()
	}
	return styles{
		header:  b.Header.Lipgloss(r),
		body:    b.Body.Lipgloss(r),
		heading: b.Heading.Lipgloss(r),
		prompt:  b.Prompt.Lipgloss(r),
		command: b.Command.Lipgloss(r),
		output:  b.Output.Lipgloss(r),
		errLine: b.Error.Lipgloss(r),
		card:    b.Card.Lipgloss(r),
		muted:   b.Muted.Lipgloss(r),
		pane: plain.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(b.Roles.Border)).
			Padding(0, 1),
		plain: plain,
	}
}

type page struct {
	lines         []string
	offsets       map[string]int
	consoleTop    int
	consoleHeight int
}

func (p *page) mark(id string) { p.offsets[id] = len(p.lines) }

func (p *page) add(block string) {
	p.lines = append(p.lines, strings.Split(block, "\n")...)
}

func (p *page) blank() { p.lines = append(p.lines, "") }

func (p *page) String() string { return strings.Join(p.lines, "\n") }

func (m Model) contentWidth() int {
	return min(max(m.width-2, 20), 100)
}

func (m Model) renderPage() *page {
	doc := m.setup.doc
	width := m.contentWidth()
	body := m.styles.body.Width(width)
	p := &page{offsets: map[string]int{}}

	p.mark("hero")
	p.blank()
	p.add(m.styles.muted.Render(doc.Interpolate(doc.Hero.Greeting)))
	p.add(m.styles.heading.Render(doc.Plain(doc.Hero.Headline)))
	for _, line := range doc.Hero.Subheadline {
		p.add(body.Render(doc.Plain(line)))
	}
	ctas := make([]string, 0, len(doc.Hero.CTA))
	for _, cta := range doc.Hero.CTA {
		ctas = append(ctas, m.styles.prompt.Render("["+cta.Text+"]"))
	}
	if len(ctas) > 0 {
		p.blank()
		p.add(strings.Join(ctas, "  "))
	}
	p.blank()
	pane := m.renderConsolePane(m.inline, inlineConsoleRows, width, "")
	p.consoleTop = len(p.lines)
	p.add(pane)
	p.consoleHeight = len(p.lines) - p.consoleTop
	p.blank()

	p.mark("about")
	p.add(m.heading(doc.About.SectionNumber, doc.About.Title))
	for _, para := range doc.Personal.Bio.Paragraphs {
		p.add(body.Render(doc.Plain(para)))
		p.blank()
	}
	status := doc.Personal.Bio.CurrentStatus
	statusRows := []string{
		"role:     " + doc.Plain(status.Role),
		"company:  " + doc.Plain(status.Company),
		"location: " + doc.Plain(status.Location),
	}
	if len(status.Learning) > 0 {
		statusRows = append(statusRows, "learning: "+strings.Join(status.Learning, ", "))
	}
	if status.CoffeeLevel != "" {
		statusRows = append(statusRows, "coffee:   "+status.CoffeeLevel)
	}
	p.add(m.wrapper.Wrap(m.styles.card.Render(strings.Join(statusRows, "\n"))))
	p.blank()

	p.mark("skills")
	p.add(m.heading(doc.Skills.SectionNumber, doc.Skills.Title))
	for _, cat := range doc.Skills.Categories {
		p.add(m.styles.prompt.Render(cat.Category+": ") + m.styles.body.Render(strings.Join(cat.Items, " · ")))
	}
	p.blank()

	p.mark("projects")
	p.add(m.heading(doc.Projects.SectionNumber, doc.Projects.Title))
	cardWidth := max(width-4, 16)
	for _, proj := range doc.Projects.Items {
		card := []string{
			m.styles.heading.Render(proj.Title) + "  " + m.styles.muted.Render(proj.Type),
			m.styles.card.Width(cardWidth).Render(doc.Plain(proj.Description)),
			m.styles.command.Render(strings.Join(proj.Tech, " · ")),
		}
		if proj.Link != "" {
			card = append(card, m.styles.muted.Render(proj.Link))
		}
		p.add(m.wrapper.Wrap(strings.Join(card, "\n")))
		p.blank()
	}

	p.mark("experience")
	p.add(m.heading(doc.Experience.SectionNumber, doc.Experience.Title))
	for _, job := range doc.Experience.Items {
		p.add(m.styles.prompt.Render(job.Role+" @ "+job.Company) + "  " + m.styles.muted.Render(job.Period))
		for _, item := range job.Description {
			p.add(body.Render("  - " + doc.Plain(item)))
		}
		p.blank()
	}

	p.mark("contact")
	p.add(m.heading(doc.Contact.SectionNumber, doc.Contact.Title))
	if doc.Contact.Subtitle != "" {
		p.add(m.styles.heading.Render(doc.Plain(doc.Contact.Subtitle)))
	}
	p.add(body.Render(doc.Plain(doc.Contact.Description)))
	p.add(m.styles.prompt.Render(doc.Personal.Email))
	p.blank()
	p.add(m.styles.muted.Render(doc.Plain(doc.Footer.Text)))
	return p
}

func (m Model) heading(number, title string) string {
	return m.styles.prompt.Render(number) + " " + m.styles.heading.Render(title)
}

// renderConsolePane draws a console as a bordered window with a fixed number
// of scrollback rows, so the pane keeps its height as lines arrive.
func (m Model) renderConsolePane(c *console.Console, rows, width int, hint string) string {
	doc := m.setup.doc
	inner := max(width-4, 10)
	clip := m.styles.plain.MaxWidth(inner)
	snap := c.Snapshot()

	out := make([]string, 0, rows+2)
	title := "● ● ●  terminal"
	if hint != "" {
		title += "  " + hint
	}
	out = append(out, clip.Render(m.styles.muted.Render(title)))

	lines := snap.Lines
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	for _, line := range lines {
		out = append(out, clip.Render(m.renderLine(doc.Prompt(), line)))
	}
	for i := len(lines); i < rows; i++ {
		out = append(out, "")
	}

	var prompt string
	switch {
	case !snap.Initialized:
		prompt = m.styles.muted.Render("...")
	case snap.Active:
		prompt = m.styles.prompt.Render(doc.Prompt()) + " " + m.input.View()
	default:
		prompt = m.styles.prompt.Render(doc.Prompt()) + " " + m.styles.muted.Render("press i or click to type")
	}
	out = append(out, clip.Render(prompt))

	return m.styles.pane.Width(width - 2).Render(strings.Join(out, "\n"))
}

func (m Model) renderLine(prompt string, line console.Line) string {
	switch line.Kind {
	case console.KindCommand:
		return m.styles.prompt.Render(prompt) + " " + m.styles.command.Render(line.Text)
	case console.KindError:
		return m.styles.errLine.Render(line.Text)
	default:
		return m.styles.output.Render(line.Text)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.modal != nil {
		return m.renderModal()
	}
	return strings.Join([]string{
		m.renderNavbar(),
		m.viewport.View(),
		m.renderStatus(),
	}, "\n")
}

func (m Model) renderNavbar() string {
	doc := m.setup.doc
	sections := m.keys.sectionKeys()
	parts := []string{m.styles.header.Render(" " + doc.Personal.Initials + " ")}
	for _, link := range doc.Navbar.Links {
		id := strings.TrimPrefix(link.Href, "#")
		if b, ok := sections[id]; ok {
			parts = append(parts, m.styles.muted.Render(b.Help().Key)+" "+m.styles.body.Render(link.Name))
			continue
		}
		parts = append(parts, m.styles.body.Render(link.Name))
	}
	return m.styles.plain.MaxWidth(max(m.width, 1)).Render(strings.Join(parts, "  "))
}

func (m Model) renderStatus() string {
	var help string
	if m.inline.Active() {
		help = helpLine(m.keys.Submit, m.keys.Prev, m.keys.Next, m.keys.Cancel)
	} else {
		help = helpLine(m.keys.Activate, m.keys.Terminal, m.keys.About, m.keys.Projects, m.keys.Quit)
	}
	if m.BackToTopVisible() {
		help = "↑ " + m.keys.Top.Help().Key + " top · " + help
	}
	return m.styles.plain.MaxWidth(max(m.width, 1)).Render(m.styles.muted.Render(help))
}

func (m Model) renderModal() string {
	width := min(max(m.width-6, 30), 100)
	rows := max(m.height-6, 4)
	box := m.renderConsolePane(m.modal, rows, width, helpLine(m.keys.Cancel))
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
