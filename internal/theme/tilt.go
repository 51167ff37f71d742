package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Capabilities describes the input precision of a client.
type Capabilities struct {
	// Pointer is true when the client reports precise pointer events
	// (mouse tracking in a terminal, fine pointer in a browser).
	Pointer bool
	Profile TermProfile
}

// TiltWrapper decorates a rendered card. It is chosen once per session.
type TiltWrapper interface {
	Wrap(content string) string
	Name() string
}

// Identity leaves cards untouched. Used for touch clients and terminals
// without pointer precision.
type Identity struct{}

func (Identity) Wrap(content string) string { return content }
func (Identity) Name() string               { return "identity" }

// PointerTilt raises a card with a border and an offset shadow.
type PointerTilt struct {
	Border lipgloss.Style
	Shadow lipgloss.Style
}

func (PointerTilt) Name() string { return "pointer-tilt" }

// Wrap draws the bordered card and a one-cell shadow below and to the right.
func (p PointerTilt) Wrap(content string) string {
	card := p.Border.Render(content)
	lines := strings.Split(card, "\n")
	width := lipgloss.Width(card)

	out := make([]string, 0, len(lines)+1)
	for i, line := range lines {
		if i == 0 {
			out = append(out, line+" ")
			continue
		}
		out = append(out, line+p.Shadow.Render("▌"))
	}
	out = append(out, " "+p.Shadow.Render(strings.Repeat("▀", width)))
	return strings.Join(out, "\n")
}

// SelectWrapper picks the card wrapper for a client's capabilities.
func SelectWrapper(caps Capabilities, bundle Bundle, r *lipgloss.Renderer) TiltWrapper {
	if !caps.Pointer || !caps.Profile.IsTTY {
		return Identity{}
	}
	border := bundle.Card.Lipgloss(r).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(bundle.Roles.Border)).
		Padding(0, 1)
	shadow := bundle.Muted.Lipgloss(r)
	return PointerTilt{Border: border, Shadow: shadow}
}
