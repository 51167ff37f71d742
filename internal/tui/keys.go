package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	About      key.Binding
	Skills     key.Binding
	Projects   key.Binding
	Experience key.Binding
	Contact    key.Binding
	Top        key.Binding
	Terminal   key.Binding
	Activate   key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding

	Submit key.Binding
	Cancel key.Binding
	Prev   key.Binding
	Next   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		About:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "about")),
		Skills:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skills")),
		Projects:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "projects")),
		Experience: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "experience")),
		Contact:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "contact")),
		Top:        key.NewBinding(key.WithKeys("h", "home"), key.WithHelp("h", "top")),
		Terminal:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "terminal")),
		Activate:   key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i", "type")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),

		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave")),
		Prev:   key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
		Next:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
	}
}

// sectionKeys maps navbar anchors to their jump binding.
func (k keyMap) sectionKeys() map[string]key.Binding {
	return map[string]key.Binding{
		"about":      k.About,
		"skills":     k.Skills,
		"projects":   k.Projects,
		"experience": k.Experience,
		"contact":    k.Contact,
	}
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		h := b.Help()
		if i > 0 {
			out += " · "
		}
		out += h.Key + " " + h.Desc
	}
	return out
}
