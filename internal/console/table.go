package console

import (
	"fmt"
	"sort"
	"strings"
)

// Response is the canned result of a command: either one line of text or an
// ordered sequence of lines.
type Response struct {
	text  string
	lines []string
	multi bool
}

// Text returns a single-line response. An empty string produces no output.
func Text(s string) Response { return Response{text: s} }

// Lines returns a multi-line response; every entry becomes one output line.
func Lines(lines ...string) Response {
	return Response{lines: append([]string(nil), lines...), multi: true}
}

// Output expands the response into scrollback text in order.
func (r Response) Output() []string {
	if r.multi {
		return append([]string(nil), r.lines...)
	}
	if r.text == "" {
		return nil
	}
	return []string{r.text}
}

// Producer yields a command's response. Producers take no input.
type Producer func() Response

// Table maps lowercase command names to producers. It is read-only once a
// console has been built from it.
type Table struct {
	producers map[string]Producer
}

// NewTable builds a command table. Names are lowercased and must be unique.
func NewTable(entries map[string]Producer) (Table, error) {
	producers := make(map[string]Producer, len(entries))
	for name, producer := range entries {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return Table{}, fmt.Errorf("command name must not be empty")
		}
		if producer == nil {
			return Table{}, fmt.Errorf("command %q has no producer", key)
		}
		if _, dup := producers[key]; dup {
			return Table{}, fmt.Errorf("command %q registered twice", key)
		}
		producers[key] = producer
	}
	return Table{producers: producers}, nil
}

// Lookup resolves a normalised command name.
func (t Table) Lookup(name string) (Producer, bool) {
	p, ok := t.producers[name]
	return p, ok
}

// Names lists the registered commands in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t.producers))
	for name := range t.producers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of registered commands.
func (t Table) Len() int { return len(t.producers) }
