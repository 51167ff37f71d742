package content

import (
	"strings"
	"time"

	"portfolio-terminal/internal/console"
)

const dateLayout = "1/2/2006, 3:04:05 PM"

// Commands builds the console command table from the document. Every entry
// under terminal.commands becomes a command; "date" is added unless the
// document defines its own. now may be nil.
func Commands(d *Document, now func() time.Time) (console.Table, error) {
	if now == nil {
		now = time.Now
	}

	entries := make(map[string]console.Producer, len(d.Terminal.Commands)+1)
	for name, value := range d.Terminal.Commands {
		entries[name] = d.producer(value)
	}
	if _, ok := lookupFold(d.Terminal.Commands, "date"); !ok {
		entries["date"] = func() console.Response {
			return console.Text(now().Format(dateLayout))
		}
	}
	return console.NewTable(entries)
}

func (d *Document) producer(value CommandValue) console.Producer {
	if !value.Multi {
		text := d.Plain(value.Text)
		return func() console.Response { return console.Text(text) }
	}
	lines := make([]string, len(value.Lines))
	for i, line := range value.Lines {
		lines[i] = d.Plain(line)
	}
	return func() console.Response { return console.Lines(lines...) }
}

func lookupFold(m map[string]CommandValue, name string) (CommandValue, bool) {
	for k, v := range m {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return v, true
		}
	}
	return CommandValue{}, false
}
