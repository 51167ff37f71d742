package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

// ErrInvalidDocument marks content that parsed but cannot be served.
var ErrInvalidDocument = errors.New("invalid portfolio document")

var (
	placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)
	markupReplacer     = strings.NewReplacer("<strong>", "", "</strong>", "", "<em>", "", "</em>", "")
)

// Default returns the document compiled into the binary.
func Default() (*Document, error) {
	return Parse(defaultDocument)
}

// Load reads a document from path, or the embedded default when path is
// empty. JSON content files are accepted as-is.
func Load(path string) (*Document, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates a document. Unknown keys are rejected so typos
// in the content file surface at startup.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document is empty", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the fields every surface depends on.
func (d *Document) Validate() error {
	var problems []string
	if strings.TrimSpace(d.Personal.Name) == "" {
		problems = append(problems, "personal.name is required")
	}
	if len(d.Hero.Terminal.InitialMessages) == 0 {
		problems = append(problems, "hero.terminal.initialMessages must not be empty")
	}
	seen := make(map[string]string, len(d.Terminal.Commands))
	for name := range d.Terminal.Commands {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			problems = append(problems, "terminal.commands contains an empty name")
			continue
		}
		if prev, dup := seen[key]; dup {
			problems = append(problems, fmt.Sprintf("terminal.commands %q and %q collide", prev, name))
			continue
		}
		seen[key] = name
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(problems, "; "))
	}
	return nil
}

// Interpolate replaces {key} placeholders with personal fields.
func (d *Document) Interpolate(s string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := match[1 : len(match)-1]
		return d.Personal.Field(key)
	})
}

// Plain interpolates and strips the inline emphasis markup used in headlines
// and bios.
func (d *Document) Plain(s string) string {
	return StripMarkup(d.Interpolate(s))
}

// StripMarkup removes <strong> and <em> tags.
func StripMarkup(s string) string {
	return markupReplacer.Replace(s)
}

// BootMessages returns the interpolated boot script for the inline or modal
// console. The modal script falls back to the inline one.
func (d *Document) BootMessages(modal bool) []string {
	src := d.Hero.Terminal.InitialMessages
	if modal && len(d.Hero.Terminal.ModalMessages) > 0 {
		src = d.Hero.Terminal.ModalMessages
	}
	out := make([]string, len(src))
	for i, msg := range src {
		out[i] = d.Plain(msg)
	}
	return out
}

// Prompt returns the console prompt, defaulting to guest@portfolio:~$.
func (d *Document) Prompt() string {
	if p := strings.TrimSpace(d.Terminal.Prompt); p != "" {
		return d.Interpolate(p)
	}
	return "guest@portfolio:~$"
}
