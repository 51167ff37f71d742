// Package content loads the static portfolio document that every surface
// renders from, and derives the console command table from it.
package content

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the whole portfolio content file.
type Document struct {
	Personal   Personal   `yaml:"personal" json:"personal"`
	Hero       Hero       `yaml:"hero" json:"hero"`
	About      Section    `yaml:"about" json:"about"`
	Skills     Skills     `yaml:"skills" json:"skills"`
	Projects   Projects   `yaml:"projects" json:"projects"`
	Experience Experience `yaml:"experience" json:"experience"`
	Contact    Contact    `yaml:"contact" json:"contact"`
	Social     Social     `yaml:"social" json:"social"`
	Terminal   Terminal   `yaml:"terminal" json:"terminal"`
	Navbar     Navbar     `yaml:"navbar" json:"navbar"`
	Footer     Footer     `yaml:"footer" json:"footer"`
}

type Personal struct {
	Name     string `yaml:"name" json:"name"`
	Initials string `yaml:"initials" json:"initials"`
	Role     string `yaml:"role" json:"role"`
	Phone    string `yaml:"phone" json:"phone"`
	Company  string `yaml:"company" json:"company"`
	Location string `yaml:"location" json:"location"`
	Email    string `yaml:"email" json:"email"`
	Tagline  string `yaml:"tagline" json:"tagline"`
	Bio      Bio    `yaml:"bio" json:"bio"`
}

// Field returns a personal field by its document key, or "" when unknown.
func (p Personal) Field(key string) string {
	switch key {
	case "name":
		return p.Name
	case "initials":
		return p.Initials
	case "role":
		return p.Role
	case "phone":
		return p.Phone
	case "company":
		return p.Company
	case "location":
		return p.Location
	case "email":
		return p.Email
	case "tagline":
		return p.Tagline
	default:
		return ""
	}
}

type Bio struct {
	Paragraphs    []string      `yaml:"paragraphs" json:"paragraphs"`
	CurrentStatus CurrentStatus `yaml:"currentStatus" json:"currentStatus"`
}

type CurrentStatus struct {
	Role        string   `yaml:"role" json:"role"`
	Company     string   `yaml:"company" json:"company"`
	Location    string   `yaml:"location" json:"location"`
	Learning    []string `yaml:"learning" json:"learning"`
	CoffeeLevel string   `yaml:"coffee_level" json:"coffee_level"`
}

type Hero struct {
	Greeting    string       `yaml:"greeting" json:"greeting"`
	Headline    string       `yaml:"headline" json:"headline"`
	Subheadline []string     `yaml:"subheadline" json:"subheadline"`
	CTA         []CTA        `yaml:"cta" json:"cta"`
	Terminal    HeroTerminal `yaml:"terminal" json:"terminal"`
}

type CTA struct {
	Text     string `yaml:"text" json:"text"`
	Href     string `yaml:"href" json:"href"`
	Variant  string `yaml:"variant" json:"variant"`
	Download string `yaml:"download,omitempty" json:"download,omitempty"`
}

type HeroTerminal struct {
	InitialMessages []string `yaml:"initialMessages" json:"initialMessages"`
	ModalMessages   []string `yaml:"modalMessages" json:"modalMessages"`
}

// Section carries the numbered heading shared by every page section.
type Section struct {
	SectionNumber string `yaml:"sectionNumber" json:"sectionNumber"`
	Title         string `yaml:"title" json:"title"`
}

type Skills struct {
	Section    `yaml:",inline"`
	Categories []SkillCategory `yaml:"categories" json:"categories"`
}

type SkillCategory struct {
	Category string   `yaml:"category" json:"category"`
	Items    []string `yaml:"items" json:"items"`
}

type Projects struct {
	Section `yaml:",inline"`
	Items   []Project `yaml:"items" json:"items"`
}

type Project struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Tech        []string `yaml:"tech" json:"tech"`
	Type        string   `yaml:"type" json:"type"`
	Link        string   `yaml:"link" json:"link"`
}

type Experience struct {
	Section `yaml:",inline"`
	Items   []Job `yaml:"items" json:"items"`
}

type Job struct {
	Company     string   `yaml:"company" json:"company"`
	Role        string   `yaml:"role" json:"role"`
	Period      string   `yaml:"period" json:"period"`
	Description []string `yaml:"description" json:"description"`
}

type Contact struct {
	Section     `yaml:",inline"`
	Subtitle    string `yaml:"subtitle" json:"subtitle"`
	Description string `yaml:"description" json:"description"`
}

type Social struct {
	GitHub   string `yaml:"github" json:"github"`
	LinkedIn string `yaml:"linkedin" json:"linkedin"`
	Twitter  string `yaml:"twitter,omitempty" json:"twitter,omitempty"`
}

type Terminal struct {
	Prompt   string                  `yaml:"prompt" json:"prompt"`
	Commands map[string]CommandValue `yaml:"commands" json:"commands"`
}

type Navbar struct {
	Links []Link `yaml:"links" json:"links"`
}

type Link struct {
	Name string `yaml:"name" json:"name"`
	Href string `yaml:"href" json:"href"`
}

type Footer struct {
	Text string `yaml:"text" json:"text"`
}

// CommandValue is a canned command result: one string or a list of lines.
type CommandValue struct {
	Text  string
	Lines []string
	Multi bool
}

// UnmarshalYAML accepts either a scalar or a sequence of scalars.
func (v *CommandValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = CommandValue{Text: node.Value}
		return nil
	case yaml.SequenceNode:
		var lines []string
		if err := node.Decode(&lines); err != nil {
			return fmt.Errorf("command lines: %w", err)
		}
		*v = CommandValue{Lines: lines, Multi: true}
		return nil
	default:
		return fmt.Errorf("line %d: command value must be a string or a list of strings", node.Line)
	}
}

// MarshalJSON keeps the string-or-array shape of the content file.
func (v CommandValue) MarshalJSON() ([]byte, error) {
	if v.Multi {
		lines := v.Lines
		if lines == nil {
			lines = []string{}
		}
		return json.Marshal(lines)
	}
	return json.Marshal(v.Text)
}
