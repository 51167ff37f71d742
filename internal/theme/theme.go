package theme

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Variant identifies the palette family.
type Variant string

const (
	VariantMidnight Variant = "midnight"
	VariantSky      Variant = "sky"
	VariantMono     Variant = "mono"
)

// SemanticRoles defines stable semantic color slots used across the UI.
//
// Components should depend on these roles rather than variant-specific
// color literals.
type SemanticRoles struct {
	Primary string
	Accent  string
	Muted   string
	Danger  string
	Success string
	Border  string
}

// Style describes presentational attributes for a UI element.
type Style struct {
	Foreground string
	Background string
	Bold       bool
	Faint      bool
}

// Lipgloss converts the style for a renderer. A nil renderer uses the
// package default.
func (s Style) Lipgloss(r *lipgloss.Renderer) lipgloss.Style {
	var out lipgloss.Style
	if r != nil {
		out = r.NewStyle()
	} else {
		out = lipgloss.NewStyle()
	}
	if s.Foreground != "" {
		out = out.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		out = out.Background(lipgloss.Color(s.Background))
	}
	return out.Bold(s.Bold).Faint(s.Faint)
}

// StyleSet provides strongly-typed styles for the runtime UI surfaces.
type StyleSet struct {
	Header  Style
	Body    Style
	Heading Style
	Prompt  Style
	Command Style
	Output  Style
	Error   Style
	Card    Style
	Muted   Style
}

// Bundle contains all display styles needed by a session.
type Bundle struct {
	StyleSet
	Roles SemanticRoles
}

// TermProfile describes terminal rendering capabilities derived from TERM.
type TermProfile struct {
	Colors    int
	TrueColor bool
	IsTTY     bool
}

// TermProfileDetector maps a TERM value to a terminal capability profile.
type TermProfileDetector func(term string) TermProfile

// ErrUnknownVariant is returned when a requested variant is not known.
var ErrUnknownVariant = errors.New("unknown theme variant")

var (
	termProfileCache sync.Map
	knownProfiles    = map[string]TermProfile{
		"dumb":           {Colors: 0, TrueColor: false, IsTTY: false},
		"ansi":           {Colors: 8, TrueColor: false, IsTTY: true},
		"linux":          {Colors: 16, TrueColor: false, IsTTY: true},
		"xterm":          {Colors: 16, TrueColor: false, IsTTY: true},
		"xterm-256color": {Colors: 256, TrueColor: false, IsTTY: true},
		"screen":         {Colors: 8, TrueColor: false, IsTTY: true},
		"tmux":           {Colors: 256, TrueColor: false, IsTTY: true},
		"vt100":          {Colors: 8, TrueColor: false, IsTTY: true},
		"xterm-kitty":    {Colors: 1 << 24, TrueColor: true, IsTTY: true},
		"wezterm":        {Colors: 1 << 24, TrueColor: true, IsTTY: true},
	}
)

var palettes = map[Variant]Bundle{
	VariantMidnight: {
		StyleSet: StyleSet{
			Header:  Style{Foreground: "#E2E8F0", Background: "#0F172A", Bold: true},
			Body:    Style{Foreground: "#CBD5E1"},
			Heading: Style{Foreground: "#F8FAFC", Bold: true},
			Prompt:  Style{Foreground: "#38BDF8", Bold: true},
			Command: Style{Foreground: "#4ADE80"},
			Output:  Style{Foreground: "#CBD5E1"},
			Error:   Style{Foreground: "#F87171", Bold: true},
			Card:    Style{Foreground: "#E2E8F0", Background: "#1E293B"},
			Muted:   Style{Foreground: "#64748B", Faint: true},
		},
		Roles: SemanticRoles{Primary: "#0F172A", Accent: "#0EA5E9", Muted: "#64748B", Danger: "#EF4444", Success: "#22C55E", Border: "#1E293B"},
	},
	VariantSky: {
		StyleSet: StyleSet{
			Header:  Style{Foreground: "#0C4A6E", Background: "#E0F2FE", Bold: true},
			Body:    Style{Foreground: "#0F172A"},
			Heading: Style{Foreground: "#0369A1", Bold: true},
			Prompt:  Style{Foreground: "#0284C7", Bold: true},
			Command: Style{Foreground: "#15803D"},
			Output:  Style{Foreground: "#1E293B"},
			Error:   Style{Foreground: "#B91C1C", Bold: true},
			Card:    Style{Foreground: "#0F172A", Background: "#F0F9FF"},
			Muted:   Style{Foreground: "#64748B"},
		},
		Roles: SemanticRoles{Primary: "#E0F2FE", Accent: "#0284C7", Muted: "#94A3B8", Danger: "#DC2626", Success: "#16A34A", Border: "#7DD3FC"},
	},
	VariantMono: grayscaleBundle(),
}

// Variants lists every known variant.
var Variants = [...]Variant{VariantMidnight, VariantSky, VariantMono}

// ParseVariant normalises a variant name.
func ParseVariant(raw string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := palettes[v]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownVariant, raw)
	}
	return v, nil
}

// ResolveOptions controls how a bundle is selected once a TERM profile exists.
type ResolveOptions struct {
	Term       string
	ForceColor bool
	ForceMono  bool
	Debug      bool
}

// Resolve resolves a concrete style bundle for a variant and TERM value.
//
// For lower-capability terminals (below 256 colors, or non-TTY) Resolve
// returns the monochrome bundle unless color is explicitly forced.
func Resolve(variant Variant, term string) (Bundle, error) {
	return resolveWith(variant, ResolveOptions{Term: term}, detectTermProfile)
}

// ResolveWithOptions resolves a bundle with explicit overrides.
func ResolveWithOptions(variant Variant, opts ResolveOptions) (Bundle, TermProfile, error) {
	return resolveWithProfile(variant, opts, detectTermProfile)
}

// ResolveWithDetector resolves a bundle using a caller-provided TERM detector.
func ResolveWithDetector(variant Variant, opts ResolveOptions, detector TermProfileDetector) (Bundle, error) {
	if detector == nil {
		detector = detectTermProfile
	}
	return resolveWith(variant, opts, detector)
}

// DetectTermProfile maps TERM to a terminal capability profile.
func DetectTermProfile(term string) TermProfile {
	return detectTermProfile(term)
}

func resolveWith(variant Variant, opts ResolveOptions, detector TermProfileDetector) (Bundle, error) {
	bundle, _, err := resolveWithProfile(variant, opts, detector)
	return bundle, err
}

func resolveWithProfile(variant Variant, opts ResolveOptions, detector TermProfileDetector) (Bundle, TermProfile, error) {
	base, ok := palettes[variant]
	if !ok {
		return Bundle{}, TermProfile{}, fmt.Errorf("%w: %s", ErrUnknownVariant, variant)
	}

	term := strings.TrimSpace(opts.Term)
	if term == "" {
		term = os.Getenv("TERM")
	}

	profile := detector(term)
	mono := shouldUseMonochrome(profile, opts)
	if opts.Debug {
		log.Debug("theme resolved", "variant", variant, "term", term, "colors", profile.Colors, "truecolor", profile.TrueColor, "tty", profile.IsTTY, "mono", mono)
	}
	if mono {
		return grayscaleBundle(), profile, nil
	}
	return base, profile, nil
}

func shouldUseMonochrome(profile TermProfile, opts ResolveOptions) bool {
	if opts.ForceMono {
		return true
	}
	if opts.ForceColor {
		return false
	}
	if !profile.IsTTY {
		return true
	}
	return profile.Colors < 256 && !profile.TrueColor
}

func detectTermProfile(term string) TermProfile {
	norm := strings.ToLower(strings.TrimSpace(term))
	if cached, ok := termProfileCache.Load(norm); ok {
		return cached.(TermProfile)
	}

	profile := detectTermProfileUncached(norm)
	termProfileCache.Store(norm, profile)
	return profile
}

func detectTermProfileUncached(norm string) TermProfile {
	if norm == "" {
		return TermProfile{Colors: 0, TrueColor: false, IsTTY: false}
	}

	if p, ok := knownProfiles[norm]; ok {
		return p
	}

	profile := TermProfile{Colors: 16, TrueColor: false, IsTTY: true}
	if strings.Contains(norm, "truecolor") || strings.Contains(norm, "24bit") || strings.Contains(norm, "kitty") || strings.Contains(norm, "wezterm") {
		profile.TrueColor = true
		profile.Colors = 1 << 24
	}
	if strings.Contains(norm, "256") {
		profile.Colors = 256
	}
	if strings.Contains(norm, "dumb") {
		profile = TermProfile{Colors: 0, TrueColor: false, IsTTY: false}
	}
	if strings.Contains(norm, "screen") {
		profile.Colors = 8
	}

	return profile
}

func grayscaleBundle() Bundle {
	return Bundle{
		StyleSet: StyleSet{
			Header:  Style{Bold: true},
			Body:    Style{},
			Heading: Style{Bold: true},
			Prompt:  Style{Bold: true},
			Command: Style{},
			Output:  Style{},
			Error:   Style{Bold: true},
			Card:    Style{},
			Muted:   Style{Faint: true},
		},
		Roles: SemanticRoles{Primary: "#111111", Accent: "#FFFFFF", Muted: "#8F8F8F", Danger: "#E6E6E6", Success: "#CFCFCF", Border: "#8F8F8F"},
	}
}
