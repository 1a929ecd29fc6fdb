// Package theme applies the seasonal theme to terminal output.
package theme

import (
	"slices"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/homeadmin/internal/config"
	"github.com/debemdeboas/homeadmin/internal/content"
)

var themeLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	themeLogger = l
}

// Palette is the set of colours used to render one seasonal theme.
type Palette struct {
	Theme       content.Theme
	Accent      lipgloss.Color
	Secondary   lipgloss.Color
	Muted       lipgloss.Color
	Banner      lipgloss.Color
	SyntaxStyle string
}

var palettes = map[content.Theme]Palette{
	content.ThemeNormal: {
		Theme:       content.ThemeNormal,
		Accent:      lipgloss.Color("#2E7D32"),
		Secondary:   lipgloss.Color("#81C784"),
		Muted:       lipgloss.Color("#8A8A8A"),
		Banner:      lipgloss.Color("#1B5E20"),
		SyntaxStyle: config.SnapshotSyntaxStyle,
	},
	content.ThemeAdvent: {
		Theme:       content.ThemeAdvent,
		Accent:      lipgloss.Color("#6A1B9A"),
		Secondary:   lipgloss.Color("#CE93D8"),
		Muted:       lipgloss.Color("#8A8A8A"),
		Banner:      lipgloss.Color("#4A148C"),
		SyntaxStyle: "dracula",
	},
	content.ThemeEaster: {
		Theme:       content.ThemeEaster,
		Accent:      lipgloss.Color("#C9A227"),
		Secondary:   lipgloss.Color("#FFFFFF"),
		Muted:       lipgloss.Color("#9E9E9E"),
		Banner:      lipgloss.Color("#F5F5F5"),
		SyntaxStyle: "friendly",
	},
}

// PaletteFor returns the palette for theme, falling back to normal.
func PaletteFor(theme content.Theme) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[content.ThemeNormal]
}

// Styles are the lipgloss styles derived from a palette.
type Styles struct {
	Banner  lipgloss.Style
	Title   lipgloss.Style
	Heading lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Badge   lipgloss.Style
	Error   lipgloss.Style
	Box     lipgloss.Style
}

func (p Palette) Styles() Styles {
	bannerFg := lipgloss.Color("#FFFFFF")
	if IsLightStyle(p.SyntaxStyle) && p.Theme == content.ThemeEaster {
		bannerFg = p.Accent
	}

	return Styles{
		Banner:  lipgloss.NewStyle().Bold(true).Foreground(bannerFg).Background(p.Banner).Padding(0, 1),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Heading: lipgloss.NewStyle().Bold(true).Foreground(p.Secondary),
		Body:    lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Badge:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#D32F2F")).Bold(true),
		Box:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Accent).Padding(0, 1),
	}
}

// Terminal is the process-wide theme sink for terminal output.
type Terminal struct {
	mu      sync.RWMutex
	current content.Theme
}

func NewTerminal(initial content.Theme) *Terminal {
	if !initial.Valid() {
		initial = content.ThemeNormal
	}
	return &Terminal{current: initial}
}

// Apply switches the active palette. It never blocks on I/O.
func (t *Terminal) Apply(theme content.Theme) {
	if !theme.Valid() {
		themeLogger.Warn().Str("theme", string(theme)).Msg("Ignoring unknown theme")
		return
	}
	t.mu.Lock()
	prev := t.current
	t.current = theme
	t.mu.Unlock()

	if prev != theme {
		themeLogger.Debug().Str("from", string(prev)).Str("to", string(theme)).Msg("Theme applied")
	}
}

func (t *Terminal) Current() content.Theme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

func (t *Terminal) Palette() Palette {
	return PaletteFor(t.Current())
}

func (t *Terminal) Styles() Styles {
	return t.Palette().Styles()
}

// SyntaxStyles lists the chroma styles available for snapshot output.
func SyntaxStyles() []string {
	names := styles.Names()
	slices.Sort(names)
	return names
}

// IsLightStyle reports whether the chroma style has a light background.
func IsLightStyle(name string) bool {
	bg := styles.Get(name).Get(chroma.Background)
	if !bg.Background.IsSet() {
		return false
	}
	luminance := (0.299*float64(bg.Background.Red()) +
		0.587*float64(bg.Background.Green()) +
		0.114*float64(bg.Background.Blue())) / 255
	return luminance > 0.5
}
