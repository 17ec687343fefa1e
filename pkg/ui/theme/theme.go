// Package theme derives lipgloss styles for the legend from chroma styles.
package theme

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Ellipsis is appended to truncated labels.
const Ellipsis = "…"

// Theme names that are resolved to a chroma style at runtime.
const (
	NameAuto  = "auto"
	NameDark  = "dark"
	NameLight = "light"
)

var (
	ErrInvalidName    = errors.New("invalid theme name")
	ErrRegisterStyles = errors.New("register styles")
)

var Default = New("github")

type Theme struct {
	// Page controls. Icon colors come from the legend options.
	ControlStyle  lipgloss.Style
	PageTextStyle lipgloss.Style

	// Pieces.
	CursorStyle     lipgloss.Style
	LabelStyle      lipgloss.Style
	OutOfRangeStyle lipgloss.Style
	TitleStyle      lipgloss.Style

	// Chrome.
	ErrorStyle       lipgloss.Style
	ErrorMarkerStyle lipgloss.Style
	GenericTextStyle lipgloss.Style
	HelpStyle        lipgloss.Style
	LineNumberStyle  lipgloss.Style
	SubtleStyle      lipgloss.Style

	ChromaStyle *chroma.Style
	Ellipsis    string
}

// palette holds the colors a [Theme] is built from.
type palette struct {
	text, background lipgloss.Color
	accent, subtle   lipgloss.Color
	number, help     lipgloss.Color
	err              lipgloss.Color
}

func newPalette(s *chroma.Style) palette {
	fg := func(tt chroma.TokenType) lipgloss.Color {
		return lipgloss.Color(s.Get(tt).Colour.String()) //nolint:misspell // Chroma naming.
	}

	bg := s.Get(chroma.Background)

	return palette{
		text:       fg(chroma.Background),
		background: lipgloss.Color(bg.Background.String()),
		accent:     fg(chroma.NameTag),
		subtle:     fg(chroma.Comment),
		number:     fg(chroma.LiteralNumber),
		help:       lipgloss.Color(bg.Colour.BrightenOrDarken(0.2).String()), //nolint:misspell // Chroma naming.
		err:        fg(chroma.GenericDeleted),
	}
}

// New returns the theme for a chroma style name, or for one of [NameAuto],
// [NameDark] or [NameLight]. Unknown names use chroma's fallback style.
func New(name string) *Theme {
	s := styles.Get(resolveName(name))
	if s == nil {
		s = styles.Fallback
	}

	p := newPalette(s)

	text := lipgloss.NewStyle().Foreground(p.text)
	subtle := lipgloss.NewStyle().Foreground(p.subtle)
	errStyle := lipgloss.NewStyle().Foreground(p.err).Bold(true)

	return &Theme{
		ControlStyle:  lipgloss.NewStyle(),
		PageTextStyle: lipgloss.NewStyle().Foreground(p.number),

		CursorStyle:     lipgloss.NewStyle().Foreground(p.background).Background(p.accent),
		LabelStyle:      text,
		OutOfRangeStyle: subtle.Faint(true),
		TitleStyle:      lipgloss.NewStyle().Foreground(p.accent).Bold(true),

		ErrorStyle:       errStyle,
		ErrorMarkerStyle: errStyle,
		GenericTextStyle: text,
		HelpStyle:        lipgloss.NewStyle().Foreground(p.help),
		LineNumberStyle:  subtle,
		SubtleStyle:      subtle,

		ChromaStyle: s,
		Ellipsis:    Ellipsis,
	}
}

// Register adds a chroma style that can then be used by [New].
func Register(name string, entries chroma.StyleEntries) error {
	if name == "" {
		return ErrInvalidName
	}

	s, err := chroma.NewStyle(name, entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegisterStyles, err)
	}

	styles.Register(s)

	return nil
}

func resolveName(name string) string {
	switch name {
	case NameDark:
		return "github-dark"
	case NameLight:
		return "github"
	case NameAuto, "":
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return ""
		}
		if termenv.HasDarkBackground() {
			return "github-dark"
		}

		return "github"
	}

	return name
}
