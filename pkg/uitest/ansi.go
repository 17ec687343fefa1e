package uitest

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

// SetupColorProfile sets the color profile to TrueColor for consistent test output.
// Call this at the start of tests that involve styled output.
func SetupColorProfile() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// StyleExpectation lists the attributes to check. Nil fields are ignored.
type StyleExpectation struct {
	Bold  *bool
	Faint *bool
	// Foreground is a palette index such as "9", or "#RRGGBB" for true color.
	Foreground *string
	Background *string
}

// Style is the SGR state in effect for a run of text.
type Style struct {
	Foreground string
	Background string
	Bold       bool
	Faint      bool
}

type segment struct {
	text  string
	style Style
}

// ANSIStyleVerifier checks the text and SGR styling of rendered output.
type ANSIStyleVerifier struct {
	output   string
	segments []segment
}

// NewANSIStyleVerifier parses output into styled runs.
func NewANSIStyleVerifier(output string) *ANSIStyleVerifier {
	return &ANSIStyleVerifier{output: output, segments: parseSegments(output)}
}

// PlainText strips all ANSI sequences and returns plain text.
func (v *ANSIStyleVerifier) PlainText() string {
	return ansi.Strip(v.output)
}

// ContainsPlainText checks if the plain text (ANSI stripped) contains the expected string.
func (v *ANSIStyleVerifier) ContainsPlainText(t *testing.T, expected string) {
	t.Helper()

	assert.Contains(t, v.PlainText(), expected, "plain text should contain %q", expected)
}

// StyleOf returns the style of the first run containing text.
func (v *ANSIStyleVerifier) StyleOf(text string) (Style, bool) {
	for _, seg := range v.segments {
		if strings.Contains(seg.text, text) {
			return seg.style, true
		}
	}

	return Style{}, false
}

// ContainsStyledText checks that text appears in a single run styled as
// expected.
func (v *ANSIStyleVerifier) ContainsStyledText(t *testing.T, text string, expected StyleExpectation) {
	t.Helper()

	got, ok := v.StyleOf(text)
	if !ok {
		t.Errorf("no styled run contains %q in %q", text, v.PlainText())

		return
	}

	check := func(name string, want *bool, got bool) {
		if want != nil {
			assert.Equal(t, *want, got, "%q: %s", text, name)
		}
	}
	check("bold", expected.Bold, got.Bold)
	check("faint", expected.Faint, got.Faint)

	if expected.Foreground != nil {
		assert.Equal(t, *expected.Foreground, got.Foreground, "%q: foreground", text)
	}
	if expected.Background != nil {
		assert.Equal(t, *expected.Background, got.Background, "%q: background", text)
	}
}

func parseSegments(output string) []segment {
	var (
		segments []segment
		style    Style
		text     strings.Builder
		state    byte
	)

	flush := func() {
		if text.Len() > 0 {
			segments = append(segments, segment{text: text.String(), style: style})
			text.Reset()
		}
	}

	p := ansi.GetParser()
	defer ansi.PutParser(p)

	in := []byte(output)
	for len(in) > 0 {
		seq, width, n, newState := ansi.DecodeSequence(in, state, p)

		switch {
		case ansi.HasCsiPrefix(seq) && seq[len(seq)-1] == 'm':
			flush()

			style = applySGR(style, p.Params())
		case width > 0:
			text.Write(seq)
		}

		in = in[n:]
		state = newState
	}

	flush()

	return segments
}

func applySGR(s Style, params ansi.Params) Style {
	if len(params) == 0 {
		return Style{}
	}

	for i := 0; i < len(params); i++ {
		code := params[i].Param(0)

		switch {
		case code == 0:
			s = Style{}
		case code == 1:
			s.Bold = true
		case code == 2:
			s.Faint = true
		case code == 22:
			s.Bold, s.Faint = false, false
		case code == 38 || code == 48:
			c, used := extendedColor(params[i+1:])
			i += used
			if code == 38 {
				s.Foreground = c
			} else {
				s.Background = c
			}
		case code == 39:
			s.Foreground = ""
		case code == 49:
			s.Background = ""
		case code >= 30 && code <= 37:
			s.Foreground = strconv.Itoa(code - 30)
		case code >= 40 && code <= 47:
			s.Background = strconv.Itoa(code - 40)
		case code >= 90 && code <= 97:
			s.Foreground = strconv.Itoa(code - 90 + 8)
		case code >= 100 && code <= 107:
			s.Background = strconv.Itoa(code - 100 + 8)
		}
	}

	return s
}

// extendedColor reads the arguments of a 38 or 48 SGR code, returning the
// color and the number of parameters consumed.
func extendedColor(params ansi.Params) (string, int) {
	if len(params) == 0 {
		return "", 0
	}

	switch params[0].Param(0) {
	case 5:
		if len(params) > 1 {
			return strconv.Itoa(params[1].Param(0)), 2
		}
	case 2:
		if len(params) > 3 {
			return fmt.Sprintf("#%02X%02X%02X",
				params[1].Param(0), params[2].Param(0), params[3].Param(0)), 4
		}
	}

	return "", len(params)
}

// Ptr returns a pointer to v, for [StyleExpectation] fields.
func Ptr[T any](v T) *T {
	return &v
}
