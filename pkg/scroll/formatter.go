package scroll

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"

	"github.com/macropower/pagelegend/pkg/expr"
)

const (
	// DefaultTemplate is the default page indicator template.
	DefaultTemplate = "{current}/{total}"

	// FormatterDots selects the [Dots] formatter.
	FormatterDots = "dots"

	// ExprPrefix marks a formatter string as a CEL expression.
	ExprPrefix = "expr:"

	placeholderCurrent = "{current}"
	placeholderTotal   = "{total}"
)

// Page is the input of a [Formatter].
type Page struct {
	// Current is the one-based page number, or zero when HasPage is false.
	Current int
	Total   int
	HasPage bool
}

// Formatter renders the page indicator text.
type Formatter interface {
	Format(p Page) string
}

// Template substitutes the first "{current}" and "{total}" placeholders.
// "{current}" is replaced by an empty string when there is no page.
type Template string

// Format implements [Formatter].
func (t Template) Format(p Page) string {
	current := ""
	if p.HasPage {
		current = strconv.Itoa(p.Current)
	}

	s := strings.Replace(string(t), placeholderCurrent, current, 1)

	return strings.Replace(s, placeholderTotal, strconv.Itoa(p.Total), 1)
}

// Func adapts a function to a [Formatter].
type Func func(p Page) string

// Format implements [Formatter].
func (f Func) Format(p Page) string {
	return f(p)
}

// Expr renders the indicator with a CEL expression.
type Expr struct {
	f *expr.PageFormatter
}

// NewExpr compiles a CEL page formatter.
func NewExpr(expression string) (*Expr, error) {
	f, err := expr.NewPageFormatter(expression)
	if err != nil {
		return nil, err
	}

	return &Expr{f: f}, nil
}

// Format implements [Formatter]. Evaluation errors produce no text.
func (e *Expr) Format(p Page) string {
	s, err := e.f.Format(p.Current, p.Total)
	if err != nil {
		slog.Warn("format page indicator",
			slog.String("expression", e.f.String()),
			slog.Any("err", err),
		)

		return ""
	}

	return s
}

// Dots renders the pages as a row of dots.
type Dots struct {
	Active   string
	Inactive string
}

// Format implements [Formatter].
func (d Dots) Format(p Page) string {
	m := paginator.New()
	m.Type = paginator.Dots
	if d.Active != "" {
		m.ActiveDot = d.Active
	}
	if d.Inactive != "" {
		m.InactiveDot = d.Inactive
	}

	m.TotalPages = p.Total
	m.Page = max(p.Current-1, 0)
	if !p.HasPage {
		// No dot is active.
		m.Page = -1
	}

	return m.View()
}

// ParseFormatter returns the [Formatter] described by s.
//
//   - "" returns a nil formatter (no indicator text).
//   - "dots" returns [Dots].
//   - "expr:<expression>" returns a CEL [Expr].
//   - anything else is a [Template].
func ParseFormatter(s string) (Formatter, error) { //nolint:ireturn // Formatter kinds.
	switch {
	case s == "":
		return nil, nil //nolint:nilnil // No formatter is valid.
	case s == FormatterDots:
		return Dots{}, nil
	case strings.HasPrefix(s, ExprPrefix):
		return NewExpr(strings.TrimSpace(strings.TrimPrefix(s, ExprPrefix)))
	}

	return Template(s), nil
}
