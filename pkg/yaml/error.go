package yaml

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"

	"github.com/macropower/pagelegend/pkg/ui/theme"
)

// Separates line numbers from source in [printer.Printer.PrintErrorToken]
// output.
const lineSeparator = " | "

// NewPathBuilder starts a [yaml.Path], e.g. NewPathBuilder().Root().Child("pieces").
func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// ErrorWrapper applies a fixed set of options to every [*Error] it wraps. A
// [Loader] uses it to attach the document source and theme.
//
// [Loader]: github.com/macropower/pagelegend/pkg/config.Loader
type ErrorWrapper struct {
	Opts []ErrorOpt
}

func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{Opts: opts}
}

// Wrap applies the wrapper's options, then opts, to the [*Error] in err's
// chain. Other errors are returned unmodified.
func (ew *ErrorWrapper) Wrap(err error, opts ...ErrorOpt) error {
	var yamlErr *Error
	if !errors.As(err, &yamlErr) {
		return err
	}

	for _, opt := range ew.Opts {
		opt(yamlErr)
	}
	for _, opt := range opts {
		opt(yamlErr)
	}

	return yamlErr
}

// Error is an error located in a YAML document, either by [yaml.Path] or by
// [*token.Token]. When Source is set, Error renders the offending lines.
type Error struct {
	Err       error
	Path      *yaml.Path
	Token     *token.Token
	Theme     *theme.Theme
	Formatter string // Chroma formatter name, e.g. "terminal256".
	Source    []byte
}

type ErrorOpt func(e *Error)

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{Err: err, Theme: theme.Default}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) { e.Path = path }
}

func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) { e.Token = tk }
}

func WithTheme(t *theme.Theme) ErrorOpt {
	return func(e *Error) { e.Theme = t }
}

func WithFormatter(formatter string) ErrorOpt {
	return func(e *Error) { e.Formatter = formatter }
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) { e.Source = source }
}

func (e Error) Unwrap() error {
	return e.Err
}

func (e Error) Error() string {
	switch {
	case e.Err == nil:
		return ""
	case e.Path == nil && e.Token == nil:
		return e.Err.Error()
	}

	tk, err := e.token()
	if err != nil {
		slog.Warn("failed to annotate config with error",
			slog.String("path", e.Path.String()),
			slog.Any("error", err),
		)

		return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
	}

	header := fmt.Sprintf("[%d:%d] %v:", tk.Position.Line, tk.Position.Column, e.Err)
	src := lipgloss.NewStyle().PaddingTop(1).Render(e.renderSource(tk))

	return header + "\n" + src
}

// token returns e.Token, or the token at e.Path in e.Source. For mapping
// values, the token of the key is preferred.
func (e Error) token() (*token.Token, error) {
	if e.Token != nil {
		return e.Token, nil
	}

	file, err := parser.ParseBytes(e.Source, 0)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}

	node, err := e.Path.FilterFile(file)
	if err != nil {
		return nil, fmt.Errorf("filter source by path: %w", err)
	}

	for _, n := range ast.FilterFile(ast.MappingValueType, file) {
		if mv, ok := n.(*ast.MappingValueNode); ok && mv.Value == node {
			return mv.Key.GetToken(), nil
		}
	}

	tk := node.GetToken()
	if tk == nil {
		return nil, errors.New("no token at path")
	}

	return tk, nil
}

// renderSource prints the lines around tk, highlighting the YAML with the
// theme's chroma style and marking the error line.
func (e Error) renderSource(tk *token.Token) string {
	var pp printer.Printer

	lexer := lexers.Get("yaml")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	formatter := formatters.TTY16m
	if e.Formatter != "" {
		formatter = formatters.Get(e.Formatter)
	}

	t := e.Theme
	if t == nil {
		t = theme.Default
	}

	lines := strings.Split(strings.TrimRight(pp.PrintErrorToken(tk.Clone(), false), "\n"), "\n")
	for i, line := range lines {
		prefix, src, ok := strings.Cut(line, lineSeparator)
		if !ok {
			lines[i] = t.ErrorMarkerStyle.Render(line)

			continue
		}

		numStyle := t.LineNumberStyle
		if strings.HasPrefix(prefix, ">") {
			numStyle = t.ErrorStyle
		}

		lines[i] = numStyle.Render(prefix+lineSeparator) + highlight(lexer, formatter, t.ChromaStyle, src)
	}

	return strings.Join(lines, "\n")
}

func highlight(lexer chroma.Lexer, formatter chroma.Formatter, style *chroma.Style, src string) string {
	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}

	var sb strings.Builder

	err = formatter.Format(&sb, style, it)
	if err != nil {
		return src
	}

	return strings.TrimRight(sb.String(), "\n")
}
