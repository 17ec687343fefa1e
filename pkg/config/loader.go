package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/macropower/pagelegend/api"
	"github.com/macropower/pagelegend/api/v1beta1"
	"github.com/macropower/pagelegend/pkg/ui/theme"
	"github.com/macropower/pagelegend/pkg/yaml"
)

var (
	// Matches a top-level "ui:" mapping and captures its indented body.
	uiSectionRe = regexp.MustCompile(`(?m)^ui:\s*$((?:\n[ \t]+.*)*)`)
	// Matches an indented "theme:" key with a double quoted, single quoted
	// or bare value.
	themeKeyRe = regexp.MustCompile(`\n[ \t]+theme:\s*(?:"([^"#\n]+)"|'([^'#\n]+)'|([^\s#\n]+))`)
)

// Validator validates configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// selfValidator is implemented by objects with checks beyond the schema.
type selfValidator interface {
	Validate() error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*loaderOptions)

type loaderOptions struct {
	validator    Validator
	extractTheme bool
}

// WithValidator sets a custom validator.
func WithValidator(v Validator) LoaderOpt {
	return func(o *loaderOptions) {
		o.validator = v
	}
}

// WithThemeFromData extracts the theme from the config data for error formatting.
func WithThemeFromData() LoaderOpt {
	return func(o *loaderOptions) {
		o.extractTheme = true
	}
}

// Loader decodes and validates documents of type T. Errors are annotated
// with the YAML source, styled with the document's own theme when
// [WithThemeFromData] is set.
type Loader[T v1beta1.Object] struct {
	validator Validator
	newFunc   func() T
	theme     *theme.Theme
	yamlError *yaml.ErrorWrapper
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] from byte data.
// The newFunc parameter is the constructor for type T (e.g., configs.New).
func NewLoaderFromBytes[T v1beta1.Object](
	data []byte,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) *Loader[T] {
	options := &loaderOptions{validator: defaultValidator}
	for _, opt := range opts {
		opt(options)
	}

	t := theme.Default
	if options.extractTheme {
		t = themeFromData(data)
	}

	return &Loader[T]{
		data:      data,
		newFunc:   newFunc,
		validator: options.validator,
		theme:     t,
		yamlError: yaml.NewErrorWrapper(yaml.WithTheme(t), yaml.WithSource(data)),
	}
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile[T v1beta1.Object](
	path string,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) (*Loader[T], error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Return the original error.
	}

	return NewLoaderFromBytes(data, newFunc, defaultValidator, opts...), nil
}

func (l *Loader[T]) decode(v any) error {
	err := yaml.NewDecoder(bytes.NewReader(l.data)).Decode(v)
	if err != nil {
		return l.yamlError.Wrap(err)
	}

	return nil
}

// Validate validates the configuration data against the schema.
func (l *Loader[T]) Validate() error {
	var doc any

	err := l.decode(&doc)
	if err != nil {
		return err
	}

	if l.validator == nil {
		return nil
	}

	err = l.validator.Validate(doc)
	if err != nil {
		return l.yamlError.Wrap(err)
	}

	return nil
}

// Load parses and returns the configuration with defaults applied.
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) Load() (T, error) {
	obj := l.newFunc()

	err := l.decode(obj)
	if err != nil {
		var zero T
		return zero, err
	}

	obj.EnsureDefaults()

	return obj, nil
}

// LoadValid runs [Loader.Validate] and [Loader.Load], then the object's own
// Validate method when it has one.
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) LoadValid() (T, error) {
	var zero T

	err := l.Validate()
	if err != nil {
		return zero, err
	}

	obj, err := l.Load()
	if err != nil {
		return zero, err
	}

	if sv, ok := any(obj).(selfValidator); ok {
		err = sv.Validate()
		if err != nil {
			return zero, fmt.Errorf("validate %s: %w", obj.GetKind(), err)
		}
	}

	return obj, nil
}

// GetTheme returns the theme for error formatting.
func (l *Loader[T]) GetTheme() *theme.Theme {
	return l.theme
}

func themeFromData(data []byte) *theme.Theme {
	var name string

	path := yaml.NewPathBuilder().Root().Child("ui").Child("theme").Build()

	err := path.Read(bytes.NewReader(data), &name)
	if err == nil {
		return theme.New(name)
	}

	// Invalid YAML still gets styled errors if the theme can be scraped.
	name = scrapeTheme(data)
	if name != "" {
		slog.Debug("read theme from malformed config", slog.String("theme", name))

		return theme.New(name)
	}

	return theme.Default
}

// scrapeTheme finds ui.theme in data without parsing it as YAML.
func scrapeTheme(data []byte) string {
	ui := uiSectionRe.FindSubmatch(data)
	if len(ui) < 2 {
		return ""
	}

	m := themeKeyRe.FindSubmatch(ui[1])
	if len(m) < 4 {
		return ""
	}

	for _, g := range m[1:] {
		if len(g) > 0 {
			return strings.TrimSpace(string(g))
		}
	}

	return ""
}
