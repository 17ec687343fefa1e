package yaml_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/x/ansi"
	goyaml "github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/pagelegend/pkg/ui/theme"
	"github.com/macropower/pagelegend/pkg/yaml"
)

const legendSource = `id: temperature
title: Temperature
pieces:
  - min: 0
    max: 10
  - min: 10
    max: oops
options:
  orientation: horizontal
`

func TestError_AnnotatesSource(t *testing.T) {
	t.Parallel()

	err := yaml.NewError(
		errors.New("expected number"),
		yaml.WithPath(yaml.NewPathBuilder().Root().Child("pieces").Index(1).Child("max").Build()),
		yaml.WithTheme(theme.New("onedark")),
		yaml.WithFormatter("terminal16m"),
		yaml.WithSource([]byte(legendSource)),
	)

	got := ansi.Strip(err.Error())
	assert.Contains(t, got, "[7:5] expected number:")
	assert.Contains(t, got, "max: oops")
}

func TestError_PointsAtKey(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		path *goyaml.Path
		want string
	}{
		"nested key": {
			path: yaml.NewPathBuilder().Root().Child("options").Child("orientation").Build(),
			want: "[9:3] bad:",
		},
		"top level key": {
			path: yaml.NewPathBuilder().Root().Child("title").Build(),
			want: "[2:1] bad:",
		},
		"missing": {
			path: yaml.NewPathBuilder().Root().Child("nope").Build(),
			want: "error at $.nope: bad",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := yaml.NewError(errors.New("bad"), yaml.WithPath(tc.path), yaml.WithSource([]byte(legendSource)))
			assert.Contains(t, ansi.Strip(err.Error()), tc.want)
		})
	}
}

func TestError_WithoutLocation(t *testing.T) {
	t.Parallel()

	err := yaml.NewError(errors.New("boom"))
	assert.Equal(t, "boom", err.Error())

	assert.Empty(t, yaml.Error{}.Error())
}

func TestErrorWrapper_Wrap(t *testing.T) {
	t.Parallel()

	w := yaml.NewErrorWrapper(yaml.WithSource([]byte(legendSource)))

	require.NoError(t, w.Wrap(nil))

	plain := errors.New("plain")
	assert.Equal(t, plain, w.Wrap(plain))

	var yamlErr *yaml.Error

	wrapped := w.Wrap(&yaml.Error{Err: errors.New("inner")}, yaml.WithFormatter("noop"))
	require.ErrorAs(t, wrapped, &yamlErr)
	assert.Equal(t, []byte(legendSource), yamlErr.Source)
	assert.Equal(t, "noop", yamlErr.Formatter)
}

func TestDecoder_Error(t *testing.T) {
	t.Parallel()

	var v map[string]any

	err := yaml.NewDecoder(bytes.NewReader([]byte("a: [1, 2\nb: c\n"))).Decode(&v)
	require.Error(t, err)

	var yamlErr *yaml.Error
	require.ErrorAs(t, err, &yamlErr)
	assert.NotNil(t, yamlErr.Token)
}
