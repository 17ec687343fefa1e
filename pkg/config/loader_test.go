package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/pagelegend/api"
	"github.com/macropower/pagelegend/api/v1beta1/configs"
	"github.com/macropower/pagelegend/api/v1beta1/legends"
	"github.com/macropower/pagelegend/pkg/config"
	"github.com/macropower/pagelegend/pkg/legend"
	"github.com/macropower/pagelegend/pkg/ui/theme"
)

const configHeader = "apiVersion: pagelegend.macropower.dev/v1beta1\nkind: Configuration\n"

func TestNewLoaderFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configHeader), 0o600))

	cl, err := config.NewLoaderFromFile(path, configs.New, configs.DefaultValidator)
	require.NoError(t, err)

	cfg, err := cl.LoadValid()
	require.NoError(t, err)
	assert.Equal(t, "Configuration", cfg.GetKind())

	_, err = config.NewLoaderFromFile(filepath.Join(dir, "missing.yaml"), configs.New, configs.DefaultValidator)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.NewLoaderFromFile(dir, configs.New, configs.DefaultValidator)
	require.ErrorIs(t, err, api.ErrIsDirectory)
}

func TestLoader_ValidateAndLoad(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		validateErr string
		loadErr     string
	}{
		"valid": {
			input: configHeader + "ui:\n  theme: github\nlegend:\n  itemGap: 2\n",
		},
		"syntax error": {
			input:       configHeader + "legend: [unclosed\n",
			validateErr: "sequence end token ']' not found",
			loadErr:     "sequence end token ']' not found",
		},
		"missing type meta": {
			// Load only decodes, so the schema error is left to Validate.
			input:       "legend:\n  itemGap: 2\n",
			validateErr: "missing properties 'apiVersion', 'kind'",
		},
		"wrong type": {
			input:       configHeader + "legend:\n  itemGap: wide\n",
			validateErr: "itemGap",
			loadErr:     "cannot unmarshal",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cl := config.NewLoaderFromBytes([]byte(tc.input), configs.New, configs.DefaultValidator)

			err := cl.Validate()
			if tc.validateErr != "" {
				require.ErrorContains(t, err, tc.validateErr)
			} else {
				require.NoError(t, err)
			}

			cfg, err := cl.Load()
			if tc.loadErr != "" {
				require.ErrorContains(t, err, tc.loadErr)
				assert.Nil(t, cfg)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg.UI, "defaults are applied")
			assert.NotNil(t, cfg.UI.KeyBinds)
			assert.NotNil(t, cfg.Legend)
		})
	}
}

func TestLoader_WithThemeFromData(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"double quoted":    {input: configHeader + "ui:\n  theme: \"github-dark\"\n", want: "github-dark"},
		"single quoted":    {input: configHeader + "ui:\n  theme: 'monokai'\n", want: "monokai"},
		"bare":             {input: configHeader + "ui:\n  theme: dracula\n", want: "dracula"},
		"no theme":         {input: configHeader + "ui:\n  fps: 30\n"},
		"no ui":            {input: configHeader + "legend:\n  itemGap: 2\n"},
		"wrong section":    {input: configHeader + "legend:\n  theme: onedark\n"},
		"empty":            {},
		"not yaml":         {input: "this is not yaml at all!"},
		"malformed":        {input: configHeader + "ui:\n  theme: \"onedark\"\n  invalid: [unclosed", want: "onedark"},
		"trailing comment": {input: configHeader + "ui:\n  # chroma style\n  theme: solarized-dark # dark\n  fps: 30\n", want: "solarized-dark"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			want := theme.Default
			if tc.want != "" {
				want = theme.New(tc.want)
			}

			cl := config.NewLoaderFromBytes([]byte(tc.input), configs.New, configs.DefaultValidator,
				config.WithThemeFromData(),
			)

			assert.Equal(t, want.ChromaStyle.Name, cl.GetTheme().ChromaStyle.Name)
		})
	}

	// Without the option, the default theme is used.
	cl := config.NewLoaderFromBytes([]byte(configHeader+"ui:\n  theme: dracula\n"), configs.New, nil)
	assert.Equal(t, theme.Default.ChromaStyle.Name, cl.GetTheme().ChromaStyle.Name)
}

func TestLoader_WithValidator(t *testing.T) {
	t.Parallel()

	// A nil validator skips the schema.
	cl := config.NewLoaderFromBytes([]byte("legend: {}\n"), configs.New, configs.DefaultValidator,
		config.WithValidator(nil),
	)
	require.NoError(t, cl.Validate())
}

func TestLoader_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, configs.WriteDefault(path, false))

	cl, err := config.NewLoaderFromFile(path, configs.New, configs.DefaultValidator)
	require.NoError(t, err)

	cfg, err := cl.LoadValid()
	require.NoError(t, err)

	data, err := cfg.MarshalYAML()
	require.NoError(t, err)

	again, err := config.NewLoaderFromBytes(data, configs.New, configs.DefaultValidator).Load()
	require.NoError(t, err)
	assert.Equal(t, *cfg.UI.Theme, *again.UI.Theme)
	assert.Equal(t, cfg.Legend, again.Legend)
}

func TestLoader_Legend(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input  string
		errMsg string
	}{
		"valid legend": {
			input: `apiVersion: pagelegend.macropower.dev/v1beta1
kind: Legend
id: temp
title: Temperature
pieces:
  - max: 0
    color: "#313695"
  - min: 0
    max: 10
    color: "#74add1"
  - min: 10
    color: "#f46d43"
options:
  orientation: vertical
  pageIconSize: [2, 1]
`,
		},
		"unknown kind": {
			input: `apiVersion: pagelegend.macropower.dev/v1beta1
kind: Configuration
id: temp
pieces: []
`,
			errMsg: "kind",
		},
		"unknown option": {
			input: `apiVersion: pagelegend.macropower.dev/v1beta1
kind: Legend
id: temp
pieces: []
options:
  color: red
`,
			errMsg: "color",
		},
		"missing id": {
			input: `apiVersion: pagelegend.macropower.dev/v1beta1
kind: Legend
pieces: []
`,
			errMsg: "id",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cl := config.NewLoaderFromBytes([]byte(tc.input), legends.New, legends.DefaultValidator)

			err := cl.Validate()
			if tc.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)

				return
			}

			require.NoError(t, err)

			l, err := cl.Load()
			require.NoError(t, err)
			require.NoError(t, l.Validate())

			assert.Equal(t, "temp", l.ID)
			assert.Len(t, l.Pieces, 3)
			assert.Equal(t, "vertical", *l.Options.Orientation)
			assert.Equal(t, 2, l.Options.PageIconSize.Width)
		})
	}
}

func TestLoader_LoadValid(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		wantErr error
		input   string
		errMsg  string
		fail    bool
	}{
		"valid": {
			input: `apiVersion: pagelegend.macropower.dev/v1beta1
kind: Legend
id: temp
pieces:
  - min: 0
    max: 10
`,
		},
		"schema error": {
			input: `apiVersion: pagelegend.macropower.dev/v1beta1
kind: Legend
id: temp
pieces: {}
`,
			errMsg: "pieces",
		},
		"syntax error": {
			input: "id: [temp\n",
			fail:  true,
		},
		"piece bounds": {
			input: `apiVersion: pagelegend.macropower.dev/v1beta1
kind: Legend
id: temp
pieces:
  - min: 10
    max: 0
`,
			wantErr: legend.ErrInvalidPiece,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cl := config.NewLoaderFromBytes([]byte(tc.input), legends.New, legends.DefaultValidator)

			l, err := cl.LoadValid()

			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, l)
			case tc.errMsg != "":
				require.ErrorContains(t, err, tc.errMsg)
				assert.Nil(t, l)
			case tc.fail:
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, "temp", l.ID)
				assert.Len(t, l.Pieces, 1)
			}
		})
	}
}
