package legends_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/pagelegend/api/v1beta1"
	"github.com/macropower/pagelegend/api/v1beta1/legends"
	"github.com/macropower/pagelegend/pkg/layout"
	"github.com/macropower/pagelegend/pkg/legend"

	uilegend "github.com/macropower/pagelegend/pkg/ui/legend"
)

func TestNew(t *testing.T) {
	t.Parallel()

	l := legends.New()

	assert.Equal(t, v1beta1.APIVersion, l.GetAPIVersion())
	assert.Equal(t, legends.Kind, l.GetKind())
	assert.NotNil(t, l.Options)
	assert.NotNil(t, l.Pieces)
	assert.Empty(t, l.Pieces)
}

func TestLegend_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		legend *legends.Legend
		err    error
	}{
		"valid": {
			legend: &legends.Legend{
				ID:     "temp",
				Pieces: []legend.Piece{{Min: ptr(0.0), Max: ptr(10.0)}},
			},
		},
		"missing id": {
			legend: &legends.Legend{},
			err:    legends.ErrMissingID,
		},
		"min greater than max": {
			legend: &legends.Legend{
				ID:     "temp",
				Pieces: []legend.Piece{{Min: ptr(10.0), Max: ptr(0.0)}},
			},
			err: legend.ErrInvalidPiece,
		},
		"equal bounds": {
			legend: &legends.Legend{
				ID:     "temp",
				Pieces: []legend.Piece{{Min: ptr(5.0), Max: ptr(5.0)}},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.legend.Validate()
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestLegend_Settings(t *testing.T) {
	t.Parallel()

	base := &uilegend.Options{
		ItemGap:                 ptr(3),
		Orientation:             ptr("vertical"),
		AnimationDurationUpdate: ptr("200ms"),
	}

	tcs := map[string]struct {
		options  *uilegend.Options
		check    func(t *testing.T, s uilegend.Settings)
		base     *uilegend.Options
		errMatch string
	}{
		"inherits base": {
			base: base,
			check: func(t *testing.T, s uilegend.Settings) {
				t.Helper()

				assert.Equal(t, 3, s.Layout.ItemGap)
				assert.Equal(t, layout.Vertical, s.Layout.Orientation)
				assert.Equal(t, 200*time.Millisecond, s.Duration)
				assert.True(t, s.Inverse)
			},
		},
		"overrides base": {
			options: &uilegend.Options{
				ItemGap:     ptr(0),
				Orientation: ptr("horizontal"),
			},
			base: base,
			check: func(t *testing.T, s uilegend.Settings) {
				t.Helper()

				assert.Equal(t, 0, s.Layout.ItemGap)
				assert.Equal(t, layout.Horizontal, s.Layout.Orientation)
				assert.Equal(t, 200*time.Millisecond, s.Duration)
				assert.False(t, s.Inverse)
			},
		},
		"no base": {
			check: func(t *testing.T, s uilegend.Settings) {
				t.Helper()

				assert.Equal(t, uilegend.DefaultItemGap, s.Layout.ItemGap)
				assert.Equal(t, uilegend.DefaultAnimationDurationUpdate, s.Duration)
				assert.Equal(t, uilegend.DefaultItemSymbol, s.ItemSymbol)
			},
		},
		"invalid option": {
			options:  &uilegend.Options{Orientation: ptr("diagonal")},
			base:     base,
			errMatch: `"diagonal"`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l := &legends.Legend{ID: "temp", Options: tc.options}

			s, err := l.Settings(tc.base)
			if tc.errMatch != "" {
				require.ErrorIs(t, err, uilegend.ErrInvalidOptions)
				assert.Contains(t, err.Error(), tc.errMatch)
				assert.Contains(t, err.Error(), `legend "temp"`)

				return
			}

			require.NoError(t, err)
			tc.check(t, s)
		})
	}
}

func TestLegend_SettingsKeepsBase(t *testing.T) {
	t.Parallel()

	base := &uilegend.Options{ItemGap: ptr(3)}
	l := &legends.Legend{ID: "temp", Options: &uilegend.Options{}}

	_, err := l.Settings(base)
	require.NoError(t, err)

	// Resolving must not write defaults back into either side.
	assert.Nil(t, l.Options.ItemGap)
	assert.Nil(t, base.Orientation)
}

func TestLegend_MarshalYAML(t *testing.T) {
	t.Parallel()

	l := legends.New()
	l.ID = "temp"
	l.Title = "Temperature"
	l.Pieces = []legend.Piece{{Label: "cold", Max: ptr(0.0)}}

	b, err := l.MarshalYAML()
	require.NoError(t, err)

	out := string(b)
	assert.Contains(t, out, "id: temp")
	assert.Contains(t, out, "title: Temperature")
	assert.Contains(t, out, "label: cold")
	assert.Contains(t, out, "apiVersion: "+v1beta1.APIVersion)
	assert.Contains(t, out, "kind: Legend")
}

func TestDefaultValidator(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		doc  map[string]any
		fail bool
	}{
		"valid": {
			doc: map[string]any{
				"apiVersion": v1beta1.APIVersion,
				"kind":       legends.Kind,
				"id":         "temp",
				"pieces":     []any{map[string]any{"label": "cold", "max": 0}},
			},
		},
		"wrong kind": {
			doc: map[string]any{
				"apiVersion": v1beta1.APIVersion,
				"kind":       "Config",
				"id":         "temp",
			},
			fail: true,
		},
		"missing id": {
			doc: map[string]any{
				"apiVersion": v1beta1.APIVersion,
				"kind":       legends.Kind,
			},
			fail: true,
		},
		"bad orientation": {
			doc: map[string]any{
				"apiVersion": v1beta1.APIVersion,
				"kind":       legends.Kind,
				"id":         "temp",
				"options":    map[string]any{"orientation": "diagonal"},
			},
			fail: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := legends.DefaultValidator.Validate(tc.doc)
			if tc.fail {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
