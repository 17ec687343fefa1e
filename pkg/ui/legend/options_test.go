package legend_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/pagelegend/pkg/layout"
	"github.com/macropower/pagelegend/pkg/legend"
	"github.com/macropower/pagelegend/pkg/yaml"

	uilegend "github.com/macropower/pagelegend/pkg/ui/legend"
)

func TestOptions_Merge(t *testing.T) {
	t.Parallel()

	base := &uilegend.Options{
		ItemGap:       ptr(4),
		Orientation:   ptr("vertical"),
		PageIcons:     &uilegend.PageIcons{Horizontal: []string{"<", ">"}},
		PageTextStyle: &uilegend.TextStyle{Color: ptr("#fff"), Bold: ptr(true)},
	}

	o := &uilegend.Options{
		ItemGap:       ptr(2),
		PageTextStyle: &uilegend.TextStyle{Color: ptr("#000")},
	}
	o.Merge(base)

	assert.Equal(t, 2, *o.ItemGap)
	assert.Equal(t, "vertical", *o.Orientation)
	assert.Equal(t, []string{"<", ">"}, o.PageIcons.Horizontal)
	assert.Equal(t, "#000", *o.PageTextStyle.Color)
	assert.True(t, *o.PageTextStyle.Bold)

	// The base is not modified through the merged options.
	*o.Orientation = "horizontal"
	*o.PageTextStyle.Bold = false
	assert.Equal(t, "vertical", *base.Orientation)
	assert.True(t, *base.PageTextStyle.Bold)

	o.Merge(nil)
	assert.Equal(t, 2, *o.ItemGap)
}

func TestOptions_EnsureDefaults(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts    *uilegend.Options
		inverse bool
	}{
		"horizontal": {
			opts:    &uilegend.Options{},
			inverse: false,
		},
		"vertical": {
			opts:    &uilegend.Options{Orientation: ptr("vertical")},
			inverse: true,
		},
		"vertical not inverted": {
			opts:    &uilegend.Options{Orientation: ptr("vertical"), Inverse: ptr(false)},
			inverse: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tc.opts.EnsureDefaults()
			require.NotNil(t, tc.opts.Inverse)
			assert.Equal(t, tc.inverse, *tc.opts.Inverse)
			assert.Equal(t, uilegend.DefaultItemGap, *tc.opts.ItemGap)
			assert.Equal(t, uilegend.DefaultItemSymbol, *tc.opts.ItemSymbol)
		})
	}
}

func TestOptions_Resolve(t *testing.T) {
	t.Parallel()

	s, err := uilegend.NewOptions().Resolve()
	require.NoError(t, err)

	assert.Equal(t, layout.Horizontal, s.Layout.Orientation)
	assert.Equal(t, layout.End, s.Layout.PageButtonPosition)
	assert.Nil(t, s.Layout.PageButtonGap)
	assert.Equal(t, uilegend.DefaultPageButtonItemGap, s.Layout.PageButtonItemGap)
	assert.Equal(t, "◀", s.PrevIcon)
	assert.Equal(t, "▶", s.NextIcon)
	assert.Equal(t, uilegend.DefaultAnimationDurationUpdate, s.Duration)
	assert.Equal(t, legend.SelectedModeMultiple, s.SelectedMode)
	assert.Equal(t, layout.Size{Width: 1, Height: 1}, s.IconSize)
	require.NotNil(t, s.Formatter)

	vs, err := (&uilegend.Options{
		Orientation:             ptr("vertical"),
		PageButtonGap:           ptr(3),
		AnimationDurationUpdate: ptr("1s"),
		PageFormatter:           ptr(""),
	}).Resolve()
	require.NoError(t, err)

	assert.Equal(t, "▲", vs.PrevIcon)
	assert.Equal(t, "▼", vs.NextIcon)
	assert.Equal(t, time.Second, vs.Duration)
	assert.True(t, vs.Inverse)
	assert.Nil(t, vs.Formatter)
	require.NotNil(t, vs.Layout.PageButtonGap)
	assert.Equal(t, 3, *vs.Layout.PageButtonGap)
}

func TestOptions_ResolveErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts *uilegend.Options
		want string
	}{
		"orientation": {
			opts: &uilegend.Options{Orientation: ptr("diagonal")},
			want: `orientation: unknown value "diagonal"`,
		},
		"position": {
			opts: &uilegend.Options{PageButtonPosition: ptr("middle")},
			want: `pageButtonPosition: unknown value "middle"`,
		},
		"mode": {
			opts: &uilegend.Options{SelectedMode: ptr("some")},
			want: "selectedMode",
		},
		"duration": {
			opts: &uilegend.Options{AnimationDurationUpdate: ptr("soon")},
			want: "animationDurationUpdate",
		},
		"expression": {
			opts: &uilegend.Options{PageFormatter: ptr("expr: current +")},
			want: "pageFormatter",
		},
		"icons": {
			opts: &uilegend.Options{PageIcons: &uilegend.PageIcons{Horizontal: []string{"<"}}},
			want: "pageIcons.horizontal: expected 2 icons, got 1",
		},
		"icon size": {
			opts: &uilegend.Options{PageIconSize: &uilegend.IconSize{Width: 0, Height: 1}},
			want: "pageIconSize: must be at least 1",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := tc.opts.Resolve()
			require.ErrorIs(t, err, uilegend.ErrInvalidOptions)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestIconSize(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  uilegend.IconSize
		err   bool
	}{
		"uniform": {
			input: "size: 2\n",
			want:  uilegend.IconSize{Width: 2, Height: 2},
		},
		"pair": {
			input: "size: [3, 1]\n",
			want:  uilegend.IconSize{Width: 3, Height: 1},
		},
		"too many": {
			input: "size: [1, 2, 3]\n",
			err:   true,
		},
		"string": {
			input: "size: big\n",
			err:   true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var got struct {
				Size uilegend.IconSize `json:"size"`
			}

			err := yaml.NewDecoder(strings.NewReader(tc.input)).Decode(&got)
			if tc.err {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Size)
		})
	}
}

func TestSettings_NewLegend(t *testing.T) {
	t.Parallel()

	s := newSettings(t, &uilegend.Options{
		Orientation:  ptr("vertical"),
		SelectedMode: ptr("single"),
	})

	l := s.NewLegend("temp", newPieces("a", "b", "c"))
	assert.Equal(t, "temp", l.ID())
	assert.Equal(t, []int{2, 1, 0}, l.Order())

	require.True(t, l.Toggle(1))
	assert.False(t, l.Selected(0))
	assert.True(t, l.Selected(1))
}
