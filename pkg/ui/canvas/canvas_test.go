package canvas_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/macropower/pagelegend/pkg/layout"
	"github.com/macropower/pagelegend/pkg/ui/canvas"
)

func TestCanvas_Draw(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		draw func(c *canvas.Canvas)
		want string
	}{
		"blank": {
			draw: func(*canvas.Canvas) {},
			want: "     \n     ",
		},
		"inside": {
			draw: func(c *canvas.Canvas) {
				c.Draw(layout.Point{X: 1}, "ab")
			},
			want: " ab  \n     ",
		},
		"overlapping blocks": {
			draw: func(c *canvas.Canvas) {
				c.Draw(layout.Point{}, "aaaaa\naaaaa")
				c.Draw(layout.Point{X: 2, Y: 1}, "b")
			},
			want: "aaaaa\naabaa",
		},
		"clipped left": {
			draw: func(c *canvas.Canvas) {
				c.DrawClipped(layout.Point{X: -1, Y: 1}, "xyz", layout.Rect{Size: layout.Size{Width: 2, Height: 2}})
			},
			want: "     \nyz   ",
		},
		"clipped right and below": {
			draw: func(c *canvas.Canvas) {
				c.Draw(layout.Point{X: 3, Y: 1}, "xyz\nxyz")
			},
			want: "     \n   xy",
		},
		"outside clip": {
			draw: func(c *canvas.Canvas) {
				c.DrawClipped(layout.Point{X: 3}, "xyz", layout.Rect{Size: layout.Size{Width: 2, Height: 2}})
			},
			want: "     \n     ",
		},
		"wide cells": {
			draw: func(c *canvas.Canvas) {
				c.Draw(layout.Point{}, "日本")
			},
			want: "日本 \n     ",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := canvas.New(5, 2)
			tc.draw(c)
			assert.Equal(t, tc.want, c.String())
		})
	}
}

func TestCanvas_DrawStyled(t *testing.T) {
	t.Parallel()

	c := canvas.New(6, 1)
	c.Draw(layout.Point{X: 1}, lipgloss.NewStyle().Bold(true).Render("ab"))

	got := c.String()
	assert.Equal(t, " ab   ", ansi.Strip(got))
	assert.Equal(t, 6, ansi.StringWidth(got))
}

func TestWrap(t *testing.T) {
	t.Parallel()

	got := canvas.Wrap("long label", 5)
	lines := strings.Split(got, "\n")
	assert.Len(t, lines, 2)
	for _, l := range lines {
		assert.LessOrEqual(t, ansi.StringWidth(l), 5)
	}

	assert.Equal(t, "as is", canvas.Wrap("as is", 0))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc…", canvas.Truncate("abcdef", 4, "…"))
	assert.Equal(t, "ab", canvas.Truncate("ab", 4, "…"))
	assert.Empty(t, canvas.Truncate("ab", 0, "…"))
}
