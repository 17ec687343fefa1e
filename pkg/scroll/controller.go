// Package scroll implements the page controls of a scrollable legend.
//
// A [Controller] is refreshed with the [paging.Info] of every layout pass.
// Its triggers never change the anchor themselves: they return an
// [anchor.ScrollRequest] that the caller submits to an [anchor.Dispatcher].
package scroll

import (
	"github.com/macropower/pagelegend/pkg/anchor"
	"github.com/macropower/pagelegend/pkg/paging"
)

// Default control colors.
const (
	DefaultActiveColor   = "#2f4554"
	DefaultInactiveColor = "#aaa"
)

// Button is the state of a prev or next control.
type Button struct {
	Color   string
	Target  int
	Enabled bool
}

// Controller holds the state of the page controls of one legend.
type Controller struct {
	formatter     Formatter
	legendID      string
	activeColor   string
	inactiveColor string
	text          string
	info          paging.Info[int]
}

// ControllerOpt configures a [Controller].
type ControllerOpt func(*Controller)

// WithFormatter sets the page indicator formatter. A nil formatter renders
// no indicator text.
func WithFormatter(f Formatter) ControllerOpt {
	return func(c *Controller) {
		c.formatter = f
	}
}

// WithColors sets the active and inactive control colors.
func WithColors(active, inactive string) ControllerOpt {
	return func(c *Controller) {
		if active != "" {
			c.activeColor = active
		}
		if inactive != "" {
			c.inactiveColor = inactive
		}
	}
}

// NewController creates a new [Controller] for the legend with legendID.
func NewController(legendID string, opts ...ControllerOpt) *Controller {
	c := &Controller{
		legendID:      legendID,
		formatter:     Template(DefaultTemplate),
		activeColor:   DefaultActiveColor,
		inactiveColor: DefaultInactiveColor,
		info: paging.Info[int]{
			PageIndex: paging.NoPage,
			PrevIndex: paging.NoIndex,
			NextIndex: paging.NoIndex,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.text = c.format(c.info)

	return c
}

// Update refreshes the controls from the result of a layout pass.
func (c *Controller) Update(info paging.Info[int]) {
	c.info = info
	c.text = c.format(info)
}

// Info returns the [paging.Info] of the last pass.
func (c *Controller) Info() paging.Info[int] {
	return c.info
}

// Text returns the page indicator text.
func (c *Controller) Text() string {
	return c.text
}

// Placeholder returns the indicator text for n of n pages. It is used to
// reserve space for the indicator before the page count is known.
func (c *Controller) Placeholder(n int) string {
	return c.format(paging.Info[int]{PageIndex: n - 1, PageCount: n})
}

// Buttons returns the prev and next control states.
func (c *Controller) Buttons() (Button, Button) {
	return c.button(c.info.PrevIndex), c.button(c.info.NextIndex)
}

// PageBack returns the request for the previous page, or nil.
func (c *Controller) PageBack() *anchor.ScrollRequest {
	return c.request(c.info.PrevIndex)
}

// PageForward returns the request for the next page, or nil.
func (c *Controller) PageForward() *anchor.ScrollRequest {
	return c.request(c.info.NextIndex)
}

func (c *Controller) request(target int) *anchor.ScrollRequest {
	if target == paging.NoIndex {
		return nil
	}

	req := anchor.NewScrollRequest(target, c.legendID)

	return &req
}

func (c *Controller) button(target int) Button {
	b := Button{Target: target, Enabled: target != paging.NoIndex, Color: c.inactiveColor}
	if b.Enabled {
		b.Color = c.activeColor
	}

	return b
}

func (c *Controller) format(info paging.Info[int]) string {
	if c.formatter == nil {
		return ""
	}

	return c.formatter.Format(Page{
		Current: info.Current(),
		Total:   info.PageCount,
		HasPage: info.HasPage(),
	})
}
