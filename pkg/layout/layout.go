// Package layout arranges legend items and the page controls into a bounded
// viewport, and decides the clip region and scroll position of the items.
package layout

import (
	"github.com/macropower/pagelegend/pkg/paging"
)

// Control identifies a box of the control cluster.
type Control int

const (
	ControlPrev Control = iota
	ControlText
	ControlNext

	numControls
)

// Options configure an [Engine].
type Options struct {
	// PageButtonGap is the gap between the controls and the items. When nil,
	// ItemGap is used.
	PageButtonGap      *int
	Orientation        Orientation
	PageButtonPosition Position
	ItemGap            int
	PageButtonItemGap  int
}

func (o Options) pageButtonGap() int {
	if o.PageButtonGap != nil {
		return *o.PageButtonGap
	}

	return o.ItemGap
}

// Item is a measured legend item.
type Item struct {
	// Index is the stable item index, or [paging.NoIndex].
	Index int
	Size  Size
}

// Input is everything a single layout pass depends on.
type Input struct {
	Items []Item
	// Controls holds the sizes of the prev button, page text and next button.
	Controls [numControls]Size
	// Max is the space available to the legend.
	Max Size
	// Current is the position the items are currently displayed at, which
	// may be mid-transition.
	Current Point
	// Anchor is the item index the page is defined relative to.
	Anchor int
}

// Result is the outcome of a layout pass. Positions of items are relative to
// the content, the content is relative to the container, and the container
// and controller are relative to the legend origin.
type Result struct {
	Items    []Rect
	Controls [numControls]Rect

	Page paging.Info[int]

	// From is where the items start this pass. To is where they should end
	// up according to [Result.Page].
	From Point
	To   Point

	Container  Point
	Controller Point

	// Clip restricts the visible part of the content, relative to the container.
	Clip Rect
	// Main is the area occupied by the legend, excluding clipped overflow.
	Main Rect

	ContentRect    Rect
	ControllerRect Rect

	// ContainerSize is the primary extent the items are paged in.
	ContainerSize int

	ShowControls bool
	// ControlsVisible and ControlsInteractive are false when the controls are
	// kept only as placeholders.
	ControlsVisible     bool
	ControlsInteractive bool
	// Animate is set when the move from From to To should be animated.
	Animate bool
}

// Engine performs layout passes for one legend instance.
type Engine struct {
	calc        *paging.Calculator[int]
	opts        Options
	firstRender bool
}

// NewEngine creates a new [Engine].
func NewEngine(opts Options) *Engine {
	e := &Engine{firstRender: true}
	e.SetOptions(opts)

	return e
}

// SetOptions replaces the options used by subsequent passes.
func (e *Engine) SetOptions(opts Options) {
	if opts.Orientation == "" {
		opts.Orientation = Horizontal
	}
	if opts.PageButtonPosition == "" {
		opts.PageButtonPosition = End
	}

	e.opts = opts
	e.calc = paging.NewCalculator[int](paging.WithAxis(opts.Orientation.Axis()))
}

// Options returns the active options.
func (e *Engine) Options() Options {
	return e.opts
}

// FirstRender reports whether the next pass is the first one.
func (e *Engine) FirstRender() bool {
	return e.firstRender
}

// Layout performs a single pass.
func (e *Engine) Layout(in Input) Result {
	firstRender := e.firstRender
	e.firstRender = false

	axis := e.opts.Orientation.Axis()
	crossAxis := cross(axis)

	sizes := make([]Size, 0, len(in.Items))
	for _, it := range in.Items {
		sizes = append(sizes, it.Size)
	}

	items, contentRect := Flow(e.opts.Orientation, e.opts.ItemGap, sizes)

	// Controls are always laid out horizontally.
	controls, controllerRect := Flow(Horizontal, e.opts.PageButtonItemGap, in.Controls[:])
	center(Horizontal, controls, controllerRect)

	maxPrimary := in.Max.Along(axis)
	ctrlPrimary := controllerRect.Size.Along(axis)
	gap := e.opts.pageButtonGap()

	res := Result{
		Items:          items,
		ContentRect:    contentRect,
		ControllerRect: controllerRect,
		ShowControls:   contentRect.Size.Along(axis) > maxPrimary,
	}
	copy(res.Controls[:], controls)

	// Keep the displayed position so an in-flight transition continues from it.
	from := Point{X: -contentRect.X, Y: -contentRect.Y}
	if !firstRender {
		from.set(axis, in.Current.Along(axis))
	}

	if res.ShowControls {
		if e.opts.PageButtonPosition == End {
			res.Controller.set(axis, maxPrimary-ctrlPrimary)
		} else {
			res.Container.set(axis, ctrlPrimary+gap)
		}
	}

	contentCross := contentRect.Size.Along(crossAxis)
	ctrlCross := controllerRect.Size.Along(crossAxis)
	res.Controller.set(crossAxis, res.Controller.Along(crossAxis)+(contentCross-ctrlCross)/2)

	if res.ShowControls {
		res.Main.Size.set(axis, maxPrimary)
	} else {
		res.Main.Size.set(axis, contentRect.Size.Along(axis))
	}
	res.Main.Size.set(crossAxis, max(contentCross, ctrlCross))
	res.Main.Point.set(crossAxis, min(0, controllerRect.Point.Along(crossAxis)+res.Controller.Along(crossAxis)))

	res.ContainerSize = maxPrimary
	if res.ShowControls {
		res.Clip.Size.set(axis, max(maxPrimary-ctrlPrimary-gap, 0))
		res.Clip.Size.set(crossAxis, res.Main.Size.Along(crossAxis))
		res.ContainerSize = res.Clip.Size.Along(axis)
	}

	res.ControlsVisible = res.ShowControls
	res.ControlsInteractive = res.ShowControls

	pagingItems := make([]paging.Item[int], 0, len(items))
	for i, r := range items {
		start := r.Point.Along(axis)
		pagingItems = append(pagingItems, paging.Item[int]{
			Index: in.Items[i].Index,
			Start: start,
			End:   start + r.Size.Along(axis),
		})
	}

	pos := 0
	if res.ShowControls {
		pos = paging.Resolve(pagingItems, in.Anchor)
	}

	res.Page = e.calc.ComputeAt(pagingItems, res.ContainerSize, pos)

	res.From = from
	res.To = from
	if res.Page.HasPage() && pos >= 0 && pos < len(pagingItems) {
		res.To.set(axis, res.Page.ContentOffset[axis])
	}

	res.Animate = res.ShowControls

	return res
}
