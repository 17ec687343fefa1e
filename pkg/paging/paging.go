// Package paging computes the page window of a legend whose items have
// independently measured extents along one axis.
//
// Pages are always aligned to the leading edge of their first item. An item
// that is cut by the trailing edge of the window starts the next page, so
// every item is fully shown on some page. Page boundaries are found by
// scanning forward and backward from the anchor item, so item extents may
// vary freely.
package paging

// NoIndex marks an [Item] without a valid index, and an absent neighbour in
// [Info].
const NoIndex = -1

// NoPage is the [Info.PageIndex] of an empty item sequence.
const NoPage = -1

// Number is the set of types item extents can be measured in.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Axis selects the primary (scroll) axis.
type Axis int

const (
	// Horizontal pages along the x axis.
	Horizontal Axis = iota
	// Vertical pages along the y axis.
	Vertical
)

// Item is the measured extent of a single legend item along the primary axis.
type Item[N Number] struct {
	// Index identifies the item across renders. It is [NoIndex] for items
	// that cannot be scrolled to.
	Index int
	Start N
	End   N
}

// HasIndex reports whether the item carries a valid index.
func (it Item[N]) HasIndex() bool {
	return it.Index != NoIndex
}

// Info describes the page containing the anchor item.
type Info[N Number] struct {
	// ContentOffset is the translation that aligns the anchor page to the
	// leading edge of the viewport.
	ContentOffset [2]N
	PageCount     int
	// PageIndex is the zero-based page of the anchor, or [NoPage].
	PageIndex int
	// PrevIndex and NextIndex are the item indices to scroll to, or [NoIndex].
	PrevIndex int
	NextIndex int
}

// HasPage reports whether a page was resolved.
func (i Info[N]) HasPage() bool {
	return i.PageIndex != NoPage
}

// HasPrev reports whether a previous page exists.
func (i Info[N]) HasPrev() bool {
	return i.PrevIndex != NoIndex
}

// HasNext reports whether a next page exists.
func (i Info[N]) HasNext() bool {
	return i.NextIndex != NoIndex
}

// Current returns the one-based page number, or zero when there is no page.
func (i Info[N]) Current() int {
	if !i.HasPage() {
		return 0
	}

	return i.PageIndex + 1
}

// Calculator computes [Info] for a fixed axis.
type Calculator[N Number] struct {
	axis Axis
}

// CalculatorOpt configures a [Calculator].
type CalculatorOpt func(*calculatorOptions)

type calculatorOptions struct {
	axis Axis
}

// WithAxis sets which component of [Info.ContentOffset] is the primary axis.
func WithAxis(axis Axis) CalculatorOpt {
	return func(o *calculatorOptions) {
		o.axis = axis
	}
}

// NewCalculator creates a new [Calculator].
func NewCalculator[N Number](opts ...CalculatorOpt) *Calculator[N] {
	o := &calculatorOptions{axis: Horizontal}
	for _, opt := range opts {
		opt(o)
	}

	return &Calculator[N]{axis: o.axis}
}

// Compute is shorthand for a horizontal [Calculator.Compute].
func Compute[N Number](items []Item[N], containerSize N, anchor int) Info[N] {
	return NewCalculator[N]().Compute(items, containerSize, anchor)
}

// Resolve returns the display position of the item whose index equals anchor.
// If there is no such item, the position of the first item with a valid index
// is returned. It returns -1 if no item carries a valid index.
func Resolve[N Number](items []Item[N], anchor int) int {
	fallback := -1

	for pos, it := range items {
		if !it.HasIndex() {
			continue
		}
		if it.Index == anchor {
			return pos
		}
		if fallback == -1 {
			fallback = pos
		}
	}

	return fallback
}

// Compute returns the page containing the anchor item.
func (c *Calculator[N]) Compute(items []Item[N], containerSize N, anchor int) Info[N] {
	return c.ComputeAt(items, containerSize, Resolve(items, anchor))
}

// ComputeAt returns the page containing the item at display position pos.
// A pos outside of items yields the degenerate [Info] of an unresolved anchor.
func (c *Calculator[N]) ComputeAt(items []Item[N], containerSize N, pos int) Info[N] {
	info := Info[N]{
		PageCount: 1,
		PageIndex: 0,
		PrevIndex: NoIndex,
		NextIndex: NoIndex,
	}
	if len(items) == 0 {
		info.PageCount = 0
		info.PageIndex = NoPage

		return info
	}
	if pos < 0 || pos >= len(items) {
		return info
	}

	w := window[N]{items: items, size: containerSize}

	info.ContentOffset[c.axis] = -items[pos].Start

	w.forward(pos, &info)
	w.backward(pos, &info)

	return info
}

// window scans items relative to a page whose start is [window.start].
// Positions are display positions into items; len(items) and -1 are the
// sentinels past either end.
type window[N Number] struct {
	items []Item[N]
	size  N
}

func (w window[N]) at(pos int) (Item[N], bool) {
	if pos < 0 || pos >= len(w.items) {
		return Item[N]{}, false
	}

	return w.items[pos], true
}

// intersects reports whether it overlaps the window starting at start.
func (w window[N]) intersects(it Item[N], start N) bool {
	return it.End >= start && it.Start <= start+w.size
}

func (w window[N]) forward(anchor int, info *Info[N]) {
	start, end := anchor, anchor

	for pos := anchor + 1; pos <= len(w.items); pos++ {
		curr, ok := w.at(pos)

		winStart := w.items[start]
		boundary := ok && !w.intersects(curr, winStart.Start)
		if !ok {
			// The last item is cut by the trailing edge.
			boundary = w.items[end].End > winStart.Start+w.size
		}

		if boundary {
			if end > start {
				start = end
			} else {
				// The window holds a single item larger than the container.
				start = pos
			}

			if start < len(w.items) {
				if info.NextIndex == NoIndex && w.items[start].HasIndex() {
					info.NextIndex = w.items[start].Index
				}
				info.PageCount++
			}
		}

		end = pos
	}
}

func (w window[N]) backward(anchor int, info *Info[N]) {
	start, end := anchor, anchor

	for pos := anchor - 1; pos >= -1; pos-- {
		curr, ok := w.at(pos)

		boundary := !ok || !w.intersects(w.items[end], curr.Start)
		// A single oversized item never settles a page by itself.
		if boundary && start < end {
			end = start
			if info.PrevIndex == NoIndex && w.items[start].HasIndex() {
				info.PrevIndex = w.items[start].Index
			}
			info.PageCount++
			info.PageIndex++
		}

		start = pos
	}
}
