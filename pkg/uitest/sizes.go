package uitest

// Size represents terminal dimensions.
type Size struct {
	Width  int
	Height int
}

// Strip is a single row that fits two short pieces and the page controls.
var Strip = Size{Width: 20, Height: 1}
