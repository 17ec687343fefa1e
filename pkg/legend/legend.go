// Package legend holds the piece model of a piecewise legend: labels,
// selection and value states.
package legend

import (
	"errors"
	"fmt"
	"slices"
)

// SelectedMode controls how pieces are selected.
type SelectedMode string

const (
	SelectedModeMultiple SelectedMode = "multiple"
	SelectedModeSingle   SelectedMode = "single"
	SelectedModeDisabled SelectedMode = "disabled"
)

// ValueState is the visual state of a value.
type ValueState string

const (
	ValueStateInRange    ValueState = "inRange"
	ValueStateOutOfRange ValueState = "outOfRange"
)

var (
	ErrInvalidSelectedMode = errors.New("invalid selected mode")
	ErrInvalidPiece        = errors.New("invalid piece")
)

// Legend is an ordered set of pieces with a selection.
type Legend struct {
	id       string
	mode     SelectedMode
	pieces   []Piece
	selected []bool
	format   NumberFormat
	inverse  bool
}

// Opt configures a [Legend].
type Opt func(*Legend)

// WithSelectedMode sets the selection mode.
func WithSelectedMode(mode SelectedMode) Opt {
	return func(l *Legend) {
		l.mode = mode
	}
}

// WithNumberFormat sets the format of generated labels.
func WithNumberFormat(f NumberFormat) Opt {
	return func(l *Legend) {
		l.format = f
	}
}

// WithInverse reverses the display order of the pieces.
func WithInverse(inverse bool) Opt {
	return func(l *Legend) {
		l.inverse = inverse
	}
}

// New creates a new [Legend]. All pieces start selected.
func New(id string, pieces []Piece, opts ...Opt) *Legend {
	l := &Legend{
		id:       id,
		mode:     SelectedModeMultiple,
		pieces:   slices.Clone(pieces),
		selected: make([]bool, len(pieces)),
	}
	for i := range l.selected {
		l.selected[i] = true
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// ValidatePieces checks that every piece has consistent bounds.
func ValidatePieces(pieces []Piece) error {
	var errs []error
	for i, p := range pieces {
		if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
			errs = append(errs, fmt.Errorf("%w: pieces[%d]: min %v is greater than max %v",
				ErrInvalidPiece, i, *p.Min, *p.Max))
		}
	}

	return errors.Join(errs...)
}

// ParseSelectedMode parses a [SelectedMode]. An empty string is
// [SelectedModeMultiple].
func ParseSelectedMode(s string) (SelectedMode, error) {
	switch m := SelectedMode(s); m {
	case "":
		return SelectedModeMultiple, nil
	case SelectedModeMultiple, SelectedModeSingle, SelectedModeDisabled:
		return m, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidSelectedMode, s)
}

// ID returns the legend ID.
func (l *Legend) ID() string {
	return l.id
}

// Len returns the number of pieces.
func (l *Legend) Len() int {
	return len(l.pieces)
}

// Piece returns the piece with index i.
func (l *Legend) Piece(i int) Piece {
	return l.pieces[i]
}

// Label returns the label of the piece with index i.
func (l *Legend) Label(i int) string {
	return l.format.Label(l.pieces[i])
}

// Order returns the piece indices in display order.
func (l *Legend) Order() []int {
	order := make([]int, len(l.pieces))
	for i := range order {
		order[i] = i
	}
	if l.inverse {
		slices.Reverse(order)
	}

	return order
}

// Interactive reports whether pieces can be selected.
func (l *Legend) Interactive() bool {
	return l.mode != SelectedModeDisabled
}

// Selected reports whether the piece with index i is selected.
func (l *Legend) Selected(i int) bool {
	return l.selected[i]
}

// Toggle flips the selection of the piece with index i. In single mode the
// piece becomes the only selected piece. It reports whether the selection
// changed.
func (l *Legend) Toggle(i int) bool {
	if !l.Interactive() || i < 0 || i >= len(l.pieces) {
		return false
	}

	if l.mode == SelectedModeSingle {
		changed := false
		for j := range l.selected {
			want := j == i
			if l.selected[j] != want {
				l.selected[j] = want
				changed = true
			}
		}

		return changed
	}

	l.selected[i] = !l.selected[i]

	return true
}

// FindPiece returns the index of the first piece containing v, or -1.
func (l *Legend) FindPiece(v float64) int {
	for i, p := range l.pieces {
		if p.Contains(v) {
			return i
		}
	}

	return -1
}

// ValueState returns the visual state of v.
func (l *Legend) ValueState(v float64) ValueState {
	if i := l.FindPiece(v); i >= 0 && l.selected[i] {
		return ValueStateInRange
	}

	return ValueStateOutOfRange
}
