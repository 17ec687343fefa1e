package legend

import (
	"github.com/dustin/go-humanize"
)

// Piece is a discrete value range of a legend.
type Piece struct {
	// Min is the inclusive lower bound. Nil means unbounded.
	Min *float64 `json:"min,omitempty" jsonschema:"title=Min"`
	// Max is the inclusive upper bound. Nil means unbounded.
	Max *float64 `json:"max,omitempty" jsonschema:"title=Max"`
	// Value matches exactly one value. It takes precedence over Min and Max.
	Value *float64 `json:"value,omitempty" jsonschema:"title=Value"`
	// Label is the text shown next to the symbol. Generated when empty.
	Label string `json:"label,omitempty" jsonschema:"title=Label"`
	// Color of the symbol.
	Color string `json:"color,omitempty" jsonschema:"title=Color"`
}

// Contains reports whether v falls in the piece.
func (p Piece) Contains(v float64) bool {
	if p.Value != nil {
		return *p.Value == v
	}
	if p.Min != nil && v < *p.Min {
		return false
	}
	if p.Max != nil && v > *p.Max {
		return false
	}

	return true
}

// NumberFormat controls how generated labels render numbers.
type NumberFormat struct {
	// Unit is appended to SI formatted numbers.
	Unit string `json:"unit,omitempty" jsonschema:"title=Unit"`
	// Precision is the maximum number of decimals.
	Precision int `json:"precision,omitempty" jsonschema:"title=Precision,minimum=0"`
	// SIUnits formats numbers with SI prefixes, e.g. "1.5 k".
	SIUnits bool `json:"siUnits,omitempty" jsonschema:"title=SI Units"`
}

// Number formats a single number.
func (f NumberFormat) Number(v float64) string {
	if f.SIUnits {
		return humanize.SIWithDigits(v, f.Precision, f.Unit)
	}

	return humanize.FtoaWithDigits(v, f.Precision)
}

// Label returns the label of p, generating one from its bounds when the
// piece has none.
func (f NumberFormat) Label(p Piece) string {
	if p.Label != "" {
		return p.Label
	}

	switch {
	case p.Value != nil:
		return f.Number(*p.Value)
	case p.Min != nil && p.Max != nil:
		return f.Number(*p.Min) + " - " + f.Number(*p.Max)
	case p.Max != nil:
		return "< " + f.Number(*p.Max)
	case p.Min != nil:
		return "> " + f.Number(*p.Min)
	}

	return "*"
}
