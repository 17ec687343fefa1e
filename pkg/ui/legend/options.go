package legend

import (
	"errors"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"

	xstrings "github.com/charmbracelet/x/exp/strings"

	"github.com/macropower/pagelegend/pkg/layout"
	"github.com/macropower/pagelegend/pkg/legend"
	"github.com/macropower/pagelegend/pkg/scroll"
)

// Default option values.
const (
	DefaultItemGap                 = 1
	DefaultPageButtonItemGap       = 5
	DefaultPageIconColor           = scroll.DefaultActiveColor
	DefaultPageIconInactiveColor   = scroll.DefaultInactiveColor
	DefaultPageTextColor           = "#333"
	DefaultAnimationDurationUpdate = 800 * time.Millisecond
	DefaultItemSymbol              = "■"
	DefaultTextGap                 = 1
)

var ErrInvalidOptions = errors.New("invalid legend options")

// Options are the recognized options of a scrollable legend. Unset fields
// take their value from the global configuration, then from the defaults.
type Options struct {
	// Orientation is the direction pieces are laid out and paged in.
	Orientation *string `json:"orientation,omitempty" jsonschema:"title=Orientation,enum=horizontal,enum=vertical"`
	// ItemGap is the gap between pieces.
	ItemGap *int `json:"itemGap,omitempty" jsonschema:"title=Item Gap,minimum=0"`
	// PageButtonItemGap is the gap between the page buttons and the page text.
	PageButtonItemGap *int `json:"pageButtonItemGap,omitempty" jsonschema:"title=Page Button Item Gap,minimum=0"`
	// PageButtonGap is the gap between the page controls and the pieces.
	// Defaults to ItemGap.
	PageButtonGap *int `json:"pageButtonGap,omitempty" jsonschema:"title=Page Button Gap,minimum=0"`
	// PageButtonPosition places the page controls before or after the pieces.
	PageButtonPosition *string `json:"pageButtonPosition,omitempty" jsonschema:"title=Page Button Position,enum=start,enum=end"`
	// PageFormatter renders the page text. Either a template with {current}
	// and {total}, "dots", or a CEL expression prefixed with "expr:".
	// An empty string hides the page text.
	PageFormatter *string `json:"pageFormatter,omitempty" jsonschema:"title=Page Formatter"`
	// PageIcons are the prev and next icons per orientation.
	PageIcons *PageIcons `json:"pageIcons,omitempty" jsonschema:"title=Page Icons"`
	// PageIconColor is the color of enabled page buttons.
	PageIconColor *string `json:"pageIconColor,omitempty" jsonschema:"title=Page Icon Color"`
	// PageIconInactiveColor is the color of disabled page buttons.
	PageIconInactiveColor *string `json:"pageIconInactiveColor,omitempty" jsonschema:"title=Page Icon Inactive Color"`
	// PageIconSize is the cell size of the page buttons.
	PageIconSize *IconSize `json:"pageIconSize,omitempty" jsonschema:"title=Page Icon Size"`
	// PageTextStyle is the style of the page text.
	PageTextStyle *TextStyle `json:"pageTextStyle,omitempty" jsonschema:"title=Page Text Style"`
	// SelectedMode controls piece selection.
	SelectedMode *string `json:"selectedMode,omitempty" jsonschema:"title=Selected Mode,enum=single,enum=multiple,enum=disabled"`
	// AnimationDurationUpdate is the duration of the page transition, e.g. "800ms".
	AnimationDurationUpdate *string `json:"animationDurationUpdate,omitempty" jsonschema:"title=Animation Duration"`
	// Animation enables the page transition.
	Animation *bool `json:"animation,omitempty" jsonschema:"title=Animation"`
	// ScrollDataIndex is the initial anchor piece index.
	ScrollDataIndex *int `json:"scrollDataIndex,omitempty" jsonschema:"title=Scroll Data Index"`
	// Padding is the space around the legend.
	Padding *int `json:"padding,omitempty" jsonschema:"title=Padding,minimum=0"`
	// TextGap is the gap between a piece symbol and its label.
	TextGap *int `json:"textGap,omitempty" jsonschema:"title=Text Gap,minimum=0"`
	// ItemSymbol is drawn in the piece color before each label.
	ItemSymbol *string `json:"itemSymbol,omitempty" jsonschema:"title=Item Symbol"`
	// ShowLabel shows piece labels.
	ShowLabel *bool `json:"showLabel,omitempty" jsonschema:"title=Show Label"`
	// Inverse reverses the display order of the pieces. Defaults to true for
	// vertical legends.
	Inverse *bool `json:"inverse,omitempty" jsonschema:"title=Inverse"`
	// NumberFormat formats generated piece labels.
	NumberFormat *legend.NumberFormat `json:"numberFormat,omitempty" jsonschema:"title=Number Format"`
}

// PageIcons are the prev and next icons for each orientation.
type PageIcons struct {
	Horizontal []string `json:"horizontal,omitempty" jsonschema:"title=Horizontal,minItems=2,maxItems=2"`
	Vertical   []string `json:"vertical,omitempty"   jsonschema:"title=Vertical,minItems=2,maxItems=2"`
}

// TextStyle is a minimal text style.
type TextStyle struct {
	Color *string `json:"color,omitempty" jsonschema:"title=Color"`
	Bold  *bool   `json:"bold,omitempty"  jsonschema:"title=Bold"`
}

// IconSize is a uniform size or a [width, height] pair.
type IconSize struct {
	Width  int
	Height int
}

// UnmarshalYAML accepts either an integer or a two item list.
func (s *IconSize) UnmarshalYAML(unmarshal func(any) error) error {
	var n int

	err := unmarshal(&n)
	if err == nil {
		s.Width, s.Height = n, n

		return nil
	}

	var pair []int

	err = unmarshal(&pair)
	if err != nil {
		return fmt.Errorf("icon size: expected an integer or [width, height]: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("icon size: expected 2 items, got %d", len(pair))
	}

	s.Width, s.Height = pair[0], pair[1]

	return nil
}

// MarshalYAML writes a uniform size as an integer.
func (s IconSize) MarshalYAML() (any, error) {
	if s.Width == s.Height {
		return s.Width, nil
	}

	return []int{s.Width, s.Height}, nil
}

func (IconSize) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title: "Icon Size",
		OneOf: []*jsonschema.Schema{
			{Type: "integer", Minimum: "1"},
			{
				Type:     "array",
				Items:    &jsonschema.Schema{Type: "integer", Minimum: "1"},
				MinItems: ptr(uint64(2)),
				MaxItems: ptr(uint64(2)),
			},
		},
	}
}

// NewOptions returns [Options] with every field set to its default.
func NewOptions() *Options {
	o := &Options{}
	o.EnsureDefaults()

	return o
}

// Merge fills unset fields of o from base.
func (o *Options) Merge(base *Options) {
	if base == nil {
		return
	}

	mergePtr(&o.Orientation, base.Orientation)
	mergePtr(&o.ItemGap, base.ItemGap)
	mergePtr(&o.PageButtonItemGap, base.PageButtonItemGap)
	mergePtr(&o.PageButtonGap, base.PageButtonGap)
	mergePtr(&o.PageButtonPosition, base.PageButtonPosition)
	mergePtr(&o.PageFormatter, base.PageFormatter)
	mergePtr(&o.PageIconColor, base.PageIconColor)
	mergePtr(&o.PageIconInactiveColor, base.PageIconInactiveColor)
	mergePtr(&o.PageIconSize, base.PageIconSize)
	mergePtr(&o.SelectedMode, base.SelectedMode)
	mergePtr(&o.AnimationDurationUpdate, base.AnimationDurationUpdate)
	mergePtr(&o.Animation, base.Animation)
	mergePtr(&o.ScrollDataIndex, base.ScrollDataIndex)
	mergePtr(&o.Padding, base.Padding)
	mergePtr(&o.TextGap, base.TextGap)
	mergePtr(&o.ItemSymbol, base.ItemSymbol)
	mergePtr(&o.ShowLabel, base.ShowLabel)
	mergePtr(&o.Inverse, base.Inverse)
	mergePtr(&o.NumberFormat, base.NumberFormat)

	if base.PageIcons != nil {
		icons := PageIcons{}
		if o.PageIcons != nil {
			icons = *o.PageIcons
		}
		o.PageIcons = &icons
		if o.PageIcons.Horizontal == nil {
			o.PageIcons.Horizontal = base.PageIcons.Horizontal
		}
		if o.PageIcons.Vertical == nil {
			o.PageIcons.Vertical = base.PageIcons.Vertical
		}
	}

	if base.PageTextStyle != nil {
		style := TextStyle{}
		if o.PageTextStyle != nil {
			style = *o.PageTextStyle
		}
		o.PageTextStyle = &style
		mergePtr(&o.PageTextStyle.Color, base.PageTextStyle.Color)
		mergePtr(&o.PageTextStyle.Bold, base.PageTextStyle.Bold)
	}
}

// EnsureDefaults sets unset fields to their defaults.
func (o *Options) EnsureDefaults() {
	defaults := &Options{
		Orientation:             ptr(string(layout.Horizontal)),
		ItemGap:                 ptr(DefaultItemGap),
		PageButtonItemGap:       ptr(DefaultPageButtonItemGap),
		PageButtonPosition:      ptr(string(layout.End)),
		PageFormatter:           ptr(scroll.DefaultTemplate),
		PageIconColor:           ptr(DefaultPageIconColor),
		PageIconInactiveColor:   ptr(DefaultPageIconInactiveColor),
		PageIconSize:            &IconSize{Width: 1, Height: 1},
		SelectedMode:            ptr(string(legend.SelectedModeMultiple)),
		AnimationDurationUpdate: ptr(DefaultAnimationDurationUpdate.String()),
		Animation:               ptr(true),
		ScrollDataIndex:         ptr(0),
		Padding:                 ptr(0),
		TextGap:                 ptr(DefaultTextGap),
		ItemSymbol:              ptr(DefaultItemSymbol),
		ShowLabel:               ptr(true),
		NumberFormat:            &legend.NumberFormat{},
		PageIcons: &PageIcons{
			Horizontal: []string{"◀", "▶"},
			Vertical:   []string{"▲", "▼"},
		},
		PageTextStyle: &TextStyle{
			Color: ptr(DefaultPageTextColor),
			Bold:  ptr(false),
		},
	}

	// Vertical legends list pieces bottom to top unless told otherwise.
	if o.Inverse == nil {
		o.Inverse = ptr(o.Orientation != nil && *o.Orientation == string(layout.Vertical))
	}

	o.Merge(defaults)
}

// Settings are resolved [Options].
type Settings struct {
	Formatter     scroll.Formatter
	PrevIcon      string
	NextIcon      string
	IconColor     string
	InactiveColor string
	TextColor     string
	ItemSymbol    string
	SelectedMode  legend.SelectedMode
	NumberFormat  legend.NumberFormat
	Layout        layout.Options
	IconSize      layout.Size
	Duration      time.Duration
	Anchor        int
	Padding       int
	TextGap       int
	TextBold      bool
	Animation     bool
	ShowLabel     bool
	Inverse       bool
}

// Resolve validates o and converts it to [Settings]. Unset fields use their
// defaults.
func (o *Options) Resolve() (Settings, error) {
	opts := *o
	opts.EnsureDefaults()

	var errs []error

	orientation := layout.Orientation(*opts.Orientation)
	if orientation != layout.Horizontal && orientation != layout.Vertical {
		errs = append(errs, fmt.Errorf("orientation: unknown value %q, expected %s", orientation,
			xstrings.EnglishJoin([]string{string(layout.Horizontal), string(layout.Vertical)}, false)))
	}

	position := layout.Position(*opts.PageButtonPosition)
	if position != layout.Start && position != layout.End {
		errs = append(errs, fmt.Errorf("pageButtonPosition: unknown value %q, expected %s", position,
			xstrings.EnglishJoin([]string{string(layout.Start), string(layout.End)}, false)))
	}

	formatter, err := scroll.ParseFormatter(*opts.PageFormatter)
	if err != nil {
		errs = append(errs, fmt.Errorf("pageFormatter: %w", err))
	}

	mode, err := legend.ParseSelectedMode(*opts.SelectedMode)
	if err != nil {
		errs = append(errs, fmt.Errorf("selectedMode: %w", err))
	}

	duration, err := time.ParseDuration(*opts.AnimationDurationUpdate)
	if err != nil {
		errs = append(errs, fmt.Errorf("animationDurationUpdate: %w", err))
	}

	icons := opts.PageIcons.Horizontal
	if orientation == layout.Vertical {
		icons = opts.PageIcons.Vertical
	}
	if len(icons) != 2 {
		errs = append(errs, fmt.Errorf("pageIcons.%s: expected 2 icons, got %d", orientation, len(icons)))
		icons = []string{"<", ">"}
	}

	if opts.PageIconSize.Width < 1 || opts.PageIconSize.Height < 1 {
		errs = append(errs, fmt.Errorf("pageIconSize: must be at least 1, got [%d, %d]",
			opts.PageIconSize.Width, opts.PageIconSize.Height))
	}

	if len(errs) > 0 {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...))
	}

	return Settings{
		Layout: layout.Options{
			Orientation:        orientation,
			PageButtonPosition: position,
			ItemGap:            *opts.ItemGap,
			PageButtonItemGap:  *opts.PageButtonItemGap,
			PageButtonGap:      opts.PageButtonGap,
		},
		Formatter:     formatter,
		PrevIcon:      icons[0],
		NextIcon:      icons[1],
		IconSize:      layout.Size{Width: opts.PageIconSize.Width, Height: opts.PageIconSize.Height},
		IconColor:     *opts.PageIconColor,
		InactiveColor: *opts.PageIconInactiveColor,
		TextColor:     *opts.PageTextStyle.Color,
		TextBold:      *opts.PageTextStyle.Bold,
		SelectedMode:  mode,
		Duration:      duration,
		Animation:     *opts.Animation,
		Anchor:        *opts.ScrollDataIndex,
		Padding:       *opts.Padding,
		TextGap:       *opts.TextGap,
		ItemSymbol:    *opts.ItemSymbol,
		ShowLabel:     *opts.ShowLabel,
		Inverse:       *opts.Inverse,
		NumberFormat:  *opts.NumberFormat,
	}, nil
}

// NewLegend creates a [legend.Legend] using the selection and label
// settings.
func (s Settings) NewLegend(id string, pieces []legend.Piece) *legend.Legend {
	return legend.New(id, pieces,
		legend.WithSelectedMode(s.SelectedMode),
		legend.WithInverse(s.Inverse),
		legend.WithNumberFormat(s.NumberFormat),
	)
}

func mergePtr[T any](dst **T, src *T) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
	}
}

func ptr[T any](v T) *T {
	return &v
}
