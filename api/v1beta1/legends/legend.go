// Package legends provides the Legend document type, which describes one
// scrollable legend: its pieces and display options.
package legends

import (
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/macropower/pagelegend/api"
	"github.com/macropower/pagelegend/api/v1beta1"
	"github.com/macropower/pagelegend/pkg/legend"
	"github.com/macropower/pagelegend/pkg/yaml"

	uilegend "github.com/macropower/pagelegend/pkg/ui/legend"
)

//go:generate go run ../../../internal/schemagen -type legend -o legends.v1beta1.json

const Kind = "Legend"

var (
	// ValidKinds contains the valid kind values for legend documents.
	ValidKinds = []string{Kind}

	// DefaultValidator validates legend documents against the JSON schema.
	DefaultValidator = yaml.MustGenerateValidator("/legends.v1beta1.json", &Legend{})

	ErrMissingID = errors.New("legend id is required")

	// Compile-time interface checks.
	_ v1beta1.Object = (*Legend)(nil)
)

// Legend describes a scrollable legend.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Legend struct {
	// Options override the legend options of the global configuration.
	Options *uilegend.Options `json:"options,omitempty" jsonschema:"title=Options"`
	// ID identifies the legend in scroll requests.
	ID string `json:"id" jsonschema:"title=ID,required"`
	// Title is shown above the legend.
	Title string `json:"title,omitempty" jsonschema:"title=Title"`
	// Pieces are the legend items, in data order.
	Pieces           []legend.Piece `json:"pieces" jsonschema:"title=Pieces"`
	v1beta1.TypeMeta `json:",inline"`
}

// New creates a new empty [Legend].
func New() *Legend {
	l := &Legend{
		TypeMeta: v1beta1.NewTypeMeta(Kind),
	}
	l.EnsureDefaults()

	return l
}

// EnsureDefaults initializes nil fields. Option values are left unset so
// they can be merged with the global configuration.
func (l *Legend) EnsureDefaults() {
	if l.Options == nil {
		l.Options = &uilegend.Options{}
	}
	if l.Pieces == nil {
		l.Pieces = []legend.Piece{}
	}
}

// Validate validates the legend.
func (l *Legend) Validate() error {
	if l.ID == "" {
		return ErrMissingID
	}

	err := legend.ValidatePieces(l.Pieces)
	if err != nil {
		return fmt.Errorf("legend %q: %w", l.ID, err)
	}

	return nil
}

// Settings merges the legend options with base and resolves them.
func (l *Legend) Settings(base *uilegend.Options) (uilegend.Settings, error) {
	opts := uilegend.Options{}
	if l.Options != nil {
		opts = *l.Options
	}

	opts.Merge(base)

	s, err := opts.Resolve()
	if err != nil {
		return uilegend.Settings{}, fmt.Errorf("legend %q: %w", l.ID, err)
	}

	return s, nil
}

func (l Legend) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the legend to YAML.
func (l Legend) MarshalYAML() ([]byte, error) {
	type alias Legend

	b, err := api.MarshalYAML(alias(l))
	if err != nil {
		return nil, fmt.Errorf("marshal legend: %w", err)
	}

	return b, nil
}
