package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator generates a JSON schema from a Go type.
// Uses [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	reflector *jsonschema.Reflector
	v         any
	comments  [][2]string
}

// SchemaOpt configures a [SchemaGenerator].
type SchemaOpt func(*SchemaGenerator)

// WithGoComments adds the Go doc comments of the package at path (relative
// to the module root) with the import path base as schema descriptions.
// Comments require the package sources, so it is only useful when
// generating schema files.
func WithGoComments(base, path string) SchemaOpt {
	return func(g *SchemaGenerator) {
		g.comments = append(g.comments, [2]string{base, path})
	}
}

// NewSchemaGenerator creates a new [SchemaGenerator] for the type of v.
func NewSchemaGenerator(v any, opts ...SchemaOpt) *SchemaGenerator {
	g := &SchemaGenerator{
		v: v,
		reflector: &jsonschema.Reflector{
			ExpandedStruct:             true,
			RequiredFromJSONSchemaTags: true,
		},
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate returns the indented JSON schema.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	for _, c := range g.comments {
		err := g.reflector.AddGoComments(c[0], c[1])
		if err != nil {
			return nil, fmt.Errorf("add go comments for %s: %w", c[0], err)
		}
	}

	jss := g.reflector.Reflect(g.v)

	data, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return data, nil
}

// MustGenerateValidator generates the schema of v and compiles it into a
// [Validator] registered at url. It panics on error.
func MustGenerateValidator(url string, v any) *Validator {
	data, err := NewSchemaGenerator(v).Generate()
	if err != nil {
		panic(err)
	}

	return MustNewValidator(url, data)
}
