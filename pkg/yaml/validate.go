package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator checks decoded documents against a compiled JSON schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData, registering it under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	schema, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()

	err = c.AddResource(url, schema)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: compiled}, nil
}

// MustNewValidator is like [NewValidator] but panics on error. It is meant
// for schemas embedded at build time.
func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate checks data against the schema. Failures are returned as an
// [*Error] whose path points at the deepest failing instance, so callers can
// annotate the YAML source.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	return &Error{
		Err:  verr,
		Path: pathFromLocation(deepestLocation(verr)),
	}
}

// deepestLocation returns the longest InstanceLocation among err and all of
// its causes.
func deepestLocation(err *jsonschema.ValidationError) []string {
	loc := err.InstanceLocation
	for _, cause := range err.Causes {
		if c := deepestLocation(cause); len(c) > len(loc) {
			loc = c
		}
	}

	return loc
}

// pathFromLocation converts a JSON pointer, split into tokens, into a
// [yaml.Path]. Numeric tokens are treated as sequence indexes.
func pathFromLocation(loc []string) *yaml.Path {
	b := NewPathBuilder().Root()
	for _, tok := range loc {
		if i, err := strconv.ParseUint(tok, 10, 0); err == nil {
			b = b.Index(uint(i))

			continue
		}

		b = b.Child(tok)
	}

	return b.Build()
}
