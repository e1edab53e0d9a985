// Package schema checks the shape of inbound JSON documents against JSON
// Schema definitions before they are decoded into Go types.
//
// Validation is pure: a Schema is compiled once at startup and Validate
// performs no I/O.
package schema

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// RootField is the field reported for violations that concern the whole
// document rather than one property.
const RootField = "(root)"

// Violation is one structural problem found in a document.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Schema is a compiled JSON Schema.
type Schema struct {
	name     string
	compiled *gojsonschema.Schema
}

//go:embed schemas/book.json
var bookSchema []byte

// Book validates the `{ "book": {...} }` envelope used by create and update.
var Book = MustCompile("book", bookSchema)

// Compile parses and compiles a JSON Schema document.
func Compile(name string, document []byte) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("compiling %s schema: %w", name, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// MustCompile is like Compile but panics on an invalid schema.
func MustCompile(name string, document []byte) *Schema {
	s, err := Compile(name, document)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the name the schema was compiled with.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks payload against s and returns every violation found.
// An empty result means the payload is valid.
func Validate(payload []byte, s *Schema) []Violation {
	if len(payload) == 0 {
		return []Violation{{Field: RootField, Message: "request body is required"}}
	}

	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return []Violation{{Field: RootField, Message: "request body must be valid JSON"}}
	}
	if result.Valid() {
		return nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		violations = append(violations, Violation{
			Field:   fieldPath(resultErr),
			Message: resultErr.Description(),
		})
	}
	return violations
}

// fieldPath names the offending property. Required-property errors are
// reported by gojsonschema against the parent object, so the missing
// property is appended to point at the field itself.
func fieldPath(resultErr gojsonschema.ResultError) string {
	field := resultErr.Field()
	if resultErr.Type() != "required" {
		return field
	}

	property, ok := resultErr.Details()["property"].(string)
	if !ok || property == "" {
		return field
	}
	if field == "" || field == RootField {
		return property
	}
	return field + "." + property
}
