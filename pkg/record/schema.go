// Package record implements settings records: ordered lists of named,
// typed fields with defaults, packed field by field with the structy
// byte layout.
//
// A Schema is the data-driven description of one record type, usually
// loaded from YAML. A Record holds the values for one instance.
package record

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidSchema = errors.New("invalid schema")
	ErrInvalidValue  = errors.New("invalid value")
	ErrUnknownField  = errors.New("unknown field")
)

// Field describes one record field. Default is a literal: a number for
// numeric and fix16 kinds, a bool for bool. A nil Default means zero.
type Field struct {
	Name    string `yaml:"name"`
	Kind    Kind   `yaml:"kind"`
	Default any    `yaml:"default,omitempty"`
	Doc     string `yaml:"doc,omitempty"`
}

// Schema is an ordered list of fields. The order is the packed layout.
type Schema struct {
	Name   string  `yaml:"name"`
	Doc    string  `yaml:"doc,omitempty"`
	Fields []Field `yaml:"fields"`
}

// Format returns the structy format string for the schema.
func (s *Schema) Format() string {
	var b strings.Builder
	for _, f := range s.Fields {
		b.WriteByte(f.Kind.Code())
	}
	return b.String()
}

// PackedSize is the sum of the field widths.
func (s *Schema) PackedSize() int {
	size := 0
	for _, f := range s.Fields {
		size += f.Kind.Width()
	}
	return size
}

// Index returns the position of the named field, or -1.
func (s *Schema) Index(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	if i := s.Index(name); i >= 0 {
		return s.Fields[i], true
	}
	return Field{}, false
}

// Validate checks that the schema can be instantiated.
// It does not modify the schema.
func (s *Schema) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidSchema)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: %s has no fields", ErrInvalidSchema, s.Name)
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: %s field %d has no name", ErrInvalidSchema, s.Name, i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: %s field %q declared twice", ErrInvalidSchema, s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}

		if !f.Kind.valid() {
			return fmt.Errorf("%w: %s field %q has no kind", ErrInvalidSchema, s.Name, f.Name)
		}
		if _, err := f.Kind.coerce(f.Default); err != nil {
			return fmt.Errorf("%w: %s field %q default: %v", ErrInvalidSchema, s.Name, f.Name, err)
		}
	}
	return nil
}

// LoadSchema decodes and validates a YAML schema.
func LoadSchema(r io.Reader) (*Schema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Schema
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseSchema decodes and validates a YAML schema held in memory.
func ParseSchema(data []byte) (*Schema, error) {
	return LoadSchema(bytes.NewReader(data))
}

// MustParseSchema is like ParseSchema but panics on error. It is meant for
// schemas embedded at build time.
func MustParseSchema(data []byte) *Schema {
	s, err := ParseSchema(data)
	if err != nil {
		panic(err)
	}
	return s
}

// LoadSchemaFile reads a YAML schema from path.
func LoadSchemaFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := LoadSchema(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// YAML encodes the schema back into its file form.
func (s *Schema) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
