package schema

import (
	"fmt"
	"strings"
)

// Kind is the structural kind of a declared field.
type Kind string

// Field kind constants.
const (
	// Text is a free string value matched partially.
	Text   Kind = "text"
	Number Kind = "number"
	// Nested is a one-level object of named sub-fields (e.g. name.first / name.last).
	Nested Kind = "nested"
)

// Style selects how a Text value is matched against a record.
type Style string

// Match style constants.
const (
	// Prefix anchors the pattern at the start of the value (search-as-you-type).
	Prefix    Style = "prefix"
	Substring Style = "substring"
	// Equal requires the whole value to match, ignoring case.
	Equal Style = "equal"
)

// MaxDepth bounds nested schema recursion.
const MaxDepth = 4

const maxNameLength = 64

// Field is an immutable descriptor of a single declared query field.
type Field struct {
	name     string
	required bool
	kind     Kind
	style    Style
	target   string
	nested   *Schema
}

// TextField declares a text field constraining the record path target.
func TextField(name, target string, style Style) Field {
	return Field{name: name, kind: Text, style: style, target: target}
}

// NumberField declares a numeric field matched by exact equality.
func NumberField(name, target string) Field {
	return Field{name: name, kind: Number, target: target}
}

// NestedField declares an object field whose members are described by nested.
func NestedField(name string, nested Schema) Field {
	return Field{name: name, kind: Nested, nested: &nested}
}

// Required returns a copy of the field marked as required.
func (f Field) Required() Field {
	f.required = true
	return f
}

// Name returns the parameter name.
func (f Field) Name() string { return f.name }

// IsRequired reports whether the field must be present.
func (f Field) IsRequired() bool { return f.required }

// Kind returns the field kind.
func (f Field) Kind() Kind { return f.kind }

// Style returns the text match style (empty for non-text fields).
func (f Field) Style() Style { return f.style }

// Target returns the record path the field constrains.
func (f Field) Target() string { return f.target }

// Nested returns the member schema of a Nested field.
func (f Field) Nested() Schema {
	if f.nested == nil {
		return Schema{}
	}
	return *f.nested
}

func (f Field) validate() error {
	if f.name == "" {
		return fmt.Errorf("field name is required")
	}
	if len(f.name) > maxNameLength {
		return fmt.Errorf("field name %q too long (max %d)", f.name, maxNameLength)
	}
	if strings.ContainsAny(f.name, ".[] ") {
		return fmt.Errorf("field name %q contains reserved characters", f.name)
	}
	switch f.kind {
	case Text:
		if f.style != Prefix && f.style != Substring && f.style != Equal {
			return fmt.Errorf("invalid match style %q for %q", f.style, f.name)
		}
		if f.target == "" {
			return fmt.Errorf("field %q has no target", f.name)
		}
	case Number:
		if f.target == "" {
			return fmt.Errorf("field %q has no target", f.name)
		}
	case Nested:
		if f.nested == nil || len(f.nested.fields) == 0 {
			return fmt.Errorf("nested field %q has no members", f.name)
		}
	default:
		return fmt.Errorf("invalid field kind %q for %q", f.kind, f.name)
	}
	return nil
}

// Schema is an ordered, immutable set of field descriptors.
type Schema struct {
	fields []Field
	index  map[string]int
	depth  int
}

// New validates and creates a Schema. Field names must be unique.
func New(fields ...Field) (Schema, error) {
	index := make(map[string]int, len(fields))
	depth := 1
	for i, f := range fields {
		if err := f.validate(); err != nil {
			return Schema{}, err
		}
		if _, dup := index[f.name]; dup {
			return Schema{}, fmt.Errorf("duplicate field name: %s", f.name)
		}
		index[f.name] = i
		if f.kind == Nested && f.nested.depth+1 > depth {
			depth = f.nested.depth + 1
		}
	}
	if depth > MaxDepth {
		return Schema{}, fmt.Errorf("schema nesting too deep (max %d)", MaxDepth)
	}

	cp := make([]Field, len(fields))
	copy(cp, fields)
	return Schema{fields: cp, index: index, depth: depth}, nil
}

// MustNew calls New and panics on error. Intended for startup declarations.
func MustNew(fields ...Field) Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the declared fields in declaration order.
func (s Schema) Fields() []Field {
	cp := make([]Field, len(s.fields))
	copy(cp, s.fields)
	return cp
}

// Lookup finds a declared field by name.
func (s Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}
