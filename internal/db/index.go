package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldType enumerates the FT index attribute types used over hash records.
type FieldType int

const (
	// FieldTag indexes whole values; matched with {exact}, {prefix*} or {*infix*}.
	FieldTag FieldType = iota
	// FieldNumeric indexes numbers; matched with [min max].
	FieldNumeric
)

func (t FieldType) String() string {
	switch t {
	case FieldTag:
		return "TAG"
	case FieldNumeric:
		return "NUMERIC"
	default:
		return "FieldType(" + strconv.Itoa(int(t)) + ")"
	}
}

// IndexField is one attribute of an FT index. Name is the hash field name.
type IndexField struct {
	Name string
	Type FieldType

	// TAG only. An empty Separator leaves the server default (",").
	Separator     string
	CaseSensitive bool
}

func (f *IndexField) args() ([]string, error) {
	if f.Name == "" {
		return nil, errors.New("field name is required")
	}
	switch f.Type {
	case FieldNumeric:
		return []string{f.Name, "NUMERIC"}, nil
	case FieldTag:
		args := []string{f.Name, "TAG"}
		if f.Separator != "" {
			args = append(args, "SEPARATOR", f.Separator)
		}
		if f.CaseSensitive {
			args = append(args, "CASESENSITIVE")
		}
		return args, nil
	default:
		return nil, fmt.Errorf("field %s: unknown type %s", f.Name, f.Type)
	}
}

// IndexDefinition is an FT index over hashes whose keys start with one of Prefixes.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Validate checks that the definition can be sent to FT.CREATE.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !validIdentifier(idx.Name) {
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]struct{}, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("field %d: name is required", i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("duplicate field name: %s", f.Name)
		}
		seen[f.Name] = struct{}{}

		if f.Type != FieldTag && (f.Separator != "" || f.CaseSensitive) {
			return fmt.Errorf("field %s: tag options on a %s field", f.Name, f.Type)
		}
		if len(f.Separator) > 1 {
			return fmt.Errorf("field %s: tag separator must be a single character", f.Name)
		}
	}
	return nil
}

// CreateArgs renders the FT.CREATE arguments that follow the command name.
func (idx *IndexDefinition) CreateArgs() ([]string, error) {
	if err := idx.Validate(); err != nil {
		return nil, err
	}

	args := []string{idx.Name, "ON", "HASH"}
	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}
	args = append(args, "SCHEMA")
	for i := range idx.Fields {
		fa, err := idx.Fields[i].args()
		if err != nil {
			return nil, err
		}
		args = append(args, fa...)
	}
	return args, nil
}

// String renders the full FT.CREATE command, or the validation error.
func (idx *IndexDefinition) String() string {
	args, err := idx.CreateArgs()
	if err != nil {
		return "invalid index: " + err.Error()
	}
	return "FT.CREATE " + strings.Join(args, " ")
}

func validIdentifier(s string) bool {
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isAlpha && !isDigit && r != '_' && r != ':' && r != '-' {
			return false
		}
	}
	return s != ""
}

// TagOption customises a TAG field.
type TagOption func(*IndexField)

// Separator sets the TAG separator character.
func Separator(sep string) TagOption {
	return func(f *IndexField) { f.Separator = sep }
}

// CaseSensitive keeps the original case of TAG values.
func CaseSensitive() TagOption {
	return func(f *IndexField) { f.CaseSensitive = true }
}

// IndexBuilder assembles an IndexDefinition field by field.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts an index over hashes under the given key prefixes.
func NewIndex(name string, prefixes ...string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name, Prefixes: prefixes}}
}

// Tag adds a TAG field.
func (b *IndexBuilder) Tag(name string, opts ...TagOption) *IndexBuilder {
	f := IndexField{Name: name, Type: FieldTag}
	for _, opt := range opts {
		opt(&f)
	}
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Numeric adds a NUMERIC field.
func (b *IndexBuilder) Numeric(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: FieldNumeric})
	return b
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	def.Prefixes = append([]string(nil), b.def.Prefixes...)
	def.Fields = append([]IndexField(nil), b.def.Fields...)
	return &def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}
