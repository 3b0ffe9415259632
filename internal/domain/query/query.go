package query

import "sort"

// Value is one raw parameter value: either a scalar string or a one-level object.
type Value struct {
	scalar string
	nested map[string]string
	object bool
}

// Scalar wraps a plain string value.
func Scalar(s string) Value {
	return Value{scalar: s}
}

// Object wraps a one-level object value. The map is copied.
func Object(m map[string]string) Value {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{nested: cp, object: true}
}

// IsObject reports whether the value is a nested object.
func (v Value) IsObject() bool { return v.object }

// String returns the scalar value (empty for objects).
func (v Value) String() string { return v.scalar }

// Member returns a member of an object value.
func (v Value) Member(name string) (string, bool) {
	s, ok := v.nested[name]
	return s, ok
}

// Members returns the sorted member names of an object value.
func (v Value) Members() []string {
	keys := make([]string, 0, len(v.nested))
	for k := range v.nested {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Params is the raw, untrusted mapping from parameter name to value.
type Params map[string]Value

// IsEmpty reports whether no parameter was supplied.
func (p Params) IsEmpty() bool { return len(p) == 0 }

// Keys returns parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the value of a parameter.
func (p Params) Lookup(name string) (Value, bool) {
	v, ok := p[name]
	return v, ok
}
