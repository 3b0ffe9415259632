package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/kailas-cloud/profilesearch/internal/domain"
)

// FromURL builds Params from a URL query string.
// Nested members are accepted as name[first]=x or name.first=x.
func FromURL(values url.Values) (Params, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	scalars := make(map[string]string)
	objects := make(map[string]map[string]string)
	for _, key := range keys {
		val, err := single(key, values[key])
		if err != nil {
			return nil, err
		}
		parent, child, err := splitKey(key)
		if err != nil {
			return nil, err
		}
		if child == "" {
			scalars[parent] = val
			continue
		}
		members, ok := objects[parent]
		if !ok {
			members = make(map[string]string)
			objects[parent] = members
		}
		if prev, dup := members[child]; dup && prev != val {
			return nil, rejectf("field %q given more than once", parent+"."+child)
		}
		members[child] = val
	}

	p := make(Params, len(scalars)+len(objects))
	for k, v := range scalars {
		p[k] = Scalar(v)
	}
	for k, m := range objects {
		if _, mixed := scalars[k]; mixed {
			return nil, rejectf("field %q mixes scalar and object values", k)
		}
		p[k] = Object(m)
	}
	return p, nil
}

// FromJSON builds Params from a JSON object body.
// Strings and numbers are accepted as scalars, plus one level of nested objects.
func FromJSON(data []byte) (Params, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, rejectf("malformed JSON body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, rejectf("unexpected data after JSON body")
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, rejectf("body must be a JSON object")
	}

	p := make(Params, len(obj))
	for k, v := range obj {
		if s, ok := jsonScalar(v); ok {
			p[k] = Scalar(s)
			continue
		}
		nested, ok := v.(map[string]any)
		if !ok {
			return nil, rejectf("field %q must be a string, number or object", k)
		}
		members := make(map[string]string, len(nested))
		for mk, mv := range nested {
			s, ok := jsonScalar(mv)
			if !ok {
				return nil, rejectf("field %q must be a string or number", k+"."+mk)
			}
			members[mk] = s
		}
		p[k] = Object(members)
	}
	return p, nil
}

func jsonScalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

func single(key string, vals []string) (string, error) {
	if len(vals) == 0 {
		return "", nil
	}
	for _, v := range vals[1:] {
		if v != vals[0] {
			return "", rejectf("field %q given more than once", key)
		}
	}
	return vals[0], nil
}

// splitKey parses "name", "name[first]" or "name.first".
func splitKey(key string) (parent, child string, err error) {
	if key == "" {
		return "", "", rejectf("empty parameter name")
	}
	if i := strings.IndexByte(key, '['); i >= 0 {
		if !strings.HasSuffix(key, "]") {
			return "", "", rejectf("malformed parameter name %q", key)
		}
		parent, child = key[:i], key[i+1:len(key)-1]
		if parent == "" || child == "" || strings.ContainsAny(child, "[]") || strings.Contains(parent, ".") {
			return "", "", rejectf("malformed parameter name %q", key)
		}
		return parent, child, nil
	}
	if strings.ContainsRune(key, ']') {
		return "", "", rejectf("malformed parameter name %q", key)
	}
	if i := strings.IndexByte(key, '.'); i >= 0 {
		parent, child = key[:i], key[i+1:]
		if parent == "" || child == "" || strings.ContainsRune(child, '.') {
			return "", "", rejectf("malformed parameter name %q", key)
		}
		return parent, child, nil
	}
	return key, "", nil
}

func rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidationRejected, fmt.Sprintf(format, args...))
}
