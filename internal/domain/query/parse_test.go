package query

import (
	"errors"
	"net/url"
	"testing"

	"github.com/kailas-cloud/profilesearch/internal/domain"
)

func TestFromURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		scalars map[string]string
		objects map[string]map[string]string
	}{
		{
			name:    "flat",
			raw:     "first=ann&last=lee",
			scalars: map[string]string{"first": "ann", "last": "lee"},
		},
		{
			name:    "bracket nested",
			raw:     "name%5Bfirst%5D=ann&name%5Blast%5D=lee",
			objects: map[string]map[string]string{"name": {"first": "ann", "last": "lee"}},
		},
		{
			name:    "dotted nested",
			raw:     "name.first=ann&age=30",
			scalars: map[string]string{"age": "30"},
			objects: map[string]map[string]string{"name": {"first": "ann"}},
		},
		{
			name:    "same member in both notations",
			raw:     "name.first=ann&name%5Bfirst%5D=ann",
			objects: map[string]map[string]string{"name": {"first": "ann"}},
		},
		{
			name:    "repeated identical value",
			raw:     "country=fr&country=fr",
			scalars: map[string]string{"country": "fr"},
		},
		{
			name:    "empty value kept",
			raw:     "country=",
			scalars: map[string]string{"country": ""},
		},
		{
			name: "empty query",
			raw:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			p, err := FromURL(values)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(p) != len(tt.scalars)+len(tt.objects) {
				t.Fatalf("len = %d, want %d (%v)", len(p), len(tt.scalars)+len(tt.objects), p.Keys())
			}
			for k, want := range tt.scalars {
				v, ok := p.Lookup(k)
				if !ok || v.IsObject() || v.String() != want {
					t.Errorf("%s = %+v, want scalar %q", k, v, want)
				}
			}
			for k, members := range tt.objects {
				v, ok := p.Lookup(k)
				if !ok || !v.IsObject() {
					t.Fatalf("%s is not an object", k)
				}
				if len(v.Members()) != len(members) {
					t.Errorf("%s members = %v", k, v.Members())
				}
				for mk, want := range members {
					if got, _ := v.Member(mk); got != want {
						t.Errorf("%s.%s = %q, want %q", k, mk, got, want)
					}
				}
			}
		})
	}
}

func TestFromURL_Rejected(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"conflicting repeats", "country=fr&country=de"},
		{"mixed scalar and object", "name=ann&name.first=ann"},
		{"deep brackets", "name%5Bfirst%5D%5Bx%5D=ann"},
		{"deep dots", "name.first.x=ann"},
		{"unclosed bracket", "name%5Bfirst=ann"},
		{"stray bracket", "name%5D=ann"},
		{"empty member", "name.=ann"},
		{"empty parent", "%5Bfirst%5D=ann"},
		{"conflicting member", "name.first=ann&name%5Bfirst%5D=bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			_, err = FromURL(values)
			if !errors.Is(err, domain.ErrValidationRejected) {
				t.Errorf("error = %v, want ErrValidationRejected", err)
			}
		})
	}
}

func TestFromJSON(t *testing.T) {
	p, err := FromJSON([]byte(`{"usrName":"ann_l","age":30,"name":{"first":"Ann","last":"Lee"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := p.Lookup("usrName"); v.String() != "ann_l" {
		t.Errorf("usrName = %q", v.String())
	}
	if v, _ := p.Lookup("age"); v.String() != "30" {
		t.Errorf("age = %q, want number kept as text", v.String())
	}
	name, _ := p.Lookup("name")
	if !name.IsObject() {
		t.Fatal("name should be an object")
	}
	if last, _ := name.Member("last"); last != "Lee" {
		t.Errorf("name.last = %q", last)
	}
}

func TestFromJSON_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"usrName":`},
		{"array body", `["a"]`},
		{"bool value", `{"usrName":true}`},
		{"null value", `{"country":null}`},
		{"array value", `{"country":["fr"]}`},
		{"deep nesting", `{"name":{"first":{"x":"y"}}}`},
		{"trailing data", `{"a":"b"} {"c":"d"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.body))
			if !errors.Is(err, domain.ErrValidationRejected) {
				t.Errorf("error = %v, want ErrValidationRejected", err)
			}
		})
	}
}
