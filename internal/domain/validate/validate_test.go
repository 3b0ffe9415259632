package validate

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/profilesearch/internal/domain"
	"github.com/kailas-cloud/profilesearch/internal/domain/query"
	"github.com/kailas-cloud/profilesearch/internal/domain/schema"
)

var (
	nameSchema = schema.MustNew(
		schema.TextField("first", "name.first", schema.Prefix),
		schema.TextField("last", "name.last", schema.Prefix),
	)

	registerSchema = schema.MustNew(
		schema.TextField("usrName", "usr_name", schema.Equal).Required(),
		schema.NestedField("name", schema.MustNew(
			schema.TextField("first", "name.first", schema.Prefix).Required(),
			schema.TextField("last", "name.last", schema.Prefix).Required(),
		)).Required(),
		schema.TextField("country", "country", schema.Prefix),
		schema.NumberField("age", "age"),
	)
)

func validRegistration() query.Params {
	return query.Params{
		"usrName": query.Scalar("ann_l"),
		"name":    query.Object(map[string]string{"first": "Ann", "last": "Lee"}),
		"age":     query.Scalar("30"),
	}
}

func TestValidate_UndeclaredField(t *testing.T) {
	params := query.Params{"first": query.Scalar("ann"), "extra": query.Scalar("x")}

	lenient := Validate(params, nameSchema, Lenient)
	if !lenient.IsValid() {
		t.Fatalf("lenient rejected undeclared field: %s", lenient.Reason())
	}
	if _, ok := lenient.Params().Lookup("extra"); ok {
		t.Error("lenient outcome should drop undeclared field")
	}
	if _, ok := lenient.Params().Lookup("first"); !ok {
		t.Error("lenient outcome lost declared field")
	}

	strict := Validate(params, nameSchema, Strict)
	if strict.IsValid() {
		t.Fatal("strict accepted undeclared field")
	}
	if strict.Reason() != `unexpected field "extra"` {
		t.Errorf("Reason() = %q", strict.Reason())
	}
}

// Strict schema {usrName: Text(required)} rejects {usrName:"abc", extra:"x"}.
func TestValidate_StrictRegistrationExtraField(t *testing.T) {
	s := schema.MustNew(schema.TextField("usrName", "usr_name", schema.Equal).Required())
	params := query.Params{"usrName": query.Scalar("abc"), "extra": query.Scalar("x")}

	out := Validate(params, s, Strict)
	if out.IsValid() {
		t.Fatal("expected Invalid")
	}
	if !errors.Is(out.Err(), domain.ErrValidationRejected) {
		t.Errorf("Err() = %v, want ErrValidationRejected", out.Err())
	}
}

func TestValidate_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(query.Params)
		mode   Mode
		reason string
	}{
		{
			name:   "valid",
			mutate: func(query.Params) {},
			mode:   Strict,
		},
		{
			name:   "missing required",
			mutate: func(p query.Params) { delete(p, "usrName") },
			mode:   Lenient,
			reason: `field "usrName" is required`,
		},
		{
			name:   "blank required",
			mutate: func(p query.Params) { p["usrName"] = query.Scalar("  ") },
			mode:   Lenient,
			reason: `field "usrName" is required`,
		},
		{
			name:   "non-numeric number",
			mutate: func(p query.Params) { p["age"] = query.Scalar("thirty") },
			mode:   Lenient,
			reason: `field "age" must be a number`,
		},
		{
			name:   "NaN number",
			mutate: func(p query.Params) { p["age"] = query.Scalar("NaN") },
			mode:   Lenient,
			reason: `field "age" must be a number`,
		},
		{
			name:   "blank optional number",
			mutate: func(p query.Params) { p["age"] = query.Scalar("") },
			mode:   Lenient,
		},
		{
			name:   "scalar for nested",
			mutate: func(p query.Params) { p["name"] = query.Scalar("Ann Lee") },
			mode:   Lenient,
			reason: `field "name" must be an object`,
		},
		{
			name:   "object for text",
			mutate: func(p query.Params) { p["country"] = query.Object(map[string]string{"code": "fr"}) },
			mode:   Lenient,
			reason: `field "country" must be a string`,
		},
		{
			name:   "object for number",
			mutate: func(p query.Params) { p["age"] = query.Object(map[string]string{"v": "1"}) },
			mode:   Lenient,
			reason: `field "age" must be a number`,
		},
		{
			name: "missing nested member",
			mutate: func(p query.Params) {
				p["name"] = query.Object(map[string]string{"first": "Ann"})
			},
			mode:   Lenient,
			reason: `field "name.last" is required`,
		},
		{
			name: "undeclared nested member strict",
			mutate: func(p query.Params) {
				p["name"] = query.Object(map[string]string{"first": "Ann", "last": "Lee", "middle": "J"})
			},
			mode:   Strict,
			reason: `unexpected field "name.middle"`,
		},
		{
			name: "undeclared nested member lenient",
			mutate: func(p query.Params) {
				p["name"] = query.Object(map[string]string{"first": "Ann", "last": "Lee", "middle": "J"})
			},
			mode: Lenient,
		},
		{
			name: "first failure in schema order wins",
			mutate: func(p query.Params) {
				delete(p, "usrName")
				p["age"] = query.Scalar("x")
			},
			mode:   Lenient,
			reason: `field "usrName" is required`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validRegistration()
			tt.mutate(p)
			out := Validate(p, registerSchema, tt.mode)

			if tt.reason == "" {
				if !out.IsValid() {
					t.Fatalf("unexpected rejection: %s", out.Reason())
				}
				if out.Err() != nil {
					t.Errorf("Err() = %v, want nil", out.Err())
				}
				return
			}
			if out.IsValid() {
				t.Fatalf("expected Invalid(%q)", tt.reason)
			}
			if out.Reason() != tt.reason {
				t.Errorf("Reason() = %q, want %q", out.Reason(), tt.reason)
			}
		})
	}
}

func TestValidate_LenientDropsUndeclaredMembers(t *testing.T) {
	p := validRegistration()
	p["name"] = query.Object(map[string]string{"first": "Ann", "last": "Lee", "middle": "J"})

	out := Validate(p, registerSchema, Lenient)
	name, _ := out.Params().Lookup("name")
	if _, ok := name.Member("middle"); ok {
		t.Error("undeclared member should be dropped")
	}
	if first, _ := name.Member("first"); first != "Ann" {
		t.Errorf("name.first = %q", first)
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	p := query.Params{"first": query.Scalar("ann"), "extra": query.Scalar("x")}
	Validate(p, nameSchema, Lenient)
	if len(p) != 2 {
		t.Errorf("input mutated: %v", p.Keys())
	}
}

func TestValidate_EmptyParams(t *testing.T) {
	for _, mode := range []Mode{Lenient, Strict} {
		out := Validate(query.Params{}, nameSchema, mode)
		if !out.IsValid() {
			t.Errorf("%s: empty params with no required fields rejected: %s", mode, out.Reason())
		}
		if !out.Params().IsEmpty() {
			t.Errorf("%s: accepted params not empty", mode)
		}
	}
}

func TestValidate_NilParams(t *testing.T) {
	out := Validate(nil, registerSchema, Strict)
	if out.IsValid() {
		t.Fatal("expected required-field rejection")
	}
}

func TestMode_String(t *testing.T) {
	if Strict.String() != "strict" || Lenient.String() != "lenient" {
		t.Errorf("String() = %q / %q", Strict, Lenient)
	}
}
