package form

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/multierr"
)

func TestAllCollectsEveryFailure(t *testing.T) {
	validate := All(
		Required("name", "Name"),
		Required("organization_id", "Organization"),
		Integer("priority", "Priority"),
		nil,
	)

	err := validate(Values{"name": " ", "priority": "high"})
	want := []string{"Name is required", "Organization is required", "Priority must be a whole number"}
	if got := Messages(err); !reflect.DeepEqual(got, want) {
		t.Errorf("Messages() = %v, want %v", got, want)
	}
	if !IsValidation(err) {
		t.Error("IsValidation() = false")
	}

	fe := FieldErrors(err)
	if fe["priority"] != "Priority must be a whole number" {
		t.Errorf("FieldErrors = %v", fe)
	}
}

func TestAllPasses(t *testing.T) {
	validate := All(Required("name", "Name"), Number("multiplier", "Multiplier"))
	if err := validate(Values{"name": "Acme", "multiplier": "1.5"}); err != nil {
		t.Errorf("validate() = %v, want nil", err)
	}
}

func TestIsValidationMixed(t *testing.T) {
	if IsValidation(multierr.Append(Invalid("a", "bad"), errors.New("network"))) {
		t.Error("joined non-validation error should not count")
	}
	if IsValidation(nil) {
		t.Error("nil is not a validation error")
	}
}

func TestValuesAccessors(t *testing.T) {
	v := Values{
		"s":     "text",
		"n":     float64(3),
		"ns":    "42",
		"bad":   "x",
		"on":    "on",
		"b":     true,
		"list":  []any{"a", "b"},
		"objs":  []any{map[string]any{"k": "v"}},
		"obj":   map[string]any{"k": 1},
		"blank": "  ",
	}

	if v.String("n") != "3" {
		t.Errorf("String(n) = %q", v.String("n"))
	}
	if n, ok := v.Int("ns"); !ok || n != 42 {
		t.Errorf("Int(ns) = %d, %v", n, ok)
	}
	if _, ok := v.Int("bad"); ok {
		t.Error("Int(bad) should fail")
	}
	if !v.Bool("on") || !v.Bool("b") || v.Bool("missing") {
		t.Error("Bool mismatch")
	}
	if !reflect.DeepEqual(v.StringList("list"), []string{"a", "b"}) {
		t.Errorf("StringList = %v", v.StringList("list"))
	}
	if len(v.ObjectList("objs")) != 1 {
		t.Errorf("ObjectList = %v", v.ObjectList("objs"))
	}
	if v.Object("obj")["k"] != 1 {
		t.Errorf("Object = %v", v.Object("obj"))
	}
	if !v.Blank("blank") || !v.Blank("missing") || v.Blank("s") {
		t.Error("Blank mismatch")
	}
}
