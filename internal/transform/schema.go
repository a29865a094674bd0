package transform

import (
	"fmt"
	"math"

	"go.uber.org/multierr"

	"quirk/internal/errs"
)

// Field declares one parameter of a transform kind.
type Field struct {
	Name     string
	Kind     ValueKind
	Default  Value
	Required bool
	// Min and Max bound numeric fields when set.
	Min, Max *float64
}

// Schema is the fixed parameter set of a transform kind.
type Schema []Field

// Bound returns a pointer for Field.Min/Max literals.
func Bound(f float64) *float64 { return &f }

// Keys lists the declared field names in order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Name
	}
	return keys
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Normalize validates p and returns it in schema order with defaults filled
// in. A nil schema accepts any parameters unchanged.
func (s Schema) Normalize(p Params) (Params, error) {
	if s == nil {
		return p.Clone(), nil
	}
	var errList error
	for _, e := range p.entries {
		if _, ok := s.field(e.Key); !ok {
			errList = multierr.Append(errList, fmt.Errorf("unknown parameter %q", e.Key))
		}
	}
	var out Params
	for _, f := range s {
		v, ok := p.Get(f.Name)
		if !ok {
			if f.Required {
				errList = multierr.Append(errList, fmt.Errorf("missing parameter %q", f.Name))
				continue
			}
			if f.Default.IsZero() {
				continue
			}
			v = f.Default
		}
		if err := f.check(v); err != nil {
			errList = multierr.Append(errList, err)
			continue
		}
		cv, _ := v.Coerce(f.Kind)
		out.Set(f.Name, cv.clone())
	}
	if errList != nil {
		return Params{}, &errs.ConfigError{Op: "parameters", Err: errList}
	}
	return out, nil
}

// Check validates a single parameter assignment.
func (s Schema) Check(key string, v Value) (Value, error) {
	if s == nil {
		return v, nil
	}
	f, ok := s.field(key)
	if !ok {
		return Value{}, errs.Config("parameters", "unknown parameter %q", key)
	}
	if err := f.check(v); err != nil {
		return Value{}, &errs.ConfigError{Op: "parameters", Err: err}
	}
	cv, _ := v.Coerce(f.Kind)
	return cv, nil
}

func (f Field) check(v Value) error {
	cv, ok := v.Coerce(f.Kind)
	if !ok {
		return fmt.Errorf("parameter %q wants %s, got %s", f.Name, f.Kind, v.Kind())
	}
	if f.Kind == FloatKind || f.Kind == IntKind {
		x := cv.AsFloat()
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("parameter %q = %v is not a finite number", f.Name, x)
		}
		if f.Min != nil && x < *f.Min {
			return fmt.Errorf("parameter %q = %v below minimum %v", f.Name, x, *f.Min)
		}
		if f.Max != nil && x > *f.Max {
			return fmt.Errorf("parameter %q = %v above maximum %v", f.Name, x, *f.Max)
		}
	}
	return nil
}
