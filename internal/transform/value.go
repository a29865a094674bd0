package transform

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	FloatKind ValueKind = iota + 1
	IntKind
	BoolKind
	StringKind
	StringsKind
)

func (k ValueKind) String() string {
	switch k {
	case FloatKind:
		return "float"
	case IntKind:
		return "int"
	case BoolKind:
		return "bool"
	case StringKind:
		return "string"
	case StringsKind:
		return "[]string"
	}
	return "invalid"
}

// Value is a single transform parameter.
type Value struct {
	kind ValueKind
	f    float64
	i    int64
	b    bool
	s    string
	ss   []string
}

func Float(f float64) Value         { return Value{kind: FloatKind, f: f} }
func Int(i int64) Value             { return Value{kind: IntKind, i: i} }
func Bool(b bool) Value             { return Value{kind: BoolKind, b: b} }
func String(s string) Value         { return Value{kind: StringKind, s: s} }
func Strings(ss ...string) Value    { return Value{kind: StringsKind, ss: slices.Clone(ss)} }
func (v Value) Kind() ValueKind     { return v.kind }
func (v Value) IsZero() bool        { return v.kind == 0 }
func (v Value) AsBool() bool        { return v.b }
func (v Value) AsString() string    { return v.s }
func (v Value) AsStrings() []string { return slices.Clone(v.ss) }

// AsFloat returns the value as a float; integers widen.
func (v Value) AsFloat() float64 {
	if v.kind == IntKind {
		return float64(v.i)
	}
	return v.f
}

// AsInt returns the value as an integer; integral floats narrow.
func (v Value) AsInt() int64 {
	if v.kind == FloatKind {
		return int64(v.f)
	}
	return v.i
}

// Equal compares kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case FloatKind:
		return v.f == o.f
	case IntKind:
		return v.i == o.i
	case BoolKind:
		return v.b == o.b
	case StringKind:
		return v.s == o.s
	case StringsKind:
		return slices.Equal(v.ss, o.ss)
	}
	return true
}

// Coerce converts v to kind k where that is lossless: int to float, an
// integral float to int, a single string to a one-element list.
func (v Value) Coerce(k ValueKind) (Value, bool) {
	if v.kind == k {
		return v, true
	}
	switch {
	case k == FloatKind && v.kind == IntKind:
		return Float(float64(v.i)), true
	case k == IntKind && v.kind == FloatKind && v.f == math.Trunc(v.f):
		return Int(int64(v.f)), true
	case k == StringsKind && v.kind == StringKind:
		return Strings(v.s), true
	}
	return Value{}, false
}

func (v Value) String() string {
	switch v.kind {
	case FloatKind:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case BoolKind:
		return strconv.FormatBool(v.b)
	case StringKind:
		return strconv.Quote(v.s)
	case StringsKind:
		quoted := make([]string, len(v.ss))
		for i, s := range v.ss {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ",") + "]"
	}
	return "<invalid>"
}

// ValueOf converts a decoded configuration value into a Value.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case Value:
		return t, nil
	case float64:
		return Float(t), nil
	case float32:
		return Float(float64(t)), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case int32:
		return Int(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Value{}, fmt.Errorf("integer %d overflows", t)
		}
		return Int(int64(t)), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case []string:
		return Strings(t...), nil
	case []any:
		ss := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return Value{}, fmt.Errorf("list entries must be strings, got %T", e)
			}
			ss = append(ss, s)
		}
		return Strings(ss...), nil
	}
	return Value{}, fmt.Errorf("unsupported parameter type %T", x)
}
