package transform

import (
	"strings"

	"quirk/internal/errs"
)

// Param is one named parameter.
type Param struct {
	Key   string
	Value Value
}

// Params is an ordered parameter map. Order is insertion order and is part
// of a transform's identity in plans and descriptors.
type Params struct {
	entries []Param
}

// NewParams builds Params from ps in order; a repeated key keeps its first position.
func NewParams(ps ...Param) Params {
	var p Params
	for _, e := range ps {
		p.Set(e.Key, e.Value)
	}
	return p
}

func P(key string, v Value) Param { return Param{Key: key, Value: v} }

func (p Params) Len() int { return len(p.entries) }

func (p Params) Get(key string) (Value, bool) {
	for _, e := range p.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Set replaces key in place or appends it.
func (p *Params) Set(key string, v Value) {
	for i := range p.entries {
		if p.entries[i].Key == key {
			p.entries[i].Value = v
			return
		}
	}
	p.entries = append(p.entries, Param{Key: key, Value: v})
}

// Delete removes key, keeping the order of the rest.
func (p *Params) Delete(key string) {
	for i := range p.entries {
		if p.entries[i].Key == key {
			p.entries = append(p.entries[:i:i], p.entries[i+1:]...)
			return
		}
	}
}

func (p Params) Entries() []Param {
	out := make([]Param, len(p.entries))
	for i, e := range p.entries {
		out[i] = Param{Key: e.Key, Value: e.Value.clone()}
	}
	return out
}

func (p Params) Clone() Params { return Params{entries: p.Entries()} }

func (p Params) Equal(o Params) bool {
	if len(p.entries) != len(o.entries) {
		return false
	}
	for i := range p.entries {
		if p.entries[i].Key != o.entries[i].Key || !p.entries[i].Value.Equal(o.entries[i].Value) {
			return false
		}
	}
	return true
}

func (p Params) Float(key string) float64 {
	v, _ := p.Get(key)
	return v.AsFloat()
}

func (p Params) Int(key string) int64 {
	v, _ := p.Get(key)
	return v.AsInt()
}

func (p Params) Bool(key string) bool {
	v, _ := p.Get(key)
	return v.AsBool()
}

func (p Params) Str(key string) string {
	v, _ := p.Get(key)
	return v.AsString()
}

func (p Params) List(key string) []string {
	v, _ := p.Get(key)
	return v.AsStrings()
}

// String renders key=value pairs in order, e.g. "rate=0.5,unweighted=false".
func (p Params) String() string {
	parts := make([]string, len(p.entries))
	for i, e := range p.entries {
		parts[i] = e.Key + "=" + e.Value.String()
	}
	return strings.Join(parts, ",")
}

// ParamsFromMap converts decoded configuration values. keys fixes the order.
func ParamsFromMap(m map[string]any, keys []string) (Params, error) {
	var p Params
	for _, k := range keys {
		raw, ok := m[k]
		if !ok {
			continue
		}
		v, err := ValueOf(raw)
		if err != nil {
			return Params{}, errs.Config("parameter "+k, "%v", err)
		}
		p.Set(k, v)
	}
	return p, nil
}

func (v Value) clone() Value {
	if v.kind == StringsKind {
		v.ss = append([]string(nil), v.ss...)
	}
	return v
}
