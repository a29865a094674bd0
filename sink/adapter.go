package sink

import (
	"fmt"
)

// Record is one corrupted output, tagged with the input record's sequence.
type Record struct {
	Seq   int
	Value any
}

// EmitFn is what a sink calls once a record has been written.
type EmitFn func(seq int)

// Adapter is the common behaviour every sink exposes.
type Adapter interface {
	Configure(any) error // driver-specific config ⇒ struct
	Push(Record) error   // consume one record
	Close() error        // idempotent
}

// AckAware is optional; sinks that report written records implement it.
// The engine wires the callback if present.
type AckAware interface {
	BindAck(EmitFn)
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q", name)
}
