package source

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Record is one unit of input. Value is a string or a decoded transcript
// ([]any of turn mappings).
type Record struct {
	Seq   int
	Value any
}

type EmitFunc func(Record) error

type Config struct {
	// Path is the input file; "" or "-" reads stdin.
	Path string
}

type Adapter interface {
	Configure(Config) error
	Run(context.Context, EmitFunc) error
	Close() error
}

// Factory builds an Adapter (text, lines, jsonl, transcript…).
type Factory func() Adapter

var registry = map[string]Factory{}

// Register is called from each driver's init().
func Register(name string, f Factory) {
	registry[name] = f
}

// NewAdapter returns a driver by name.
func NewAdapter(name string) (Adapter, error) {
	if f, ok := registry[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("source: unsupported format %q (have %s)", name, strings.Join(Names(), ", "))
}

func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
