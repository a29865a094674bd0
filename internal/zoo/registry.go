// Package zoo holds the built-in transform kinds and the name registry the
// attack-file compiler resolves transform names against.
package zoo

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"quirk/internal/errs"
	"quirk/internal/transform"
)

// Kind is everything about a transform that is fixed by its name.
type Kind struct {
	Name   string
	Scope  transform.Scope
	Tier   transform.Tier
	Schema transform.Schema
	Body   transform.Body
	Doc    string
}

var (
	mu    sync.RWMutex
	kinds = map[string]Kind{}
)

// Register adds a kind. Names are matched case-insensitively; registering a
// name twice panics.
func Register(k Kind) {
	key := strings.ToLower(k.Name)
	mu.Lock()
	defer mu.Unlock()
	if _, dup := kinds[key]; dup {
		panic(fmt.Sprintf("zoo: transform %q registered twice", k.Name))
	}
	kinds[key] = k
}

func Lookup(name string) (Kind, bool) {
	mu.RLock()
	defer mu.RUnlock()
	k, ok := kinds[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// Names lists registered kinds in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k.Name)
	}
	slices.Sort(out)
	return out
}

// New builds a transform of the named kind. Name, scope, tier, schema and
// body come from the kind; everything else comes from s.
func New(name string, s transform.Spec) (*transform.Transform, error) {
	k, ok := Lookup(name)
	if !ok {
		return nil, errs.Config("zoo", "unknown transform %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	s.Name, s.Scope, s.Tier, s.Schema, s.Body = k.Name, k.Scope, k.Tier, k.Schema, k.Body
	return transform.New(s)
}

// MustNew is New for statically known arguments.
func MustNew(name string, params ...transform.Param) *transform.Transform {
	t, err := New(name, transform.Spec{Params: transform.NewParams(params...)})
	if err != nil {
		panic(err)
	}
	return t
}
