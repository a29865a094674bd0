package ops

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"quirk/internal/mask"
	"quirk/internal/transform"
)

// Kernel rewrites the unprotected segments of segs in place.
type Kernel func(segs []mask.Segment, rng *rand.Rand, p transform.Params) error

var (
	mu       sync.RWMutex
	registry = map[string]Kernel{}
)

// Register makes a kernel available under an operation type. It is meant to
// be called from init functions; registering a type twice panics.
func Register(typ string, k Kernel) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[typ]; dup {
		panic(fmt.Sprintf("ops: kernel %q registered twice", typ))
	}
	registry[typ] = k
}

// Lookup returns the kernel for typ.
func Lookup(typ string) (Kernel, bool) {
	mu.RLock()
	defer mu.RUnlock()
	k, ok := registry[typ]
	return k, ok
}

// Types lists registered operation types in sorted order.
func Types() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

const (
	TypeReduplicate = "reduplicate"
	TypeDelete      = "delete"
	TypeSwap        = "swap_adjacent"
	TypeRedact      = "redact"
	TypeZeroWidth   = "zwj"
)

func init() {
	Register(TypeReduplicate, Reduplicate)
	Register(TypeDelete, Delete)
	Register(TypeSwap, SwapAdjacent)
	Register(TypeRedact, Redact)
	Register(TypeZeroWidth, ZeroWidth)
}
