package transform

import (
	"math/rand/v2"

	"quirk/internal/mask"
)

// Body is the reference implementation of a transform kind. Corrupt must be
// total over text (including "") and must be deterministic for a given RNG
// state.
type Body interface {
	Corrupt(text string, rng *rand.Rand, p Params) (string, error)
}

// Describer is implemented by bodies the fast backend can execute. ok=false
// means the current parameters cannot be expressed as an operation.
type Describer interface {
	Describe(p Params) (op Operation, ok bool)
}

// SegmentBody is implemented by bodies that need the whole masked layout at
// once (protected runs included) rather than one eligible run at a time.
// Implementations rewrite the Text of unprotected segments only.
type SegmentBody interface {
	CorruptSegments(segs []mask.Segment, rng *rand.Rand, p Params) error
}

// BodyFunc adapts a plain function to Body.
type BodyFunc func(text string, rng *rand.Rand, p Params) (string, error)

func (f BodyFunc) Corrupt(text string, rng *rand.Rand, p Params) (string, error) {
	return f(text, rng, p)
}

// Operation is the fast-backend payload of a descriptor. Type names the
// kernel; Params fully determine its behavior.
type Operation struct {
	Type   string
	Params Params
}

func (o Operation) Equal(x Operation) bool { return o.Type == x.Type && o.Params.Equal(x.Params) }

func (o Operation) String() string { return o.Type + "(" + o.Params.String() + ")" }

// Descriptor is one transform as the fast backend sees it.
type Descriptor struct {
	Name      string
	Seed      uint64
	Operation Operation
}

func (d Descriptor) Equal(x Descriptor) bool {
	return d.Name == x.Name && d.Seed == x.Seed && d.Operation.Equal(x.Operation)
}
