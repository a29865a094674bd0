package plan

import (
	"fmt"
	"strings"

	"quirk/internal/mask"
	"quirk/internal/seed"
	"quirk/internal/transform"
)

// Kind tells batch steps from fallback steps.
type Kind uint8

const (
	Batch Kind = iota + 1
	Fallback
)

func (k Kind) String() string {
	switch k {
	case Batch:
		return "batch"
	case Fallback:
		return "fallback"
	}
	return "invalid"
}

// Member is one scheduled transform with its derived seed. Descriptor is set
// for batch members only.
type Member struct {
	Transform  *transform.Transform
	Position   int
	Seed       uint64
	Descriptor transform.Descriptor
}

// Step is a batch of descriptor-capable transforms sharing one mask, or a
// single fallback transform.
type Step struct {
	Kind    Kind
	Mask    mask.Mask
	Members []Member
}

// Descriptors lists the batch's descriptors in order.
func (s Step) Descriptors() []transform.Descriptor {
	if s.Kind != Batch {
		return nil
	}
	out := make([]transform.Descriptor, len(s.Members))
	for i, m := range s.Members {
		out[i] = m.Descriptor
	}
	return out
}

// Plan is the ordered step list. It is never mutated after Build.
type Plan struct {
	Steps []Step
}

func (p Plan) StepCount() int { return len(p.Steps) }

// AllPipeline reports whether no step needs the reference backend. An empty
// plan is all-pipeline.
func (p Plan) AllPipeline() bool {
	for _, s := range p.Steps {
		if s.Kind == Fallback {
			return false
		}
	}
	return true
}

// Len counts scheduled transforms.
func (p Plan) Len() int {
	n := 0
	for _, s := range p.Steps {
		n += len(s.Members)
	}
	return n
}

// Only returns the plan restricted to the members keep accepts. Positions
// and seeds are unchanged and emptied steps are dropped.
func (p Plan) Only(keep func(Member) bool) Plan {
	var steps []Step
	for _, s := range p.Steps {
		var members []Member
		for _, m := range s.Members {
			if keep(m) {
				members = append(members, m)
			}
		}
		if len(members) == 0 {
			continue
		}
		s.Members = members
		steps = append(steps, s)
	}
	return Plan{Steps: steps}
}

// SeedFor is the seed a transform at position runs with: its explicit seed
// if it has one, else one derived from the master seed, its name and position.
func SeedFor(t *transform.Transform, master uint64, position int) uint64 {
	if s, ok := t.Seed(); ok {
		return s
	}
	return seed.Derive(master, t.Name(), position)
}

// Build partitions canonically ordered transforms into the fewest steps that
// keep canonical order and never batch transforms with differing masks.
// ordered must already be canonical; see Order.
func Build(ordered []*transform.Transform, master uint64, global mask.Mask) Plan {
	var (
		steps []Step
		open  *Step
	)
	closeBatch := func() {
		if open != nil {
			steps = append(steps, *open)
			open = nil
		}
	}
	for i, t := range ordered {
		m := EffectiveMask(t, global)
		member := Member{Transform: t, Position: i, Seed: SeedFor(t, master, i)}
		op, ok := t.Descriptor()
		if !ok {
			closeBatch()
			steps = append(steps, Step{Kind: Fallback, Mask: m, Members: []Member{member}})
			continue
		}
		member.Descriptor = transform.Descriptor{Name: t.Name(), Seed: member.Seed, Operation: op}
		if open != nil && !open.Mask.Equal(m) {
			closeBatch()
		}
		if open == nil {
			open = &Step{Kind: Batch, Mask: m}
		}
		open.Members = append(open.Members, member)
	}
	closeBatch()
	return Plan{Steps: steps}
}

// Fingerprint renders the plan's structure, one step per line, for display
// and comparison. Equal plans have equal fingerprints.
func (p Plan) Fingerprint() string {
	var b strings.Builder
	for i, s := range p.Steps {
		fmt.Fprintf(&b, "%d %s [%s]", i, s.Kind, s.Mask)
		for _, m := range s.Members {
			fmt.Fprintf(&b, " %s#%d@%d", m.Transform.Name(), m.Position, m.Seed)
			if s.Kind == Batch {
				fmt.Fprintf(&b, "=%s", m.Descriptor.Operation)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
