package transform

import (
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"quirk/internal/errs"
	"quirk/internal/mask"
	"quirk/internal/transcript"
)

// SeedParam is the parameter key that may carry a seed in configuration.
const SeedParam = "seed"

// Spec describes a transform to construct.
type Spec struct {
	Name    string
	Scope   Scope
	Tier    Tier
	Schema  Schema
	Body    Body
	Params  Params
	Seed    *uint64
	Include []string
	Exclude []string
	// Target, when set, overrides the composite's transcript target for
	// this transform. The zero value inherits it.
	Target transcript.Target
}

// Transform is safe for concurrent use. Name, scope and tier never change;
// parameters and seed change only through the setters, each of which bumps
// Revision so cached plans can tell they are stale.
type Transform struct {
	name  string
	scope Scope
	tier  Tier

	schema Schema
	body   Body

	mu      sync.RWMutex
	params  Params
	seed    *uint64
	include []string
	exclude []string
	target  transcript.Target
	rev     uint64
}

// New validates s and builds the transform. Every problem is reported at
// once as a ConfigError.
func New(s Spec) (*Transform, error) {
	var errList error
	if strings.TrimSpace(s.Name) == "" {
		errList = multierr.Append(errList, errs.Config("transform", "name is required"))
	}
	if !s.Scope.Valid() {
		errList = multierr.Append(errList, errs.Config(s.Name, "invalid scope %s", s.Scope))
	}
	if !s.Tier.Valid() {
		errList = multierr.Append(errList, errs.Config(s.Name, "invalid order tier %s", s.Tier))
	}
	if s.Body == nil {
		errList = multierr.Append(errList, errs.Config(s.Name, "no corruption body"))
	}

	params := s.Params.Clone()
	explicit, err := reconcileSeed(s.Name, s.Seed, &params)
	errList = multierr.Append(errList, err)

	params, err = s.Schema.Normalize(params)
	errList = multierr.Append(errList, err)

	errList = multierr.Append(errList, mask.Validate(s.Include))
	errList = multierr.Append(errList, mask.Validate(s.Exclude))

	if !s.Target.IsZero() {
		errList = multierr.Append(errList, s.Target.Validate())
	}

	if errList != nil {
		return nil, errList
	}
	return &Transform{
		name:    s.Name,
		scope:   s.Scope,
		tier:    s.Tier,
		schema:  s.Schema,
		body:    s.Body,
		params:  params,
		seed:    explicit,
		include: slices.Clone(s.Include),
		exclude: slices.Clone(s.Exclude),
		target:  s.Target,
	}, nil
}

// reconcileSeed folds a "seed" parameter into the explicit seed. Both being
// present with different values is a conflict.
func reconcileSeed(name string, explicit *uint64, params *Params) (*uint64, error) {
	v, ok := params.Get(SeedParam)
	if !ok {
		return copySeed(explicit), nil
	}
	params.Delete(SeedParam)
	iv, ok := v.Coerce(IntKind)
	if !ok || iv.AsInt() < 0 {
		return nil, errs.Config(name, "seed parameter must be a non-negative integer, got %s", v)
	}
	fromParam := uint64(iv.AsInt())
	if explicit != nil && *explicit != fromParam {
		return nil, errs.Config(name, "conflicting seeds: explicit %d, parameter %d", *explicit, fromParam)
	}
	return &fromParam, nil
}

func copySeed(s *uint64) *uint64 {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func (t *Transform) Name() string   { return t.name }
func (t *Transform) Scope() Scope   { return t.scope }
func (t *Transform) Tier() Tier     { return t.tier }
func (t *Transform) Schema() Schema { return t.schema }

func (t *Transform) Params() Params {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.params.Clone()
}

// Seed returns the explicit seed, if any.
func (t *Transform) Seed() (uint64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.seed == nil {
		return 0, false
	}
	return *t.seed, true
}

func (t *Transform) Include() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.include)
}

func (t *Transform) Exclude() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.exclude)
}

// Target is the transform's own transcript target; the zero value means it
// follows the composite.
func (t *Transform) Target() transcript.Target {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.target
}

// Revision changes every time a setter succeeds.
func (t *Transform) Revision() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rev
}

// SetParam validates and assigns one parameter. Setting "seed" is the same as
// SetSeed.
func (t *Transform) SetParam(key string, v Value) error {
	if key == SeedParam {
		iv, ok := v.Coerce(IntKind)
		if !ok || iv.AsInt() < 0 {
			return errs.Config(t.name, "seed parameter must be a non-negative integer, got %s", v)
		}
		t.SetSeed(uint64(iv.AsInt()))
		return nil
	}
	cv, err := t.schema.Check(key, v)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.params.Set(key, cv)
	t.rev++
	t.mu.Unlock()
	return nil
}

func (t *Transform) SetSeed(s uint64) {
	t.mu.Lock()
	t.seed = &s
	t.rev++
	t.mu.Unlock()
}

func (t *Transform) ClearSeed() {
	t.mu.Lock()
	t.seed = nil
	t.rev++
	t.mu.Unlock()
}

// SetPatterns replaces the transform's own include/exclude patterns.
func (t *Transform) SetPatterns(include, exclude []string) error {
	if err := multierr.Append(mask.Validate(include), mask.Validate(exclude)); err != nil {
		return err
	}
	t.mu.Lock()
	t.include, t.exclude = slices.Clone(include), slices.Clone(exclude)
	t.rev++
	t.mu.Unlock()
	return nil
}

// SetTarget sets the transform's own target. The zero Target clears it.
func (t *Transform) SetTarget(target transcript.Target) error {
	if !target.IsZero() {
		if err := target.Validate(); err != nil {
			return err
		}
	}
	t.mu.Lock()
	t.target = target
	t.rev++
	t.mu.Unlock()
	return nil
}

// Clone returns an independent copy; mutating one never affects the other.
// The revision starts over at zero.
func (t *Transform) Clone() *Transform {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return &Transform{
		name:    t.name,
		scope:   t.scope,
		tier:    t.tier,
		schema:  t.schema,
		body:    t.body,
		params:  t.params.Clone(),
		seed:    copySeed(t.seed),
		include: slices.Clone(t.include),
		exclude: slices.Clone(t.exclude),
		target:  t.target,
	}
}

// Corrupt runs the reference implementation over the whole text.
func (t *Transform) Corrupt(text string, rng *rand.Rand) (string, error) {
	out, err := t.body.Corrupt(text, rng, t.Params())
	if err != nil {
		return "", errs.Operation(t.name, err)
	}
	return out, nil
}

// CorruptSegments runs the reference implementation over a masked layout,
// rewriting unprotected segments in place. Bodies that are not SegmentBody
// see each eligible run separately, in order, sharing rng.
func (t *Transform) CorruptSegments(segs []mask.Segment, rng *rand.Rand) error {
	p := t.Params()
	if sb, ok := t.body.(SegmentBody); ok {
		return errs.Operation(t.name, sb.CorruptSegments(segs, rng, p))
	}
	for i := range segs {
		if segs[i].Protected {
			continue
		}
		out, err := t.body.Corrupt(segs[i].Text, rng, p)
		if err != nil {
			return errs.Operation(t.name, err)
		}
		segs[i].Text = out
	}
	return nil
}

// Descriptor returns the fast-backend operation for the current parameters.
func (t *Transform) Descriptor() (Operation, bool) {
	d, ok := t.body.(Describer)
	if !ok {
		return Operation{}, false
	}
	return d.Describe(t.Params())
}

func (t *Transform) String() string {
	return t.name + "(" + t.Params().String() + ")"
}
