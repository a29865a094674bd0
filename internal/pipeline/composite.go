// Package pipeline composes transforms into a seeded, canonically ordered
// Composite and applies it to strings and transcripts.
package pipeline

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"quirk/internal/backend"
	"quirk/internal/errs"
	"quirk/internal/logging"
	"quirk/internal/mask"
	"quirk/internal/plan"
	"quirk/internal/seed"
	"quirk/internal/telemetry"
	"quirk/internal/transcript"
	"quirk/internal/transform"
)

type Option func(*Composite)

func WithSeed(s uint64) Option { return func(c *Composite) { c.seed = s } }

// WithInclude adds global include patterns.
func WithInclude(patterns ...string) Option {
	return func(c *Composite) { c.include = append(c.include, patterns...) }
}

// WithExclude adds global exclude patterns.
func WithExclude(patterns ...string) Option {
	return func(c *Composite) { c.exclude = append(c.exclude, patterns...) }
}

// WithTarget sets which transcript turns are corrupted. The default is the
// last turn.
func WithTarget(t transcript.Target) Option { return func(c *Composite) { c.target = t } }

// WithBackend injects the batch backend. The default is the fast backend.
func WithBackend(b backend.Backend) Option { return func(c *Composite) { c.backend = b } }

func WithLogger(l *zap.Logger) Option { return func(c *Composite) { c.log = l } }

func WithMetrics(m *telemetry.Metrics) Option { return func(c *Composite) { c.metrics = m } }

// Composite is a seeded collection of transforms applied as one pipeline.
// It owns clones of the transforms it was given, so two composites never see
// each other's parameter changes. Apply methods are safe for concurrent use.
type Composite struct {
	backend backend.Backend
	ref     *backend.Reference
	log     *zap.Logger
	metrics *telemetry.Metrics

	mu      sync.Mutex
	ts      []*transform.Transform
	seed    uint64
	include []string
	exclude []string
	target  transcript.Target
	rev     uint64

	cache *cachedPlan
}

type cachedPlan struct {
	rev     uint64
	revs    []uint64
	ordered []*transform.Transform
	plan    plan.Plan
}

// New validates the configuration and builds a composite over clones of ts.
// Every problem is reported at once as a ConfigError.
func New(ts []*transform.Transform, opts ...Option) (*Composite, error) {
	c := &Composite{seed: seed.Default, target: transcript.Last()}
	for _, o := range opts {
		o(c)
	}
	var errList error
	for i, t := range ts {
		if t == nil {
			errList = multierr.Append(errList, errs.Config("composite", "transform %d is nil", i))
			continue
		}
		c.ts = append(c.ts, t.Clone())
	}
	errList = multierr.Append(errList, mask.Validate(c.include))
	errList = multierr.Append(errList, mask.Validate(c.exclude))
	if c.target.IsZero() {
		c.target = transcript.Last()
	}
	errList = multierr.Append(errList, c.target.Validate())
	if errList != nil {
		return nil, errList
	}
	if c.log == nil {
		c.log = logging.L()
	}
	if c.backend == nil {
		c.backend = backend.NewFast(0, 0)
	}
	c.ref = backend.NewReference(nil)
	c.include = slices.Clone(c.include)
	c.exclude = slices.Clone(c.exclude)
	return c, nil
}

// Add appends a clone of t. Canonical order is recomputed on the next apply.
func (c *Composite) Add(t *transform.Transform) error {
	if t == nil {
		return errs.Config("composite", "cannot add a nil transform")
	}
	cl := t.Clone()
	c.mu.Lock()
	c.ts = append(c.ts, cl)
	c.rev++
	c.mu.Unlock()
	return nil
}

func (c *Composite) Seed() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seed
}

func (c *Composite) SetSeed(s uint64) {
	c.mu.Lock()
	c.seed = s
	c.rev++
	c.mu.Unlock()
}

// SetPatterns replaces the global include/exclude patterns.
func (c *Composite) SetPatterns(include, exclude []string) error {
	if err := multierr.Append(mask.Validate(include), mask.Validate(exclude)); err != nil {
		return err
	}
	c.mu.Lock()
	c.include, c.exclude = slices.Clone(include), slices.Clone(exclude)
	c.rev++
	c.mu.Unlock()
	return nil
}

func (c *Composite) Target() transcript.Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *Composite) SetTarget(t transcript.Target) error {
	if err := t.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.target = t
	c.mu.Unlock()
	return nil
}

// Transforms returns the composite's own transforms in insertion order.
// Changing their parameters changes the composite.
func (c *Composite) Transforms() []*transform.Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.ts)
}

// Order returns the transforms in the order they run.
func (c *Composite) Order() []*transform.Transform {
	ordered, _, _ := c.snapshot()
	return ordered
}

// Plan returns the current execution plan, rebuilding it if anything it
// depends on changed since it was last built.
func (c *Composite) Plan() plan.Plan {
	_, p, _ := c.snapshot()
	return p
}

// Clone returns an independent composite with cloned transforms and the same
// settings, backend, logger and metrics.
func (c *Composite) Clone() *Composite {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := make([]*transform.Transform, len(c.ts))
	for i, t := range c.ts {
		ts[i] = t.Clone()
	}
	return &Composite{
		backend: c.backend,
		ref:     c.ref,
		log:     c.log,
		metrics: c.metrics,
		ts:      ts,
		seed:    c.seed,
		include: slices.Clone(c.include),
		exclude: slices.Clone(c.exclude),
		target:  c.target,
	}
}

func (c *Composite) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("composite(seed=%d, transforms=%d)", c.seed, len(c.ts))
}

// snapshot returns the ordered transforms, the plan and the master seed as
// of one consistent moment.
func (c *Composite) snapshot() ([]*transform.Transform, plan.Plan, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	revs := make([]uint64, len(c.ts))
	for i, t := range c.ts {
		revs[i] = t.Revision()
	}
	if cp := c.cache; cp != nil && cp.rev == c.rev && slices.Equal(cp.revs, revs) {
		return slices.Clone(cp.ordered), cp.plan, c.seed
	}
	ordered := plan.Order(c.ts)
	p := plan.Build(ordered, c.seed, mask.Mask{Include: c.include, Exclude: c.exclude})
	c.cache = &cachedPlan{rev: c.rev, revs: revs, ordered: ordered, plan: p}
	c.metrics.PlanBuilt()
	c.log.Debug("plan built",
		zap.Int("steps", p.StepCount()),
		zap.Bool("all_pipeline", p.AllPipeline()),
		zap.Uint64("seed", c.seed))
	return slices.Clone(ordered), p, c.seed
}
