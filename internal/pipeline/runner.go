package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"quirk/internal/backend"
	"quirk/internal/errs"
	"quirk/internal/plan"
	"quirk/internal/transcript"
	"quirk/internal/transform"
)

// ApplyString corrupts text. On error no partial output is returned.
func (c *Composite) ApplyString(text string) (string, error) {
	c.metrics.Apply("string")
	_, p, master := c.snapshot()
	out, err := c.run(p, master, text)
	if err != nil {
		c.metrics.Error(errs.Class(err))
		return "", err
	}
	return out, nil
}

// ApplyTranscript corrupts the targeted turns of tr, each independently with
// the same plan and seed. A transform with its own target runs only on the
// turns that target selects; the rest follow the composite's target. tr is
// not modified; the result shares untouched turns with it.
func (c *Composite) ApplyTranscript(tr transcript.Transcript) (transcript.Transcript, error) {
	c.metrics.Apply("transcript")
	out, err := c.applyTranscript(tr)
	if err != nil {
		c.metrics.Error(errs.Class(err))
		return nil, err
	}
	return out, nil
}

func (c *Composite) applyTranscript(tr transcript.Transcript) (transcript.Transcript, error) {
	if err := transcript.Validate(tr); err != nil {
		return nil, err
	}
	shared, err := transcript.Resolve(tr, c.Target())
	if err != nil {
		return nil, err
	}
	ordered, p, master := c.snapshot()

	// Resolve every own target before touching any turn.
	var own map[*transform.Transform][]int
	turns := shared
	for _, t := range ordered {
		target := t.Target()
		if target.IsZero() {
			continue
		}
		idx, err := transcript.Resolve(tr, target)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
		if own == nil {
			own = make(map[*transform.Transform][]int)
		}
		own[t] = idx
		turns = append(slices.Clone(turns), idx...)
	}
	if own == nil {
		return transcript.Rebuild(tr, shared, func(_ int, content string) (string, error) {
			return c.run(p, master, content)
		})
	}
	slices.Sort(turns)
	turns = slices.Compact(turns)
	return transcript.Rebuild(tr, turns, func(i int, content string) (string, error) {
		sub := p.Only(func(m plan.Member) bool {
			if idx, ok := own[m.Transform]; ok {
				return slices.Contains(idx, i)
			}
			return slices.Contains(shared, i)
		})
		return c.run(sub, master, content)
	})
}

// Apply dispatches on the input shape: a string, a Transcript, or a decoded
// JSON list of turn mappings. Transcripts come back as Transcript.
func (c *Composite) Apply(input any) (any, error) {
	if s, ok := input.(string); ok {
		return c.ApplyString(s)
	}
	if tr, ok := transcript.FromAny(input); ok {
		return c.ApplyTranscript(tr)
	}
	err := errs.Config("apply", "unsupported input type %T", input)
	c.metrics.Error(errs.Class(err))
	return nil, err
}

// run feeds text through every step in order.
func (c *Composite) run(p plan.Plan, master uint64, text string) (string, error) {
	var err error
	for _, st := range p.Steps {
		switch st.Kind {
		case plan.Batch:
			text, err = c.runBatch(st, master, text)
		case plan.Fallback:
			text, err = c.runMembers(st, text)
		}
		if err != nil {
			return "", err
		}
	}
	return text, nil
}

func (c *Composite) runBatch(st plan.Step, master uint64, text string) (string, error) {
	out, err := c.backend.RunBatch(text, st.Descriptors(), master, st.Mask.Include, st.Mask.Exclude)
	if errors.Is(err, backend.ErrUnavailable) {
		c.metrics.Degraded()
		c.log.Debug("batch backend unavailable, running batch on reference backend",
			zap.String("backend", c.backend.Name()),
			zap.Int("transforms", len(st.Members)))
		return c.runMembers(st, text)
	}
	if err != nil {
		return "", err
	}
	c.metrics.Step(st.Kind.String(), c.backend.Name())
	return out, nil
}

func (c *Composite) runMembers(st plan.Step, text string) (string, error) {
	var err error
	for _, m := range st.Members {
		text, err = c.ref.RunTransform(m.Transform, text, m.Seed, st.Mask)
		if err != nil {
			return "", err
		}
	}
	c.metrics.Step(st.Kind.String(), c.ref.Name())
	return text, nil
}
