package pipeline

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"

	"quirk/internal/config"
	"quirk/internal/seed"
	"quirk/internal/spec"
	"quirk/internal/transcript"
	"quirk/internal/transform"
	"quirk/internal/zoo"
)

// Compile loads an attack file and builds its composite. opts are applied
// after the file's own settings, so they win.
func Compile(path string, opts ...Option) (*Composite, error) {
	f, err := config.LoadAttackSpec(path)
	if err != nil {
		return nil, err
	}
	return FromSpec(f, opts...)
}

// FromSpec builds a composite from a parsed attack file.
func FromSpec(f spec.File, opts ...Option) (*Composite, error) {
	var (
		errList error
		ts      []*transform.Transform
	)
	for i, entry := range f.Transforms {
		t, err := buildTransform(entry)
		if err != nil {
			errList = multierr.Append(errList, fmt.Errorf("transform #%d: %w", i+1, err))
			continue
		}
		ts = append(ts, t)
	}

	master := seed.Default
	if f.Seed != nil {
		master = *f.Seed
	}
	base := []Option{WithSeed(master), WithInclude(f.Include...), WithExclude(f.Exclude...)}
	if f.TranscriptTarget != nil {
		target, err := transcript.ParseTarget(f.TranscriptTarget)
		errList = multierr.Append(errList, err)
		base = append(base, WithTarget(target))
	}
	if errList != nil {
		return nil, errList
	}
	return New(ts, append(base, opts...)...)
}

func buildTransform(entry spec.TransformSpec) (*transform.Transform, error) {
	if entry.Compact != "" {
		return zoo.FromSpec(entry.Compact)
	}
	raw := entry.Params()
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	params, err := transform.ParamsFromMap(raw, keys)
	if err != nil {
		return nil, err
	}
	s := transform.Spec{
		Params:  params,
		Seed:    entry.Seed,
		Include: entry.Include,
		Exclude: entry.Exclude,
	}
	if entry.Target != nil {
		if s.Target, err = transcript.ParseTarget(entry.Target); err != nil {
			return nil, err
		}
	}
	return zoo.New(entry.Name, s)
}
