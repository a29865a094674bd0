package backend

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"quirk/internal/errs"
	"quirk/internal/mask"
	"quirk/internal/ops"
	"quirk/internal/seed"
	"quirk/internal/transform"
)

const DefaultProgramCacheSize = 128

// program is a descriptor list resolved to kernels.
type program []ops.Kernel

// Fast executes descriptor batches with the ops kernels.
type Fast struct {
	masks    *mask.Cache
	programs *lru.Cache[string, program]
}

func NewFast(maskCacheSize, programCacheSize int) *Fast {
	if programCacheSize <= 0 {
		programCacheSize = DefaultProgramCacheSize
	}
	programs, err := lru.New[string, program](programCacheSize)
	if err != nil {
		panic(err)
	}
	return &Fast{masks: mask.NewCache(maskCacheSize), programs: programs}
}

func (f *Fast) Name() string { return KindFast }

// RunBatch applies each descriptor in order. The mask is re-applied before
// every operation, as the reference path does, so earlier edits that create
// or destroy protected matches are seen by later ones.
func (f *Fast) RunBatch(text string, ds []transform.Descriptor, _ uint64, include, exclude []string) (string, error) {
	prog, err := f.compile(ds)
	if err != nil {
		return "", err
	}
	cm, err := f.masks.Get(mask.Resolve(include, exclude, nil, nil))
	if err != nil {
		return "", err
	}
	for i, d := range ds {
		segs, err := cm.Split(text)
		if err != nil {
			return "", err
		}
		if err := prog[i](segs, seed.NewRNG(d.Seed), d.Operation.Params); err != nil {
			return "", errs.Operation(d.Name, err)
		}
		text = mask.Join(segs)
	}
	return text, nil
}

func (f *Fast) compile(ds []transform.Descriptor) (program, error) {
	types := make([]string, len(ds))
	for i, d := range ds {
		types[i] = d.Operation.Type
	}
	key := strings.Join(types, "\x00")
	if p, ok := f.programs.Get(key); ok {
		return p, nil
	}
	p := make(program, len(ds))
	for i, typ := range types {
		k, ok := ops.Lookup(typ)
		if !ok {
			return nil, ErrUnavailable
		}
		p[i] = k
	}
	f.programs.Add(key, p)
	return p, nil
}

// Programs reports how many compiled programs are cached.
func (f *Fast) Programs() int { return f.programs.Len() }
