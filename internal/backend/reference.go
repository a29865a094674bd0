package backend

import (
	"quirk/internal/mask"
	"quirk/internal/seed"
	"quirk/internal/transform"
)

// Reference runs transforms individually. It has no batch path: RunBatch
// always reports ErrUnavailable so every batch degrades to RunTransform.
type Reference struct {
	masks *mask.Cache
}

func NewReference(masks *mask.Cache) *Reference {
	if masks == nil {
		masks = mask.NewCache(mask.DefaultCacheSize)
	}
	return &Reference{masks: masks}
}

func (r *Reference) Name() string { return KindReference }

func (r *Reference) RunBatch(string, []transform.Descriptor, uint64, []string, []string) (string, error) {
	return "", ErrUnavailable
}

// RunTransform corrupts the eligible parts of text under m with an RNG
// seeded from s.
func (r *Reference) RunTransform(t *transform.Transform, text string, s uint64, m mask.Mask) (string, error) {
	cm, err := r.masks.Get(m)
	if err != nil {
		return "", err
	}
	segs, err := cm.Split(text)
	if err != nil {
		return "", err
	}
	if err := t.CorruptSegments(segs, seed.NewRNG(s)); err != nil {
		return "", err
	}
	return mask.Join(segs), nil
}
