package zoo

import (
	"math/rand/v2"
	"strings"
	"unicode"

	"quirk/internal/mask"
	"quirk/internal/ops"
	"quirk/internal/transform"
)

// kernelBody runs an ops kernel on both paths, so a transform gives the same
// output whether the fast backend or the reference backend executes it.
type kernelBody struct {
	typ    string
	kernel ops.Kernel
	// describable reports whether p can be expressed as an operation.
	describable func(p transform.Params) bool
}

func (b kernelBody) Corrupt(text string, rng *rand.Rand, p transform.Params) (string, error) {
	segs := []mask.Segment{{Text: text}}
	if err := b.CorruptSegments(segs, rng, p); err != nil {
		return "", err
	}
	return mask.Join(segs), nil
}

func (b kernelBody) CorruptSegments(segs []mask.Segment, rng *rand.Rand, p transform.Params) error {
	return b.kernel(segs, rng, p)
}

func (b kernelBody) Describe(p transform.Params) (transform.Operation, bool) {
	if b.describable != nil && !b.describable(p) {
		return transform.Operation{}, false
	}
	return transform.Operation{Type: b.typ, Params: p}, true
}

func rateField(def float64) transform.Field {
	return transform.Field{Name: "rate", Kind: transform.FloatKind, Default: transform.Float(def), Min: transform.Bound(0), Max: transform.Bound(1)}
}

var unweightedField = transform.Field{Name: "unweighted", Kind: transform.BoolKind, Default: transform.Bool(false)}

// zeroWidthBody leaves text alone when the palette is explicitly empty;
// that case has no fast-path operation.
type zeroWidthBody struct{ kernelBody }

func (b zeroWidthBody) CorruptSegments(segs []mask.Segment, rng *rand.Rand, p transform.Params) error {
	if len(p.List("characters")) == 0 {
		return nil
	}
	return b.kernelBody.CorruptSegments(segs, rng, p)
}

func (b zeroWidthBody) Corrupt(text string, rng *rand.Rand, p transform.Params) (string, error) {
	if len(p.List("characters")) == 0 {
		return text, nil
	}
	return b.kernelBody.Corrupt(text, rng, p)
}

// spongeCase flips letter case at random. It has no kernel, so composites
// containing it always take the reference path for it.
func spongeCase(text string, rng *rand.Rand, p transform.Params) (string, error) {
	rate := p.Float("rate")
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) && rng.Float64() < rate {
			if unicode.IsUpper(r) {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

func init() {
	Register(Kind{
		Name: "reduplicate", Scope: transform.Word, Tier: transform.Normal,
		Schema: transform.Schema{rateField(0.01), unweightedField},
		Body:   kernelBody{typ: ops.TypeReduplicate, kernel: ops.Reduplicate},
		Doc:    "repeats words in place",
	})
	Register(Kind{
		Name: "delete", Scope: transform.Word, Tier: transform.Normal,
		Schema: transform.Schema{rateField(0.01), unweightedField},
		Body:   kernelBody{typ: ops.TypeDelete, kernel: ops.Delete},
		Doc:    "drops words",
	})
	Register(Kind{
		Name: "swap", Scope: transform.Word, Tier: transform.Normal,
		Schema: transform.Schema{rateField(0.5)},
		Body:   kernelBody{typ: ops.TypeSwap, kernel: ops.SwapAdjacent},
		Doc:    "swaps the cores of adjacent words",
	})
	Register(Kind{
		Name: "redact", Scope: transform.Word, Tier: transform.Late,
		Schema: transform.Schema{
			{Name: "replacement", Kind: transform.StringKind, Default: transform.String("█")},
			rateField(0.025),
			{Name: "merge_adjacent", Kind: transform.BoolKind, Default: transform.Bool(false)},
			unweightedField,
		},
		Body: kernelBody{typ: ops.TypeRedact, kernel: ops.Redact},
		Doc:  "blacks out words; fails on text with nothing to redact",
	})
	Register(Kind{
		Name: "zerowidth", Scope: transform.Character, Tier: transform.Last,
		Schema: transform.Schema{
			rateField(0.02),
			{Name: "characters", Kind: transform.StringsKind, Default: transform.Strings(ops.DefaultZeroWidth...)},
		},
		Body: zeroWidthBody{kernelBody{typ: ops.TypeZeroWidth, kernel: ops.ZeroWidth, describable: func(p transform.Params) bool {
			return len(p.List("characters")) > 0
		}}},
		Doc: "inserts zero-width characters between visible ones",
	})
	Register(Kind{
		Name: "spongecase", Scope: transform.Character, Tier: transform.Normal,
		Schema: transform.Schema{rateField(0.5)},
		Body:   transform.BodyFunc(spongeCase),
		Doc:    "randomly flips letter case",
	})
}
