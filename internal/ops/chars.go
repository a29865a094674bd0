package ops

import (
	"math/rand/v2"
	"strings"
	"unicode"

	"quirk/internal/mask"
	"quirk/internal/transform"
)

// DefaultZeroWidth is the palette used when none is configured.
var DefaultZeroWidth = []string{"\u200b", "\u200c", "\u200d", "\ufeff", "\u2060"}

// ZeroWidth inserts invisible characters between adjacent visible ones.
// Params: rate, characters.
func ZeroWidth(segs []mask.Segment, rng *rand.Rand, p transform.Params) error {
	rate := clampRate(p.Float("rate"))
	palette := p.List("characters")
	if len(palette) == 0 {
		palette = DefaultZeroWidth
	}
	if rate <= 0 {
		return nil
	}
	for i := range segs {
		if segs[i].Protected {
			continue
		}
		runes := []rune(segs[i].Text)
		var b strings.Builder
		for j, r := range runes {
			b.WriteRune(r)
			if j+1 == len(runes) || unicode.IsSpace(r) || unicode.IsSpace(runes[j+1]) {
				continue
			}
			if rng.Float64() < rate {
				b.WriteString(palette[rng.IntN(len(palette))])
			}
		}
		segs[i].Text = b.String()
	}
	return nil
}
