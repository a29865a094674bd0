package ops

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"unicode/utf8"

	"quirk/internal/mask"
	"quirk/internal/transform"
)

// ErrNoRedactableWords is returned when redaction finds nothing eligible.
var ErrNoRedactableWords = errors.New("cannot redact words because the input text contains no redactable words")

type candidate struct {
	ref    wordRef
	prefix string
	core   string
	suffix string
	weight float64
}

func collect(l *layout, unweighted bool) []candidate {
	var out []candidate
	for _, r := range l.words() {
		w := l.word(r)
		prefix, core, suffix := splitAffixes(w)
		weight := 1.0
		if !unweighted {
			weight = 1 / float64(coreLength(core, w))
		}
		out = append(out, candidate{ref: r, prefix: prefix, core: core, suffix: suffix, weight: weight})
	}
	return out
}

func coreLength(core, original string) int {
	n := utf8.RuneCountInString(core)
	if n == 0 {
		n = utf8.RuneCountInString(strings.TrimSpace(original))
	}
	if n == 0 {
		n = 1
	}
	return n
}

func clampRate(r float64) float64 { return math.Min(math.Max(r, 0), 1) }

// probability scales rate by a candidate's weight relative to the mean.
func probability(rate, weight, mean float64) float64 {
	switch {
	case rate >= 1:
		return 1
	case mean <= math.SmallestNonzeroFloat64:
		return rate
	default:
		return math.Min(rate*weight/mean, 1)
	}
}

func meanWeight(cs []candidate) float64 {
	if len(cs) == 0 {
		return 0
	}
	var sum float64
	for _, c := range cs {
		sum += c.weight
	}
	return sum / float64(len(cs))
}

// Reduplicate stutters words: "word" becomes "word word", with punctuation
// kept on the outer edges. Params: rate, unweighted.
func Reduplicate(segs []mask.Segment, rng *rand.Rand, p transform.Params) error {
	rate := clampRate(p.Float("rate"))
	if rate <= 0 {
		return nil
	}
	l := newLayout(segs)
	cs := collect(l, p.Bool("unweighted"))
	mean := meanWeight(cs)
	for _, c := range cs {
		if rng.Float64() >= probability(rate, c.weight, mean) {
			continue
		}
		l.setWord(c.ref, c.prefix+c.core+" "+c.core+c.suffix)
	}
	l.flush()
	return nil
}

// Delete removes at most floor(rate*words) words, keeping their punctuation.
// Params: rate, unweighted.
func Delete(segs []mask.Segment, rng *rand.Rand, p transform.Params) error {
	rate := clampRate(p.Float("rate"))
	if rate <= 0 {
		return nil
	}
	l := newLayout(segs)
	cs := collect(l, p.Bool("unweighted"))
	allowed := int(math.Floor(float64(len(cs)) * rate))
	if allowed == 0 {
		return nil
	}
	mean := meanWeight(cs)
	deleted := 0
	for _, c := range cs {
		if deleted >= allowed {
			break
		}
		if rng.Float64() >= probability(rate, c.weight, mean) {
			continue
		}
		rest := strings.TrimSpace(c.prefix) + strings.TrimSpace(c.suffix)
		l.setWord(c.ref, rest)
		if rest != "" && strings.ContainsRune(".,:;", rune(rest[0])) {
			l.glue(c.ref)
		}
		deleted++
	}
	l.flush()
	return nil
}

// SwapAdjacent swaps the cores of neighbouring word pairs within one
// eligible run. Params: rate.
func SwapAdjacent(segs []mask.Segment, rng *rand.Rand, p transform.Params) error {
	rate := clampRate(p.Float("rate"))
	if rate <= 0 {
		return nil
	}
	l := newLayout(segs)
	cs := collect(l, true)
	for i := 0; i+1 < len(cs); i += 2 {
		a, b := cs[i], cs[i+1]
		if a.ref.seg != b.ref.seg {
			// pairs never straddle a protected run
			i--
			continue
		}
		if a.core == "" || b.core == "" {
			continue
		}
		if rate < 1 && rng.Float64() >= rate {
			continue
		}
		l.setWord(a.ref, a.prefix+b.core+a.suffix)
		l.setWord(b.ref, b.prefix+a.core+b.suffix)
	}
	l.flush()
	return nil
}

// Redact blacks out word cores. At least one word is always redacted, which
// makes text without any word core an error. Params: replacement, rate,
// merge_adjacent, unweighted.
func Redact(segs []mask.Segment, rng *rand.Rand, p transform.Params) error {
	replacement := p.Str("replacement")
	if replacement == "" {
		replacement = "█"
	}
	l := newLayout(segs)
	var cs []candidate
	for _, c := range collect(l, p.Bool("unweighted")) {
		if c.core != "" {
			if !p.Bool("unweighted") {
				// longer words are likelier to be redacted
				c.weight = float64(coreLength(c.core, c.core))
			}
			cs = append(cs, c)
		}
	}
	if len(cs) == 0 {
		return ErrNoRedactableWords
	}
	k := int(math.Floor(float64(len(cs)) * clampRate(p.Float("rate"))))
	k = max(k, 1)

	picked := weightedSample(rng, cs, k)
	for _, i := range picked {
		c := cs[i]
		l.setWord(c.ref, c.prefix+strings.Repeat(replacement, utf8.RuneCountInString(c.core))+c.suffix)
	}
	if p.Bool("merge_adjacent") {
		mergeRedactions(l, picked, cs, replacement)
	}
	l.flush()
	return nil
}

// weightedSample picks k candidate indices without replacement
// (Efraimidis-Spirakis keys), returned in text order.
func weightedSample(rng *rand.Rand, cs []candidate, k int) []int {
	type keyed struct {
		idx int
		key float64
	}
	ks := make([]keyed, len(cs))
	for i, c := range cs {
		w := math.Max(c.weight, math.SmallestNonzeroFloat64)
		u := rng.Float64()
		key := math.Inf(-1)
		if u > 0 {
			key = math.Log(u) / w
		}
		ks[i] = keyed{idx: i, key: key}
	}
	sort.SliceStable(ks, func(a, b int) bool { return ks[a].key > ks[b].key })
	out := make([]int, 0, k)
	for _, e := range ks[:k] {
		out = append(out, e.idx)
	}
	sort.Ints(out)
	return out
}

// mergeRedactions joins redacted neighbours in the same run into one block
// by redacting the separator between them too.
func mergeRedactions(l *layout, picked []int, cs []candidate, replacement string) {
	for j := 0; j+1 < len(picked); j++ {
		a, b := cs[picked[j]], cs[picked[j+1]]
		if picked[j+1] != picked[j]+1 || a.ref.seg != b.ref.seg || b.ref.tok != a.ref.tok+2 {
			continue
		}
		if a.suffix != "" || b.prefix != "" {
			continue
		}
		sep := &l.toks[a.ref.seg][a.ref.tok+1]
		sep.text = strings.Repeat(replacement, utf8.RuneCountInString(sep.text))
		sep.sep = false
	}
}
