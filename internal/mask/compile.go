package mask

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"

	"quirk/internal/errs"
)

// MatchTimeout bounds a single pattern match. It applies to patterns
// compiled after it is changed.
var MatchTimeout = time.Second

// Span is a half-open character range [Start, End).
type Span struct {
	Start, End int
}

// Segment is a run of text that is either wholly eligible or wholly protected.
type Segment struct {
	Text      string
	Protected bool
}

// Compiled is a Mask with its patterns compiled. It is safe for concurrent use.
type Compiled struct {
	mask     Mask
	includes []*regexp2.Regexp
	excludes []*regexp2.Regexp
}

// Compile parses every pattern of m. An unparseable pattern is a ConfigError.
func Compile(m Mask) (*Compiled, error) {
	c := &Compiled{mask: m}
	var err error
	if c.includes, err = compileAll(m.Include); err != nil {
		return nil, err
	}
	if c.excludes, err = compileAll(m.Exclude); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports whether every pattern compiles.
func Validate(patterns []string) error {
	_, err := compileAll(patterns)
	return err
}

func compileAll(patterns []string) ([]*regexp2.Regexp, error) {
	out := make([]*regexp2.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp2.Compile(p, regexp2.None)
		if err != nil {
			return nil, errs.Config("pattern", "cannot parse %q: %v", p, err)
		}
		re.MatchTimeout = MatchTimeout
		out = append(out, re)
	}
	return out, nil
}

func (c *Compiled) Mask() Mask { return c.mask }

// protectedMap returns one flag per rune of text; true means protected.
// A nil map means the whole text is eligible.
func (c *Compiled) protectedMap(runes []rune) ([]bool, error) {
	if len(c.includes) == 0 && len(c.excludes) == 0 {
		return nil, nil
	}
	protected := make([]bool, len(runes))
	if len(c.includes) > 0 {
		included := make([]bool, len(runes))
		for _, re := range c.includes {
			if err := markMatches(re, runes, included); err != nil {
				return nil, err
			}
		}
		for i, in := range included {
			protected[i] = !in
		}
	}
	for _, re := range c.excludes {
		if err := markMatches(re, runes, protected); err != nil {
			return nil, err
		}
	}
	return protected, nil
}

// markMatches fails only when a match runs past MatchTimeout.
func markMatches(re *regexp2.Regexp, runes []rune, marks []bool) error {
	m, err := re.FindRunesMatch(runes)
	// the guard bounds the loop even if the engine stalls on empty matches
	for guard := 0; err == nil && m != nil && guard <= len(runes); guard++ {
		for i := m.Index; i < m.Index+m.Length && i < len(marks); i++ {
			marks[i] = true
		}
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return errs.Operation("mask", fmt.Errorf("pattern %q: %w", re.String(), err))
	}
	return nil
}

// ProtectedSpans returns the merged, ascending ranges of text no transform
// under this mask may touch.
func (c *Compiled) ProtectedSpans(text string) ([]Span, error) {
	runes := []rune(text)
	protected, err := c.protectedMap(runes)
	if err != nil {
		return nil, err
	}
	var spans []Span
	for i := 0; i < len(protected); {
		if !protected[i] {
			i++
			continue
		}
		j := i
		for j < len(protected) && protected[j] {
			j++
		}
		spans = append(spans, Span{Start: i, End: j})
		i = j
	}
	return spans, nil
}

// Split cuts text into maximal alternating eligible and protected segments.
// Joining the segments always reproduces text.
func (c *Compiled) Split(text string) ([]Segment, error) {
	if text == "" {
		return nil, nil
	}
	runes := []rune(text)
	protected, err := c.protectedMap(runes)
	if err != nil {
		return nil, err
	}
	if protected == nil {
		return []Segment{{Text: text}}, nil
	}
	var segs []Segment
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i == len(runes) || protected[i] != protected[start] {
			segs = append(segs, Segment{Text: string(runes[start:i]), Protected: protected[start]})
			start = i
		}
	}
	return segs, nil
}

// Join concatenates segments back into text.
func Join(segs []Segment) string {
	n := 0
	for _, s := range segs {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range segs {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}
