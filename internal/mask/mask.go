// Package mask resolves include-only and exclude patterns into an effective
// mask and computes which characters of a text a transform may mutate.
//
// A character is eligible iff no exclude pattern matches a span containing
// it and, when any include pattern exists, at least one include pattern
// does. Offsets are in characters (runes), never bytes.
package mask

import (
	"slices"
	"strings"
)

// Mask is a resolved include/exclude pattern set. Both lists are sorted and
// deduplicated, so two masks are identical iff their Keys are equal.
type Mask struct {
	Include []string
	Exclude []string
}

// Resolve merges the global patterns with a transform's own patterns.
func Resolve(globalInclude, globalExclude, localInclude, localExclude []string) Mask {
	return Mask{
		Include: union(globalInclude, localInclude),
		Exclude: union(globalExclude, localExclude),
	}
}

func union(a, b []string) []string {
	if len(a)+len(b) == 0 {
		return nil
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.Sort(out)
	return slices.Compact(out)
}

// Empty reports whether the mask leaves the whole text eligible.
func (m Mask) Empty() bool { return len(m.Include) == 0 && len(m.Exclude) == 0 }

// Equal reports set equality of both pattern lists.
func (m Mask) Equal(o Mask) bool {
	return slices.Equal(m.Include, o.Include) && slices.Equal(m.Exclude, o.Exclude)
}

// Key is a stable identity for the mask, usable as a map or cache key.
func (m Mask) Key() string {
	if m.Empty() {
		return ""
	}
	var b strings.Builder
	for _, p := range m.Include {
		b.WriteString("+")
		b.WriteString(p)
		b.WriteByte(0)
	}
	for _, p := range m.Exclude {
		b.WriteString("-")
		b.WriteString(p)
		b.WriteByte(0)
	}
	return b.String()
}

func (m Mask) String() string {
	if m.Empty() {
		return "*"
	}
	var parts []string
	for _, p := range m.Include {
		parts = append(parts, "+"+p)
	}
	for _, p := range m.Exclude {
		parts = append(parts, "-"+p)
	}
	return strings.Join(parts, " ")
}
