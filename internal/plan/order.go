package plan

import (
	"slices"

	"quirk/internal/transform"
)

// Order returns ts sorted by (scope, tier) ascending. Input order is only the
// tie-break, so ordering an ordered list returns it unchanged. ts itself is
// not modified.
func Order(ts []*transform.Transform) []*transform.Transform {
	out := slices.Clone(ts)
	slices.SortStableFunc(out, func(a, b *transform.Transform) int {
		return compareKey(a, b)
	})
	return out
}

func compareKey(a, b *transform.Transform) int {
	if a.Scope() != b.Scope() {
		return int(a.Scope()) - int(b.Scope())
	}
	return int(a.Tier()) - int(b.Tier())
}

// IsOrdered reports whether ts is already in canonical order.
func IsOrdered(ts []*transform.Transform) bool {
	return slices.IsSortedFunc(ts, compareKey)
}
