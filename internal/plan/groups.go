package plan

import (
	"quirk/internal/mask"
	"quirk/internal/transform"
)

// Group is a maximal run [Start, End) of consecutive transforms, in canonical
// order, that share one effective mask.
type Group struct {
	Mask       mask.Mask
	Start, End int
}

func (g Group) Len() int { return g.End - g.Start }

// EffectiveMask merges the global patterns with t's own.
func EffectiveMask(t *transform.Transform, global mask.Mask) mask.Mask {
	return mask.Resolve(global.Include, global.Exclude, t.Include(), t.Exclude())
}

// MaskGroups splits ordered into mask groups.
func MaskGroups(ordered []*transform.Transform, global mask.Mask) []Group {
	var groups []Group
	for i, t := range ordered {
		m := EffectiveMask(t, global)
		if n := len(groups); n > 0 && groups[n-1].Mask.Equal(m) {
			groups[n-1].End = i + 1
			continue
		}
		groups = append(groups, Group{Mask: m, Start: i, End: i + 1})
	}
	return groups
}
