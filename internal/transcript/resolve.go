package transcript

import (
	"slices"

	"quirk/internal/errs"
)

// Resolve returns the ascending, deduplicated indices of tr selected by
// target. Every variant selects nothing on an empty transcript. Explicit
// indices may be negative (-1 is the last turn) and fail with a BoundsError
// when they fall outside the transcript.
func Resolve(tr Transcript, target Target) ([]int, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	n := len(tr)
	if n == 0 {
		return []int{}, nil
	}
	switch target.kind {
	case KindLast:
		return []int{n - 1}, nil
	case KindAll:
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	case KindRole:
		out := []int{}
		for i, turn := range tr {
			if turn.Role() == target.role {
				out = append(out, i)
			}
		}
		return out, nil
	case KindIndex:
		i, err := normalize(target.index, n)
		if err != nil {
			return nil, err
		}
		return []int{i}, nil
	case KindIndices:
		out := make([]int, 0, len(target.indices))
		for _, x := range target.indices {
			i, err := normalize(x, n)
			if err != nil {
				return nil, err
			}
			out = append(out, i)
		}
		slices.Sort(out)
		return slices.Compact(out), nil
	}
	return nil, errs.Config("transcript_target", "invalid transcript target variant %d", target.kind)
}

func normalize(i, n int) (int, error) {
	j := i
	if j < 0 {
		j += n
	}
	if j < 0 || j >= n {
		return 0, &errs.BoundsError{Index: i, Len: n}
	}
	return j, nil
}
