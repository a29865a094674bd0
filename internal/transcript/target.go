package transcript

import (
	"fmt"
	"slices"
	"strings"

	"quirk/internal/errs"
)

// Kind enumerates the TargetSpec variants.
type Kind uint8

const (
	KindLast Kind = iota + 1
	KindAll
	KindRole
	KindIndex
	KindIndices
)

// Target selects which turns of a transcript are corrupted. The zero value
// is invalid; use the constructors.
type Target struct {
	kind    Kind
	role    string
	index   int
	indices []int
}

func Last() Target                { return Target{kind: KindLast} }
func All() Target                 { return Target{kind: KindAll} }
func Role(r string) Target        { return Target{kind: KindRole, role: r} }
func Index(i int) Target          { return Target{kind: KindIndex, index: i} }
func Indices(xs ...int) Target    { return Target{kind: KindIndices, indices: slices.Clone(xs)} }
func (t Target) Kind() Kind       { return t.kind }
func (t Target) IsZero() bool     { return t.kind == 0 }
func (t Target) RoleName() string { return t.role }

// Validate fails on the zero value or any unknown variant.
func (t Target) Validate() error {
	switch t.kind {
	case KindLast, KindAll, KindIndex, KindIndices:
		return nil
	case KindRole:
		if t.role == "" {
			return errs.Config("transcript_target", "role target needs a role name")
		}
		return nil
	default:
		return errs.Config("transcript_target", "invalid transcript target variant %d", t.kind)
	}
}

// Equal reports structural equality.
func (t Target) Equal(o Target) bool {
	return t.kind == o.kind && t.role == o.role && t.index == o.index && slices.Equal(t.indices, o.indices)
}

func (t Target) String() string {
	switch t.kind {
	case KindLast:
		return "last"
	case KindAll:
		return "all"
	case KindRole:
		return t.role
	case KindIndex:
		return fmt.Sprint(t.index)
	case KindIndices:
		return fmt.Sprint(t.indices)
	}
	return "invalid"
}

// ParseTarget converts a configuration value into a Target: "last", "all",
// any other non-empty string as a role, an integer index, or a list of
// integers. Anything else is a ConfigError.
func ParseTarget(v any) (Target, error) {
	switch x := v.(type) {
	case nil:
		return Last(), nil
	case Target:
		return x, x.Validate()
	case string:
		s := strings.TrimSpace(x)
		switch strings.ToLower(s) {
		case "":
			return Target{}, errs.Config("transcript_target", "empty target")
		case "last":
			return Last(), nil
		case "all":
			return All(), nil
		}
		return Role(s), nil
	case int:
		return Index(x), nil
	case int64:
		return Index(int(x)), nil
	case uint64:
		return Index(int(x)), nil
	case float64:
		if x != float64(int(x)) {
			return Target{}, errs.Config("transcript_target", "index %v is not an integer", x)
		}
		return Index(int(x)), nil
	case []int:
		return Indices(x...), nil
	case []any:
		xs := make([]int, 0, len(x))
		for _, e := range x {
			t, err := ParseTarget(e)
			if err != nil || t.kind != KindIndex {
				return Target{}, errs.Config("transcript_target", "index list entries must be integers, got %v", e)
			}
			xs = append(xs, t.index)
		}
		return Indices(xs...), nil
	}
	return Target{}, errs.Config("transcript_target", "invalid transcript target %v (%T)", v, v)
}
