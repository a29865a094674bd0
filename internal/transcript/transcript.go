// Package transcript models multi-turn chat transcripts and resolves which
// of their turns a composite should corrupt.
package transcript

import (
	"fmt"
	"maps"

	"quirk/internal/errs"
)

// ContentField is the mandatory string field of every turn.
const ContentField = "content"

// Turn is one transcript entry. Only its content field is ever mutated.
type Turn map[string]any

// Transcript is an ordered list of turns.
type Transcript []Turn

// Content returns the turn's content.
func (t Turn) Content() (string, bool) {
	s, ok := t[ContentField].(string)
	return s, ok
}

// Role returns the turn's role field, or "" when it has none.
func (t Turn) Role() string {
	s, _ := t["role"].(string)
	return s
}

// Validate checks that every turn carries a string content field.
func Validate(tr Transcript) error {
	for i, turn := range tr {
		if turn == nil {
			return errs.Config("transcript", "turn %d is nil", i)
		}
		if _, ok := turn.Content(); !ok {
			return errs.Config("transcript", "turn %d has no string %q field", i, ContentField)
		}
	}
	return nil
}

// FromAny converts a decoded JSON value ([]any of map[string]any) into a
// Transcript. ok is false when v does not look like a transcript.
func FromAny(v any) (Transcript, bool) {
	switch x := v.(type) {
	case Transcript:
		return x, true
	case []Turn:
		return Transcript(x), true
	case []map[string]any:
		tr := make(Transcript, len(x))
		for i, m := range x {
			tr[i] = Turn(m)
		}
		return tr, true
	case []any:
		tr := make(Transcript, len(x))
		for i, e := range x {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, false
			}
			tr[i] = Turn(m)
		}
		return tr, true
	}
	return nil, false
}

// Rebuild returns a new transcript in which every turn listed in indices has
// its content replaced by fn(content). All other turns, and every non-content
// field, are carried over unchanged. tr is never modified; an error from fn
// aborts the rebuild and no transcript is returned.
func Rebuild(tr Transcript, indices []int, fn func(i int, content string) (string, error)) (Transcript, error) {
	out := make(Transcript, len(tr))
	copy(out, tr)
	for _, i := range indices {
		if i < 0 || i >= len(tr) {
			return nil, &errs.BoundsError{Index: i, Len: len(tr)}
		}
		content, ok := tr[i].Content()
		if !ok {
			return nil, errs.Config("transcript", "turn %d has no string %q field", i, ContentField)
		}
		next, err := fn(i, content)
		if err != nil {
			return nil, err
		}
		turn := maps.Clone(tr[i])
		turn[ContentField] = next
		out[i] = turn
	}
	return out, nil
}

func (t Turn) String() string { return fmt.Sprintf("%s: %v", t.Role(), t[ContentField]) }
