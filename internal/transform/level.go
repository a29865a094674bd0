package transform

import (
	"fmt"
	"strings"
)

// Scope is the structural granularity a transform targets. It only drives
// canonical ordering; document-scope transforms run last.
type Scope uint8

const (
	Character Scope = iota + 1
	Word
	Sentence
	Document
)

var scopeNames = map[Scope]string{
	Character: "character",
	Word:      "word",
	Sentence:  "sentence",
	Document:  "document",
}

func (s Scope) String() string {
	if n, ok := scopeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("scope(%d)", uint8(s))
}

func (s Scope) Valid() bool {
	_, ok := scopeNames[s]
	return ok
}

// Tier breaks ordering ties within a scope.
type Tier uint8

const (
	First Tier = iota + 1
	Early
	Normal
	Late
	Last
)

var tierNames = map[Tier]string{
	First:  "first",
	Early:  "early",
	Normal: "normal",
	Late:   "late",
	Last:   "last",
}

func (t Tier) String() string {
	if n, ok := tierNames[t]; ok {
		return n
	}
	return fmt.Sprintf("tier(%d)", uint8(t))
}

func (t Tier) Valid() bool {
	_, ok := tierNames[t]
	return ok
}

// ParseScope accepts the lower-case scope names.
func ParseScope(s string) (Scope, error) {
	for k, v := range scopeNames {
		if v == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown scope %q", s)
}

// ParseTier accepts the lower-case tier names.
func ParseTier(s string) (Tier, error) {
	for k, v := range tierNames {
		if v == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown order tier %q", s)
}
