package spec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TransformSpec is one roster entry. In YAML it is either a compact string
// such as "redact(rate=0.1)" or a mapping.
type TransformSpec struct {
	Name       string         `yaml:"name"`
	Parameters map[string]any `yaml:"parameters,omitempty"`
	Seed       *uint64        `yaml:"seed,omitempty"`
	Include    []string       `yaml:"include,omitempty"`
	Exclude    []string       `yaml:"exclude,omitempty"`
	Target     any            `yaml:"transcript_target,omitempty"`

	// Compact is set when the entry was written as a string.
	Compact string `yaml:"-"`
	// Extra holds the remaining mapping keys. Without a parameters block
	// they are the parameters.
	Extra map[string]any `yaml:",inline"`
}

func (t *TransformSpec) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Decode(&t.Compact)
	case yaml.MappingNode:
		type plain TransformSpec
		return n.Decode((*plain)(t))
	}
	return fmt.Errorf("line %d: transform must be a string or a mapping", n.Line)
}

func (t TransformSpec) MarshalYAML() (any, error) {
	if t.Compact != "" {
		return t.Compact, nil
	}
	type plain TransformSpec
	return plain(t), nil
}

// Params returns the entry's parameters, falling back to the inline keys.
func (t TransformSpec) Params() map[string]any {
	if t.Parameters != nil {
		return t.Parameters
	}
	return t.Extra
}

// File is an attack file: a transform roster plus the composite settings.
type File struct {
	SchemaVersion string `yaml:"schema_version"`

	// Seed is the master seed; 151 when unset.
	Seed *uint64 `yaml:"seed,omitempty"`

	// Ordered as written. Execution order is canonical regardless.
	Transforms []TransformSpec `yaml:"transforms"`

	Include          []string `yaml:"include,omitempty"`
	Exclude          []string `yaml:"exclude,omitempty"`
	TranscriptTarget any      `yaml:"transcript_target,omitempty"`
}
