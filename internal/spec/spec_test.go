package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTransformSpec_Forms(t *testing.T) {
	var f File
	require.NoError(t, yaml.Unmarshal([]byte(`
schema_version: v1
seed: 7
transforms:
  - "swap(rate=0.2)"
  - name: redact
    parameters: {rate: 0.1}
    seed: 3
    exclude: ['<[^>]+>']
  - name: delete
    rate: 0.5
transcript_target: all
`), &f))

	require.Len(t, f.Transforms, 3)
	assert.Equal(t, "swap(rate=0.2)", f.Transforms[0].Compact)

	r := f.Transforms[1]
	assert.Equal(t, "redact", r.Name)
	assert.Equal(t, map[string]any{"rate": 0.1}, r.Params())
	require.NotNil(t, r.Seed)
	assert.Equal(t, uint64(3), *r.Seed)
	assert.Equal(t, []string{"<[^>]+>"}, r.Exclude)

	assert.Equal(t, map[string]any{"rate": 0.5}, f.Transforms[2].Params())
	assert.Equal(t, "all", f.TranscriptTarget)
	assert.Equal(t, uint64(7), *f.Seed)
}

func TestTransformSpec_RejectsSequence(t *testing.T) {
	var f File
	err := yaml.Unmarshal([]byte("transforms:\n  - [a, b]\n"), &f)
	assert.Error(t, err)
}

func TestTransformSpec_MarshalCompact(t *testing.T) {
	out, err := yaml.Marshal(File{SchemaVersion: "v1", Transforms: []TransformSpec{{Compact: "swap"}, {Name: "delete"}}})
	require.NoError(t, err)
	var back File
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, "swap", back.Transforms[0].Compact)
	assert.Equal(t, "delete", back.Transforms[1].Name)
}
