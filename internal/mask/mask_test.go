package mask

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quirk/internal/errs"
)

func TestResolve_MergesAndNormalizes(t *testing.T) {
	m := Resolve([]string{"b", "a"}, []string{"<br>"}, []string{"a", "c"}, nil)
	assert.Equal(t, []string{"a", "b", "c"}, m.Include)
	assert.Equal(t, []string{"<br>"}, m.Exclude)

	other := Resolve(nil, []string{"<br>", "<br>"}, []string{"c", "b", "a"}, nil)
	assert.True(t, m.Equal(other))
	assert.Equal(t, m.Key(), other.Key())
}

func spans(t *testing.T, cm *Compiled, text string) []Span {
	t.Helper()
	out, err := cm.ProtectedSpans(text)
	require.NoError(t, err)
	return out
}

func split(t *testing.T, cm *Compiled, text string) []Segment {
	t.Helper()
	out, err := cm.Split(text)
	require.NoError(t, err)
	return out
}

func TestResolve_EmptyIsWholeText(t *testing.T) {
	m := Resolve(nil, nil, nil, nil)
	assert.True(t, m.Empty())
	assert.Equal(t, "", m.Key())
	cm, err := Compile(m)
	require.NoError(t, err)
	assert.Empty(t, spans(t, cm, "anything at all"))
	assert.Equal(t, []Segment{{Text: "anything at all"}}, split(t, cm, "anything at all"))
}

func TestKey_DistinguishesIncludeFromExclude(t *testing.T) {
	inc := Mask{Include: []string{"x"}}
	exc := Mask{Exclude: []string{"x"}}
	assert.NotEqual(t, inc.Key(), exc.Key())
}

func TestProtectedSpans_Exclude(t *testing.T) {
	cm, err := Compile(Mask{Exclude: []string{"<br>"}})
	require.NoError(t, err)
	assert.Equal(t, []Span{{Start: 6, End: 10}}, spans(t, cm, "alpha <br> beta"))
}

func TestProtectedSpans_IncludeOnly(t *testing.T) {
	cm, err := Compile(Mask{Include: []string{`\d+`}})
	require.NoError(t, err)
	// only the digits are eligible
	assert.Equal(t, []Span{{Start: 0, End: 4}, {Start: 6, End: 8}}, spans(t, cm, "abc 12 x"))
}

func TestProtectedSpans_ExcludeBeatsInclude(t *testing.T) {
	cm, err := Compile(Mask{Include: []string{`[a-z]+`}, Exclude: []string{"secret"}})
	require.NoError(t, err)
	segs := split(t, cm, "open secret")
	assert.Equal(t, []Segment{
		{Text: "open"},
		{Text: " secret", Protected: true},
	}, segs)
}

func TestSplit_RuneOffsets(t *testing.T) {
	cm, err := Compile(Mask{Exclude: []string{"ß"}})
	require.NoError(t, err)
	text := "straße ok"
	assert.Equal(t, []Span{{Start: 4, End: 5}}, spans(t, cm, text))
	segs := split(t, cm, text)
	require.Len(t, segs, 3)
	assert.Equal(t, text, Join(segs))
	assert.True(t, segs[1].Protected)
}

func TestSplit_LookaroundDialect(t *testing.T) {
	cm, err := Compile(Mask{Exclude: []string{`\w+(?=:)`}})
	require.NoError(t, err)
	segs := split(t, cm, "key: value")
	assert.Equal(t, []Segment{{Text: "key", Protected: true}, {Text: ": value"}}, segs)
}

func TestSplit_EmptyMatchesIgnored(t *testing.T) {
	cm, err := Compile(Mask{Exclude: []string{`x*`}})
	require.NoError(t, err)
	assert.Equal(t, []Segment{{Text: "abc"}}, split(t, cm, "abc"))
	assert.Nil(t, split(t, cm, ""))
}

func TestCompile_BadPatternIsConfigError(t *testing.T) {
	_, err := Compile(Mask{Exclude: []string{"(unclosed"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConfig)
	assert.ErrorIs(t, Validate([]string{"ok", "["}), errs.ErrConfig)
}

func TestCache_CompilesOnce(t *testing.T) {
	c := NewCache(4)
	m := Mask{Exclude: []string{"a"}}
	first, err := c.Get(m)
	require.NoError(t, err)
	second, err := c.Get(Mask{Exclude: []string{"a"}})
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())

	_, err = c.Get(Mask{Include: []string{"("}})
	assert.Error(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestSplit_MatchTimeoutIsOperationError(t *testing.T) {
	prev := MatchTimeout
	MatchTimeout = 20 * time.Millisecond
	t.Cleanup(func() { MatchTimeout = prev })

	cm, err := Compile(Mask{Exclude: []string{`(a+)+$`}})
	require.NoError(t, err)
	text := strings.Repeat("a", 40) + "!"
	_, err = cm.Split(text)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrOperation)
	_, err = cm.ProtectedSpans(text)
	assert.ErrorIs(t, err, errs.ErrOperation)
}
