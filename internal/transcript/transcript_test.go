package transcript

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quirk/internal/errs"
)

func abc() Transcript {
	return Transcript{{"content": "a"}, {"content": "b"}, {"content": "c"}}
}

func chat() Transcript {
	return Transcript{
		{"role": "user", "content": "hi"},
		{"role": "assistant", "content": "hello"},
		{"role": "user", "content": "bye"},
		{"role": "assistant", "content": "goodbye"},
	}
}

func TestResolve_Variants(t *testing.T) {
	cases := []struct {
		name   string
		tr     Transcript
		target Target
		want   []int
	}{
		{"last", abc(), Last(), []int{2}},
		{"all", abc(), All(), []int{0, 1, 2}},
		{"assistant role", chat(), Role("assistant"), []int{1, 3}},
		{"user role", chat(), Role("user"), []int{0, 2}},
		{"missing role", chat(), Role("system"), []int{}},
		{"index", abc(), Index(1), []int{1}},
		{"negative index", abc(), Index(-1), []int{2}},
		{"negative index two", abc(), Index(-2), []int{1}},
		{"index list", abc(), Indices(0, 2), []int{0, 2}},
		{"index list dedup sort", abc(), Indices(2, 0, 2, 1), []int{0, 1, 2}},
		{"index list mixed sign", abc(), Indices(-1, 2, 0), []int{0, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(tc.tr, tc.target)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolve_EmptyTranscript(t *testing.T) {
	for _, target := range []Target{Last(), All(), Role("assistant"), Index(5), Indices(3, -9)} {
		got, err := Resolve(Transcript{}, target)
		require.NoError(t, err, target.String())
		assert.Equal(t, []int{}, got)
	}
}

func TestResolve_OutOfBounds(t *testing.T) {
	tr := Transcript{{"content": "a"}, {"content": "b"}}
	for _, target := range []Target{Index(5), Index(-5), Indices(0, 2)} {
		_, err := Resolve(tr, target)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrBounds)
		assert.Contains(t, err.Error(), "out of bounds")
	}
}

func TestResolve_InvalidTargetFailsFast(t *testing.T) {
	_, err := Resolve(abc(), Target{})
	assert.ErrorIs(t, err, errs.ErrConfig)
	_, err = Resolve(abc(), Target{kind: 42})
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestParseTarget(t *testing.T) {
	cases := []struct {
		in   any
		want Target
	}{
		{nil, Last()},
		{"last", Last()},
		{"ALL", All()},
		{"assistant", Role("assistant")},
		{0, Index(0)},
		{-2, Index(-2)},
		{float64(3), Index(3)},
		{[]any{0, 2}, Indices(0, 2)},
		{[]int{1}, Indices(1)},
	}
	for _, tc := range cases {
		got, err := ParseTarget(tc.in)
		require.NoError(t, err, "%v", tc.in)
		assert.True(t, tc.want.Equal(got), "%v: got %s", tc.in, got)
	}

	for _, bad := range []any{"", 1.5, []any{0, "bad"}, map[string]any{}} {
		_, err := ParseTarget(bad)
		assert.ErrorIs(t, err, errs.ErrConfig, "%v", bad)
	}
}

func TestRebuild_ReplacesOnlyTargetedContent(t *testing.T) {
	in := chat()
	in[0]["meta"] = map[string]any{"id": 7}
	out, err := Rebuild(in, []int{1, 3}, func(_ int, s string) (string, error) { return s + "!", nil })
	require.NoError(t, err)

	assert.Equal(t, "hello", in[1]["content"], "input must not be mutated")
	assert.Equal(t, "hello!", out[1]["content"])
	assert.Equal(t, "goodbye!", out[3]["content"])
	assert.Equal(t, in[0], out[0])
	assert.Equal(t, in[2], out[2])
	for i := range in {
		assert.Equal(t, in[i]["role"], out[i]["role"])
	}
}

func TestRebuild_ErrorDiscardsEverything(t *testing.T) {
	boom := errors.New("boom")
	out, err := Rebuild(chat(), []int{0, 1}, func(i int, s string) (string, error) {
		if i == 1 {
			return "", boom
		}
		return "x", nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, out)
}

func TestValidateAndFromAny(t *testing.T) {
	require.NoError(t, Validate(chat()))
	assert.ErrorIs(t, Validate(Transcript{{"role": "user"}}), errs.ErrConfig)

	tr, ok := FromAny([]any{map[string]any{"content": "x"}})
	require.True(t, ok)
	assert.Equal(t, "x", tr[0]["content"])
	_, ok = FromAny([]any{"nope"})
	assert.False(t, ok)
	_, ok = FromAny("text")
	assert.False(t, ok)
}
