package backend_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quirk/internal/backend"
	"quirk/internal/errs"
	"quirk/internal/mask"
	"quirk/internal/plan"
	"quirk/internal/seed"
	"quirk/internal/transform"
	"quirk/internal/zoo"
)

const sample = "The quick brown fox <b>jumps</b> over the lazy dog, twice! Then it rests."

// runReference executes every member of ts individually, as a composite does
// when the fast backend is unavailable.
func runReference(t *testing.T, ref *backend.Reference, ts []*transform.Transform, text string, master uint64, m mask.Mask) (string, error) {
	t.Helper()
	for i, tr := range ts {
		var err error
		text, err = ref.RunTransform(tr, text, plan.SeedFor(tr, master, i), m)
		if err != nil {
			return "", err
		}
	}
	return text, nil
}

func descriptors(t *testing.T, ts []*transform.Transform, master uint64) []transform.Descriptor {
	t.Helper()
	ds := make([]transform.Descriptor, len(ts))
	for i, tr := range ts {
		op, ok := tr.Descriptor()
		require.True(t, ok, tr.Name())
		ds[i] = transform.Descriptor{Name: tr.Name(), Seed: plan.SeedFor(tr, master, i), Operation: op}
	}
	return ds
}

func TestParity(t *testing.T) {
	fast := backend.NewFast(0, 0)
	ref := backend.NewReference(nil)
	masks := []mask.Mask{{}, {Exclude: []string{`<[^>]+>`}}, {Include: []string{`\w+`}, Exclude: []string{`fox`}}}

	for _, rate := range []float64{0, 0.1, 0.5, 1} {
		r := transform.P("rate", transform.Float(rate))
		ts := []*transform.Transform{
			zoo.MustNew("zerowidth", r),
			zoo.MustNew("reduplicate", r),
			zoo.MustNew("swap", r),
			zoo.MustNew("delete", r),
			zoo.MustNew("redact", r, transform.P("merge_adjacent", transform.Bool(true))),
		}
		for _, master := range []uint64{0, 1, seed.Default, 1 << 40} {
			for mi, m := range masks {
				t.Run(fmt.Sprintf("rate=%v/seed=%d/mask=%d", rate, master, mi), func(t *testing.T) {
					want, wantErr := runReference(t, ref, ts, sample, master, m)
					got, gotErr := fast.RunBatch(sample, descriptors(t, ts, master), master, m.Include, m.Exclude)
					assert.Equal(t, wantErr == nil, gotErr == nil, "ref=%v fast=%v", wantErr, gotErr)
					assert.Equal(t, want, got)
				})
			}
		}
	}
	assert.Equal(t, 1, fast.Programs())
}

func TestFast_MaskIsHonoured(t *testing.T) {
	fast := backend.NewFast(0, 0)
	ts := []*transform.Transform{zoo.MustNew("reduplicate", transform.P("rate", transform.Float(1)))}
	out, err := fast.RunBatch("alpha <br> beta", descriptors(t, ts, 1), 1, nil, []string{`<br>`})
	require.NoError(t, err)
	assert.Equal(t, "alpha alpha <br> beta beta", out)
}

func TestFast_UnknownOperation(t *testing.T) {
	fast := backend.NewFast(0, 0)
	ds := []transform.Descriptor{{Name: "mystery", Operation: transform.Operation{Type: "no-such-kernel"}}}
	_, err := fast.RunBatch("text", ds, 0, nil, nil)
	assert.ErrorIs(t, err, backend.ErrUnavailable)
	assert.Equal(t, 0, fast.Programs())
}

func TestFast_OperationError(t *testing.T) {
	fast := backend.NewFast(0, 0)
	ts := []*transform.Transform{zoo.MustNew("redact")}
	_, err := fast.RunBatch("?! ...", descriptors(t, ts, 1), 1, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrOperation))
	var oe *errs.OperationError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "redact", oe.Transform)
}

func TestFast_BadPattern(t *testing.T) {
	fast := backend.NewFast(0, 0)
	ts := []*transform.Transform{zoo.MustNew("swap")}
	_, err := fast.RunBatch("a b", descriptors(t, ts, 1), 1, []string{"("}, nil)
	assert.True(t, errors.Is(err, errs.ErrConfig))
}

func TestBothBackends_PatternTimeout(t *testing.T) {
	prev := mask.MatchTimeout
	mask.MatchTimeout = 20 * time.Millisecond
	t.Cleanup(func() { mask.MatchTimeout = prev })

	text := strings.Repeat("a", 40) + "!"
	exclude := []string{`(a+)+$`}
	ts := []*transform.Transform{zoo.MustNew("swap")}

	_, err := backend.NewFast(0, 0).RunBatch(text, descriptors(t, ts, 1), 1, nil, exclude)
	assert.ErrorIs(t, err, errs.ErrOperation)

	_, err = backend.NewReference(nil).RunTransform(ts[0], text, 1, mask.Mask{Exclude: exclude})
	assert.ErrorIs(t, err, errs.ErrOperation)
}

func TestReference_BatchUnavailable(t *testing.T) {
	ref := backend.NewReference(nil)
	_, err := ref.RunBatch("x", nil, 0, nil, nil)
	assert.ErrorIs(t, err, backend.ErrUnavailable)
	assert.Equal(t, backend.KindReference, ref.Name())
}

func TestReference_FallbackOnlyTransform(t *testing.T) {
	ref := backend.NewReference(nil)
	sponge := zoo.MustNew("spongecase", transform.P("rate", transform.Float(1)))
	out, err := ref.RunTransform(sponge, "keep SHOUT", 1, mask.Mask{Exclude: []string{`keep`}})
	require.NoError(t, err)
	assert.Equal(t, "keep shout", out)
}

func TestSelect(t *testing.T) {
	b, err := backend.Select(backend.Options{})
	require.NoError(t, err)
	assert.Equal(t, backend.KindFast, b.Name())

	b, err = backend.Select(backend.Options{Kind: " Reference "})
	require.NoError(t, err)
	assert.Equal(t, backend.KindReference, b.Name())

	_, err = backend.Select(backend.Options{Kind: "gpu"})
	assert.True(t, errors.Is(err, errs.ErrConfig))
}
