package sampler_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dungeon/internal/game/dice"
	"github.com/cory-johannsen/dungeon/internal/game/sampler"
)

// fixedSource returns a constant Float64 and the low end of Intn.
type fixedSource struct{ f float64 }

func (s fixedSource) Intn(int) int      { return 0 }
func (s fixedSource) Float64() float64 { return s.f }

func TestSample_Empty(t *testing.T) {
	_, err := sampler.Sample[int](dice.NewSeededSource(1), nil)
	assert.ErrorIs(t, err, sampler.ErrEmptyDistribution)
}

func TestSample_AllZero(t *testing.T) {
	items := []sampler.Weighted[string]{{"a", 0}, {"b", 0}}
	_, err := sampler.Sample(dice.NewSeededSource(1), items)
	assert.ErrorIs(t, err, sampler.ErrEmptyDistribution)
}

func TestSample_InvalidWeight(t *testing.T) {
	for _, w := range []float64{-1, math.NaN(), math.Inf(1)} {
		items := []sampler.Weighted[int]{{1, 1}, {2, w}}
		_, err := sampler.Sample(dice.NewSeededSource(1), items)
		assert.ErrorIs(t, err, sampler.ErrInvalidWeight, "weight %v", w)
	}
}

func TestSample_BucketBoundaries(t *testing.T) {
	items := []sampler.Weighted[int]{{0, 0.25}, {1, 0.75}}
	cases := []struct {
		roll float64
		want int
	}{
		{0, 0},
		{0.2499, 0},
		{0.25, 1},
		{0.9999, 1},
	}
	for _, tc := range cases {
		got, err := sampler.Sample(fixedSource{tc.roll}, items)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "roll %v", tc.roll)
	}
}

func TestSample_SkipsZeroWeight(t *testing.T) {
	items := []sampler.Weighted[string]{{"never", 0}, {"always", 2}, {"tail", 0}}
	for _, roll := range []float64{0, 0.5, 0.999999} {
		got, err := sampler.Sample(fixedSource{roll}, items)
		require.NoError(t, err)
		assert.Equal(t, "always", got)
	}
}

func TestSample_Deterministic(t *testing.T) {
	items := []sampler.Weighted[int]{{0, 0.1}, {1, 0.3}, {2, 0.5}, {3, 0.1}}
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		va, err := sampler.Sample(a, items)
		require.NoError(t, err)
		vb, err := sampler.Sample(b, items)
		require.NoError(t, err)
		assert.Equal(t, va, vb)
	}
}

// TestSample_Proportional checks the empirical frequency of a 1:3 split.
func TestSample_Proportional(t *testing.T) {
	items := []sampler.Weighted[int]{{0, 1}, {1, 3}}
	src := dice.NewSeededSource(99)
	counts := [2]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		v, err := sampler.Sample(src, items)
		require.NoError(t, err)
		counts[v]++
	}
	assert.InDelta(t, 0.25, float64(counts[0])/n, 0.02)
}

func TestSample_Property_ReturnsPositiveWeightValue(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		weights := rapid.SliceOfN(rapid.Float64Range(0, 10), 1, 8).Draw(rt, "weights")
		weights[0] += 0.01
		items := make([]sampler.Weighted[int], len(weights))
		for i, w := range weights {
			items[i] = sampler.Weighted[int]{Value: i, Weight: w}
		}
		seed := rapid.Int64().Draw(rt, "seed")

		v, err := sampler.Sample(dice.NewSeededSource(seed), items)
		require.NoError(rt, err)
		assert.Greater(rt, items[v].Weight, 0.0)
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, sampler.Validate([]sampler.Weighted[int]{{1, 0.5}}))
	assert.ErrorIs(t, sampler.Validate[int](nil), sampler.ErrEmptyDistribution)
}

func TestChoose_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		size := rapid.IntRange(0, 10).Draw(rt, "size")
		n := rapid.IntRange(-1, 12).Draw(rt, "n")
		seed := rapid.Int64().Draw(rt, "seed")
		items := make([]int, size)
		for i := range items {
			items[i] = i
		}

		got := sampler.Choose(dice.NewSeededSource(seed), items, n)

		want := n
		if want < 0 {
			want = 0
		}
		if want > size {
			want = size
		}
		assert.Len(rt, got, want)
		seen := make(map[int]bool)
		for _, v := range got {
			assert.False(rt, seen[v], "value %d chosen twice", v)
			seen[v] = true
		}
		for i, v := range items {
			assert.Equal(rt, i, v, "input must not be modified")
		}
	})
}
