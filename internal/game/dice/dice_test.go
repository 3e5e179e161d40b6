package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dungeon/internal/game/dice"
)

// TestCryptoSource_Intn_InRange verifies the postcondition:
// every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

// TestCryptoSource_Intn_PanicsOnZero verifies the precondition:
// Intn panics when called with n <= 0.
func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestCryptoSource_Float64_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeededSource_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

// TestSeededSource_Deterministic verifies that equal seeds replay the same
// sequence of draws.
func TestSeededSource_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		n := rapid.IntRange(1, 1000).Draw(rt, "n")

		a := dice.NewSeededSource(seed)
		b := dice.NewSeededSource(seed)
		for i := 0; i < 20; i++ {
			va, vb := a.Intn(n), b.Intn(n)
			assert.Equal(rt, va, vb)
			assert.GreaterOrEqual(rt, va, 0)
			assert.Less(rt, va, n)
			assert.Equal(rt, a.Float64(), b.Float64())
		}
	})
}

func TestLoggedSource_LogsDraws(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	src := dice.NewLoggedSource(dice.NewSeededSource(7), zap.New(core))

	v := src.Intn(10)
	f := src.Float64()

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "random int", entries[0].Message)
	assert.EqualValues(t, v, entries[0].ContextMap()["value"])
	assert.Equal(t, "random float", entries[1].Message)
	assert.Equal(t, f, entries[1].ContextMap()["value"])
}

func TestNewLoggedSource_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { dice.NewLoggedSource(nil, zap.NewNop()) })
}
