// Package sampler draws values from discrete weighted distributions.
package sampler

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/dungeon/internal/game/dice"
)

// ErrEmptyDistribution is returned when a distribution has no items or its
// weights sum to zero.
var ErrEmptyDistribution = errors.New("sampler: empty distribution")

// ErrInvalidWeight is returned when a weight is negative, NaN or infinite.
var ErrInvalidWeight = errors.New("sampler: invalid weight")

// Weighted pairs a value with its relative weight. Weights need not sum to 1.
type Weighted[V any] struct {
	Value  V
	Weight float64
}

// Validate checks that every weight is finite and non-negative and that the
// total weight is positive.
//
// Postcondition: Returns nil iff items can be passed to Sample.
func Validate[V any](items []Weighted[V]) error {
	_, err := total(items)
	return err
}

func total[V any](items []Weighted[V]) (float64, error) {
	if len(items) == 0 {
		return 0, ErrEmptyDistribution
	}
	sum := 0.0
	for i, it := range items {
		if math.IsNaN(it.Weight) || math.IsInf(it.Weight, 0) || it.Weight < 0 {
			return 0, fmt.Errorf("item %d weight %v: %w", i, it.Weight, ErrInvalidWeight)
		}
		sum += it.Weight
	}
	if sum <= 0 {
		return 0, ErrEmptyDistribution
	}
	return sum, nil
}

// Sample draws one value with probability proportional to its weight.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a value from items, or ErrEmptyDistribution /
// ErrInvalidWeight. Zero-weight items are never returned.
func Sample[V any](src dice.Source, items []Weighted[V]) (V, error) {
	var zero V
	sum, err := total(items)
	if err != nil {
		return zero, err
	}

	roll := src.Float64() * sum
	last := -1
	for i, it := range items {
		if it.Weight == 0 {
			continue
		}
		last = i
		if roll < it.Weight {
			return it.Value, nil
		}
		roll -= it.Weight
	}
	// Float rounding can leave roll marginally above the final bucket.
	return items[last].Value, nil
}

// Choose returns n items drawn uniformly without replacement. The input slice
// is not modified.
//
// Postcondition: len(result) == min(max(n, 0), len(items)); result holds no
// index twice.
func Choose[V any](src dice.Source, items []V, n int) []V {
	if n <= 0 || len(items) == 0 {
		return nil
	}
	if n > len(items) {
		n = len(items)
	}
	pool := make([]V, len(items))
	copy(pool, items)
	for i := 0; i < n; i++ {
		j := i + src.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
