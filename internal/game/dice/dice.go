// Package dice provides the randomness abstraction shared by the dungeon
// generator, the weighted sampler and the combat resolver.
package dice

// Source is the randomness provider for every random decision in the dungeon.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float64 in [0.0, 1.0).
	Float64() float64
}
