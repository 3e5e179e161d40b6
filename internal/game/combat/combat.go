// Package combat resolves a fight between the player and a single enemy.
package combat

import (
	"math"

	"github.com/cory-johannsen/dungeon/internal/game/dungeon"
)

// Outcome is the result of a fight from the player's point of view.
type Outcome int

const (
	Win Outcome = iota
	Loss
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	default:
		return "unknown"
	}
}

// Result holds the full audit trail of one resolved fight.
type Result struct {
	// Outcome is Win or Loss.
	Outcome Outcome
	// Enemy is the opponent as it stood before the fight.
	Enemy dungeon.Enemy
	// Probability is the chance of winning that was rolled against.
	Probability float64
	// Roll is the uniform draw in [0, 1); the fight is won iff Roll < Probability.
	Roll float64
	// LevelGain is the player's level increase (Enemy.Level on Win, else 0).
	LevelGain uint
	// Damage is the health lost (0 on Win).
	Damage uint
}

// WinProbability returns max(0, 1 - 0.5^(playerLevel-enemyLevel) / 2).
//
// Postcondition: Result is in [0, 1]; exactly 0.5 for equal levels;
// non-decreasing in playerLevel and non-increasing in enemyLevel.
func WinProbability(playerLevel, enemyLevel uint) float64 {
	diff := float64(playerLevel) - float64(enemyLevel)
	p := 1 - math.Pow(0.5, diff)/2
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// LossDamage returns the health lost when a fight is lost: |p - e| + 1.
//
// Postcondition: Result >= 1.
func LossDamage(playerLevel, enemyLevel uint) uint {
	if playerLevel > enemyLevel {
		return playerLevel - enemyLevel + 1
	}
	return enemyLevel - playerLevel + 1
}

// Source is the subset of dice.Source used to roll a fight.
type Source interface {
	Float64() float64
}

// Resolve rolls a fight between a player of playerLevel and enemy.
//
// Precondition: src must be non-nil.
// Postcondition: Outcome is Win iff Roll < Probability; LevelGain and Damage
// are set for the corresponding outcome only.
func Resolve(src Source, playerLevel uint, enemy dungeon.Enemy) Result {
	res := Result{
		Enemy:       enemy,
		Probability: WinProbability(playerLevel, enemy.Level),
		Roll:        src.Float64(),
	}
	if res.Roll < res.Probability {
		res.Outcome = Win
		res.LevelGain = enemy.Level
		return res
	}
	res.Outcome = Loss
	res.Damage = LossDamage(playerLevel, enemy.Level)
	return res
}
