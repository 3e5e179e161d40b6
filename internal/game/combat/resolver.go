package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/game/dungeon"
)

// Resolver wraps Resolve with a fixed Source and logs every fight.
type Resolver struct {
	src    Source
	logger *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: src and logger must be non-nil.
func NewResolver(src Source, logger *zap.Logger) *Resolver {
	if src == nil {
		panic("combat: NewResolver called with nil source")
	}
	return &Resolver{src: src, logger: logger}
}

// Resolve rolls a fight and logs the result at info level.
func (r *Resolver) Resolve(playerLevel uint, enemy dungeon.Enemy) Result {
	res := Resolve(r.src, playerLevel, enemy)
	r.logger.Info("combat resolved",
		zap.Stringer("outcome", res.Outcome),
		zap.Uint("player_level", playerLevel),
		zap.Uint("enemy_level", enemy.Level),
		zap.Stringer("enemy_position", enemy.Position),
		zap.Float64("probability", res.Probability),
		zap.Float64("roll", res.Roll),
		zap.Uint("level_gain", res.LevelGain),
		zap.Uint("damage", res.Damage),
	)
	return res
}
