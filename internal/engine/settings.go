package engine

import (
	"github.com/ericogr/gridsiege/internal/bomb"
	"github.com/ericogr/gridsiege/internal/damage"
	"github.com/ericogr/gridsiege/internal/grid"
	"github.com/ericogr/gridsiege/internal/monster"
	"github.com/ericogr/gridsiege/internal/turn"
)

// ShieldSettings configure the player's shield and the Shield attribute.
type ShieldSettings struct {
	Cap      int
	PerTurn  int
	Duration int
	PerLine  int
}

// BombSettings configure explosions and automatic spawning.
type BombSettings struct {
	PerBombDamage int
	AutoSpawn     bomb.SpawnerConfig
}

// Settings is the complete ruleset of one battle.
type Settings struct {
	Grid        grid.Config
	Damage      damage.Settings
	Shapes      map[string]grid.Shape
	Monsters    []monster.Definition
	PlayerMaxHP int
	Shield      ShieldSettings
	Bombs       BombSettings
	Pacing      turn.Pacing

	// Durations are the animation lengths, in seconds, reported at each hook point.
	Durations map[turn.HookPoint]float64
}

// Hook turns the configured durations into a duration hook.
func (s Settings) Hook() turn.DurationHook {
	if len(s.Durations) == 0 {
		return nil
	}
	d := s.Durations
	return func(p turn.HookPoint) float64 { return d[p] }
}
