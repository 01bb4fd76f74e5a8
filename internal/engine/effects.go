package engine

import (
	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/events"
	"github.com/ericogr/gridsiege/internal/grid"
	"github.com/ericogr/gridsiege/internal/logging"
)

// battleEffects is what monster patterns act through.
type battleEffects struct {
	b *Battle
}

func (e battleEffects) DamagePlayer(source string, amount int) {
	e.b.ledger.ApplyPlayerDamage(source, amount)
}

func (e battleEffects) SpawnBombRandom(timer, maxTimer int) bool {
	bm, err := e.b.bombs.SpawnRandom(timer, maxTimer)
	if err != nil {
		return false
	}
	e.b.bus.Publish(events.TopicBombSpawned, bm)
	return true
}

func (e battleEffects) SpawnBombAt(pos grid.Coord, timer, maxTimer int) bool {
	bm, err := e.b.bombs.Spawn(pos, timer, maxTimer)
	if err != nil {
		logging.Warn("bomb spawn skipped", logging.Fields{
			constants.LogFieldBattleID: e.b.id,
			"x":                        pos.X,
			"y":                        pos.Y,
			"reason":                   err.Error(),
		})
		return false
	}
	e.b.bus.Publish(events.TopicBombSpawned, bm)
	return true
}

func (e battleEffects) ClearArea(center grid.Coord, radius int) {
	e.b.grid.ClearSquareCentered(center, radius)
}

func (e battleEffects) GridSize() (int, int) {
	return e.b.grid.Width(), e.b.grid.Height()
}
