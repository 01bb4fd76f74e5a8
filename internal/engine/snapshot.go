package engine

import (
	"github.com/ericogr/gridsiege/internal/bomb"
	"github.com/ericogr/gridsiege/internal/game"
	"github.com/ericogr/gridsiege/internal/grid"
	"github.com/ericogr/gridsiege/internal/ledger"
	"github.com/ericogr/gridsiege/internal/monster"
)

type GridView struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Cells  []grid.Cell `json:"cells"`
}

type MonsterView struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	HP             int           `json:"hp"`
	MaxHP          int           `json:"max_hp"`
	Dead           bool          `json:"dead"`
	State          monster.State `json:"state"`
	PatternID      string        `json:"pattern_id,omitempty"`
	PatternKind    string        `json:"pattern_kind,omitempty"`
	RemainingTurns int           `json:"remaining_turns"`
}

type PlayerView struct {
	HP     int           `json:"hp"`
	MaxHP  int           `json:"max_hp"`
	Shield ledger.Shield `json:"shield"`
}

type AttributesView struct {
	Rows []game.AttributeType `json:"rows"`
	Cols []game.AttributeType `json:"cols"`
}

// Snapshot is a read-only copy of the whole battle state.
type Snapshot struct {
	ID             string         `json:"id"`
	Status         Status         `json:"status"`
	Outcome        game.Outcome   `json:"outcome"`
	Turn           int            `json:"turn"`
	TurnInFlight   bool           `json:"turn_in_flight"`
	TargetID       string         `json:"target_id,omitempty"`
	SpawnCountdown int            `json:"spawn_countdown"`
	Grid           GridView       `json:"grid"`
	Bombs          []bomb.Bomb    `json:"bombs"`
	Monsters       []MonsterView  `json:"monsters"`
	Player         PlayerView     `json:"player"`
	Attributes     AttributesView `json:"attributes"`
}

func (b *Battle) Snapshot() Snapshot {
	rows, cols := b.attrs.Snapshot()
	s := Snapshot{
		ID:             b.id,
		Status:         b.status,
		Outcome:        b.ledger.Outcome(),
		Turn:           b.sched.Turn(),
		TurnInFlight:   b.sched.InFlight(),
		TargetID:       b.targetID,
		SpawnCountdown: b.spawner.Countdown(),
		Grid:           GridView{Width: b.grid.Width(), Height: b.grid.Height(), Cells: b.grid.Cells()},
		Bombs:          b.bombs.Bombs(),
		Player:         PlayerView{HP: b.ledger.PlayerHP(), MaxHP: b.ledger.PlayerMaxHP(), Shield: b.ledger.Shield()},
		Attributes:     AttributesView{Rows: rows, Cols: cols},
	}
	for _, a := range b.roster.All() {
		mv := MonsterView{
			ID:             a.ID(),
			Name:           a.Name(),
			HP:             a.HP(),
			MaxHP:          a.MaxHP(),
			Dead:           a.Dead(),
			State:          a.State(),
			RemainingTurns: a.RemainingTurns(),
		}
		if p, ok := a.Current(); ok {
			mv.PatternID = p.ID
			mv.PatternKind = string(p.Kind)
		}
		s.Monsters = append(s.Monsters, mv)
	}
	return s
}
