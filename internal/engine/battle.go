package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/ericogr/gridsiege/internal/bomb"
	"github.com/ericogr/gridsiege/internal/events"
	"github.com/ericogr/gridsiege/internal/game"
	"github.com/ericogr/gridsiege/internal/grid"
	"github.com/ericogr/gridsiege/internal/ledger"
	"github.com/ericogr/gridsiege/internal/monster"
	"github.com/ericogr/gridsiege/internal/turn"
)

var (
	ErrInputBlocked   = errors.New("input blocked while a turn is in flight")
	ErrNotPreparing   = errors.New("battle is not in preparation")
	ErrNotInBattle    = errors.New("battle has not begun or is already over")
	ErrUnknownShape   = errors.New("unknown shape")
	ErrUnknownMonster = errors.New("unknown or dead monster")
)

// Status is the lifecycle stage of a battle.
type Status string

const (
	StatusPreparing Status = "preparing"
	StatusActive    Status = "active"
	StatusFinished  Status = "finished"
)

// Battle owns one instance of every subsystem and wires them together.
// It is not safe for concurrent use; callers serialize access.
type Battle struct {
	id       string
	seed     int64
	settings Settings
	bus      *events.Bus

	grid    *grid.Grid
	attrs   *game.AttributeMap
	bombs   *bomb.Registry
	spawner *bomb.AutoSpawner
	roster  *monster.Roster
	ledger  *ledger.Ledger
	sched   *turn.Scheduler
	hook    turn.DurationHook

	status   Status
	targetID string
	actions  int
}

// New assembles a battle in the preparation phase. bus and sink may be nil.
func New(id string, seed int64, s Settings, bus *events.Bus, sink ledger.Sink) (*Battle, error) {
	g, err := grid.New(s.Grid)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	b := &Battle{
		id:       id,
		seed:     seed,
		settings: s,
		bus:      bus,
		grid:     g,
		attrs:    game.NewAttributeMap(s.Grid.Width, s.Grid.Height),
		status:   StatusPreparing,
		hook:     s.Hook(),
	}
	b.bombs = bomb.NewRegistry(g, rng)
	b.spawner = bomb.NewAutoSpawner(b.bombs, rng, s.Bombs.AutoSpawn)
	b.spawner.OnCountdownChanged(func(c int) {
		b.bus.Publish(events.TopicBombCountdown, events.CountdownChanged{Countdown: c})
	})
	g.SetLineClearListener(func(res grid.LineClearResult) {
		b.bus.Publish(events.TopicLineCleared, res)
	})

	b.roster = monster.NewRoster()
	for _, def := range s.Monsters {
		a, err := monster.New(def, rng, b.attrs)
		if err != nil {
			return nil, fmt.Errorf("monster %s: %w", def.ID, err)
		}
		monsterID := a.ID()
		a.OnInterrupt(func(from, to string) {
			b.bus.Publish(events.TopicPatternInterrupted, events.PatternInterrupted{MonsterID: monsterID, From: from, To: to})
		})
		b.roster.Register(a)
	}
	if len(b.roster.All()) == 0 {
		return nil, fmt.Errorf("battle %s: no monsters configured", id)
	}

	b.ledger = ledger.New(ledger.Config{
		BattleID:       id,
		PlayerMaxHP:    s.PlayerMaxHP,
		ShieldCap:      s.Shield.Cap,
		ShieldPerTurn:  s.Shield.PerTurn,
		ShieldDuration: s.Shield.Duration,
	}, b.roster, bus, sink)

	b.sched = turn.NewScheduler(turn.Deps{
		BattleID:      id,
		Ledger:        b.ledger,
		Bombs:         b.bombs,
		Spawner:       b.spawner,
		Roster:        b.roster,
		Effects:       battleEffects{b: b},
		Bus:           bus,
		PerBombDamage: s.Bombs.PerBombDamage,
		Pacing:        s.Pacing,
		Hook:          b.hook,
	})
	return b, nil
}

func (b *Battle) ID() string            { return b.id }
func (b *Battle) Seed() int64           { return b.seed }
func (b *Battle) Status() Status        { return b.status }
func (b *Battle) Outcome() game.Outcome { return b.ledger.Outcome() }
func (b *Battle) Turn() int             { return b.sched.Turn() }
func (b *Battle) Bus() *events.Bus      { return b.bus }
func (b *Battle) TurnInFlight() bool    { return b.sched.InFlight() }

// SetDurationHook replaces the animation-duration hook, e.g. with one fed
// by a live presentation client.
func (b *Battle) SetDurationHook(h turn.DurationHook) {
	b.hook = h
	b.sched.SetHook(h)
}

func (b *Battle) syncStatus() {
	if b.status == StatusActive && b.ledger.Outcome().Finished() {
		b.status = StatusFinished
	}
}

// currentTarget returns the selected monster, falling back to the first
// living one when the selection is empty or dead.
func (b *Battle) currentTarget() *monster.Actor {
	if b.targetID != "" {
		if a, ok := b.roster.Get(b.targetID); ok && !a.Dead() && a.HP() > 0 {
			return a
		}
	}
	a, ok := b.roster.FirstLiving()
	if !ok {
		return nil
	}
	b.targetID = a.ID()
	return a
}
