package monster

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/game"
	"github.com/ericogr/gridsiege/internal/grid"
	"github.com/ericogr/gridsiege/internal/logging"
)

var ErrNoPatterns = errors.New("monster has no attack patterns")

// State is the position of an actor in its pattern lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateScheduled State = "scheduled"
	StateReady     State = "ready"
	StateExecuting State = "executing"
	StateDead      State = "dead"
)

// Definition describes a monster before battle.
type Definition struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	MaxHP    int        `json:"max_hp"`
	Anchor   grid.Coord `json:"anchor"`
	Patterns []Pattern  `json:"patterns"`
}

// Effects is what a pattern can do to the battle. The engine implements it.
type Effects interface {
	DamagePlayer(source string, amount int)
	SpawnBombRandom(timer, maxTimer int) bool
	SpawnBombAt(pos grid.Coord, timer, maxTimer int) bool
	ClearArea(center grid.Coord, radius int)
	GridSize() (width, height int)
}

// Execution reports what one pattern execution did.
type Execution struct {
	MonsterID    string      `json:"monster_id"`
	PatternID    string      `json:"pattern_id"`
	Kind         PatternKind `json:"kind"`
	Damage       int         `json:"damage,omitempty"`
	BombsSpawned int         `json:"bombs_spawned,omitempty"`
	SlotsLocked  int         `json:"slots_locked,omitempty"`
}

type lockedSlot struct {
	axis  game.Axis
	index int
}

// Actor is the attack-pattern state machine of one monster.
type Actor struct {
	def   Definition
	index map[string]int
	rng   *rand.Rand
	attrs *game.AttributeMap

	hp   int
	dead bool

	state     State
	current   int
	remaining int
	fresh     bool // current pattern was picked by this turn's tick

	hpAtStart int
	watching  bool

	pending []lockedSlot // locked by the last DisableSlot execution
	armed   []lockedSlot // restored on the next (re)schedule

	onInterrupt func(from, to string)
}

// Validate checks every pattern, duplicate pattern ids and groggy references.
func (d Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("monster id is required")
	}
	if len(d.Patterns) == 0 {
		return fmt.Errorf("%s: %w", d.ID, ErrNoPatterns)
	}
	if d.MaxHP < 1 {
		return fmt.Errorf("%s: max_hp must be >= 1", d.ID)
	}
	kinds := make(map[string]PatternKind, len(d.Patterns))
	for _, p := range d.Patterns {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%s: %w", d.ID, err)
		}
		if _, dup := kinds[p.ID]; dup {
			return fmt.Errorf("%s: duplicate pattern id %s", d.ID, p.ID)
		}
		kinds[p.ID] = p.Kind
	}
	for _, p := range d.Patterns {
		if p.Kind != KindHeavyDamage {
			continue
		}
		if kinds[p.Heavy.GroggyPatternID] != KindGroggy {
			return fmt.Errorf("%s: pattern %s references unknown groggy pattern %s", d.ID, p.ID, p.Heavy.GroggyPatternID)
		}
	}
	return nil
}

// New builds an actor at full HP in the Idle state. attrs may be nil, in
// which case DisableSlot patterns are skipped.
func New(def Definition, rng *rand.Rand, attrs *game.AttributeMap) (*Actor, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(def.Patterns))
	for i, p := range def.Patterns {
		idx[p.ID] = i
	}
	return &Actor{
		def:     def,
		index:   idx,
		rng:     rng,
		attrs:   attrs,
		hp:      def.MaxHP,
		state:   StateIdle,
		current: -1,
	}, nil
}

func (a *Actor) ID() string         { return a.def.ID }
func (a *Actor) Name() string       { return a.def.Name }
func (a *Actor) HP() int            { return a.hp }
func (a *Actor) MaxHP() int         { return a.def.MaxHP }
func (a *Actor) Dead() bool         { return a.dead }
func (a *Actor) State() State       { return a.state }
func (a *Actor) Anchor() grid.Coord { return a.def.Anchor }
func (a *Actor) RemainingTurns() int {
	return a.remaining
}

// OnInterrupt registers a callback fired when a heavy attack is cancelled.
func (a *Actor) OnInterrupt(fn func(from, to string)) { a.onInterrupt = fn }

// Current returns the scheduled pattern, if any.
func (a *Actor) Current() (Pattern, bool) {
	if a.current < 0 {
		return Pattern{}, false
	}
	return a.def.Patterns[a.current], true
}

// Start schedules the first pattern without waiting for a tick.
func (a *Actor) Start() {
	if a.dead || a.current >= 0 {
		return
	}
	a.schedule(a.pick())
}

// Tick advances the countdown. An idle actor picks its next pattern; the
// pick is not executable until a later turn. Ticks never execute.
func (a *Actor) Tick() {
	if a.dead {
		return
	}
	a.fresh = false
	switch a.state {
	case StateIdle:
		a.schedule(a.pick())
		a.fresh = true
	case StateScheduled:
		if a.remaining > 0 {
			a.remaining--
		}
		if a.remaining == 0 {
			a.state = StateReady
		}
	}
}

// Ready reports whether the actor belongs in this turn's execution snapshot.
func (a *Actor) Ready() bool {
	return !a.dead && a.current >= 0 && a.remaining <= 0 && !a.fresh
}

func (a *Actor) pick() int {
	weights := make([]int, len(a.def.Patterns))
	for i, p := range a.def.Patterns {
		weights[i] = p.Weight
	}
	return PickWeighted(a.rng, weights)
}

// schedule makes pattern idx current. Slots locked two schedules ago are
// restored here and the most recent locks become restorable next time.
func (a *Actor) schedule(idx int) {
	a.restoreArmed()
	a.armed, a.pending = a.pending, nil

	a.current = idx
	p := a.def.Patterns[idx]
	a.remaining = p.DelayTurns
	a.state = StateScheduled
	if a.remaining == 0 {
		a.state = StateReady
	}
	a.watching = p.Kind == KindHeavyDamage
	a.hpAtStart = a.hp
}

func (a *Actor) restoreArmed() {
	if a.attrs == nil {
		a.armed = nil
		return
	}
	for _, s := range a.armed {
		a.attrs.Restore(s.axis, s.index, a.def.ID)
	}
	a.armed = nil
}

// TakeDamage lowers HP, floored at 0, and returns HP before and after.
// A pending heavy attack is swapped for its groggy pattern as soon as the
// HP lost since it was scheduled reaches the cancel threshold.
func (a *Actor) TakeDamage(amount int) (before, after int) {
	before = a.hp
	if a.dead || amount <= 0 {
		return before, before
	}
	a.hp -= amount
	if a.hp < 0 {
		a.hp = 0
	}
	if a.watching && a.hp > 0 {
		a.checkInterrupt()
	}
	return before, a.hp
}

func (a *Actor) checkInterrupt() {
	p := a.def.Patterns[a.current]
	if p.Kind != KindHeavyDamage || a.hpAtStart-a.hp < p.Heavy.CancelThreshold {
		return
	}
	g := a.index[p.Heavy.GroggyPatternID]
	logging.Info("heavy attack interrupted", logging.Fields{
		constants.LogFieldMonsterID: a.def.ID,
		constants.LogFieldPatternID: p.ID,
		"groggy_pattern_id":         p.Heavy.GroggyPatternID,
	})
	a.schedule(g)
	if a.onInterrupt != nil {
		a.onInterrupt(p.ID, p.Heavy.GroggyPatternID)
	}
}

// Die marks the actor dead permanently, cancels its pattern and restores
// every attribute slot it still holds.
func (a *Actor) Die() {
	if a.dead {
		return
	}
	a.dead = true
	a.hp = 0
	a.state = StateDead
	a.current = -1
	a.remaining = 0
	a.watching = false
	a.pending, a.armed = nil, nil
	if a.attrs != nil {
		a.attrs.RestoreOwner(a.def.ID)
	}
}

// Execute runs the current pattern and then schedules the next one: the
// same pattern again when it repeats, otherwise a fresh weighted pick.
func (a *Actor) Execute(fx Effects) Execution {
	if a.dead || a.current < 0 {
		return Execution{MonsterID: a.def.ID}
	}
	p := a.def.Patterns[a.current]
	a.state = StateExecuting
	a.watching = false
	ex := Execution{MonsterID: a.def.ID, PatternID: p.ID, Kind: p.Kind}

	switch p.Kind {
	case KindBomb:
		ex.BombsSpawned = a.spawnBombs(fx, p.Bomb)
	case KindDamage:
		ex.Damage = p.Damage.Amount
		fx.DamagePlayer(a.def.ID, p.Damage.Amount)
	case KindHeavyDamage:
		ex.Damage = p.Heavy.Amount
		fx.DamagePlayer(a.def.ID, p.Heavy.Amount)
	case KindGroggy:
	case KindDisableSlot:
		ex.SlotsLocked = a.disableSlots(p.Disable)
	}

	if a.dead {
		return ex
	}
	next := a.current
	if !p.Repeat {
		next = a.pick()
	}
	a.schedule(next)
	return ex
}

func (a *Actor) spawnBombs(fx Effects, bp *BombParams) int {
	var targets []grid.Coord
	switch bp.Placement {
	case PlaceRandom:
		if !bp.Boss {
			n := 0
			for i := 0; i < bp.Count; i++ {
				if fx.SpawnBombRandom(bp.Timer, bp.MaxTimer) {
					n++
				}
			}
			return n
		}
		w, h := fx.GridSize()
		for i := 0; i < bp.Count; i++ {
			targets = append(targets, grid.Coord{X: a.rng.Intn(w), Y: a.rng.Intn(h)})
		}
	case PlaceFixed:
		targets = bp.Cells
	case PlaceAroundSelf:
		for _, off := range bp.Cells {
			targets = append(targets, a.def.Anchor.Add(off))
		}
	}
	n := 0
	for _, c := range targets {
		if bp.Boss {
			fx.ClearArea(c, bp.ClearSize/2)
		}
		if fx.SpawnBombAt(c, bp.Timer, bp.MaxTimer) {
			n++
		}
	}
	return n
}

func (a *Actor) disableSlots(dp *DisableParams) int {
	if a.attrs == nil {
		logging.Warn("disable slot skipped: no attribute map", logging.Fields{constants.LogFieldMonsterID: a.def.ID})
		return 0
	}
	var candidates []lockedSlot
	if dp.Axis == SlotRows || dp.Axis == SlotBoth {
		for _, i := range a.attrs.UnlockedSlots(game.AxisRow) {
			candidates = append(candidates, lockedSlot{axis: game.AxisRow, index: i})
		}
	}
	if dp.Axis == SlotColumns || dp.Axis == SlotBoth {
		for _, i := range a.attrs.UnlockedSlots(game.AxisColumn) {
			candidates = append(candidates, lockedSlot{axis: game.AxisColumn, index: i})
		}
	}
	a.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	n := 0
	for _, s := range candidates {
		if n == dp.Count {
			break
		}
		if _, ok := a.attrs.Disable(s.axis, s.index, a.def.ID); ok {
			a.pending = append(a.pending, s)
			n++
		}
	}
	return n
}
