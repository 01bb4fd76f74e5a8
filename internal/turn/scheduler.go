package turn

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ericogr/gridsiege/internal/bomb"
	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/events"
	"github.com/ericogr/gridsiege/internal/ledger"
	"github.com/ericogr/gridsiege/internal/logging"
	"github.com/ericogr/gridsiege/internal/monster"
)

var ErrTurnInFlight = errors.New("turn already in flight")

// Deps are the subsystems a turn drives. Bombs, Spawner and Effects may be
// nil; the phases that need them are skipped with a diagnostic.
type Deps struct {
	BattleID      string
	Ledger        *ledger.Ledger
	Bombs         *bomb.Registry
	Spawner       *bomb.AutoSpawner
	Roster        *monster.Roster
	Effects       monster.Effects
	Bus           *events.Bus
	PerBombDamage int
	Pacing        Pacing
	Hook          DurationHook
}

// Scheduler sequences turns and allows only one in flight.
type Scheduler struct {
	deps Deps

	mu       sync.Mutex
	inFlight bool
	turn     int
}

func NewScheduler(deps Deps) *Scheduler {
	return &Scheduler{deps: deps}
}

// InFlight reports whether a turn is running; player input is blocked meanwhile.
func (s *Scheduler) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Turn is the number of the last started turn.
func (s *Scheduler) Turn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn
}

// SetHook replaces the duration hook used for subsequent turns.
func (s *Scheduler) SetHook(h DurationHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deps.Hook = h
}

// RequestPass starts a new turn. A request while a turn is in flight is
// rejected, never queued.
func (s *Scheduler) RequestPass() (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		logging.Warn("pass rejected: turn in flight", logging.Fields{constants.LogFieldBattleID: s.deps.BattleID})
		return nil, ErrTurnInFlight
	}
	if s.deps.Ledger != nil && s.deps.Ledger.Outcome().Finished() {
		return nil, fmt.Errorf("battle already %s", s.deps.Ledger.Outcome())
	}
	s.inFlight = true
	s.turn++
	return &Run{s: s, deps: s.deps, turn: s.turn, phase: PhaseTurnStart}, nil
}

func (s *Scheduler) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
}

// Run is one turn in progress. Each Next call performs the logic of one
// step synchronously and returns how long the host should wait after it.
type Run struct {
	s    *Scheduler
	deps Deps
	turn int

	phase    Phase
	entered  bool
	queue    []*monster.Actor
	done     bool
	aborted  bool
	released sync.Once
}

func (r *Run) Turn() int     { return r.turn }
func (r *Run) Done() bool    { return r.done }
func (r *Run) Aborted() bool { return r.aborted }
func (r *Run) Phase() Phase  { return r.phase }

// Abort stops the turn where it is and clears the in-flight guard.
func (r *Run) Abort() {
	if r.done {
		return
	}
	r.done = true
	r.aborted = true
	r.release()
}

func (r *Run) release() {
	r.released.Do(r.s.release)
}

// Next runs the next step. It returns false once the turn has ended, either
// normally after TurnEnd or because the battle finished mid-turn.
func (r *Run) Next() (Step, bool) {
	if r.done {
		return Step{}, false
	}
	if r.deps.Ledger != nil && r.deps.Ledger.Outcome().Finished() && r.phase != PhaseTurnStart {
		logging.Info("turn aborted: battle finished", logging.Fields{constants.LogFieldBattleID: r.deps.BattleID, constants.LogFieldPhase: r.phase.String()})
		r.Abort()
		return Step{}, false
	}

	if !r.entered {
		r.entered = true
		r.deps.Bus.Publish(events.TopicPhaseChanged, events.PhaseChanged{Turn: r.turn, Phase: r.phase.String()})
	}

	st := Step{Turn: r.turn, Phase: r.phase}
	switch r.phase {
	case PhaseTurnStart:
		r.advance()
	case PhaseShieldReset:
		if r.deps.Ledger != nil {
			r.deps.Ledger.ResetShieldTurn()
		}
		r.advance()
	case PhaseBombExplosion:
		r.explodeBombs(&st)
		r.advance()
	case PhaseMonsterAttack:
		if r.monsterStep(&st) {
			r.advance()
		}
	case PhaseBombAutoSpawn:
		r.autoSpawn(&st)
		r.advance()
	case PhaseTurnEnd:
		r.done = true
		r.release()
	}
	return st, true
}

func (r *Run) advance() {
	r.phase++
	r.entered = false
	r.queue = nil
}

func (r *Run) explodeBombs(st *Step) {
	if r.deps.Bombs == nil {
		logging.Debug("bomb tick skipped: no bomb registry", logging.Fields{constants.LogFieldBattleID: r.deps.BattleID})
		return
	}
	exploded := r.deps.Bombs.Tick()
	if len(exploded) == 0 {
		return
	}
	dmg := len(exploded) * r.deps.PerBombDamage
	if r.deps.Ledger != nil {
		r.deps.Ledger.ApplyPlayerDamage("bomb", dmg)
	}
	r.deps.Bus.Publish(events.TopicBombExploded, events.BombExploded{Count: len(exploded), Damage: dmg})
	st.Hook = HookBombExplosion
	st.Wait = r.deps.Pacing.Wait(r.deps.Hook, HookBombExplosion)
	st.Detail = fmt.Sprintf("%d bomb(s) exploded for %d damage", len(exploded), dmg)
}

// monsterStep ticks every monster on the first call of the phase and then
// executes one monster of the snapshot per call. It returns true when the
// phase is finished.
func (r *Run) monsterStep(st *Step) bool {
	if r.deps.Roster == nil {
		return true
	}
	if r.queue == nil {
		r.queue = r.deps.Roster.TickAll()
		if len(r.queue) == 0 {
			return true
		}
		r.queue = append([]*monster.Actor{}, r.queue...)
		st.Detail = fmt.Sprintf("%d monster(s) ready", len(r.queue))
		return false
	}
	for len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		if m.Dead() || m.HP() <= 0 {
			continue
		}
		if r.deps.Effects == nil {
			logging.Warn("monster action skipped: no effects", logging.Fields{constants.LogFieldMonsterID: m.ID()})
			continue
		}
		ex := m.Execute(r.deps.Effects)
		r.deps.Bus.Publish(events.TopicMonsterActed, ex)
		st.Hook = HookMonsterAction
		st.Wait = r.deps.Pacing.Wait(r.deps.Hook, HookMonsterAction)
		st.Detail = fmt.Sprintf("%s used %s", ex.MonsterID, ex.PatternID)
		return len(r.queue) == 0
	}
	return true
}

func (r *Run) autoSpawn(st *Step) {
	if r.deps.Spawner == nil {
		return
	}
	b, ok := r.deps.Spawner.Step()
	if !ok {
		return
	}
	r.deps.Bus.Publish(events.TopicBombSpawned, b)
	st.Hook = HookBombSpawn
	st.Wait = r.deps.Pacing.Wait(r.deps.Hook, HookBombSpawn)
	st.Detail = fmt.Sprintf("bomb spawned at %d,%d", b.Pos.X, b.Pos.Y)
}
