package ledger

import (
	"time"

	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/events"
	"github.com/ericogr/gridsiege/internal/game"
	"github.com/ericogr/gridsiege/internal/logging"
	"github.com/ericogr/gridsiege/internal/monster"
)

// PlayerID is the target name used for the player in logs and events.
const PlayerID = "player"

// Sink receives one diagnostic row per damage application. It is never
// read back by the ledger.
type Sink interface {
	AppendDamageLog(entry game.DamageLogEntry)
}

type Config struct {
	BattleID       string
	PlayerMaxHP    int
	ShieldCap      int
	ShieldPerTurn  int
	ShieldDuration int
}

// Ledger applies damage to the player and to monsters and decides the
// battle outcome after every application.
type Ledger struct {
	cfg      Config
	playerHP int
	shield   Shield
	roster   *monster.Roster
	bus      *events.Bus
	sink     Sink
	outcome  game.Outcome
	now      func() time.Time
}

// New creates a ledger with the player at full HP. bus and sink may be nil.
func New(cfg Config, roster *monster.Roster, bus *events.Bus, sink Sink) *Ledger {
	if cfg.PlayerMaxHP < 1 {
		cfg.PlayerMaxHP = 1
	}
	return &Ledger{
		cfg:      cfg,
		playerHP: cfg.PlayerMaxHP,
		shield:   Shield{TotalCap: cfg.ShieldCap, PerTurnGainLimit: cfg.ShieldPerTurn},
		roster:   roster,
		bus:      bus,
		sink:     sink,
		outcome:  game.OutcomeOngoing,
		now:      time.Now,
	}
}

func (l *Ledger) PlayerHP() int           { return l.playerHP }
func (l *Ledger) PlayerMaxHP() int        { return l.cfg.PlayerMaxHP }
func (l *Ledger) Shield() Shield          { return l.shield }
func (l *Ledger) Outcome() game.Outcome   { return l.outcome }
func (l *Ledger) Roster() *monster.Roster { return l.roster }

// SetClock overrides the timestamp source of damage log rows.
func (l *Ledger) SetClock(f func() time.Time) { l.now = f }

// AddShield grants shield through the per-turn limit and the cap.
func (l *Ledger) AddShield(amount int) int {
	gained := l.shield.Add(amount, l.cfg.ShieldDuration)
	if gained > 0 {
		l.publishShield()
	}
	return gained
}

// ResetShieldTurn runs the ShieldReset phase.
func (l *Ledger) ResetShieldTurn() {
	l.shield.ResetTurn()
	l.publishShield()
}

// ApplyPlayerDamage lets the shield absorb first and takes the remainder
// from player HP, floored at 0.
func (l *Ledger) ApplyPlayerDamage(source string, amount int) (absorbed, applied int) {
	if amount < 0 {
		amount = 0
	}
	before := l.playerHP
	absorbed = l.shield.Absorb(amount)
	applied = amount - absorbed
	l.playerHP -= applied
	if l.playerHP < 0 {
		applied += l.playerHP
		l.playerHP = 0
	}
	l.record(source, PlayerID, amount, applied, absorbed, before, l.playerHP)
	if absorbed > 0 {
		l.publishShield()
	}
	l.bus.Publish(events.TopicPlayerHPChanged, events.HPChanged{ID: PlayerID, Source: source, HP: l.playerHP, MaxHP: l.cfg.PlayerMaxHP})
	l.checkOutcome()
	return absorbed, applied
}

// ApplyMonsterDamage lowers target HP, floored at 0. With delayDeath the
// death is only declared by a later ConfirmDeath call.
func (l *Ledger) ApplyMonsterDamage(source string, amount int, target *monster.Actor, delayDeath bool) int {
	if target == nil {
		logging.Warn("monster damage skipped: no target", logging.Fields{constants.LogFieldSource: source, constants.LogFieldRequested: amount})
		return 0
	}
	if target.Dead() {
		return 0
	}
	before, after := target.TakeDamage(amount)
	l.record(source, target.ID(), amount, before-after, 0, before, after)
	l.bus.Publish(events.TopicMonsterHPChanged, events.HPChanged{ID: target.ID(), Source: source, HP: after, MaxHP: target.MaxHP()})
	if after == 0 && !delayDeath {
		l.ConfirmDeath(target)
	}
	l.checkOutcome()
	return before - after
}

// ApplyAoEDamage hits every living monster with the same amount.
func (l *Ledger) ApplyAoEDamage(source string, amount int, delayDeath bool) int {
	if amount <= 0 || l.roster == nil {
		return 0
	}
	total := 0
	for _, m := range l.roster.Active() {
		if m.HP() <= 0 {
			continue
		}
		total += l.ApplyMonsterDamage(source, amount, m, delayDeath)
	}
	return total
}

// ConfirmDeath declares a monster at 0 HP dead, deregisters it and checks
// the outcome. It returns false if the monster is alive or already dead.
func (l *Ledger) ConfirmDeath(target *monster.Actor) bool {
	if target == nil || target.Dead() || target.HP() > 0 {
		return false
	}
	target.Die()
	if l.roster != nil {
		l.roster.Deregister(target)
	}
	logging.Info("monster died", logging.Fields{constants.LogFieldBattleID: l.cfg.BattleID, constants.LogFieldMonsterID: target.ID()})
	l.bus.Publish(events.TopicMonsterDied, events.MonsterDied{ID: target.ID()})
	l.checkOutcome()
	return true
}

// ConfirmPendingDeaths declares every monster left at 0 HP dead.
func (l *Ledger) ConfirmPendingDeaths() int {
	if l.roster == nil {
		return 0
	}
	n := 0
	for _, m := range l.roster.Active() {
		if l.ConfirmDeath(m) {
			n++
		}
	}
	return n
}

func (l *Ledger) checkOutcome() {
	if l.outcome.Finished() {
		return
	}
	switch {
	case l.playerHP <= 0:
		l.outcome = game.OutcomeDefeat
	case l.roster != nil && l.roster.AllDown():
		l.outcome = game.OutcomeVictory
	default:
		return
	}
	logging.Info("battle finished", logging.Fields{constants.LogFieldBattleID: l.cfg.BattleID, "outcome": string(l.outcome)})
	l.bus.Publish(events.TopicOutcomeChanged, events.OutcomeChanged{Outcome: string(l.outcome)})
}

func (l *Ledger) record(source, target string, requested, applied, absorbed, before, after int) {
	logging.Info("damage applied", logging.Fields{
		constants.LogFieldBattleID:  l.cfg.BattleID,
		constants.LogFieldSource:    source,
		constants.LogFieldTarget:    target,
		constants.LogFieldRequested: requested,
		constants.LogFieldApplied:   applied,
		constants.LogFieldAbsorbed:  absorbed,
		constants.LogFieldBefore:    before,
		constants.LogFieldAfter:     after,
	})
	if l.sink == nil {
		return
	}
	l.sink.AppendDamageLog(game.DamageLogEntry{
		BattleID:  l.cfg.BattleID,
		At:        l.now(),
		Origin:    source,
		Target:    target,
		Requested: requested,
		Applied:   applied,
		Absorbed:  absorbed,
		HPBefore:  before,
		HPAfter:   after,
	})
}

func (l *Ledger) publishShield() {
	l.bus.Publish(events.TopicShieldChanged, events.ShieldChanged{Amount: l.shield.Current, RemainingTurns: l.shield.RemainingTurns})
}
