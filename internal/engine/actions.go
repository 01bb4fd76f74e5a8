package engine

import (
	"context"
	"fmt"

	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/damage"
	"github.com/ericogr/gridsiege/internal/events"
	"github.com/ericogr/gridsiege/internal/game"
	"github.com/ericogr/gridsiege/internal/grid"
	"github.com/ericogr/gridsiege/internal/ledger"
	"github.com/ericogr/gridsiege/internal/logging"
	"github.com/ericogr/gridsiege/internal/turn"
)

// sourceStaff names Staff area damage in the damage log.
const sourceStaff = "staff"

// SetAttribute edits one row or column attribute. Only allowed before Begin.
func (b *Battle) SetAttribute(axis game.Axis, index int, attr game.AttributeType) error {
	if b.status != StatusPreparing {
		return ErrNotPreparing
	}
	if axis != game.AxisRow && axis != game.AxisColumn {
		return game.ErrSlotOutOfRange
	}
	return b.attrs.Set(axis, index, attr)
}

// Begin ends preparation and schedules every monster's first pattern.
func (b *Battle) Begin() error {
	if b.status != StatusPreparing {
		return ErrNotPreparing
	}
	b.status = StatusActive
	for _, a := range b.roster.Active() {
		a.Start()
	}
	b.currentTarget()
	logging.Info("battle begun", logging.Fields{constants.LogFieldBattleID: b.id, constants.LogFieldCount: len(b.roster.All())})
	return nil
}

// SetTarget selects the single-target monster for line-clear damage.
func (b *Battle) SetTarget(monsterID string) error {
	if err := b.checkInput(); err != nil {
		return err
	}
	a, ok := b.roster.Get(monsterID)
	if !ok || a.Dead() || a.HP() <= 0 {
		return ErrUnknownMonster
	}
	b.targetID = monsterID
	return nil
}

func (b *Battle) checkInput() error {
	if b.status != StatusActive {
		return ErrNotInBattle
	}
	if b.sched.InFlight() {
		return ErrInputBlocked
	}
	return nil
}

// PlaceBlock puts a named shape on the grid and resolves the line clears
// it causes. A placement that does not fit changes nothing.
func (b *Battle) PlaceBlock(shapeName string, origin grid.Coord, rotation int) (ActionResult, error) {
	if err := b.checkInput(); err != nil {
		return ActionResult{}, err
	}
	shape, ok := b.settings.Shapes[shapeName]
	if !ok {
		return ActionResult{}, ErrUnknownShape
	}
	lc, err := b.grid.Place(shape, origin, rotation)
	if err != nil {
		return ActionResult{}, err
	}
	b.actions++
	cc := newClearContext(b, lc)
	cc.add(fmt.Sprintf("Placed %s at %d,%d", shapeName, origin.X, origin.Y))
	b.resolveClear(cc)
	return cc.finish(), nil
}

// RotateQuadrant turns one quadrant clockwise and resolves any clears.
func (b *Battle) RotateQuadrant(index int) (ActionResult, error) {
	if err := b.checkInput(); err != nil {
		return ActionResult{}, err
	}
	lc, err := b.grid.RotateQuadrant(index)
	if err != nil {
		return ActionResult{}, err
	}
	b.actions++
	cc := newClearContext(b, lc)
	cc.add(fmt.Sprintf("Rotated quadrant %d", index))
	b.resolveClear(cc)
	return cc.finish(), nil
}

// resolveClear computes the full breakdown first, then applies shield,
// single-target and AoE damage, and finally declares deaths.
func (b *Battle) resolveClear(cc *clearContext) {
	lc := cc.res.LineClear
	if !lc.Any() {
		return
	}
	cc.wait(turn.HookLineClear)
	bd := damage.Resolve(b.settings.Damage, lc, b.attrs)
	cc.res.Breakdown = &bd
	b.bus.Publish(events.TopicDamageResolved, bd)
	cc.add(fmt.Sprintf("Cleared %d line(s): base %d, attribute %d, total %d", lc.LineCount(), bd.BaseDamage, bd.AttributeDamage, bd.FinalDamage))

	if bd.ShieldLines > 0 {
		cc.res.ShieldGained = b.ledger.AddShield(bd.ShieldLines * b.settings.Shield.PerLine)
		b.bombs.ExtendAllTimers(1, true)
		cc.add(fmt.Sprintf("Shield +%d; bomb timers extended", cc.res.ShieldGained))
	}

	if target := b.currentTarget(); target != nil {
		cc.res.TargetID = target.ID()
		cc.res.TargetDamage = b.ledger.ApplyMonsterDamage(ledger.PlayerID, bd.FinalDamage, target, true)
		cc.add(fmt.Sprintf("%s takes %d", target.Name(), cc.res.TargetDamage))
	} else {
		logging.Warn("line clear damage skipped: no target", logging.Fields{constants.LogFieldBattleID: b.id})
	}
	if bd.AoEDamage > 0 {
		cc.res.AoEDamage = b.ledger.ApplyAoEDamage(sourceStaff, bd.AoEDamage, true)
		cc.add(fmt.Sprintf("Staff hits all monsters for %d", bd.AoEDamage))
	}
	if cc.res.TargetDamage > 0 || cc.res.AoEDamage > 0 {
		cc.wait(turn.HookMonsterHit)
	}

	for _, a := range b.roster.Active() {
		if a.HP() <= 0 && b.ledger.ConfirmDeath(a) {
			cc.res.MonstersSlain = append(cc.res.MonstersSlain, a.ID())
			cc.add(fmt.Sprintf("%s is defeated", a.Name()))
		}
	}
	b.syncStatus()
	if b.status == StatusFinished {
		cc.add("Battle finished: " + string(b.ledger.Outcome()))
	}
}

// RequestPass starts a turn. The caller drives the returned run and must
// call Settle when it is done.
func (b *Battle) RequestPass() (*turn.Run, error) {
	if b.status != StatusActive {
		return nil, ErrNotInBattle
	}
	return b.sched.RequestPass()
}

// Settle updates the battle status after a turn run ends.
func (b *Battle) Settle() { b.syncStatus() }

// Pass runs one full turn, sleeping between steps with sleep (nil skips
// waiting), and returns the steps taken.
func (b *Battle) Pass(ctx context.Context, sleep turn.Sleeper) ([]turn.Step, error) {
	run, err := b.RequestPass()
	if err != nil {
		return nil, err
	}
	defer b.Settle()
	return turn.Drive(ctx, run, sleep)
}
