package turn

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/ericogr/gridsiege/internal/bomb"
	"github.com/ericogr/gridsiege/internal/events"
	"github.com/ericogr/gridsiege/internal/grid"
	"github.com/ericogr/gridsiege/internal/ledger"
	"github.com/ericogr/gridsiege/internal/monster"
)

type ledgerEffects struct {
	l    *ledger.Ledger
	fail bool
}

func (e *ledgerEffects) DamagePlayer(source string, amount int) {
	if e.fail {
		panic("effect failed")
	}
	e.l.ApplyPlayerDamage(source, amount)
}
func (e *ledgerEffects) SpawnBombRandom(timer, maxTimer int) bool             { return false }
func (e *ledgerEffects) SpawnBombAt(pos grid.Coord, timer, maxTimer int) bool { return false }
func (e *ledgerEffects) ClearArea(center grid.Coord, radius int)              {}
func (e *ledgerEffects) GridSize() (int, int)                                 { return 8, 8 }

type fixture struct {
	grid    *grid.Grid
	bombs   *bomb.Registry
	ledger  *ledger.Ledger
	roster  *monster.Roster
	bus     *events.Bus
	effects *ledgerEffects
	sched   *Scheduler
}

func newFixture(t *testing.T, playerHP int, monsterDamage int) *fixture {
	t.Helper()
	g, err := grid.New(grid.Config{Width: 8, Height: 8, QuadrantSize: 4})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	reg := bomb.NewRegistry(g, rng)
	m, err := monster.New(monster.Definition{ID: "goblin", MaxHP: 20, Patterns: []monster.Pattern{
		{ID: "stab", Kind: monster.KindDamage, DelayTurns: 1, Weight: 1, Damage: &monster.DamageParams{Amount: monsterDamage}},
	}}, rng, nil)
	if err != nil {
		t.Fatalf("monster: %v", err)
	}
	m.Start()
	roster := monster.NewRoster(m)
	bus := events.NewBus()
	l := ledger.New(ledger.Config{BattleID: "t", PlayerMaxHP: playerHP, ShieldCap: 10, ShieldPerTurn: 10, ShieldDuration: 1}, roster, bus, nil)
	fx := &ledgerEffects{l: l}
	spawner := bomb.NewAutoSpawner(reg, rng, bomb.SpawnerConfig{Enabled: true, MinInterval: 1, MaxInterval: 1, Timer: 3, MaxTimer: 3})
	s := NewScheduler(Deps{
		BattleID:      "t",
		Ledger:        l,
		Bombs:         reg,
		Spawner:       spawner,
		Roster:        roster,
		Effects:       fx,
		Bus:           bus,
		PerBombDamage: 5,
	})
	return &fixture{grid: g, bombs: reg, ledger: l, roster: roster, bus: bus, effects: fx, sched: s}
}

func TestPassRejectedWhileInFlight(t *testing.T) {
	f := newFixture(t, 50, 1)
	run, err := f.sched.RequestPass()
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if _, err := f.sched.RequestPass(); err != ErrTurnInFlight {
		t.Fatalf("expected ErrTurnInFlight, got %v", err)
	}
	if _, err := Drive(context.Background(), run, nil); err != nil {
		t.Fatalf("drive: %v", err)
	}
	if f.sched.InFlight() {
		t.Fatalf("guard must be cleared after the turn")
	}
	if _, err := f.sched.RequestPass(); err != nil {
		t.Fatalf("pass after completion: %v", err)
	}
}

func TestPhaseOrder(t *testing.T) {
	f := newFixture(t, 50, 3)
	var published []string
	f.bus.Subscribe(events.TopicPhaseChanged, func(e events.Event) {
		published = append(published, e.Payload.(events.PhaseChanged).Phase)
	})
	run, _ := f.sched.RequestPass()
	steps, err := Drive(context.Background(), run, nil)
	if err != nil {
		t.Fatalf("drive: %v", err)
	}
	want := []string{"TurnStart", "ShieldReset", "BombExplosion", "MonsterAttack", "BombAutoSpawn", "TurnEnd"}
	if len(published) != len(want) {
		t.Fatalf("published %v", published)
	}
	for i := range want {
		if published[i] != want[i] {
			t.Fatalf("phase %d: got %s want %s", i, published[i], want[i])
		}
	}
	last := Phase(-1)
	for _, st := range steps {
		if st.Phase < last {
			t.Fatalf("phases went backwards: %v", steps)
		}
		last = st.Phase
	}
	// goblin had one turn of delay, so it attacks in this turn
	if f.ledger.PlayerHP() != 47 {
		t.Fatalf("expected goblin to hit for 3, hp=%d", f.ledger.PlayerHP())
	}
	if f.bombs.Count() != 1 {
		t.Fatalf("auto spawner with interval 1 should have spawned, got %d bombs", f.bombs.Count())
	}
}

func TestBombExplosionSingleDamageCall(t *testing.T) {
	f := newFixture(t, 50, 0)
	if _, err := f.bombs.Spawn(grid.Coord{X: 0, Y: 0}, 1, 1); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if _, err := f.bombs.Spawn(grid.Coord{X: 1, Y: 0}, 1, 1); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	var hits []int
	f.bus.Subscribe(events.TopicBombExploded, func(e events.Event) {
		hits = append(hits, e.Payload.(events.BombExploded).Damage)
	})
	run, _ := f.sched.RequestPass()
	if _, err := Drive(context.Background(), run, nil); err != nil {
		t.Fatalf("drive: %v", err)
	}
	if len(hits) != 1 || hits[0] != 10 {
		t.Fatalf("expected one explosion event of 10, got %v", hits)
	}
	if f.ledger.PlayerHP() != 40 {
		t.Fatalf("expected hp 40, got %d", f.ledger.PlayerHP())
	}
}

func TestGameEndAbortsTurnAndClearsGuard(t *testing.T) {
	f := newFixture(t, 5, 3)
	if _, err := f.bombs.Spawn(grid.Coord{X: 0, Y: 0}, 1, 1); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	run, _ := f.sched.RequestPass()
	steps, err := Drive(context.Background(), run, nil)
	if err != nil {
		t.Fatalf("drive: %v", err)
	}
	if !run.Aborted() {
		t.Fatalf("turn should abort once the player is defeated")
	}
	for _, st := range steps {
		if st.Phase >= PhaseMonsterAttack {
			t.Fatalf("no phase may run after defeat, saw %s", st.Phase)
		}
	}
	if f.sched.InFlight() {
		t.Fatalf("guard must be cleared after abort")
	}
	if _, err := f.sched.RequestPass(); err == nil {
		t.Fatalf("finished battle must refuse new turns")
	}
}

func TestCancelledPacingStillFinishesTurn(t *testing.T) {
	f := newFixture(t, 50, 1)
	if _, err := f.bombs.Spawn(grid.Coord{X: 0, Y: 0}, 1, 1); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	f.sched.SetHook(func(HookPoint) float64 { return 10 })
	run, _ := f.sched.RequestPass()
	ctx, cancel := context.WithCancel(context.Background())
	sleeps := 0
	sleeper := func(ctx context.Context, d time.Duration) error {
		sleeps++
		cancel()
		return ctx.Err()
	}
	steps, err := Drive(ctx, run, sleeper)
	if err != nil {
		t.Fatalf("cancelled pacing must not fail the turn, got %v", err)
	}
	if sleeps != 1 {
		t.Fatalf("expected waits to stop after the first failed sleep, slept %d times", sleeps)
	}
	if run.Aborted() || len(steps) == 0 || steps[len(steps)-1].Phase != PhaseTurnEnd {
		t.Fatalf("turn must run to TurnEnd, got %+v", steps)
	}
	// bomb for 5, then the goblin still attacks for 1
	if f.ledger.PlayerHP() != 44 {
		t.Fatalf("expected bomb and monster damage, hp %d", f.ledger.PlayerHP())
	}
	if f.bombs.Count() != 1 {
		t.Fatalf("auto spawn must still run, got %d bombs", f.bombs.Count())
	}
	if f.sched.InFlight() {
		t.Fatalf("guard must be cleared after the turn")
	}
}

func TestPanickingPhaseClearsGuard(t *testing.T) {
	f := newFixture(t, 50, 1)
	f.effects.fail = true
	run, _ := f.sched.RequestPass()
	if _, err := Drive(context.Background(), run, nil); !errors.Is(err, ErrPhaseFailed) {
		t.Fatalf("expected ErrPhaseFailed, got %v", err)
	}
	if f.sched.InFlight() {
		t.Fatalf("guard must be cleared after a failed phase")
	}
}

func TestPacingClamp(t *testing.T) {
	p := Pacing{MinWait: 100 * time.Millisecond, MaxWait: time.Second}
	if d := p.Wait(func(HookPoint) float64 { return 0 }, HookLineClear); d != 100*time.Millisecond {
		t.Fatalf("expected min clamp, got %v", d)
	}
	if d := p.Wait(func(HookPoint) float64 { return 5 }, HookLineClear); d != time.Second {
		t.Fatalf("expected max clamp, got %v", d)
	}
	if d := p.Wait(nil, HookLineClear); d != 0 {
		t.Fatalf("no hook means no wait, got %v", d)
	}
}

func TestPhaseTextNames(t *testing.T) {
	var p Phase
	if err := p.UnmarshalText([]byte("MonsterAttack")); err != nil || p != PhaseMonsterAttack {
		t.Fatalf("expected MonsterAttack, got %v (%v)", p, err)
	}
	if err := p.UnmarshalText([]byte("Lunch")); err == nil {
		t.Fatalf("expected error for an unknown phase")
	}
}
