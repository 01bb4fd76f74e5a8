package bomb

import (
	"math/rand"
	"testing"

	"github.com/ericogr/gridsiege/internal/grid"
)

func setup(t *testing.T) (*grid.Grid, *Registry) {
	t.Helper()
	g, err := grid.New(grid.Config{Width: 8, Height: 8, QuadrantSize: 4})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g, NewRegistry(g, rand.New(rand.NewSource(3)))
}

func TestTickExplodesOnce(t *testing.T) {
	g, r := setup(t)
	b, err := r.Spawn(grid.Coord{X: 1, Y: 1}, 1, 3)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	exploded := r.Tick()
	if len(exploded) != 1 || exploded[0].ID != b.ID || exploded[0].Timer != 0 {
		t.Fatalf("expected bomb %d to explode with timer 0, got %+v", b.ID, exploded)
	}
	if _, ok := r.Get(b.ID); ok {
		t.Fatalf("exploded bomb must leave the registry")
	}
	if cell, _ := g.Cell(b.Pos); cell.IsBomb {
		t.Fatalf("exploded bomb must leave the grid")
	}
	if again := r.Tick(); len(again) != 0 {
		t.Fatalf("bomb reported twice: %+v", again)
	}
}

func TestTickDecrementsAndMirrorsGrid(t *testing.T) {
	g, r := setup(t)
	b, _ := r.Spawn(grid.Coord{X: 0, Y: 0}, 3, 3)
	r.Tick()
	got, _ := r.Get(b.ID)
	cell, _ := g.Cell(b.Pos)
	if got.Timer != 2 || cell.BombTimer != 2 {
		t.Fatalf("expected timer 2 in registry and grid, got %d / %d", got.Timer, cell.BombTimer)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	_, r := setup(t)
	b := &Bomb{ID: 9, Timer: 2, MaxTimer: 2, Pos: grid.Coord{X: 4, Y: 4}}
	if !r.Register(b) || r.Register(b) {
		t.Fatalf("second register must be a no-op")
	}
	if r.Count() != 1 {
		t.Fatalf("expected one bomb, got %d", r.Count())
	}
	if !r.Unregister(9) || r.Unregister(9) {
		t.Fatalf("second unregister must be a no-op")
	}
}

func TestExtendAllTimers(t *testing.T) {
	_, r := setup(t)
	full, _ := r.Spawn(grid.Coord{X: 0, Y: 0}, 3, 3)
	low, _ := r.Spawn(grid.Coord{X: 1, Y: 0}, 1, 3)

	r.ExtendAllTimers(1, true)
	if b, _ := r.Get(full.ID); b.Timer != 3 {
		t.Fatalf("clamped timer should stay at max, got %d", b.Timer)
	}
	if b, _ := r.Get(low.ID); b.Timer != 2 {
		t.Fatalf("expected 2, got %d", b.Timer)
	}

	r.ExtendAllTimers(1, false)
	if b, _ := r.Get(full.ID); b.Timer != 4 || b.MaxTimer != 4 {
		t.Fatalf("unclamped extension must raise max too, got %+v", b)
	}
}

func TestSpawnRandomOnFullGrid(t *testing.T) {
	_, r := setup(t)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if _, err := r.Spawn(grid.Coord{X: x, Y: y}, 5, 5); err != nil {
				t.Fatalf("spawn %d,%d: %v", x, y, err)
			}
		}
	}
	if _, err := r.SpawnRandom(2, 2); err != ErrNoEmptyCell {
		t.Fatalf("expected ErrNoEmptyCell, got %v", err)
	}
	if r.Count() != 64 {
		t.Fatalf("failed spawn must not change the registry")
	}
}

func TestSpawnRandomPicksEmptyCell(t *testing.T) {
	g, r := setup(t)
	dot := grid.Shape{Name: "dot", Cells: []grid.Coord{{X: 0, Y: 0}}}
	for i := 0; i < 40; i++ {
		b, err := r.SpawnRandom(2, 2)
		if err != nil {
			t.Fatalf("spawn: %v", err)
		}
		if _, err := g.Place(dot, b.Pos, 0); err == nil {
			t.Fatalf("spawned bomb cell %v accepted a block", b.Pos)
		}
	}
}

func TestLineClearAndRotationKeepRegistryInSync(t *testing.T) {
	g, r := setup(t)
	b, _ := r.Spawn(grid.Coord{X: 1, Y: 0}, 4, 4)
	if _, err := g.RotateQuadrant(0); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	moved, ok := r.Get(b.ID)
	if !ok || moved.Pos != (grid.Coord{X: 3, Y: 1}) || moved.Timer != 4 {
		t.Fatalf("bomb should be repositioned with the same id and timer, got %+v", moved)
	}
	if at, ok := r.At(grid.Coord{X: 3, Y: 1}); !ok || at.ID != b.ID {
		t.Fatalf("position index not updated")
	}

	dot := grid.Shape{Name: "dot", Cells: []grid.Coord{{X: 0, Y: 0}}}
	for x := 0; x < 8; x++ {
		if x == 3 {
			continue
		}
		if _, err := g.Place(dot, grid.Coord{X: x, Y: 1}, 0); err != nil {
			t.Fatalf("fill: %v", err)
		}
	}
	if r.Count() != 0 {
		t.Fatalf("bomb removed by line clear must be unregistered")
	}
}

func TestAutoSpawnerCountdown(t *testing.T) {
	_, r := setup(t)
	a := NewAutoSpawner(r, rand.New(rand.NewSource(1)), SpawnerConfig{Enabled: true, MinInterval: 2, MaxInterval: 2, Timer: 3, MaxTimer: 3})
	var seen []int
	a.OnCountdownChanged(func(c int) { seen = append(seen, c) })
	if _, spawned := a.Step(); spawned {
		t.Fatalf("first step should only count down")
	}
	if _, spawned := a.Step(); !spawned {
		t.Fatalf("second step should spawn")
	}
	if a.Countdown() != 2 || r.Count() != 1 {
		t.Fatalf("countdown should be redrawn to 2 with one bomb, got %d / %d", a.Countdown(), r.Count())
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("unexpected countdown notifications %v", seen)
	}

	a.SetEnabled(false)
	a.Step()
	a.Step()
	if r.Count() != 1 || a.Countdown() != 2 {
		t.Fatalf("disabled spawner must be a no-op")
	}
}

func TestAutoSpawnerRangeInclusive(t *testing.T) {
	_, r := setup(t)
	a := NewAutoSpawner(r, rand.New(rand.NewSource(5)), SpawnerConfig{Enabled: true, MinInterval: 1, MaxInterval: 3, Timer: 9, MaxTimer: 9})
	hit := map[int]bool{}
	for i := 0; i < 200; i++ {
		hit[a.draw()] = true
	}
	if len(hit) != 3 || !hit[1] || !hit[3] {
		t.Fatalf("expected draws over [1,3], got %v", hit)
	}
}
