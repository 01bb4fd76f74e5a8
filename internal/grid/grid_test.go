package grid

import (
	"math/rand"
	"testing"
)

var (
	dot    = Shape{Name: "dot", Cells: []Coord{{0, 0}}}
	bar2   = Shape{Name: "I2", Cells: []Coord{{0, 0}, {1, 0}}}
	bar4   = Shape{Name: "I4", Cells: []Coord{{0, 0}, {1, 0}, {2, 0}, {3, 0}}}
	ell    = Shape{Name: "L", Cells: []Coord{{0, 0}, {0, 1}, {0, 2}, {1, 2}}}
	shapes = []Shape{dot, bar2, bar4, ell}
)

func newGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := New(Config{Width: 8, Height: 8, QuadrantSize: 4})
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	return g
}

type recordingObserver struct {
	cleared [][]Coord
	moved   [][]Move
}

func (r *recordingObserver) BombsCleared(p []Coord) { r.cleared = append(r.cleared, p) }
func (r *recordingObserver) BombsMoved(m []Move)    { r.moved = append(r.moved, m) }

func TestNewRejectsIndivisibleSize(t *testing.T) {
	if _, err := New(Config{Width: 8, Height: 6, QuadrantSize: 4}); err != ErrInvalidSize {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
}

func TestShapeRotatedClockwise(t *testing.T) {
	got := bar4.Rotated(1)
	want := []Coord{{0, 0}, {0, 1}, {0, 2}, {0, 3}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rotation 1 of I4: got %v want %v", got, want)
		}
	}
	if r := ell.Rotated(4); len(r) != 4 || r[0] != (Coord{0, 0}) || r[3] != (Coord{1, 2}) {
		t.Fatalf("rotation 4 should equal rotation 0, got %v", r)
	}
	if r := ell.Rotated(-1); r[0] != ell.Rotated(3)[0] {
		t.Fatalf("negative rotation must normalise")
	}
}

// Random placements against an independently tracked occupancy set.
func TestPlaceSucceedsIffCellsFree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := newGrid(t)
	for i := 0; i < 400; i++ {
		s := shapes[rng.Intn(len(shapes))]
		origin := Coord{X: rng.Intn(10) - 1, Y: rng.Intn(10) - 1}
		rot := rng.Intn(4)

		want := true
		for _, off := range s.Rotated(rot) {
			c := origin.Add(off)
			cell, ok := g.Cell(c)
			if !ok || !cell.Empty() {
				want = false
				break
			}
		}
		before := g.Cells()
		if g.CanPlace(s, origin, rot) != want {
			t.Fatalf("CanPlace mismatch at %v rot %d", origin, rot)
		}
		res, err := g.Place(s, origin, rot)
		if want != (err == nil) {
			t.Fatalf("Place error mismatch: want ok=%v err=%v", want, err)
		}
		if err != nil {
			after := g.Cells()
			for j := range before {
				if before[j] != after[j] {
					t.Fatalf("failed placement mutated cell %d", j)
				}
			}
			continue
		}
		if !res.Any() {
			for _, off := range s.Rotated(rot) {
				cell, _ := g.Cell(origin.Add(off))
				if !cell.Occupied {
					t.Fatalf("placed cell %v not occupied", origin.Add(off))
				}
			}
			if g.CanPlace(s, origin, rot) {
				t.Fatalf("CanPlace must be false right after a successful Place")
			}
		}
	}
}

func TestPlaceErrors(t *testing.T) {
	g := newGrid(t)
	if _, err := g.Place(bar4, Coord{X: 6, Y: 0}, 0); err != ErrOutOfBounds {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if err := g.PlaceBomb(Coord{X: 2, Y: 2}, 3); err != nil {
		t.Fatalf("place bomb: %v", err)
	}
	if _, err := g.Place(bar4, Coord{X: 0, Y: 2}, 0); err != ErrCellBlocked {
		t.Fatalf("bomb cells must block placement, got %v", err)
	}
	if _, err := g.Place(Shape{Name: "none"}, Coord{}, 0); err != ErrEmptyShape {
		t.Fatalf("expected ErrEmptyShape, got %v", err)
	}
}

func TestColumnClearsOnlyWhenComplete(t *testing.T) {
	g := newGrid(t)
	var fired int
	g.SetLineClearListener(func(LineClearResult) { fired++ })
	for i := 0; i < 4; i++ {
		res, err := g.Place(bar2, Coord{X: 3, Y: i * 2}, 1)
		if err != nil {
			t.Fatalf("placement %d: %v", i, err)
		}
		if i < 3 {
			if res.Any() || fired != 0 {
				t.Fatalf("partial column reported cleared after placement %d: %+v", i, res)
			}
			continue
		}
		if len(res.ClearedCols) != 1 || res.ClearedCols[0] != 3 || len(res.ClearedRows) != 0 {
			t.Fatalf("expected column 3 cleared, got %+v", res)
		}
		if res.RemovedCount != 8 {
			t.Fatalf("expected 8 removed cells, got %d", res.RemovedCount)
		}
	}
	if fired != 1 {
		t.Fatalf("expected one notification, got %d", fired)
	}
	if g.BlockCount() != 0 {
		t.Fatalf("cleared blocks must leave the block table, %d left", g.BlockCount())
	}
}

func TestIntersectionClearedOnce(t *testing.T) {
	g := newGrid(t)
	for x := 0; x < 8; x++ {
		if x == 3 {
			continue
		}
		if _, err := g.Place(dot, Coord{X: x, Y: 0}, 0); err != nil {
			t.Fatalf("row fill: %v", err)
		}
	}
	for y := 1; y < 8; y++ {
		if y == 5 {
			if err := g.PlaceBomb(Coord{X: 3, Y: y}, 2); err != nil {
				t.Fatalf("bomb: %v", err)
			}
			continue
		}
		if _, err := g.Place(dot, Coord{X: 3, Y: y}, 0); err != nil {
			t.Fatalf("col fill: %v", err)
		}
	}
	obs := &recordingObserver{}
	g.SetBombObserver(obs)
	res, err := g.Place(dot, Coord{X: 3, Y: 0}, 0)
	if err != nil {
		t.Fatalf("final placement: %v", err)
	}
	if len(res.ClearedRows) != 1 || len(res.ClearedCols) != 1 {
		t.Fatalf("expected one row and one col, got %+v", res)
	}
	if res.RemovedCount != 15 {
		t.Fatalf("intersection must be counted once: removed %d", res.RemovedCount)
	}
	if !res.ContainedBomb || len(res.RemovedBombPositions) != 1 || res.RemovedBombPositions[0] != (Coord{3, 5}) {
		t.Fatalf("bomb removal not recorded: %+v", res)
	}
	if len(obs.cleared) != 1 {
		t.Fatalf("observer should see the cleared bomb once, got %v", obs.cleared)
	}
	if len(g.EmptyCells()) != 64 {
		t.Fatalf("grid should be empty")
	}
}

func TestPartialLineNotReported(t *testing.T) {
	g := newGrid(t)
	for x := 0; x < 7; x++ {
		if _, err := g.Place(dot, Coord{X: x, Y: 4}, 0); err != nil {
			t.Fatalf("fill: %v", err)
		}
	}
	if res := g.CheckLineClear(); res.Any() {
		t.Fatalf("7/8 row reported as cleared: %+v", res)
	}
	if err := g.PlaceBomb(Coord{X: 7, Y: 4}, 1); err != nil {
		t.Fatalf("bomb: %v", err)
	}
	if res := g.CheckLineClear(); len(res.ClearedRows) != 1 || res.ClearedRows[0] != 4 {
		t.Fatalf("bombs count as filled, got %+v", res)
	}
}

func TestClearSquareCenteredSparesBombs(t *testing.T) {
	g := newGrid(t)
	if _, err := g.Place(bar2, Coord{X: 1, Y: 1}, 0); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := g.PlaceBomb(Coord{X: 2, Y: 2}, 3); err != nil {
		t.Fatalf("bomb: %v", err)
	}
	if n := g.ClearSquareCentered(Coord{X: 2, Y: 2}, 1); n != 2 {
		t.Fatalf("expected 2 cleared cells, got %d", n)
	}
	cell, _ := g.Cell(Coord{X: 2, Y: 2})
	if !cell.IsBomb || cell.BombTimer != 3 {
		t.Fatalf("bomb must survive area clear: %+v", cell)
	}
}

func TestRotateQuadrantMovesCellsAndBombs(t *testing.T) {
	g := newGrid(t)
	obs := &recordingObserver{}
	g.SetBombObserver(obs)
	if _, err := g.Place(dot, Coord{X: 0, Y: 0}, 0); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := g.PlaceBomb(Coord{X: 5, Y: 4}, 4); err != nil {
		t.Fatalf("bomb: %v", err)
	}

	if _, err := g.RotateQuadrant(0); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	cell, _ := g.Cell(Coord{X: 3, Y: 0})
	if !cell.Occupied || cell.Rotation != 1 {
		t.Fatalf("(0,0) should move to (3,0) with rotation 1, got %+v", cell)
	}
	if c, _ := g.Cell(Coord{X: 0, Y: 0}); !c.Empty() {
		t.Fatalf("source cell should be empty")
	}

	// quadrant 3 starts at (4,4); local (1,0) -> (3,1)
	if _, err := g.RotateQuadrant(3); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	moved, _ := g.Cell(Coord{X: 7, Y: 5})
	if !moved.IsBomb || moved.BombTimer != 4 {
		t.Fatalf("bomb should keep its timer at the new cell, got %+v", moved)
	}
	if len(obs.moved) != 1 || obs.moved[0][0] != (Move{From: Coord{5, 4}, To: Coord{7, 5}}) {
		t.Fatalf("unexpected bomb moves %v", obs.moved)
	}
	if _, err := g.RotateQuadrant(4); err != ErrInvalidQuadrant {
		t.Fatalf("expected ErrInvalidQuadrant, got %v", err)
	}
}

func TestRotateQuadrantRunsLineClear(t *testing.T) {
	g := newGrid(t)
	// column 0 of quadrant 1 (x=4) filled; rotation turns it into row 0 of that quadrant
	for y := 0; y < 4; y++ {
		if _, err := g.Place(dot, Coord{X: 4, Y: y}, 0); err != nil {
			t.Fatalf("place: %v", err)
		}
	}
	for x := 0; x < 4; x++ {
		if _, err := g.Place(dot, Coord{X: x, Y: 0}, 0); err != nil {
			t.Fatalf("place: %v", err)
		}
	}
	res, err := g.RotateQuadrant(1)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if len(res.ClearedRows) != 1 || res.ClearedRows[0] != 0 {
		t.Fatalf("expected row 0 cleared after rotation, got %+v", res)
	}
}
