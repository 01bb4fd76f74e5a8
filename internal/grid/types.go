package grid

import (
	"errors"
	"sort"
)

var (
	ErrOutOfBounds     = errors.New("placement out of bounds")
	ErrCellBlocked     = errors.New("target cell is occupied or holds a bomb")
	ErrEmptyShape      = errors.New("shape has no cells")
	ErrInvalidQuadrant = errors.New("invalid quadrant index")
	ErrInvalidSize     = errors.New("grid size must be positive and divisible by the quadrant size")
)

// Coord addresses a cell; X is the column and Y the row, both zero based.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the coordinate offset by d.
func (c Coord) Add(d Coord) Coord { return Coord{X: c.X + d.X, Y: c.Y + d.Y} }

// BlockID indexes the block table. NoBlock marks a cell not owned by a block.
type BlockID int

const NoBlock BlockID = 0

// Cell is one slot of the occupancy grid. Occupied and IsBomb are never both true.
type Cell struct {
	Occupied  bool    `json:"occupied"`
	IsBomb    bool    `json:"is_bomb"`
	BombTimer int     `json:"bomb_timer,omitempty"`
	Block     BlockID `json:"block_id,omitempty"`
	Rotation  int     `json:"rotation"`
}

// Filled reports whether the cell counts toward a full line.
func (c Cell) Filled() bool { return c.Occupied || c.IsBomb }

// Empty reports whether a block or bomb can be put into the cell.
func (c Cell) Empty() bool { return !c.Occupied && !c.IsBomb }

// Block is a row in the block table. Size tracks the number of live cells;
// a block with no cells left is dropped from the table.
type Block struct {
	ID       BlockID `json:"id"`
	Shape    string  `json:"shape"`
	Rotation int     `json:"rotation"`
	Size     int     `json:"size"`
}

// Move describes a bomb cell relocated by a quadrant rotation.
type Move struct {
	From Coord `json:"from"`
	To   Coord `json:"to"`
}

// BombObserver is told when bomb cells disappear or move because of grid
// operations, so the bomb registry can keep its records in sync.
type BombObserver interface {
	BombsCleared(positions []Coord)
	BombsMoved(moves []Move)
}

// LineClearResult is produced per placement or rotation and must be treated
// as immutable once returned.
type LineClearResult struct {
	ClearedRows          []int   `json:"cleared_rows"`
	ClearedCols          []int   `json:"cleared_cols"`
	RemovedCount         int     `json:"removed_count"`
	RemovedBombPositions []Coord `json:"removed_bomb_positions"`
	ContainedBomb        bool    `json:"contained_bomb"`
}

// LineCount is the number of cleared rows plus cleared columns.
func (r LineClearResult) LineCount() int { return len(r.ClearedRows) + len(r.ClearedCols) }

// Any reports whether at least one line was cleared.
func (r LineClearResult) Any() bool { return r.LineCount() > 0 }

// Shape is a named polyomino described by cell offsets at rotation 0.
type Shape struct {
	Name  string  `json:"name"`
	Cells []Coord `json:"cells"`
}

// Rotated returns the shape offsets turned 90° clockwise rotation times and
// shifted so the smallest x and y are zero.
func (s Shape) Rotated(rotation int) []Coord {
	r := normalizeRotation(rotation)
	out := make([]Coord, len(s.Cells))
	copy(out, s.Cells)
	for i := 0; i < r; i++ {
		for j, c := range out {
			out[j] = Coord{X: -c.Y, Y: c.X}
		}
	}
	if len(out) == 0 {
		return out
	}
	minX, minY := out[0].X, out[0].Y
	for _, c := range out[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
	}
	for j := range out {
		out[j] = Coord{X: out[j].X - minX, Y: out[j].Y - minY}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Y == out[b].Y {
			return out[a].X < out[b].X
		}
		return out[a].Y < out[b].Y
	})
	return out
}

func normalizeRotation(r int) int {
	r %= 4
	if r < 0 {
		r += 4
	}
	return r
}
