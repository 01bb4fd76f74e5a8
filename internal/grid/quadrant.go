package grid

// QuadrantCount is the number of fixed square sub-grids.
func (g *Grid) QuadrantCount() int {
	return (g.width / g.quadSize) * (g.height / g.quadSize)
}

// QuadrantOrigin returns the top-left cell of quadrant index, counting
// left to right, then top to bottom.
func (g *Grid) QuadrantOrigin(index int) (Coord, bool) {
	if index < 0 || index >= g.QuadrantCount() {
		return Coord{}, false
	}
	perRow := g.width / g.quadSize
	return Coord{X: (index % perRow) * g.quadSize, Y: (index / perRow) * g.quadSize}, true
}

// RotateQuadrant turns one quadrant 90° clockwise. Each filled cell moves
// from local (x,y) to (size-1-y, x) and keeps its block id; bombs keep
// their timers and the bomb observer is told where they went. A line-clear
// pass over the whole grid follows.
func (g *Grid) RotateQuadrant(index int) (LineClearResult, error) {
	origin, ok := g.QuadrantOrigin(index)
	if !ok {
		return LineClearResult{}, ErrInvalidQuadrant
	}
	n := g.quadSize
	snapshot := make([]Cell, n*n)
	for ly := 0; ly < n; ly++ {
		for lx := 0; lx < n; lx++ {
			idx := g.index(Coord{X: origin.X + lx, Y: origin.Y + ly})
			snapshot[ly*n+lx] = g.cells[idx]
			g.cells[idx] = Cell{}
		}
	}

	var moves []Move
	for ly := 0; ly < n; ly++ {
		for lx := 0; lx < n; lx++ {
			cell := snapshot[ly*n+lx]
			if !cell.Filled() {
				continue
			}
			from := Coord{X: origin.X + lx, Y: origin.Y + ly}
			to := Coord{X: origin.X + (n - 1 - ly), Y: origin.Y + lx}
			if cell.Occupied {
				cell.Rotation = normalizeRotation(cell.Rotation + 1)
			}
			g.cells[g.index(to)] = cell
			if cell.IsBomb && from != to {
				moves = append(moves, Move{From: from, To: to})
			}
		}
	}
	if len(moves) > 0 && g.observer != nil {
		g.observer.BombsMoved(moves)
	}
	return g.RemoveLines(g.CheckLineClear()), nil
}
