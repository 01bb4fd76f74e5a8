package grid

// Config sizes a grid. Width and Height must both be multiples of QuadrantSize.
type Config struct {
	Width        int
	Height       int
	QuadrantSize int
}

// Grid is the occupancy grid. Cells are stored in a flat arena indexed by
// y*width+x; blocks are referenced by id through the block table.
//
// Every exported mutation completes before returning, so callers never see
// a partially applied placement, clear or rotation.
type Grid struct {
	width    int
	height   int
	quadSize int

	cells     []Cell
	blocks    map[BlockID]*Block
	nextBlock BlockID

	observer BombObserver
	onClear  func(LineClearResult)
}

// New creates an empty grid.
func New(cfg Config) (*Grid, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.QuadrantSize <= 0 ||
		cfg.Width%cfg.QuadrantSize != 0 || cfg.Height%cfg.QuadrantSize != 0 {
		return nil, ErrInvalidSize
	}
	return &Grid{
		width:     cfg.Width,
		height:    cfg.Height,
		quadSize:  cfg.QuadrantSize,
		cells:     make([]Cell, cfg.Width*cfg.Height),
		blocks:    make(map[BlockID]*Block),
		nextBlock: 1,
	}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// SetBombObserver registers the collaborator notified of removed or moved bombs.
func (g *Grid) SetBombObserver(o BombObserver) { g.observer = o }

// SetLineClearListener registers the single line-cleared notification target.
func (g *Grid) SetLineClearListener(fn func(LineClearResult)) { g.onClear = fn }

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

func (g *Grid) index(c Coord) int { return c.Y*g.width + c.X }

// Cell returns a copy of the cell at c.
func (g *Grid) Cell(c Coord) (Cell, bool) {
	if !g.InBounds(c) {
		return Cell{}, false
	}
	return g.cells[g.index(c)], true
}

// Cells returns a row-major copy of all cells.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// Block looks up a live block by id.
func (g *Grid) Block(id BlockID) (Block, bool) {
	b, ok := g.blocks[id]
	if !ok {
		return Block{}, false
	}
	return *b, true
}

// BlockCount is the number of blocks with at least one live cell.
func (g *Grid) BlockCount() int { return len(g.blocks) }

// EmptyCells lists every cell that is neither occupied nor a bomb, row-major.
func (g *Grid) EmptyCells() []Coord {
	out := make([]Coord, 0, len(g.cells))
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := Coord{X: x, Y: y}
			if g.cells[g.index(c)].Empty() {
				out = append(out, c)
			}
		}
	}
	return out
}

// CanPlace is true iff every rotated absolute cell of shape is in bounds and
// neither occupied nor a bomb.
func (g *Grid) CanPlace(shape Shape, origin Coord, rotation int) bool {
	return g.checkPlacement(shape, origin, rotation) == nil
}

func (g *Grid) checkPlacement(shape Shape, origin Coord, rotation int) error {
	if len(shape.Cells) == 0 {
		return ErrEmptyShape
	}
	for _, off := range shape.Rotated(rotation) {
		c := origin.Add(off)
		if !g.InBounds(c) {
			return ErrOutOfBounds
		}
		if !g.cells[g.index(c)].Empty() {
			return ErrCellBlocked
		}
	}
	return nil
}

// Place writes shape into the grid and immediately resolves any line clears
// it causes. On failure nothing is mutated.
func (g *Grid) Place(shape Shape, origin Coord, rotation int) (LineClearResult, error) {
	if err := g.checkPlacement(shape, origin, rotation); err != nil {
		return LineClearResult{}, err
	}
	rot := normalizeRotation(rotation)
	offsets := shape.Rotated(rot)
	id := g.nextBlock
	g.nextBlock++
	g.blocks[id] = &Block{ID: id, Shape: shape.Name, Rotation: rot, Size: len(offsets)}
	for _, off := range offsets {
		c := origin.Add(off)
		g.cells[g.index(c)] = Cell{Occupied: true, Block: id, Rotation: rot}
	}
	return g.RemoveLines(g.CheckLineClear()), nil
}

// CheckLineClear reports every full row and every full column. Bombs count
// as filled. A cell may belong to both a cleared row and a cleared column.
func (g *Grid) CheckLineClear() LineClearResult {
	var res LineClearResult
	for y := 0; y < g.height; y++ {
		full := true
		for x := 0; x < g.width; x++ {
			if !g.cells[g.index(Coord{X: x, Y: y})].Filled() {
				full = false
				break
			}
		}
		if full {
			res.ClearedRows = append(res.ClearedRows, y)
		}
	}
	for x := 0; x < g.width; x++ {
		full := true
		for y := 0; y < g.height; y++ {
			if !g.cells[g.index(Coord{X: x, Y: y})].Filled() {
				full = false
				break
			}
		}
		if full {
			res.ClearedCols = append(res.ClearedCols, x)
		}
	}
	return res
}

// RemoveLines clears the union of all cells in the cleared rows and
// columns, each cell exactly once, and fires one line-cleared notification.
// It returns a completed copy of result.
func (g *Grid) RemoveLines(result LineClearResult) LineClearResult {
	out := LineClearResult{
		ClearedRows: append([]int(nil), result.ClearedRows...),
		ClearedCols: append([]int(nil), result.ClearedCols...),
	}
	if !out.Any() {
		return out
	}
	targets := make(map[Coord]struct{})
	for _, y := range out.ClearedRows {
		for x := 0; x < g.width; x++ {
			targets[Coord{X: x, Y: y}] = struct{}{}
		}
	}
	for _, x := range out.ClearedCols {
		for y := 0; y < g.height; y++ {
			targets[Coord{X: x, Y: y}] = struct{}{}
		}
	}
	// walk in row-major order so bomb positions come out deterministic
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := Coord{X: x, Y: y}
			if _, ok := targets[c]; !ok {
				continue
			}
			cell := g.cells[g.index(c)]
			if !cell.Filled() {
				continue
			}
			if cell.IsBomb {
				out.RemovedBombPositions = append(out.RemovedBombPositions, c)
				out.ContainedBomb = true
			}
			g.clearCell(c)
			out.RemovedCount++
		}
	}
	if len(out.RemovedBombPositions) > 0 && g.observer != nil {
		g.observer.BombsCleared(append([]Coord(nil), out.RemovedBombPositions...))
	}
	if g.onClear != nil {
		g.onClear(out)
	}
	return out
}

// ClearSquareCentered clears every non-bomb cell in the (2r+1)² square
// around center. Bombs are left untouched. It returns the number of cells cleared.
func (g *Grid) ClearSquareCentered(center Coord, radius int) int {
	if radius < 0 {
		radius = 0
	}
	n := 0
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			c := Coord{X: x, Y: y}
			if !g.InBounds(c) {
				continue
			}
			cell := g.cells[g.index(c)]
			if cell.IsBomb || !cell.Occupied {
				continue
			}
			g.clearCell(c)
			n++
		}
	}
	return n
}

func (g *Grid) clearCell(c Coord) {
	idx := g.index(c)
	if id := g.cells[idx].Block; id != NoBlock {
		if b, ok := g.blocks[id]; ok {
			b.Size--
			if b.Size <= 0 {
				delete(g.blocks, id)
			}
		}
	}
	g.cells[idx] = Cell{}
}

// PlaceBomb marks an empty cell as a bomb with the given timer.
func (g *Grid) PlaceBomb(c Coord, timer int) error {
	if !g.InBounds(c) {
		return ErrOutOfBounds
	}
	idx := g.index(c)
	if !g.cells[idx].Empty() {
		return ErrCellBlocked
	}
	g.cells[idx] = Cell{IsBomb: true, BombTimer: timer}
	return nil
}

// RemoveBomb clears a bomb cell. It does not notify the bomb observer since
// the caller is the one tracking the bomb.
func (g *Grid) RemoveBomb(c Coord) bool {
	if !g.InBounds(c) {
		return false
	}
	idx := g.index(c)
	if !g.cells[idx].IsBomb {
		return false
	}
	g.cells[idx] = Cell{}
	return true
}

// SetBombTimer mirrors a bomb's timer into its cell.
func (g *Grid) SetBombTimer(c Coord, timer int) {
	if !g.InBounds(c) {
		return
	}
	idx := g.index(c)
	if g.cells[idx].IsBomb {
		g.cells[idx].BombTimer = timer
	}
}
