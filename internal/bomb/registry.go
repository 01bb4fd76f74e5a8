package bomb

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/grid"
	"github.com/ericogr/gridsiege/internal/logging"
)

var ErrNoEmptyCell = errors.New("no empty cell available for a bomb")

// ID identifies a bomb for its whole lifetime, including across rotations.
type ID int

// Bomb is a timed hazard occupying one grid cell. 0 <= Timer <= MaxTimer.
type Bomb struct {
	ID       ID         `json:"id"`
	Timer    int        `json:"timer"`
	MaxTimer int        `json:"max_timer"`
	Pos      grid.Coord `json:"pos"`
}

// Registry tracks live bombs and mirrors their timers into the grid.
// It implements grid.BombObserver so line clears and rotations keep it in sync.
type Registry struct {
	grid   *grid.Grid
	rng    *rand.Rand
	bombs  map[ID]*Bomb
	byPos  map[grid.Coord]ID
	nextID ID
}

// NewRegistry creates a registry bound to g and installs itself as the
// grid's bomb observer.
func NewRegistry(g *grid.Grid, rng *rand.Rand) *Registry {
	r := &Registry{
		grid:   g,
		rng:    rng,
		bombs:  make(map[ID]*Bomb),
		byPos:  make(map[grid.Coord]ID),
		nextID: 1,
	}
	g.SetBombObserver(r)
	return r
}

// Register adds b. Registering an id that is already tracked is a no-op
// and returns false.
func (r *Registry) Register(b *Bomb) bool {
	if b == nil {
		return false
	}
	if _, ok := r.bombs[b.ID]; ok {
		return false
	}
	clampTimer(b)
	r.bombs[b.ID] = b
	r.byPos[b.Pos] = b.ID
	if b.ID >= r.nextID {
		r.nextID = b.ID + 1
	}
	return true
}

// Unregister drops a bomb record. Unknown ids are ignored.
func (r *Registry) Unregister(id ID) bool {
	b, ok := r.bombs[id]
	if !ok {
		return false
	}
	delete(r.bombs, id)
	if r.byPos[b.Pos] == id {
		delete(r.byPos, b.Pos)
	}
	return true
}

// Spawn puts a new bomb on an empty cell.
func (r *Registry) Spawn(pos grid.Coord, timer, maxTimer int) (Bomb, error) {
	b := &Bomb{ID: r.nextID, Timer: timer, MaxTimer: maxTimer, Pos: pos}
	clampTimer(b)
	if err := r.grid.PlaceBomb(pos, b.Timer); err != nil {
		return Bomb{}, err
	}
	r.Register(b)
	return *b, nil
}

// SpawnRandom picks uniformly among the currently empty cells. When the
// grid has no empty cell nothing happens and ErrNoEmptyCell is returned.
func (r *Registry) SpawnRandom(timer, maxTimer int) (Bomb, error) {
	empty := r.grid.EmptyCells()
	if len(empty) == 0 {
		logging.Warn("bomb spawn skipped: grid full", logging.Fields{constants.LogFieldCount: len(r.bombs)})
		return Bomb{}, ErrNoEmptyCell
	}
	return r.Spawn(empty[r.rng.Intn(len(empty))], timer, maxTimer)
}

// Tick decrements every bomb that existed when the tick started. Bombs
// reaching zero are removed from the grid and the registry and returned.
// No damage is dealt here.
func (r *Registry) Tick() []Bomb {
	var exploded []Bomb
	for _, id := range r.sortedIDs() {
		b := r.bombs[id]
		b.Timer--
		if b.Timer < 0 {
			b.Timer = 0
		}
		if b.Timer > 0 {
			r.grid.SetBombTimer(b.Pos, b.Timer)
			continue
		}
		r.grid.RemoveBomb(b.Pos)
		r.Unregister(id)
		exploded = append(exploded, *b)
	}
	return exploded
}

// ExtendAllTimers adds delta to every live bomb. With clampToMax the timer
// stops at MaxTimer; otherwise MaxTimer grows to keep Timer <= MaxTimer.
func (r *Registry) ExtendAllTimers(delta int, clampToMax bool) {
	for _, id := range r.sortedIDs() {
		b := r.bombs[id]
		b.Timer += delta
		if clampToMax && b.Timer > b.MaxTimer {
			b.Timer = b.MaxTimer
		}
		if b.Timer > b.MaxTimer {
			b.MaxTimer = b.Timer
		}
		if b.Timer < 1 {
			// extension never detonates a bomb; only Tick does
			b.Timer = 1
		}
		r.grid.SetBombTimer(b.Pos, b.Timer)
	}
}

// Reposition moves the record of the bomb at oldPos to newPos keeping its
// id and timer. The grid cell itself is expected to have moved already.
func (r *Registry) Reposition(oldPos, newPos grid.Coord) bool {
	id, ok := r.byPos[oldPos]
	if !ok {
		return false
	}
	delete(r.byPos, oldPos)
	r.bombs[id].Pos = newPos
	r.byPos[newPos] = id
	return true
}

// BombsCleared drops bombs whose cells were removed by a line clear.
func (r *Registry) BombsCleared(positions []grid.Coord) {
	for _, p := range positions {
		if id, ok := r.byPos[p]; ok {
			r.Unregister(id)
		}
	}
}

// BombsMoved applies all moves of one rotation at once, so bombs swapping
// places inside a quadrant do not overwrite each other.
func (r *Registry) BombsMoved(moves []grid.Move) {
	ids := make([]ID, len(moves))
	found := make([]bool, len(moves))
	for i, m := range moves {
		ids[i], found[i] = r.byPos[m.From]
	}
	for i, m := range moves {
		if found[i] && r.byPos[m.From] == ids[i] {
			delete(r.byPos, m.From)
		}
	}
	for i, m := range moves {
		if !found[i] {
			continue
		}
		r.bombs[ids[i]].Pos = m.To
		r.byPos[m.To] = ids[i]
	}
}

// Get returns a copy of one bomb.
func (r *Registry) Get(id ID) (Bomb, bool) {
	b, ok := r.bombs[id]
	if !ok {
		return Bomb{}, false
	}
	return *b, true
}

// At returns the bomb occupying pos.
func (r *Registry) At(pos grid.Coord) (Bomb, bool) {
	id, ok := r.byPos[pos]
	if !ok {
		return Bomb{}, false
	}
	return r.Get(id)
}

func (r *Registry) Count() int { return len(r.bombs) }

// Bombs lists copies of all live bombs ordered by id.
func (r *Registry) Bombs() []Bomb {
	out := make([]Bomb, 0, len(r.bombs))
	for _, id := range r.sortedIDs() {
		out = append(out, *r.bombs[id])
	}
	return out
}

func (r *Registry) sortedIDs() []ID {
	ids := make([]ID, 0, len(r.bombs))
	for id := range r.bombs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func clampTimer(b *Bomb) {
	if b.MaxTimer < 1 {
		b.MaxTimer = 1
	}
	if b.Timer < 1 {
		b.Timer = 1
	}
	if b.Timer > b.MaxTimer {
		b.Timer = b.MaxTimer
	}
}
