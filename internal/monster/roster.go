package monster

// Roster keeps monsters in registration order. Dead monsters are
// deregistered from the active list but remain in All for win checks.
type Roster struct {
	all    []*Actor
	active []*Actor
}

func NewRoster(actors ...*Actor) *Roster {
	r := &Roster{}
	for _, a := range actors {
		r.Register(a)
	}
	return r
}

// Register appends a; registering the same actor twice is a no-op.
func (r *Roster) Register(a *Actor) {
	for _, x := range r.all {
		if x == a {
			return
		}
	}
	r.all = append(r.all, a)
	if !a.Dead() {
		r.active = append(r.active, a)
	}
}

// Deregister removes a from the active list permanently.
func (r *Roster) Deregister(a *Actor) {
	for i, x := range r.active {
		if x == a {
			r.active = append(r.active[:i:i], r.active[i+1:]...)
			return
		}
	}
}

// Active returns a copy of the monsters still taking turns.
func (r *Roster) Active() []*Actor {
	return append([]*Actor(nil), r.active...)
}

// All returns every registered monster in registration order.
func (r *Roster) All() []*Actor {
	return append([]*Actor(nil), r.all...)
}

// Get finds a monster by id.
func (r *Roster) Get(id string) (*Actor, bool) {
	for _, a := range r.all {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}

// FirstLiving returns the first active monster with HP left.
func (r *Roster) FirstLiving() (*Actor, bool) {
	for _, a := range r.active {
		if !a.Dead() && a.HP() > 0 {
			return a, true
		}
	}
	return nil, false
}

// AllDown reports whether every registered monster is at 0 HP.
func (r *Roster) AllDown() bool {
	if len(r.all) == 0 {
		return false
	}
	for _, a := range r.all {
		if a.HP() > 0 {
			return false
		}
	}
	return true
}

// TickAll advances every active monster, then returns the snapshot of
// those ready to execute this turn in registration order.
func (r *Roster) TickAll() []*Actor {
	for _, a := range r.active {
		a.Tick()
	}
	var ready []*Actor
	for _, a := range r.active {
		if a.Ready() {
			ready = append(ready, a)
		}
	}
	return ready
}
