package bomb

import "math/rand"

// SpawnerConfig drives periodic bomb spawning during the turn's
// BombAutoSpawn phase. Interval bounds are inclusive.
type SpawnerConfig struct {
	Enabled     bool
	MinInterval int
	MaxInterval int
	Timer       int
	MaxTimer    int
}

// AutoSpawner counts turns down to the next automatic bomb spawn.
type AutoSpawner struct {
	cfg       SpawnerConfig
	registry  *Registry
	rng       *rand.Rand
	countdown int
	onChange  func(countdown int)
}

func NewAutoSpawner(reg *Registry, rng *rand.Rand, cfg SpawnerConfig) *AutoSpawner {
	if cfg.MinInterval < 1 {
		cfg.MinInterval = 1
	}
	if cfg.MaxInterval < cfg.MinInterval {
		cfg.MaxInterval = cfg.MinInterval
	}
	a := &AutoSpawner{cfg: cfg, registry: reg, rng: rng}
	a.countdown = a.draw()
	return a
}

// OnCountdownChanged registers the single countdown listener.
func (a *AutoSpawner) OnCountdownChanged(fn func(int)) { a.onChange = fn }

func (a *AutoSpawner) Enabled() bool { return a.cfg.Enabled }

func (a *AutoSpawner) SetEnabled(on bool) { a.cfg.Enabled = on }

func (a *AutoSpawner) Countdown() int { return a.countdown }

func (a *AutoSpawner) draw() int {
	span := a.cfg.MaxInterval - a.cfg.MinInterval + 1
	return a.cfg.MinInterval + a.rng.Intn(span)
}

// Step advances the countdown by one turn. When it reaches zero a random
// spawn is attempted and a fresh countdown drawn. A disabled spawner does nothing.
func (a *AutoSpawner) Step() (Bomb, bool) {
	if !a.cfg.Enabled {
		return Bomb{}, false
	}
	a.countdown--
	if a.countdown > 0 {
		a.notify()
		return Bomb{}, false
	}
	b, err := a.registry.SpawnRandom(a.cfg.Timer, a.cfg.MaxTimer)
	a.countdown = a.draw()
	a.notify()
	return b, err == nil
}

func (a *AutoSpawner) notify() {
	if a.onChange != nil {
		a.onChange(a.countdown)
	}
}
