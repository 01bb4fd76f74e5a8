package service

import (
	"context"
	"encoding/binary"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/dedupe"
	"github.com/ericogr/gridsiege/internal/engine"
	"github.com/ericogr/gridsiege/internal/events"
	"github.com/ericogr/gridsiege/internal/game"
	"github.com/ericogr/gridsiege/internal/grid"
	"github.com/ericogr/gridsiege/internal/keys"
	"github.com/ericogr/gridsiege/internal/ledger"
	"github.com/ericogr/gridsiege/internal/logging"
	"github.com/ericogr/gridsiege/internal/storage"
	"github.com/ericogr/gridsiege/internal/turn"
	"github.com/google/uuid"
)

var (
	ErrBattleNotFound = errors.New("battle not found")
)

// Options configure a Manager. Sleep, when set, replaces the real-time
// sleeper used by Pass; it is mostly useful in tests.
type Options struct {
	Settings       engine.Settings
	RealtimePacing bool
	IdleTTL        time.Duration
	Sleep          turn.Sleeper
}

// session is one live battle. mu serializes every call into the battle;
// a running turn releases it only while sleeping between steps.
type session struct {
	mu         sync.Mutex
	battle     *engine.Battle
	tokenKey   string
	lastActive time.Time
	persisted  bool
	closed     bool
	subs       map[string]*Subscription
}

// Manager owns every live battle. Battles are fully isolated from each other.
type Manager struct {
	repo storage.Repository
	opts Options
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
	tokens   map[string]string
}

// NewManager creates a manager. repo may be nil, in which case nothing is
// persisted.
func NewManager(repo storage.Repository, opts Options) *Manager {
	return &Manager{
		repo:     repo,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*session),
		tokens:   make(map[string]string),
	}
}

// PassResult is what one turn produced.
type PassResult struct {
	Steps    []turn.Step     `json:"steps"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

// ActionOutcome pairs a placement or rotation result with the new state.
type ActionOutcome struct {
	Result   engine.ActionResult `json:"result"`
	Snapshot engine.Snapshot     `json:"snapshot"`
}

// Create starts a battle in the preparation phase. With a non-empty client
// token the call is idempotent: the same token always yields the same
// battle, and created reports whether this call built it.
func (m *Manager) Create(clientToken string) (engine.Snapshot, bool, error) {
	key := keys.CreateBattleKey(clientToken)
	if key == "" {
		id, err := m.create("")
		if err != nil {
			return engine.Snapshot{}, false, err
		}
		snap, err := m.Get(id)
		return snap, true, err
	}

	m.mu.RLock()
	id, ok := m.tokens[key]
	m.mu.RUnlock()
	if ok {
		snap, err := m.Get(id)
		return snap, false, err
	}

	built := false
	v, err, _ := dedupe.CreateGroup.Do(key, func() (interface{}, error) {
		m.mu.RLock()
		existing, ok := m.tokens[key]
		m.mu.RUnlock()
		if ok {
			return existing, nil
		}
		built = true
		return m.create(key)
	})
	if err != nil {
		return engine.Snapshot{}, false, err
	}
	snap, err := m.Get(v.(string))
	return snap, built, err
}

func (m *Manager) create(tokenKey string) (string, error) {
	u := uuid.New()
	id := u.String()
	seed := int64(binary.BigEndian.Uint64(u[:8]))

	var sink ledger.Sink
	if m.repo != nil {
		sink = repoSink{repo: m.repo}
	}
	b, err := engine.New(id, seed, m.opts.Settings, events.NewBus(), sink)
	if err != nil {
		logging.Error("failed to create battle", err, logging.Fields{constants.LogFieldBattleID: id})
		return "", err
	}

	m.mu.Lock()
	m.sessions[id] = &session{battle: b, tokenKey: tokenKey, lastActive: m.now(), subs: make(map[string]*Subscription)}
	if tokenKey != "" {
		m.tokens[tokenKey] = id
	}
	m.mu.Unlock()
	logging.Info("battle created", logging.Fields{constants.LogFieldBattleID: id, constants.LogFieldKey: tokenKey})
	return id, nil
}

func (m *Manager) lookup(id string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrBattleNotFound
	}
	return s, nil
}

// with runs fn under the session lock and persists the battle once it is over.
func (m *Manager) with(id string, fn func(s *session) error) error {
	s, err := m.lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrBattleNotFound
	}
	s.lastActive = m.now()
	err = fn(s)
	m.persistIfFinished(s)
	return err
}

func (m *Manager) Get(id string) (engine.Snapshot, error) {
	var snap engine.Snapshot
	err := m.with(id, func(s *session) error {
		snap = s.battle.Snapshot()
		return nil
	})
	return snap, err
}

func (m *Manager) SetAttribute(id string, axis game.Axis, index int, attr game.AttributeType) (engine.Snapshot, error) {
	var snap engine.Snapshot
	err := m.with(id, func(s *session) error {
		if err := s.battle.SetAttribute(axis, index, attr); err != nil {
			return err
		}
		snap = s.battle.Snapshot()
		return nil
	})
	return snap, err
}

func (m *Manager) Begin(id string) (engine.Snapshot, error) {
	var snap engine.Snapshot
	err := m.with(id, func(s *session) error {
		if err := s.battle.Begin(); err != nil {
			return err
		}
		snap = s.battle.Snapshot()
		return nil
	})
	return snap, err
}

func (m *Manager) SetTarget(id, monsterID string) (engine.Snapshot, error) {
	var snap engine.Snapshot
	err := m.with(id, func(s *session) error {
		if err := s.battle.SetTarget(monsterID); err != nil {
			return err
		}
		snap = s.battle.Snapshot()
		return nil
	})
	return snap, err
}

func (m *Manager) Place(id, shape string, origin grid.Coord, rotation int) (ActionOutcome, error) {
	var out ActionOutcome
	err := m.with(id, func(s *session) error {
		res, err := s.battle.PlaceBlock(shape, origin, rotation)
		if err != nil {
			return err
		}
		out = ActionOutcome{Result: res, Snapshot: s.battle.Snapshot()}
		return nil
	})
	return out, err
}

func (m *Manager) Rotate(id string, quadrant int) (ActionOutcome, error) {
	var out ActionOutcome
	err := m.with(id, func(s *session) error {
		res, err := s.battle.RotateQuadrant(quadrant)
		if err != nil {
			return err
		}
		out = ActionOutcome{Result: res, Snapshot: s.battle.Snapshot()}
		return nil
	})
	return out, err
}

// Pass runs one full turn. With real-time pacing the session lock is
// released while sleeping, so concurrent input is rejected by the battle
// instead of queueing behind the turn. A cancelled ctx only drops the
// remaining waits; the turn always runs to its end.
func (m *Manager) Pass(ctx context.Context, id string) (PassResult, error) {
	var out PassResult
	err := m.with(id, func(s *session) error {
		steps, err := s.battle.Pass(ctx, m.sleeper(s))
		if err != nil {
			return err
		}
		out = PassResult{Steps: steps, Snapshot: s.battle.Snapshot()}
		return nil
	})
	return out, err
}

func (m *Manager) sleeper(s *session) turn.Sleeper {
	sleep := m.opts.Sleep
	if sleep == nil {
		if !m.opts.RealtimePacing {
			return nil
		}
		sleep = turn.SleepContext
	}
	return func(ctx context.Context, d time.Duration) error {
		s.mu.Unlock()
		defer s.mu.Lock()
		return sleep(ctx, d)
	}
}

// DamageLog returns the persisted damage log of a battle.
func (m *Manager) DamageLog(id string, limit int) ([]game.DamageLogEntry, error) {
	if _, err := m.lookup(id); err != nil {
		if m.repo == nil {
			return nil, err
		}
		if _, recErr := m.repo.GetBattle(id); recErr != nil {
			return nil, err
		}
	}
	if m.repo == nil {
		return []game.DamageLogEntry{}, nil
	}
	return m.repo.ListDamageLog(id, limit)
}

// Records lists stored battle records, newest first.
func (m *Manager) Records(limit int) ([]game.BattleRecord, error) {
	if m.repo == nil {
		return []game.BattleRecord{}, nil
	}
	return m.repo.ListBattles(limit)
}

// Shapes is the block catalog ordered by name.
func (m *Manager) Shapes() []grid.Shape {
	out := make([]grid.Shape, 0, len(m.opts.Settings.Shapes))
	for _, sh := range m.opts.Settings.Shapes {
		out = append(out, sh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Count is the number of live battles.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) persistIfFinished(s *session) {
	if s.persisted || s.battle.Status() != engine.StatusFinished {
		return
	}
	if m.saveRecord(s) {
		s.persisted = true
	}
}

func (m *Manager) saveRecord(s *session) bool {
	if m.repo == nil {
		return true
	}
	snap := s.battle.Snapshot()
	rec := &game.BattleRecord{
		BattleID:   snap.ID,
		Outcome:    snap.Outcome,
		Turns:      snap.Turn,
		PlayerHP:   snap.Player.HP,
		Seed:       s.battle.Seed(),
		FinishedAt: m.now(),
	}
	if err := m.repo.SaveBattle(rec); err != nil {
		logging.Error("failed to save battle record", err, logging.Fields{constants.LogFieldBattleID: snap.ID})
		return false
	}
	logging.Info("battle record saved", logging.Fields{constants.LogFieldBattleID: snap.ID, "outcome": string(snap.Outcome)})
	return true
}

// repoSink forwards damage log rows to the repository. Write failures are
// logged and never reach combat.
type repoSink struct {
	repo storage.Repository
}

func (r repoSink) AppendDamageLog(entry game.DamageLogEntry) {
	if err := r.repo.AppendDamageLog(entry); err != nil {
		logging.Error("failed to append damage log", err, logging.Fields{constants.LogFieldBattleID: entry.BattleID})
	}
}
