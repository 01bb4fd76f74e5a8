package service

import (
	"sync"

	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/events"
	"github.com/ericogr/gridsiege/internal/logging"
	"github.com/google/uuid"
)

// Subscription delivers every event of one battle. Events published while
// the buffer is full are dropped for this subscriber only.
type Subscription struct {
	ID     string
	Events <-chan events.Event

	ch    chan events.Event
	s     *session
	unsub func()
	once  sync.Once
}

// Subscribe attaches a buffered listener to a battle's event bus.
func (m *Manager) Subscribe(battleID string, buffer int) (*Subscription, error) {
	s, err := m.lookup(battleID)
	if err != nil {
		return nil, err
	}
	if buffer < 1 {
		buffer = 1
	}
	sub := &Subscription{ID: uuid.NewString(), ch: make(chan events.Event, buffer), s: s}
	sub.Events = sub.ch

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrBattleNotFound
	}
	sub.unsub = s.battle.Bus().SubscribeAll(func(ev events.Event) {
		select {
		case sub.ch <- ev:
		default:
			logging.Warn("event dropped: subscriber too slow", logging.Fields{
				constants.LogFieldBattleID: battleID,
				constants.LogFieldTopic:    string(ev.Topic),
				"subscriber":               sub.ID,
			})
		}
	})
	s.subs[sub.ID] = sub
	s.mu.Unlock()
	logging.Debug("event subscriber attached", logging.Fields{constants.LogFieldBattleID: battleID, "subscriber": sub.ID})
	return sub, nil
}

// Close detaches the subscriber and closes Events. Publishing happens under
// the session lock, so nothing is sent after the channel is closed.
func (sub *Subscription) Close() {
	sub.s.mu.Lock()
	defer sub.s.mu.Unlock()
	sub.closeLocked()
}

// closeLocked must be called with the session lock held.
func (sub *Subscription) closeLocked() {
	sub.once.Do(func() {
		sub.unsub()
		close(sub.ch)
		delete(sub.s.subs, sub.ID)
	})
}
