package service

import (
	"time"

	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/logging"
)

// ExpireIdle drops battles nobody has touched for longer than the idle TTL.
// A battle that is still ongoing is recorded as abandoned with its current
// outcome; a finished one was already recorded. Open event subscriptions
// are closed. Sessions busy with a turn are skipped and looked at again on
// the next sweep.
func (m *Manager) ExpireIdle(now time.Time) int {
	if m.opts.IdleTTL <= 0 {
		return 0
	}
	m.mu.RLock()
	candidates := make(map[string]*session, len(m.sessions))
	for id, s := range m.sessions {
		candidates[id] = s
	}
	m.mu.RUnlock()

	expired := 0
	for id, s := range candidates {
		if !s.mu.TryLock() {
			continue
		}
		if s.battle.TurnInFlight() || now.Sub(s.lastActive) < m.opts.IdleTTL {
			s.mu.Unlock()
			continue
		}
		if !s.persisted {
			s.persisted = m.saveRecord(s)
		}
		s.closed = true
		for _, sub := range s.subs {
			sub.closeLocked()
		}
		m.mu.Lock()
		delete(m.sessions, id)
		if s.tokenKey != "" {
			delete(m.tokens, s.tokenKey)
		}
		m.mu.Unlock()
		s.mu.Unlock()
		expired++
		logging.Info("idle battle expired", logging.Fields{constants.LogFieldBattleID: id, "status": string(s.battle.Status())})
	}
	return expired
}

// RunExpiry sweeps idle battles every interval until stop is closed.
func (m *Manager) RunExpiry(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			if n := m.ExpireIdle(now); n > 0 {
				logging.Debug("expiry sweep", logging.Fields{constants.LogFieldCount: n})
			}
		}
	}
}
