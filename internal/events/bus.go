package events

import (
	"fmt"
	"sync"

	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/logging"
)

// Topic names one notification stream.
type Topic string

const (
	TopicLineCleared        Topic = "line_cleared"
	TopicDamageResolved     Topic = "damage_resolved"
	TopicShieldChanged      Topic = "shield_changed"
	TopicPlayerHPChanged    Topic = "player_hp_changed"
	TopicMonsterHPChanged   Topic = "monster_hp_changed"
	TopicMonsterDied        Topic = "monster_died"
	TopicMonsterActed       Topic = "monster_acted"
	TopicPatternInterrupted Topic = "pattern_interrupted"
	TopicPhaseChanged       Topic = "phase_changed"
	TopicBombSpawned        Topic = "bomb_spawned"
	TopicBombExploded       Topic = "bomb_exploded"
	TopicBombCountdown      Topic = "bomb_countdown_changed"
	TopicOutcomeChanged     Topic = "outcome_changed"
)

// Event is one published notification. Seq increases per bus.
type Event struct {
	Topic   Topic       `json:"topic"`
	Seq     uint64      `json:"seq"`
	Payload interface{} `json:"payload"`
}

// Handler receives events synchronously on the publishing goroutine.
type Handler func(Event)

type subscription struct {
	id uint64
	fn Handler
}

// Bus fans events out to per-topic subscriber lists in subscription order.
// Subscribers subscribed to every topic run after the topic's own list.
// A nil *Bus drops everything.
type Bus struct {
	mu     sync.Mutex
	topics map[Topic][]subscription
	all    []subscription
	nextID uint64
	seq    uint64
}

func NewBus() *Bus {
	return &Bus{topics: make(map[Topic][]subscription)}
}

// Subscribe adds h to topic and returns a function that removes it.
func (b *Bus) Subscribe(topic Topic, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.topics[topic] = append(b.topics[topic], subscription{id: id, fn: h})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.topics[topic] = remove(b.topics[topic], id)
	}
}

// SubscribeAll adds h to every topic.
func (b *Bus) SubscribeAll(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, fn: h})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = remove(b.all, id)
	}
}

func remove(subs []subscription, id uint64) []subscription {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}

// Publish delivers payload to the subscribers of topic. A panicking
// subscriber is logged and skipped; the remaining subscribers still run.
func (b *Bus) Publish(topic Topic, payload interface{}) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.seq++
	ev := Event{Topic: topic, Seq: b.seq, Payload: payload}
	subs := make([]subscription, 0, len(b.topics[topic])+len(b.all))
	subs = append(subs, b.topics[topic]...)
	subs = append(subs, b.all...)
	b.mu.Unlock()

	for _, s := range subs {
		deliver(s.fn, ev)
	}
}

func deliver(fn Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("event subscriber panicked", fmt.Errorf("%v", r), logging.Fields{constants.LogFieldTopic: string(ev.Topic)})
		}
	}()
	fn(ev)
}
