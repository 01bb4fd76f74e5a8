package events

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ericogr/gridsiege/internal/logging"
)

func TestPublishOrderAndUnsubscribe(t *testing.T) {
	b := NewBus()
	var got []string
	off := b.Subscribe(TopicPhaseChanged, func(Event) { got = append(got, "first") })
	b.Subscribe(TopicPhaseChanged, func(Event) { got = append(got, "second") })
	b.SubscribeAll(func(e Event) { got = append(got, "all:"+string(e.Topic)) })
	b.Subscribe(TopicShieldChanged, func(Event) { got = append(got, "shield") })

	b.Publish(TopicPhaseChanged, PhaseChanged{Turn: 1, Phase: "TurnStart"})
	want := []string{"first", "second", "all:phase_changed"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v want %v", got, want)
	}

	got = nil
	off()
	b.Publish(TopicPhaseChanged, nil)
	if strings.Join(got, ",") != "second,all:phase_changed" {
		t.Fatalf("unsubscribed handler still called: %v", got)
	}
}

func TestPanickingSubscriberIsIsolated(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	defer logging.SetOutput(nil)

	b := NewBus()
	called := false
	b.Subscribe(TopicOutcomeChanged, func(Event) { panic("boom") })
	b.Subscribe(TopicOutcomeChanged, func(Event) { called = true })
	b.Publish(TopicOutcomeChanged, OutcomeChanged{Outcome: "victory"})
	if !called {
		t.Fatalf("second subscriber must still run")
	}
	if !strings.Contains(buf.String(), "event subscriber panicked") {
		t.Fatalf("panic should be logged, got %q", buf.String())
	}
}

func TestNilBusIsNoop(t *testing.T) {
	var b *Bus
	b.Publish(TopicLineCleared, nil)
}

func TestSeqIncreases(t *testing.T) {
	b := NewBus()
	var seqs []uint64
	b.SubscribeAll(func(e Event) { seqs = append(seqs, e.Seq) })
	b.Publish(TopicBombSpawned, nil)
	b.Publish(TopicBombExploded, nil)
	if len(seqs) != 2 || seqs[0] != 1 || seqs[1] != 2 {
		t.Fatalf("unexpected seqs %v", seqs)
	}
}
