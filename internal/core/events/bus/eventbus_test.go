package bus

import (
	"errors"
	"testing"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	called := 0
	_, err := b.Subscribe("npc.death", func(e Event) error {
		called++
		if e.Source() != "tester" {
			t.Errorf("unexpected source %q", e.Source())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err = b.Publish(NewEvent("npc.death", "tester", 42)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if called != 1 {
		t.Fatalf("handler called %d times, want 1", called)
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	b := New()
	if err := b.Publish(NewEvent("nobody.home", "tester", nil)); err != nil {
		t.Fatalf("publish to empty bus: %v", err)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	called := 0
	sub, _ := b.Subscribe("ev", func(e Event) error { called++; return nil })
	_ = b.Publish(NewEvent("ev", "src", nil))
	if err := b.Unsubscribe(sub); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	_ = b.Publish(NewEvent("ev", "src", nil))
	if called != 1 {
		t.Fatalf("handler called %d times after cancel, want 1", called)
	}
	if sub.IsActive() {
		t.Fatal("subscription still active after cancel")
	}
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	errA := errors.New("a")
	errB := errors.New("b")
	_, _ = b.Subscribe("ev", func(e Event) error { return errA })
	_, _ = b.Subscribe("ev", func(e Event) error { return errB })
	err := b.Publish(NewEvent("ev", "src", nil))
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("joined error missing parts: %v", err)
	}
}

func TestUnsubscribeNil(t *testing.T) {
	b := New()
	if err := b.Unsubscribe(nil); err != nil {
		t.Fatalf("unsubscribe nil: %v", err)
	}
}
