package alert

import (
	"testing"
	"time"

	"github.com/kpederson/snowbot/internal/store"
)

func subscription(channel, user string) store.Subscription {
	return store.Subscription{ChannelID: channel, UserID: user, CreatedAt: time.Now()}
}

func notified(decisions []Decision) []string {
	var keys []string
	for _, d := range decisions {
		if d.Notify {
			keys = append(keys, d.Subscription.Key().String())
		}
	}
	return keys
}

func TestTrackerEpisode(t *testing.T) {
	tr := NewTracker()
	subs := []store.Subscription{subscription("c1", "u1")}

	// Edge-trigger: notify once, then stay silent while the condition
	// holds, reset silently, notify again on the next episode.
	steps := []struct {
		shouldAlert bool
		wantNotify  bool
		wantArmed   bool
	}{
		{true, true, true},
		{true, false, true},
		{false, false, false},
		{true, true, true},
		{false, false, false},
		{false, false, false},
	}

	key := store.Key{ChannelID: "c1", UserID: "u1"}
	for i, step := range steps {
		got := notified(tr.Tick(subs, step.shouldAlert))
		if step.wantNotify != (len(got) == 1) {
			t.Fatalf("step %d: notify = %v, want %v", i, len(got) == 1, step.wantNotify)
		}
		if tr.Armed(key) != step.wantArmed {
			t.Fatalf("step %d: armed = %v, want %v", i, tr.Armed(key), step.wantArmed)
		}
	}
}

func TestTrackerSharedCondition(t *testing.T) {
	tr := NewTracker()
	subs := []store.Subscription{subscription("c1", "u1"), subscription("c2", "u2")}

	got := notified(tr.Tick(subs, true))
	if len(got) != 2 {
		t.Fatalf("first tick notified %d, want 2", len(got))
	}
	if got = notified(tr.Tick(subs, true)); len(got) != 0 {
		t.Fatalf("second tick notified %v, want none", got)
	}
}

func TestTrackerNewSubscriberMidEpisode(t *testing.T) {
	tr := NewTracker()
	first := []store.Subscription{subscription("c1", "u1")}
	tr.Tick(first, true)

	// A subscriber added while conditions persist gets its own alert.
	both := append(first, subscription("c2", "u2"))
	got := notified(tr.Tick(both, true))
	if len(got) != 1 || got[0] != "c2/u2" {
		t.Fatalf("notified = %v, want [c2/u2]", got)
	}
}

func TestTrackerPrunesStaleLatches(t *testing.T) {
	tr := NewTracker()
	subs := []store.Subscription{subscription("c1", "u1")}
	tr.Tick(subs, true)

	// Subscription removed: its latch must not linger.
	tr.Tick(nil, true)
	if tr.Armed(store.Key{ChannelID: "c1", UserID: "u1"}) {
		t.Error("latch survived subscription removal")
	}

	// Re-subscribing mid-episode alerts again; the old episode state
	// is gone with the subscription.
	got := notified(tr.Tick(subs, true))
	if len(got) != 1 {
		t.Errorf("notified = %v, want one alert after re-subscribe", got)
	}
}

func TestTrackerDisarm(t *testing.T) {
	tr := NewTracker()
	subs := []store.Subscription{subscription("c1", "u1")}
	key := store.Key{ChannelID: "c1", UserID: "u1"}

	tr.Tick(subs, true)
	tr.Disarm(key)

	got := notified(tr.Tick(subs, true))
	if len(got) != 1 {
		t.Fatalf("notified = %v, want retry after disarm", got)
	}
}
