// Package alert runs the periodic subscription alert loop: fetch,
// evaluate, and notify each subscriber exactly once per blow-now
// episode.
package alert

import "github.com/kpederson/snowbot/internal/store"

// Decision is the outcome of one tick for one subscription.
type Decision struct {
	Subscription store.Subscription
	Notify       bool
}

// Tracker holds the per-subscription alert latch. A latch arms when a
// notification is dispatched and resets silently once conditions
// clear, so a persisting episode alerts once.
//
// Latches live only in process memory. After a restart every latch is
// unarmed, so an episode that spans the restart produces at most one
// duplicate notification. Accepted limitation, not worth persisting.
type Tracker struct {
	armed map[store.Key]bool
}

func NewTracker() *Tracker {
	return &Tracker{armed: make(map[store.Key]bool)}
}

// Tick advances every latch one step for a single shared condition and
// returns who should be notified. Latches without a matching
// subscription are pruned.
func (t *Tracker) Tick(subs []store.Subscription, shouldAlert bool) []Decision {
	seen := make(map[store.Key]bool, len(subs))
	decisions := make([]Decision, 0, len(subs))

	for _, sub := range subs {
		key := sub.Key()
		seen[key] = true

		notify := false
		switch {
		case !t.armed[key] && shouldAlert:
			t.armed[key] = true
			notify = true
		case t.armed[key] && !shouldAlert:
			delete(t.armed, key)
		}
		decisions = append(decisions, Decision{Subscription: sub, Notify: notify})
	}

	for key := range t.armed {
		if !seen[key] {
			delete(t.armed, key)
		}
	}
	return decisions
}

// Disarm resets one latch. Called when a dispatch fails so the next
// tick tries again.
func (t *Tracker) Disarm(key store.Key) {
	delete(t.armed, key)
}

// Armed reports whether a subscription has been notified this episode.
func (t *Tracker) Armed(key store.Key) bool {
	return t.armed[key]
}
