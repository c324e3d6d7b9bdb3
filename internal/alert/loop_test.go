package alert

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kpederson/snowbot/internal/advisor"
	"github.com/kpederson/snowbot/internal/notify"
	"github.com/kpederson/snowbot/internal/store"
)

type fakeWeather struct {
	snap *advisor.Snapshot
	err  error
}

func (f *fakeWeather) Fetch(ctx context.Context) (*advisor.Snapshot, error) {
	return f.snap, f.err
}

type fakeSubs struct {
	subs    []store.Subscription
	removed []store.Key
}

func (f *fakeSubs) List() ([]store.Subscription, error) { return f.subs, nil }

func (f *fakeSubs) Remove(key store.Key) error {
	f.removed = append(f.removed, key)
	for i, sub := range f.subs {
		if sub.Key() == key {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type recordingNotifier struct {
	calls []string
	err   error
}

func (r *recordingNotifier) Notify(ctx context.Context, channelID, content string) error {
	r.calls = append(r.calls, channelID)
	return r.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testParams = advisor.Params{ThresholdInches: 2.0, MaxSafeWindMPH: 25.0}

// blowNowSnapshot accumulates over threshold in the past 24 hours with
// calm wind, so Evaluate returns the blow-now state.
func blowNowSnapshot(now time.Time) *advisor.Snapshot {
	f := func(v float64) *float64 { return &v }
	snap := &advisor.Snapshot{WindSpeed: 5, WindBearing: 180, Snowfall: 0.2}
	for i := -24; i <= 24; i++ {
		snap.Hourly = append(snap.Hourly, advisor.Sample{
			Time:        now.Add(time.Duration(i) * time.Hour),
			Snowfall:    f(0.2),
			WindSpeed:   f(5),
			WindBearing: f(180),
		})
	}
	return snap
}

func clearSnapshot(now time.Time) *advisor.Snapshot {
	f := func(v float64) *float64 { return &v }
	snap := &advisor.Snapshot{WindSpeed: 5, WindBearing: 180}
	for i := -24; i <= 24; i++ {
		snap.Hourly = append(snap.Hourly, advisor.Sample{
			Time:        now.Add(time.Duration(i) * time.Hour),
			Snowfall:    f(0),
			WindSpeed:   f(5),
			WindBearing: f(180),
		})
	}
	return snap
}

func TestTickDispatchesOncePerEpisode(t *testing.T) {
	clock := clockwork.NewFakeClock()
	weather := &fakeWeather{snap: blowNowSnapshot(clock.Now())}
	subs := &fakeSubs{subs: []store.Subscription{{ChannelID: "c1", UserID: "u1"}}}
	notifier := &recordingNotifier{}
	loop := NewLoop(weather, subs, notifier, testParams, "Fargo", time.Minute, clock, discard())

	loop.Tick(context.Background())
	loop.Tick(context.Background())
	if len(notifier.calls) != 1 {
		t.Fatalf("notified %d times, want 1", len(notifier.calls))
	}

	// Episode ends, then starts again: one more alert.
	weather.snap = clearSnapshot(clock.Now())
	loop.Tick(context.Background())
	weather.snap = blowNowSnapshot(clock.Now())
	loop.Tick(context.Background())
	if len(notifier.calls) != 2 {
		t.Fatalf("notified %d times, want 2", len(notifier.calls))
	}
}

func TestTickFetchFailureLeavesLatchesAlone(t *testing.T) {
	clock := clockwork.NewFakeClock()
	weather := &fakeWeather{snap: blowNowSnapshot(clock.Now())}
	subs := &fakeSubs{subs: []store.Subscription{{ChannelID: "c1", UserID: "u1"}}}
	notifier := &recordingNotifier{}
	loop := NewLoop(weather, subs, notifier, testParams, "Fargo", time.Minute, clock, discard())

	loop.Tick(context.Background())

	weather.err = errors.New("upstream down")
	loop.Tick(context.Background())
	if !loop.tracker.Armed(store.Key{ChannelID: "c1", UserID: "u1"}) {
		t.Error("failed fetch disturbed an armed latch")
	}

	// Recovery within the same episode stays silent.
	weather.err = nil
	loop.Tick(context.Background())
	if len(notifier.calls) != 1 {
		t.Fatalf("notified %d times, want 1", len(notifier.calls))
	}
}

func TestTickPrunesUnreachableTarget(t *testing.T) {
	clock := clockwork.NewFakeClock()
	weather := &fakeWeather{snap: blowNowSnapshot(clock.Now())}
	subs := &fakeSubs{subs: []store.Subscription{{ChannelID: "gone", UserID: "u1"}}}
	notifier := &recordingNotifier{err: notify.ErrUnreachable}
	loop := NewLoop(weather, subs, notifier, testParams, "Fargo", time.Minute, clock, discard())

	loop.Tick(context.Background())

	want := store.Key{ChannelID: "gone", UserID: "u1"}
	if len(subs.removed) != 1 || subs.removed[0] != want {
		t.Fatalf("removed = %v, want [%v]", subs.removed, want)
	}
	if loop.tracker.Armed(want) {
		t.Error("latch left armed for pruned subscription")
	}
}

func TestTickRetriesFailedDispatch(t *testing.T) {
	clock := clockwork.NewFakeClock()
	weather := &fakeWeather{snap: blowNowSnapshot(clock.Now())}
	subs := &fakeSubs{subs: []store.Subscription{{ChannelID: "c1", UserID: "u1"}}}
	notifier := &recordingNotifier{err: errors.New("rate limited")}
	loop := NewLoop(weather, subs, notifier, testParams, "Fargo", time.Minute, clock, discard())

	loop.Tick(context.Background())
	notifier.err = nil
	loop.Tick(context.Background())

	if len(notifier.calls) != 2 {
		t.Fatalf("notified %d times, want retry on tick after failure", len(notifier.calls))
	}
	loop.Tick(context.Background())
	if len(notifier.calls) != 2 {
		t.Fatalf("notified %d times, want no dispatch once armed", len(notifier.calls))
	}
}

func TestRunTicksOnInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	weather := &fakeWeather{snap: clearSnapshot(clock.Now())}
	subs := &fakeSubs{}
	notifier := &recordingNotifier{}
	loop := NewLoop(weather, subs, notifier, testParams, "Fargo", time.Minute, clock, discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	// Run ticks immediately, then once per interval.
	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Minute)
	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatal(err)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancel")
	}
}
