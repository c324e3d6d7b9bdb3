package alert

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kpederson/snowbot/internal/advisor"
	"github.com/kpederson/snowbot/internal/metrics"
	"github.com/kpederson/snowbot/internal/notify"
	"github.com/kpederson/snowbot/internal/render"
	"github.com/kpederson/snowbot/internal/store"
)

// WeatherSource fetches one snapshot per call.
type WeatherSource interface {
	Fetch(ctx context.Context) (*advisor.Snapshot, error)
}

// SubscriptionSource lists and prunes subscriptions.
type SubscriptionSource interface {
	List() ([]store.Subscription, error)
	Remove(key store.Key) error
}

// Loop re-checks conditions on a fixed interval and dispatches alerts
// through the tracker. All state mutation happens on this loop or on
// request handlers that never run concurrently with it.
type Loop struct {
	source   WeatherSource
	subs     SubscriptionSource
	notifier notify.Notifier
	tracker  *Tracker
	params   advisor.Params
	location string
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
}

func NewLoop(source WeatherSource, subs SubscriptionSource, notifier notify.Notifier, params advisor.Params, location string, interval time.Duration, clock clockwork.Clock, logger *slog.Logger) *Loop {
	return &Loop{
		source:   source,
		subs:     subs,
		notifier: notifier,
		tracker:  NewTracker(),
		params:   params,
		location: location,
		interval: interval,
		clock:    clock,
		logger:   logger.With("component", "alert-loop"),
	}
}

// Run ticks immediately, then on every interval until the context is
// cancelled. There is no other cancellation: a failed tick ends early
// and the next scheduled tick retries.
func (l *Loop) Run(ctx context.Context) {
	l.Tick(ctx)

	ticker := l.clock.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("alert loop stopping")
			return
		case <-ticker.Chan():
			l.Tick(ctx)
		}
	}
}

// Tick runs one pass: list subscriptions, fetch weather, advance every
// latch against the shared blow-now condition, dispatch where the latch
// fired. A fetch failure aborts the tick without touching any latch.
func (l *Loop) Tick(ctx context.Context) {
	subs, err := l.subs.List()
	if err != nil {
		// Unreadable store degrades to an empty set for this tick.
		l.logger.Error("read subscriptions", "error", err)
		subs = nil
	}

	snap, err := l.source.Fetch(ctx)
	if err != nil {
		metrics.AlertTicksTotal.WithLabelValues("fetch_error").Inc()
		l.logger.Error("weather fetch failed, aborting tick", "error", err)
		return
	}

	report := advisor.Evaluate(*snap, l.params, l.clock.Now())
	shouldAlert := report.State == advisor.StateBlowNow
	l.logger.Debug("tick evaluated",
		"state", string(report.State),
		"accumulation", report.PastAccumulation,
		"wind_mph", report.WindSpeed,
		"subscriptions", len(subs),
	)

	var message string
	if shouldAlert {
		message = render.Alert(report, l.location)
	}

	for _, d := range l.tracker.Tick(subs, shouldAlert) {
		if !d.Notify {
			continue
		}
		l.dispatch(ctx, d.Subscription, message)
	}
	metrics.AlertTicksTotal.WithLabelValues("ok").Inc()
}

func (l *Loop) dispatch(ctx context.Context, sub store.Subscription, message string) {
	key := sub.Key()
	err := l.notifier.Notify(ctx, sub.ChannelID, message)
	if err == nil {
		metrics.NotificationsTotal.WithLabelValues("ok").Inc()
		l.logger.Info("alert dispatched", "subscription", key.String())
		return
	}

	if errors.Is(err, notify.ErrUnreachable) {
		metrics.NotificationsTotal.WithLabelValues("unreachable").Inc()
		l.logger.Warn("target unreachable, pruning subscription", "subscription", key.String(), "error", err)
		if rmErr := l.subs.Remove(key); rmErr != nil && !errors.Is(rmErr, store.ErrNotFound) {
			l.logger.Error("prune subscription", "subscription", key.String(), "error", rmErr)
		}
		metrics.SubscriptionsPrunedTotal.Inc()
		l.tracker.Disarm(key)
		return
	}

	metrics.NotificationsTotal.WithLabelValues("error").Inc()
	l.logger.Error("notify failed, will retry next tick", "subscription", key.String(), "error", err)
	// Leave the latch unarmed so the next tick re-dispatches.
	l.tracker.Disarm(key)
}
