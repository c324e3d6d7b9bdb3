// Package api serves the advisory and subscription HTTP surface plus
// health and metrics endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kpederson/snowbot/internal/advisor"
	"github.com/kpederson/snowbot/internal/alert"
	"github.com/kpederson/snowbot/internal/config"
	"github.com/kpederson/snowbot/internal/render"
	"github.com/kpederson/snowbot/internal/store"
)

type SubscriptionStore interface {
	Add(sub store.Subscription) (bool, error)
	Remove(key store.Key) error
	List() ([]store.Subscription, error)
}

type Server struct {
	source alert.WeatherSource
	subs   SubscriptionStore
	cfg    config.Config
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewServer(source alert.WeatherSource, subs SubscriptionStore, cfg config.Config, clock clockwork.Clock, logger *slog.Logger) *Server {
	return &Server{
		source: source,
		subs:   subs,
		cfg:    cfg,
		clock:  clock,
		logger: logger.With("component", "api"),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/advisory", s.handleAdvisory)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/subscriptions", s.handleSubscriptions)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "addr", s.cfg.ListenAddr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

type advisoryResponse struct {
	Report  advisor.Report `json:"report"`
	Message string         `json:"message"`
}

func (s *Server) handleAdvisory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, err := s.source.Fetch(r.Context())
	if err != nil {
		s.logger.Error("advisory fetch", "error", err)
		http.Error(w, "weather data unavailable", http.StatusBadGateway)
		return
	}

	report := advisor.Evaluate(*snap, s.params(), s.clock.Now())
	writeJSON(w, advisoryResponse{
		Report:  report,
		Message: render.Advisory(report, s.cfg.LocationName),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{
		"location_name":          s.cfg.LocationName,
		"latitude":               s.cfg.Latitude,
		"longitude":              s.cfg.Longitude,
		"accumulation_threshold": s.cfg.AccumulationThreshold,
		"max_wind_speed":         s.cfg.MaxWindSpeed,
		"poll_interval":          s.cfg.PollInterval.String(),
	})
}

type subscriptionRequest struct {
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
}

func (s *Server) handleSubscriptions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listSubscriptions(w)
	case http.MethodPost:
		s.addSubscription(w, r)
	case http.MethodDelete:
		s.removeSubscription(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) listSubscriptions(w http.ResponseWriter) {
	subs, err := s.subs.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if subs == nil {
		subs = []store.Subscription{}
	}
	writeJSON(w, subs)
}

func (s *Server) addSubscription(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSubscription(w, r)
	if !ok {
		return
	}

	created, err := s.subs.Add(store.Subscription{
		ChannelID: req.ChannelID,
		UserID:    req.UserID,
		CreatedAt: s.clock.Now().UTC(),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		s.logger.Info("subscription added", "channel", req.ChannelID, "user", req.UserID)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]bool{"created": created})
}

func (s *Server) removeSubscription(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSubscription(w, r)
	if !ok {
		return
	}

	key := store.Key{ChannelID: req.ChannelID, UserID: req.UserID}
	if err := s.subs.Remove(key); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "subscription not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Info("subscription removed", "subscription", key.String())
	writeJSON(w, map[string]bool{"removed": true})
}

func decodeSubscription(w http.ResponseWriter, r *http.Request) (subscriptionRequest, bool) {
	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return req, false
	}
	if req.ChannelID == "" || req.UserID == "" {
		http.Error(w, "channel_id and user_id are required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) params() advisor.Params {
	return advisor.Params{
		ThresholdInches: s.cfg.AccumulationThreshold,
		MaxSafeWindMPH:  s.cfg.MaxWindSpeed,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
