package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/jonboulle/clockwork"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/kpederson/snowbot/internal/advisor"
	"github.com/kpederson/snowbot/internal/alert"
	"github.com/kpederson/snowbot/internal/api"
	"github.com/kpederson/snowbot/internal/config"
	"github.com/kpederson/snowbot/internal/notify"
	"github.com/kpederson/snowbot/internal/observability"
	"github.com/kpederson/snowbot/internal/openmeteo"
	"github.com/kpederson/snowbot/internal/render"
	"github.com/kpederson/snowbot/internal/store"
)

type cli struct {
	Config config.Config `embed:""`

	Serve      serveCmd      `cmd:"" default:"withargs" help:"Run the alert service and HTTP API."`
	Advise     adviseCmd     `cmd:"" help:"Fetch current conditions, print the advisory, and exit."`
	ShowConfig showConfigCmd `cmd:"" name:"show-config" help:"Print the effective configuration and exit."`
}

type serveCmd struct{}

func (serveCmd) Run(cfg *config.Config) error {
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting snowbot",
		"location", cfg.LocationName,
		"poll_interval", cfg.PollInterval.String(),
		"listen_addr", cfg.ListenAddr,
	)

	clock := clockwork.NewRealClock()
	weather := openmeteo.NewClient(cfg.Latitude, cfg.Longitude)
	subs := store.NewFileStore(cfg.SubscriptionsPath)
	notifier := notify.NewDiscord(cfg.DiscordToken)

	params := advisor.Params{
		ThresholdInches: cfg.AccumulationThreshold,
		MaxSafeWindMPH:  cfg.MaxWindSpeed,
	}
	loop := alert.NewLoop(weather, subs, notifier, params, cfg.LocationName, cfg.PollInterval, clock, logger)
	server := api.NewServer(weather, subs, *cfg, clock, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go loop.Run(ctx)

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

type adviseCmd struct{}

func (adviseCmd) Run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	weather := openmeteo.NewClient(cfg.Latitude, cfg.Longitude)
	snap, err := weather.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch weather: %w", err)
	}

	params := advisor.Params{
		ThresholdInches: cfg.AccumulationThreshold,
		MaxSafeWindMPH:  cfg.MaxWindSpeed,
	}
	report := advisor.Evaluate(*snap, params, clockwork.NewRealClock().Now())
	fmt.Println(render.Advisory(report, cfg.LocationName))
	return nil
}

type showConfigCmd struct{}

func (showConfigCmd) Run(cfg *config.Config) error {
	fmt.Println(render.ConfigSummary(*cfg))
	return nil
}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("snowbot"),
		kong.Description("Snowblower advisory bot: watches the forecast and tells subscribers when to clear the driveway."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&app.Config); err != nil {
		fmt.Fprintln(os.Stderr, "snowbot:", err)
		os.Exit(1)
	}
}
