// Package config holds the process-wide configuration. The value is
// built once at startup from flags, environment, and an optional .env
// file, then passed by value into every component; nothing reads the
// environment after startup.
package config

import (
	"errors"
	"time"
)

// Default coordinates point at Horace, ND.
const (
	DefaultLatitude  = 46.780404848922245
	DefaultLongitude = -96.89542777279159
)

// Config carries every tunable the bot knows about. Numeric values keep
// their defaults when unset and are deliberately not range-validated.
type Config struct {
	LocationName string  `name:"location-name" env:"LOCATION_NAME" default:"Horace, ND" help:"Human-readable location label used in messages."`
	Latitude     float64 `env:"LATITUDE" default:"46.780404848922245" help:"Location latitude."`
	Longitude    float64 `env:"LONGITUDE" default:"-96.89542777279159" help:"Location longitude."`

	AccumulationThreshold float64 `name:"accumulation-threshold" env:"ACCUMULATION_THRESHOLD" default:"2.0" help:"Snow depth in inches that triggers a blow recommendation."`
	MaxWindSpeed          float64 `name:"max-wind-speed" env:"MAX_WIND_SPEED" default:"25.0" help:"Maximum safe wind speed in mph."`

	DiscordToken string        `env:"DISCORD_TOKEN" help:"Discord bot token. Required for serve."`
	PollInterval time.Duration `name:"poll-interval" env:"POLL_INTERVAL" default:"15m" help:"How often the alert loop re-checks conditions."`

	ListenAddr        string `name:"listen-addr" env:"LISTEN_ADDR" default:":8080" help:"HTTP listen address."`
	SubscriptionsPath string `name:"subscriptions-path" env:"SUBSCRIPTIONS_PATH" default:"data/subscriptions.json" help:"Path to the subscription store file."`

	LogLevel  string `name:"log-level" env:"LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level."`
	LogFormat string `name:"log-format" env:"LOG_FORMAT" default:"text" enum:"text,json" help:"Log output format."`
}

// ErrMissingToken is returned when a command that talks to the chat
// platform starts without a bot token.
var ErrMissingToken = errors.New("DISCORD_TOKEN is required")

// RequireToken checks the credential needed by the alert service. Not
// named Validate because kong runs Validate on every command, and
// advise/show-config work without a token.
func (c Config) RequireToken() error {
	if c.DiscordToken == "" {
		return ErrMissingToken
	}
	return nil
}
