// Package config is the explicit process configuration. Everything comes from
// the environment once, at startup; nothing reads os.Getenv ad hoc.
package config

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
)

// ErrConfiguration marks fatal configuration problems. These abort before any
// remote interaction happens.
var ErrConfiguration = errors.New("invalid configuration")

type Config struct {
	// Portal credentials. Only required on attempt paths (book, daemon);
	// ledger-only commands work without them.
	Username string `envconfig:"PARKING_USERNAME"`
	Password string `envconfig:"PARKING_PASSWORD"`

	PortalBaseURL string        `envconfig:"PORTAL_BASE_URL"`
	StepTimeout   time.Duration `envconfig:"PORTAL_STEP_TIMEOUT" default:"30s"`
	PollInterval  time.Duration `envconfig:"PORTAL_POLL_INTERVAL" default:"500ms"`

	// LedgerPath is the bookings file, kept alongside the installation.
	LedgerPath string `envconfig:"LEDGER_PATH" default:"bookings.json"`

	// DaemonSchedule is a cron expression for the daemon subcommand.
	DaemonSchedule string `envconfig:"DAEMON_SCHEDULE" default:"0 7 * * *"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Mark(errors.Wrap(err, "process environment"), ErrConfiguration)
	}
	return cfg, nil
}

// ValidateCredentials checks the fields a booking attempt cannot run without.
func (c Config) ValidateCredentials() error {
	if c.Username == "" || c.Password == "" {
		return errors.Mark(
			errors.New("PARKING_USERNAME and PARKING_PASSWORD are required"), ErrConfiguration)
	}
	return nil
}
