package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/example/parking-scheduler/internal/booking"
	"github.com/example/parking-scheduler/internal/config"
	"github.com/example/parking-scheduler/internal/dateutil"
	"github.com/example/parking-scheduler/internal/ledger"
	"github.com/example/parking-scheduler/internal/portal"
)

func newBookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "book",
		Short: "Run today's booking attempt, if one is due",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateCredentials(); err != nil {
				return err
			}
			log := newLogger(cfg)

			res, err := newAttempt(cfg, log).Run(context.Background())
			if err != nil {
				return err
			}
			if !res.Attempted {
				fmt.Fprintln(os.Stdout, "no booking due today")
				return nil
			}
			fmt.Fprintf(os.Stdout, "attempt for %s finished: %s\n", dateutil.Format(res.Date), res.Outcome)
			if res.Outcome != booking.OutcomeBooked {
				return errors.Newf("booking for %s was not confirmed (outcome=%s)", dateutil.Format(res.Date), res.Outcome)
			}
			return nil
		},
	}
}

func newAttempt(cfg config.Config, log *slog.Logger) *booking.Attempt {
	return &booking.Attempt{
		Store: ledger.NewStore(cfg.LedgerPath, log),
		NewSession: portal.NewSessionFactory(portal.Config{
			BaseURL:      cfg.PortalBaseURL,
			StepTimeout:  cfg.StepTimeout,
			PollInterval: cfg.PollInterval,
			Logger:       log,
		}),
		Creds: booking.Credentials{Username: cfg.Username, Password: cfg.Password},
		Log:   log,
		Now:   time.Now,
	}
}
