package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/example/parking-scheduler/internal/booking"
	"github.com/example/parking-scheduler/internal/config"
)

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run resident and fire the booking attempt on the daily schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateCredentials(); err != nil {
				return err
			}
			log := newLogger(cfg)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			attempt := newAttempt(cfg, log)
			c := cron.New()
			if _, err := c.AddFunc(cfg.DaemonSchedule, func() {
				res, err := attempt.Run(ctx)
				switch {
				case err != nil:
					log.Error("attempt crashed", "err", err)
				case !res.Attempted:
					log.Info("nothing due, sleeping until next schedule")
				case res.Outcome == booking.OutcomeBooked:
					log.Info("booked", "message", res.Message)
				default:
					log.Warn("attempt did not book", "outcome", string(res.Outcome), "message", res.Message)
				}
			}); err != nil {
				return err
			}

			log.Info("daemon started", "schedule", cfg.DaemonSchedule)
			c.Start()
			<-ctx.Done()
			<-c.Stop().Done()
			return nil
		},
	}
}
