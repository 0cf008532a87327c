package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/parking-scheduler/internal/config"
	"github.com/example/parking-scheduler/internal/ledger"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store := ledger.NewStore(cfg.LedgerPath, newLogger(cfg))

			for _, r := range store.Load() {
				last := "-"
				if r.LastAttempt != nil {
					last = r.LastAttempt.String()
				}
				fmt.Fprintf(os.Stdout, "date=%s status=%s created=%s last_attempt=%s msg=%q\n",
					r.ParkingDate, r.Status, r.CreatedAt, last, r.AttemptMessage)
			}
			return nil
		},
	}
}
