package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/parking-scheduler/internal/config"
	"github.com/example/parking-scheduler/internal/dateutil"
	"github.com/example/parking-scheduler/internal/ledger"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <DD-MM-YYYY>",
		Short: "Add a parking date to the ledger (or reset a failed one to pending)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateutil.Parse(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			store := ledger.NewStore(cfg.LedgerPath, log)

			records, result := ledger.Add(store.Load(), date, time.Now())
			if err := store.Save(records); err != nil {
				return err
			}

			switch result {
			case ledger.Added:
				fmt.Fprintf(os.Stdout, "added %s as pending\n", args[0])
			case ledger.Reset:
				fmt.Fprintf(os.Stdout, "reset %s to pending\n", args[0])
			default:
				fmt.Fprintf(os.Stdout, "%s already tracked, nothing to do\n", args[0])
			}
			return nil
		},
	}
}
