package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newRefreshCmd creates the refresh command. It forces the normal refresh
// path (cache-first, fetch on miss) and reports what happened; use it from
// cron or after restoring network connectivity.
func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh today's prayer times and the widget snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig(cmd)

			city := selectedCity(cfg)
			if city == nil {
				return fmt.Errorf("no city selected, run 'vakit location set' first")
			}

			o, _, cleanup, err := buildOrchestrator(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := o.SetCity(cmd.Context(), *city); err != nil {
				return fmt.Errorf("refresh failed: %w", err)
			}

			rec := o.Today()
			if rec != nil {
				fmt.Printf("Refreshed %s for %s\n", city.Name, rec.GregorianDateShort)
			}
			return nil
		},
	}
}
