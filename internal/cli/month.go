package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vakit/internal/api"
	"vakit/internal/cache"
	"vakit/internal/display"
	"vakit/internal/timefmt"
)

// newMonthCmd creates the month command, printing the full monthly table
// from the local cache (refreshing it first when stale).
func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show the cached prayer-time table for the current month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig(cmd)

			city := selectedCity(cfg)
			if city == nil {
				return fmt.Errorf("no city selected, run 'vakit location set' first")
			}

			c, err := cache.New(cfg.CacheDir)
			if err != nil {
				return err
			}

			now := time.Now()
			entry := c.Load()
			if !entry.Valid(now, city.ID) {
				o, _, cleanup, err := buildOrchestrator(cfg)
				if err != nil {
					return err
				}
				defer cleanup()
				if err := o.SetCity(cmd.Context(), *city); err != nil {
					return fmt.Errorf("refresh failed: %w", err)
				}
				entry = c.Load()
			}
			if entry == nil || len(entry.Records) == 0 {
				return fmt.Errorf("no monthly data available for %s", city.Name)
			}

			if FlagJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entry.Records)
			}

			renderMonth(city.Name, entry.Records, now)
			return nil
		},
	}
}

func renderMonth(cityName string, records []api.PrayerTimeRecord, now time.Time) {
	fmt.Println(display.Bold(fmt.Sprintf("%s  %s", cityName, timefmt.MonthStamp(now))))
	fmt.Println()
	fmt.Printf("  %-12s %-7s %-8s %-7s %-6s %-8s %s\n",
		"Date", "Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha")

	todayKey := timefmt.DateKey(now)
	for _, rec := range records {
		line := fmt.Sprintf("  %-12s %-7s %-8s %-7s %-6s %-8s %s",
			rec.GregorianDateShort, rec.Fajr, rec.Sunrise, rec.Dhuhr,
			rec.Asr, rec.Maghrib, rec.Isha)
		if rec.GregorianDateShort == todayKey {
			line = display.Accent(line)
		}
		fmt.Println(line)
	}
}
