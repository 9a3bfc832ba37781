package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"vakit/internal/api"
	"vakit/internal/config"
	"vakit/internal/display"
	"vakit/internal/schedule"
)

// todayOutput is the --json shape of the default command.
type todayOutput struct {
	City    string               `json:"city"`
	Date    string               `json:"date"`
	Hijri   string               `json:"hijri,omitempty"`
	Times   api.PrayerTimeRecord `json:"times"`
	Current string               `json:"current,omitempty"`
	Next    string               `json:"next,omitempty"`
	Warning string               `json:"warning,omitempty"`
}

// runToday is the root command action: refresh if needed, then render
// today's schedule.
func runToday(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	city := selectedCity(cfg)
	if city == nil {
		fmt.Println("No city selected yet. Pick one with:")
		fmt.Println("  vakit location countries")
		fmt.Println("  vakit location set <countryID> <stateID> <cityID>")
		return nil
	}

	o, store, cleanup, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := o.SetCity(cmd.Context(), *city); err != nil {
		// A failed refresh still publishes a fallback record; render that
		// and surface the message below instead of aborting.
		log.Warn().Err(err).Msg("refresh failed, showing fallback data")
	}

	rec := o.Today()
	if rec == nil {
		ph := api.PlaceholderRecord(time.Now())
		rec = &ph
	}

	var tomorrow *api.PrayerTimeRecord
	if snap, err := store.Read(cmd.Context()); err == nil && snap != nil {
		tomorrow = snap.Tomorrow
	}

	now := time.Now()
	prayers := schedule.Timeline(*rec, tomorrow, now, time.Local)
	current := schedule.CurrentPrayer(prayers, now)
	next := schedule.NextPrayer(prayers, now)

	if FlagJSON {
		out := todayOutput{
			City:    city.Name,
			Date:    rec.GregorianDateShort,
			Hijri:   rec.HijriDateShort,
			Times:   *rec,
			Warning: o.LastError(),
		}
		if current != nil {
			out.Current = current.Name
		}
		if next != nil {
			out.Next = next.Name
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	renderToday(cfg, city.Name, rec, prayers, current, next, now, o.LastError())
	return nil
}

// renderToday prints the day's table with the current prayer in bold and
// the next one highlighted.
func renderToday(cfg *config.Config, cityName string, rec *api.PrayerTimeRecord, prayers []schedule.Prayer, current, next *schedule.Prayer, now time.Time, warning string) {
	layout := goTimeFormat(cfg)

	header := fmt.Sprintf("%s  %s", cityName, rec.GregorianDateShort)
	if rec.HijriDateShort != "" {
		header += display.Gray("  (" + rec.HijriDateShort + ")")
	}
	fmt.Println(display.Bold(header))
	fmt.Println()

	for _, p := range prayers {
		if p.Time.YearDay() != now.YearDay() && p.Time.After(now) {
			// Next-day Fajr from the extended timeline; keep the table to
			// today's six rows.
			continue
		}
		line := fmt.Sprintf("  %-8s %s", p.Name, p.Time.Format(layout))
		switch {
		case next != nil && p.Name == next.Name && p.Time.Equal(next.Time):
			line = display.Accent(line + "  <- next")
		case current != nil && p.Name == current.Name && p.Time.Equal(current.Time):
			line = display.Bold(line)
		case p.Time.Before(now):
			line = display.Dim(line)
		}
		fmt.Println(line)
	}

	if next != nil {
		remaining := schedule.TimeRemaining(*next, now)
		fmt.Println()
		fmt.Printf("  %s in %s\n", next.Name, schedule.FormatRemaining(remaining))
	}
	if warning != "" {
		fmt.Println()
		fmt.Println(display.Gray("  note: " + warning))
	}
}
