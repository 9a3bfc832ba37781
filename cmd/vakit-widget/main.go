// vakit-widget prints a single status-line segment from the shared snapshot
// published by the vakit CLI. It never talks to the network: missing or
// unreadable snapshots degrade to placeholder times so the status bar always
// renders something.
//
// Intended for tmux/polybar style widgets:
//
//	set -g status-right '#(vakit-widget --format short-name-and-remaining)'
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"vakit/internal/api"
	"vakit/internal/schedule"
	"vakit/internal/widgetstore"
)

var version = "dev"

func main() {
	sharedDir := flag.String("shared-dir", "", "shared snapshot directory (default: ~/.local/share/vakit/)")
	redisAddr := flag.String("redis", "", "read the snapshot from Redis at this address instead of the file store")
	format := flag.String("format", schedule.FormatNameAndRemaining, "output format mode or a custom Go template")
	timeFormat := flag.String("time-format", "24h", "clock format: 12h or 24h")
	showCity := flag.Bool("city", false, "prefix the output with the city name")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("vakit-widget", version)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap := readSnapshot(ctx, *sharedDir, *redisAddr)

	layout := "15:04"
	if *timeFormat == "12h" {
		layout = "3:04 PM"
	}

	fmt.Println(render(snap, time.Now(), *format, layout, *showCity))
}

// readSnapshot reads the published snapshot, returning nil on any failure.
func readSnapshot(ctx context.Context, sharedDir, redisAddr string) *widgetstore.Snapshot {
	var store widgetstore.Store
	if redisAddr != "" {
		store = widgetstore.NewRedisStore(redisAddr, "", "")
	} else {
		fs, err := widgetstore.NewFileStore(sharedDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "vakit-widget:", err)
			return nil
		}
		store = fs
	}

	snap, err := store.Read(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vakit-widget:", err)
		return nil
	}
	return snap
}

// render produces the widget segment for the given snapshot and clock.
func render(snap *widgetstore.Snapshot, now time.Time, mode, timeLayout string, showCity bool) string {
	cityName := "-"
	var today api.PrayerTimeRecord
	var tomorrow *api.PrayerTimeRecord

	if snap != nil && snap.Today != nil {
		today = *snap.Today
		tomorrow = snap.Tomorrow
		if snap.CityName != "" {
			cityName = snap.CityName
		}
	} else {
		today = api.PlaceholderRecord(now)
	}

	prayers := schedule.Timeline(today, tomorrow, now, now.Location())
	next := schedule.NextPrayer(prayers, now)

	var out string
	if next == nil {
		// After Isha with no next-day record available.
		out = "last prayer --:--"
	} else {
		out = schedule.FormatOutput(*next, now, mode, timeLayout)
	}

	if showCity {
		out = cityName + " " + out
	}
	return out
}
