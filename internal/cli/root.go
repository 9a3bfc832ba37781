// Package cli implements the vakit command tree.
package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"vakit/internal/api"
	"vakit/internal/cache"
	"vakit/internal/config"
	"vakit/internal/logging"
	"vakit/internal/orchestrator"
	"vakit/internal/widgetstore"
)

// Global flags shared across all subcommands.
var (
	FlagCacheDir   string
	FlagSharedDir  string
	FlagTimeFormat string
	FlagLogLevel   string
	FlagJSON       bool
)

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// NewRootCmd creates the root command for the vakit CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "vakit",
		Short:   "Daily prayer times from the Diyanet prayer-time service",
		Long:    "Fetches monthly prayer-time tables for a selected city, caches them locally, and publishes today's schedule for the status-line widget.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			logging.Setup(effectiveConfig(cmd).LogLevel)
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/vakit/)")
	pf.StringVar(&FlagSharedDir, "shared-dir", "", "Shared snapshot directory (default: ~/.local/share/vakit/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")

	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newLocationCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newNotifyCmd())

	return rootCmd
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > config file > defaults.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	cfg := loadedConfig
	if cfg == nil {
		empty := config.Config{}
		cfg = &empty
	}

	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "cache-dir") {
		cfg.CacheDir = FlagCacheDir
	}
	if flagWasSet(flags, root, "shared-dir") {
		cfg.SharedDir = FlagSharedDir
	}
	if flagWasSet(flags, root, "time-format") {
		cfg.TimeFormat = FlagTimeFormat
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}
	if flagWasSet(flags, root, "log-level") {
		cfg.LogLevel = FlagLogLevel
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}

	return cfg
}

// flagWasSet checks if a flag was explicitly set on either the local or
// persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// goTimeFormat maps the config time format to a Go layout.
func goTimeFormat(cfg *config.Config) string {
	if cfg.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// newClient builds the API client from environment credentials.
func newClient() *api.Client {
	return api.NewClient(api.CredentialsFromEnv())
}

// newStore picks the shared scope: Redis when configured, else the default
// file snapshot.
func newStore(cfg *config.Config) (widgetstore.Store, error) {
	if cfg.RedisAddress != "" {
		return widgetstore.NewRedisStore(cfg.RedisAddress, "", ""), nil
	}
	return widgetstore.NewFileStore(cfg.SharedDir)
}

// buildOrchestrator wires client, cache, store, and the optional MQTT
// reload signal. The returned cleanup closes the notifier connection.
func buildOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, widgetstore.Store, func(), error) {
	client := newClient()

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := newStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	o := orchestrator.New(client, c, store, log.Logger)

	cleanup := func() {}
	if cfg.MQTTBroker != "" {
		notifier, err := widgetstore.NewNotifier(cfg.MQTTBroker, "vakit-cli")
		if err != nil {
			// Reload signalling is best-effort; the widget falls back to polling.
			log.Warn().Err(err).Msg("widget reload signalling disabled")
		} else {
			o.SetNotifier(func() {
				if err := notifier.NotifyReload(); err != nil {
					log.Warn().Err(err).Msg("widget reload signal failed")
				}
			})
			cleanup = notifier.Close
		}
	}

	return o, store, cleanup, nil
}

// selectedCity converts the persisted selection into the API city type.
func selectedCity(cfg *config.Config) *api.City {
	if !cfg.HasCity() {
		return nil
	}
	city := api.City{ID: cfg.City.ID, Code: cfg.City.Code, Name: cfg.City.Name}
	if cfg.State != nil {
		city.StateID = cfg.State.ID
	}
	return &city
}
