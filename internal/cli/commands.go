package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vakit/internal/config"
	"vakit/internal/display"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change vakit settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadedConfig

			if cfg.HasCity() {
				parts := []string{cfg.City.Name}
				if cfg.State != nil {
					parts = append(parts, cfg.State.Name)
				}
				if cfg.Country != nil {
					parts = append(parts, cfg.Country.Name)
				}
				fmt.Printf("  %-14s %s\n", "location", display.Bold(strings.Join(parts, ", ")))
			} else {
				fmt.Printf("  %-14s %s\n", "location", display.Gray("(not set)"))
			}

			for _, key := range config.ValidKeys {
				value, err := cfg.Get(key)
				if err != nil {
					continue
				}
				if value == "" {
					value = display.Gray("(default)")
				}
				fmt.Printf("  %-14s %s\n", key, value)
			}
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a configuration value.\n\nValid keys: " +
			strings.Join(config.ValidKeys, ", "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadedConfig
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("%s = %s\n", args[0], args[1])
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove the configuration file, reverting to defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Reset(); err != nil {
				return err
			}
			fmt.Println("Configuration reset. Location selection was cleared too.")
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	configCmd.AddCommand(showCmd, setCmd, resetCmd, pathCmd)
	return configCmd
}

// newNotifyCmd creates the notify command, a shorthand for toggling the
// notifications setting.
func newNotifyCmd() *cobra.Command {
	notifyCmd := &cobra.Command{
		Use:   "notify <on|off>",
		Short: "Enable or disable prayer-time notifications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value string
			switch args[0] {
			case "on":
				value = "true"
			case "off":
				value = "false"
			default:
				return fmt.Errorf("expected 'on' or 'off', got %q", args[0])
			}

			cfg := loadedConfig
			if err := cfg.Set("notifications", value); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("Notifications %s.\n", args[0])
			return nil
		},
	}
	return notifyCmd
}
