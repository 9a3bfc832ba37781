package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"vakit/internal/api"
	"vakit/internal/config"
	"vakit/internal/display"
)

// newLocationCmd creates the location command group: browse the service's
// country/state/city hierarchy and persist a selection.
func newLocationCmd() *cobra.Command {
	locationCmd := &cobra.Command{
		Use:   "location",
		Short: "Browse available locations and select a city",
	}

	locationCmd.AddCommand(newCountriesCmd())
	locationCmd.AddCommand(newStatesCmd())
	locationCmd.AddCommand(newCitiesCmd())
	locationCmd.AddCommand(newLocationSetCmd())

	return locationCmd
}

func newCountriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List countries known to the prayer-time service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			countries, err := newClient().FetchCountries(cmd.Context())
			if err != nil {
				return err
			}
			sort.Slice(countries, func(i, j int) bool { return countries[i].Name < countries[j].Name })

			if FlagJSON {
				return printJSON(cmd, countries)
			}
			fmt.Printf("  %-6s %-5s %s\n", "ID", "Code", "Country")
			for _, c := range countries {
				fmt.Printf("  %-6d %-5s %s\n", c.ID, c.Code, c.Name)
			}
			return nil
		},
	}
}

func newStatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states <countryID>",
		Short: "List states/regions of a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			countryID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid country ID %q", args[0])
			}

			states, err := newClient().FetchStates(cmd.Context(), countryID)
			if err != nil {
				return err
			}
			sort.Slice(states, func(i, j int) bool { return states[i].Name < states[j].Name })

			if FlagJSON {
				return printJSON(cmd, states)
			}
			fmt.Printf("  %-6s %s\n", "ID", "State")
			for _, s := range states {
				fmt.Printf("  %-6d %s\n", s.ID, s.Name)
			}
			return nil
		},
	}
}

func newCitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities <stateID>",
		Short: "List cities of a state/region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stateID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid state ID %q", args[0])
			}

			cities, err := newClient().FetchCities(cmd.Context(), stateID)
			if err != nil {
				return err
			}
			sort.Slice(cities, func(i, j int) bool { return cities[i].Name < cities[j].Name })

			if FlagJSON {
				return printJSON(cmd, cities)
			}
			fmt.Printf("  %-6s %s\n", "ID", "City")
			for _, c := range cities {
				fmt.Printf("  %-6d %s\n", c.ID, c.Name)
			}
			return nil
		},
	}
}

func newLocationSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <countryID> <stateID> <cityID>",
		Short: "Select a city and fetch its prayer times",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 3)
			for i, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid ID %q", arg)
				}
				ids[i] = id
			}
			countryID, stateID, cityID := ids[0], ids[1], ids[2]

			client := newClient()
			country, state, city, err := resolveSelection(cmd.Context(), client, countryID, stateID, cityID)
			if err != nil {
				return err
			}

			cfg := loadedConfig
			cfg.SetLocation(
				config.Place{ID: country.ID, Code: country.Code, Name: country.Name},
				config.Place{ID: state.ID, Name: state.Name},
				config.Place{ID: city.ID, Code: city.Code, Name: city.Name},
			)
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save selection: %w", err)
			}

			fmt.Printf("Selected %s\n", display.Bold(fmt.Sprintf("%s, %s, %s", city.Name, state.Name, country.Name)))

			o, _, cleanup, err := buildOrchestrator(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := o.SetCity(cmd.Context(), *city); err != nil {
				// The selection is already persisted; the first refresh can be
				// retried with 'vakit refresh'.
				log.Warn().Err(err).Msg("initial fetch for the new city failed")
				return nil
			}
			fmt.Println("Prayer times fetched and cached.")
			return nil
		},
	}
}

// resolveSelection validates the three IDs against the live hierarchy and
// returns the named entries, so the config stores names and not just numbers.
func resolveSelection(ctx context.Context, client *api.Client, countryID, stateID, cityID int) (*api.Country, *api.State, *api.City, error) {
	countries, err := client.FetchCountries(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	var country *api.Country
	for i := range countries {
		if countries[i].ID == countryID {
			country = &countries[i]
			break
		}
	}
	if country == nil {
		return nil, nil, nil, fmt.Errorf("unknown country ID %d", countryID)
	}

	states, err := client.FetchStates(ctx, countryID)
	if err != nil {
		return nil, nil, nil, err
	}
	var state *api.State
	for i := range states {
		if states[i].ID == stateID {
			state = &states[i]
			break
		}
	}
	if state == nil {
		return nil, nil, nil, fmt.Errorf("country %s has no state with ID %d", country.Name, stateID)
	}

	cities, err := client.FetchCities(ctx, stateID)
	if err != nil {
		return nil, nil, nil, err
	}
	var city *api.City
	for i := range cities {
		if cities[i].ID == cityID {
			city = &cities[i]
			break
		}
	}
	if city == nil {
		return nil, nil, nil, fmt.Errorf("state %s has no city with ID %d", state.Name, cityID)
	}

	return country, state, city, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
