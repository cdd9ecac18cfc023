package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"weather-dashboard/api"
	"weather-dashboard/config"
	"weather-dashboard/dashboard"
	"weather-dashboard/logger"
	"weather-dashboard/models"
	"weather-dashboard/render"
)

var (
	// Global flags
	configPath    string
	storageDriver string

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "weatherdash",
	Short:         "Weather dashboard backed by OpenWeatherMap",
	Long:          `Look up current weather, a 5-day forecast and air quality by city or position, and keep favorite and recent cities.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// flushLogs runs once the command finishes, including on failure
var flushLogs = logger.Close

func loadConfig() error {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if storageDriver != "" {
		loaded.Storage.Driver = storageDriver
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Configure(loaded.Logging.Level, loaded.Logging.Development)
	if envErr != nil {
		logger.GetLogger().Debugw("No .env file loaded", "error", envErr)
	}

	cfg = loaded
	return nil
}

// withApp wires the dashboard, runs fn and releases storage
func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Warnw("Failed to close storage", "error", err)
		}
	}()
	return fn(a)
}

// printReport writes the board as text. A rendered failure is already in
// the report, so it is returned only to set the exit code.
func printReport(w io.Writer, a *app, lookupErr error) error {
	if err := render.Text(w, a.board.Snapshot()); err != nil {
		return err
	}
	var viewErr *dashboard.ViewError
	if errors.As(lookupErr, &viewErr) {
		return fmt.Errorf("%s", viewErr.Message)
	}
	return lookupErr
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}

		return withApp(cmd.Context(), func(a *app) error {
			if err := a.dash.Init(cmd.Context(), cfg.Dashboard.DefaultCity); err != nil {
				a.log.Warnw("Initial lookup failed", "city", cfg.Dashboard.DefaultCity, "error", err)
			}

			server := api.NewServer(a.dash, a.board, a.metrics, a.log, cfg.Server)

			errChan := make(chan error, 1)
			go func() {
				errChan <- server.Start()
			}()

			// Set up channel for graceful shutdown
			shutdownChan := make(chan os.Signal, 1)
			signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(shutdownChan)

			select {
			case err := <-errChan:
				return err
			case sig := <-shutdownChan:
				a.log.Infow("Shutting down", "signal", sig.String())
			}

			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			a.log.Infow("Shutdown complete")
			return nil
		})
	},
}

var weatherCmd = &cobra.Command{
	Use:   "weather <city>",
	Short: "Look up the weather for a city",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if units, _ := cmd.Flags().GetString("units"); units != "" {
			if _, err := models.ParseUnit(units); err != nil {
				return err
			}
			cfg.Dashboard.Units = units
		}

		return withApp(cmd.Context(), func(a *app) error {
			if err := a.dash.LoadFavorites(cmd.Context()); err != nil {
				a.log.Warnw("Failed to load favorites", "error", err)
			}
			err := a.dash.GetWeather(cmd.Context(), args[0])
			return printReport(cmd.OutOrStdout(), a, err)
		})
	},
}

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Look up the weather at a position",
	Long:  `Look up the weather at the given coordinates, or at the position approximated from the public IP address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		useIP, _ := flags.GetBool("ip")
		switch {
		case useIP:
			cfg.Location.Provider = "ip"
		case flags.Changed("lat") || flags.Changed("lon"):
			lat, _ := flags.GetFloat64("lat")
			lon, _ := flags.GetFloat64("lon")
			cfg.Location.Provider = "static"
			cfg.Location.Latitude = lat
			cfg.Location.Longitude = lon
			cfg.Location.Denied = false
		}

		return withApp(cmd.Context(), func(a *app) error {
			err := a.dash.GetWeatherByLocation(cmd.Context())
			return printReport(cmd.OutOrStdout(), a, err)
		})
	},
}

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Unit system commands",
}

var unitsToggleCmd = &cobra.Command{
	Use:   "toggle <city>",
	Short: "Look up a city, then again in the other unit system",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			out := cmd.OutOrStdout()
			if err := printReport(out, a, a.dash.GetWeather(cmd.Context(), args[0])); err != nil {
				return err
			}

			unit, err := a.dash.ToggleUnit(cmd.Context())
			fmt.Fprintf(out, "\n--- switched to %s ---\n\n", unit)
			return printReport(out, a, err)
		})
	},
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Favorite city commands",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite cities",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			list, err := a.dash.Favorites(cmd.Context())
			if err != nil {
				return err
			}
			for _, city := range list {
				fmt.Fprintln(cmd.OutOrStdout(), city)
			}
			return nil
		})
	},
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <city>",
	Short: "Add or remove a favorite city",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			added, err := a.dash.ToggleFavorite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites\n", args[0])
			}
			return nil
		})
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <city>",
	Short: "Look up a city and add it to the favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			// the city becomes current even when the lookup fails
			if err := a.dash.GetWeather(cmd.Context(), args[0]); err != nil {
				a.log.Warnw("Lookup failed", "city", args[0], "error", err)
			}

			added, err := a.dash.AddCurrentToFavorites(cmd.Context())
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already a favorite\n", args[0])
			}
			return nil
		})
	},
}

var recentsCmd = &cobra.Command{
	Use:   "recents",
	Short: "List recently viewed cities",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			list, err := a.dash.Recents(cmd.Context())
			if err != nil {
				return err
			}
			for _, city := range list {
				fmt.Fprintln(cmd.OutOrStdout(), city)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&storageDriver, "storage", "", "Storage driver override (memory, sqlite, postgres, redis)")

	serveCmd.Flags().Int("port", 0, "Port to run the server on (default from config)")
	weatherCmd.Flags().String("units", "", "Unit system, metric or imperial (default from config)")
	locateCmd.Flags().Float64("lat", 0, "Latitude in decimal degrees")
	locateCmd.Flags().Float64("lon", 0, "Longitude in decimal degrees")
	locateCmd.Flags().Bool("ip", false, "Approximate the position from the public IP address")
	locateCmd.MarkFlagsMutuallyExclusive("ip", "lat")
	locateCmd.MarkFlagsMutuallyExclusive("ip", "lon")

	unitsCmd.AddCommand(unitsToggleCmd)
	favoritesCmd.AddCommand(favoritesListCmd, favoritesToggleCmd, favoritesAddCmd)
	rootCmd.AddCommand(serveCmd, weatherCmd, locateCmd, unitsCmd, favoritesCmd, recentsCmd)
}

// execute runs the root command with args and flushes the logger
func execute(args []string) error {
	defer func() { _ = flushLogs() }()

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func main() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	if err := execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
