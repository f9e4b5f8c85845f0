package main

import (
	"fmt"
	"os"
	"time"

	"cfbpoll/rankings/internal/app"
	"cfbpoll/rankings/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cacheBackend string
	logLevel     string

	cfg      *config.Config
	services *app.App
)

var rootCmd = &cobra.Command{
	Use:   "rankctl",
	Short: "Operate CFB Poll rankings snapshots",
	Long: `A command-line interface for recalculating weekly rankings, reviewing and
publishing snapshots, and building the all-time leaderboards.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if cacheBackend != "" {
			loaded.CacheBackend = cacheBackend
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		cfg = loaded

		services, err = app.New(cmd.Context(), cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if services != nil {
			services.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cacheBackend, "cache-backend", "", "Override CACHE_BACKEND (postgres, redis, memory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level for operator output")
}

// setupLogger writes human-readable logs to stderr so stdout stays machine-readable
func setupLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rankctl: %s\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
