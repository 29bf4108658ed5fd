package main

import (
	"fmt"
	"log/slog"
	"os"

	"modlink/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const programName = "modlink"

var (
	globalFlags = struct {
		debug bool
	}{}
	configFile string
)

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), "component", programName)
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: debug,
		Level:     level,
	}))
	slog.SetDefault(logger)
	return logger
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment")
	}

	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Community moderation server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if globalFlags.debug {
				cfg.Debug = true
			}

			logger := newLogger(cfg.Debug)
			if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "path to config file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
