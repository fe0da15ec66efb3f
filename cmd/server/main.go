package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pikachu/internal/app"
	"pikachu/internal/config"
	"pikachu/internal/logging"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "pikachu",
		Short:         "Pikachu API server",
		Long:          "Proxies NASA, PokeAPI, horoscope and astronomy APIs and serves the CRUD backends",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE:  migrate,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", ".env", "config file, read when present")
	flags.String("listen", ":5000", "HTTP listen address")
	flags.String("db", "pikachu.db", "sqlite file or postgres DSN")
	flags.String("log-level", "info", "log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-file", logging.LogConsole, "log file path, or console")
	flags.String("static", "static", "directory with the built frontend")

	rootCmd.AddCommand(migrateCmd)
}

// load reads configuration and initialises logging. Only flags the user set
// override the config file and environment.
func load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath, changedFlags(cmd))
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := logging.InitLog(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to initialize log: %w", err)
	}
	return cfg, nil
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := load(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Errorf("close database: %v", err)
		}
	}()

	log.Infof("Moon phase mode: %s", cfg.MoonPhaseMode)
	return a.Run(ctx)
}

func migrate(cmd *cobra.Command, _ []string) error {
	cfg, err := load(cmd)
	if err != nil {
		return err
	}
	if err := app.Migrate(cfg); err != nil {
		return err
	}
	log.Info("Database schema is up to date")
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
