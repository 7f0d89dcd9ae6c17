package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-StudioBooking/internal/app"
	"github.com/m04kA/SMC-StudioBooking/internal/config"
	"github.com/m04kA/SMC-StudioBooking/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "studio-booking",
		Short:         "Booking availability and scheduling service for studios",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE:  runMigrate,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to the TOML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// setup загружает конфигурацию и инициализирует логгер
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Info("Configuration loaded from %s", configPath)
	return cfg, log, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting SMC-StudioBooking...")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize application: %v", err)
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("Failed to release resources: %v", err)
		}
	}()

	return application.Run(ctx)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations require the %q driver, got %q", config.DriverPostgres, cfg.Database.Driver)
	}

	db, err := app.OpenPostgres(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	migrator, err := migrations.NewMigrator(db, log)
	if err != nil {
		return err
	}

	return migrator.Up(cmd.Context())
}
