package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/cmd/cli/commands"
	"github.com/jakechorley/volunteer-platform/internal/config"
	"github.com/jakechorley/volunteer-platform/pkg/clients/eventsclient"
	"github.com/jakechorley/volunteer-platform/pkg/postgres"
	"github.com/jakechorley/volunteer-platform/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "volunteerctl",
		Short: "Volunteer platform - review workflow and activity recommendations",
		Long:  `Serve the volunteer platform API and moderate organizations, activities, applications and volunteers from the command line.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.ReviewsCmd(app))
	rootCmd.AddCommand(commands.RecommendCmd(app))
	rootCmd.AddCommand(commands.DigestCmd(app))

	if err := rootCmd.Execute(); err != nil {
		closeApp()
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and event producer
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.New(logging.Options{Env: env, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Database, err = postgres.NewDB(app.Ctx, app.Cfg.Database.URL, postgres.PoolOptions{
		MaxConns:     app.Cfg.Database.MaxConns,
		MinConns:     app.Cfg.Database.MinConns,
		ConnectRetry: app.Cfg.Database.ConnectRetry,
	}, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	app.Events = eventsclient.NewProducer(eventsclient.Config{
		Brokers:  app.Cfg.Kafka.Brokers,
		Topic:    app.Cfg.Kafka.Topic,
		Username: app.Cfg.Kafka.Username,
		Password: app.Cfg.Kafka.Password,
		TLS:      app.Cfg.Kafka.TLS,
	}, app.Logger)

	return nil
}

func closeApp() {
	if app.Events != nil {
		if err := app.Events.Close(); err != nil {
			app.Logger.Warn("Failed to close event producer", zap.Error(err))
		}
		app.Events = nil
	}
	if app.Database != nil {
		app.Database.Close()
		app.Database = nil
	}
	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
}
