package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/sarafti/sarafti/pkg/server"
	"github.com/sarafti/sarafti/pkg/services/config"
	"github.com/sarafti/sarafti/pkg/services/intake"
	"github.com/sarafti/sarafti/pkg/services/moderation"
	"github.com/sarafti/sarafti/pkg/services/scoring"
	"github.com/sarafti/sarafti/pkg/services/sweep"
	"github.com/sarafti/sarafti/pkg/store/sqlite"
	restaurantstore "github.com/sarafti/sarafti/pkg/store/sqlite/restaurant"
	submissionstore "github.com/sarafti/sarafti/pkg/store/sqlite/submission"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the community feedback API server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the YAML config file (defaults apply when omitted)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	// .env is optional; environment overrides still apply without it.
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate configuration: %w", err)
	}

	db, err := sqlite.NewDB(sqlite.Settings{DbPath: cfg.Database.Path})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	restaurants, err := restaurantstore.NewStore(db)
	if err != nil {
		return fmt.Errorf("create restaurant store: %w", err)
	}
	submissions, err := submissionstore.NewStore(db)
	if err != nil {
		return fmt.Errorf("create submission store: %w", err)
	}

	recalc := scoring.NewRecalculator(submissions, restaurants)

	intakeSvc := intake.NewService(submissions, restaurants, moderation.PassthroughClassifier{}, recalc)
	moderationSvc := moderation.NewService(submissions, recalc)

	if cfg.Sweep.Enabled {
		sweeper := sweep.New(restaurants, recalc, logger)
		if err := sweeper.Start(ctx, cfg.Sweep.Schedule); err != nil {
			return fmt.Errorf("start reconciliation sweep: %w", err)
		}
		defer sweeper.Stop()
	}

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr,
		AdminToken:      cfg.Admin.Token,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Registry:    restaurants,
			Reports:     submissions,
			Intake:      intakeSvc,
			Moderator:   moderationSvc,
			Metrics:     submissions,
			Restaurants: restaurants,
			Logger:      logger,
		},
	})

	return api.Start()
}
