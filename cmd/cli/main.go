package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sarafti/sarafti/pkg/runtime/terminal"
	"github.com/sarafti/sarafti/pkg/services/config"
	"github.com/sarafti/sarafti/pkg/services/scoring"
	"github.com/sarafti/sarafti/pkg/store/sqlite"
	restaurantstore "github.com/sarafti/sarafti/pkg/store/sqlite/restaurant"
	submissionstore "github.com/sarafti/sarafti/pkg/store/sqlite/submission"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("SARAFTI_CONFIG"))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
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

	cli := terminal.NewCLI(terminal.Options{
		Restaurants: restaurants,
		Submissions: submissions,
		Recalc:      scoring.NewRecalculator(submissions, restaurants),
		Output:      os.Stdout,
	})

	return cli.Execute()
}
