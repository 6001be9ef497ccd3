package terminal

import (
	"io"
	"os"

	"github.com/sarafti/sarafti/pkg/runtime/terminal/commands"
	"github.com/sarafti/sarafti/pkg/runtime/terminal/export"
	"github.com/sarafti/sarafti/pkg/services/scoring"
	restaurantstore "github.com/sarafti/sarafti/pkg/store/sqlite/restaurant"
	submissionstore "github.com/sarafti/sarafti/pkg/store/sqlite/submission"
	"github.com/spf13/cobra"
)

// CLI is the command-line surface over the aggregation engine.
type CLI struct {
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI.
type Options struct {
	Restaurants restaurantstore.Store
	Submissions submissionstore.Store
	Recalc      *scoring.Recalculator
	Output      io.Writer
}

func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	deps := commands.Deps{
		Restaurants: opts.Restaurants,
		Submissions: opts.Submissions,
		Recalc:      opts.Recalc,
		Reporter:    export.NewReporter(opts.Output),
	}

	rootCmd := &cobra.Command{
		Use:   "sarafti",
		Short: "Community feedback score tool",
	}
	rootCmd.AddCommand(commands.NewRestaurantsCmd(deps))
	rootCmd.AddCommand(commands.NewStatsCmd(deps))
	rootCmd.AddCommand(commands.NewTrendCmd(deps))
	rootCmd.AddCommand(commands.NewSpikesCmd(deps))
	rootCmd.AddCommand(commands.NewRecalcCmd(deps))
	rootCmd.AddCommand(commands.NewSeedCmd(deps))

	return &CLI{rootCmd: rootCmd}
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}
