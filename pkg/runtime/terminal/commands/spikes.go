package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/sarafti/sarafti/pkg/adapters"
	"github.com/sarafti/sarafti/pkg/services/trend"
	"github.com/spf13/cobra"
)

func NewSpikesCmd(deps Deps) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "spikes",
		Short: "Detect days with unusually high submission volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("days must be a positive integer")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			since := time.Now().UTC().AddDate(0, 0, -days)
			counts, err := deps.Submissions.DailyCounts(ctx, since)
			if err != nil {
				return fmt.Errorf("fetch daily counts: %w", err)
			}

			report := trend.DetectSpikes(adapters.MapDailyCountsStoreToDomain(counts))
			return deps.Reporter.Spikes(report)
		},
	}

	cmd.Flags().IntVar(&days, "days", 14, "Lookback window in days")
	return cmd
}
