package export

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/sarafti/sarafti/pkg/models/domain"
)

const (
	severeValue   = "Severe"
	elevatedValue = "Elevated"
	watchValue    = "Watch"
	lowValue      = "Low"
)

var (
	severeColor   = color.New(color.FgRed, color.Bold)
	elevatedColor = color.New(color.FgYellow, color.Bold)
	watchColor    = color.New(color.FgGreen)
	lowColor      = color.New(color.FgHiBlack)
	spikeColor    = color.New(color.FgRed, color.Bold)
)

// Reporter renders aggregation results as console tables.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

// RestaurantStats prints the identity line and the computed aggregate,
// issue ranking included.
func (r *Reporter) RestaurantStats(restaurant domain.Restaurant, result domain.AggregateResult) error {
	fmt.Fprintf(r.writer, "%s (%s, %s)\n", restaurant.Name, restaurant.City, restaurant.Cuisine)
	fmt.Fprintf(r.writer, "Score: %s %s  Submissions: %d",
		fmtFloat(result.Score), scoreLabel(result.Score), result.TotalSubmissions)
	if result.AverageRating != nil {
		fmt.Fprintf(r.writer, "  Avg rating: %.1f", *result.AverageRating)
	}
	fmt.Fprintln(r.writer)

	if len(result.TopIssues) == 0 {
		fmt.Fprintln(r.writer, "No community reports yet.")
		return nil
	}

	table := tablewriter.NewWriter(r.writer)
	table.Header([]string{"Rank", "Issue", "Count", "Share"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, issue := range result.TopIssues {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			issue.Category,
			strconv.Itoa(issue.Count),
			fmt.Sprintf("%d%%", issue.Percentage),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// Trend prints one row per day with reports.
func (r *Reporter) Trend(points []domain.TrendPoint) error {
	if len(points) == 0 {
		fmt.Fprintln(r.writer, "No eligible reports.")
		return nil
	}

	table := tablewriter.NewWriter(r.writer)
	table.Header([]string{"Date", "Rate", "Submissions"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range points {
		data = append(data, []string{p.Date, fmtFloat(p.Rate), strconv.Itoa(p.Submissions)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// Spikes prints the daily series with days above the threshold marked.
func (r *Reporter) Spikes(report domain.SpikeReport) error {
	fmt.Fprintf(r.writer, "Spike threshold: %s\n", fmtFloat(report.Threshold))
	if len(report.Series) == 0 {
		fmt.Fprintln(r.writer, "No submissions in the window.")
		return nil
	}

	spikeDays := make(map[string]bool, len(report.Spikes))
	for _, s := range report.Spikes {
		spikeDays[s.Date] = true
	}

	table := tablewriter.NewWriter(r.writer)
	table.Header([]string{"Date", "Submissions", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range report.Series {
		status := ""
		if spikeDays[p.Date] {
			status = spikeColor.Sprint("SPIKE")
		}
		data = append(data, []string{p.Date, strconv.Itoa(p.Count), status})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// Restaurants prints the directory listing with stored scores.
func (r *Reporter) Restaurants(restaurants []domain.Restaurant) error {
	if len(restaurants) == 0 {
		fmt.Fprintln(r.writer, "No restaurants registered.")
		return nil
	}

	table := tablewriter.NewWriter(r.writer)
	table.Header([]string{"ID", "Name", "City", "Score", "Label", "Submissions"})

	var data [][]string
	for _, restaurant := range restaurants {
		data = append(data, []string{
			restaurant.ID,
			restaurant.Name,
			restaurant.City,
			fmtFloat(restaurant.Score),
			scoreLabel(restaurant.Score),
			strconv.Itoa(restaurant.TotalSubmissions),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// scoreLabel maps a community score to a colored severity label.
func scoreLabel(score float64) string {
	switch {
	case score >= 60:
		return severeColor.Sprint(severeValue)
	case score >= 35:
		return elevatedColor.Sprint(elevatedValue)
	case score >= 15:
		return watchColor.Sprint(watchValue)
	default:
		return lowColor.Sprint(lowValue)
	}
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
