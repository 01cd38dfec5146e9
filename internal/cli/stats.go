package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/wordwise/internal/stats"
	"github.com/example/wordwise/pkg/models"
)

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics and insights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.workspace(cmd)
			if err != nil {
				return err
			}
			report := ws.Stats()
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func (c *cli) progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress [facet]",
		Short: "Show review progress per category value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			facets := models.Facets
			if len(args) == 1 {
				f, err := models.ParseFacet(args[0])
				if err != nil {
					return err
				}
				facets = []models.Facet{f}
			}
			ws, err := c.workspace(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			overall, err := ws.Progress("", "")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Overall: %d words, %d reviewed (%d%%), %d need review\n",
				overall.Total, overall.Reviewed, overall.Percent(), overall.NeedsReview)
			for _, f := range facets {
				fmt.Fprintf(out, "\n%s\n", f.Label())
				for _, v := range f.Values() {
					p, err := ws.Progress(f, v)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "  %-14s %3d words  %3d%% reviewed  %3d need review\n",
						models.DisplayValue(v), p.Total, p.Percent(), p.NeedsReview)
				}
			}
			return nil
		},
	}
}

func printReport(out io.Writer, r stats.Report) {
	fmt.Fprintf(out, "Total words:     %d\n", r.TotalWords)
	fmt.Fprintf(out, "Reviewed:        %d (%d%%)\n", r.ReviewedWords, r.ReviewRate)
	fmt.Fprintf(out, "Mastered:        %d (%d%%)\n", r.MasteredWords, r.MasteryRate)
	fmt.Fprintf(out, "Advanced words:  %d\n", r.AdvancedWords)
	fmt.Fprintf(out, "Total reviews:   %d\n", r.TotalReviews)
	fmt.Fprintf(out, "Added this week: %d\n", r.RecentWords)
	fmt.Fprintf(out, "Daily average:   %g\n", r.DailyAverage)

	fmt.Fprintf(out, "\nWords added, last %d days\n", stats.ActivityDays)
	for _, d := range r.Activity {
		fmt.Fprintf(out, "  %s %s %d\n", d.Date, strings.Repeat("#", d.Count), d.Count)
	}

	for _, fb := range r.Categories {
		fmt.Fprintf(out, "\n%s\n", fb.Facet.Label())
		if len(fb.Values) == 0 {
			fmt.Fprintln(out, "  (none)")
		}
		for _, v := range fb.Values {
			fmt.Fprintf(out, "  %-14s %3d  %3d%%\n", models.DisplayValue(v.Value), v.Count, v.Percentage)
		}
	}

	if insights := stats.Insights(r); len(insights) > 0 {
		fmt.Fprintln(out, "\nInsights")
		for _, line := range insights {
			fmt.Fprintf(out, "  - %s\n", line)
		}
	}
}
