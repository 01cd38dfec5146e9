package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/wordwise/internal/review"
	"github.com/example/wordwise/pkg/models"
)

func (c *cli) reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <facet> <value>",
		Short: "Run a flashcard review over one category",
		Long: `Run a flashcard review over every word in one category, in random order.

Facets: difficulty (beginner, intermediate, advanced), topic (business, academic,
technical, daily_life) and word_type (common, academic, specialized).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			facet, err := models.ParseFacet(args[0])
			if err != nil {
				return err
			}
			ws, err := c.workspace(cmd)
			if err != nil {
				return err
			}

			card, err := ws.StartReview(facet, strings.ToLower(args[1]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())
			for {
				printCard(out, card)
				fmt.Fprint(out, "Press Enter to show the definition (q to quit): ")
				line, ok := readLine(in)
				if !ok || line == "q" {
					return stopReview(out, ws.CancelReview())
				}

				card, err = ws.Reveal()
				if err != nil {
					return err
				}
				printCard(out, card)

				correct, quit := askKnown(out, in)
				if quit {
					return stopReview(out, ws.CancelReview())
				}
				outcome, err := ws.Answer(cmd.Context(), correct)
				if err != nil && !errors.Is(err, models.ErrPersistence) {
					return err
				}
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
				}
				if outcome.Summary != nil {
					printSummary(out, *outcome.Summary)
					return nil
				}
				if card, err = ws.CurrentCard(); err != nil {
					return err
				}
			}
		},
	}
}

func askKnown(out io.Writer, in *bufio.Scanner) (correct, quit bool) {
	for {
		fmt.Fprint(out, "Did you know it? [y/n/q]: ")
		line, ok := readLine(in)
		if !ok {
			return false, true
		}
		switch line {
		case "y", "yes":
			return true, false
		case "n", "no":
			return false, false
		case "q", "quit":
			return false, true
		}
	}
}

func readLine(in *bufio.Scanner) (string, bool) {
	if !in.Scan() {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(in.Text())), true
}

func stopReview(out io.Writer, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nReview stopped. Answers given so far are saved.")
	return nil
}

func printCard(out io.Writer, card review.Card) {
	fmt.Fprintf(out, "\n[%d/%d] %s %s\n", card.Position+1, card.Total, card.Word.Word, card.Word.Phonetic)
	if card.Revealed {
		fmt.Fprintf(out, "  (%s) %s\n", card.Word.PartOfSpeech, card.Word.Definition)
		if card.Word.Example != "" {
			fmt.Fprintf(out, "  e.g. %s\n", card.Word.Example)
		}
	}
}

func printSummary(out io.Writer, s review.Summary) {
	fmt.Fprintf(out, "\nReview complete: %s = %s\n", s.Facet.Label(), models.DisplayValue(s.Value))
	fmt.Fprintf(out, "Correct: %d of %d (%d%%) in %s\n", s.Correct, s.Total, s.Percentage, s.Duration.Round(time.Second))
}
