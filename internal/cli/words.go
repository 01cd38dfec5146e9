package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/wordwise/internal/collection"
	"github.com/example/wordwise/pkg/models"
)

func (c *cli) searchCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "search <word>",
		Short: "Look a word up in the dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			result, err := c.rt.Service.Search(cmd.Context(), args[0])
			printLookup(out, result)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					return nil
				}
				return err
			}
			if !save {
				return nil
			}

			ws, err := c.workspace(cmd)
			if err != nil {
				return err
			}
			entry, err := ws.Save(cmd.Context(), result)
			if err != nil && !errors.Is(err, models.ErrPersistence) {
				return err
			}
			fmt.Fprintf(out, "\nSaved %q as %s / %s / %s\n", entry.Word,
				models.DisplayValue(string(entry.Categories.Difficulty)),
				models.DisplayValue(string(entry.Categories.Topic)),
				models.DisplayValue(string(entry.Categories.WordType)))
			return err
		},
	}
	cmd.Flags().BoolVarP(&save, "save", "s", false, "Save the word to your collection")
	return cmd
}

func (c *cli) wotdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wotd",
		Short: "Show the word of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printLookup(cmd.OutOrStdout(), c.rt.Service.WordOfTheDay())
			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	var (
		opts  collection.ListOptions
		facet string
		sort  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the saved words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if facet != "" {
				f, err := models.ParseFacet(facet)
				if err != nil {
					return err
				}
				if err := models.ValidateCategory(f, opts.Value); err != nil {
					return err
				}
				opts.Facet = f
			}
			switch collection.SortBy(sort) {
			case collection.SortDateAdded, collection.SortAlphabetical, collection.SortReviewCount:
				opts.SortBy = collection.SortBy(sort)
			default:
				return fmt.Errorf("unknown sort %q", sort)
			}

			ws, err := c.workspace(cmd)
			if err != nil {
				return err
			}
			words := ws.List(opts)
			printWords(cmd.OutOrStdout(), words)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Match word or definition")
	cmd.Flags().StringVar(&facet, "facet", "", "Filter facet: difficulty, topic or word_type")
	cmd.Flags().StringVar(&opts.Value, "value", "", "Filter value within the facet")
	cmd.Flags().StringVar(&sort, "sort", string(collection.SortDateAdded), "date_added, alphabetical or review_count")
	return cmd
}

func (c *cli) storyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "story",
		Short: "Write a short practice text with your newest words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.workspace(cmd)
			if err != nil {
				return err
			}
			story, err := ws.Story(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), story)
			return nil
		},
	}
}

func printLookup(w io.Writer, r models.LookupResult) {
	fmt.Fprintf(w, "%s  %s\n", r.Word, r.Phonetic)
	for _, m := range r.Meanings {
		fmt.Fprintf(w, "\n%s\n", m.PartOfSpeech)
		for i, d := range m.Definitions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, d.Definition)
			if d.Example != "" {
				fmt.Fprintf(w, "     e.g. %s\n", d.Example)
			}
		}
	}
}

func printWords(w io.Writer, words []models.WordEntry) {
	if len(words) == 0 {
		fmt.Fprintln(w, "No words found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WORD\tDIFFICULTY\tTOPIC\tTYPE\tREVIEWS\tMASTERY\tADDED")
	for _, e := range words {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			e.Word,
			models.DisplayValue(string(e.Categories.Difficulty)),
			models.DisplayValue(string(e.Categories.Topic)),
			models.DisplayValue(string(e.Categories.WordType)),
			e.ReviewCount,
			masteryBar(e.Difficulty),
			e.DateAdded.Format("2006-01-02"),
		)
	}
	tw.Flush()
}

func masteryBar(score int) string {
	score = max(0, min(score, models.MaxMastery))
	return strings.Repeat("●", score) + strings.Repeat("○", models.MaxMastery-score)
}
