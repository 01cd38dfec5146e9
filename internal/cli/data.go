package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/wordwise/internal/excel"
	"github.com/example/wordwise/internal/export"
)

func (c *cli) exportCmd() *cobra.Command {
	var (
		format string
		out    string
		filter string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection",
		Long:  "Export the collection as json, backup, csv, flashcards, studysheet or xlsx.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			flt, err := export.ParseFilter(filter)
			if err != nil {
				return err
			}
			ws, err := c.workspace(cmd)
			if err != nil {
				return err
			}

			if out == "-" {
				return ws.Export(cmd.OutOrStdout(), f, flt)
			}
			if out == "" {
				out = export.Filename(f, c.rt.Service.Now())
			}
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := ws.Export(file, f, flt); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatJSON), "Export format")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, - for stdout (default: dated file name)")
	cmd.Flags().StringVar(&filter, "filter", "", "Study sheet filter as facet:value")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var (
		column   string
		sheet    string
		startRow int
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore a JSON backup or import a word list from .xlsx or .csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ws, err := c.workspace(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch strings.ToLower(filepath.Ext(path)) {
			case ".json":
				file, err := os.Open(path)
				if err != nil {
					return err
				}
				defer file.Close()
				n, err := ws.ImportBackup(cmd.Context(), file)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Restored %d words\n", n)
				return nil
			case ".xlsx", ".csv":
				cfg := excel.DefaultImportConfig()
				cfg.FilePath = path
				cfg.WordColumn = column
				cfg.SheetName = sheet
				cfg.StartRow = startRow
				result, err := ws.ImportWordList(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Processed %d words: %d saved, %d already saved, %d not found, %d empty rows skipped\n",
					result.TotalProcessed, result.Created, result.Duplicates, result.NotFound, result.Skipped)
				for _, e := range result.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", e)
				}
				return nil
			}
			return fmt.Errorf("unsupported file type %q (want .json, .xlsx or .csv)", filepath.Ext(path))
		},
	}
	cmd.Flags().StringVar(&column, "column", "A", "Word list column")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Workbook sheet (default: first sheet)")
	cmd.Flags().IntVar(&startRow, "start-row", 2, "First row to read (1-based)")
	return cmd
}

func (c *cli) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show your preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.workspace(cmd)
			if err != nil {
				return err
			}
			s := ws.Settings()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "theme:         %s\n", s.Theme)
			fmt.Fprintf(out, "reviewMode:    %s\n", s.ReviewMode)
			fmt.Fprintf(out, "dailyGoal:     %d\n", s.DailyGoal)
			fmt.Fprintf(out, "notifications: %t\n", s.Notifications)
			fmt.Fprintf(out, "autoPlay:      %t\n", s.AutoPlay)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.workspace(cmd)
			if err != nil {
				return err
			}
			if _, err := ws.UpdateSetting(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	})
	return cmd
}

func (c *cli) clearDataCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear-data",
		Short: "Delete every saved word, category count and preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "This deletes all your words. Type 'yes' to continue: ")
				in := bufio.NewScanner(cmd.InOrStdin())
				if !in.Scan() || strings.TrimSpace(in.Text()) != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}
			ws, err := c.workspace(cmd)
			if err != nil {
				return err
			}
			if err := ws.ClearData(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
