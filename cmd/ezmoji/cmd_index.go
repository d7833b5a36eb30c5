package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/export"
)

func newIndexCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect and manage the cached emoji index",
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Load the index and show where it came from",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, g)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.ensureIndex(ctx)
			mapKey, entriesKey := emoji.CacheKeys(a.sources.Version)
			source := "network"
			if res.Cached {
				source = "cache"
			}
			data := pterm.TableData{
				{"Field", "Value"},
				{"outcome", res.Outcome.String()},
				{"source", source},
				{"dataset", a.sources.Version.String()},
				{"entries", itoa(a.catalog.Index().Len())},
				{"keys", itoa(a.catalog.Index().Keys())},
				{"cache keys", mapKey + ", " + entriesKey},
				{"took", res.Duration.String()},
			}
			if res.Err != nil {
				data = append(data, []string{"error", res.Err.Error()})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Drop the cached index and fetch it again",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, g)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := emoji.PurgeCache(ctx, a.kv, a.sources.Version); err != nil {
				return errors.Wrap(err, "purge cache")
			}
			spinner, _ := pterm.DefaultSpinner.Start("Fetching emoji data...")
			res := a.ensureIndex(ctx)
			switch res.Outcome {
			case emoji.Ready:
				spinner.Success("Index ready: ", res.Index.Len(), " entries")
			case emoji.Degraded:
				spinner.Warning("Mirrors unreachable, using the built-in table: ", res.Err)
			default:
				spinner.Fail("Load failed: ", res.Err)
				return res.Err
			}
			return nil
		},
	}

	var out string
	exp := &cobra.Command{
		Use:   "export",
		Short: "Write the index to a .xlsx or .csv file, or CSV on stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, g)
			if err != nil {
				return err
			}
			defer a.Close()

			if res := a.ensureIndex(ctx); res.Outcome == emoji.Failed {
				return errors.Wrap(res.Err, "load emoji index")
			}
			entries := a.catalog.Index().Entries()
			if out == "" || out == "-" {
				return export.CSV(cmd.OutOrStdout(), entries)
			}
			path, err := export.File(out, entries)
			if err != nil {
				os.Remove(path)
				return err
			}
			pterm.Success.Printf("Exported %d entries to %s\n", len(entries), path)
			return nil
		},
	}
	exp.Flags().StringVarP(&out, "output", "o", "", "Output file (.xlsx or .csv); stdout when empty")

	cmd.AddCommand(status, refresh, exp)
	return cmd
}
