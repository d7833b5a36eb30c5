package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/rank"
)

func newSearchCmd(g *globalFlags) *cobra.Command {
	var (
		asJSON bool
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank emoji for a partial shortcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, g)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.ensureIndex(ctx)
			if res.Outcome == emoji.Failed {
				return errors.Wrap(res.Err, "load emoji index")
			}
			if res.Outcome == emoji.Degraded && !asJSON {
				pterm.Warning.Printf("Using the built-in table: %v\n", res.Err)
			}

			query := strings.Trim(args[0], ":")
			hits := rank.Top(query, a.catalog.Index().Entries(), limit)
			if asJSON {
				return printJSON(cmd, hits)
			}
			if len(hits) == 0 {
				pterm.Info.Printf("No emoji match %q\n", query)
				return nil
			}
			return entryTable(hits).Render()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", rank.MaxResults, "Maximum results")
	return cmd
}

func entryTable(entries []emoji.Entry) *pterm.TablePrinter {
	data := pterm.TableData{{"Emoji", "Shortcode", "Aliases"}}
	for _, e := range entries {
		data = append(data, []string{e.Value, ":" + e.Primary + ":", strings.Join(e.Aliases, ", ")})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal JSON")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
