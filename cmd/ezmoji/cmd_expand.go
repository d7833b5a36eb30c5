package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/engine"
	"github.com/nhath/ezmoji/internal/surface"
)

func newExpandCmd(g *globalFlags) *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "expand [file]",
		Short: "Replace complete :shortcodes: in text read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, g)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.session.Enabled() {
				pterm.Warning.Println("Shortcodes are disabled; run `ezmoji enable`")
			}
			if res := a.ensureIndex(ctx); res.Outcome != emoji.Ready {
				a.log.Warnw("expanding without the full index", "outcome", res.Outcome.String(), "error", res.Err)
			}

			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrapf(err, "open %s", args[0])
				}
				defer f.Close()
				in = f
			}

			if html {
				d, err := doc.ParseHTML(in)
				if err != nil {
					return err
				}
				expandPage(a.session, d)
				return d.WriteHTML(cmd.OutOrStdout())
			}

			raw, err := io.ReadAll(in)
			if err != nil {
				return errors.Wrap(err, "read input")
			}
			fmt.Fprint(cmd.OutOrStdout(), a.session.ExpandAll(string(raw)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "Treat input as HTML and expand field values and editable regions")
	return cmd
}

// expandPage expands triggers inside every field value and every text node of
// an editable region. Static text is left alone.
func expandPage(s *engine.Session, d *doc.Document) {
	d.Root.Walk(func(n *doc.Node) bool {
		switch {
		case n.IsField():
			if sf, ok := surface.Classify(n, nil); ok && sf.Kind() == surface.KindField {
				n.SetValue(s.ExpandAll(n.Value()))
			}
		case n.IsText() && n.Parent != nil && n.Parent.IsContentEditable():
			if out := s.ExpandAll(n.Data()); out != n.Data() {
				n.SetData(out)
			}
		}
		return true
	})
}
