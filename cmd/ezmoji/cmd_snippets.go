package main

import (
	"bytes"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nhath/ezmoji/internal/snippet"
)

func newSnippetsCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snippets",
		Aliases: []string{"snippet"},
		Short:   "Manage text snippets",
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list [filter]",
		Short: "List snippets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			items := a.snippets.List()
			if len(args) == 1 {
				items = snippet.Filter(args[0], items)
			}
			if asJSON {
				return printJSON(cmd, items)
			}
			if len(items) == 0 {
				pterm.Info.Println("No snippets")
				return nil
			}
			data := pterm.TableData{{"ID", "Title", "Mode", "Auto-run", "Preview"}}
			for _, s := range items {
				data = append(data, []string{shortID(s.ID), s.Title, string(s.Mode), strconv.FormatBool(s.AutoRun), firstLine(s.Code)})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	var (
		mode    string
		autoRun bool
		file    string
	)
	add := &cobra.Command{
		Use:   "add <title> [code]",
		Short: "Add a snippet; code comes from the argument, --file or stdin",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := snippet.ParseMode(mode)
			if err != nil {
				return err
			}
			code, err := snippetCode(cmd, args, file)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			s := snippet.New(args[0], m, code)
			s.AutoRun = autoRun
			s = a.snippets.Add(s)
			pterm.Success.Printf("Added %q (%s)\n", s.Title, s.ID)
			return nil
		},
	}
	add.Flags().StringVar(&mode, "mode", string(snippet.ModeText), "text or template")
	add.Flags().BoolVar(&autoRun, "auto-run", false, "Insert automatically when the editor opens")
	add.Flags().StringVarP(&file, "file", "f", "", "Read code from a file")

	rm := &cobra.Command{
		Use:   "rm <id-prefix>",
		Short: "Remove a snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := findSnippet(a.snippets, args[0])
			if err != nil {
				return err
			}
			if err := a.snippets.Remove(s.ID); err != nil {
				return err
			}
			pterm.Success.Printf("Removed %q\n", s.Title)
			return nil
		},
	}

	exp := &cobra.Command{
		Use:   "export [file.yaml]",
		Short: "Write snippets as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 0 {
				return snippet.Export(cmd.OutOrStdout(), a.snippets.List())
			}
			f, err := os.Create(args[0])
			if err != nil {
				return errors.Wrap(err, "create export file")
			}
			defer f.Close()
			if err := snippet.Export(f, a.snippets.List()); err != nil {
				return err
			}
			pterm.Success.Printf("Exported %d snippets to %s\n", a.snippets.Len(), args[0])
			return nil
		},
	}

	imp := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Add snippets from YAML; existing ids are updated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, "open %s", args[0])
			}
			defer f.Close()
			items, err := snippet.Import(f)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			added, updated := 0, 0
			for _, s := range items {
				if _, ok := a.snippets.Get(s.ID); ok {
					if err := a.snippets.Update(s); err != nil {
						return err
					}
					updated++
					continue
				}
				a.snippets.Add(s)
				added++
			}
			pterm.Success.Printf("Imported %d new, %d updated\n", added, updated)
			return nil
		},
	}

	cmd.AddCommand(list, add, rm, exp, imp)
	return cmd
}

func snippetCode(cmd *cobra.Command, args []string, file string) (string, error) {
	switch {
	case len(args) == 2:
		return args[1], nil
	case file != "":
		b, err := os.ReadFile(file)
		return string(b), errors.Wrapf(err, "read %s", file)
	default:
		var b bytes.Buffer
		if _, err := b.ReadFrom(cmd.InOrStdin()); err != nil {
			return "", errors.Wrap(err, "read stdin")
		}
		return b.String(), nil
	}
}

func findSnippet(r *snippet.Repository, prefix string) (snippet.Snippet, error) {
	var found []snippet.Snippet
	for _, s := range r.List() {
		if strings.HasPrefix(s.ID, prefix) {
			found = append(found, s)
		}
	}
	switch len(found) {
	case 0:
		return snippet.Snippet{}, errors.Wrap(snippet.ErrUnknown, prefix)
	case 1:
		return found[0], nil
	default:
		return snippet.Snippet{}, errors.Newf("%q matches %d snippets", prefix, len(found))
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	if r := []rune(line); len(r) > 40 {
		return string(r[:37]) + "..."
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func itoa(n int) string { return strconv.Itoa(n) }
