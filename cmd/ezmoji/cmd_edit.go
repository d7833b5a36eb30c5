package main

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/nhath/ezmoji/internal/config"
	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/logger"
	"github.com/nhath/ezmoji/internal/ui"
)

// scratchPage is edited when no file is given.
const scratchPage = `<html><body>
<h1>ezmoji scratch pad</h1>
<p>Type :smile: or start a name like :thu and pick from the list.</p>
<input type="text" name="subject" placeholder="subject">
<textarea name="notes"></textarea>
<div contenteditable="true" aria-label="message"><p></p></div>
</body></html>`

func newEditCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file.html]",
		Short: "Edit the fields of an HTML page in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, *g, args)
		},
	}
}

func runEdit(cmd *cobra.Command, g globalFlags, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, &g)
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		d    *doc.Document
		path string
	)
	if len(args) == 1 {
		path = args[0]
		d, err = loadPage(path)
	} else {
		d, err = doc.ParseHTML(strings.NewReader(scratchPage))
	}
	if err != nil {
		return err
	}

	model := ui.NewModel(ui.Options{
		Config:   a.cfg,
		Doc:      d,
		Path:     path,
		Session:  a.session,
		Snippets: a.snippets,
		Store:    a.kv,
		Log:      logger.Named("ui"),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if cfgPath := a.cfg.Path(); cfgPath != "" {
		w, err := config.Watch(cfgPath, config.DefaultDebounce, logger.Named("config"), func(c *config.Config) {
			p.Send(ui.ConfigReloadedMsg{Config: c})
		})
		if err != nil {
			a.log.Warnw("config hot reload disabled", "error", err)
		} else {
			defer w.Stop()
		}
	}

	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "run TUI")
	}
	return nil
}

// loadPage parses path, or starts from the scratch page when it does not exist yet.
func loadPage(path string) (*doc.Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return doc.ParseHTML(strings.NewReader(scratchPage))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return doc.ParseHTML(f)
}
