// cmd/ezmoji/main.go
package main

import (
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nhath/ezmoji/internal/logger"
)

var version = "dev"

type globalFlags struct {
	debug      bool
	configPath string
	ephemeral  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:           "ezmoji [file.html]",
		Short:         "Type :shortcodes: and get emoji",
		Long:          "ezmoji expands :name: shortcodes into emoji as you type, with a suggestion list for partial names.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if g.debug {
				p, err := xdg.StateFile("ezmoji/debug.log")
				if err != nil {
					return err
				}
				path = p
			}
			return logger.Initialize(path, g.debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, g, args)
		},
	}

	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "Write debug logs to the XDG state directory")
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default: XDG config dir)")
	root.PersistentFlags().BoolVar(&g.ephemeral, "ephemeral", false, "Keep state in memory only")

	root.AddCommand(
		newEditCmd(&g),
		newSearchCmd(&g),
		newExpandCmd(&g),
		newIndexCmd(&g),
		newSnippetsCmd(&g),
		newEnableCmd(&g, true),
		newEnableCmd(&g, false),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), "ezmoji", version)
			},
		},
	)
	return root
}
