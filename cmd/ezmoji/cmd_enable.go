package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nhath/ezmoji/internal/store"
)

func newEnableCmd(g *globalFlags, on bool) *cobra.Command {
	use, short := "enable", "Turn shortcode expansion on"
	if !on {
		use, short = "disable", "Turn shortcode expansion off"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := store.SetEnabled(cmd.Context(), a.kv, on); err != nil {
				return err
			}
			pterm.Success.Printf("Shortcodes %sd\n", use)
			return nil
		},
	}
}
