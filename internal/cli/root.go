package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Cardstack simulates a stacked card deck with elastic scrolling",
		Long:         `Cardstack lays out a stack of cards along one scroll axis, drives it with touch, fling and dismiss gestures, and renders the resulting frames as JSON, SVG, text or raster images.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "configuration file (TOML)")

	root.AddCommand(c.planCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
