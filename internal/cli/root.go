// Package cli implements the deckbuild command-line interface.
//
// The commands assemble presentation decks from construction scripts
// (TOML, YAML or JSON), write them as PPTX or JSON, and serve the same
// pipeline over HTTP. The CLI is built using cobra and logs with
// charmbracelet/log.
//
// # Commands
//
//   - build: Assemble a script and write PPTX and/or JSON
//   - validate: Assemble a script and report the deck without writing it
//   - preview: Browse the assembled slides in the terminal
//   - init: Write the sample script as a starting point
//   - convert: Translate a script between TOML, YAML and JSON
//   - inspect: Print the text of an existing PPTX file
//   - serve: Run the HTTP API
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is also attached to the command context.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/deckbuild/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "deckbuild assembles presentation decks from scripts",
		Long:         `deckbuild turns an ordered construction script of title, content and section slides into a PowerPoint deck, with nested bullet outlines and fixed layouts per slide kind.`,
		Version:      buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
