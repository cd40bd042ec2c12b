package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deckbuild/pkg/errors"
	"github.com/matzehuels/deckbuild/pkg/script"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a script between TOML, YAML and JSON",
		Long: `Convert a construction script to another file format.

The output format is taken from --format or, if unset, from the output
file extension. Pass "-" as output to write to stdout.`,
		Example: `  deckbuild convert talk.toml talk.yaml
  deckbuild convert talk.yaml - -f json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]

			s, err := loadScript(in)
			if err != nil {
				return err
			}

			if format == "" {
				if out == "-" {
					return errors.New(errors.ErrCodeInvalidFormat, "--format is required when writing to stdout")
				}
				if format, err = script.FormatFromPath(out); err != nil {
					return err
				}
			}

			var buf bytes.Buffer
			if err := script.Encode(&buf, s, format); err != nil {
				return err
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := errors.ValidateOutputPath(out); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			loggerFromContext(cmd.Context()).Debug("converted script", "entries", s.Len(), "format", format)
			printSuccess("Converted %d entries to %s", s.Len(), format)
			printPath(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: toml, yaml or json")

	return cmd
}
