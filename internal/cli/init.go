package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deckbuild/pkg/errors"
	"github.com/matzehuels/deckbuild/pkg/script"
)

// initCommand creates the init command, which writes the sample script.
func (c *CLI) initCommand() *cobra.Command {
	var (
		format string
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample construction script to start from",
		Example: `  deckbuild init
  deckbuild init -f yaml -o talk.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "deck." + format
			}
			if !script.ValidFormats[format] {
				return errors.New(errors.ErrCodeInvalidFormat, "unknown script format %q (must be toml, yaml or json)", format)
			}
			if err := errors.ValidateOutputPath(output); err != nil {
				return err
			}
			if _, err := os.Stat(output); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", output)
			}

			data, err := sampleScript(format)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			printSuccess("Sample script written")
			printPath(output)
			printNewline()
			printNextStep("Build it", "deckbuild build "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", script.FormatTOML, "script format: toml, yaml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default deck.<format>)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// sampleScript returns the bundled sample in the given format. TOML is the
// embedded source verbatim so its comments survive.
func sampleScript(format string) ([]byte, error) {
	if format == script.FormatTOML {
		return script.SampleTOML(), nil
	}
	var buf bytes.Buffer
	if err := script.Encode(&buf, script.Sample(), format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
