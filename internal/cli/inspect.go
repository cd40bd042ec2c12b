package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deckbuild/pkg/sink"
)

// inspectCommand creates the inspect command, which prints the text of a
// PPTX file slide by slide.
func (c *CLI) inspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <file.pptx>",
		Short: "Print the text content of a PPTX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slides, err := sink.InspectPPTX(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(slides)
			}

			for i, s := range slides {
				fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("Slide %d", i+1)))
				for _, p := range s.Paragraphs {
					fmt.Fprintln(w, "  "+p)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print slides as JSON")

	return cmd
}
