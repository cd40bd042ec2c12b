package cli

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deckbuild/pkg/assembler"
	"github.com/matzehuels/deckbuild/pkg/deck"
	"github.com/matzehuels/deckbuild/pkg/pipeline"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate <script>",
		Short: "Assemble a script and report the resulting slides",
		Long: `Assemble a construction script without writing any output.

On failure the offending entry is reported by index, kind and title.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := loadScript(args[0])
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, nil, loggerFromContext(ctx))
			d, err := runner.Assemble(ctx, s, pipeline.Options{})
			if err != nil {
				var entryErr *assembler.EntryError
				if stderrors.As(err, &entryErr) {
					printEntryError(entryErr)
				}
				return err
			}

			printSuccess("Script is valid")
			printStats(d.Len(), d.CountByKind())
			printCanvas(d.Canvas())
			if !quiet && d.Len() > 0 {
				printNewline()
				fmt.Println(slideTable(d))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the summary line")

	return cmd
}

// slideTable renders one row per slide: index, kind, layout, title and the
// number of body lines.
func slideTable(d *deck.Deck) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, d.Len())
	for i, s := range d.Slides() {
		lines := "—"
		if cs, ok := s.(*deck.ContentSlide); ok {
			lines = strconv.Itoa(cs.Len())
		}
		rows = append(rows, []string{strconv.Itoa(i), s.Kind().String(), s.Layout().Name, firstLine(s.Title()), lines})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Kind", "Layout", "Title", "Lines").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 || col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// firstLine truncates multi-line text for single-row display.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
