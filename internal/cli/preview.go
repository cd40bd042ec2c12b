package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deckbuild/pkg/deck"
	"github.com/matzehuels/deckbuild/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1).
			Width(60)
)

// maxPreviewIndent caps outline indentation in the detail box.
const maxPreviewIndent = 8

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <script>",
		Short: "Browse the assembled slides in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := loadScript(args[0])
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(nil, nil, loggerFromContext(ctx))
			d, err := runner.Assemble(ctx, s, pipeline.Options{})
			if err != nil {
				return err
			}
			if d.Len() == 0 {
				printInfo("Deck is empty")
				return nil
			}

			_, err = tea.NewProgram(NewSlideListModel(d), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// =============================================================================
// SlideListModel - Interactive slide browser
// =============================================================================

// SlideListModel is the bubbletea model for browsing a deck. The list
// shows one row per slide and the panel below it renders the slide under
// the cursor.
type SlideListModel struct {
	Slides []deck.Slide
	Cursor int
	Height int
	Offset int
}

// NewSlideListModel creates a new slide list model.
func NewSlideListModel(d *deck.Deck) SlideListModel {
	return SlideListModel{
		Slides: d.Slides(),
		Height: 10,
	}
}

func (m SlideListModel) Init() tea.Cmd {
	return nil
}

func (m SlideListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m = m.moveTo(m.Cursor - 1)
		case "down", "j":
			m = m.moveTo(m.Cursor + 1)
		case "home", "g":
			m = m.moveTo(0)
		case "end", "G":
			m = m.moveTo(len(m.Slides) - 1)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height/2 - 4
		if m.Height < 5 {
			m.Height = 5
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

// moveTo places the cursor on slide i, clamped to the deck, and scrolls
// the window so the cursor stays visible.
func (m SlideListModel) moveTo(i int) SlideListModel {
	if i < 0 || len(m.Slides) == 0 {
		i = 0
	} else if i >= len(m.Slides) {
		i = len(m.Slides) - 1
	}
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m SlideListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Slides"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Slides))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Slides[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(i + 1), s.Kind().String(), firstLine(s.Title())})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Kind", "Title").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 1 || col == 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(m.Slides) > 0 {
		b.WriteString(detailBoxStyle.Render(renderSlide(m.Slides[m.Cursor])))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Slides))))

	return b.String()
}

// renderSlide draws a text approximation of a slide: title first, then the
// subtitle or the indented outline.
func renderSlide(s deck.Slide) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(s.Title()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(s.Layout().String()))

	switch s := s.(type) {
	case *deck.TitleSlide:
		if sub, ok := s.Subtitle(); ok {
			b.WriteString("\n\n")
			b.WriteString(StyleValue.Render(sub))
		}
	case *deck.ContentSlide:
		b.WriteString("\n")
		for _, l := range s.Outline() {
			b.WriteString("\n")
			line := strings.Repeat("  ", min(l.Level, maxPreviewIndent)) + "• " + l.Text
			if l.Level == 0 {
				b.WriteString(StyleValue.Render(line))
			} else {
				b.WriteString(StyleDim.Render(line))
			}
		}
	}
	return b.String()
}
