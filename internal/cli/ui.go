package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/deckbuild/pkg/assembler"
	"github.com/matzehuels/deckbuild/pkg/deck"
	"github.com/matzehuels/deckbuild/pkg/errors"
)

// Terminal palette (ANSI 256).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared by the commands and the preview browser.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleLabel    = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleRendered = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleCode     = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	statsSep    = " · "
)

func status(icon string, style lipgloss.Style, format string, args ...any) {
	fmt.Println(style.Render(icon) + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) {
	status(iconSuccess, styleIconSuccess, format, args...)
}

func printError(format string, args ...any) {
	status(iconError, styleIconError, format, args...)
}

func printWarning(format string, args ...any) {
	status(iconWarning, styleIconWarning, "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status(iconInfo, styleIconInfo, format, args...)
}

// printDetail prints an indented secondary line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printPath prints a written file.
func printPath(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printArtifact prints a rendered output file with its format and size.
func printArtifact(format, path string, size int) {
	fmt.Println(artifactLine(format, path, size))
}

func artifactLine(format, path string, size int) string {
	meta := fmt.Sprintf("(%s, %s)", format, formatBytes(size))
	return "  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path) + " " + StyleDim.Render(meta)
}

// printEntryError reports the script entry that stopped assembly and the
// rule it broke.
func printEntryError(e *assembler.EntryError) {
	printError("Entry %d (%s %q) is invalid", e.Index, e.Kind, e.Title)
	fmt.Println("  " + entryErrorDetail(e))
}

func entryErrorDetail(e *assembler.EntryError) string {
	code := errors.GetCode(e.Err)
	if code == "" {
		return StyleDim.Render(e.Err.Error())
	}
	return styleCode.Render(string(code)) + " " + StyleDim.Render(errors.UserMessage(e.Err))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printCanvas prints the deck dimensions in inches.
func printCanvas(c deck.Canvas) {
	printKeyValue("Canvas", fmt.Sprintf("%.2f × %.2f in", c.Width.Inches(), c.Height.Inches()))
}

// printDeckHash prints the short content hash that addresses the deck in
// the cache and the HTTP API.
func printDeckHash(hash string) {
	if len(hash) > 12 {
		hash = hash[:12]
	}
	printKeyValue("Deck", StyleHighlight.Render(hash))
}

// printStats prints the slide count per kind followed by any extra
// rendered parts.
func printStats(slides int, byKind map[deck.Kind]int, extra ...string) {
	fmt.Println(statsLine(slides, byKind, extra...))
}

func statsLine(slides int, byKind map[deck.Kind]int, extra ...string) string {
	parts := []string{StyleDim.Render(pluralize(slides, "slide"))}
	for _, k := range deck.Kinds() {
		if n := byKind[k]; n > 0 {
			parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s", n, k)))
		}
	}
	parts = append(parts, extra...)
	return "  " + strings.Join(parts, StyleDim.Render(statsSep))
}

// cacheLabel marks whether outputs were served from the cache.
func cacheLabel(hit bool) string {
	if hit {
		return styleCached.Render("cached")
	}
	return styleRendered.Render("rendered")
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
