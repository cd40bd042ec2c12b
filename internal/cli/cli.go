package cli

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deckbuild/pkg/cache"
	"github.com/matzehuels/deckbuild/pkg/errors"
	"github.com/matzehuels/deckbuild/pkg/pipeline"
	"github.com/matzehuels/deckbuild/pkg/script"
	"github.com/matzehuels/deckbuild/pkg/sink"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "deckbuild"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputPaths maps each format to its output file. With a single format an
// explicit output path is used verbatim; otherwise the path (or the script
// name) is used as a base and the format becomes the extension.
func outputPaths(scriptPath, output string, formats []string) (map[string]string, error) {
	if len(formats) == 1 && output != "" {
		if err := errors.ValidateOutputPath(output); err != nil {
			return nil, err
		}
		return map[string]string{formats[0]: output}, nil
	}

	base := output
	if base == "" {
		base = filepath.Base(scriptPath)
		if scriptPath == "-" {
			base = "sample"
		}
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))

	paths := make(map[string]string, len(formats))
	for _, f := range formats {
		p := base + "." + f
		if err := errors.ValidateOutputPath(p); err != nil {
			return nil, err
		}
		paths[f] = p
	}
	return paths, nil
}

// loadScript reads a script file, or the built-in sample for "-".
func loadScript(path string) (script.Script, error) {
	if path == "-" || path == "sample" {
		return script.Sample(), nil
	}
	return script.Load(path)
}

// validOutputFormats lists the output formats for help text.
func validOutputFormats() string {
	return sink.FormatPPTX + "," + sink.FormatJSON
}
