// Package pipeline provides the build pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// A run has two stages:
//
//  1. Assemble: turn a construction script into a frozen deck
//  2. Render: serialize the deck in each requested format
//
// Between the stages the deck's canonical JSON is hashed. The hash keys
// the artifact cache, so an unchanged deck is never rendered twice.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, script.Sample(), pipeline.Options{
//	    Formats: []string{"pptx"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pptx := result.Artifacts["pptx"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deckbuild/pkg/cache"
	"github.com/matzehuels/deckbuild/pkg/deck"
	"github.com/matzehuels/deckbuild/pkg/errors"
	"github.com/matzehuels/deckbuild/pkg/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultParallelism builds slides sequentially.
	DefaultParallelism = 1

	// MaxParallelism caps concurrent slide construction.
	MaxParallelism = 64

	// DefaultCreator is written to the document properties.
	DefaultCreator = "deckbuild"
)

// DefaultFormat is the output format when none is requested.
const DefaultFormat = sink.FormatPPTX

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Formats     []string `json:"formats,omitempty"`
	Parallelism int      `json:"parallelism,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"` // Ignore cached artifacts
	Creator     string   `json:"creator,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and response headers.
	RunID string

	// Deck is the assembled deck.
	Deck *deck.Deck

	// DeckHash is the content hash of the deck's canonical JSON.
	DeckHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which formats came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Slides       int
	SlidesByKind map[deck.Kind]int
	AssembleTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	RenderHit bool            // Whether all artifacts came from cache
	Hits      map[string]bool // Per-format hit flags
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !sink.ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: pptx, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Parallelism == 0 {
		o.Parallelism = DefaultParallelism
	}
	if o.Creator == "" {
		o.Creator = DefaultCreator
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks every field.
// This method is idempotent.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Parallelism < 1 || o.Parallelism > MaxParallelism {
		return errors.New(errors.ErrCodeInvalidInput, "parallelism must be between 1 and %d, got %d", MaxParallelism, o.Parallelism)
	}
	o.Formats = dedupe(o.Formats)
	return nil
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format, title string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Title:   title,
		Creator: o.Creator,
	}
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
