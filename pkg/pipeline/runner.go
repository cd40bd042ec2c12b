package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/deckbuild/pkg/assembler"
	"github.com/matzehuels/deckbuild/pkg/cache"
	"github.com/matzehuels/deckbuild/pkg/deck"
	"github.com/matzehuels/deckbuild/pkg/observability"
	"github.com/matzehuels/deckbuild/pkg/script"
	"github.com/matzehuels/deckbuild/pkg/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete assemble → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, s script.Script, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Assemble
	assembleStart := time.Now()
	d, err := r.Assemble(ctx, s, opts)
	if err != nil {
		return nil, err
	}
	result.Deck = d
	result.Stats.AssembleTime = time.Since(assembleStart)
	result.Stats.Slides = d.Len()
	result.Stats.SlidesByKind = d.CountByKind()

	logger.Info("assembled deck",
		"slides", d.Len(),
		"duration", result.Stats.AssembleTime)

	deckJSON, err := sink.RenderJSON(d)
	if err != nil {
		return nil, fmt.Errorf("hash deck: %w", err)
	}
	result.DeckHash = cache.Hash(deckJSON)
	if err := r.Cache.Set(ctx, r.Keyer.DeckKey(result.DeckHash), deckJSON, cache.TTLDeck); err != nil {
		logger.Warn("deck cache write failed", "hash", result.DeckHash, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "deck", len(deckJSON))
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, info, err := r.RenderWithCacheInfo(ctx, d, result.DeckHash, documentTitle(s, d), opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", info.RenderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Assemble builds the deck for s.
func (r *Runner) Assemble(ctx context.Context, s script.Script, opts Options) (*deck.Deck, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()

	a := assembler.New(
		assembler.WithLogger(opts.Logger),
		assembler.WithParallelism(opts.Parallelism),
	)

	hooks := observability.Pipeline()
	hooks.OnAssembleStart(ctx, s.Len())
	start := time.Now()
	d, err := a.Assemble(ctx, s)
	slides := 0
	if d != nil {
		slides = d.Len()
	}
	hooks.OnAssembleComplete(ctx, slides, time.Since(start), err)
	return d, err
}

// RenderWithCacheInfo renders d in every requested format, reusing cached
// artifacts keyed by deckHash.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *deck.Deck, deckHash, title string, opts Options) (map[string][]byte, CacheInfo, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, CacheInfo{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	info := CacheInfo{RenderHit: true, Hits: make(map[string]bool, len(opts.Formats))}
	meta := sink.Meta{Title: title, Creator: opts.Creator}

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(deckHash, opts.ArtifactKeyOpts(format, title))

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				info.Hits[format] = true
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}

		info.RenderHit = false
		data, err := sink.Render(d, format, meta)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, CacheInfo{}, err
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, info, nil
}

// LookupDeck returns the canonical JSON of a previously built deck.
func (r *Runner) LookupDeck(ctx context.Context, deckHash string) ([]byte, bool, error) {
	return r.Cache.Get(ctx, r.Keyer.DeckKey(deckHash))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// documentTitle prefers the script's title property and falls back to the
// first slide's title.
func documentTitle(s script.Script, d *deck.Deck) string {
	if t := s.Meta().Title; t != "" {
		return t
	}
	if d.Len() > 0 {
		return d.Slide(0).Title()
	}
	return ""
}
