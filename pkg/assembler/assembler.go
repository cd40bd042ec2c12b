package assembler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/deckbuild/pkg/deck"
	"github.com/matzehuels/deckbuild/pkg/observability"
	"github.com/matzehuels/deckbuild/pkg/script"
)

// State is the lifecycle of a single assembly.
type State int

const (
	StateEmpty State = iota
	StateAssembling
	StateComplete
	StateFailed
)

var stateNames = [...]string{
	StateEmpty:      "empty",
	StateAssembling: "assembling",
	StateComplete:   "complete",
	StateFailed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// EntryError reports the script entry that aborted an assembly.
type EntryError struct {
	Index int
	Kind  deck.Kind
	Title string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d (%s %q): %v", e.Index, e.Kind, e.Title, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// Assembler builds decks from scripts. An Assembler holds no per-run state
// and may be shared between goroutines.
type Assembler struct {
	factory     *deck.Factory
	canvas      deck.Canvas
	logger      *log.Logger
	parallelism int
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithFactory sets the slide factory. The default uses [deck.DefaultLayouts].
func WithFactory(f *deck.Factory) Option {
	return func(a *Assembler) {
		if f != nil {
			a.factory = f
		}
	}
}

// WithCanvas sets the canvas used when a script does not fix its own.
func WithCanvas(c deck.Canvas) Option {
	return func(a *Assembler) { a.canvas = c }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithParallelism builds up to n slides concurrently. Values below 2
// select sequential assembly.
func WithParallelism(n int) Option {
	return func(a *Assembler) { a.parallelism = n }
}

// New returns an assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		canvas:      deck.DefaultCanvas,
		logger:      log.Default(),
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.factory == nil {
		f, err := deck.NewFactory(nil)
		if err != nil {
			panic(err) // default layouts always validate
		}
		a.factory = f
	}
	return a
}

// Assemble builds a deck from s. On success every entry has produced
// exactly one slide, in entry order. On failure the returned error is an
// [*EntryError] (or the context's error) and the deck is nil.
func (a *Assembler) Assemble(ctx context.Context, s script.Script) (*deck.Deck, error) {
	run := &assembly{ctx: ctx, logger: a.logger}

	canvas := a.canvas
	if c, ok := s.Canvas(); ok {
		canvas = c
	}
	b, err := deck.NewBuilder(canvas)
	if err != nil {
		run.transition(StateFailed)
		return nil, err
	}

	f := a.factory
	if overrides := s.Layouts(); len(overrides) > 0 {
		f, err = deck.NewFactory(f.Layouts().Merge(overrides))
		if err != nil {
			run.transition(StateFailed)
			return nil, err
		}
	}

	entries := s.Entries()
	b.Grow(len(entries))
	run.transition(StateAssembling)
	start := time.Now()

	var slides []deck.Slide
	if a.parallelism > 1 && len(entries) > 1 {
		slides, err = a.buildParallel(ctx, f, entries)
	} else {
		slides, err = a.buildSequential(ctx, f, entries)
	}
	if err != nil {
		run.transition(StateFailed)
		return nil, err
	}

	for i, sl := range slides {
		if err := b.Append(sl); err != nil {
			run.transition(StateFailed)
			return nil, entryError(i, entries[i], err)
		}
	}

	d := b.Freeze()
	run.transition(StateComplete)
	a.logger.Debug("assembled deck", "slides", d.Len(), "duration", time.Since(start))
	return d, nil
}

func (a *Assembler) buildSequential(ctx context.Context, f *deck.Factory, entries []script.Entry) ([]deck.Slide, error) {
	slides := make([]deck.Slide, 0, len(entries))
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sl, err := a.build(ctx, f, i, e)
		if err != nil {
			return nil, err
		}
		slides = append(slides, sl)
	}
	return slides, nil
}

// buildParallel constructs every slide on a bounded group. Entry failures
// do not cancel siblings, so the lowest failing index is always known.
func (a *Assembler) buildParallel(ctx context.Context, f *deck.Factory, entries []script.Entry) ([]deck.Slide, error) {
	slides := make([]deck.Slide, len(entries))
	errs := make([]error, len(entries))

	var g errgroup.Group
	g.SetLimit(a.parallelism)
	for i, e := range entries {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slides[i], errs[i] = a.build(ctx, f, i, e)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return slides, nil
}

func (a *Assembler) build(ctx context.Context, f *deck.Factory, i int, e script.Entry) (deck.Slide, error) {
	sl, err := f.Build(e.Kind, e.Title, e.Subtitle, e.Outline)
	if err != nil {
		return nil, entryError(i, e, err)
	}
	observability.Assembly().OnSlideBuilt(ctx, i, e.Kind.String())
	a.logger.Debug("built slide", "index", i, "kind", e.Kind, "layout", sl.Layout())
	return sl, nil
}

func entryError(i int, e script.Entry, err error) *EntryError {
	return &EntryError{Index: i, Kind: e.Kind, Title: e.Title, Err: err}
}

// assembly tracks the state of one Assemble call.
type assembly struct {
	ctx    context.Context
	logger *log.Logger
	state  State
}

func (r *assembly) transition(to State) {
	from := r.state
	r.state = to
	observability.Assembly().OnStateChange(r.ctx, from.String(), to.String())
	r.logger.Debug("assembly state", "from", from, "to", to)
}

// IsEntryError reports whether err was raised by a script entry, as
// opposed to cancellation or configuration.
func IsEntryError(err error) bool {
	var ee *EntryError
	return errors.As(err, &ee)
}
