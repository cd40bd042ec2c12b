// Package script defines the construction script: the ordered list of
// slide entries that fully describes a deck.
//
// A [Script] is immutable data. It can be built in Go with the entry
// constructors:
//
//	s := script.New(
//	    script.TitleWithSubtitle("Inteligencia Artificial Autónoma", "Actualizado 2025"),
//	    script.Content("Agenda", deck.Plain("Fundamentos"), deck.Nested("RPA", 1)),
//	    script.Section("Parte II"),
//	)
//
// or decoded from a TOML, YAML or JSON file with [Load]. Decoding performs
// shape checks only (known kinds, well-formed outline elements); title and
// outline rules are enforced by the deck factory when the script is
// assembled.
package script

import (
	"slices"

	"github.com/matzehuels/deckbuild/pkg/deck"
)

// Meta holds document properties carried into the output package.
type Meta struct {
	Title   string `json:"title,omitempty"`
	Author  string `json:"author,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// Entry is one slide instruction.
type Entry struct {
	Kind     deck.Kind
	Title    string
	Subtitle *string
	Outline  []deck.OutlineItem
}

// Title returns a title-slide entry without a subtitle.
func Title(title string) Entry {
	return Entry{Kind: deck.KindTitle, Title: title}
}

// TitleWithSubtitle returns a title-slide entry with a subtitle.
func TitleWithSubtitle(title, subtitle string) Entry {
	return Entry{Kind: deck.KindTitle, Title: title, Subtitle: &subtitle}
}

// Content returns a content-slide entry.
func Content(title string, outline ...deck.OutlineItem) Entry {
	return Entry{Kind: deck.KindContent, Title: title, Outline: outline}
}

// Section returns a section-divider entry.
func Section(title string) Entry {
	return Entry{Kind: deck.KindSection, Title: title}
}

// clone returns a copy that shares no mutable state with e.
func (e Entry) clone() Entry {
	if e.Subtitle != nil {
		sub := *e.Subtitle
		e.Subtitle = &sub
	}
	e.Outline = slices.Clone(e.Outline)
	return e
}

// Script is an ordered construction script.
type Script struct {
	meta    Meta
	canvas  *deck.Canvas
	layouts deck.LayoutMap
	entries []Entry
}

// Option configures a script.
type Option func(*Script)

// WithMeta sets document properties.
func WithMeta(m Meta) Option {
	return func(s *Script) { s.meta = m }
}

// WithCanvas fixes the deck dimensions. Without it the assembler's canvas
// applies.
func WithCanvas(c deck.Canvas) Option {
	return func(s *Script) { s.canvas = &c }
}

// WithLayouts overrides layout archetypes per kind. Kinds not present keep
// the factory defaults.
func WithLayouts(m deck.LayoutMap) Option {
	return func(s *Script) { s.layouts = m.Clone() }
}

// New returns a script with the given entries.
func New(entries ...Entry) Script {
	return NewWithOptions(entries, nil)
}

// NewWithOptions returns a script with the given entries and options.
func NewWithOptions(entries []Entry, opts []Option) Script {
	s := Script{entries: make([]Entry, len(entries))}
	for i, e := range entries {
		s.entries[i] = e.clone()
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Meta returns the document properties.
func (s Script) Meta() Meta { return s.meta }

// Canvas returns the script's canvas, if it sets one.
func (s Script) Canvas() (deck.Canvas, bool) {
	if s.canvas == nil {
		return deck.Canvas{}, false
	}
	return *s.canvas, true
}

// Layouts returns the script's layout overrides (possibly empty).
func (s Script) Layouts() deck.LayoutMap { return s.layouts.Clone() }

// Len returns the number of entries.
func (s Script) Len() int { return len(s.entries) }

// Entry returns a copy of the i-th entry.
func (s Script) Entry(i int) Entry { return s.entries[i].clone() }

// Entries returns a copy of all entries in order.
func (s Script) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.clone()
	}
	return out
}
