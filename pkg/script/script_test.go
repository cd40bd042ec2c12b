package script

import (
	"testing"

	"github.com/matzehuels/deckbuild/pkg/deck"
)

func TestEntryConstructors(t *testing.T) {
	e := TitleWithSubtitle("T", "S")
	if e.Kind != deck.KindTitle || e.Title != "T" || e.Subtitle == nil || *e.Subtitle != "S" {
		t.Errorf("TitleWithSubtitle() = %+v", e)
	}
	if e := Title("T"); e.Subtitle != nil {
		t.Errorf("Title() subtitle = %v, want nil", e.Subtitle)
	}
	if e := Content("C", deck.Plain("a"), deck.Nested("b", 1)); e.Kind != deck.KindContent || len(e.Outline) != 2 {
		t.Errorf("Content() = %+v", e)
	}
	if e := Section("S"); e.Kind != deck.KindSection {
		t.Errorf("Section().Kind = %v", e.Kind)
	}
}

func TestScriptIsolatedFromCaller(t *testing.T) {
	sub := "original"
	outline := []deck.OutlineItem{deck.Plain("a")}
	entries := []Entry{
		{Kind: deck.KindTitle, Title: "T", Subtitle: &sub},
		{Kind: deck.KindContent, Title: "C", Outline: outline},
	}
	s := New(entries...)

	sub = "changed"
	outline[0] = deck.Plain("changed")
	entries[0].Title = "changed"

	if got := *s.Entry(0).Subtitle; got != "original" {
		t.Errorf("subtitle = %q, want %q", got, "original")
	}
	if got := s.Entry(1).Outline[0]; got != deck.Plain("a") {
		t.Errorf("outline[0] = %v, want a", got)
	}
	if got := s.Entry(0).Title; got != "T" {
		t.Errorf("title = %q, want T", got)
	}

	got := s.Entries()
	*got[0].Subtitle = "mutated"
	if *s.Entry(0).Subtitle != "original" {
		t.Error("Entries() should return deep copies")
	}
}

func TestScriptOptions(t *testing.T) {
	s := New(Section("x"))
	if _, ok := s.Canvas(); ok {
		t.Error("Canvas() should be unset by default")
	}
	if len(s.Layouts()) != 0 {
		t.Errorf("Layouts() = %v, want empty", s.Layouts())
	}

	c := deck.Canvas{Width: deck.Inches(13.333), Height: deck.Inches(7.5)}
	layouts := deck.LayoutMap{deck.KindSection: {Name: "Divider", Index: 7, Regions: []deck.Region{deck.RegionTitle}}}
	s = NewWithOptions([]Entry{Section("x")}, []Option{
		WithMeta(Meta{Title: "Deck", Author: "me"}),
		WithCanvas(c),
		WithLayouts(layouts),
	})
	if got, ok := s.Canvas(); !ok || got != c {
		t.Errorf("Canvas() = %+v, %v", got, ok)
	}
	if s.Meta().Author != "me" {
		t.Errorf("Meta().Author = %q", s.Meta().Author)
	}
	if s.Layouts()[deck.KindSection].Index != 7 {
		t.Errorf("Layouts() = %v", s.Layouts())
	}
}

func TestSample(t *testing.T) {
	s := Sample()
	if s.Len() != 9 {
		t.Fatalf("Sample().Len() = %d, want 9", s.Len())
	}

	first := s.Entry(0)
	if first.Kind != deck.KindTitle || first.Subtitle == nil {
		t.Fatalf("first entry = %+v, want title with subtitle", first)
	}
	if *first.Subtitle != "El Futuro de la Automatización Inteligente\nActualizado 2025" {
		t.Errorf("subtitle = %q", *first.Subtitle)
	}

	c, ok := s.Canvas()
	if !ok || c != deck.DefaultCanvas {
		t.Errorf("Canvas() = %+v, %v, want default", c, ok)
	}

	kinds := map[deck.Kind]int{}
	for _, e := range s.Entries() {
		kinds[e.Kind]++
	}
	if kinds[deck.KindTitle] != 1 || kinds[deck.KindContent] != 5 || kinds[deck.KindSection] != 3 {
		t.Errorf("kind counts = %v", kinds)
	}

	defs := s.Entry(2).Outline
	if defs[1] != deck.Nested("Procesos rígidos basados en reglas", 1) {
		t.Errorf("outline[1] = %#v", defs[1])
	}
}

func TestSampleTOMLIsCopy(t *testing.T) {
	b := SampleTOML()
	b[0] = 'X'
	if SampleTOML()[0] == 'X' {
		t.Error("SampleTOML() should return a copy")
	}
}
