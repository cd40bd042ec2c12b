package script

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/deckbuild/pkg/deck"
	"github.com/matzehuels/deckbuild/pkg/errors"
)

const tomlScript = `
[deck]
title = "Demo"

[[slides]]
kind = "title"
title = "Demo"
subtitle = "line one\nline two"

[[slides]]
kind = "content"
title = "Body"
outline = ["A", ["B", 1], ["C", 2], "D"]

[[slides]]
kind = "section"
title = "Part II"
`

const yamlScript = `
deck:
  title: Demo
slides:
  - kind: title
    title: Demo
    subtitle: "line one\nline two"
  - kind: content
    title: Body
    outline:
      - A
      - [B, 1]
      - [C, 2]
      - D
  - kind: section
    title: Part II
`

const jsonScript = `{
  "deck": {"title": "Demo"},
  "slides": [
    {"kind": "title", "title": "Demo", "subtitle": "line one\nline two"},
    {"kind": "content", "title": "Body", "outline": ["A", ["B", 1], ["C", 2], "D"]},
    {"kind": "section", "title": "Part II"}
  ]
}`

func wantDemoEntries() []Entry {
	return []Entry{
		TitleWithSubtitle("Demo", "line one\nline two"),
		Content("Body", deck.Plain("A"), deck.Nested("B", 1), deck.Nested("C", 2), deck.Plain("D")),
		Section("Part II"),
	}
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		format string
		input  string
	}{
		{FormatTOML, tomlScript},
		{FormatYAML, yamlScript},
		{FormatJSON, jsonScript},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			s, err := Decode(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if s.Meta().Title != "Demo" {
				t.Errorf("Meta().Title = %q, want Demo", s.Meta().Title)
			}
			if diff := cmp.Diff(wantDemoEntries(), s.Entries()); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := Decode(strings.NewReader(""), "xml")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Decode(xml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{
			name:  "syntax",
			input: `{"slides": [`,
			code:  errors.ErrCodeInvalidScript,
		},
		{
			name:  "unknown kind",
			input: `{"slides": [{"kind": "bullets", "title": "x"}]}`,
			code:  errors.ErrCodeInvalidScript,
		},
		{
			name:  "numeric outline element",
			input: `{"slides": [{"kind": "content", "title": "x", "outline": ["a", 42]}]}`,
			code:  errors.ErrCodeMalformedOutlineElement,
		},
		{
			name:  "three part pair",
			input: `{"slides": [{"kind": "content", "title": "x", "outline": [["a", 1, 2]]}]}`,
			code:  errors.ErrCodeMalformedOutlineElement,
		},
		{
			name:  "non integer level",
			input: `{"slides": [{"kind": "content", "title": "x", "outline": [["a", 1.5]]}]}`,
			code:  errors.ErrCodeMalformedOutlineElement,
		},
		{
			name:  "level above int range",
			input: `{"slides": [{"kind": "content", "title": "x", "outline": [["a", 1e19]]}]}`,
			code:  errors.ErrCodeMalformedOutlineElement,
		},
		{
			name:  "level below int range",
			input: `{"slides": [{"kind": "content", "title": "x", "outline": [["a", -1e19]]}]}`,
			code:  errors.ErrCodeMalformedOutlineElement,
		},
		{
			name:  "non string text",
			input: `{"slides": [{"kind": "content", "title": "x", "outline": [[1, 1]]}]}`,
			code:  errors.ErrCodeMalformedOutlineElement,
		},
		{
			name:  "outline on section",
			input: `{"slides": [{"kind": "section", "title": "x", "outline": ["a"]}]}`,
			code:  errors.ErrCodeInvalidScript,
		},
		{
			name:  "control character in title",
			input: `{"slides": [{"kind": "section", "title": "x\u0007"}]}`,
			code:  errors.ErrCodeInvalidScript,
		},
		{
			name:  "bad canvas",
			input: `{"deck": {"width_in": 10}, "slides": []}`,
			code:  errors.ErrCodeInvalidCanvas,
		},
		{
			name:  "bad layout kind",
			input: `{"layouts": {"chart": {"name": "Chart", "index": 5}}, "slides": []}`,
			code:  errors.ErrCodeInvalidLayout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("DecodeJSON() succeeded, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("DecodeJSON() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{int64(3), 3, true},
		{uint64(3), 3, true},
		{uint64(math.MaxUint64), 0, false},
		{float64(2), 2, true},
		{float64(-2), -2, true},
		{1e19, 0, false},
		{-1e19, 0, false},
		{math.Inf(1), 0, false},
		{math.NaN(), 0, false},
		{json.Number("7"), 7, true},
		{json.Number("99999999999999999999"), 0, false},
		{"1", 0, false},
	}
	for _, tt := range tests {
		got, ok := toInt(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("toInt(%v) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDecodeKeepsNegativeLevels(t *testing.T) {
	// Level range is the factory's concern; decoding only checks shape.
	s, err := DecodeJSON(strings.NewReader(`{"slides": [{"kind": "content", "title": "x", "outline": [["a", -1]]}]}`))
	if err != nil {
		t.Fatalf("DecodeJSON() error: %v", err)
	}
	if got := s.Entry(0).Outline[0]; got != deck.Nested("a", -1) {
		t.Errorf("outline[0] = %#v, want Nested(a, -1)", got)
	}
}

func TestDecodeErrorNamesSlide(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader(`{"slides": [{"kind": "section", "title": "ok"}, {"kind": "content", "title": "x", "outline": [true]}]}`))
	if err == nil || !strings.Contains(err.Error(), "slide 1") {
		t.Errorf("error = %v, want mention of slide 1", err)
	}
}

func TestDecodeCanvasAndLayouts(t *testing.T) {
	input := `
[deck]
width_in = 13.333
height_in = 7.5

[layouts.section]
name = "Divider"
index = 7

[[slides]]
kind = "section"
title = "x"
`
	s, err := DecodeTOML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeTOML() error: %v", err)
	}
	c, ok := s.Canvas()
	if !ok || c.Height != deck.Inches(7.5) || c.Width != deck.Inches(13.333) {
		t.Errorf("Canvas() = %+v, %v", c, ok)
	}
	a := s.Layouts()[deck.KindSection]
	if a.Name != "Divider" || a.Index != 7 {
		t.Errorf("section layout = %v", a)
	}
	if !a.Has(deck.RegionTitle) {
		t.Error("omitted regions should default to the kind's defaults")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	src := NewWithOptions(wantDemoEntries(), []Option{
		WithMeta(Meta{Title: "Demo", Author: "me"}),
		WithCanvas(deck.DefaultCanvas),
	})

	for _, format := range []string{FormatTOML, FormatYAML, FormatJSON} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, format); err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			back, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("Decode() error: %v\n%s", err, buf.String())
			}
			if diff := cmp.Diff(src.Entries(), back.Entries()); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
			if back.Meta() != src.Meta() {
				t.Errorf("Meta() = %+v, want %+v", back.Meta(), src.Meta())
			}
			if c, _ := back.Canvas(); c != deck.DefaultCanvas {
				t.Errorf("Canvas() = %+v", c)
			}
		})
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, New(), "ini"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Encode(ini) error = %v, want INVALID_FORMAT", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"deck.toml", FormatTOML, false},
		{"deck.YAML", FormatYAML, false},
		{"dir/deck.yml", FormatYAML, false},
		{"deck.json", FormatJSON, false},
		{"deck.pptx", "", true},
		{"deck", "", true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	if err := os.WriteFile(path, []byte(yamlScript), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
