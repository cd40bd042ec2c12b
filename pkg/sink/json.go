package sink

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/deckbuild/pkg/deck"
	"github.com/matzehuels/deckbuild/pkg/errors"
)

type jsonConfig struct {
	indent bool
}

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonConfig)

// WithIndent pretty-prints the output. The default is compact, which is
// the form used for hashing.
func WithIndent() JSONOption {
	return func(c *jsonConfig) { c.indent = true }
}

type jsonDeck struct {
	Canvas jsonCanvas  `json:"canvas"`
	Slides []jsonSlide `json:"slides"`
}

type jsonCanvas struct {
	WidthEMU  int64   `json:"width_emu"`
	HeightEMU int64   `json:"height_emu"`
	WidthIn   float64 `json:"width_in"`
	HeightIn  float64 `json:"height_in"`
}

type jsonSlide struct {
	Kind     string     `json:"kind"`
	Layout   jsonLayout `json:"layout"`
	Title    string     `json:"title"`
	Subtitle *string    `json:"subtitle,omitempty"`
	Lines    []jsonLine `json:"lines,omitempty"`
}

type jsonLayout struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

type jsonLine struct {
	Text     string `json:"text"`
	Level    int    `json:"level"`
	FontSize int    `json:"font_size"`
}

// RenderJSON writes the deck tree as JSON. Output is deterministic: the
// same deck always produces the same bytes.
func RenderJSON(d *deck.Deck, opts ...JSONOption) ([]byte, error) {
	var cfg jsonConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	c := d.Canvas()
	out := jsonDeck{
		Canvas: jsonCanvas{
			WidthEMU:  int64(c.Width),
			HeightEMU: int64(c.Height),
			WidthIn:   c.Width.Inches(),
			HeightIn:  c.Height.Inches(),
		},
		Slides: make([]jsonSlide, 0, d.Len()),
	}
	for _, s := range d.Slides() {
		js := jsonSlide{
			Kind:   s.Kind().String(),
			Layout: jsonLayout{Name: s.Layout().Name, Index: s.Layout().Index},
			Title:  s.Title(),
		}
		switch s := s.(type) {
		case *deck.TitleSlide:
			if sub, ok := s.Subtitle(); ok {
				js.Subtitle = &sub
			}
		case *deck.ContentSlide:
			for _, l := range s.Outline() {
				js.Lines = append(js.Lines, jsonLine{Text: l.Text, Level: l.Level, FontSize: int(l.FontSize())})
			}
		}
		out.Slides = append(out.Slides, js)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if cfg.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode deck json")
	}
	return buf.Bytes(), nil
}

func unsupportedFormat(format string) error {
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported output format %q (must be pptx or json)", format)
}
