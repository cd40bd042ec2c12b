package script

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/deckbuild/pkg/deck"
	"github.com/matzehuels/deckbuild/pkg/errors"
)

// File formats understood by [Load], [Decode] and [Encode].
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ValidFormats is the set of supported script file formats.
var ValidFormats = map[string]bool{
	FormatTOML: true,
	FormatYAML: true,
	FormatJSON: true,
}

// FormatFromPath infers the script format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer script format from %q (use .toml, .yaml or .json)", path)
	}
}

// file is the on-disk shape shared by all three formats.
type file struct {
	Deck    fileDeck              `toml:"deck" yaml:"deck" json:"deck"`
	Layouts map[string]fileLayout `toml:"layouts,omitempty" yaml:"layouts,omitempty" json:"layouts,omitempty"`
	Slides  []fileSlide           `toml:"slides" yaml:"slides" json:"slides"`
}

type fileDeck struct {
	Title    string  `toml:"title,omitempty" yaml:"title,omitempty" json:"title,omitempty"`
	Author   string  `toml:"author,omitempty" yaml:"author,omitempty" json:"author,omitempty"`
	Subject  string  `toml:"subject,omitempty" yaml:"subject,omitempty" json:"subject,omitempty"`
	WidthIn  float64 `toml:"width_in,omitempty" yaml:"width_in,omitempty" json:"width_in,omitempty"`
	HeightIn float64 `toml:"height_in,omitempty" yaml:"height_in,omitempty" json:"height_in,omitempty"`
}

type fileLayout struct {
	Name    string   `toml:"name" yaml:"name" json:"name"`
	Index   int      `toml:"index" yaml:"index" json:"index"`
	Regions []string `toml:"regions,omitempty" yaml:"regions,omitempty" json:"regions,omitempty"`
}

type fileSlide struct {
	Kind     string  `toml:"kind" yaml:"kind" json:"kind"`
	Title    string  `toml:"title" yaml:"title" json:"title"`
	Subtitle *string `toml:"subtitle,omitempty" yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	Outline  []any   `toml:"outline,omitempty" yaml:"outline,omitempty" json:"outline,omitempty"`
}

// Load reads a script file, choosing the decoder by extension.
func Load(path string) (Script, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Script{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Script{}, errors.New(errors.ErrCodeFileNotFound, "script %s does not exist", path)
	}
	if err != nil {
		return Script{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	s, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode reads a script in the given format.
func Decode(r io.Reader, format string) (Script, error) {
	var f file
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
			return Script{}, errors.Wrap(errors.ErrCodeInvalidScript, err, "decode toml")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
			return Script{}, errors.Wrap(errors.ErrCodeInvalidScript, err, "decode yaml")
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&f); err != nil {
			return Script{}, errors.Wrap(errors.ErrCodeInvalidScript, err, "decode json")
		}
	default:
		return Script{}, errors.New(errors.ErrCodeInvalidFormat, "unknown script format %q (must be toml, yaml or json)", format)
	}
	return f.script()
}

// DecodeTOML is shorthand for Decode with FormatTOML.
func DecodeTOML(r io.Reader) (Script, error) { return Decode(r, FormatTOML) }

// DecodeYAML is shorthand for Decode with FormatYAML.
func DecodeYAML(r io.Reader) (Script, error) { return Decode(r, FormatYAML) }

// DecodeJSON is shorthand for Decode with FormatJSON.
func DecodeJSON(r io.Reader) (Script, error) { return Decode(r, FormatJSON) }

func (f file) script() (Script, error) {
	var opts []Option
	opts = append(opts, WithMeta(Meta{Title: f.Deck.Title, Author: f.Deck.Author, Subject: f.Deck.Subject}))

	if f.Deck.WidthIn != 0 || f.Deck.HeightIn != 0 {
		c := deck.Canvas{Width: deck.Inches(f.Deck.WidthIn), Height: deck.Inches(f.Deck.HeightIn)}
		if err := c.Validate(); err != nil {
			return Script{}, err
		}
		opts = append(opts, WithCanvas(c))
	}

	if len(f.Layouts) > 0 {
		layouts, err := parseLayouts(f.Layouts)
		if err != nil {
			return Script{}, err
		}
		opts = append(opts, WithLayouts(layouts))
	}

	entries := make([]Entry, 0, len(f.Slides))
	for i, fs := range f.Slides {
		e, err := fs.entry()
		if err != nil {
			return Script{}, fmt.Errorf("slide %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return NewWithOptions(entries, opts), nil
}

func (fs fileSlide) entry() (Entry, error) {
	kind, err := deck.ParseKind(fs.Kind)
	if err != nil {
		return Entry{}, err
	}
	if err := errors.ValidateText(fs.Title); err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInvalidScript, err, "title")
	}
	if fs.Subtitle != nil {
		if err := errors.ValidateText(*fs.Subtitle); err != nil {
			return Entry{}, errors.Wrap(errors.ErrCodeInvalidScript, err, "subtitle")
		}
	}
	e := Entry{Kind: kind, Title: fs.Title, Subtitle: fs.Subtitle}
	if kind == deck.KindContent {
		e.Outline, err = ParseOutline(fs.Outline)
		if err != nil {
			return Entry{}, err
		}
	} else if len(fs.Outline) > 0 {
		return Entry{}, errors.New(errors.ErrCodeInvalidScript, "%s slide %q cannot carry an outline", kind, fs.Title)
	}
	return e, nil
}

// ParseOutline converts decoded outline data into outline items. Each
// element must be a string (a top-level line) or a two-element
// [text, level] list. Anything else fails with MALFORMED_OUTLINE_ELEMENT.
// Levels are not range-checked here; the deck factory rejects negatives.
func ParseOutline(raw []any) ([]deck.OutlineItem, error) {
	items := make([]deck.OutlineItem, 0, len(raw))
	for i, el := range raw {
		switch v := el.(type) {
		case string:
			if err := errors.ValidateText(v); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "outline element %d", i)
			}
			items = append(items, deck.Plain(v))
		case []any:
			if len(v) != 2 {
				return nil, errors.New(errors.ErrCodeMalformedOutlineElement, "outline element %d has %d parts, want [text, level]", i, len(v))
			}
			text, ok := v[0].(string)
			if !ok {
				return nil, errors.New(errors.ErrCodeMalformedOutlineElement, "outline element %d: text must be a string, got %T", i, v[0])
			}
			if err := errors.ValidateText(text); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "outline element %d", i)
			}
			level, ok := toInt(v[1])
			if !ok {
				return nil, errors.New(errors.ErrCodeMalformedOutlineElement, "outline element %d: level must be an integer, got %v", i, v[1])
			}
			items = append(items, deck.Nested(text, level))
		default:
			return nil, errors.New(errors.ErrCodeMalformedOutlineElement, "outline element %d is neither text nor a [text, level] pair (got %T)", i, el)
		}
	}
	return items, nil
}

// toInt accepts the integer representations produced by the three decoders.
// Values outside the int range are rejected rather than wrapped.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt || n >= -math.MinInt {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return toInt(i)
	default:
		return 0, false
	}
}

func parseLayouts(raw map[string]fileLayout) (deck.LayoutMap, error) {
	defaults := deck.DefaultLayouts()
	out := make(deck.LayoutMap, len(raw))
	for name, fl := range raw {
		kind, err := deck.ParseKind(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "layouts.%s", name)
		}
		a := deck.Archetype{Name: fl.Name, Index: fl.Index, Regions: defaults[kind].Regions}
		if len(fl.Regions) > 0 {
			a.Regions = make([]deck.Region, len(fl.Regions))
			for i, r := range fl.Regions {
				a.Regions[i] = deck.Region(r)
			}
		}
		if a.Name == "" {
			a.Name = defaults[kind].Name
		}
		out[kind] = a
	}
	return out, nil
}

// Encode writes s in the given format.
func Encode(w io.Writer, s Script, format string) error {
	f := toFile(s)
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(f)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(f)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown script format %q (must be toml, yaml or json)", format)
	}
}

func toFile(s Script) file {
	m := s.Meta()
	f := file{Deck: fileDeck{Title: m.Title, Author: m.Author, Subject: m.Subject}}
	if c, ok := s.Canvas(); ok {
		f.Deck.WidthIn = c.Width.Inches()
		f.Deck.HeightIn = c.Height.Inches()
	}
	if layouts := s.Layouts(); len(layouts) > 0 {
		f.Layouts = make(map[string]fileLayout, len(layouts))
		for k, a := range layouts {
			fl := fileLayout{Name: a.Name, Index: a.Index}
			for _, r := range a.Regions {
				fl.Regions = append(fl.Regions, string(r))
			}
			f.Layouts[k.String()] = fl
		}
	}
	f.Slides = make([]fileSlide, 0, s.Len())
	for _, e := range s.Entries() {
		fs := fileSlide{Kind: e.Kind.String(), Title: e.Title, Subtitle: e.Subtitle}
		for _, item := range e.Outline {
			switch it := item.(type) {
			case deck.PlainLine:
				fs.Outline = append(fs.Outline, it.Text)
			case deck.LevelPair:
				fs.Outline = append(fs.Outline, []any{it.Text, it.Level})
			}
		}
		f.Slides = append(f.Slides, fs)
	}
	return f
}
