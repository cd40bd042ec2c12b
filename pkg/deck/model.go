package deck

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/deckbuild/pkg/errors"
)

// EMU is a length in English Metric Units, the unit used by presentation
// packages. One inch is 914400 EMU.
type EMU int64

// EMUPerInch is the number of EMU in one inch.
const EMUPerInch EMU = 914400

// Inches converts a length in inches to EMU.
func Inches(in float64) EMU {
	return EMU(in * float64(EMUPerInch))
}

// Inches returns the length in inches.
func (e EMU) Inches() float64 {
	return float64(e) / float64(EMUPerInch)
}

// Canvas holds the slide dimensions of a deck.
type Canvas struct {
	Width  EMU `json:"width"`
	Height EMU `json:"height"`
}

// DefaultCanvas is a 4:3 canvas of 10in × 7.5in.
var DefaultCanvas = Canvas{Width: Inches(10), Height: Inches(7.5)}

// Validate reports an INVALID_CANVAS error if either side is not positive.
func (c Canvas) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidCanvas, "canvas must have positive dimensions, got %d×%d EMU", c.Width, c.Height)
	}
	return nil
}

// Kind selects a slide variant.
type Kind int

const (
	// KindTitle is a cover slide with a title and optional subtitle.
	KindTitle Kind = iota
	// KindContent is a slide with a title and a bulleted outline.
	KindContent
	// KindSection is a divider slide carrying only a title.
	KindSection
)

var kindNames = map[Kind]string{
	KindTitle:   "title",
	KindContent: "content",
	KindSection: "section",
}

// Kinds lists every slide kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindTitle, KindContent, KindSection}
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind parses a kind name ("title", "content" or "section").
// Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidScript, "unknown slide kind %q (must be title, content or section)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidScript, "unknown slide kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Slide is one slide of a deck. The concrete type is always one of
// *TitleSlide, *ContentSlide or *SectionSlide.
type Slide interface {
	Kind() Kind
	Title() string
	Layout() Archetype

	slide()
}

// TitleSlide is a cover slide.
type TitleSlide struct {
	title    string
	subtitle *string
	layout   Archetype
}

func (*TitleSlide) slide() {}

// Kind returns KindTitle.
func (*TitleSlide) Kind() Kind { return KindTitle }

// Title returns the slide title.
func (s *TitleSlide) Title() string { return s.title }

// Layout returns a copy of the archetype the slide was built with.
func (s *TitleSlide) Layout() Archetype { return s.layout.Clone() }

// Subtitle returns the subtitle and whether one was supplied. An absent
// subtitle reports ok == false rather than an empty string.
func (s *TitleSlide) Subtitle() (string, bool) {
	if s.subtitle == nil {
		return "", false
	}
	return *s.subtitle, true
}

// ContentSlide is a slide with a bulleted body.
type ContentSlide struct {
	title   string
	outline []LeveledLine
	layout  Archetype
}

func (*ContentSlide) slide() {}

// Kind returns KindContent.
func (*ContentSlide) Kind() Kind { return KindContent }

// Title returns the slide title.
func (s *ContentSlide) Title() string { return s.title }

// Layout returns the archetype the slide was built with.
func (s *ContentSlide) Layout() Archetype { return s.layout.Clone() }

// Outline returns a copy of the slide's leveled lines in order.
func (s *ContentSlide) Outline() []LeveledLine { return slices.Clone(s.outline) }

// Len returns the number of body lines.
func (s *ContentSlide) Len() int { return len(s.outline) }

// SectionSlide divides a deck into parts. It carries no body content.
type SectionSlide struct {
	title  string
	layout Archetype
}

func (*SectionSlide) slide() {}

// Kind returns KindSection.
func (*SectionSlide) Kind() Kind { return KindSection }

// Title returns the slide title.
func (s *SectionSlide) Title() string { return s.title }

// Layout returns the archetype the slide was built with.
func (s *SectionSlide) Layout() Archetype { return s.layout.Clone() }

// Deck is a frozen, ordered sequence of slides on a fixed canvas.
// Decks are only created by [Builder.Freeze].
type Deck struct {
	canvas Canvas
	slides []Slide
}

// Canvas returns the deck dimensions.
func (d *Deck) Canvas() Canvas { return d.canvas }

// Len returns the number of slides.
func (d *Deck) Len() int { return len(d.slides) }

// Slide returns the i-th slide. It panics if i is out of range.
func (d *Deck) Slide(i int) Slide { return d.slides[i] }

// Slides returns a copy of the slide sequence in insertion order.
func (d *Deck) Slides() []Slide { return slices.Clone(d.slides) }

// CountByKind returns how many slides of each kind the deck holds.
func (d *Deck) CountByKind() map[Kind]int {
	counts := make(map[Kind]int, len(kindNames))
	for _, s := range d.slides {
		counts[s.Kind()]++
	}
	return counts
}

// Builder accumulates slides in order and produces a [Deck].
//
// The canvas is fixed when the builder is created. After [Builder.Freeze]
// the builder rejects further appends. A builder that is abandoned before
// Freeze never yields a deck.
type Builder struct {
	canvas Canvas
	slides []Slide
	frozen bool
}

// NewBuilder returns a builder for a deck with the given canvas.
func NewBuilder(canvas Canvas) (*Builder, error) {
	if err := canvas.Validate(); err != nil {
		return nil, err
	}
	return &Builder{canvas: canvas}, nil
}

// Grow reserves capacity for n more slides.
func (b *Builder) Grow(n int) {
	b.slides = slices.Grow(b.slides, n)
}

// Append adds s at the end of the slide sequence.
func (b *Builder) Append(s Slide) error {
	if b.frozen {
		return errors.New(errors.ErrCodeInternal, "append to frozen deck")
	}
	if s == nil {
		return errors.New(errors.ErrCodeInternal, "append nil slide")
	}
	b.slides = append(b.slides, s)
	return nil
}

// Len returns the number of slides appended so far.
func (b *Builder) Len() int { return len(b.slides) }

// Freeze returns the finished deck. Subsequent appends fail.
func (b *Builder) Freeze() *Deck {
	b.frozen = true
	return &Deck{canvas: b.canvas, slides: slices.Clip(b.slides)}
}
