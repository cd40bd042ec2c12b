package deck

import (
	"github.com/matzehuels/deckbuild/pkg/errors"
)

// Points is a font size in typographic points.
type Points int

// Font sizes in points for outline text. Top-level bullets are set larger
// than every nested bullet; depth beyond the first indent does not shrink
// text further.
const (
	TopLevelFontSize = 18
	NestedFontSize   = 16
)

// FontSizeForLevel returns the font size for a line at the given indent
// level: [TopLevelFontSize] for level 0, [NestedFontSize] for any deeper
// level. Negative levels never come out of [Expand] or [NewLeveledLine];
// they are sized as top-level text.
func FontSizeForLevel(level int) Points {
	if level <= 0 {
		return TopLevelFontSize
	}
	return NestedFontSize
}

// LeveledLine is one bullet of body text with its indent level. Lines
// built by [Expand] or [NewLeveledLine] always have a non-negative level;
// a struct literal bypasses that check.
type LeveledLine struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// NewLeveledLine returns a line at the given level. A negative level fails
// with INVALID_LEVEL.
func NewLeveledLine(text string, level int) (LeveledLine, error) {
	if level < 0 {
		return LeveledLine{}, errors.New(errors.ErrCodeInvalidLevel, "level must be non-negative, got %d for %q", level, text)
	}
	return LeveledLine{Text: text, Level: level}, nil
}

// FontSize returns the rendering size for the line.
func (l LeveledLine) FontSize() Points {
	return FontSizeForLevel(l.Level)
}

// OutlineItem is one raw element of a content slide's body. The concrete
// type is either [PlainLine] or [LevelPair].
type OutlineItem interface {
	outlineItem()
}

// PlainLine is bare text at the top level.
type PlainLine struct {
	Text string
}

// LevelPair is text with an explicit indent level.
type LevelPair struct {
	Text  string
	Level int
}

func (PlainLine) outlineItem() {}
func (LevelPair) outlineItem() {}

// Plain returns a top-level outline item.
func Plain(text string) OutlineItem { return PlainLine{Text: text} }

// Nested returns an outline item at an explicit level.
func Nested(text string, level int) OutlineItem { return LevelPair{Text: text, Level: level} }

// Expand converts outline items to leveled lines. The result has one line
// per item in input order. Explicit levels are used verbatim; a negative
// level fails with INVALID_LEVEL and a nil item with
// MALFORMED_OUTLINE_ELEMENT.
func Expand(items []OutlineItem) ([]LeveledLine, error) {
	lines := make([]LeveledLine, 0, len(items))
	for i, item := range items {
		switch it := item.(type) {
		case PlainLine:
			lines = append(lines, LeveledLine{Text: it.Text})
		case LevelPair:
			if it.Level < 0 {
				return nil, errors.New(errors.ErrCodeInvalidLevel, "outline element %d: level must be non-negative, got %d for %q", i, it.Level, it.Text)
			}
			lines = append(lines, LeveledLine{Text: it.Text, Level: it.Level})
		default:
			return nil, errors.New(errors.ErrCodeMalformedOutlineElement, "outline element %d is neither text nor a (text, level) pair", i)
		}
	}
	return lines, nil
}
