package deck

import (
	"strings"

	"github.com/matzehuels/deckbuild/pkg/errors"
)

// Factory builds slides of each kind using a fixed layout mapping.
type Factory struct {
	layouts LayoutMap
}

// NewFactory returns a factory for the given layouts. A nil map selects
// [DefaultLayouts].
func NewFactory(layouts LayoutMap) (*Factory, error) {
	if layouts == nil {
		layouts = DefaultLayouts()
	}
	if err := layouts.Validate(); err != nil {
		return nil, err
	}
	return &Factory{layouts: layouts.Clone()}, nil
}

// Layouts returns a copy of the factory's layout mapping.
func (f *Factory) Layouts() LayoutMap { return f.layouts.Clone() }

// Title builds a title slide. A nil subtitle leaves the subtitle absent.
func (f *Factory) Title(title string, subtitle *string) (*TitleSlide, error) {
	if err := requireTitle(KindTitle, title); err != nil {
		return nil, err
	}
	layout := f.layouts[KindTitle].Clone()
	s := &TitleSlide{title: title, layout: layout}
	if subtitle != nil {
		if !layout.Has(RegionSubtitle) {
			return nil, errors.New(errors.ErrCodeInvalidLayout, "layout %q has no subtitle region", layout.Name)
		}
		sub := *subtitle
		s.subtitle = &sub
	}
	return s, nil
}

// Content builds a content slide from a raw outline. The outline must
// expand to at least one line.
func (f *Factory) Content(title string, outline []OutlineItem) (*ContentSlide, error) {
	if err := requireTitle(KindContent, title); err != nil {
		return nil, err
	}
	lines, err := Expand(outline)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyOutline, "content slide %q has no body lines", title)
	}
	return &ContentSlide{title: title, outline: lines, layout: f.layouts[KindContent].Clone()}, nil
}

// Section builds a section divider.
func (f *Factory) Section(title string) (*SectionSlide, error) {
	if err := requireTitle(KindSection, title); err != nil {
		return nil, err
	}
	return &SectionSlide{title: title, layout: f.layouts[KindSection].Clone()}, nil
}

// Build dispatches on kind. Arguments a kind does not use are ignored.
func (f *Factory) Build(kind Kind, title string, subtitle *string, outline []OutlineItem) (Slide, error) {
	switch kind {
	case KindTitle:
		return f.Title(title, subtitle)
	case KindContent:
		return f.Content(title, outline)
	case KindSection:
		return f.Section(title)
	default:
		return nil, errors.New(errors.ErrCodeInvalidScript, "unknown slide kind %s", kind)
	}
}

// requireTitle rejects empty and whitespace-only titles.
func requireTitle(kind Kind, title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New(errors.ErrCodeMissingTitle, "%s slide requires a non-empty title", kind)
	}
	return nil
}
