package sink

import (
	"bytes"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/matzehuels/deckbuild/pkg/deck"
	"github.com/matzehuels/deckbuild/pkg/errors"
)

// Font sizes (pt) for text outside the body outline.
const (
	titleFontSize    = 40
	headingFontSize  = 32
	subtitleFontSize = 24
	sectionFontSize  = 36
)

// Outline paragraph properties. DrawingML paragraph levels run 0..8, so
// deeper outline levels share the innermost package level.
const (
	maxParagraphLevel = 8
	levelIndent       = deck.EMU(342900)
	topBullet         = "•"
	nestedBullet      = "–"
)

// frame is a shape position as fractions of the canvas.
type frame struct {
	x, y, w, h float64
}

// Shape frames per region. Title-slide text is centered vertically,
// content slides put the heading on top, section headers sit mid-slide.
var (
	titleSlideTitle    = frame{0.075, 0.30, 0.85, 0.18}
	titleSlideSubtitle = frame{0.15, 0.52, 0.70, 0.25}
	contentTitle       = frame{0.05, 0.04, 0.90, 0.15}
	contentBody        = frame{0.05, 0.22, 0.90, 0.70}
	sectionTitle       = frame{0.075, 0.40, 0.85, 0.20}
)

type pptxConfig struct {
	title   string
	creator string
}

// PPTXOption configures [RenderPPTX].
type PPTXOption func(*pptxConfig)

// WithDocumentTitle sets the package's document title. Empty values are
// ignored; the default is the first slide's title.
func WithDocumentTitle(title string) PPTXOption {
	return func(c *pptxConfig) {
		if title != "" {
			c.title = title
		}
	}
}

// WithCreator sets the package's creator property.
func WithCreator(creator string) PPTXOption {
	return func(c *pptxConfig) {
		if creator != "" {
			c.creator = creator
		}
	}
}

// RenderPPTX writes d as a PowerPoint 2007 package. Slides appear in deck
// order, one package slide per deck slide. Shapes are positioned relative
// to the deck canvas.
func RenderPPTX(d *deck.Deck, opts ...PPTXOption) ([]byte, error) {
	cfg := pptxConfig{creator: "deckbuild"}
	if d.Len() > 0 {
		cfg.title = d.Slide(0).Title()
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	canvas := d.Canvas()

	p := ppt.New()
	p.GetDocumentProperties().Title = cfg.title
	p.GetDocumentProperties().Creator = cfg.creator
	p.GetLayout().SetCustomLayout(int64(canvas.Width), int64(canvas.Height))

	for i, s := range d.Slides() {
		// A new presentation already holds one empty slide.
		slide := p.GetActiveSlide()
		if i > 0 {
			slide = p.CreateSlide()
		}
		switch s := s.(type) {
		case *deck.TitleSlide:
			writeTitleSlide(slide, canvas, s)
		case *deck.ContentSlide:
			writeContentSlide(slide, canvas, s)
		case *deck.SectionSlide:
			writeSectionSlide(slide, canvas, s)
		default:
			return nil, errors.New(errors.ErrCodeInternal, "slide %d: unexpected type %T", i, s)
		}
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create pptx writer")
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write pptx")
	}
	return buf.Bytes(), nil
}

func writeTitleSlide(slide *ppt.Slide, c deck.Canvas, s *deck.TitleSlide) {
	title := placeShape(slide, c, titleSlideTitle)
	tr := title.CreateTextRun(s.Title())
	tr.GetFont().SetSize(titleFontSize).SetBold(true)
	alignCenter(title.GetActiveParagraph())

	sub, ok := s.Subtitle()
	if !ok {
		return
	}
	shape := placeShape(slide, c, titleSlideSubtitle)
	for i, line := range strings.Split(sub, "\n") {
		if i > 0 {
			shape.CreateParagraph()
		}
		shape.CreateTextRun(line).GetFont().SetSize(subtitleFontSize)
		alignCenter(shape.GetActiveParagraph())
	}
}

func writeContentSlide(slide *ppt.Slide, c deck.Canvas, s *deck.ContentSlide) {
	title := placeShape(slide, c, contentTitle)
	title.CreateTextRun(s.Title()).GetFont().SetSize(headingFontSize).SetBold(true)

	body := placeShape(slide, c, contentBody)
	for i, line := range s.Outline() {
		para := body.GetActiveParagraph()
		if i > 0 {
			para = body.CreateParagraph()
		}
		setBullet(para, line.Level)
		para.CreateTextRun(line.Text).GetFont().SetSize(int(line.FontSize()))
	}
}

func writeSectionSlide(slide *ppt.Slide, c deck.Canvas, s *deck.SectionSlide) {
	title := placeShape(slide, c, sectionTitle)
	title.CreateTextRun(s.Title()).GetFont().SetSize(sectionFontSize).SetBold(true)
	alignCenter(title.GetActiveParagraph())
}

func placeShape(slide *ppt.Slide, c deck.Canvas, f frame) *ppt.RichTextShape {
	shape := slide.CreateRichTextShape()
	shape.SetOffsetX(scale(c.Width, f.x)).SetOffsetY(scale(c.Height, f.y))
	shape.SetWidth(scale(c.Width, f.w)).SetHeight(scale(c.Height, f.h))
	return shape
}

func scale(side deck.EMU, frac float64) int64 {
	return int64(float64(side) * frac)
}

func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

// paragraphLevel maps an outline level onto the package's level range.
func paragraphLevel(level int) int {
	return min(max(level, 0), maxParagraphLevel)
}

// setBullet applies the bullet glyph and indent level for an outline line.
func setBullet(para *ppt.Paragraph, level int) {
	lvl := paragraphLevel(level)
	glyph := topBullet
	if lvl > 0 {
		glyph = nestedBullet
	}
	align := ppt.NewAlignment()
	align.Level = lvl
	align.MarginLeft = int64(levelIndent) * int64(lvl+1)
	align.Indent = -int64(levelIndent)
	para.SetAlignment(align)
	para.SetBullet(ppt.NewBullet().SetCharBullet(glyph))
}
