package sink

import (
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/matzehuels/deckbuild/pkg/errors"
)

// SlideText is the visible text of one presentation slide, one entry per
// non-empty paragraph in shape order.
type SlideText struct {
	Paragraphs []string `json:"paragraphs"`
}

// InspectPPTX reads a presentation file and returns the text of each slide.
// It works on any PPTX package, not only ones written by [RenderPPTX].
func InspectPPTX(path string) ([]SlideText, error) {
	reader := &ppt.PPTXReader{}
	pres, err := reader.Read(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	slides := pres.GetAllSlides()
	out := make([]SlideText, 0, len(slides))
	for _, slide := range slides {
		var st SlideText
		for _, shape := range slide.GetShapes() {
			rts, ok := shape.(*ppt.RichTextShape)
			if !ok {
				continue
			}
			for _, para := range rts.GetParagraphs() {
				var sb strings.Builder
				for _, elem := range para.GetElements() {
					if run, ok := elem.(*ppt.TextRun); ok {
						sb.WriteString(run.GetText())
					}
				}
				if text := sb.String(); strings.TrimSpace(text) != "" {
					st.Paragraphs = append(st.Paragraphs, text)
				}
			}
		}
		out = append(out, st)
	}
	return out, nil
}
