// Package sink serializes frozen decks.
//
// Two formats are supported:
//
//   - pptx: an Office Open XML presentation written with GoPPT
//   - json: a canonical dump of the deck tree, used for debugging and as
//     cache-key material
//
// Sinks never validate. A [deck.Deck] is valid by construction, so every
// deck that reaches a sink can be written.
package sink

import "github.com/matzehuels/deckbuild/pkg/deck"

// Format names accepted by [Render].
const (
	FormatPPTX = "pptx"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPPTX: true,
	FormatJSON: true,
}

// Meta carries document properties that are not part of the deck itself.
type Meta struct {
	Title   string
	Creator string
}

// Render writes d in the named format.
func Render(d *deck.Deck, format string, meta Meta) ([]byte, error) {
	switch format {
	case FormatPPTX:
		return RenderPPTX(d, WithDocumentTitle(meta.Title), WithCreator(meta.Creator))
	case FormatJSON:
		return RenderJSON(d)
	default:
		return nil, unsupportedFormat(format)
	}
}
