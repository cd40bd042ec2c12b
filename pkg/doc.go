// Package pkg provides the core libraries for deckbuild.
//
// # Overview
//
// deckbuild turns an ordered construction script into a presentation deck.
// Each script entry names a slide kind (title, content or section), and the
// engine builds one slide per entry with a fixed layout archetype. Content
// slides carry a bullet outline whose items may be nested to any depth.
//
// # Architecture
//
// The data flow through deckbuild:
//
//	Construction script (TOML / YAML / JSON / Go)
//	         ↓
//	    [script] package (decode entries)
//	         ↓
//	    [assembler] package (entry order, fail-fast, optional parallelism)
//	         ↓
//	    [deck] package (outline expansion + slide factory)
//	         ↓
//	    [sink] package (PPTX / JSON output)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/deckbuild/pkg/assembler"
//	    "github.com/matzehuels/deckbuild/pkg/deck"
//	    "github.com/matzehuels/deckbuild/pkg/script"
//	    "github.com/matzehuels/deckbuild/pkg/sink"
//	)
//
//	s := script.New(
//	    script.TitleWithSubtitle("Inteligencia Artificial Autónoma", "Actualizado 2025"),
//	    script.Content("Agenda",
//	        deck.Plain("Fundamentos"),
//	        deck.Nested("RPA", 1),
//	    ),
//	    script.Section("Parte II"),
//	)
//
//	d, _ := assembler.New().Assemble(context.Background(), s)
//	pptx, _ := sink.RenderPPTX(d)
//
// # Main Packages
//
// [deck] - The content model (canvas, slide kinds, leveled lines), the
// outline expander and the slide factory with its layout archetypes.
//
// [script] - Construction scripts: entry constructors plus TOML, YAML and
// JSON codecs and the bundled sample deck.
//
// [assembler] - Runs a script through the factory in entry order and
// freezes the result. Stops at the first invalid entry.
//
// [sink] - Output formats. PPTX is written with GoPPT; JSON is the
// canonical form used for hashing and the HTTP API.
//
// [pipeline] - Assemble → render with caching, shared by the CLI and the
// HTTP server.
//
// [cache] - File, Redis and null caches with TTLs and key derivation.
//
// [observability] - Hooks for pipeline, assembly, cache and HTTP events.
//
// [errors] - Coded errors and input validation.
//
// # Testing
//
//	go test ./...                        # All tests
//	go test ./pkg/deck/...               # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [deck]: https://pkg.go.dev/github.com/matzehuels/deckbuild/pkg/deck
// [script]: https://pkg.go.dev/github.com/matzehuels/deckbuild/pkg/script
// [assembler]: https://pkg.go.dev/github.com/matzehuels/deckbuild/pkg/assembler
// [sink]: https://pkg.go.dev/github.com/matzehuels/deckbuild/pkg/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/deckbuild/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/deckbuild/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/deckbuild/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/deckbuild/pkg/errors
package pkg
