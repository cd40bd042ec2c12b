// Package assembler turns a construction script into a frozen deck.
//
// The assembler walks the script's entries in order, asks the slide
// factory for one slide per entry, and appends each slide to a deck
// builder. Assembly is all-or-nothing: the first failing entry aborts the
// run and no deck is returned.
//
// # Usage
//
//	a := assembler.New(assembler.WithLogger(logger))
//	d, err := a.Assemble(ctx, script.Sample())
//	if err != nil {
//	    var ee *assembler.EntryError
//	    if errors.As(err, &ee) {
//	        fmt.Println("entry", ee.Index, "failed")
//	    }
//	}
//
// # Parallel Construction
//
// Slide construction is pure, so [WithParallelism] lets the assembler build
// slides on a bounded worker group. Results are still appended in entry
// order, and when several entries are invalid the one with the lowest
// index is reported, exactly as in sequential mode.
//
// # Cancellation
//
// The context is checked before each entry. A cancelled assembly returns
// the context's error and no deck.
package assembler
