// Package deck provides the content model and slide construction for
// deckbuild presentations.
//
// # Overview
//
// A [Deck] is an ordered sequence of slides drawn on a fixed [Canvas]. Each
// slide is one of three variants, selected by [Kind]:
//
//   - [TitleSlide]: a title and an optional subtitle
//   - [ContentSlide]: a title and a bulleted outline of [LeveledLine] values
//   - [SectionSlide]: a title only, used as a divider between parts of a talk
//
// Slides are values with unexported fields. Once a slide has been returned
// by the [Factory] it cannot change, and a deck can only be obtained from
// [Builder.Freeze], so every deck seen outside this package is complete.
//
// # Outlines
//
// Body text enters as a list of [OutlineItem] values. The item type is a
// closed union with exactly two variants: [PlainLine] (text at level 0) and
// [LevelPair] (text with an explicit indent level). [Expand] normalizes such
// a list into leveled lines, preserving order and count:
//
//	lines, err := deck.Expand([]deck.OutlineItem{
//	    deck.Plain("A"),
//	    deck.Nested("B", 1),
//	})
//
// The font size of a line depends only on whether it is at the top level:
// level 0 renders at 18pt and every deeper level at 16pt. See
// [FontSizeForLevel].
//
// # Layouts
//
// Each kind maps to a named layout [Archetype] through a [LayoutMap]. The
// mapping is configuration passed to [NewFactory]; [DefaultLayouts] gives the
// conventional title=0, content=1, section=2 arrangement.
//
// # Concurrency
//
// [Factory] holds no mutable state and may be shared between goroutines.
// [Builder] is not safe for concurrent use.
package deck
