package deck

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/deckbuild/pkg/errors"
)

// Region names a placeholder area that a layout archetype provides.
type Region string

// Regions populated by the slide kinds.
const (
	RegionTitle    Region = "title"
	RegionSubtitle Region = "subtitle"
	RegionBody     Region = "body"
)

// Archetype is a named slide template: its position in the master layout
// list and the regions it offers.
type Archetype struct {
	Name    string   `json:"name"`
	Index   int      `json:"index"`
	Regions []Region `json:"regions"`
}

// Has reports whether the archetype provides region r.
func (a Archetype) Has(r Region) bool {
	return slices.Contains(a.Regions, r)
}

// Clone returns a copy that shares no regions with a.
func (a Archetype) Clone() Archetype {
	a.Regions = slices.Clone(a.Regions)
	return a
}

func (a Archetype) String() string {
	return fmt.Sprintf("%s#%d", a.Name, a.Index)
}

// LayoutMap assigns a layout archetype to each slide kind.
type LayoutMap map[Kind]Archetype

// DefaultLayouts returns the conventional master layouts: the title layout
// at index 0, title-and-content at 1 and the section header at 2.
func DefaultLayouts() LayoutMap {
	return LayoutMap{
		KindTitle: {
			Name:    "Title Slide",
			Index:   0,
			Regions: []Region{RegionTitle, RegionSubtitle},
		},
		KindContent: {
			Name:    "Title and Content",
			Index:   1,
			Regions: []Region{RegionTitle, RegionBody},
		},
		KindSection: {
			Name:    "Section Header",
			Index:   2,
			Regions: []Region{RegionTitle},
		},
	}
}

// requiredRegions lists the regions each kind writes into.
// Title slides only need a subtitle region when a subtitle is present,
// which the factory checks per slide.
var requiredRegions = map[Kind][]Region{
	KindTitle:   {RegionTitle},
	KindContent: {RegionTitle, RegionBody},
	KindSection: {RegionTitle},
}

// Validate checks that every kind has an archetype providing the regions
// that kind populates.
func (m LayoutMap) Validate() error {
	for _, k := range Kinds() {
		a, ok := m[k]
		if !ok {
			return errors.New(errors.ErrCodeInvalidLayout, "no layout for %s slides", k)
		}
		if a.Index < 0 {
			return errors.New(errors.ErrCodeInvalidLayout, "layout %q for %s slides has negative index %d", a.Name, k, a.Index)
		}
		for _, r := range requiredRegions[k] {
			if !a.Has(r) {
				return errors.New(errors.ErrCodeInvalidLayout, "layout %q for %s slides lacks a %s region", a.Name, k, r)
			}
		}
	}
	return nil
}

// Merge returns a copy of m with the entries of overrides replacing those
// of the same kind.
func (m LayoutMap) Merge(overrides LayoutMap) LayoutMap {
	out := maps.Clone(m)
	if out == nil {
		out = make(LayoutMap, len(overrides))
	}
	maps.Copy(out, overrides)
	return out
}

// Clone returns a deep copy of m.
func (m LayoutMap) Clone() LayoutMap {
	out := make(LayoutMap, len(m))
	for k, a := range m {
		out[k] = a.Clone()
	}
	return out
}
