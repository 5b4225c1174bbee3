// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package featindex provides overlap queries and coverage over assembled
// feature table features.
package featindex

import (
	"github.com/biogo/biogo/feat"
	"github.com/biogo/flatfile/ftable"
	"github.com/biogo/flatfile/location"
	"github.com/biogo/store/interval"
	"github.com/biogo/store/step"
	"github.com/pkg/errors"
)

// segment is a single location segment of an indexed feature, held in
// zero-based half-open coordinates.
type segment struct {
	id         uintptr
	start, end int
	feature    int // Index into Index.features.
}

func (s *segment) Overlap(b interval.IntRange) bool { return s.end > b.Start && s.start < b.End }
func (s *segment) ID() uintptr                      { return s.id }
func (s *segment) Range() interval.IntRange         { return interval.IntRange{Start: s.start, End: s.end} }

// query is an interval.IntOverlapper for a single location segment.
type query struct {
	start, end int
}

func (q query) Overlap(b interval.IntRange) bool { return q.end > b.Start && q.start < b.End }

// Index is an interval index of feature templates. Each top-level segment
// of a feature's location is indexed separately, so the gaps of a joined
// feature do not match queries.
type Index struct {
	tree     interval.IntTree
	features []*ftable.Template
	nextID   uintptr
	dirty    bool
}

// Insert adds t to the index.
func (x *Index) Insert(t *ftable.Template) error {
	if t.Loc.Location == nil {
		return errors.Errorf("featindex: %s feature has no location", t.Type)
	}
	fi := len(x.features)
	x.features = append(x.features, t)
	for _, l := range location.Segments(t.Loc.Location) {
		s := span(l)
		seg := &segment{id: x.nextID, start: s.start, end: s.end, feature: fi}
		x.nextID++
		if err := x.tree.Insert(seg, true); err != nil {
			return errors.Wrapf(err, "featindex: inserting %s feature", t.Type)
		}
	}
	x.dirty = true
	return nil
}

// Len returns the number of features in the index.
func (x *Index) Len() int { return len(x.features) }

// Overlapping returns the indexed features that have a segment overlapping
// a segment of loc, in the order they were inserted.
func (x *Index) Overlapping(loc location.Location) []*ftable.Template {
	if loc == nil {
		return nil
	}
	x.adjust()
	hit := make(map[int]bool)
	for _, l := range location.Segments(loc) {
		x.tree.DoMatching(func(iv interval.IntInterface) (done bool) {
			hit[iv.(*segment).feature] = true
			return
		}, span(l))
	}
	var found []*ftable.Template
	for i, t := range x.features {
		if hit[i] {
			found = append(found, t)
		}
	}
	return found
}

// Depth is a feature coverage depth satisfying the step.Equaler interface.
type Depth int

// Equal returns whether d equals e. Equal assumes the underlying type of e is Depth.
func (d Depth) Equal(e step.Equaler) bool { return d == e.(Depth) }

// Coverage returns a step vector over the zero-based positions [0, length)
// holding the number of indexed features covering each position. Segments
// extending past length are clipped.
func (x *Index) Coverage(length int) (*step.Vector, error) {
	v, err := step.New(0, length, Depth(0))
	if err != nil {
		return nil, err
	}
	inc := func(e step.Equaler) step.Equaler { return e.(Depth) + 1 }
	for _, t := range x.features {
		for _, l := range location.Segments(t.Loc.Location) {
			s := span(l)
			if s.start < 0 {
				s.start = 0
			}
			if s.end > length {
				s.end = length
			}
			if s.start >= s.end {
				continue
			}
			if err := v.ApplyRange(s.start, s.end, inc); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}

func (x *Index) adjust() {
	if x.dirty {
		x.tree.AdjustRanges()
		x.dirty = false
	}
}

// span returns the zero-based half-open extent of a location segment.
// A between location covers the two bases it separates.
func span(l location.Location) query {
	min, max := location.Bounds(l)
	return query{start: feat.OneToZero(min), end: max}
}
