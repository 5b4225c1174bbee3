// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package location provides a model of EMBL/GenBank feature table locations
// and conversion between the model and its textual representation.
//
// Coordinates are 1-based and inclusive, as they appear in flat files.
// A location is one of Point, Range, FuzzyPoint, FuzzyRange, Between or
// Compound, and is paired with a single feature-wide strand by Stranded.
package location

import (
	"math"

	"github.com/biogo/biogo/seq"
	"github.com/pkg/errors"
)

var (
	// ErrMalformedLocation is returned when location text cannot be parsed
	// or a location value violates the model's invariants.
	ErrMalformedLocation = errors.New("location: malformed location")

	// ErrRemoteLocation is returned when location text refers to a
	// position on another entry, for example "AL123456:(100..200)".
	ErrRemoteLocation = errors.New("location: remote location not supported")
)

// Sentinel coordinates marking an unbounded side of a fuzzy location.
const (
	NegInf = math.MinInt
	PosInf = math.MaxInt
)

// Location is a feature location. The concrete types satisfying Location are
// Point, Range, FuzzyPoint, FuzzyRange, Between and Compound.
type Location interface {
	// Min returns the lowest coordinate of the location. It is NegInf
	// for locations with an unbounded lower side.
	Min() int
	// Max returns the highest coordinate of the location. It is PosInf
	// for locations with an unbounded upper side.
	Max() int

	isLocation()
}

// Point is a single base.
type Point struct {
	Pos int
}

func (p Point) Min() int  { return p.Pos }
func (p Point) Max() int  { return p.Pos }
func (Point) isLocation() {}

// Range is a contiguous span of bases from From to To inclusive.
type Range struct {
	From, To int
}

func (r Range) Min() int  { return r.From }
func (r Range) Max() int  { return r.To }
func (Range) isLocation() {}

// FuzzyPoint is a single base whose position lies somewhere in [From, To].
// An unbounded side holds the corresponding sentinel, NegInf or PosInf.
type FuzzyPoint struct {
	From, To               int
	MinBounded, MaxBounded bool
}

func (p FuzzyPoint) Min() int  { return p.From }
func (p FuzzyPoint) Max() int  { return p.To }
func (FuzzyPoint) isLocation() {}

// FuzzyRange is a span whose ends are uncertain. The start lies in
// [OuterMin, InnerMin] and the end lies in [InnerMax, OuterMax]. An
// unbounded side holds the corresponding sentinel in its outer coordinate.
type FuzzyRange struct {
	OuterMin, InnerMin     int
	InnerMax, OuterMax     int
	MinBounded, MaxBounded bool
}

func (r FuzzyRange) Min() int  { return r.OuterMin }
func (r FuzzyRange) Max() int  { return r.OuterMax }
func (FuzzyRange) isLocation() {}

// Between is a site between two adjacent bases, written "From^To".
type Between struct {
	From, To int
}

func (b Between) Min() int  { return b.From }
func (b Between) Max() int  { return b.To }
func (Between) isLocation() {}

// Compound is an ordered join of two or more non-compound locations.
// Both join and order text forms are represented by Compound.
type Compound struct {
	Children []Location
}

func (c Compound) Min() int {
	m := PosInf
	for _, l := range c.Children {
		if v := l.Min(); v < m {
			m = v
		}
	}
	return m
}

func (c Compound) Max() int {
	m := NegInf
	for _, l := range c.Children {
		if v := l.Max(); v > m {
			m = v
		}
	}
	return m
}

func (Compound) isLocation() {}

// Stranded is a location with a feature-wide strand.
type Stranded struct {
	Location Location
	Strand   seq.Strand
}

// String returns the canonical text form of s without line wrapping.
func (s Stranded) String() string {
	if s.Location == nil {
		return ""
	}
	return Format(s, "", math.MaxInt)
}

// NewCompound returns a location joining the provided locations. Compound
// children are flattened into the result. If only one location remains it
// is returned unwrapped. NewCompound returns nil if no locations are given.
func NewCompound(locs ...Location) Location {
	var children []Location
	for _, l := range locs {
		if c, ok := l.(Compound); ok {
			children = append(children, c.Children...)
			continue
		}
		children = append(children, l)
	}
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	}
	return Compound{Children: children}
}

// Segments returns the top-level segments of l: the children of a Compound,
// or l itself.
func Segments(l Location) []Location {
	if c, ok := l.(Compound); ok {
		return c.Children
	}
	return []Location{l}
}

// Bounds returns the extent of l using only bounded coordinates. For an
// unbounded side the known coordinate is used, so "<10..20" has bounds
// 10 and 20.
func Bounds(l Location) (min, max int) {
	switch l := l.(type) {
	case Point:
		return l.Pos, l.Pos
	case Range:
		return l.From, l.To
	case Between:
		return l.From, l.To
	case FuzzyPoint:
		min, max = l.From, l.To
		if !l.MinBounded {
			min = max
		}
		if !l.MaxBounded {
			max = min
		}
		return min, max
	case FuzzyRange:
		min, max = l.OuterMin, l.OuterMax
		if !l.MinBounded {
			min = l.InnerMin
		}
		if !l.MaxBounded {
			max = l.InnerMax
		}
		return min, max
	case Compound:
		min, max = PosInf, NegInf
		for _, c := range l.Children {
			cmin, cmax := Bounds(c)
			if cmin < min {
				min = cmin
			}
			if cmax > max {
				max = cmax
			}
		}
		return min, max
	}
	panic("location: unknown location type")
}

// Validate returns an error wrapping ErrMalformedLocation if l violates the
// invariants of the location model.
func Validate(l Location) error {
	switch l := l.(type) {
	case nil:
		return errors.Wrap(ErrMalformedLocation, "nil location")
	case Point:
		if isSentinel(l.Pos) {
			return errors.Wrap(ErrMalformedLocation, "unbounded point")
		}
	case Range:
		if isSentinel(l.From) || isSentinel(l.To) {
			return errors.Wrap(ErrMalformedLocation, "unbounded range")
		}
		if l.From > l.To {
			return errors.Wrapf(ErrMalformedLocation, "range start %d after end %d", l.From, l.To)
		}
	case Between:
		if isSentinel(l.From) || isSentinel(l.To) {
			return errors.Wrap(ErrMalformedLocation, "unbounded between location")
		}
		if l.From > l.To {
			return errors.Wrapf(ErrMalformedLocation, "between start %d after end %d", l.From, l.To)
		}
	case FuzzyPoint:
		if l.MinBounded == (l.From == NegInf) || l.MaxBounded == (l.To == PosInf) {
			return errors.Wrap(ErrMalformedLocation, "fuzzy point bound flag disagrees with coordinate")
		}
		if !l.MinBounded && !l.MaxBounded {
			return errors.Wrap(ErrMalformedLocation, "fuzzy point unbounded on both sides")
		}
		if l.From > l.To {
			return errors.Wrapf(ErrMalformedLocation, "fuzzy point min %d after max %d", l.From, l.To)
		}
	case FuzzyRange:
		if l.MinBounded == (l.OuterMin == NegInf) || l.MaxBounded == (l.OuterMax == PosInf) {
			return errors.Wrap(ErrMalformedLocation, "fuzzy range bound flag disagrees with coordinate")
		}
		if isSentinel(l.InnerMin) || isSentinel(l.InnerMax) {
			return errors.Wrap(ErrMalformedLocation, "unbounded inner coordinate")
		}
		if l.OuterMin > l.InnerMin || l.InnerMax > l.OuterMax || l.OuterMin > l.OuterMax {
			return errors.Wrap(ErrMalformedLocation, "fuzzy range bounds out of order")
		}
	case Compound:
		if len(l.Children) < 2 {
			return errors.Wrapf(ErrMalformedLocation, "compound with %d children", len(l.Children))
		}
		for _, c := range l.Children {
			if _, ok := c.(Compound); ok {
				return errors.Wrap(ErrMalformedLocation, "nested compound")
			}
			if err := Validate(c); err != nil {
				return err
			}
		}
	default:
		return errors.Wrapf(ErrMalformedLocation, "unknown location type %T", l)
	}
	return nil
}

func isSentinel(v int) bool { return v == NegInf || v == PosInf }
