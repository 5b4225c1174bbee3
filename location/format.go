// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package location

import (
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/biogo/seq"
)

// Format returns the feature table text for loc. Segments are written in
// ascending order of position, or descending order when loc is on the minus
// strand, and each segment of a minus strand location is individually
// wrapped in complement(). Compound locations are written as a join.
//
// Output is wrapped before a segment that would extend past width columns.
// Each continuation line begins with leader, and the first line is taken
// to begin at column len(leader). A segment is never split across lines.
func Format(loc Stranded, leader string, width int) string {
	segs := append([]Location(nil), Segments(loc.Location)...)
	sort.SliceStable(segs, func(i, j int) bool {
		if segs[i].Min() != segs[j].Min() {
			return segs[i].Min() < segs[j].Min()
		}
		return segs[i].Max() < segs[j].Max()
	})
	if loc.Strand == seq.Minus {
		for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
			segs[i], segs[j] = segs[j], segs[i]
		}
	}
	_, compound := loc.Location.(Compound)

	var (
		b      strings.Builder
		col    = len(leader)
		inLine int
	)
	for i, s := range segs {
		var piece []byte
		if i == 0 && compound {
			piece = append(piece, opJoin+"("...)
		}
		if loc.Strand == seq.Minus {
			piece = append(piece, opComplement+"("...)
			piece = appendSegment(piece, s)
			piece = append(piece, ')')
		} else {
			piece = appendSegment(piece, s)
		}
		switch {
		case i < len(segs)-1:
			piece = append(piece, ',')
		case compound:
			piece = append(piece, ')')
		}

		if inLine != 0 && col+len(piece) > width {
			b.WriteByte('\n')
			b.WriteString(leader)
			col = len(leader)
			inLine = 0
		}
		b.Write(piece)
		col += len(piece)
		inLine++
	}
	return b.String()
}

// appendSegment appends the text of a single non-compound location to dst.
func appendSegment(dst []byte, l Location) []byte {
	switch l := l.(type) {
	case Point:
		return strconv.AppendInt(dst, int64(l.Pos), 10)
	case Range:
		dst = strconv.AppendInt(dst, int64(l.From), 10)
		dst = append(dst, ".."...)
		return strconv.AppendInt(dst, int64(l.To), 10)
	case Between:
		dst = strconv.AppendInt(dst, int64(l.From), 10)
		dst = append(dst, '^')
		return strconv.AppendInt(dst, int64(l.To), 10)
	case FuzzyPoint:
		switch {
		case !l.MinBounded:
			dst = append(dst, '<')
			return strconv.AppendInt(dst, int64(l.To), 10)
		case !l.MaxBounded:
			dst = append(dst, '>')
			return strconv.AppendInt(dst, int64(l.From), 10)
		}
		return appendPair(dst, l.From, l.To)
	case FuzzyRange:
		switch {
		case !l.MinBounded:
			dst = append(dst, '<')
			dst = strconv.AppendInt(dst, int64(l.InnerMin), 10)
		case l.OuterMin == l.InnerMin:
			dst = strconv.AppendInt(dst, int64(l.InnerMin), 10)
		default:
			dst = appendPair(dst, l.OuterMin, l.InnerMin)
		}
		dst = append(dst, ".."...)
		switch {
		case !l.MaxBounded:
			dst = append(dst, '>')
			return strconv.AppendInt(dst, int64(l.InnerMax), 10)
		case l.OuterMax == l.InnerMax:
			return strconv.AppendInt(dst, int64(l.InnerMax), 10)
		}
		return appendPair(dst, l.InnerMax, l.OuterMax)
	case Compound:
		// Nested compounds are not valid; write their children in order.
		for i, c := range l.Children {
			if i != 0 {
				dst = append(dst, ',')
			}
			dst = appendSegment(dst, c)
		}
		return dst
	}
	panic("location: unknown location type")
}

func appendPair(dst []byte, a, b int) []byte {
	dst = append(dst, '(')
	dst = strconv.AppendInt(dst, int64(a), 10)
	dst = append(dst, '.')
	dst = strconv.AppendInt(dst, int64(b), 10)
	return append(dst, ')')
}
