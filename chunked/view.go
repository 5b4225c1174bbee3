// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chunked

import (
	"fmt"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/biogo/util"
	"github.com/pkg/errors"
)

// View is a read-only view of a range of a Store. Positions within a view
// count from 1.
type View interface {
	Len() int
	At(pos int) (alphabet.Letter, error)
	Alphabet() alphabet.Alphabet
	// Letters returns a copy of the view's letters.
	Letters() alphabet.Letters
}

var (
	_ View = (*Slice)(nil)
	_ View = (*Span)(nil)
	_ View = (*Store)(nil)
)

// Slice is a view sharing the letters of a single chunk.
type Slice struct {
	alpha   alphabet.Alphabet
	letters alphabet.Letters
}

// Len returns the length of the view.
func (v *Slice) Len() int { return len(v.letters) }

// Alphabet returns the alphabet of the view's letters.
func (v *Slice) Alphabet() alphabet.Alphabet { return v.alpha }

// At returns the letter at position pos of the view.
func (v *Slice) At(pos int) (alphabet.Letter, error) {
	if pos < 1 || pos > len(v.letters) {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "position %d of %d", pos, len(v.letters))
	}
	return v.letters[pos-1], nil
}

// Letters returns a copy of the view's letters.
func (v *Slice) Letters() alphabet.Letters {
	return append(alphabet.Letters(nil), v.letters...)
}

// Shared returns the chunk letters underlying the view. The returned slice
// must not be modified.
func (v *Slice) Shared() alphabet.Letters { return v.letters }

// Format is a fmt.Formatter helper. See formatView.
func (v *Slice) Format(fs fmt.State, c rune) { formatView(fs, c, v) }

// Span is a view of a range crossing chunk boundaries. Letters are read
// through the owning Store and are never copied into a merged buffer.
type Span struct {
	store    *Store
	from, to int
}

// Len returns the length of the view.
func (v *Span) Len() int { return v.to - v.from + 1 }

// Alphabet returns the alphabet of the view's letters.
func (v *Span) Alphabet() alphabet.Alphabet { return v.store.alpha }

// At returns the letter at position pos of the view.
func (v *Span) At(pos int) (alphabet.Letter, error) {
	if pos < 1 || pos > v.Len() {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "position %d of %d", pos, v.Len())
	}
	return v.store.at(v.from + pos - 2), nil
}

// Letters returns a copy of the view's letters.
func (v *Span) Letters() alphabet.Letters {
	l := make(alphabet.Letters, 0, v.Len())
	v.do(func(part alphabet.Letters) { l = append(l, part...) })
	return l
}

// do calls fn on the chunk segments of the view in order.
func (v *Span) do(fn func(alphabet.Letters)) {
	s := v.store
	lo, hi := v.from-1, v.to
	for lo < hi {
		c, off := lo/s.size, lo%s.size
		end := s.size
		if rem := hi - lo; off+rem < end {
			end = off + rem
		}
		fn(s.arena[c][off:end:end])
		lo += end - off
	}
}

// Format is a fmt.Formatter helper. See formatView.
func (v *Span) Format(fs fmt.State, c rune) { formatView(fs, c, v) }

// Letters returns a copy of the Store's letters.
func (s *Store) Letters() alphabet.Letters { return s.View().Letters() }

// Format is a fmt.Formatter helper. See formatView.
func (s *Store) Format(fs fmt.State, c rune) { formatView(fs, c, s.View()) }

// Linear returns a *linear.Seq holding a copy of the letters of v.
func Linear(id string, v View) *linear.Seq {
	return linear.NewSeq(id, v.Letters(), v.Alphabet())
}

// formatView provides support for the %s and %a verbs. %a writes the
// letters wrapped at the format width, %s writes them unwrapped. A
// precision limits the number of letters written.
func formatView(fs fmt.State, c rune, v View) {
	var (
		w, _   = fs.Width()
		p, pOk = fs.Precision()
		limit  = -1
	)
	if pOk {
		limit = min(p, v.Len())
	} else {
		p = v.Len()
	}
	switch c {
	case 's':
		w = 0
	case 'a':
	default:
		fmt.Fprintf(fs, "%%!%c(chunked.View=%.10s)", c, v)
		return
	}
	lw := util.NewWrapper(fs, w, limit)
	switch v := v.(type) {
	case *Slice:
		lw.Write(alphabet.LettersToBytes(v.letters))
	case *Span:
		v.do(func(part alphabet.Letters) { lw.Write(alphabet.LettersToBytes(part)) })
	default:
		lw.Write(alphabet.LettersToBytes(v.Letters()))
	}
	if pOk && p < v.Len() {
		fmt.Fprint(fs, "...")
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
