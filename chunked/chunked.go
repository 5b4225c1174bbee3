// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunked provides compact storage of long letter sequences in an
// arena of fixed-size chunks.
//
// A Store is built once by a Builder and is immutable afterwards, so it may
// be read concurrently without synchronisation. Positions are 1-based.
package chunked

import (
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"github.com/pkg/errors"
)

var (
	// ErrAlphabetMismatch is returned when letters from different
	// alphabets are added to a single Builder.
	ErrAlphabetMismatch = errors.New("chunked: alphabet mismatch")

	// ErrIndexOutOfRange is returned for a position or range outside
	// a sequence.
	ErrIndexOutOfRange = errors.New("chunked: index out of range")
)

// DefaultChunkSize is the chunk size used by NewBuilder when given a
// non-positive size.
const DefaultChunkSize = 1 << 16

// Builder builds a Store from runs of letters. A Builder must not be used
// concurrently.
type Builder struct {
	alpha alphabet.Alphabet
	size  int

	arena []alphabet.Letters
	open  alphabet.Letters
	n     int
}

// NewBuilder returns a Builder producing chunks of the given size.
func NewBuilder(chunkSize int) *Builder {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Builder{size: chunkSize}
}

// Len returns the number of letters added to the Builder.
func (b *Builder) Len() int { return b.n }

// AddSymbols appends length letters of s starting at offset. All calls to
// AddSymbols for a Builder must use the same alphabet.
func (b *Builder) AddSymbols(a alphabet.Alphabet, s alphabet.Letters, offset, length int) error {
	if a == nil {
		return errors.Wrap(ErrAlphabetMismatch, "nil alphabet")
	}
	if b.alpha == nil {
		b.alpha = a
	} else if a != b.alpha {
		return ErrAlphabetMismatch
	}
	if offset < 0 || length < 0 || offset+length > len(s) {
		return errors.Wrapf(ErrIndexOutOfRange, "run [%d,%d) of %d letters", offset, offset+length, len(s))
	}

	s = s[offset : offset+length]
	for len(s) != 0 {
		if b.open == nil {
			b.open = make(alphabet.Letters, 0, b.size)
		}
		n := copy(b.open[len(b.open):cap(b.open)], s)
		b.open = b.open[:len(b.open)+n]
		s = s[n:]
		b.n += n
		if len(b.open) == b.size {
			b.arena = append(b.arena, b.open)
			b.open = nil
		}
	}
	return nil
}

// AddSequence appends the letters of s.
func (b *Builder) AddSequence(s *linear.Seq) error {
	return b.AddSymbols(s.Alphabet(), s.Seq, 0, len(s.Seq))
}

// Build returns a Store holding the letters added to the Builder and
// resets the Builder.
func (b *Builder) Build() *Store {
	if len(b.open) != 0 {
		last := make(alphabet.Letters, len(b.open))
		copy(last, b.open)
		b.arena = append(b.arena, last)
	}
	s := &Store{alpha: b.alpha, size: b.size, n: b.n}
	if len(b.arena) == 1 {
		s.flat = b.arena[0]
	} else {
		s.arena = b.arena
	}
	*b = Builder{size: b.size}
	return s
}

// Store is an immutable letter sequence held in fixed-size chunks. Every
// chunk except the last holds exactly ChunkSize letters. A Store built from
// a single chunk holds it directly.
type Store struct {
	alpha alphabet.Alphabet
	size  int

	flat  alphabet.Letters
	arena []alphabet.Letters
	n     int
}

// Len returns the length of the sequence.
func (s *Store) Len() int { return s.n }

// Alphabet returns the alphabet of the sequence's letters.
func (s *Store) Alphabet() alphabet.Alphabet { return s.alpha }

// ChunkSize returns the capacity of the Store's chunks.
func (s *Store) ChunkSize() int { return s.size }

// Chunks returns the number of chunks held by the Store.
func (s *Store) Chunks() int {
	if s.flat != nil {
		return 1
	}
	return len(s.arena)
}

// Chunk returns the ith chunk. The returned slice must not be modified.
func (s *Store) Chunk(i int) alphabet.Letters {
	if s.flat != nil {
		if i != 0 {
			panic("chunked: chunk index out of range")
		}
		return s.flat
	}
	return s.arena[i]
}

// At returns the letter at position pos, counting from 1.
func (s *Store) At(pos int) (alphabet.Letter, error) {
	if pos < 1 || pos > s.n {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "position %d of %d", pos, s.n)
	}
	return s.at(pos - 1), nil
}

// at returns the letter at the zero-based index i, which must be in range.
func (s *Store) at(i int) alphabet.Letter {
	if s.flat != nil {
		return s.flat[i]
	}
	return s.arena[i/s.size][i%s.size]
}

// SubRange returns a view of positions from to to inclusive. If the range
// lies within a single chunk the returned view is a *Slice sharing the
// chunk's letters, otherwise it is a *Span reading through the Store.
func (s *Store) SubRange(from, to int) (View, error) {
	if from < 1 || to > s.n || from > to+1 {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "range %d..%d of %d", from, to, s.n)
	}
	lo, hi := from-1, to // Zero-based half-open.
	if s.flat != nil {
		return &Slice{alpha: s.alpha, letters: s.flat[lo:hi:hi]}, nil
	}
	if lo == hi {
		return &Slice{alpha: s.alpha}, nil
	}
	c := lo / s.size
	if (hi-1)/s.size == c {
		off := lo % s.size
		end := off + hi - lo
		return &Slice{alpha: s.alpha, letters: s.arena[c][off:end:end]}, nil
	}
	return &Span{store: s, from: from, to: to}, nil
}

// View returns a view of the whole sequence.
func (s *Store) View() View {
	v, err := s.SubRange(1, s.n)
	if err != nil {
		panic(err)
	}
	return v
}
