// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flat reads the feature tables and sequences of EMBL and GenBank
// flat file records.
//
// Only the record name, feature table and sequence are read; other header
// fields are skipped.
package flat

import (
	"bufio"
	"io"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/flatfile/chunked"
	"github.com/biogo/flatfile/ftable"
	"github.com/pkg/errors"
)

// Record is a single flat file entry.
type Record struct {
	Name     string
	Features []*ftable.Template
	Seq      *chunked.Store
}

type section int

const (
	header section = iota
	features
	sequence
)

// Reader reads flat file records.
type Reader struct {
	r    *bufio.Reader
	line int

	// held is a line read past the end of the previous record.
	held    string
	hasHeld bool

	// Alphabet is the alphabet of record sequences.
	Alphabet alphabet.Alphabet
	// ChunkSize is the chunk size of record sequence stores.
	ChunkSize int
}

// NewReader returns a Reader reading from r. Sequences are read as DNA.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:         bufio.NewReader(r),
		Alphabet:  alphabet.DNA,
		ChunkSize: chunked.DefaultChunkSize,
	}
}

// Read returns the next record. At the end of the input Read returns
// nil and io.EOF. A record without a terminating "//" line is returned as
// complete when the input ends or the next ID or LOCUS line is read.
func (r *Reader) Read() (*Record, error) {
	var (
		rec     Record
		col     ftable.Collector
		asm     = ftable.NewAssembler(&col)
		seq     = chunked.NewBuilder(r.ChunkSize)
		sec     section
		started bool
		named   bool
		letters alphabet.Letters
	)
	endFeatures := func() error {
		if sec != features {
			return nil
		}
		return asm.End()
	}
	finish := func() (*Record, error) {
		if err := endFeatures(); err != nil {
			return nil, r.errorf(err)
		}
		rec.Features = col.Features
		rec.Seq = seq.Build()
		return &rec, nil
	}

	for {
		line, err := r.readLine()
		if err != nil {
			if err == io.EOF && started {
				return finish()
			}
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		started = true

		if line == "//" || strings.HasPrefix(line, "// ") {
			return finish()
		}
		code, rest := lineCode(line)
		switch {
		case code == "ID" || code == "LOCUS":
			if named {
				r.unread(line)
				return finish()
			}
			named = true
			if f := strings.Fields(rest); len(f) != 0 {
				rec.Name = strings.TrimSuffix(f[0], ";")
			}
			sec = header

		case code == "FH":
			// EMBL feature header lines.

		case code == "FEATURES":
			sec = features

		case code == "FT":
			sec = features
			if err := asm.FeatureData(ftableLine(line)); err != nil {
				return nil, r.errorf(err)
			}

		case code == "SQ" || code == "ORIGIN":
			if err := endFeatures(); err != nil {
				return nil, r.errorf(err)
			}
			sec = sequence

		case code == "" && sec == features:
			if err := asm.FeatureData(ftableLine(line)); err != nil {
				return nil, r.errorf(err)
			}

		case code == "" && sec == sequence:
			letters = residues(letters[:0], line)
			if err := seq.AddSymbols(r.Alphabet, letters, 0, len(letters)); err != nil {
				return nil, r.errorf(err)
			}

		default:
			// Any other keyword ends the feature table.
			if err := endFeatures(); err != nil {
				return nil, r.errorf(err)
			}
			sec = header
		}
	}
}

func (r *Reader) readLine() (string, error) {
	if r.hasHeld {
		r.hasHeld = false
		r.line++
		return r.held, nil
	}
	line, err := r.r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	r.line++
	return strings.TrimRight(line, "\r\n"), nil
}

// unread holds line to be returned by the next call to readLine.
func (r *Reader) unread(line string) {
	r.held, r.hasHeld = line, true
	r.line--
}

func (r *Reader) errorf(err error) error {
	return errors.Wrapf(err, "flat: record ending at line %d", r.line)
}

// lineCode returns the line type code of a line and the remaining text.
// EMBL codes are the two letters at the start of the line; GenBank keywords
// start at column zero. Indented GenBank lines have an empty code.
func lineCode(line string) (code, rest string) {
	if line == "" || line[0] == ' ' {
		return "", line
	}
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], line[i:]
}

// ftableLine removes the five column prefix of a feature table line.
func ftableLine(line string) string {
	const prefix = 5
	if len(line) <= prefix {
		return ""
	}
	return line[prefix:]
}

// residues appends the letters of a sequence line to dst, skipping
// position numbers and spacing.
func residues(dst alphabet.Letters, line string) alphabet.Letters {
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == ' ' || c == '\t' || '0' <= c && c <= '9' {
			continue
		}
		dst = append(dst, alphabet.Letter(c))
	}
	return dst
}
