// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ftable

import (
	"fmt"
	"io"
	"strings"

	"github.com/biogo/flatfile/location"
)

// Line prefixes for feature table lines.
const (
	EMBLPrefix    = "FT   "
	GenBankPrefix = "     "
)

const (
	keyWidth     = 16
	DefaultWidth = 80
)

// unquoted lists qualifiers whose values are written without quotes.
var unquoted = map[string]bool{
	"anticodon":        true,
	"citation":         true,
	"codon_start":      true,
	"compare":          true,
	"direction":        true,
	"estimated_length": true,
	"mod_base":         true,
	"number":           true,
	"rpt_type":         true,
	"rpt_unit_range":   true,
	"tag_peptide":      true,
	"transl_except":    true,
	"transl_table":     true,
}

// Writer writes feature templates as feature table text.
type Writer struct {
	w io.Writer

	// Prefix is written at the start of every line.
	Prefix string
	// Width is the column at which lines are wrapped.
	Width int
}

// NewWriter returns a Writer that writes lines starting with prefix to w,
// wrapping at width columns.
func NewWriter(w io.Writer, prefix string, width int) *Writer {
	return &Writer{w: w, Prefix: prefix, Width: width}
}

// Write writes a single feature, returning the number of bytes written and
// any error.
func (w *Writer) Write(t *Template) (n int, err error) {
	leader := w.Prefix + strings.Repeat(" ", keyWidth)
	loc := location.Format(t.Loc, leader, w.Width)
	n, err = fmt.Fprintf(w.w, "%s%-*s%s\n", w.Prefix, keyWidth, t.Type, loc)
	if err != nil {
		return n, err
	}
	for _, p := range t.Properties {
		if v, ok := p.Value.(bool); ok && !v {
			// Only a present flag has a flat-file form.
			continue
		}
		for _, l := range wrap(qualifierText(p), w.Width-len(leader)) {
			_n, err := fmt.Fprintf(w.w, "%s%s\n", leader, l)
			n += _n
			if err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

// qualifierText returns the flat-file text of a qualifier.
func qualifierText(p Property) string {
	switch v := p.Value.(type) {
	case bool:
		return "/" + p.Key
	case string:
		if unquoted[p.Key] && v != "" && strings.IndexAny(v, `" `) < 0 {
			return "/" + p.Key + "=" + v
		}
		return "/" + p.Key + `="` + strings.Replace(v, `"`, `""`, -1) + `"`
	default:
		return fmt.Sprintf(`/%s="%v"`, p.Key, v)
	}
}

// wrap splits s into lines no longer than width. Text containing spaces is
// broken at spaces, which are dropped; other text is broken at width. Words
// longer than width are written on a line of their own.
//
// Continuation lines are rejoined with a space only once the value read so
// far holds one, so until a line containing a space has been written, the
// leading word is broken within itself instead.
func wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	words := strings.IndexByte(s, ' ') >= 0
	var (
		lines  []string
		spaced bool
	)
	for len(s) > width {
		if !words {
			lines = append(lines, s[:width])
			s = s[width:]
			continue
		}
		first := strings.IndexByte(s, ' ')
		if first < 0 {
			break
		}
		i := strings.LastIndexByte(s[:width+1], ' ')
		switch {
		case !spaced && i <= first:
			cut := first - 1
			if cut > width {
				cut = width
			}
			if cut >= 1 {
				lines = append(lines, s[:cut])
				s = s[cut:]
				continue
			}
			i = strings.IndexByte(s[first+1:], ' ')
			if i < 0 {
				return append(lines, s)
			}
			i += first + 1
		case i <= 0:
			i = first
		}
		lines = append(lines, s[:i])
		spaced = spaced || strings.IndexByte(s[:i], ' ') >= 0
		s = strings.TrimLeft(s[i:], " ")
	}
	return append(lines, s)
}
