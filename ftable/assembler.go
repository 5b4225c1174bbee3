// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ftable assembles and writes the feature table blocks of EMBL and
// GenBank flat files.
//
// Lines passed to an Assembler have had the flat-file line prefix removed,
// so a feature key starts at column zero and location continuation and
// qualifier lines are indented:
//
//  CDS             join(1..10,
//                  20..30)
//                  /gene="abc"
//                  /note="a note that is
//                  continued"
package ftable

import (
	"strings"

	"github.com/biogo/flatfile/location"
	"github.com/pkg/errors"
)

var (
	// ErrUnexpectedLine is returned when a feature table line cannot be
	// placed in the feature being assembled.
	ErrUnexpectedLine = errors.New("ftable: unexpected line")

	// ErrUnterminatedFeature is returned when a feature table block ends
	// inside a location or a quoted qualifier value.
	ErrUnterminatedFeature = errors.New("ftable: unterminated feature")
)

// Listener receives the features assembled from a feature table block.
type Listener interface {
	// StartFeature is called when a feature's key and location are complete.
	StartFeature(typ string, loc location.Stranded) error
	// AddFeatureProperty is called for each qualifier of the current feature.
	// The value is a string, or the bool true for qualifiers with no value.
	AddFeatureProperty(key string, value interface{}) error
	// EndFeature is called when the current feature has no more qualifiers.
	EndFeature() error
}

type state int

const (
	outside state = iota
	inLocation
	inBody
	inContinuation
)

func (s state) String() string {
	switch s {
	case outside:
		return "outside"
	case inLocation:
		return "location"
	case inBody:
		return "body"
	case inContinuation:
		return "continuation"
	}
	return "unknown"
}

// Assembler assembles features from the lines of a feature table block and
// reports them to a Listener. An Assembler is not safe for concurrent use.
//
// Errors from the location parser and from the Listener are returned to the
// caller wrapped with the line number; the Assembler does not attempt to
// recover from an error, so after a failure the caller should discard it.
type Assembler struct {
	listener Listener

	state state
	line  int

	typ string
	buf strings.Builder
}

// NewAssembler returns an Assembler reporting to l.
func NewAssembler(l Listener) *Assembler {
	return &Assembler{listener: l}
}

// FeatureData processes a single feature table line, without its line
// terminator.
func (a *Assembler) FeatureData(line string) error {
	a.line++
	err := a.featureData(strings.TrimRight(line, " \t\r"))
	if err != nil {
		return errors.Wrapf(err, "line %d", a.line)
	}
	return nil
}

func (a *Assembler) featureData(line string) error {
	switch a.state {
	case outside, inBody:
		if line == "" {
			return nil
		}
		if isFeatureKeyLine(line) {
			if a.state == inBody {
				if err := a.listener.EndFeature(); err != nil {
					return err
				}
				a.state = outside
			}
			return a.startLocation(line)
		}
		if a.state == outside {
			return errors.Wrapf(ErrUnexpectedLine, "%q outside a feature", line)
		}
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed[0] != '/' {
			return errors.Wrapf(ErrUnexpectedLine, "%q in feature body", line)
		}
		a.buf.Reset()
		a.buf.WriteString(trimmed)
		if !balancedQuotes(trimmed) {
			a.state = inContinuation
			return nil
		}
		return a.processQualifier()

	case inLocation:
		a.buf.WriteString(strings.TrimSpace(line))
		return a.maybeParseLocation()

	case inContinuation:
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return nil
		}
		// Wrapped words are rejoined with a space; values with no
		// spaces, such as translations, are wrapped mid-token.
		if strings.IndexByte(a.buf.String(), ' ') >= 0 {
			a.buf.WriteByte(' ')
		}
		a.buf.WriteString(trimmed)
		if !balancedQuotes(a.buf.String()) {
			return nil
		}
		a.state = inBody
		return a.processQualifier()
	}
	panic("ftable: invalid assembler state")
}

// End marks the end of the feature table block, completing any feature in
// progress. The Assembler may be reused for another block after End.
func (a *Assembler) End() error {
	defer func() { a.line = 0 }()
	switch a.state {
	case outside:
		return nil
	case inBody:
		a.state = outside
		return a.listener.EndFeature()
	}
	err := errors.Wrapf(ErrUnterminatedFeature, "block ended in %s of %s feature at line %d", a.state, a.typ, a.line)
	a.state = outside
	a.buf.Reset()
	return err
}

func (a *Assembler) startLocation(line string) error {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		a.typ = line
		line = ""
	} else {
		a.typ = line[:i]
		line = strings.TrimSpace(line[i:])
	}
	a.buf.Reset()
	a.buf.WriteString(line)
	a.state = inLocation
	return a.maybeParseLocation()
}

// maybeParseLocation parses the buffered location text if its parentheses
// are balanced, and starts the feature.
func (a *Assembler) maybeParseLocation() error {
	text := a.buf.String()
	if text == "" || strings.Count(text, "(") != strings.Count(text, ")") {
		return nil
	}
	loc, err := location.Parse(text)
	if err != nil {
		return errors.Wrapf(err, "%s feature", a.typ)
	}
	a.buf.Reset()
	a.state = inBody
	return a.listener.StartFeature(a.typ, loc)
}

// processQualifier reports the buffered qualifier to the listener.
func (a *Assembler) processQualifier() error {
	key, value, err := parseQualifier(a.buf.String())
	a.buf.Reset()
	if err != nil {
		return err
	}
	return a.listener.AddFeatureProperty(key, value)
}

// parseQualifier parses the text of a /key="value", /key=value or /key
// qualifier. Doubled quotes within a quoted value are unescaped.
func parseQualifier(q string) (key string, value interface{}, err error) {
	q = q[1:]
	eq := strings.IndexByte(q, '=')
	if eq < 0 {
		if q == "" {
			return "", nil, errors.Wrap(ErrUnexpectedLine, "empty qualifier key")
		}
		return q, true, nil
	}
	key, v := q[:eq], q[eq+1:]
	if key == "" {
		return "", nil, errors.Wrapf(ErrUnexpectedLine, "empty qualifier key in %q", q)
	}
	if !strings.HasPrefix(v, `"`) {
		return key, v, nil
	}
	if len(v) < 2 || v[len(v)-1] != '"' {
		return "", nil, errors.Wrapf(ErrUnexpectedLine, "bad quoting in %s qualifier: %s", key, v)
	}
	return key, unquote(v[1 : len(v)-1]), nil
}

// unquote collapses doubled quotes in s.
func unquote(s string) string {
	if strings.IndexByte(s, '"') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b.WriteByte(s[i])
		if s[i] == '"' && i+1 < len(s) && s[i+1] == '"' {
			i++
		}
	}
	return b.String()
}

func balancedQuotes(s string) bool { return strings.Count(s, `"`)%2 == 0 }

// isFeatureKeyLine returns whether line starts a new feature.
func isFeatureKeyLine(line string) bool {
	return line != "" && line[0] != ' ' && line[0] != '\t' && line[0] != '/'
}
