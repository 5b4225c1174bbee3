// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package location

import (
	"strings"

	"github.com/biogo/biogo/seq"
	"github.com/pkg/errors"
)

// Location operators recognised by Parse.
const (
	opJoin       = "join"
	opOrder      = "order"
	opComplement = "complement"
)

// Parse parses a feature table location expression such as
// "complement(join(<1..100,200^201,(300.310)..>400))".
//
// The returned strand is seq.Minus if any part of the expression is
// complemented and seq.Plus otherwise; strand is held for the location as
// a whole, so a join with mixed complementation is returned entirely on
// the minus strand. Multiple segments are returned as a Compound in the
// order they appear.
//
// Parse returns an error wrapping ErrRemoteLocation for locations on other
// entries and ErrMalformedLocation for any other invalid input.
func Parse(text string) (Stranded, error) {
	if strings.Count(text, "(") != strings.Count(text, ")") {
		return Stranded{}, errors.Wrapf(ErrMalformedLocation, "unbalanced parentheses in %q", text)
	}
	toks, err := lex(text)
	if err != nil {
		return Stranded{}, errors.Wrapf(err, "parsing %q", text)
	}
	if len(toks) == 0 {
		return Stranded{}, errors.Wrap(ErrMalformedLocation, "empty location")
	}
	p := parser{toks: toks, strand: seq.Plus}
	loc, err := p.parse()
	if err != nil {
		return Stranded{}, errors.Wrapf(err, "parsing %q", text)
	}
	return loc, nil
}

// MustParse is like Parse but panics if text cannot be parsed.
func MustParse(text string) Stranded {
	loc, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return loc
}

// parser holds the state of a single Parse call.
type parser struct {
	toks []token

	// instructs is the stack of open operators.
	instructs []string
	// subs holds completed segments in the order they were closed.
	subs []Location

	// Coordinates of the segment being read. Coordinates are added to
	// start until a ".." is seen and to end after.
	start, end   []int
	sawRange     bool
	isBetween    bool
	unboundedMin bool
	unboundedMax bool
	fuzzyDepth   int

	strand seq.Strand
}

func (p *parser) parse() (Stranded, error) {
	for i, t := range p.toks {
		var prev *token
		if i > 0 {
			prev = &p.toks[i-1]
		}
		var err error
		switch t.kind {
		case tokInt:
			err = p.coordinate(t, prev)
		case tokIdent:
			err = p.ident(t, i)
		case tokRange:
			if p.sawRange || len(p.start) == 0 || p.fuzzyDepth != 0 {
				err = unexpected(t)
			}
			p.sawRange = true
		case tokDot:
			if p.fuzzyDepth == 0 || prev == nil || prev.kind != tokInt {
				err = unexpected(t)
			}
		case tokOpen:
			err = p.open(t, prev)
		case tokClose:
			err = p.close(t, prev)
		case tokColon:
			// Accessions are caught by ident.
			err = unexpected(t)
		case tokCaret:
			if p.isBetween || p.sawRange || len(p.start) != 1 || p.fuzzyDepth != 0 {
				err = unexpected(t)
			}
			p.isBetween = true
		case tokLess:
			if p.hasCoords() || p.unboundedMin {
				err = unexpected(t)
			}
			p.unboundedMin = true
		case tokGreater:
			if p.sawRange && len(p.end) != 0 || !p.sawRange && p.hasCoords() || p.unboundedMax {
				err = unexpected(t)
			}
			p.unboundedMax = true
		case tokComma:
			if prev == nil || prev.kind != tokInt && prev.kind != tokClose || p.fuzzyDepth != 0 {
				err = unexpected(t)
				break
			}
			if p.hasCoords() {
				err = p.processCoords()
			}
		default:
			panic("location: unknown token kind")
		}
		if err != nil {
			return Stranded{}, err
		}
	}

	if p.fuzzyDepth != 0 || len(p.instructs) != 0 {
		return Stranded{}, errors.Wrap(ErrMalformedLocation, "unterminated expression")
	}
	if last := p.toks[len(p.toks)-1]; last.kind == tokComma {
		return Stranded{}, errors.Wrapf(ErrMalformedLocation, "missing segment after comma at %d", last.pos)
	}
	if p.hasCoords() || p.sawRange || p.isBetween || p.unboundedMin || p.unboundedMax {
		err := p.processCoords()
		if err != nil {
			return Stranded{}, err
		}
	}
	switch len(p.subs) {
	case 0:
		return Stranded{}, errors.Wrap(ErrMalformedLocation, "no coordinates")
	case 1:
		return Stranded{Location: p.subs[0], Strand: p.strand}, nil
	}
	return Stranded{Location: Compound{Children: p.subs}, Strand: p.strand}, nil
}

func (p *parser) hasCoords() bool { return len(p.start) != 0 || len(p.end) != 0 }

func (p *parser) coordinate(t token, prev *token) error {
	if prev != nil {
		switch prev.kind {
		case tokInt, tokClose, tokIdent:
			return unexpected(t)
		}
	}
	if p.sawRange {
		if len(p.end) == 2 || len(p.end) == 1 && p.fuzzyDepth == 0 {
			return unexpected(t)
		}
		p.end = append(p.end, t.val)
		return nil
	}
	if len(p.start) == 2 || len(p.start) == 1 && p.fuzzyDepth == 0 && !p.isBetween {
		return unexpected(t)
	}
	p.start = append(p.start, t.val)
	return nil
}

func (p *parser) ident(t token, i int) error {
	if i+1 < len(p.toks) && p.toks[i+1].kind == tokColon {
		return errors.Wrapf(ErrRemoteLocation, "accession %q", t.text)
	}
	if n := i + 4; n <= len(p.toks) && isVersionedAccession(p.toks[i:n]) {
		return errors.Wrapf(ErrRemoteLocation, "accession %q", p.toks[i].text+"."+p.toks[i+2].text)
	}
	switch t.text {
	case opJoin, opOrder, opComplement:
	default:
		return errors.Wrapf(ErrMalformedLocation, "unknown operator %q at %d", t.text, t.pos)
	}
	if i > 0 && !startsGroup(p.toks[i-1].kind) {
		return unexpected(t)
	}
	if p.hasCoords() || p.fuzzyDepth != 0 || p.unboundedMin || p.unboundedMax {
		return unexpected(t)
	}
	if i+1 == len(p.toks) || p.toks[i+1].kind != tokOpen {
		return errors.Wrapf(ErrMalformedLocation, "operator %q at %d not followed by %s", t.text, t.pos, tokOpen)
	}
	p.instructs = append(p.instructs, t.text)
	return nil
}

func (p *parser) open(t token, prev *token) error {
	if prev != nil && prev.kind == tokIdent {
		// Operator group; the operator was pushed by ident.
		return nil
	}
	if prev != nil && !startsGroup(prev.kind) && prev.kind != tokRange || p.fuzzyDepth != 0 {
		return unexpected(t)
	}
	if p.sawRange && len(p.end) != 0 || !p.sawRange && len(p.start) != 0 {
		return unexpected(t)
	}
	p.fuzzyDepth++
	return nil
}

func (p *parser) close(t token, prev *token) error {
	if p.fuzzyDepth != 0 {
		if prev == nil || prev.kind != tokInt {
			return unexpected(t)
		}
		n := len(p.start)
		if p.sawRange {
			n = len(p.end)
		}
		if n != 2 {
			return errors.Wrapf(ErrMalformedLocation, "fuzzy bound at %d needs two coordinates", t.pos)
		}
		p.fuzzyDepth--
		return nil
	}
	if len(p.instructs) == 0 {
		return unexpected(t)
	}
	if prev != nil && prev.kind == tokOpen {
		return errors.Wrapf(ErrMalformedLocation, "empty %s at %d", p.instructs[len(p.instructs)-1], t.pos)
	}
	if prev != nil && prev.kind == tokComma {
		return errors.Wrapf(ErrMalformedLocation, "missing segment after comma in %s at %d", p.instructs[len(p.instructs)-1], t.pos)
	}
	if p.hasCoords() || p.sawRange || p.isBetween || p.unboundedMin || p.unboundedMax {
		err := p.processCoords()
		if err != nil {
			return err
		}
	}
	p.processInstructs()
	return nil
}

// processInstructs closes the innermost operator. Segments stay in subs
// for final assembly; only complement has an effect here.
func (p *parser) processInstructs() {
	op := p.instructs[len(p.instructs)-1]
	p.instructs = p.instructs[:len(p.instructs)-1]
	if op == opComplement {
		p.strand = seq.Minus
	}
}

// processCoords classifies the current segment's coordinates, appends the
// resulting location to subs and resets the segment state.
func (p *parser) processCoords() error {
	loc, err := p.classify()
	if err != nil {
		return err
	}
	if err = Validate(loc); err != nil {
		return err
	}
	p.subs = append(p.subs, loc)
	p.start = p.start[:0]
	p.end = p.end[:0]
	p.sawRange = false
	p.isBetween = false
	p.unboundedMin = false
	p.unboundedMax = false
	return nil
}

func (p *parser) classify() (Location, error) {
	s, e := p.start, p.end
	unbounded := p.unboundedMin || p.unboundedMax
	switch {
	case p.isBetween:
		if len(s) == 2 && len(e) == 0 && !unbounded {
			return Between{From: s[0], To: s[1]}, nil
		}
	case p.sawRange && len(e) == 0:
		// Fall through to failure.
	case len(s) == 1 && len(e) == 0:
		if !unbounded {
			return Point{Pos: s[0]}, nil
		}
		fp := FuzzyPoint{From: s[0], To: s[0], MinBounded: true, MaxBounded: true}
		if p.unboundedMin {
			fp.From, fp.MinBounded = NegInf, false
		}
		if p.unboundedMax {
			fp.To, fp.MaxBounded = PosInf, false
		}
		return fp, nil
	case len(s) == 2 && len(e) == 0:
		if !unbounded {
			return FuzzyPoint{From: s[0], To: s[1], MinBounded: true, MaxBounded: true}, nil
		}
	case len(s) == 1 && len(e) == 1:
		if !unbounded {
			return Range{From: s[0], To: e[0]}, nil
		}
		return p.fuzzyRange(s[0], s[0], e[0], e[0]), nil
	case len(s) == 2 && len(e) == 1 && !p.unboundedMin:
		return p.fuzzyRange(s[0], s[1], e[0], e[0]), nil
	case len(s) == 1 && len(e) == 2 && !p.unboundedMax:
		return p.fuzzyRange(s[0], s[0], e[0], e[1]), nil
	case len(s) == 2 && len(e) == 2 && !unbounded:
		return p.fuzzyRange(s[0], s[1], e[0], e[1]), nil
	}
	return nil, errors.Wrapf(ErrMalformedLocation, "invalid coordinate combination: %d start, %d end", len(s), len(e))
}

func (p *parser) fuzzyRange(outerMin, innerMin, innerMax, outerMax int) FuzzyRange {
	r := FuzzyRange{
		OuterMin: outerMin, InnerMin: innerMin,
		InnerMax: innerMax, OuterMax: outerMax,
		MinBounded: true, MaxBounded: true,
	}
	if p.unboundedMin {
		r.OuterMin, r.MinBounded = NegInf, false
	}
	if p.unboundedMax {
		r.OuterMax, r.MaxBounded = PosInf, false
	}
	return r
}

// isVersionedAccession returns whether toks ends with the
// identifier, dot, integer, colon sequence of "AL123456.1:".
func isVersionedAccession(toks []token) bool {
	n := len(toks)
	if n < 4 {
		return false
	}
	return toks[n-4].kind == tokIdent && toks[n-3].kind == tokDot &&
		toks[n-2].kind == tokInt && toks[n-1].kind == tokColon
}

// startsGroup returns whether a token of kind k may be followed by an
// operator or a parenthesised fuzzy bound.
func startsGroup(k tokenKind) bool { return k == tokOpen || k == tokComma }

func unexpected(t token) error {
	return errors.Wrapf(ErrMalformedLocation, "unexpected %v at %d", t, t.pos)
}
