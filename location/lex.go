// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package location

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

type tokenKind int

const (
	tokInt tokenKind = iota
	tokIdent
	tokRange // ".."
	tokDot
	tokOpen
	tokClose
	tokColon
	tokCaret
	tokLess
	tokGreater
	tokComma
)

var tokenNames = [...]string{
	tokInt:     "integer",
	tokIdent:   "identifier",
	tokRange:   `".."`,
	tokDot:     `"."`,
	tokOpen:    `"("`,
	tokClose:   `")"`,
	tokColon:   `":"`,
	tokCaret:   `"^"`,
	tokLess:    `"<"`,
	tokGreater: `">"`,
	tokComma:   `","`,
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	pos  int // Byte offset in the source text.
	text string
	val  int
}

func (t token) String() string {
	switch t.kind {
	case tokInt, tokIdent:
		return fmt.Sprintf("%s %q", t.kind, t.text)
	}
	return t.kind.String()
}

var punct = [256]tokenKind{
	'(': tokOpen,
	')': tokClose,
	':': tokColon,
	'^': tokCaret,
	'<': tokLess,
	'>': tokGreater,
	',': tokComma,
}

// lex splits text into tokens in a single left to right pass.
func lex(text string) ([]token, error) {
	var toks []token
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case isSpace(c):
			i++
		case isDigit(c):
			j := i
			for j < len(text) && isDigit(text[j]) {
				j++
			}
			v, err := strconv.Atoi(text[i:j])
			if err != nil {
				return nil, errors.Wrapf(ErrMalformedLocation, "coordinate %q at %d out of range", text[i:j], i)
			}
			toks = append(toks, token{kind: tokInt, pos: i, text: text[i:j], val: v})
			i = j
		case isIdentStart(c):
			j := i
			for j < len(text) && isIdent(text[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, pos: i, text: text[i:j]})
			i = j
		case c == '.':
			if i+1 < len(text) && text[i+1] == '.' {
				toks = append(toks, token{kind: tokRange, pos: i, text: ".."})
				i += 2
				break
			}
			toks = append(toks, token{kind: tokDot, pos: i, text: "."})
			i++
		case punct[c] != 0:
			toks = append(toks, token{kind: punct[c], pos: i, text: text[i : i+1]})
			i++
		default:
			return nil, errors.Wrapf(ErrMalformedLocation, "unexpected character %q at %d", c, i)
		}
	}
	return toks, nil
}

func isSpace(c byte) bool      { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool      { return '0' <= c && c <= '9' }
func isIdentStart(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_' }
func isIdent(c byte) bool      { return isIdentStart(c) || isDigit(c) || c == '-' }
