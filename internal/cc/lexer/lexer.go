// Copyright 2026 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lexer implements the single-pass tokenizer shared by every
// component that reads C/C++/Objective-C preprocessing source text: it turns
// a byte slice into a stream of token.Token values, handling trigraph
// translation and backslash-newline line splicing transparently (neither is
// ever visible in the resulting tokens).
package lexer

import (
	"strings"

	"github.com/gocpp-org/ccpp/internal/cc/token"
)

// Lexer tokenizes a single chunk of source text. It holds no notion of
// "file" or "include stack" — that is package source's job; a Lexer only
// ever sees the bytes it was constructed with.
type Lexer struct {
	r            *reader
	includeMode  bool
	atLineStart  bool
	pendingSpace bool // a whitespace/comment run was just scanned on this line
}

// New returns a Lexer positioned at the start of data.
func New(data []byte) *Lexer {
	return &Lexer{r: newReader(data), atLineStart: true}
}

// SetIncludeMode toggles whether the next token, if it begins with '<' or
// '"', should be scanned as a Header token rather than a Punct/String. The
// driver sets this immediately after recognizing a `#include` directive
// name and clears it once the header-name token (or an unrelated token that
// shows the line isn't a normal include) has been consumed.
func (lx *Lexer) SetIncludeMode(on bool) { lx.includeMode = on }

// Position returns the line/column the next token would start at.
func (lx *Lexer) Position() token.Position {
	c := lx.r.position()
	return token.Position{Line: c.Line, Column: c.Column}
}

// Next scans and returns the next token. At end of input it returns a token
// with Kind == token.EOF forever after; it never returns an error together
// with EOF.
func (lx *Lexer) Next() (token.Token, error) {
	startPos := lx.r.position()
	ch, ok := lx.r.current()
	if !ok {
		return token.Token{Kind: token.EOF, Pos: pos(startPos)}, nil
	}

	switch {
	case ch == '\n':
		lx.r.advance()
		lx.atLineStart = true
		return lx.finish(token.Newline, "\n", startPos, nil), nil

	case isHorizontalSpace(ch):
		var sb strings.Builder
		for {
			c, ok := lx.r.current()
			if !ok || !isHorizontalSpace(c) {
				break
			}
			sb.WriteByte(c)
			lx.r.advance()
		}
		return lx.finish(token.Whitespace, sb.String(), startPos, nil), nil

	case ch == '/' && peekIs(lx.r, 1, '/'):
		var sb strings.Builder
		sb.WriteString("//")
		lx.r.advance()
		lx.r.advance()
		for {
			c, ok := lx.r.current()
			if !ok || c == '\n' {
				break
			}
			sb.WriteByte(c)
			lx.r.advance()
		}
		return lx.finish(token.CppComment, sb.String(), startPos, nil), nil

	case ch == '/' && peekIs(lx.r, 1, '*'):
		var sb strings.Builder
		sb.WriteString("/*")
		lx.r.advance()
		lx.r.advance()
		for {
			c, ok := lx.r.current()
			if !ok {
				return lx.finish(token.CComment, sb.String(), startPos, ErrUnterminatedComment), ErrUnterminatedComment
			}
			sb.WriteByte(c)
			lx.r.advance()
			if c == '*' {
				if c2, ok := lx.r.current(); ok && c2 == '/' {
					sb.WriteByte('/')
					lx.r.advance()
					break
				}
			}
		}
		return lx.finish(token.CComment, sb.String(), startPos, nil), nil
	}

	if lx.includeMode && ch == '<' {
		tok, err := lx.scanHeader('<', '>')
		lx.includeMode = false
		return lx.finish(token.Header, tok, startPos, err), err
	}
	if lx.includeMode && ch == '"' {
		tok, err := lx.scanHeader('"', '"')
		lx.includeMode = false
		return lx.finish(token.Header, tok, startPos, err), err
	}

	if lx.atLineStart {
		if spelling, ok := lx.isHashAt(); ok {
			for range spelling {
				lx.r.advance()
			}
			lx.atLineStart = false
			return lx.finish(token.Hash, spelling, startPos, nil), nil
		}
	}

	switch {
	case ch == '"':
		lx.r.advance()
		dec, spelling, terminated := lx.scanQuoted('"')
		var err error
		if !terminated {
			err = ErrUnterminatedString
		}
		t := lx.finish(token.String, spelling, startPos, err)
		t.Value = dec
		return t, err

	case ch == '\'':
		lx.r.advance()
		dec, spelling, terminated := lx.scanQuoted('\'')
		var err error
		if !terminated {
			err = ErrUnterminatedChar
		}
		t := lx.finish(token.Character, spelling, startPos, err)
		t.Value = dec
		return t, err

	case isDigit(ch) || (ch == '.' && peekDigit(lx.r)):
		text, radix, intDigits, fracDigits, exponent, suffix, isFloat, badOctal := lx.scanNumber()
		t := lx.finish(token.Number, text, startPos, nil)
		t.Value = &token.NumericValue{
			Radix:         radix,
			IntDigits:     intDigits,
			FracDigits:    fracDigits,
			Exponent:      exponent,
			IsFloat:       isFloat,
			Suffix:        suffix,
			BadOctalDigit: badOctal,
		}
		return t, nil

	case isIdentStart(ch):
		name := lx.scanIdentifier()
		return lx.finish(token.Identifier, name, startPos, nil), nil
	}

	if spelling, canon, ok := lx.matchPunctuator(); ok {
		for range spelling {
			lx.r.advance()
		}
		t := lx.finish(token.Punct, spelling, startPos, nil)
		t.Value = canon
		return t, nil
	}

	lx.r.advance()
	return lx.finish(token.Invalid, string(ch), startPos, ErrInvalidCharacter), ErrInvalidCharacter
}

// scanHeader consumes a header-name token body between open/close
// delimiters, which (unlike strings) does not support escape sequences.
func (lx *Lexer) scanHeader(open, close byte) (string, error) {
	var sb strings.Builder
	sb.WriteByte(open)
	lx.r.advance()
	for {
		ch, ok := lx.r.current()
		if !ok || ch == '\n' {
			return sb.String(), ErrUnterminatedString
		}
		sb.WriteByte(ch)
		lx.r.advance()
		if ch == close {
			return sb.String(), nil
		}
	}
}

func (lx *Lexer) finish(kind token.Kind, text string, start textPos, _ error) token.Token {
	t := token.Token{Kind: kind, Text: text, Pos: pos(start)}
	switch kind {
	case token.Whitespace, token.CComment, token.CppComment:
		lx.pendingSpace = true
	case token.Newline:
		lx.pendingSpace = false
	default:
		t.Spacing = lx.pendingSpace
		lx.pendingSpace = false
	}
	if kind != token.Newline && kind != token.Whitespace && kind != token.CComment && kind != token.CppComment && kind != token.Hash {
		lx.atLineStart = false
	}
	return t
}

func pos(c textPos) token.Position { return token.Position{Line: c.Line, Column: c.Column} }

func isHorizontalSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\v' || ch == '\f' || ch == '\r'
}

func peekIs(r *reader, n int, want byte) bool {
	ch, ok := r.peek(n)
	return ok && ch == want
}

func peekDigit(r *reader) bool {
	ch, ok := r.peek(1)
	return ok && isDigit(ch)
}
