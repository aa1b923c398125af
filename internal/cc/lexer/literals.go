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

package lexer

import "strings"

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentCont(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }

// scanIdentifier consumes an identifier starting at the reader's current
// position (already known to satisfy isIdentStart) and returns its spelling.
func (lx *Lexer) scanIdentifier() string {
	var sb strings.Builder
	for {
		ch, ok := lx.r.current()
		if !ok || !isIdentCont(ch) {
			break
		}
		sb.WriteByte(ch)
		lx.r.advance()
	}
	return sb.String()
}

// decodeEscape consumes a single backslash escape sequence (the reader must
// be positioned just after the leading backslash) and returns its decoded
// byte value plus the raw spelling consumed, for round-tripping Text.
func (lx *Lexer) decodeEscape() (value byte, spelling string) {
	var sb strings.Builder
	ch, ok := lx.r.current()
	if !ok {
		return 0, ""
	}
	sb.WriteByte(ch)
	switch ch {
	case 'n':
		lx.r.advance()
		return '\n', sb.String()
	case 't':
		lx.r.advance()
		return '\t', sb.String()
	case 'r':
		lx.r.advance()
		return '\r', sb.String()
	case 'v':
		lx.r.advance()
		return '\v', sb.String()
	case 'f':
		lx.r.advance()
		return '\f', sb.String()
	case 'b':
		lx.r.advance()
		return '\b', sb.String()
	case 'a':
		lx.r.advance()
		return '\a', sb.String()
	case '0', '1', '2', '3', '4', '5', '6', '7':
		lx.r.advance()
		var v int
		v = int(ch - '0')
		for i := 0; i < 2; i++ {
			c, ok := lx.r.current()
			if !ok || c < '0' || c > '7' {
				break
			}
			v = v*8 + int(c-'0')
			sb.WriteByte(c)
			lx.r.advance()
		}
		return byte(v), sb.String()
	case 'x':
		lx.r.advance()
		var v int
		for {
			c, ok := lx.r.current()
			if !ok || digitValueHex(c) < 0 {
				break
			}
			v = v*16 + digitValueHex(c)
			sb.WriteByte(c)
			lx.r.advance()
		}
		return byte(v), sb.String()
	default:
		// Unknown escape: the backslash is dropped and the character is
		// taken literally, matching common preprocessor leniency (the
		// standard leaves this undefined behavior).
		lx.r.advance()
		return ch, sb.String()
	}
}

func digitValueHex(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10
	default:
		return -1
	}
}

// scanQuoted consumes a quoted literal (string or char) starting just after
// the opening quote, stopping at the matching close quote or a bare newline
// (which is an error: these literals may not span lines without a
// continuation, which the reader has already spliced away). It returns the
// decoded text and the exact source spelling including both quotes.
func (lx *Lexer) scanQuoted(quote byte) (decoded, spelling string, terminated bool) {
	var raw, dec strings.Builder
	raw.WriteByte(quote)
	for {
		ch, ok := lx.r.current()
		if !ok || ch == '\n' {
			return dec.String(), raw.String(), false
		}
		if ch == quote {
			lx.r.advance()
			raw.WriteByte(quote)
			return dec.String(), raw.String(), true
		}
		if ch == '\\' {
			lx.r.advance()
			raw.WriteByte('\\')
			v, esc := lx.decodeEscape()
			raw.WriteString(esc)
			dec.WriteByte(v)
			continue
		}
		raw.WriteByte(ch)
		dec.WriteByte(ch)
		lx.r.advance()
	}
}

// scanNumber consumes a pp-number per spec §4.B: starts with a digit, or '.'
// followed by a digit, and continues through letters, digits, '.', and a
// sign that immediately follows an 'e'/'E'/'p'/'P' (a binary or decimal
// exponent marker).
func (lx *Lexer) scanNumber() (text string, radix int, intDigits, fracDigits, exponent, suffix string, isFloat, badOctal bool) {
	var sb strings.Builder

	readDigits := func(pred func(byte) bool) string {
		var d strings.Builder
		for {
			ch, ok := lx.r.current()
			if !ok || !pred(ch) {
				break
			}
			d.WriteByte(ch)
			sb.WriteByte(ch)
			lx.r.advance()
		}
		return d.String()
	}

	radix = 10
	first, _ := lx.r.current()
	if first == '0' {
		if n1, ok := lx.r.peek(1); ok && (n1 == 'x' || n1 == 'X') {
			sb.WriteByte('0')
			lx.r.advance()
			sb.WriteByte(n1)
			lx.r.advance()
			radix = 16
			intDigits = readDigits(func(c byte) bool { return digitValueHex(c) >= 0 })
		} else {
			radix = 8
		}
	}
	if radix != 16 {
		intDigits = readDigits(isDigit)
		if radix == 8 {
			for _, c := range intDigits {
				if c == '8' || c == '9' {
					badOctal = true
				}
			}
		}
	}

	if ch, ok := lx.r.current(); ok && ch == '.' {
		isFloat = true
		sb.WriteByte('.')
		lx.r.advance()
		fracDigits = readDigits(isDigit)
	}

	if ch, ok := lx.r.current(); ok {
		isExpMarker := (radix == 16 && (ch == 'p' || ch == 'P')) || (radix != 16 && (ch == 'e' || ch == 'E'))
		if isExpMarker {
			var exp strings.Builder
			exp.WriteByte(ch)
			sb.WriteByte(ch)
			lx.r.advance()
			isFloat = true
			if s, ok := lx.r.current(); ok && (s == '+' || s == '-') {
				exp.WriteByte(s)
				sb.WriteByte(s)
				lx.r.advance()
			}
			exp.WriteString(readDigits(isDigit))
			exponent = exp.String()
		}
	}

	// Trailing suffix: any run of identifier characters (u, l, f, ll, etc.)
	// or a further '.' run for malformed-but-lexable literals like "1.2.3".
	var suf strings.Builder
	for {
		ch, ok := lx.r.current()
		if !ok {
			break
		}
		if isIdentCont(ch) || ch == '.' {
			suf.WriteByte(ch)
			sb.WriteByte(ch)
			lx.r.advance()
			continue
		}
		break
	}
	suffix = suf.String()

	return sb.String(), radix, intDigits, fracDigits, exponent, suffix, isFloat, badOctal
}
