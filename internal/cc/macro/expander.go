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

package macro

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gocpp-org/ccpp/internal/cc/lexer"
	"github.com/gocpp-org/ccpp/internal/cc/token"
)

var (
	ErrUnterminatedCall = errors.New("unterminated function-like macro invocation")
	ErrArity            = errors.New("macro argument count mismatch")
	ErrInvalidPaste     = errors.New("'##' pasted tokens do not form a single valid token")
)

// TokenSource is the minimal pull interface the expander needs to gather a
// function-like macro call's arguments; package source's Stack satisfies it.
type TokenSource interface {
	Next() (token.Token, bool, error)
}

// Argument is one actual argument to a function-like macro call: its raw,
// unexpanded token span (used verbatim next to '#' and '##'), and its fully
// macro-expanded form (computed once and cached, used everywhere else).
type Argument struct {
	Raw          []token.Token
	expanded     []token.Token
	wasExpanded  bool
}

// Expanded returns the argument's macro-expanded token form, computing and
// caching it on first use via expand.
func (a *Argument) Expanded(expand func([]token.Token) []token.Token) []token.Token {
	if !a.wasExpanded {
		a.expanded = expand(a.Raw)
		a.wasExpanded = true
	}
	return a.expanded
}

// GatherArguments reads tokens from src, which must be positioned right
// after the call's opening '(', up to and including the matching ')',
// splitting top-level commas (commas nested inside balanced parens do not
// split) into arguments. If variadic, every comma beyond the declared
// non-variadic parameter count is absorbed into one trailing argument.
func GatherArguments(src TokenSource, declaredParams int, variadic bool) ([]Argument, error) {
	var args []Argument
	var cur []token.Token
	depth := 0
	for {
		tok, ok, err := src.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUnterminatedCall
		}
		if tok.Skippable() || tok.Kind == token.Newline {
			if len(cur) > 0 {
				cur = append(cur, tok)
			}
			continue
		}
		if tok.Kind == token.Punct && tok.Text == "(" {
			depth++
			cur = append(cur, tok)
			continue
		}
		if tok.Kind == token.Punct && tok.Text == ")" {
			if depth == 0 {
				args = append(args, Argument{Raw: trimArgSpace(cur)})
				return args, nil
			}
			depth--
			cur = append(cur, tok)
			continue
		}
		if depth == 0 && tok.Kind == token.Punct && tok.Text == "," && !(variadic && len(args) >= declaredParams) {
			args = append(args, Argument{Raw: trimArgSpace(cur)})
			cur = nil
			continue
		}
		cur = append(cur, tok)
	}
}

func trimArgSpace(toks []token.Token) []token.Token {
	i, j := 0, len(toks)
	for i < j && toks[i].Skippable() {
		i++
	}
	for j > i && toks[j-1].Skippable() {
		j--
	}
	return toks[i:j]
}

// CheckArity validates the gathered arguments against m's declared
// parameters, accepting the single special case of a zero-parameter,
// non-variadic macro invoked as "FOO()" (one empty argument, not zero).
func CheckArity(m *Macro, args []Argument) error {
	want := len(m.Params)
	if !m.Variadic {
		if len(args) == want {
			return nil
		}
		if want == 0 && len(args) == 1 && len(args[0].Raw) == 0 {
			return nil
		}
		return fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrArity, m.Name, want, len(args))
	}
	if len(args) < want {
		return fmt.Errorf("%w: %s expects at least %d argument(s), got %d", ErrArity, m.Name, want, len(args))
	}
	return nil
}

// Stringify implements the '#' operator: the literal spelling of each
// argument token, adjacent tokens separated by exactly one space if any
// whitespace appeared between them in the source, quotes and backslashes
// inside string/char literal spellings escaped, wrapped in a new string
// literal.
func Stringify(toks []token.Token) token.Token {
	var sb strings.Builder
	space := false
	for _, t := range toks {
		if t.Skippable() || t.Kind == token.Newline {
			space = true
			continue
		}
		if sb.Len() > 0 && (space || t.Spacing) {
			sb.WriteByte(' ')
		}
		space = false
		switch t.Kind {
		case token.String, token.Character:
			sb.WriteString(escapeForStringify(t.Text))
		default:
			sb.WriteString(t.Text)
		}
	}
	spelling := strconv.Quote(sb.String())
	return token.Token{Kind: token.String, Text: spelling, Value: sb.String()}
}

func escapeForStringify(spelling string) string {
	var sb strings.Builder
	for _, r := range spelling {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Paste implements the '##' operator: concatenates the literal spelling of
// a and b and re-lexes it as a single token. A concatenation that doesn't
// form one valid token is a (recoverable) diagnostic; the first token of
// the re-lex is returned so the expansion can keep going.
func Paste(a, b token.Token) (token.Token, error) {
	if len(a.Text) == 0 {
		return b, nil
	}
	if len(b.Text) == 0 {
		return a, nil
	}
	combined := a.Text + b.Text
	lx := lexer.New([]byte(combined))
	first, err := lx.Next()
	if err != nil {
		return first, fmt.Errorf("%w: %q", ErrInvalidPaste, combined)
	}
	second, err := lx.Next()
	if err == nil && second.Kind != token.EOF {
		return first, fmt.Errorf("%w: %q", ErrInvalidPaste, combined)
	}
	first.Spacing = a.Spacing
	return first, nil
}

// Substitute walks m's replacement list, substituting MArg with the
// corresponding argument (pre-expanded, unless adjacent to '#'/'##', per
// spec §4.E), expanding MString via Stringify, and resolving MPaste by
// pasting the tokens immediately to its left and right in the output built
// so far. expand macro-expands an argument's raw tokens on demand.
func Substitute(m *Macro, args []Argument, expand func([]token.Token) []token.Token) ([]token.Token, error) {
	body := m.Body
	argTokens := func(idx int, raw bool) []token.Token {
		if idx < 0 || idx >= len(args) {
			return nil
		}
		if raw {
			return args[idx].Raw
		}
		return args[idx].Expanded(expand)
	}

	var out []token.Token
	for i := 0; i < len(body); i++ {
		tk := body[i]
		switch tk.Kind {
		case token.MString:
			idx := tk.ArgIndex()
			s := Stringify(argTokens(idx, true))
			s.Spacing = tk.Spacing
			out = append(out, s)

		case token.MArg:
			nextIsPaste := i+1 < len(body) && body[i+1].Kind == token.MPaste
			prevIsPaste := len(out) > 0 && i > 0 && body[i-1].Kind == token.MPaste
			raw := nextIsPaste || prevIsPaste
			sub := argTokens(tk.ArgIndex(), raw)
			for j, s := range sub {
				if j == 0 {
					s.Spacing = tk.Spacing
				}
				out = append(out, s)
			}

		case token.MPaste:
			if len(out) == 0 {
				return nil, fmt.Errorf("%w: %s", ErrInvalidPaste, m.Name)
			}
			left := out[len(out)-1]
			// The right operand: the next body token, itself possibly an
			// MArg (use its raw first token) or MString/literal token.
			var right token.Token
			if i+1 < len(body) {
				nxt := body[i+1]
				switch nxt.Kind {
				case token.MArg:
					rawArg := argTokens(nxt.ArgIndex(), true)
					if len(rawArg) == 0 {
						i++ // consume the (empty) MArg; nothing to paste
						continue
					}
					right = rawArg[0]
					pasted, err := Paste(left, right)
					if err != nil {
						return nil, err
					}
					out[len(out)-1] = pasted
					out = append(out, rawArg[1:]...)
					i++
					continue
				default:
					right = nxt
				}
			}
			pasted, err := Paste(left, right)
			if err != nil {
				return nil, err
			}
			out[len(out)-1] = pasted
			i++

		default:
			out = append(out, tk)
		}
	}
	return out, nil
}
