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

package pp

import (
	"github.com/gocpp-org/ccpp/internal/cc/macro"
	"github.com/gocpp-org/ccpp/internal/cc/source"
	"github.com/gocpp-org/ccpp/internal/cc/token"
)

// driverTokenSource lets the argument gatherer pull raw tokens (whitespace
// and comments included, for spacing fidelity) straight off the driver's
// own stack/pushback, exactly like a live Token() caller would.
type driverTokenSource struct{ p *Preprocessor }

func (d driverTokenSource) Next() (token.Token, bool, error) { return d.p.rawNext() }

// tryExpandMain attempts to expand tok (already known to be an Identifier)
// as a macro invocation on the live token stream. It reports whether an
// expansion was pushed (the caller should loop and pull again) or tok
// should be returned to the caller unexpanded.
func (p *Preprocessor) tryExpandMain(tok token.Token) (bool, error) {
	m, defined := p.macros.Lookup(tok.Text)
	if !defined {
		return false, nil
	}
	chain := p.stack.ActiveChain()
	if chain != nil && chain[tok.Text] {
		return false, nil
	}
	if p.ctrl != nil && !p.ctrl.ExpandMacro(tok.Text, p.currentSourceName(), tok.Pos.Line, tok.Pos.Column, false) {
		return false, nil
	}

	if m.Dynamic != nil {
		body := m.Dynamic(tok.Pos, p.currentSourceName())
		p.stack.Push(source.NewMacro(tok.Text, chain, body))
		return true, nil
	}

	if !m.FunctionLike {
		body, err := p.substitute(m, nil)
		if err != nil {
			return false, err
		}
		p.stack.Push(source.NewMacro(tok.Text, chain, body))
		return true, nil
	}

	found, err := p.peekOpenParen()
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	args, err := macro.GatherArguments(driverTokenSource{p}, len(m.Params), m.Variadic)
	if err != nil {
		return false, err
	}
	if err := macro.CheckArity(m, args); err != nil {
		return false, err
	}
	body, err := p.substitute(m, args)
	if err != nil {
		return false, err
	}
	p.stack.Push(source.NewMacro(tok.Text, chain, body))
	return true, nil
}

// substitute wraps macro.Substitute, surfacing any error that escaped
// through expandArgFully's error-less callback signature.
func (p *Preprocessor) substitute(m *macro.Macro, args []macro.Argument) ([]token.Token, error) {
	body, err := macro.Substitute(m, args, p.expandArgFully)
	if err == nil {
		err = p.expandErr
	}
	p.expandErr = nil
	return body, err
}

// expandArgFully fully macro-expands a gathered argument's raw tokens, for
// use next to neither '#' nor '##' (spec §4.E). Argument pre-expansion is
// its own independent expansion context: it always starts from an empty
// chain, since the argument's text is lexically unrelated to whatever macro
// body it is being substituted into.
func (p *Preprocessor) expandArgFully(raw []token.Token) []token.Token {
	out, err := p.expandSlice(raw, nil)
	if err != nil {
		if p.expandErr == nil {
			p.expandErr = err
		}
		return raw
	}
	return out
}

// peekOpenParen looks ahead across whitespace/comments/newlines (possibly
// spanning several lines, or even a source-stack autopop) for a function-
// like macro call's opening '('. If found, it is consumed and true is
// returned; otherwise every peeked token is pushed back in original order
// and false is returned, so the identifier is emitted verbatim.
func (p *Preprocessor) peekOpenParen() (bool, error) {
	var skipped []token.Token
	for {
		tok, ok, err := p.rawNext()
		if err != nil {
			p.pushbackAll(skipped)
			return false, err
		}
		if !ok {
			p.pushbackAll(skipped)
			return false, nil
		}
		if tok.Skippable() || tok.Kind == token.Newline {
			skipped = append(skipped, tok)
			continue
		}
		if tok.Kind == token.Punct && tok.Text == "(" {
			return true, nil
		}
		p.pushbackAll(append(skipped, tok))
		return false, nil
	}
}

// sliceCursor adapts a flat token slice to macro.TokenSource, for contexts
// that need a fully-flattened expansion up front instead of the live
// stream's incremental pull: #if/#elif condition tokens and (via
// expandArgFully) macro arguments.
type sliceCursor struct {
	toks []token.Token
	i    int
}

func (c *sliceCursor) Next() (token.Token, bool, error) {
	if c.i >= len(c.toks) {
		return token.Token{Kind: token.EOF}, false, nil
	}
	t := c.toks[c.i]
	c.i++
	return t, true, nil
}

// skipToOpenParen looks ahead in c, skipping whitespace/comments/newlines,
// for a '('. On success it is left consumed; on failure c is rewound so the
// skipped tokens are seen again by the caller's own loop.
func skipToOpenParen(c *sliceCursor) (bool, error) {
	start := c.i
	for {
		tok, ok, err := c.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			c.i = start
			return false, nil
		}
		if tok.Skippable() || tok.Kind == token.Newline {
			continue
		}
		if tok.Kind == token.Punct && tok.Text == "(" {
			return true, nil
		}
		c.i = start
		return false, nil
	}
}

func mergeChain(chain map[string]bool, name string) map[string]bool {
	nested := make(map[string]bool, len(chain)+1)
	for k := range chain {
		nested[k] = true
	}
	nested[name] = true
	return nested
}

// expandSlice fully macro-expands a flat token slice (a #if/#elif
// condition, or a macro argument's raw text), recursively rescanning each
// expansion's own output. chain is the self-recursion "blue paint" set
// inherited from whatever context toks came from; it only grows here when
// rescanning a substituted macro body's own output, never when pre-
// expanding a (conceptually independent) macro call's arguments.
func (p *Preprocessor) expandSlice(toks []token.Token, chain map[string]bool) ([]token.Token, error) {
	c := &sliceCursor{toks: toks}
	var out []token.Token
	for {
		tok, ok, err := c.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		if tok.Kind != token.Identifier {
			out = append(out, tok)
			continue
		}
		m, defined := p.macros.Lookup(tok.Text)
		if !defined || chain[tok.Text] {
			out = append(out, tok)
			continue
		}
		if p.ctrl != nil && !p.ctrl.ExpandMacro(tok.Text, p.currentSourceName(), tok.Pos.Line, tok.Pos.Column, true) {
			out = append(out, tok)
			continue
		}

		if m.Dynamic != nil {
			body := m.Dynamic(tok.Pos, p.currentSourceName())
			expanded, err := p.expandSlice(body, mergeChain(chain, tok.Text))
			if err != nil {
				return out, err
			}
			out = append(out, expanded...)
			continue
		}

		if !m.FunctionLike {
			body, err := p.substitute(m, nil)
			if err != nil {
				return out, err
			}
			expanded, err := p.expandSlice(body, mergeChain(chain, tok.Text))
			if err != nil {
				return out, err
			}
			out = append(out, expanded...)
			continue
		}

		found, err := skipToOpenParen(c)
		if err != nil {
			return out, err
		}
		if !found {
			out = append(out, tok)
			continue
		}
		args, err := macro.GatherArguments(c, len(m.Params), m.Variadic)
		if err != nil {
			return out, err
		}
		if err := macro.CheckArity(m, args); err != nil {
			return out, err
		}
		body, err := p.substitute(m, args)
		if err != nil {
			return out, err
		}
		expanded, err := p.expandSlice(body, mergeChain(chain, tok.Text))
		if err != nil {
			return out, err
		}
		out = append(out, expanded...)
	}
}

// expandConditionTokens macro-expands a #if/#elif condition, protecting
// "defined IDENT" and "defined ( IDENT )" spans from expansion (spec §4.F):
// those two shapes are copied through untouched, and every other run of
// tokens between them is expanded as a unit.
func (p *Preprocessor) expandConditionTokens(rest []token.Token) ([]token.Token, error) {
	toks := stripSkippable(rest)
	var out []token.Token
	i := 0
	for i < len(toks) {
		if toks[i].Kind == token.Identifier && toks[i].Text == "defined" {
			if span, n := protectedDefinedSpan(toks[i:]); n > 0 {
				out = append(out, span...)
				i += n
				continue
			}
			out = append(out, toks[i])
			i++
			continue
		}
		start := i
		for i < len(toks) && !(toks[i].Kind == token.Identifier && toks[i].Text == "defined") {
			i++
		}
		expanded, err := p.expandSlice(toks[start:i], nil)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

// protectedDefinedSpan recognizes "defined IDENT" or "defined ( IDENT )" at
// the start of toks, returning the span (including "defined" itself) and
// its length, or (nil, 0) if toks doesn't start with one of those shapes.
func protectedDefinedSpan(toks []token.Token) ([]token.Token, int) {
	if len(toks) >= 2 && toks[1].Kind == token.Identifier {
		return toks[:2], 2
	}
	if len(toks) >= 4 && toks[1].Is(token.Punct, "(") && toks[2].Kind == token.Identifier && toks[3].Is(token.Punct, ")") {
		return toks[:4], 4
	}
	return nil, 0
}
