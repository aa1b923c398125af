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
	"fmt"
	"strings"

	"github.com/gocpp-org/ccpp/internal/cc/ccexpr"
	"github.com/gocpp-org/ccpp/internal/cc/cond"
	"github.com/gocpp-org/ccpp/internal/cc/include"
	"github.com/gocpp-org/ccpp/internal/cc/lexer"
	"github.com/gocpp-org/ccpp/internal/cc/macro"
	"github.com/gocpp-org/ccpp/internal/cc/source"
	"github.com/gocpp-org/ccpp/internal/cc/token"
)

type includeModeSetter interface{ SetIncludeMode(on bool) }
type presentedSetter interface{ SetPresented(name string, line int) }

// handleDirective is called right after a Hash token that starts a real
// (not replayed) directive line; it dispatches on the directive name.
func (p *Preprocessor) handleDirective() error {
	nameTok, ok, err := p.nextSubstantive()
	if err != nil {
		return p.reportErrorHere(err)
	}
	if !ok || nameTok.Kind == token.Newline {
		return nil // a lone '#' is a valid null directive
	}
	if nameTok.Kind != token.Identifier {
		err := p.reportErrorAt(nameTok.Pos, fmt.Errorf("%w: expected a directive name", ErrUnknownDirective))
		if serr := p.skipToNewline(); serr != nil {
			return serr
		}
		return err
	}

	switch nameTok.Text {
	case "include":
		return p.doInclude(false)
	case "include_next":
		return p.doInclude(true)
	}

	rest, err := p.readLine()
	if err != nil {
		return p.reportErrorHere(err)
	}

	switch nameTok.Text {
	case "define":
		return p.doDefine(rest)
	case "undef":
		return p.doUndef(rest)
	case "if":
		return p.doIf(rest)
	case "ifdef":
		return p.doIfdefIfndef(rest, true)
	case "ifndef":
		return p.doIfdefIfndef(rest, false)
	case "elif":
		return p.doElif(rest)
	case "else":
		return p.doElse()
	case "endif":
		return p.doEndif()
	case "line":
		return p.doLine(rest)
	case "pragma":
		return p.doPragma(rest)
	case "error":
		return p.doError(rest)
	case "warning":
		return p.doWarning(rest)
	default:
		return p.reportErrorAt(nameTok.Pos, fmt.Errorf("%w: #%s", ErrUnknownDirective, nameTok.Text))
	}
}

func (p *Preprocessor) doDefine(rest []token.Token) error {
	if !p.curCond().Active() {
		return nil
	}
	m, err := macro.ParseDefine(rest)
	if err != nil {
		return p.reportErrorHere(err)
	}
	if p.ctrl != nil && !p.ctrl.AddMacro(m.Name, p.currentSourceName()) {
		return p.reemitDirectiveLine("define", rest, KindIf, false)
	}
	p.macros.Define(m)
	if p.diag != nil {
		p.diag.HandleDefine(m.Name, p.currentSourceName())
	}
	return nil
}

func (p *Preprocessor) doUndef(rest []token.Token) error {
	if !p.curCond().Active() {
		return nil
	}
	name, ok := firstIdentifier(rest)
	if !ok {
		return p.reportErrorHere(fmt.Errorf("%w: #undef expects a macro name", ErrBadConditional))
	}
	if p.ctrl != nil && !p.ctrl.RemoveMacro(name, p.currentSourceName()) {
		return p.reemitDirectiveLine("undef", rest, KindIf, false)
	}
	p.macros.Undefine(name)
	if p.diag != nil {
		p.diag.HandleUndefine(name, p.currentSourceName())
	}
	return nil
}

func (p *Preprocessor) doInclude(isNext bool) error {
	if setter, ok := p.stack.Top().(includeModeSetter); ok {
		setter.SetIncludeMode(true)
	}
	tok, ok, err := p.nextSubstantive()
	if setter, ok2 := p.stack.Top().(includeModeSetter); ok2 {
		setter.SetIncludeMode(false)
	}
	if err != nil {
		return p.reportErrorHere(err)
	}
	rest, rerr := p.readLine()
	if rerr != nil {
		return p.reportErrorHere(rerr)
	}
	_ = rest

	if !p.curCond().Active() {
		return nil
	}
	if isNext && !p.hasFeature(INCLUDENEXT) {
		return p.reportErrorAt(tok.Pos, ErrIncludeNextOff)
	}
	if !ok || tok.Kind != token.Header {
		return p.reportErrorAt(tok.Pos, fmt.Errorf("%w: expected a header name", ErrIncludeSyntax))
	}

	name := tok.Text
	quoted := strings.HasPrefix(name, "\"")
	if len(name) < 2 {
		return p.reportErrorAt(tok.Pos, fmt.Errorf("%w: malformed header name %q", ErrIncludeSyntax, name))
	}
	inner := name[1 : len(name)-1]

	fromDir := ""
	if fn, ok := p.stack.Top().(source.FileName); ok {
		fromDir = fn.Dir()
	}

	if p.ctrl != nil && !p.ctrl.Include(inner, isNext, p.currentSourceName()) {
		return p.reemitDirectiveLine(directiveNameForInclude(isNext), []token.Token{tok}, KindIf, false)
	}

	var res *include.Result
	if isNext {
		res, err = p.resolver.ResolveNext(inner, fromDir)
	} else {
		kind := include.System
		if quoted {
			kind = include.Quote
		}
		res, err = p.resolver.Resolve(kind, inner, fromDir)
	}
	if err != nil {
		return p.reportErrorAt(tok.Pos, err)
	}

	if p.hasFeature(PRAGMA_ONCE) && res.HasKey && p.resolver.Seen(res.Key) {
		return nil
	}
	if p.diag != nil {
		p.diag.HandleInclude(inner, isNext, p.currentSourceName(), res.Path)
	}
	p.stack.Push(source.NewFile(res.Path, res.Data, res.Key, res.HasKey))
	return nil
}

func directiveNameForInclude(isNext bool) string {
	if isNext {
		return "include_next"
	}
	return "include"
}

func (p *Preprocessor) doIf(rest []token.Token) error {
	cs := p.curCond()
	if !cs.Active() {
		cs.PushIf(false)
		return nil
	}
	if p.ctrl != nil && !p.ctrl.ProcessIf(rest, p.currentSourceName(), KindIf) {
		cs.PushUnresolved()
		return p.reemitDirectiveLine("if", rest, KindIf, true)
	}
	expanded, err := p.expandConditionTokens(rest)
	if err != nil {
		return p.reportErrorHere(err)
	}
	v, err := ccexpr.Eval(expanded, p.macros)
	if err != nil {
		cs.PushIf(false)
		return p.reportErrorHere(err)
	}
	cs.PushIf(v != 0)
	return nil
}

func (p *Preprocessor) doIfdefIfndef(rest []token.Token, ifdef bool) error {
	cs := p.curCond()
	if !cs.Active() {
		cs.PushIf(false)
		return nil
	}
	kind := KindIfdef
	name := "ifdef"
	if !ifdef {
		kind = KindIfndef
		name = "ifndef"
	}
	if p.ctrl != nil && !p.ctrl.ProcessIf(rest, p.currentSourceName(), kind) {
		cs.PushUnresolved()
		return p.reemitDirectiveLine(name, rest, kind, true)
	}
	macroName, ok := firstIdentifier(rest)
	if !ok {
		cs.PushIf(false)
		return p.reportErrorHere(fmt.Errorf("%w: #%s expects a macro name", ErrBadConditional, name))
	}
	defined := p.macros.IsDefined(macroName)
	if !ifdef {
		defined = !defined
	}
	cs.PushIf(defined)
	return nil
}

func (p *Preprocessor) doElif(rest []token.Token) error {
	cs := p.curCond()
	if cs.Depth() == 0 {
		return p.reportErrorHere(cond.ErrUnbalancedEndif)
	}
	if cs.TopUnresolved() {
		_ = cs.Elif(false)
		return p.reemitDirectiveLine("elif", rest, KindElif, true)
	}
	if !cs.TopNeedsEval() {
		if err := cs.Elif(false); err != nil {
			return p.reportErrorHere(err)
		}
		return nil
	}
	if p.ctrl != nil && !p.ctrl.ProcessIf(rest, p.currentSourceName(), KindElif) {
		cs.MarkUnresolved()
		return p.reemitDirectiveLine("elif", rest, KindElif, true)
	}
	expanded, err := p.expandConditionTokens(rest)
	if err != nil {
		return p.reportErrorHere(err)
	}
	v, err := ccexpr.Eval(expanded, p.macros)
	if err != nil {
		if rerr := p.reportErrorHere(err); rerr != nil {
			return rerr
		}
		v = 0
	}
	if err := cs.Elif(v != 0); err != nil {
		return p.reportErrorHere(err)
	}
	return nil
}

func (p *Preprocessor) doElse() error {
	cs := p.curCond()
	if cs.Depth() == 0 {
		return p.reportErrorHere(cond.ErrUnbalancedEndif)
	}
	wasUnresolved := cs.TopUnresolved()
	if err := cs.Else(); err != nil {
		return p.reportErrorHere(err)
	}
	if wasUnresolved {
		return p.reemitDirectiveLine("else", nil, KindIf, false)
	}
	return nil
}

func (p *Preprocessor) doEndif() error {
	cs := p.curCond()
	if cs.Depth() == 0 {
		return p.reportErrorHere(cond.ErrUnbalancedEndif)
	}
	wasUnresolved := cs.TopUnresolved()
	if err := cs.Endif(); err != nil {
		return p.reportErrorHere(err)
	}
	if wasUnresolved {
		return p.reemitDirectiveLine("endif", nil, KindIf, false)
	}
	return nil
}

func (p *Preprocessor) doLine(rest []token.Token) error {
	if !p.curCond().Active() {
		return nil
	}
	toks := stripSkippable(rest)
	if len(toks) == 0 || toks[0].Kind != token.Number {
		return p.reportErrorHere(fmt.Errorf("%w: expected a line number", ErrMalformedLine))
	}
	nv, ok := toks[0].NumericValue()
	if !ok {
		return p.reportErrorHere(fmt.Errorf("%w: bad line number", ErrMalformedLine))
	}
	line := int(nv.Long())
	name := ""
	if len(toks) > 1 && toks[1].Kind == token.String {
		if s, ok := toks[1].StringValue(); ok {
			name = s
		}
	}
	if setter, ok := p.stack.Top().(presentedSetter); ok {
		if name == "" {
			name = p.currentSourceName()
		}
		setter.SetPresented(name, line)
	}
	return nil
}

func (p *Preprocessor) doPragma(rest []token.Token) error {
	if !p.curCond().Active() {
		return nil
	}
	toks := stripSkippable(rest)
	if len(toks) > 0 && toks[0].Kind == token.Identifier && toks[0].Text == "once" {
		if p.hasFeature(PRAGMA_ONCE) {
			if keyer, ok := p.stack.Top().(source.PragmaOnceKey); ok {
				if key, has := keyer.Key(); has {
					p.resolver.MarkSeen(key)
				}
			}
		}
		return nil
	}
	return p.reportWarning("unknown #pragma " + joinText(toks))
}

func (p *Preprocessor) doError(rest []token.Token) error {
	if !p.curCond().Active() {
		return nil
	}
	msg := joinText(stripSkippable(rest))
	return p.reportErrorHere(fmt.Errorf("%w: %s", ErrUserError, msg))
}

func (p *Preprocessor) doWarning(rest []token.Token) error {
	if !p.curCond().Active() {
		return nil
	}
	return p.reportWarning(joinText(stripSkippable(rest)))
}

// reemitDirectiveLine pushes a reconstructed "#name rest\n" line as an
// UnprocessedFixed source so the caller sees the directive verbatim while
// the driver itself never re-interprets it. useKind consults the control
// listener's GetPartiallyProcessedCondition for an alternate spelling of
// the condition (if-family directives only).
func (p *Preprocessor) reemitDirectiveLine(name string, rest []token.Token, kind IfKind, useKind bool) error {
	body := rest
	if useKind && p.ctrl != nil {
		if s, ok := p.ctrl.GetPartiallyProcessedCondition(rest, p.currentSourceName(), kind, name); ok {
			if toks, err := retokenize(s); err == nil {
				body = toks
			}
		}
	}
	line := buildDirectiveLine(name, body)
	p.stack.Push(source.NewUnprocessedFixed("<directive>", line))
	return nil
}

func buildDirectiveLine(name string, rest []token.Token) []token.Token {
	out := make([]token.Token, 0, len(rest)+3)
	out = append(out, token.Token{Kind: token.Hash, Text: "#"})
	out = append(out, token.Token{Kind: token.Identifier, Text: name, Spacing: true})
	for i, t := range rest {
		if i == 0 {
			t.Spacing = true
		}
		out = append(out, t)
	}
	out = append(out, token.Token{Kind: token.Newline, Text: "\n"})
	return out
}

func retokenize(s string) ([]token.Token, error) {
	lx := lexer.New([]byte(s))
	var out []token.Token
	for {
		t, err := lx.Next()
		if err != nil {
			return nil, err
		}
		if t.Kind == token.EOF {
			return out, nil
		}
		out = append(out, t)
	}
}

func firstIdentifier(toks []token.Token) (string, bool) {
	for _, t := range toks {
		if t.Skippable() || t.Kind == token.Newline {
			continue
		}
		if t.Kind == token.Identifier {
			return t.Text, true
		}
		return "", false
	}
	return "", false
}

func stripSkippable(toks []token.Token) []token.Token {
	var out []token.Token
	for _, t := range toks {
		if t.Skippable() || t.Kind == token.Newline {
			continue
		}
		out = append(out, t)
	}
	return out
}

func joinText(toks []token.Token) string {
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 && t.Spacing {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}
