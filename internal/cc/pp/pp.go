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
	"log"

	"github.com/gocpp-org/ccpp/internal/cc/cond"
	"github.com/gocpp-org/ccpp/internal/cc/include"
	"github.com/gocpp-org/ccpp/internal/cc/macro"
	"github.com/gocpp-org/ccpp/internal/cc/source"
	"github.com/gocpp-org/ccpp/internal/cc/token"
)

// Preprocessor drives a source.Stack through tokenization, macro expansion,
// conditional compilation and file inclusion, yielding one fully
// preprocessed token per Token() call.
type Preprocessor struct {
	stack    *source.Stack
	macros   *macro.Table
	resolver *include.Resolver

	features map[Feature]struct{}
	warnings map[Warning]struct{}

	diag DiagnosticListener
	ctrl ControlListener

	// conds mirrors the File/String push/pop lifecycle of stack: one
	// cond.Stack per live file/string frame, since an unterminated #if
	// inside an included file is itself an error reported at its end, not
	// something that leaks to the includer.
	conds []*cond.Stack

	// pending holds tokens read ahead of the directive/expansion logic and
	// not yet consumed, replayed in order before pulling from stack again.
	pending []token.Token

	// expandErr carries an error surfaced from inside expandArgFully, whose
	// signature (dictated by macro.Substitute/Argument.Expanded) has no
	// error return of its own.
	expandErr error
}

// New builds a Preprocessor whose bottom source is bottom (typically the
// translation unit's main file, or a source.String prologue of -D/-U
// synthetic definitions chained in front of it via an explicit Push).
func New(bottom source.Source, macros *macro.Table, resolver *include.Resolver) *Preprocessor {
	p := &Preprocessor{
		stack:    source.NewStack(bottom),
		macros:   macros,
		resolver: resolver,
		features: map[Feature]struct{}{},
		warnings: map[Warning]struct{}{},
		conds:    []*cond.Stack{cond.NewStack()},
	}
	p.stack.SetListener(p.onSourceEvent)
	return p
}

func (p *Preprocessor) SetDiagnosticListener(l DiagnosticListener) { p.diag = l }
func (p *Preprocessor) SetControlListener(l ControlListener)       { p.ctrl = l }
func (p *Preprocessor) EnableFeature(f Feature)                    { p.features[f] = struct{}{} }
func (p *Preprocessor) EnableWarning(w Warning)                    { p.warnings[w] = struct{}{} }

// hasFeature and hasWarning report membership in the enabled Feature/Warning
// sets, the two-value map-index form since the zero value of struct{} can't
// be used as a presence bool directly.
func (p *Preprocessor) hasFeature(f Feature) bool { _, ok := p.features[f]; return ok }
func (p *Preprocessor) hasWarning(w Warning) bool { _, ok := p.warnings[w]; return ok }

// Push makes src the new top of the source stack, e.g. to chain a
// command-line -D/-U prologue in front of the main translation unit before
// the first call to Token().
func (p *Preprocessor) Push(src source.Source) { p.stack.Push(src) }

func (p *Preprocessor) onSourceEvent(ev source.Event, s source.Source) {
	if p.diag != nil {
		p.diag.HandleSourceChange(ev, s)
	}
	switch s.Kind() {
	case source.FileLexer, source.StringLexer:
		switch ev {
		case source.Push:
			p.conds = append(p.conds, cond.NewStack())
		case source.Pop:
			if cs := p.curCond(); cs.Unclosed() > 0 {
				p.reportErrorHere(fmt.Errorf("#if without matching #endif in %s", s.Name()))
			}
			if len(p.conds) > 1 {
				p.conds = p.conds[:len(p.conds)-1]
			}
		}
	}
}

func (p *Preprocessor) curCond() *cond.Stack { return p.conds[len(p.conds)-1] }

// Token returns the next fully preprocessed token; EOF marks the end of
// the translation unit and is returned forever after.
func (p *Preprocessor) Token() (token.Token, error) {
	for {
		tok, ok, err := p.rawNext()
		if err != nil {
			return token.Token{}, p.reportErrorHere(err)
		}
		if !ok {
			return token.Token{Kind: token.EOF}, nil
		}

		if tok.Kind == token.Hash && !p.topIsUnprocessed() {
			if err := p.handleDirective(); err != nil {
				return token.Token{}, err
			}
			continue
		}

		if !p.curCond().Active() {
			continue
		}

		switch tok.Kind {
		case token.Newline, token.Whitespace:
			continue
		case token.CppComment:
			if p.hasFeature(KEEPCOMMENTS) || p.hasFeature(KEEPALLCOMMENTS) {
				return tok, nil
			}
			continue
		case token.CComment:
			if p.hasFeature(KEEPALLCOMMENTS) {
				return tok, nil
			}
			continue
		case token.Identifier:
			if p.topIsUnprocessed() {
				return tok, nil
			}
			did, err := p.tryExpandMain(tok)
			if err != nil {
				return token.Token{}, p.reportErrorHere(err)
			}
			if did {
				continue
			}
			return tok, nil
		default:
			return tok, nil
		}
	}
}

func (p *Preprocessor) topIsUnprocessed() bool {
	s := p.stack.Top()
	return s != nil && s.Kind() == source.UnprocessedFixedTokenSource
}

func (p *Preprocessor) currentSourceName() string {
	if s := p.stack.Top(); s != nil {
		return s.Name()
	}
	return ""
}

func (p *Preprocessor) currentPos() token.Position {
	if pr, ok := p.stack.Top().(interface{ Position() token.Position }); ok {
		return pr.Position()
	}
	return token.Position{}
}

// rawNext pulls the next token, preferring anything pushed back over the
// stack's own tokens.
func (p *Preprocessor) rawNext() (token.Token, bool, error) {
	if len(p.pending) > 0 {
		t := p.pending[0]
		p.pending = p.pending[1:]
		return t, true, nil
	}
	return p.stack.Next()
}

// pushbackAll replays toks, in order, ahead of whatever is still on stack.
func (p *Preprocessor) pushbackAll(toks []token.Token) {
	if len(toks) == 0 {
		return
	}
	p.pending = append(append([]token.Token{}, toks...), p.pending...)
}

// nextSubstantive skips Skippable tokens and returns the first token that
// either matters (not whitespace/comment) or signals end-of-line/input.
func (p *Preprocessor) nextSubstantive() (token.Token, bool, error) {
	for {
		tok, ok, err := p.rawNext()
		if err != nil || !ok {
			return tok, ok, err
		}
		if tok.Skippable() {
			continue
		}
		return tok, true, nil
	}
}

// readLine pulls raw tokens up to (and consuming, but not returning) the
// next Newline or EOF.
func (p *Preprocessor) readLine() ([]token.Token, error) {
	var out []token.Token
	for {
		tok, ok, err := p.rawNext()
		if err != nil {
			return out, err
		}
		if !ok || tok.Kind == token.Newline {
			return out, nil
		}
		out = append(out, tok)
	}
}

func (p *Preprocessor) skipToNewline() error {
	for {
		tok, ok, err := p.rawNext()
		if err != nil {
			return err
		}
		if !ok || tok.Kind == token.Newline {
			return nil
		}
	}
}

// reportErrorAt routes an error through the diagnostic listener if one is
// installed (in which case processing continues, nil is returned), or else
// logs it and returns it as the single failure mode of Token() (spec §7).
func (p *Preprocessor) reportErrorAt(pos token.Position, err error) error {
	src := p.currentSourceName()
	if p.diag != nil {
		p.diag.HandleError(src, pos.Line, pos.Column, err.Error())
		return nil
	}
	log.Printf("ccpp: %s:%d:%d: %v", src, pos.Line, pos.Column, err)
	return err
}

func (p *Preprocessor) reportErrorHere(err error) error {
	return p.reportErrorAt(p.currentPos(), err)
}

// reportWarning routes msg to the diagnostic listener, escalating to an
// error if the ERROR warning flag is set; without a listener it only logs,
// since a bare warning is never, by itself, Token()'s failure mode.
func (p *Preprocessor) reportWarning(msg string) error {
	pos := p.currentPos()
	src := p.currentSourceName()
	if p.hasWarning(ERROR) {
		return p.reportErrorAt(pos, fmt.Errorf("%s", msg))
	}
	if p.diag != nil {
		p.diag.HandleWarning(src, pos.Line, pos.Column, msg)
		return nil
	}
	log.Printf("ccpp: warning: %s:%d:%d: %s", src, pos.Line, pos.Column, msg)
	return nil
}
