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

package source

import "github.com/gocpp-org/ccpp/internal/cc/token"

// Fixed replays an already-tokenized slice, e.g. the pre-expanded argument
// text substituted into a macro body once, or a pasted-token re-lex result
// that itself needs no further macro expansion.
type Fixed struct {
	name string
	toks []token.Token
	i    int
}

func NewFixed(name string, toks []token.Token) *Fixed {
	return &Fixed{name: name, toks: toks}
}

func (f *Fixed) Kind() Kind   { return FixedTokenSource }
func (f *Fixed) Name() string { return f.name }

func (f *Fixed) Next() (token.Token, bool, error) {
	if f.i >= len(f.toks) {
		return token.Token{Kind: token.EOF}, false, nil
	}
	t := f.toks[f.i]
	f.i++
	return t, true, nil
}

// UnprocessedFixed replays a token slice exactly like Fixed but is tagged
// separately so the driver can recognize it: it carries a directive line that
// the control listener declined and that is re-emitted verbatim. A '#' pulled
// from here does not start a directive, and identifiers pulled from here are
// passed through without macro expansion.
type UnprocessedFixed struct {
	*Fixed
}

func NewUnprocessedFixed(name string, toks []token.Token) *UnprocessedFixed {
	return &UnprocessedFixed{Fixed: NewFixed(name, toks)}
}

func (u *UnprocessedFixed) Kind() Kind { return UnprocessedFixedTokenSource }
