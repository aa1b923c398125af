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

import (
	"github.com/gocpp-org/ccpp/internal/cc/lexer"
	"github.com/gocpp-org/ccpp/internal/cc/token"
)

// String is a Source backed by an in-memory buffer that isn't a real file:
// the command-line -D/-U synthetic translation unit prologue, or a
// diagnostic-only re-lex of a previously captured span. It has no directory,
// so #include_next from inside one has no quote-relative entry to skip past
// (see DESIGN.md's decided Open Question).
type String struct {
	label string
	lx    *lexer.Lexer
}

func NewString(label string, data []byte) *String {
	return &String{label: label, lx: lexer.New(data)}
}

func (s *String) Kind() Kind       { return StringLexer }
func (s *String) Name() string     { return s.label }
func (s *String) Dir() string      { return "" }
func (s *String) SetIncludeMode(on bool) { s.lx.SetIncludeMode(on) }

func (s *String) Next() (token.Token, bool, error) {
	tok, err := s.lx.Next()
	if tok.Kind == token.EOF {
		return tok, false, err
	}
	return tok, true, err
}
