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

// Package macro holds the macro table and the expansion engine: argument
// parsing for function-like calls, '#' stringification, '##' token pasting,
// and the predefined __LINE__/__FILE__/__COUNTER__ sentinels.
package macro

import (
	"strconv"

	"github.com/gocpp-org/ccpp/internal/cc/token"
)

// Macro is either an object-like or function-like macro definition. Body
// holds the replacement list with parameter references already rewritten to
// token.MArg/MString/MPaste markers by ParseDefine.
type Macro struct {
	Name         string
	FunctionLike bool
	Params       []string
	Variadic     bool
	Body         []token.Token

	// Predefined sentinels (__LINE__, __FILE__, __COUNTER__) compute their
	// replacement dynamically instead of replaying a stored Body.
	Dynamic func(callPos token.Position, presentedFile string) []token.Token
}

func (m *Macro) arity() int { return len(m.Params) }

// Table is the set of macros currently in effect. Definitions are mutable
// (a later #define/#undef shadows an earlier one), matching the one live
// environment a translation unit carries at any point in spec §4.D.
type Table struct {
	macros  map[string]*Macro
	counter int
}

// NewTable returns a Table seeded with only the three built-in dynamic
// macros __LINE__, __FILE__ and __COUNTER__; platform macros are added
// separately by package platform.
func NewTable() *Table {
	t := &Table{macros: map[string]*Macro{}}
	t.seedBuiltins()
	return t
}

func (t *Table) seedBuiltins() {
	t.macros["__LINE__"] = &Macro{
		Name: "__LINE__", Dynamic: func(pos token.Position, _ string) []token.Token {
			s := strconv.Itoa(pos.Line)
			return []token.Token{{Kind: token.Number, Text: s, Pos: pos, Value: &token.NumericValue{Radix: 10, IntDigits: s}}}
		},
	}
	t.macros["__FILE__"] = &Macro{
		Name: "__FILE__", Dynamic: func(pos token.Position, file string) []token.Token {
			return []token.Token{{Kind: token.String, Text: strconv.Quote(file), Pos: pos, Value: file}}
		},
	}
	t.macros["__COUNTER__"] = &Macro{
		Name: "__COUNTER__", Dynamic: func(pos token.Position, _ string) []token.Token {
			n := t.counter
			t.counter++
			s := strconv.Itoa(n)
			return []token.Token{{Kind: token.Number, Text: s, Pos: pos, Value: &token.NumericValue{Radix: 10, IntDigits: s}}}
		},
	}
}

// Define installs m, replacing any earlier definition of the same name.
func (t *Table) Define(m *Macro) { t.macros[m.Name] = m }

// Undefine removes name, a no-op if it wasn't defined.
func (t *Table) Undefine(name string) { delete(t.macros, name) }

// Lookup returns the macro named name, if any.
func (t *Table) Lookup(name string) (*Macro, bool) { m, ok := t.macros[name]; return m, ok }

// IsDefined reports whether name is currently a macro, for `defined`/#ifdef.
func (t *Table) IsDefined(name string) bool { _, ok := t.macros[name]; return ok }

// Names returns every currently-defined macro name, for -dM-style dumps.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.macros))
	for n := range t.macros {
		names = append(names, n)
	}
	return names
}
