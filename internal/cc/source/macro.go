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

// Macro replays a macro's substituted replacement list. It alone carries the
// expansion chain ("blue paint"): the set of macro names already being
// expanded along this nested call path, so the expander can refuse to
// re-expand an identifier that names one of them (self- or mutual
// recursion), exactly once, at the point a MacroTokenSource is pushed.
type Macro struct {
	*Fixed
	MacroName string
	chain     map[string]bool
}

// NewMacro builds a Macro source for a call to macroName, inheriting the
// expansion chain of whichever MacroTokenSource (if any) is currently on top
// of the stack, plus macroName itself.
func NewMacro(macroName string, parentChain map[string]bool, toks []token.Token) *Macro {
	chain := make(map[string]bool, len(parentChain)+1)
	for k := range parentChain {
		chain[k] = true
	}
	chain[macroName] = true
	return &Macro{Fixed: NewFixed(macroName, toks), MacroName: macroName, chain: chain}
}

func (m *Macro) Kind() Kind { return MacroTokenSource }

// Painted reports whether name is already being expanded somewhere along
// this macro call's ancestry, i.e. whether it must be left unexpanded to
// avoid infinite recursion.
func (m *Macro) Painted(name string) bool { return m.chain[name] }

// Chain exposes the full set so a newly-pushed nested Macro can inherit it.
func (m *Macro) Chain() map[string]bool { return m.chain }
