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

// punctuatorEntry pairs a literal spelling with its canonical (non-digraph)
// form. The token the lexer emits keeps the literal spelling (stringification
// must reproduce exactly what was written); callers that care about meaning
// rather than spelling (cond, ccexpr, macro) normalize through Canonical.
type punctuatorEntry struct {
	lit, canon string
}

// punctuators is ordered longest-spelling-first so a greedy scan never stops
// at a shorter prefix of a longer operator (e.g. "<<=" before "<<" before "<").
var punctuators = []punctuatorEntry{
	{"<<=", "<<="}, {">>=", ">>="}, {"...", "..."}, {"%:%:", "##"},

	{"<<", "<<"}, {">>", ">>"}, {"<=", "<="}, {">=", ">="}, {"==", "=="}, {"!=", "!="},
	{"&&", "&&"}, {"||", "||"}, {"++", "++"}, {"--", "--"}, {"->", "->"},
	{"+=", "+="}, {"-=", "-="}, {"*=", "*="}, {"/=", "/="}, {"%=", "%="},
	{"&=", "&="}, {"^=", "^="}, {"|=", "|="}, {"::", "::"}, {"##", "##"},
	{"<:", "["}, {":>", "]"}, {"<%", "{"}, {"%>", "}"}, {"%:", "#"},

	{"+", "+"}, {"-", "-"}, {"*", "*"}, {"/", "/"}, {"%", "%"}, {"^", "^"}, {"&", "&"},
	{"|", "|"}, {"~", "~"}, {"!", "!"}, {"<", "<"}, {">", ">"}, {"=", "="},
	{"(", "("}, {")", ")"}, {"[", "["}, {"]", "]"}, {"{", "{"}, {"}", "}"},
	{",", ","}, {";", ";"}, {":", ":"}, {"?", "?"}, {".", "."}, {"#", "#"},
}

// Canonical maps a punctuator's literal spelling (which may be a digraph) to
// its canonical form, e.g. "<:" -> "[", "%:%:" -> "##". Non-digraph spellings
// map to themselves.
func Canonical(spelling string) string {
	for _, p := range punctuators {
		if p.lit == spelling {
			return p.canon
		}
	}
	return spelling
}

func (lx *Lexer) peekMatches(s string) bool {
	for i := 0; i < len(s); i++ {
		ch, ok := lx.r.peek(i)
		if !ok || ch != s[i] {
			return false
		}
	}
	return true
}

// matchPunctuator finds the longest punctuator spelling starting at the
// reader's current position, if any.
func (lx *Lexer) matchPunctuator() (spelling, canonical string, ok bool) {
	for _, p := range punctuators {
		if lx.peekMatches(p.lit) {
			return p.lit, p.canon, true
		}
	}
	return "", "", false
}

// isHashAt reports whether a '#' (or its "%:" digraph) begins at the reader's
// current position, which is the spelling a Hash token needs regardless of
// line position; the caller additionally requires atLineStart.
func (lx *Lexer) isHashAt() (spelling string, ok bool) {
	if lx.peekMatches("%:") {
		return "%:", true
	}
	if lx.peekMatches("#") {
		return "#", true
	}
	return "", false
}
