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
	"regexp"
	"strings"

	"github.com/gocpp-org/ccpp/internal/cc/lexer"
	"github.com/gocpp-org/ccpp/internal/cc/token"
)

// identifierRegex matches a valid C identifier: '_' or a letter, then any
// run of letters, digits, or '_'.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseCommandLineDefine parses a gcc/clang "-D" style definition, e.g.
// "FOO", "FOO=1", "-DFOO=bar(1)". A bare name with no '=' defines FOO as 1,
// matching the compiler convention.
func ParseCommandLineDefine(definition string) (*Macro, error) {
	definition = strings.TrimPrefix(definition, "-D")
	name, body, hasValue := definition, "", false
	if eq := strings.IndexByte(definition, '='); eq >= 0 {
		name, body, hasValue = definition[:eq], definition[eq+1:], true
	}
	if !identifierRegex.MatchString(name) {
		return nil, fmt.Errorf("invalid macro name %q", name)
	}
	if !hasValue {
		body = "1"
	}
	toks, err := tokenizeReplacement(body)
	if err != nil {
		return nil, fmt.Errorf("macro %s: %w", name, err)
	}
	return &Macro{Name: name, Body: toks}, nil
}

// ParseCommandLineDefines parses every definition, aggregating failures with
// errors.Join so one malformed "-D" doesn't hide problems with the rest.
func ParseCommandLineDefines(definitions []string) ([]*Macro, error) {
	var macros []*Macro
	var errs []error
	for _, d := range definitions {
		m, err := ParseCommandLineDefine(d)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d, err))
			continue
		}
		macros = append(macros, m)
	}
	return macros, errors.Join(errs...)
}

func tokenizeReplacement(body string) ([]token.Token, error) {
	lx := lexer.New([]byte(body))
	var out []token.Token
	pendingSpace := false
	for {
		t, err := lx.Next()
		if err != nil {
			return nil, err
		}
		if t.Kind == token.EOF {
			break
		}
		if t.Skippable() {
			pendingSpace = true
			continue
		}
		if pendingSpace && len(out) > 0 {
			t.Spacing = true
		}
		out = append(out, t)
		pendingSpace = false
	}
	return out, nil
}

// ParseDefine builds a Macro from the token stream following the "define"
// keyword of a #define directive (whitespace/comments already present as
// Skippable tokens, not yet stripped). The first token must be the macro
// name; an immediately-adjacent, unspaced '(' marks a function-like macro.
func ParseDefine(body []token.Token) (*Macro, error) {
	body = dropLeadingSpace(body)
	if len(body) == 0 || body[0].Kind != token.Identifier {
		return nil, fmt.Errorf("#define: expected a macro name")
	}
	name := body[0].Text
	rest := body[1:]
	m := &Macro{Name: name}

	if len(rest) > 0 && rest[0].Kind == token.Punct && rest[0].Text == "(" && !rest[0].Spacing {
		m.FunctionLike = true
		rest = rest[1:]
		var err error
		rest, err = parseParamList(m, rest)
		if err != nil {
			return nil, err
		}
	}

	seenParam := make(map[string]bool, len(m.Params))
	for _, param := range m.Params {
		if seenParam[param] {
			return nil, fmt.Errorf("#define %s: duplicate parameter name %q", name, param)
		}
		seenParam[param] = true
	}

	repl := compressReplacement(rest)
	if err := m.setBody(repl); err != nil {
		return nil, err
	}
	return m, nil
}

func parseParamList(m *Macro, rest []token.Token) ([]token.Token, error) {
	rest = dropLeadingSpace(rest)
	if len(rest) > 0 && rest[0].Kind == token.Punct && rest[0].Text == ")" {
		return rest[1:], nil
	}
	for {
		rest = dropLeadingSpace(rest)
		if len(rest) == 0 {
			return nil, fmt.Errorf("#define %s: unterminated parameter list", m.Name)
		}
		if rest[0].Kind == token.Punct && rest[0].Text == "..." {
			m.Variadic = true
			rest = dropLeadingSpace(rest[1:])
			if len(rest) == 0 || !(rest[0].Kind == token.Punct && rest[0].Text == ")") {
				return nil, fmt.Errorf("#define %s: '...' must be the last parameter", m.Name)
			}
			return rest[1:], nil
		}
		if rest[0].Kind != token.Identifier {
			return nil, fmt.Errorf("#define %s: expected a parameter name", m.Name)
		}
		if rest[0].Text == "__VA_ARGS__" {
			return nil, fmt.Errorf("#define %s: __VA_ARGS__ may not be used as a parameter name", m.Name)
		}
		m.Params = append(m.Params, rest[0].Text)
		rest = dropLeadingSpace(rest[1:])
		if len(rest) == 0 {
			return nil, fmt.Errorf("#define %s: unterminated parameter list", m.Name)
		}
		switch {
		case rest[0].Kind == token.Punct && rest[0].Text == ",":
			rest = rest[1:]
			continue
		case rest[0].Kind == token.Punct && rest[0].Text == ")":
			return rest[1:], nil
		default:
			return nil, fmt.Errorf("#define %s: expected ',' or ')' in parameter list", m.Name)
		}
	}
}

func (m *Macro) paramIndex(name string) (int, bool) {
	for i, p := range m.Params {
		if p == name {
			return i, true
		}
	}
	if m.Variadic && name == "__VA_ARGS__" {
		return len(m.Params), true
	}
	return -1, false
}

// setBody rewrites repl's parameter references, '#' stringify operators,
// and '##' paste operators into the internal marker tokens the expander
// looks for, and validates the "## may not be first or last" constraint.
func (m *Macro) setBody(repl []token.Token) error {
	var out []token.Token
	for i := 0; i < len(repl); i++ {
		tk := repl[i]
		if m.FunctionLike && tk.Kind == token.Punct && tk.Text == "#" {
			j := i + 1
			for j < len(repl) && repl[j].Skippable() {
				j++
			}
			if j >= len(repl) || repl[j].Kind != token.Identifier {
				return fmt.Errorf("#define %s: '#' is not followed by a macro parameter", m.Name)
			}
			idx, ok := m.paramIndex(repl[j].Text)
			if !ok {
				return fmt.Errorf("#define %s: '#' is not followed by a macro parameter", m.Name)
			}
			out = append(out, token.Token{Kind: token.MString, Text: "#" + repl[j].Text, Value: idx, Pos: tk.Pos, Spacing: tk.Spacing})
			i = j
			continue
		}
		if tk.Kind == token.Punct && tk.Text == "##" {
			out = append(out, token.Token{Kind: token.MPaste, Text: "##", Pos: tk.Pos, Spacing: tk.Spacing})
			continue
		}
		if tk.Kind == token.Identifier {
			if idx, ok := m.paramIndex(tk.Text); ok {
				out = append(out, token.Token{Kind: token.MArg, Text: tk.Text, Value: idx, Pos: tk.Pos, Spacing: tk.Spacing})
				continue
			}
		}
		out = append(out, tk)
	}
	if len(out) > 0 && out[0].Kind == token.MPaste {
		return fmt.Errorf("#define %s: '##' cannot appear at the start of a replacement list", m.Name)
	}
	if len(out) > 0 && out[len(out)-1].Kind == token.MPaste {
		return fmt.Errorf("#define %s: '##' cannot appear at the end of a replacement list", m.Name)
	}
	m.Body = out
	return nil
}

func dropLeadingSpace(toks []token.Token) []token.Token {
	for len(toks) > 0 && toks[0].Skippable() {
		toks = toks[1:]
	}
	return toks
}

// compressReplacement removes whitespace/comment tokens from a replacement
// list, collapsing each run into a single Spacing flag on the following
// token, matching how real preprocessors treat "replace each comment with
// one space" and "leading/trailing whitespace is insignificant".
func compressReplacement(in []token.Token) []token.Token {
	var out []token.Token
	pendingSpace := false
	for _, tk := range in {
		if tk.Skippable() || tk.Kind == token.Newline {
			pendingSpace = true
			continue
		}
		t2 := tk
		if pendingSpace && len(out) > 0 {
			t2.Spacing = true
		}
		out = append(out, t2)
		pendingSpace = false
	}
	return out
}
