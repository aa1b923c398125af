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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocpp-org/ccpp/internal/cc/lexer"
	"github.com/gocpp-org/ccpp/internal/cc/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	lx := lexer.New([]byte(src))
	var out []token.Token
	pendingSpace := false
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		if tok.Kind == token.EOF {
			return out
		}
		if tok.Skippable() {
			pendingSpace = true
			continue
		}
		if pendingSpace && len(out) > 0 {
			tok.Spacing = true
		}
		out = append(out, tok)
		pendingSpace = false
	}
}

func TestParseCommandLineDefine(t *testing.T) {
	m, err := ParseCommandLineDefine("FOO")
	require.NoError(t, err)
	require.Len(t, m.Body, 1)
	assert.Equal(t, "1", m.Body[0].Text)

	m2, err := ParseCommandLineDefine("BAR=2+2")
	require.NoError(t, err)
	require.Len(t, m2.Body, 3)

	_, err = ParseCommandLineDefine("1BAD=1")
	assert.Error(t, err)
}

func TestParseDefineObjectLike(t *testing.T) {
	m, err := ParseDefine(tokenize(t, "PI 3.14"))
	require.NoError(t, err)
	assert.Equal(t, "PI", m.Name)
	assert.False(t, m.FunctionLike)
	require.Len(t, m.Body, 1)
	assert.Equal(t, token.Number, m.Body[0].Kind)
}

func TestParseDefineFunctionLike(t *testing.T) {
	m, err := ParseDefine(tokenize(t, "MAX(a, b) ((a) > (b) ? (a) : (b))"))
	require.NoError(t, err)
	assert.True(t, m.FunctionLike)
	assert.Equal(t, []string{"a", "b"}, m.Params)

	var sawArgA, sawArgB int
	for _, tk := range m.Body {
		if tk.Kind == token.MArg {
			if tk.ArgIndex() == 0 {
				sawArgA++
			} else if tk.ArgIndex() == 1 {
				sawArgB++
			}
		}
	}
	assert.Equal(t, 2, sawArgA)
	assert.Equal(t, 2, sawArgB)
}

func TestParseDefineRejectsDuplicateParamName(t *testing.T) {
	_, err := ParseDefine(tokenize(t, "MAX(a, a) a"))
	assert.ErrorContains(t, err, "duplicate parameter")
}

func TestParseDefineStringifyAndPaste(t *testing.T) {
	m, err := ParseDefine(tokenize(t, "STR(x) #x"))
	require.NoError(t, err)
	require.Len(t, m.Body, 1)
	assert.Equal(t, token.MString, m.Body[0].Kind)

	m2, err := ParseDefine(tokenize(t, "CAT(a, b) a ## b"))
	require.NoError(t, err)
	var pasteSeen bool
	for _, tk := range m2.Body {
		if tk.Kind == token.MPaste {
			pasteSeen = true
		}
	}
	assert.True(t, pasteSeen)
}

func TestParseDefineVariadic(t *testing.T) {
	m, err := ParseDefine(tokenize(t, "LOG(fmt, ...) printf(fmt, __VA_ARGS__)"))
	require.NoError(t, err)
	assert.True(t, m.Variadic)
	var sawVarArgs bool
	for _, tk := range m.Body {
		if tk.Kind == token.MArg && tk.ArgIndex() == len(m.Params) {
			sawVarArgs = true
		}
	}
	assert.True(t, sawVarArgs)
}

func TestParseDefineRejectsLeadingOrTrailingPaste(t *testing.T) {
	_, err := ParseDefine(tokenize(t, "BAD(a) ## a"))
	assert.Error(t, err)
	_, err = ParseDefine(tokenize(t, "BAD2(a) a ##"))
	assert.Error(t, err)
}

type sliceSource struct {
	toks []token.Token
	i    int
}

func (s *sliceSource) Next() (token.Token, bool, error) {
	if s.i >= len(s.toks) {
		return token.Token{Kind: token.EOF}, false, nil
	}
	t := s.toks[s.i]
	s.i++
	return t, true, nil
}

func TestGatherArguments(t *testing.T) {
	src := &sliceSource{toks: tokenize(t, "1, foo(2, 3), 4)")}
	args, err := GatherArguments(src, 3, false)
	require.NoError(t, err)
	require.Len(t, args, 3)
	assert.Equal(t, "1", args[0].Raw[0].Text)
	assert.Len(t, args[1].Raw, 6) // foo ( 2 , 3 )
	assert.Equal(t, "4", args[2].Raw[0].Text)
}

func TestGatherArgumentsVariadicCollapse(t *testing.T) {
	src := &sliceSource{toks: tokenize(t, `"fmt", a, b, c)`)}
	args, err := GatherArguments(src, 1, true)
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Len(t, args[1].Raw, 5) // a , b , c
}

func TestStringify(t *testing.T) {
	toks := tokenize(t, `hello "world"`)
	s := Stringify(toks)
	assert.Equal(t, `hello \"world\"`, s.Value)
}

func TestPaste(t *testing.T) {
	a := token.Token{Kind: token.Identifier, Text: "foo"}
	b := token.Token{Kind: token.Identifier, Text: "bar"}
	out, err := Paste(a, b)
	require.NoError(t, err)
	assert.Equal(t, "foobar", out.Text)

	_, err = Paste(token.Token{Kind: token.Punct, Text: "+"}, token.Token{Kind: token.Punct, Text: "+"})
	require.NoError(t, err) // "++" is a single valid token
}

func TestCheckArityZeroParamEmptyCall(t *testing.T) {
	m := &Macro{Name: "FOO"}
	err := CheckArity(m, []Argument{{Raw: nil}})
	assert.NoError(t, err)
}

func TestCheckArityMismatch(t *testing.T) {
	m := &Macro{Name: "FOO", Params: []string{"a", "b"}}
	err := CheckArity(m, []Argument{{Raw: tokenize(t, "1")}})
	assert.ErrorIs(t, err, ErrArity)
}

func TestTableBuiltins(t *testing.T) {
	tb := NewTable()
	m, ok := tb.Lookup("__COUNTER__")
	require.True(t, ok)
	toks1 := m.Dynamic(token.Position{Line: 1}, "f.c")
	toks2 := m.Dynamic(token.Position{Line: 1}, "f.c")
	assert.NotEqual(t, toks1[0].Text, toks2[0].Text)
}
