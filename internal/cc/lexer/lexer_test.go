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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocpp-org/ccpp/internal/cc/token"
)

func allTokens(t *testing.T, src string) []token.Token {
	t.Helper()
	lx := New([]byte(src))
	var toks []token.Token
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		if tok.Kind == token.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexerIdentifiersAndPunctuators(t *testing.T) {
	toks := allTokens(t, "foo_1 + bar")
	require.Len(t, toks, 5)
	assert.Equal(t, token.Identifier, toks[0].Kind)
	assert.Equal(t, "foo_1", toks[0].Text)
	assert.Equal(t, token.Punct, toks[2].Kind)
	assert.Equal(t, "+", toks[2].Text)
	assert.Equal(t, token.Identifier, toks[4].Kind)
	assert.Equal(t, "bar", toks[4].Text)
}

func TestLexerLongestMatchPunctuator(t *testing.T) {
	toks := allTokens(t, "a<<=b")
	require.Len(t, toks, 3)
	assert.Equal(t, "<<=", toks[1].Text)
}

func TestLexerDigraphs(t *testing.T) {
	toks := allTokens(t, "<:a:>")
	require.Len(t, toks, 3)
	assert.Equal(t, "<:", toks[0].Text)
	assert.Equal(t, "[", Canonical(toks[0].Text))
	assert.Equal(t, "]", Canonical(toks[2].Text))
}

func TestLexerTrigraphs(t *testing.T) {
	// ??= is the trigraph spelling of '#'.
	toks := allTokens(t, "??=define X 1\n")
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Hash, toks[0].Kind)
	assert.Equal(t, "#", toks[0].Text)
}

func TestLexerLineContinuationMidIdentifier(t *testing.T) {
	toks := allTokens(t, "fo\\\no")
	require.Len(t, toks, 1)
	assert.Equal(t, token.Identifier, toks[0].Kind)
	assert.Equal(t, "foo", toks[0].Text)
}

func TestLexerHashOnlyAtLineStart(t *testing.T) {
	toks := allTokens(t, "a # b\n#c")
	require.Len(t, toks, 8)
	// the first '#' is mid-line: not a Hash token.
	assert.Equal(t, token.Punct, toks[2].Kind)
	assert.Equal(t, "#", toks[2].Text)
	// after the newline, '#' at column 1 is a Hash token.
	assert.Equal(t, token.Hash, toks[6].Kind)
}

func TestLexerHashAfterLeadingWhitespace(t *testing.T) {
	toks := allTokens(t, "   # define")
	assert.Equal(t, token.Whitespace, toks[0].Kind)
	assert.Equal(t, token.Hash, toks[1].Kind)
}

func TestLexerStringLiteralEscapes(t *testing.T) {
	toks := allTokens(t, `"a\nb\\c"`)
	require.Len(t, toks, 1)
	require.Equal(t, token.String, toks[0].Kind)
	dec, ok := toks[0].StringValue()
	require.True(t, ok)
	assert.Equal(t, "a\nb\\c", dec)
	assert.Equal(t, `"a\nb\\c"`, toks[0].Text)
}

func TestLexerUnterminatedString(t *testing.T) {
	lx := New([]byte(`"abc`))
	_, err := lx.Next()
	assert.ErrorIs(t, err, ErrUnterminatedString)
}

func TestLexerCharLiteral(t *testing.T) {
	toks := allTokens(t, `'\x41'`)
	require.Len(t, toks, 1)
	require.Equal(t, token.Character, toks[0].Kind)
	dec, ok := toks[0].StringValue()
	require.True(t, ok)
	assert.Equal(t, "A", dec)
}

func TestLexerNumberHexFloat(t *testing.T) {
	toks := allTokens(t, "0x1Ap3 + 3.14e-2 + 097")
	require.Len(t, toks, 9)
	nv, ok := toks[0].NumericValue()
	require.True(t, ok)
	assert.Equal(t, 16, nv.Radix)
	assert.True(t, nv.IsFloat)

	nv2, ok := toks[4].NumericValue()
	require.True(t, ok)
	assert.Equal(t, 10, nv2.Radix)
	assert.True(t, nv2.IsFloat)
	assert.InDelta(t, 3.14e-2, nv2.Double(), 1e-9)

	nv3, ok := toks[8].NumericValue()
	require.True(t, ok)
	assert.Equal(t, 8, nv3.Radix)
	assert.True(t, nv3.BadOctalDigit)
}

func TestLexerComments(t *testing.T) {
	toks := allTokens(t, "a // line comment\nb /* block\ncomment */ c")
	require.Equal(t, []token.Kind{
		token.Identifier, token.Whitespace, token.CppComment, token.Newline,
		token.Identifier, token.Whitespace, token.CComment, token.Whitespace, token.Identifier,
	}, kinds(toks))
}

func TestLexerUnterminatedComment(t *testing.T) {
	lx := New([]byte("/* never closes"))
	_, err := lx.Next()
	assert.ErrorIs(t, err, ErrUnterminatedComment)
}

func TestLexerHeaderMode(t *testing.T) {
	lx := New([]byte(`<foo/bar.h> rest`))
	lx.SetIncludeMode(true)
	tok, err := lx.Next()
	require.NoError(t, err)
	assert.Equal(t, token.Header, tok.Kind)
	assert.Equal(t, "<foo/bar.h>", tok.Text)

	tok2, err := lx.Next()
	require.NoError(t, err)
	assert.Equal(t, token.Whitespace, tok2.Kind)
}

func TestLexerInvalidCharacter(t *testing.T) {
	lx := New([]byte("\x01"))
	tok, err := lx.Next()
	assert.ErrorIs(t, err, ErrInvalidCharacter)
	assert.Equal(t, token.Invalid, tok.Kind)
}

func TestLexerSpacingTracksPrecedingWhitespace(t *testing.T) {
	toks := allTokens(t, "a  b\nc")
	require.Len(t, toks, 5) // a, ws, b, \n, c
	assert.False(t, toks[0].Spacing, "first token on the line has nothing before it")
	assert.True(t, toks[2].Spacing, "b was preceded by whitespace")
	assert.False(t, toks[4].Spacing, "c follows a newline, not a same-line space run")
}
