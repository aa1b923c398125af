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

package ccexpr

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
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

type fakeEnv map[string]bool

func (f fakeEnv) IsDefined(name string) bool { return f[name] }

func TestArithmeticPrecedence(t *testing.T) {
	v, err := Eval(tokenize(t, "1 + 2 * 3"), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 7, v)
}

func TestParenthesized(t *testing.T) {
	v, err := Eval(tokenize(t, "(1 + 2) * 3"), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 9, v)
}

func TestTernary(t *testing.T) {
	v, err := Eval(tokenize(t, "1 ? 10 : 20"), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 10, v)
}

func TestBitwiseAndShift(t *testing.T) {
	v, err := Eval(tokenize(t, "(1 << 4) | 3"), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 19, v)
}

func TestDefined(t *testing.T) {
	env := fakeEnv{"FOO": true}
	v, err := Eval(tokenize(t, "defined(FOO)"), env)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)

	v, err = Eval(tokenize(t, "defined BAR"), env)
	require.NoError(t, err)
	assert.EqualValues(t, 0, v)
}

func TestDivByZero(t *testing.T) {
	_, err := Eval(tokenize(t, "1 / 0"), nil)
	assert.ErrorIs(t, err, ErrDivByZero)
}

func TestNonShortCircuitOr(t *testing.T) {
	// The right side (1/0) still errors even though the left side alone
	// would make the whole "||" true.
	_, err := Eval(tokenize(t, "1 || 1 / 0"), nil)
	assert.ErrorIs(t, err, ErrDivByZero)
}

func TestUnknownIdentifierIsZero(t *testing.T) {
	v, err := Eval(tokenize(t, "UNKNOWN_MACRO + 1"), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
}

func TestUnaryOperators(t *testing.T) {
	v, err := Eval(tokenize(t, "!0 && ~0 == -1"), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
}
