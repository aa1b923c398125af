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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocpp-org/ccpp/internal/cc/include"
	"github.com/gocpp-org/ccpp/internal/cc/macro"
	"github.com/gocpp-org/ccpp/internal/cc/source"
	"github.com/gocpp-org/ccpp/internal/cc/token"
)

// fakeVFS is an in-memory include.VirtualFileSystem, mirroring the one in
// package include's own tests.
type fakeVFS struct {
	files map[string]string
	dirs  map[string][]string
}

func newFakeVFS() *fakeVFS { return &fakeVFS{files: map[string]string{}, dirs: map[string][]string{}} }

func (f *fakeVFS) put(p, contents string) {
	p = filepath.Clean(p)
	f.files[p] = contents
	dir := filepath.Dir(p)
	f.dirs[dir] = append(f.dirs[dir], filepath.Base(p))
}

func (f *fakeVFS) ReadFile(path string) ([]byte, bool, error) {
	data, ok := f.files[filepath.Clean(path)]
	if !ok {
		return nil, false, nil
	}
	return []byte(data), true, nil
}

func (f *fakeVFS) Identity(path string) (string, bool) { return filepath.Clean(path), true }

func (f *fakeVFS) ReadDir(dir string) ([]string, error) { return f.dirs[filepath.Clean(dir)], nil }

func newTestPP(t *testing.T, main string, quoteDirs, systemDirs []string, vfs include.VirtualFileSystem) *Preprocessor {
	t.Helper()
	if vfs == nil {
		vfs = newFakeVFS()
	}
	resolver := include.NewResolver(quoteDirs, systemDirs, nil, vfs)
	table := macro.NewTable()
	bottom := source.NewFile("main.c", []byte(main), "main.c", true)
	return New(bottom, table, resolver)
}

func collectTokens(t *testing.T, p *Preprocessor) []token.Token {
	t.Helper()
	var out []token.Token
	for {
		tok, err := p.Token()
		require.NoError(t, err)
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

func texts(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}

func collectTexts(t *testing.T, p *Preprocessor) []string {
	t.Helper()
	return texts(collectTokens(t, p))
}

func TestObjectLikeMacroExpansion(t *testing.T) {
	p := newTestPP(t, "#define FOO 1 + 2\nFOO;\n", nil, nil, nil)
	assert.Equal(t, []string{"1", "+", "2", ";"}, collectTexts(t, p))
}

func TestFunctionLikeMacroExpansion(t *testing.T) {
	p := newTestPP(t, "#define ADD(a, b) ((a) + (b))\nADD(1, 2);\n", nil, nil, nil)
	assert.Equal(t, []string{"(", "(", "1", ")", "+", "(", "2", ")", ")", ";"}, collectTexts(t, p))
}

func TestFunctionLikeMacroWithoutCallIsLeftAlone(t *testing.T) {
	p := newTestPP(t, "#define ADD(a, b) ((a) + (b))\nADD;\n", nil, nil, nil)
	assert.Equal(t, []string{"ADD", ";"}, collectTexts(t, p))
}

func TestArgumentsAreExpandedBeforeSubstitution(t *testing.T) {
	p := newTestPP(t, "#define ONE 1\n#define ID(x) x\nID(ONE);\n", nil, nil, nil)
	assert.Equal(t, []string{"1", ";"}, collectTexts(t, p))
}

func TestStringifyOperator(t *testing.T) {
	p := newTestPP(t, "#define STR(x) #x\nSTR(hello world);\n", nil, nil, nil)
	toks := collectTokens(t, p)
	require.Len(t, toks, 2)
	assert.Equal(t, token.String, toks[0].Kind)
	s, ok := toks[0].StringValue()
	require.True(t, ok)
	assert.Equal(t, "hello world", s)
}

func TestTokenPasteOperator(t *testing.T) {
	p := newTestPP(t, "#define CAT(a, b) a ## b\nCAT(foo, bar);\n", nil, nil, nil)
	assert.Equal(t, []string{"foobar", ";"}, collectTexts(t, p))
}

func TestSelfRecursiveMacroIsNotReExpanded(t *testing.T) {
	p := newTestPP(t, "#define X X + 1\nX;\n", nil, nil, nil)
	assert.Equal(t, []string{"X", "+", "1", ";"}, collectTexts(t, p))
}

func TestMutuallyRecursiveMacrosTerminate(t *testing.T) {
	p := newTestPP(t, "#define A B\n#define B A\nA;\n", nil, nil, nil)
	assert.Equal(t, []string{"A", ";"}, collectTexts(t, p))
}

func TestIfDefinedTakesThenBranch(t *testing.T) {
	p := newTestPP(t, "#define FOO\n#ifdef FOO\nyes\n#else\nno\n#endif\n", nil, nil, nil)
	assert.Equal(t, []string{"yes"}, collectTexts(t, p))
}

func TestIfndefTakesThenBranchWhenUndefined(t *testing.T) {
	p := newTestPP(t, "#ifndef FOO\nyes\n#else\nno\n#endif\n", nil, nil, nil)
	assert.Equal(t, []string{"yes"}, collectTexts(t, p))
}

func TestIfElifElseChain(t *testing.T) {
	src := "#if 0\na\n#elif 0\nb\n#elif 1\nc\n#else\nd\n#endif\n"
	p := newTestPP(t, src, nil, nil, nil)
	assert.Equal(t, []string{"c"}, collectTexts(t, p))
}

func TestNestedConditionalsRespectParentActivity(t *testing.T) {
	src := "#if 0\n#if 1\ninner\n#endif\n#endif\nafter\n"
	p := newTestPP(t, src, nil, nil, nil)
	assert.Equal(t, []string{"after"}, collectTexts(t, p))
}

func TestDefinedOperatorInCondition(t *testing.T) {
	p := newTestPP(t, "#define FOO\n#if defined(FOO) && !defined BAR\nyes\n#endif\n", nil, nil, nil)
	assert.Equal(t, []string{"yes"}, collectTexts(t, p))
}

func TestMacroExpandedInConditionBeforeEvaluation(t *testing.T) {
	p := newTestPP(t, "#define ONE 1\n#if ONE\nyes\n#endif\n", nil, nil, nil)
	assert.Equal(t, []string{"yes"}, collectTexts(t, p))
}

func TestUndefRemovesMacro(t *testing.T) {
	p := newTestPP(t, "#define FOO 1\n#undef FOO\n#ifdef FOO\nyes\n#else\nno\n#endif\n", nil, nil, nil)
	assert.Equal(t, []string{"no"}, collectTexts(t, p))
}

func TestIncludeResolvesQuoteRelative(t *testing.T) {
	vfs := newFakeVFS()
	vfs.put("/proj/src/greet.h", "#define GREETING hi\n")
	p := newTestPP(t, "#include \"greet.h\"\nGREETING;\n", []string{"/proj/src"}, nil, vfs)
	assert.Equal(t, []string{"hi", ";"}, collectTexts(t, p))
}

func TestPragmaOnceSkipsSecondInclude(t *testing.T) {
	vfs := newFakeVFS()
	vfs.put("/proj/src/once.h", "#pragma once\nonly_once\n")
	src := "#include \"once.h\"\n#include \"once.h\"\n"
	p := newTestPP(t, src, []string{"/proj/src"}, nil, vfs)
	p.EnableFeature(PRAGMA_ONCE)
	assert.Equal(t, []string{"only_once"}, collectTexts(t, p))
}

func TestVariadicMacro(t *testing.T) {
	p := newTestPP(t, "#define LOG(fmt, ...) fmt, __VA_ARGS__\nLOG(\"x\", 1, 2);\n", nil, nil, nil)
	assert.Equal(t, []string{"\"x\"", ",", "1", ",", "2", ";"}, collectTexts(t, p))
}

func TestErrorDirectiveWithoutListenerPropagates(t *testing.T) {
	p := newTestPP(t, "#error boom\n", nil, nil, nil)
	_, err := p.Token()
	assert.ErrorIs(t, err, ErrUserError)
}

func TestErrorDirectiveWithListenerContinues(t *testing.T) {
	p := newTestPP(t, "#error boom\nafter\n", nil, nil, nil)
	var got []string
	p.SetDiagnosticListener(&recordingListener{errs: &got})
	assert.Equal(t, []string{"after"}, collectTexts(t, p))
	assert.Equal(t, []string{"#error directive: boom"}, got)
}

// recordingListener is a DiagnosticListener that records error messages and
// otherwise does nothing, for asserting error-continuation behavior.
type recordingListener struct {
	errs *[]string
}

func (r *recordingListener) HandleError(src string, line, col int, msg string) {
	*r.errs = append(*r.errs, msg)
}
func (r *recordingListener) HandleWarning(src string, line, col int, msg string)     {}
func (r *recordingListener) HandleSourceChange(ev source.Event, s source.Source)     {}
func (r *recordingListener) HandleDefine(macroName string, src string)              {}
func (r *recordingListener) HandleUndefine(macroName string, src string)            {}
func (r *recordingListener) HandleInclude(text string, isNext bool, from, to string) {}

// declineIfListener declines every #if/#ifdef/#ifndef/#elif, exercising the
// partial-evaluation path where the driver must leave both branches active
// and re-emit the directive lines verbatim.
type declineIfListener struct{}

func (declineIfListener) AddMacro(name string, src string) bool      { return false }
func (declineIfListener) RemoveMacro(name string, src string) bool   { return true }
func (declineIfListener) Include(path string, isNext bool, src string) bool { return true }
func (declineIfListener) ProcessIf(tokens []token.Token, src string, kind IfKind) bool {
	return false
}
func (declineIfListener) ExpandMacro(name string, src string, line, col int, inConditional bool) bool {
	return true
}
func (declineIfListener) GetPartiallyProcessedCondition(tokens []token.Token, src string, kind IfKind, context string) (string, bool) {
	return "", false
}

func TestControlListenerDeclinedIfKeepsBothBranchesAndDirectives(t *testing.T) {
	p := newTestPP(t, "#if 0\nA\n#else\nB\n#endif\n", nil, nil, nil)
	p.SetControlListener(declineIfListener{})
	assert.Equal(t, []string{"#", "if", "0", "A", "#", "else", "B", "#", "endif"}, collectTexts(t, p))
}

func TestControlListenerDeclinedDefineKeepsLineVerbatim(t *testing.T) {
	p := newTestPP(t, "#define FOO 1\nFOO;\n", nil, nil, nil)
	p.SetControlListener(declineIfListener{})
	toks := collectTexts(t, p)
	assert.Equal(t, []string{"#", "define", "FOO", "1", "FOO", ";"}, toks)
}
