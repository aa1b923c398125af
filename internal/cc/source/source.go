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

// Package source implements the stack of pull-sources the driver pulls
// tokens from: the original translation unit, any file or string it
// #includes, and the transient replacement-list sources a macro expansion
// pushes while a call is being rescanned for further expansion.
package source

import "github.com/gocpp-org/ccpp/internal/cc/token"

// Kind tags which of the closed set of Source variants a value is.
type Kind int

const (
	FileLexer Kind = iota
	StringLexer
	FixedTokenSource
	MacroTokenSource
	UnprocessedFixedTokenSource
)

// Source is one frame of the pull-source stack. Every variant supports the
// same pull operation (Next); the driver neither knows nor cares which kind
// is on top, except for the autopop/expansion-chain bookkeeping below.
type Source interface {
	Kind() Kind
	// Next returns the next token from this frame, or ok==false once the
	// frame is exhausted (the driver then pops it, see Stack.Pop).
	Next() (tok token.Token, ok bool, err error)
	// Name identifies the frame for __FILE__/diagnostics: a path for file
	// sources, a synthetic label ("<command-line>", a macro name) otherwise.
	Name() string
}

// FileName exposes the containing directory of a source, used to resolve
// quoted #include names relative to it. Sources that don't track files need
// not implement it.
type FileName interface {
	Dir() string // directory containing the file, "" for string/macro sources
}

// PragmaOnceKey identifies sources whose identity participates in
// #pragma once de-duplication (FileLexer sources with a resolved path).
type PragmaOnceKey interface {
	Key() (string, bool)
}
