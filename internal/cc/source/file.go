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
	"path/filepath"

	"github.com/gocpp-org/ccpp/internal/cc/lexer"
	"github.com/gocpp-org/ccpp/internal/cc/token"
)

// File is a Source backed by the contents of a real (or virtual) file. Its
// Key participates in #pragma once de-duplication.
type File struct {
	path              string
	dir               string
	key               string
	hasKey            bool
	lx                *lexer.Lexer
	present           string // overridden by #line, see Name
	presLn            int
	presSet           bool
	lastLineAtPresent int
}

// NewFile constructs a file-backed Source. key, if non-empty, is the
// #pragma once identity (normally a (dev,inode) pair rendered as a string by
// the include resolver); hasKey is false when no stable identity is
// available and path equality must be used instead.
func NewFile(path string, data []byte, key string, hasKey bool) *File {
	return &File{
		path:   path,
		dir:    filepath.Dir(path),
		key:    key,
		hasKey: hasKey,
		lx:     lexer.New(data),
	}
}

func (f *File) Kind() Kind { return FileLexer }
func (f *File) Name() string {
	if f.presSet {
		return f.present
	}
	return f.path
}
func (f *File) Dir() string { return f.dir }

func (f *File) Key() (string, bool) {
	if f.hasKey {
		return f.key, true
	}
	return f.path, true
}

// SetIncludeMode forwards to the underlying lexer, used by the driver right
// after it recognizes a #include directive name.
func (f *File) SetIncludeMode(on bool) { f.lx.SetIncludeMode(on) }

// Position reports where the next token would start.
func (f *File) Position() token.Position { return f.lx.Position() }

// SetPresented records the name and line given by a #line directive,
// without touching the underlying lexer's own line counter (spec §9). From
// then on Name returns the new name (and so does __FILE__); the line is only
// reported through PresentedLine, and __LINE__ keeps the lexer's line.
func (f *File) SetPresented(name string, line int) {
	f.present, f.presLn, f.presSet = name, line, true
	f.lastLineAtPresent = f.lx.Position().Line
}

// PresentedLine returns the #line-adjusted line number for the most recently
// returned token, or ok==false if no #line has been seen in this file.
func (f *File) PresentedLine(actualLine int) (int, bool) {
	if !f.presSet {
		return 0, false
	}
	return f.presLn + (actualLine - f.lastLineAtPresent), true
}

func (f *File) Next() (token.Token, bool, error) {
	tok, err := f.lx.Next()
	if tok.Kind == token.EOF {
		return tok, false, err
	}
	return tok, true, err
}
