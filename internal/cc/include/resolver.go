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

package include

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// Kind distinguishes a quoted `#include "name"` from an angle-bracket
// `#include <name>`.
type Kind int

const (
	Quote Kind = iota
	System
)

// Result is a successfully resolved header.
type Result struct {
	// Path is the resolved filesystem path, as handed to the VFS.
	Path string
	// Dir is Path's containing directory, for a pushed File source and for
	// any further quote-relative includes inside it.
	Dir string
	// Data is the file's raw contents.
	Data []byte
	// Key, if HasKey, is the #pragma once identity for Path.
	Key    string
	HasKey bool
}

// Resolver resolves #include/#include_next names against quote, system
// and framework search paths (spec §4.H), and tracks which #pragma once
// identities have already been seen.
type Resolver struct {
	quoteDirs     []string
	systemDirs    []string
	frameworkDirs []string
	vfs           VirtualFileSystem
	fold          cases.Caser
	seen          map[string]struct{}
}

// NewResolver builds a Resolver. Each directory list is searched in order;
// quoteDirs is consulted only for quoted includes, ahead of systemDirs.
func NewResolver(quoteDirs, systemDirs, frameworkDirs []string, vfs VirtualFileSystem) *Resolver {
	return &Resolver{
		quoteDirs:     quoteDirs,
		systemDirs:    systemDirs,
		frameworkDirs: frameworkDirs,
		vfs:           vfs,
		fold:          cases.Fold(),
		seen:          map[string]struct{}{},
	}
}

// chain returns the ordered list of directories a plain (non-next) include
// of kind searches, given the including file's own directory (fromDir may
// be "" for a string source, per spec §14's documented open behavior).
func (r *Resolver) chain(kind Kind, fromDir string) []string {
	if kind == Quote {
		dirs := make([]string, 0, 1+len(r.quoteDirs)+len(r.systemDirs))
		if fromDir != "" {
			dirs = append(dirs, fromDir)
		}
		dirs = append(dirs, r.quoteDirs...)
		dirs = append(dirs, r.systemDirs...)
		return dirs
	}
	return append([]string{}, r.systemDirs...)
}

// Resolve implements a plain #include.
func (r *Resolver) Resolve(kind Kind, name, fromDir string) (*Result, error) {
	return r.resolve(name, r.chain(kind, fromDir), kind)
}

// ResolveNext implements #include_next: search the same system chain as a
// plain include, but skip every entry up to and including producingDir (the
// directory the currently-processing file was itself found in).
func (r *Resolver) ResolveNext(name, producingDir string) (*Result, error) {
	full := append([]string{}, r.systemDirs...)
	idx := -1
	for i, d := range full {
		if samePath(d, producingDir) {
			idx = i
		}
	}
	var remaining []string
	if idx >= 0 {
		remaining = full[idx+1:]
	} else {
		remaining = full
	}
	return r.resolve(name, remaining, System)
}

func (r *Resolver) resolve(name string, chain []string, kind Kind) (*Result, error) {
	if path.IsAbs(filepath.ToSlash(name)) {
		if res, ok, err := r.tryPath(name); err != nil {
			return nil, err
		} else if ok {
			return res, nil
		}
		return nil, fmt.Errorf("%w: %q (absolute)", ErrNotFound, name)
	}

	// A system include with a '/' in its name (<Foo/Bar.h>) is, per the
	// resolution order, a framework candidate first: only once that fails
	// does plain system-path search get a turn.
	var searched []string
	if kind == System && strings.Contains(name, "/") {
		if res, ok, searchedFw, err := r.tryFramework(name); err != nil {
			return nil, err
		} else if ok {
			return res, nil
		} else {
			searched = append(searched, searchedFw...)
		}
	}

	for _, dir := range chain {
		candidate := filepath.Join(dir, name)
		searched = append(searched, candidate)
		if res, ok, err := r.tryPath(candidate); err != nil {
			return nil, err
		} else if ok {
			return res, nil
		}
		if res, ok := r.tryCaseFold(dir, name); ok {
			return res, nil
		}
	}

	return nil, fmt.Errorf("%w: %q, searched %v", ErrNotFound, name, searched)
}

// tryFramework implements <Framework/Header.h> -> Framework.framework/Headers/Header.h.
func (r *Resolver) tryFramework(name string) (*Result, bool, []string, error) {
	first, rest, ok := strings.Cut(name, "/")
	if !ok {
		return nil, false, nil, nil
	}
	var searched []string
	for _, dir := range r.frameworkDirs {
		candidate := filepath.Join(dir, first+".framework", "Headers", rest)
		searched = append(searched, candidate)
		res, ok, err := r.tryPath(candidate)
		if err != nil {
			return nil, false, searched, err
		}
		if ok {
			return res, true, searched, nil
		}
	}
	return nil, false, searched, nil
}

// tryCaseFold scans dir's entries for one that case-fold-matches the final
// path segment of name, for filesystems/VFS abstractions that hide case
// sensitivity from the preprocessor (spec §11, golang.org/x/text/cases).
func (r *Resolver) tryCaseFold(dir, name string) (*Result, bool) {
	segments := strings.Split(filepath.ToSlash(name), "/")
	last := segments[len(segments)-1]
	parent := filepath.Join(append([]string{dir}, segments[:len(segments)-1]...)...)
	entries, err := r.vfs.ReadDir(parent)
	if err != nil {
		return nil, false
	}
	foldedLast := r.fold.String(last)
	for _, e := range entries {
		if r.fold.String(e) == foldedLast && e != last {
			res, ok, err := r.tryPath(filepath.Join(parent, e))
			if err == nil && ok {
				return res, true
			}
		}
	}
	return nil, false
}

func (r *Resolver) tryPath(candidate string) (*Result, bool, error) {
	data, ok, err := r.vfs.ReadFile(candidate)
	if err != nil || !ok {
		return nil, ok, err
	}
	key, hasKey := r.vfs.Identity(candidate)
	if !hasKey {
		key = filepath.Clean(candidate)
		hasKey = true
	}
	return &Result{
		Path:   candidate,
		Dir:    filepath.Dir(candidate),
		Data:   data,
		Key:    key,
		HasKey: hasKey,
	}, true, nil
}

// Seen reports whether key has already been pushed once under #pragma once.
func (r *Resolver) Seen(key string) bool {
	_, ok := r.seen[key]
	return ok
}

// MarkSeen records key as having been included once.
func (r *Resolver) MarkSeen(key string) { r.seen[key] = struct{}{} }

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
