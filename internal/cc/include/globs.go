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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// isGlobPattern reports whether entry contains a doublestar meta-character,
// distinguishing a literal search directory from a pattern to expand.
func isGlobPattern(entry string) bool {
	return strings.ContainsAny(entry, "*?[{")
}

// ExpandSearchPath resolves one configured search-path entry into zero or
// more concrete directories. A plain directory entry is returned as its
// filepath.Clean form; a doublestar pattern (e.g. "vendor/**/include") is expanded by
// walking vfs from its non-glob prefix and keeping directories whose
// relative path matches, mirroring the teacher's expandGlob traversal over
// hdrs/glob BUILD attributes.
func ExpandSearchPath(vfs VirtualFileSystem, entry string) ([]string, error) {
	if !isGlobPattern(entry) {
		return []string{filepath.Clean(entry)}, nil
	}
	if !doublestar.ValidatePattern(entry) {
		return nil, nil
	}
	base, _ := doublestar.SplitPattern(entry)
	base = filepath.Clean(base)

	var matched []string
	var walk func(dir string)
	walk = func(dir string) {
		if doublestar.MatchUnvalidated(entry, dir) {
			matched = append(matched, dir)
		}
		lister, ok := vfs.(subdirLister)
		if !ok {
			return
		}
		for _, sub := range lister.ReadSubdirs(dir) {
			walk(filepath.Join(dir, sub))
		}
	}
	walk(base)
	sort.Strings(matched)
	return matched, nil
}

// subdirLister is an optional VirtualFileSystem capability used to expand
// glob search-path entries; OSFileSystem implements it.
type subdirLister interface {
	ReadSubdirs(dir string) []string
}

func (fs *OSFileSystem) ReadSubdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var subs []string
	for _, e := range entries {
		if e.IsDir() {
			subs = append(subs, e.Name())
		}
	}
	return subs
}
