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

// Package include resolves `#include`/`#include_next` header names against
// quote, system and framework search-path lists, and tracks `#pragma once`
// identity across however many times a path is reached.
package include

// VirtualFileSystem abstracts the filesystem a Resolver reads from, so
// driver tests can supply an in-memory tree instead of real files.
type VirtualFileSystem interface {
	// ReadFile returns the contents of path. ok is false (err nil) if path
	// does not name a regular file.
	ReadFile(path string) (data []byte, ok bool, err error)
	// Identity returns a key that uniquely identifies path on this
	// filesystem for #pragma once purposes (e.g. "dev:inode"), and whether
	// one could be determined; callers fall back to the cleaned path
	// itself when ok is false.
	Identity(path string) (key string, ok bool)
	// ReadDir lists the regular-file entries directly inside dir, for
	// case-insensitive fallback matching. A nonexistent dir returns a nil
	// slice and a nil error.
	ReadDir(dir string) ([]string, error)
}
