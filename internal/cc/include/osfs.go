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

	"golang.org/x/sync/singleflight"
)

// OSFileSystem is the default VirtualFileSystem, backed by the real
// filesystem. Reads of the same path by concurrent callers (e.g. several
// Preprocessor instances sharing one OSFileSystem to preprocess different
// translation units of one compilation) are collapsed into a single
// os.ReadFile via a singleflight.Group; the preprocessor core itself never
// calls into it concurrently (spec §5).
type OSFileSystem struct {
	group singleflight.Group
}

func NewOSFileSystem() *OSFileSystem { return &OSFileSystem{} }

type readResult struct {
	data []byte
	ok   bool
}

func (fs *OSFileSystem) ReadFile(path string) ([]byte, bool, error) {
	v, err, _ := fs.group.Do(path, func() (any, error) {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return readResult{}, nil
		}
		if err != nil {
			return readResult{}, err
		}
		return readResult{data: data, ok: true}, nil
	})
	if err != nil {
		return nil, false, err
	}
	res := v.(readResult)
	return res.data, res.ok, nil
}

func (fs *OSFileSystem) ReadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (fs *OSFileSystem) Identity(path string) (string, bool) {
	return statIdentity(path)
}
