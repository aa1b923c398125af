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

// Package ppconfig loads the YAML document describing one Preprocessor's
// settings: search paths, initial macro definitions, enabled features and
// warnings, and an optional target platform. It mirrors the teacher's
// language/cpp/config.go role (a single object holding the settings the
// rest of the package consumes), generalized away from a Gazelle
// config.Config extension into a plain, standalone value.
package ppconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gocpp-org/ccpp/internal/cc/include"
	"github.com/gocpp-org/ccpp/internal/cc/macro"
	"github.com/gocpp-org/ccpp/internal/cc/platform"
	"github.com/gocpp-org/ccpp/internal/cc/pp"
	"github.com/gocpp-org/ccpp/internal/cc/source"
)

// Config is the parsed form of a ppconfig YAML document.
type Config struct {
	// QuoteDirs, SystemDirs and FrameworkDirs are search-path entries for
	// `#include "x"`, `#include <x>`, and Objective-C framework includes
	// respectively. Any entry containing a doublestar meta-character is
	// expanded against the VirtualFileSystem by Resolver.
	QuoteDirs     []string `yaml:"quoteDirs"`
	SystemDirs    []string `yaml:"systemDirs"`
	FrameworkDirs []string `yaml:"frameworkDirs"`

	// Defines holds "-D"-style definitions (NAME or NAME=VALUE), reusing
	// the teacher's command-line-define grammar.
	Defines []string `yaml:"defines"`
	// Undefines names macros to strip back out after Defines and the
	// platform seed have both run (a "-U" equivalent).
	Undefines []string `yaml:"undefines"`

	// Features and Warnings name members of pp.Feature/pp.Warning by their
	// Go identifier, e.g. "PRAGMA_ONCE", "INCLUDENEXT", "ERROR".
	Features []string `yaml:"features"`
	Warnings []string `yaml:"warnings"`

	// Platform, if set, seeds the macro table with that platform's
	// predefined macros (__linux__, _WIN32, __APPLE__, ...) before Defines
	// are applied, so an explicit -D can still override a platform default.
	Platform *PlatformRef `yaml:"platform"`
}

// PlatformRef names a platform.Platform by its two string components, the
// form a YAML document can spell directly.
type PlatformRef struct {
	OS   string `yaml:"os"`
	Arch string `yaml:"arch"`
}

var featureNames = map[string]pp.Feature{
	"LINEMARKERS":     pp.LINEMARKERS,
	"PRAGMA_ONCE":     pp.PRAGMA_ONCE,
	"INCLUDENEXT":     pp.INCLUDENEXT,
	"CSYNTAX":         pp.CSYNTAX,
	"KEEPCOMMENTS":    pp.KEEPCOMMENTS,
	"KEEPALLCOMMENTS": pp.KEEPALLCOMMENTS,
	"DEBUG":           pp.DEBUG,
}

var warningNames = map[string]pp.Warning{
	"ERROR":        pp.ERROR,
	"UNDEF":        pp.UNDEF,
	"ENDIF_LABELS": pp.ENDIF_LABELS,
}

// Parse decodes a YAML document into a Config.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("ppconfig: %w", err)
	}
	return &c, nil
}

// Resolver builds an include.Resolver from c's search-path entries, glob-
// expanding any doublestar pattern against vfs.
func (c *Config) Resolver(vfs include.VirtualFileSystem) (*include.Resolver, error) {
	quote, err := expandAll(vfs, c.QuoteDirs)
	if err != nil {
		return nil, err
	}
	system, err := expandAll(vfs, c.SystemDirs)
	if err != nil {
		return nil, err
	}
	framework, err := expandAll(vfs, c.FrameworkDirs)
	if err != nil {
		return nil, err
	}
	return include.NewResolver(quote, system, framework, vfs), nil
}

func expandAll(vfs include.VirtualFileSystem, entries []string) ([]string, error) {
	var out []string
	for _, e := range entries {
		dirs, err := include.ExpandSearchPath(vfs, e)
		if err != nil {
			return nil, fmt.Errorf("ppconfig: search path %q: %w", e, err)
		}
		out = append(out, dirs...)
	}
	return out, nil
}

// MacroTable builds a macro.Table seeded, in order, with the platform's
// predefined macros (if Platform is set), then Defines, then with every
// name in Undefines removed.
func (c *Config) MacroTable() (*macro.Table, error) {
	table := macro.NewTable()

	if c.Platform != nil {
		p, err := platform.Create(platform.OS(c.Platform.OS), platform.Arch(c.Platform.Arch))
		if err != nil {
			return nil, fmt.Errorf("ppconfig: platform: %w", err)
		}
		platform.Seed(table, p)
	}

	defines, err := macro.ParseCommandLineDefines(c.Defines)
	if err != nil {
		return nil, fmt.Errorf("ppconfig: defines: %w", err)
	}
	for _, m := range defines {
		table.Define(m)
	}

	for _, name := range c.Undefines {
		table.Undefine(name)
	}

	return table, nil
}

// Apply installs c's Features and Warnings onto p.
func (c *Config) Apply(p *pp.Preprocessor) error {
	for _, name := range c.Features {
		f, ok := featureNames[name]
		if !ok {
			return fmt.Errorf("ppconfig: unknown feature %q", name)
		}
		p.EnableFeature(f)
	}
	for _, name := range c.Warnings {
		w, ok := warningNames[name]
		if !ok {
			return fmt.Errorf("ppconfig: unknown warning %q", name)
		}
		p.EnableWarning(w)
	}
	return nil
}

// NewPreprocessor builds a ready-to-use Preprocessor over bottom, wiring the
// resolver, macro table, and enabled features/warnings described by c.
func (c *Config) NewPreprocessor(bottom source.Source, vfs include.VirtualFileSystem) (*pp.Preprocessor, error) {
	resolver, err := c.Resolver(vfs)
	if err != nil {
		return nil, err
	}
	table, err := c.MacroTable()
	if err != nil {
		return nil, err
	}
	p := pp.New(bottom, table, resolver)
	if err := c.Apply(p); err != nil {
		return nil, err
	}
	return p, nil
}
