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

// Package platform defines a normalized representation of operating system
// and architecture combinations used to model target platforms.
//
// It provides:
//   - The Platform type, representing an OS/Arch pair
//   - Parsing utilities for canonicalizing platform strings (e.g., "linux/x86_64")
//   - Aliasing support for common OS/Arch names
//   - A declarative table of predefined macros (e.g. _WIN32, __linux__) per
//     platform, seedable into a macro.Table to give a Preprocessor a
//     batteries-included starting environment (see Seed)
package platform

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gocpp-org/ccpp/internal/cc/macro"
	"github.com/gocpp-org/ccpp/internal/cc/token"
)

// Pair of OS/Arch combination identifing a given platform
type Platform struct {
	OS   OS
	Arch Arch
}

func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}

// Orders first by OS, then by Arch based on the string ordering
func Compare(a, b Platform) int {
	if d := cmp.Compare(a.OS, b.OS); d != 0 {
		return d
	}
	return cmp.Compare(a.Arch, b.Arch)
}

func Create(os OS, arch Arch) (Platform, error) {
	platform := Platform{
		OS:   dealias(os, osAlias),
		Arch: dealias(arch, archAlias),
	}
	if !slices.Contains(allKnownOs, platform.OS) {
		return platform, fmt.Errorf("unknown OS %v, expected one of known values %v or an alias %v", platform.OS, allKnownOs, osAlias)
	}
	if !slices.Contains(allKnownArch, platform.Arch) {
		return platform, fmt.Errorf("unknown architecture %v, expected one of known values %v or an alias %v", platform.Arch, allKnownArch, archAlias)
	}
	return platform, nil
}

// Operating system string identifier matching constraint value names defined in '@platforms//os'.
// Should match one the values defined in https://github.com/bazelbuild/platforms/blob/1.0.0/os/BUILD
type OS string

const (
	android    OS = "android"
	chromiumos OS = "chromiumos"
	emscripten OS = "emscripten"
	freebsd    OS = "freebsd"
	fuchsia    OS = "fuchsia"
	haiku      OS = "haiku"
	ios        OS = "ios"
	linux      OS = "linux"
	netbsd     OS = "netbsd"
	nixos      OS = "nixos"
	none       OS = "none" // bare-metal
	openbsd    OS = "openbsd"
	osx        OS = "osx"
	qnx        OS = "qnx"
	tvos       OS = "tvos"
	uefi       OS = "uefi"
	visionos   OS = "visionos"
	vxworks    OS = "vxworks"
	wasi       OS = "wasi"
	watchos    OS = "watchos"
	windows    OS = "windows"
)

var osAlias = map[string]OS{
	"macos": osx,
}
var allKnownOs = []OS{
	android, chromiumos, emscripten, freebsd, fuchsia, haiku, ios,
	linux, netbsd, nixos, none, openbsd, osx, qnx, tvos,
	uefi, visionos, vxworks, wasi, watchos, windows,
}

// Architecture string identifier matching constraint value names defined in '@platforms//cpu'.
// Should match one the values defined in https://github.com/bazelbuild/platforms/blob/1.0.0/cpu/BUILD
type Arch string

const (
	all       Arch = "all" // architecture-independent
	aarch32   Arch = "aarch32"
	aarch64   Arch = "aarch64"
	arm64_32  Arch = "arm64_32"
	arm64e    Arch = "arm64e"
	armv6m    Arch = "armv6-m"
	armv7     Arch = "armv7"
	armv7em   Arch = "armv7e-m"
	armv7emf  Arch = "armv7e-mf"
	armv7k    Arch = "armv7k"
	armv7m    Arch = "armv7-m"
	armv8m    Arch = "armv8-m"
	cortexr52 Arch = "cortex-r52"
	cortexr82 Arch = "cortex-r82"
	i386      Arch = "i386"
	mips64    Arch = "mips64"
	ppc       Arch = "ppc"
	ppc32     Arch = "ppc32"
	ppc64le   Arch = "ppc64le"
	riscv32   Arch = "riscv32"
	riscv64   Arch = "riscv64"
	s390x     Arch = "s390x"
	wasm32    Arch = "wasm32"
	wasm64    Arch = "wasm64"
	x86_32    Arch = "x86_32"
	x86_64    Arch = "x86_64"
)

var archAlias = map[string]Arch{
	"arm":   aarch32,
	"arm64": aarch64,
	"amd64": x86_64,
}

var allKnownArch = []Arch{
	aarch32, aarch64, arm64_32, arm64e, armv6m, armv7, armv7em, armv7emf,
	armv7k, armv7m, armv8m, cortexr52, cortexr82, i386, mips64, ppc,
	ppc32, ppc64le, riscv32, riscv64, s390x, wasm32, wasm64, x86_32, x86_64,
}

// macroGroup names one or more spellings of the same predefined macro
// (compilers often ship several aliases for one condition, e.g. "linux" and
// "__linux__") together with the set of platforms on which all of them hold.
// predefinedMacros is the declarative table Seed compiles from: rather than
// an imperative script of addMacro calls, every platform-macro fact lives
// here as data, and buildMacroEnv below is the only place that walks it.
type macroGroup struct {
	names     []string
	platforms []Platform
}

func names(n ...string) []string { return n }

// predefinedMacros enumerates every object-like macro this package knows how
// to seed, grouped by OS/CPU family. Values are derived from what mainstream
// compilers (gcc, clang, MSVC) predefine for each target; see
// https://sourceforge.net/p/predef/wiki/OperatingSystems/ and
// https://sourceforge.net/p/predef/wiki/Architectures/.
var predefinedMacros = buildMacroTable()

func buildMacroTable() []macroGroup {
	var groups []macroGroup
	add := func(group []string, platforms []Platform) {
		groups = append(groups, macroGroup{names: group, platforms: platforms})
	}

	// Windows
	windowsArchs := []Arch{i386, x86_32, x86_64, aarch32, aarch64}
	add(names("_WIN32"), osAndArchs(windows, windowsArchs))
	add(names("_WIN64"), osAndArchs(windows, []Arch{x86_64, aarch64}))
	add(names("__MINGW32__"), single(windows, i386))
	add(names("__MINGW64__"), single(windows, x86_64))
	add(names("_M_IX86"), single(windows, i386))
	add(names("_M_X64"), single(windows, x86_64))
	add(names("_M_ARM"), single(windows, aarch32))
	add(names("_M_ARM64"), single(windows, aarch64))

	// Linux / Android family
	linuxArchs := allKnownArch
	add(names("linux", "__linux__", "__linux", "__gnu_linux__"), osAndArchs(linux, linuxArchs))
	add(names("__NIX__"), osAndArchs(nixos, linuxArchs))
	add(names("__NIXOS__"), osAndArchs(nixos, linuxArchs))

	androidArchs := []Arch{aarch32, aarch64, x86_32, x86_64, riscv64}
	add(names("__ANDROID__"), osAndArchs(android, androidArchs))

	chromeArchs := []Arch{x86_64, aarch64, riscv64}
	add(names("__CHROMEOS__"), osAndArchs(chromiumos, chromeArchs))

	// Apple does not define unix even though it's unix like os.
	unixOS := []OS{linux, android, chromiumos, nixos, freebsd, netbsd, openbsd, haiku, qnx}
	add(names("unix", "__unix", "__unix__"), cartesian(unixOS, allKnownArch))

	// WebAssembly (Emscripten & WASI)
	wasmArchs := []Arch{wasm32, wasm64}
	add(names("__EMSCRIPTEN__"), cartesian([]OS{emscripten}, wasmArchs))
	add(names("__wasi__"), cartesian([]OS{wasi}, wasmArchs))
	add(names("__wasm__"), cartesian([]OS{emscripten, wasi}, wasmArchs))
	add(names("__wasm32__"), cartesian([]OS{emscripten, wasi}, []Arch{wasm32}))
	add(names("__wasm64__"), cartesian([]OS{emscripten, wasi}, []Arch{wasm64}))

	// BSD family
	bsdArchs := []Arch{i386, x86_64, aarch64, riscv64, ppc64le}
	add(names("__FreeBSD__"), cartesian([]OS{freebsd}, bsdArchs))
	add(names("__NetBSD__"), cartesian([]OS{netbsd}, bsdArchs))
	add(names("__OpenBSD__"), cartesian([]OS{openbsd}, bsdArchs))

	// QNX, Haiku, Fuchsia, VxWorks, UEFI
	qnxArchs := []Arch{aarch32, aarch64, ppc32, ppc64le, x86_32, x86_64}
	add(names("__QNX__"), osAndArchs(qnx, qnxArchs))
	add(names("__QNXNTO__"), osAndArchs(qnx, qnxArchs))

	haikuArchs := []Arch{x86_32, x86_64}
	add(names("__HAIKU__"), osAndArchs(haiku, haikuArchs))

	fuchsiaArchs := []Arch{aarch64, x86_64}
	add(names("__FUCHSIA__", "__Fuchsia__"), osAndArchs(fuchsia, fuchsiaArchs))

	vxworksArchs := []Arch{aarch32, aarch64, ppc32, ppc64le, x86_32, x86_64}
	add(names("__VXWORKS__", "__vxworks"), osAndArchs(vxworks, vxworksArchs))

	uefiArchs := []Arch{aarch32, aarch64, x86_32, x86_64, riscv64}
	add(names("__UEFI__", "__EFI__"), osAndArchs(uefi, uefiArchs))

	// Apple family (modern, so no 32-bit x86 or armv6 any more).
	macArchs := []Arch{x86_64, aarch64, arm64e}
	iosArchs := []Arch{aarch64, arm64e}
	tvosArchs := []Arch{aarch64}
	watchArchs := []Arch{armv7k, arm64_32}
	visionArchs := []Arch{aarch64}
	applePlatforms := slices.Concat(
		osAndArchs(osx, macArchs),
		osAndArchs(ios, iosArchs),
		osAndArchs(tvos, tvosArchs),
		osAndArchs(watchos, watchArchs),
		osAndArchs(visionos, visionArchs),
	)
	add(names("__APPLE__", "__MACH__"), applePlatforms)
	add(names("TARGET_OS_OSX", "TARGET_OS_MAC"), osAndArchs(osx, macArchs))
	add(names("TARGET_OS_IPHONE", "TARGET_OS_IOS"), osAndArchs(ios, iosArchs))
	add(names("TARGET_OS_TV"), osAndArchs(tvos, tvosArchs))
	add(names("TARGET_OS_WATCH"), osAndArchs(watchos, watchArchs))
	add(names("TARGET_OS_VISION"), osAndArchs(visionos, visionArchs))

	// Generic CPU-only macros, true regardless of OS.
	add(names("__x86_64__", "__x86_64", "__amd64", "__amd64__"), archAndOSes(x86_64, allKnownOs))
	add(names("__i386__", "__i386"), archAndOSes(i386, allKnownOs))
	add(names("__arm__", "__arm", "__thumb__", "__thumb"), archAndOSes(aarch32, allKnownOs))
	add(names("__aarch64__", "__arm64", "__arm64__"), archAndOSes(aarch64, allKnownOs))
	add(names("__ARM64_32__", "__ARM64_32"), single(watchos, arm64_32))
	add(names("__arm64e__", "__arm64e"), archAndOSes(arm64e, []OS{osx, ios}))

	// Fine-grained Arm (mostly bare-metal).
	add(names("__ARM_ARCH_6M__"), single(none, armv6m))
	add(names("__ARM_ARCH_7__", "__ARM_ARCH_7A__"), single(none, armv7))
	add(names("__ARM_ARCH_7M__"), single(none, armv7m))
	add(names("__ARM_ARCH_7EM__"), single(none, armv7em))
	add(names("__ARM_ARCH_8M_BASE__", "__ARM_ARCH_8M_MAIN__"), single(none, armv8m))

	// PowerPC
	powerPCOS := []OS{linux, freebsd, netbsd, openbsd, qnx, vxworks}
	add(names("__powerpc__", "__PPC__"), archAndOSes(ppc32, powerPCOS))
	add(names("__powerpc64__", "__ppc64__"), archAndOSes(ppc64le, powerPCOS))

	// MIPS
	mipsOS := []OS{linux, netbsd, openbsd, qnx, vxworks}
	add(names("__mips64"), archAndOSes(mips64, mipsOS))

	// s390
	add(names("__s390x__"), single(linux, s390x))
	add(names("__s390__"), single(linux, s390x))

	// RISC-V
	riscvOS := []OS{linux, freebsd, netbsd, openbsd, qnx, vxworks, android, chromiumos, fuchsia, nixos}
	add(names("__riscv"), archAndOSes(riscv64, riscvOS))

	return groups
}

// buildMacroEnv flattens predefinedMacros into the per-platform lookup Seed
// reads from. It runs once, at package initialization, as the initializer of
// the package-level platformMacros var below.
func buildMacroEnv() map[Platform]map[string]int {
	env := map[Platform]map[string]int{}
	for _, group := range predefinedMacros {
		for _, p := range group.platforms {
			macros, ok := env[p]
			if !ok {
				macros = make(map[string]int, 8)
				env[p] = macros
			}
			for _, name := range group.names {
				// `#define NAME` is assumed equal to `#define NAME 1`.
				macros[name] = 1
			}
		}
	}
	return env
}

var platformMacros = buildMacroEnv()

func single(os OS, arch Arch) []Platform {
	return []Platform{{os, arch}}
}

// osAndArchs returns every (os, arch) pair for the given archs, plus the
// bare os-only entry (matching any arch).
func osAndArchs(os OS, archs []Arch) []Platform {
	return append(cartesian([]OS{os}, archs), Platform{OS: os})
}

// archAndOSes returns every (os, arch) pair for the given oses, plus the
// bare arch-only entry (matching any os).
func archAndOSes(arch Arch, oses []OS) []Platform {
	return append(cartesian(oses, []Arch{arch}), Platform{Arch: arch})
}

func cartesian(oses []OS, archs []Arch) []Platform {
	result := make([]Platform, 0, len(oses)*len(archs))
	for _, os := range oses {
		for _, arch := range archs {
			result = append(result, Platform{OS: os, Arch: arch})
		}
	}
	return result
}

func dealias[T ~string](value T, aliases map[string]T) T {
	if dealiased, exists := aliases[string(value)]; exists {
		return dealiased
	}
	return T(value)
}

// Seed defines every predefined macro known for p into table, as plain
// object-like macros (the moral equivalent of a compiler's built-in
// "-D" set). It is meant to be called once, before any source file is
// pushed, to give a Preprocessor a batteries-included starting
// environment for conditional compilation such as `#ifdef __linux__`.
//
// Macros already defined in table (e.g. by an earlier, more specific
// Seed call or by explicit -D flags) are left untouched: Seed never
// overwrites an existing definition.
func Seed(table *macro.Table, p Platform) {
	for name, value := range platformMacros[p] {
		if table.IsDefined(name) {
			continue
		}
		s := fmt.Sprintf("%d", value)
		body := []token.Token{{Kind: token.Number, Text: s, Value: &token.NumericValue{Radix: 10, IntDigits: s}}}
		table.Define(&macro.Macro{Name: name, Body: body})
	}
}
