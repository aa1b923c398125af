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

// Package pp implements the top-level preprocessor driver: Token() loops
// over the source stack, dispatches directives, drives the conditional
// state machine and macro expander, and consults optional listeners that
// let a caller observe (DiagnosticListener) or steer (ControlListener) the
// process.
package pp

import (
	"github.com/gocpp-org/ccpp/internal/cc/source"
	"github.com/gocpp-org/ccpp/internal/cc/token"
)

// Feature is one of a closed set of opt-in behaviors.
type Feature int

const (
	// LINEMARKERS names the line-marker feature ("# line N \"file\" F" tokens
	// at source transitions, spec §6). It is accepted but the driver does not
	// act on it: no line-marker tokens are emitted.
	LINEMARKERS Feature = iota
	// PRAGMA_ONCE honors #pragma once (without it, every #include re-reads
	// the file even if seen before).
	PRAGMA_ONCE
	// INCLUDENEXT enables #include_next; without it the directive is an error.
	INCLUDENEXT
	// CSYNTAX is accepted but has no effect: an invalid character is reported
	// as an error whether or not it is enabled.
	CSYNTAX
	// KEEPCOMMENTS passes single-line comments through to the output.
	KEEPCOMMENTS
	// KEEPALLCOMMENTS passes every comment, including block comments, through.
	KEEPALLCOMMENTS
	// DEBUG is accepted but has no effect; the driver does no extra logging
	// for it.
	DEBUG
)

// Warning is one of a closed set of warning categories.
type Warning int

const (
	// ERROR escalates every warning to an error.
	ERROR Warning = iota
	// UNDEF names the warning for an identifier that reaches the expression
	// evaluator without being a macro (and so evaluates to 0). It is accepted
	// but the driver emits no such warning.
	UNDEF
	// ENDIF_LABELS names the warning for trailing text after #endif/#else.
	// It is accepted but the driver emits no such warning.
	ENDIF_LABELS
)

// IfKind distinguishes which conditional directive a ControlListener is
// being asked about.
type IfKind int

const (
	KindIf IfKind = iota
	KindIfdef
	KindIfndef
	KindElif
)

func (k IfKind) String() string {
	switch k {
	case KindIf:
		return "if"
	case KindIfdef:
		return "ifdef"
	case KindIfndef:
		return "ifndef"
	case KindElif:
		return "elif"
	default:
		return "if"
	}
}

// DiagnosticListener observes the driver without influencing it.
type DiagnosticListener interface {
	HandleError(src string, line, col int, msg string)
	HandleWarning(src string, line, col int, msg string)
	HandleSourceChange(ev source.Event, s source.Source)
	HandleDefine(macro string, src string)
	HandleUndefine(macro string, src string)
	HandleInclude(text string, isNext bool, from, to string)
}

// ControlListener steers directive processing: any method may decline to
// let the driver act on a directive, in which case the directive's raw
// tokens are re-emitted to the output instead of being consumed.
type ControlListener interface {
	// AddMacro is consulted before a #define takes effect.
	AddMacro(name string, src string) bool
	// RemoveMacro is consulted before a #undef takes effect.
	RemoveMacro(name string, src string) bool
	// Include is consulted before a #include/#include_next is resolved and
	// pushed.
	Include(path string, isNext bool, src string) bool
	// ProcessIf is consulted before a #if/#ifdef/#ifndef/#elif condition is
	// evaluated. Declining leaves the directive's branch active (both
	// sides of the eventual #else, if any, are emitted) and its tokens
	// unconsumed.
	ProcessIf(tokens []token.Token, src string, kind IfKind) bool
	// ExpandMacro is consulted before an identifier naming a macro is
	// expanded; inConditional is true while evaluating a #if/#elif
	// expression.
	ExpandMacro(macroName string, src string, line, col int, inConditional bool) bool
	// GetPartiallyProcessedCondition lets the listener substitute a
	// different token spelling (e.g. with some macros already expanded)
	// for a declined #if/#elif's condition, when re-emitting it verbatim.
	// ok==false means "use the original tokens unchanged".
	GetPartiallyProcessedCondition(tokens []token.Token, src string, kind IfKind, context string) (string, bool)
}
