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

// Package cond implements the conditional-inclusion state machine that
// drives #if/#ifdef/#ifndef/#elif/#else/#endif: a stack of frames, one
// pushed per open #if, each tracking whether its branch is active, whether
// an #else has already been seen for it, and whether any branch of the
// group has already fired.
package cond

import "errors"

var (
	ErrUnbalancedEndif = errors.New("#endif without matching #if")
	ErrElseAfterElse   = errors.New("#else after #else")
	ErrElifAfterElse   = errors.New("#elif after #else")
)

// Frame is one open #if/#elif/#else group.
type Frame struct {
	// ParentActive is whether the enclosing frame (or the top level, if
	// this is the outermost) was active when this frame was entered; a
	// frame can never be active if its parent wasn't.
	ParentActive bool
	// Active is whether the current branch's tokens should reach the
	// caller (i.e. this frame's condition held, its parent is active, and
	// no earlier sibling branch in this group already fired).
	Active bool
	// Processed records that some branch in this group has already
	// evaluated true, so later #elif/#else branches must stay inactive
	// even if their own condition would otherwise hold.
	Processed bool
	// SawElse records that #else has already appeared in this group, so a
	// further #elif or #else is an error.
	SawElse bool
	// Unresolved marks a group the driver's ControlListener chose to leave
	// unevaluated: its directive tokens pass through to the caller verbatim
	// instead of being consumed, and every Elif/Else in the group is a
	// no-op that keeps mirroring whatever activity the group had when it
	// was opened (spec §4.F's partial-evaluation extension).
	Unresolved bool
}

// Stack is the live conditional-nesting state for one source file (it does
// not span #include boundaries: each pushed file source gets a fresh Stack,
// since an unterminated #if inside an included file is itself an error the
// driver reports when the file ends, not something that leaks to the
// includer per spec §4.F).
type Stack struct {
	frames []*Frame
}

func NewStack() *Stack { return &Stack{} }

// Active reports whether tokens should currently be emitted to the caller:
// true both at top level (empty stack) and whenever every open frame is
// active.
func (s *Stack) Active() bool {
	if len(s.frames) == 0 {
		return true
	}
	return s.frames[len(s.frames)-1].Active
}

// Depth reports how many #if groups are currently open.
func (s *Stack) Depth() int { return len(s.frames) }

// PushIf opens a new group for a #if/#ifdef/#ifndef directive. cond is the
// directive's own evaluated condition; the frame's effective activity also
// requires every enclosing frame to be active.
func (s *Stack) PushIf(cond bool) {
	parentActive := s.Active()
	f := &Frame{
		ParentActive: parentActive,
		Active:       parentActive && cond,
		Processed:    parentActive && cond,
	}
	s.frames = append(s.frames, f)
}

// PushUnresolved opens a group whose own condition the driver chose not to
// evaluate (its ControlListener declined); the group mirrors the parent's
// activity and its directive tokens are left for the caller to see verbatim.
func (s *Stack) PushUnresolved() {
	active := s.Active()
	s.frames = append(s.frames, &Frame{ParentActive: active, Active: active, Processed: true, Unresolved: true})
}

// Elif advances the current group to its next #elif branch.
func (s *Stack) Elif(cond bool) error {
	if len(s.frames) == 0 {
		return ErrUnbalancedEndif
	}
	f := s.frames[len(s.frames)-1]
	if f.SawElse {
		return ErrElifAfterElse
	}
	if f.Unresolved {
		return nil
	}
	if !f.ParentActive || f.Processed {
		f.Active = false
		return nil
	}
	f.Active = cond
	if cond {
		f.Processed = true
	}
	return nil
}

// Else advances the current group to its #else branch.
func (s *Stack) Else() error {
	if len(s.frames) == 0 {
		return ErrUnbalancedEndif
	}
	f := s.frames[len(s.frames)-1]
	if f.SawElse {
		return ErrElseAfterElse
	}
	f.SawElse = true
	if f.Unresolved {
		return nil
	}
	if !f.ParentActive || f.Processed {
		f.Active = false
		return nil
	}
	f.Active = true
	f.Processed = true
	return nil
}

// Endif closes the current group. A stray #endif (nothing open) is
// reported but otherwise a no-op: the stack, already empty, is left
// exactly as it was (see DESIGN.md's decided Open Question).
func (s *Stack) Endif() error {
	if len(s.frames) == 0 {
		return ErrUnbalancedEndif
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// Unclosed reports how many #if groups remain open, for end-of-file
// diagnostics ("#if without matching #endif").
func (s *Stack) Unclosed() int { return len(s.frames) }

// TopUnresolved reports whether the innermost open group was left
// unevaluated (its originating #if/#ifdef/#ifndef was declined, or a later
// #elif was retroactively marked via MarkUnresolved).
func (s *Stack) TopUnresolved() bool {
	if len(s.frames) == 0 {
		return false
	}
	return s.frames[len(s.frames)-1].Unresolved
}

// TopNeedsEval reports whether the innermost group's next #elif condition
// would actually influence anything: its parent must be active and no
// earlier branch in the group can have already fired.
func (s *Stack) TopNeedsEval() bool {
	if len(s.frames) == 0 {
		return false
	}
	f := s.frames[len(s.frames)-1]
	return f.ParentActive && !f.Processed
}

// MarkUnresolved retroactively converts the innermost open group into an
// unresolved one, as if its #if had been declined by the control listener:
// its own branch becomes active and every subsequent #elif/#else in the
// group passes its tokens through unevaluated.
func (s *Stack) MarkUnresolved() {
	if len(s.frames) == 0 {
		return
	}
	f := s.frames[len(s.frames)-1]
	f.Unresolved = true
	f.Active = f.ParentActive
	f.Processed = true
}
