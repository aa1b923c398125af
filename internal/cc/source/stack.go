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

import "github.com/gocpp-org/ccpp/internal/cc/token"

// Event records a stack-shape change the driver's diagnostics may care
// about (entering/leaving a file matters for include-cycle diagnostics and
// for __FILE__/__LINE__ resets; entering/leaving a macro call matters for
// "in expansion of macro X" context on an error).
type Event int

const (
	Push Event = iota
	Pop
	Suspend
	Resume
)

// Listener is notified of stack shape changes as they happen. A nil
// listener (the default) means "don't care".
type Listener func(ev Event, s Source)

// Stack is the driver's pull-source stack (spec §4.C). Pull always comes
// from the top frame; when a frame is exhausted it is popped automatically
// ("autopop") and the pull is retried against the new top, transparently to
// the caller, until a token is produced or the stack is empty.
type Stack struct {
	frames []Source
	notify Listener
}

func NewStack(bottom Source) *Stack {
	return &Stack{frames: []Source{bottom}}
}

// SetListener installs (or clears, with nil) the stack-event listener.
func (s *Stack) SetListener(l Listener) { s.notify = l }

// Push enters a new top frame, e.g. an #include target or a macro call's
// replacement list.
func (s *Stack) Push(src Source) {
	if s.notify != nil && len(s.frames) > 0 {
		s.notify(Suspend, s.frames[len(s.frames)-1])
	}
	s.frames = append(s.frames, src)
	if s.notify != nil {
		s.notify(Push, src)
	}
}

// Top returns the current top frame, or nil if the stack is empty.
func (s *Stack) Top() Source {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth reports how many frames are live, bottom translation unit included.
func (s *Stack) Depth() int { return len(s.frames) }

// Next pulls the next token, autopopping exhausted frames until one
// produces a token or the whole stack (including the bottom translation
// unit) is drained.
func (s *Stack) Next() (token.Token, bool, error) {
	for len(s.frames) > 0 {
		top := s.frames[len(s.frames)-1]
		tok, ok, err := top.Next()
		if ok || err != nil {
			return tok, ok, err
		}
		s.pop()
	}
	return token.Token{Kind: token.EOF}, false, nil
}

func (s *Stack) pop() {
	n := len(s.frames)
	popped := s.frames[n-1]
	s.frames = s.frames[:n-1]
	if s.notify != nil {
		s.notify(Pop, popped)
	}
	if s.notify != nil && len(s.frames) > 0 {
		s.notify(Resume, s.frames[len(s.frames)-1])
	}
}

// ActiveChain returns the macro-expansion chain of the nearest Macro frame
// on the stack (searching from the top down), or nil if none is active —
// used when pushing a new Macro frame for a nested call so self-recursion
// painting accumulates correctly across non-macro frames in between (e.g. a
// macro whose body is pushed, pulls from a pasted Fixed source, which in
// turn contains another macro call).
func (s *Stack) ActiveChain() map[string]bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if m, ok := s.frames[i].(*Macro); ok {
			return m.Chain()
		}
	}
	return nil
}
