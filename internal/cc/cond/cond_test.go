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

package cond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleIfElse(t *testing.T) {
	s := NewStack()
	s.PushIf(false)
	assert.False(t, s.Active())
	require.NoError(t, s.Else())
	assert.True(t, s.Active())
	require.NoError(t, s.Endif())
	assert.True(t, s.Active())
}

func TestElifChain(t *testing.T) {
	s := NewStack()
	s.PushIf(false)
	require.NoError(t, s.Elif(false))
	assert.False(t, s.Active())
	require.NoError(t, s.Elif(true))
	assert.True(t, s.Active())
	require.NoError(t, s.Elif(true)) // already processed: stays inactive
	assert.False(t, s.Active())
}

func TestNestedInactiveParentStaysInactive(t *testing.T) {
	s := NewStack()
	s.PushIf(false)
	s.PushIf(true)
	assert.False(t, s.Active(), "a true nested condition under an inactive parent is still inactive")
	require.NoError(t, s.Endif())
	require.NoError(t, s.Endif())
	assert.True(t, s.Active())
}

func TestElseAfterElseIsError(t *testing.T) {
	s := NewStack()
	s.PushIf(true)
	require.NoError(t, s.Else())
	assert.ErrorIs(t, s.Else(), ErrElseAfterElse)
}

func TestElifAfterElseIsError(t *testing.T) {
	s := NewStack()
	s.PushIf(true)
	require.NoError(t, s.Else())
	assert.ErrorIs(t, s.Elif(true), ErrElifAfterElse)
}

func TestStrayEndif(t *testing.T) {
	s := NewStack()
	assert.ErrorIs(t, s.Endif(), ErrUnbalancedEndif)
	assert.True(t, s.Active())
}

func TestUnclosedAtEOF(t *testing.T) {
	s := NewStack()
	s.PushIf(true)
	s.PushIf(true)
	assert.Equal(t, 2, s.Unclosed())
}

func TestUnresolvedGroupPassesThrough(t *testing.T) {
	s := NewStack()
	s.PushUnresolved()
	assert.True(t, s.Active())
	require.NoError(t, s.Elif(false))
	assert.True(t, s.Active(), "an unresolved group's elif never changes activity")
	require.NoError(t, s.Endif())
}
