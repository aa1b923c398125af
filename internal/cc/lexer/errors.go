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

package lexer

import "errors"

// Sentinel errors for the lex-level failure modes. Every one of these leaves
// the lexer able to keep scanning (after an invalid character it resumes at
// the next character; an unterminated comment runs to the end of input), so
// callers that install a diagnostic listener can treat them as recoverable.
var (
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedChar    = errors.New("unterminated character literal")
	ErrUnterminatedComment = errors.New("unterminated comment")
	ErrInvalidCharacter    = errors.New("invalid character")
	ErrBadNumericLiteral   = errors.New("malformed numeric literal")
)
