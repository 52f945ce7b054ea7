/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package expr

import (
	"fmt"
	"strings"
)

// ErrorCode classifies expression errors
type ErrorCode string

const (
	// CodeInvalidArity operand count does not match the operator's arity class
	CodeInvalidArity ErrorCode = "INVALID_ARITY"
	// CodeInvalidOperand an operand is missing or of the wrong kind
	CodeInvalidOperand ErrorCode = "INVALID_OPERAND"
	// CodeInvalidParameter a parameter is not accepted by the operator
	CodeInvalidParameter ErrorCode = "INVALID_PARAMETER"
	// CodeInvalidUnit an angular or window unit token is unknown
	CodeInvalidUnit ErrorCode = "INVALID_UNIT"
	// CodeUnknownOperator no catalog entry for the operator name
	CodeUnknownOperator ErrorCode = "UNKNOWN_OPERATOR"
	// CodeSyntax textual expression could not be parsed
	CodeSyntax ErrorCode = "SYNTAX"
	// CodeWindowSortRequired windowed operator used without a sort
	CodeWindowSortRequired ErrorCode = "WINDOW_SORT_REQUIRED"
)

// Sentinel errors for errors.Is. They match any *Error with the same code.
var (
	ErrInvalidArity       = &Error{Code: CodeInvalidArity}
	ErrInvalidOperand     = &Error{Code: CodeInvalidOperand}
	ErrInvalidParameter   = &Error{Code: CodeInvalidParameter}
	ErrInvalidUnit        = &Error{Code: CodeInvalidUnit}
	ErrUnknownOperator    = &Error{Code: CodeUnknownOperator}
	ErrSyntax             = &Error{Code: CodeSyntax}
	ErrWindowSortRequired = &Error{Code: CodeWindowSortRequired}
)

// Error is the structured error returned by node construction, unit parsing
// and the textual translator.
type Error struct {
	Code     ErrorCode
	Operator string // operator name, if any
	Message  string
	Position int // position in the source text, -1 when not applicable
	Err      error
}

// NewError creates an error without position information.
func NewError(code ErrorCode, operator, format string, args ...any) *Error {
	return &Error{
		Code:     code,
		Operator: operator,
		Message:  fmt.Sprintf(format, args...),
		Position: -1,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(e.Code))
	b.WriteString("]")
	if e.Operator != "" {
		b.WriteString(" ")
		b.WriteString(e.Operator)
		b.WriteString(":")
	}
	if e.Message != "" {
		b.WriteString(" ")
		b.WriteString(e.Message)
	}
	if e.Position >= 0 {
		fmt.Fprintf(&b, " at position %d", e.Position)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code, so errors.Is(err, ErrInvalidArity) holds for
// every arity error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
