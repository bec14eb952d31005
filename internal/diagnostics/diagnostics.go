package diagnostics

import (
	"fmt"

	"github.com/funvibe/lowerkit/internal/token"
)

type ErrorCode string

// Analysis errors reachable from user programs. They abort the current
// lowering unit only.
const (
	ErrA001 ErrorCode = "A001" // unresolved label
	ErrA002 ErrorCode = "A002" // assignment to non-lvalue
	ErrA003 ErrorCode = "A003" // unsupported destructuring target
	ErrA004 ErrorCode = "A004" // unhandled variable class
)

// Internal errors: an earlier pass produced a shape analysis cannot accept.
const (
	ErrI001 ErrorCode = "I001"
)

// Soft aborts: conditions a well-typed program never reaches.
const (
	ErrF001 ErrorCode = "F001"
)

var errorMessages = map[ErrorCode]string{
	ErrA001: "unresolved label %s",
	ErrA002: "assignment to non-lvalue",
	ErrA003: "non-variable or tuple in destructuring assignment",
	ErrA004: "unhandled variable class",
	ErrI001: "internal error: %s",
	ErrF001: "fail: %s",
}

// DiagnosticError is a located error produced during analysis.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
}

func (e *DiagnosticError) Error() string {
	file := e.File
	if file == "" {
		file = e.Token.File
	}
	if file != "" {
		return fmt.Sprintf("%s:%d:%d: error %s: %s", file, e.Token.Line, e.Token.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("%d:%d: error %s: %s", e.Token.Line, e.Token.Column, e.Code, e.Message)
}

// NewError formats the message registered for code with args.
func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	format, ok := errorMessages[code]
	if !ok {
		format = "%v"
	}
	return &DiagnosticError{
		Code:    code,
		Token:   tok,
		File:    tok.File,
		Message: fmt.Sprintf(format, args...),
	}
}
