package diagnostics

import (
	"fmt"

	"github.com/funvibe/lowerkit/internal/token"
)

// InternalError is the panic payload of Fatal. It marks a defect in an
// earlier pass and aborts the whole compilation.
type InternalError struct {
	Token   token.Token
	Message string
}

func (e *InternalError) Error() string {
	if e.Token.IsZero() {
		return "internal error: " + e.Message
	}
	return fmt.Sprintf("%s: internal error: %s", e.Token, e.Message)
}

// AbortError is the panic payload of Fail.
type AbortError struct {
	Message string
}

func (e *AbortError) Error() string { return "fail: " + e.Message }

// Fatal aborts with an internal error.
func Fatal(tok token.Token, format string, args ...interface{}) {
	panic(&InternalError{Token: tok, Message: fmt.Sprintf(format, args...)})
}

// Assert calls Fatal when cond does not hold.
func Assert(cond bool, tok token.Token, format string, args ...interface{}) {
	if !cond {
		Fatal(tok, format, args...)
	}
}

// Fail aborts analysis of a program that should not exist given a
// well-typed input. It is distinct from Fatal: the input is suspect,
// not the compiler.
func Fail(format string, args ...interface{}) {
	panic(&AbortError{Message: fmt.Sprintf(format, args...)})
}

// Recover turns an InternalError or AbortError panic into *errp. Other
// panics are re-raised. Use as `defer diagnostics.Recover(&err)`.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	switch e := r.(type) {
	case *InternalError:
		*errp = e
	case *AbortError:
		*errp = e
	default:
		panic(r)
	}
}
