package token

import "fmt"

// Token is the source position attached to AST nodes and IR instructions.
type Token struct {
	File   string
	Line   int
	Column int
	Lexeme string
}

func (t Token) String() string {
	if t.File == "" {
		return fmt.Sprintf("%d:%d", t.Line, t.Column)
	}
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}

// IsZero reports whether the token carries no position.
func (t Token) IsZero() bool {
	return t.File == "" && t.Line == 0 && t.Column == 0
}
