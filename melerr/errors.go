// Package melerr defines the closed set of error kinds produced by the
// expression pipeline. Lexing and parsing errors carry a character offset
// into the source; evaluation errors do not.
package melerr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Parse Kind = iota
	UnexpectedChar
	UnclosedString
	DivisionByZero
	TypeMismatch
	InvalidArgument
	MissingColumn
	EmptyColumn
	UnknownFunction
)

var kindNames = map[Kind]string{
	Parse:           "ParseError",
	UnexpectedChar:  "UnexpectedChar",
	UnclosedString:  "UnclosedString",
	DivisionByZero:  "DivisionByZero",
	TypeMismatch:    "TypeError",
	InvalidArgument: "InvalidArgument",
	MissingColumn:   "MissingColumn",
	EmptyColumn:     "EmptyColumn",
	UnknownFunction: "UnknownFunction",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the error type returned by the lexer, parser and evaluator.
// Pos is the offset of the offending character in the source expression,
// or -1 when the error has no source location.
type Error struct {
	Kind    Kind
	Pos     int
	Message string
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s: %s (at position %d)", e.Kind, e.Message, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds an Error without a source location.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: -1, Message: fmt.Sprintf(format, args...)}
}

// NewAt builds an Error pointing at a character offset in the source
// expression.
func NewAt(kind Kind, pos int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err if it is (or wraps) a melerr Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
