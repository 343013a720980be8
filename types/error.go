package types

import "fmt"

// ParseError is returned by Parse for every input it rejects.
type ParseError struct {
	Reason ErrorReason
	// Input is the whole type string given to Parse.
	Input string
	// Pos is the byte offset of the offending token in Input.
	Pos int
	// Token is the offending token text, empty at end of input.
	Token   string
	Message string
	Cause   error
}

type ErrorReason string

const (
	LexError             ErrorReason = "lexError"
	UnknownType          ErrorReason = "unknownType"
	UnexpectedToken      ErrorReason = "unexpectedToken"
	InvalidNumber        ErrorReason = "invalidNumber"
	InvalidDecimalParams ErrorReason = "invalidDecimalParams"
	DuplicateField       ErrorReason = "duplicateField"
	TrailingInput        ErrorReason = "trailingInput"
)

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: %s at end of input", e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s at position %d near %q", e.Reason, e.Message, e.Pos, e.Token)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

func newParseError(reason ErrorReason, input string, tok token, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Reason:  reason,
		Input:   input,
		Pos:     tok.pos,
		Token:   tok.text,
		Message: fmt.Sprintf(format, args...),
	}
}

func newParseErrorWithCause(reason ErrorReason, input string, tok token, cause error, format string, args ...interface{}) *ParseError {
	err := newParseError(reason, input, tok, format, args...)
	err.Cause = cause
	return err
}
