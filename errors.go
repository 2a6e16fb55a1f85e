package bearsolve

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors. They are wrapped by the typed errors below and may be tested
// with errors.Is.
var (
	ErrMissingInput    = errors.New("input file not found")
	ErrEmptyInput      = errors.New("input is empty")
	ErrMultiLineInput  = errors.New("input must contain a single-line expression")
	ErrSyntax          = errors.New("syntax error")
	ErrBudgetExhausted = errors.New("budget exhausted")
	ErrIncomplete      = errors.New("decision procedure is incomplete for this input")
)

// --- Input format ----------------------------------------------------------

// InputFormatError is reported for input which cannot be processed at all:
// a missing or empty file, multi-line input, or text which is not an expression.
// It is fatal; retrying will not help.
type InputFormatError struct {
	Path   string // file name, if input came from a file
	Reason string
	Err    error
}

func (e *InputFormatError) Error() string {
	msg := "input format error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InputFormatError) Unwrap() error {
	return e.Err
}

// NewInputFormatError creates an input format error for path, wrapping err.
func NewInputFormatError(path string, err error, reason string) *InputFormatError {
	return &InputFormatError{Path: path, Reason: reason, Err: err}
}

// --- Unsupported constructs ------------------------------------------------

// UnsupportedConstruct is reported when an expression contains a construct
// outside of the handled grammar, e.g. a string literal or a subscript.
// Kind names the construct.
type UnsupportedConstruct struct {
	Kind string // kind of the offending node, e.g. "StringLiteral"
	Text string // offending text, if available
	Pos  int    // byte offset into the expression, or -1
}

func (e *UnsupportedConstruct) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("unsupported construct %s", e.Kind)
	}
	if e.Pos < 0 {
		return fmt.Sprintf("unsupported construct %s: %s", e.Kind, e.Text)
	}
	return fmt.Sprintf("unsupported construct %s at %d: %s", e.Kind, e.Pos, e.Text)
}

// Unsupported creates an UnsupportedConstruct error without position.
func Unsupported(kind string, text string) *UnsupportedConstruct {
	return &UnsupportedConstruct{Kind: kind, Text: text, Pos: -1}
}

// --- Decision procedure ----------------------------------------------------

// DecisionProcedureUnknown is reported when the decision procedure could neither
// prove nor refute satisfiability, or when the caller's budget ran out. It is
// never a proof of completeness. Callers may retry with a smaller domain or
// precision order.
type DecisionProcedureUnknown struct {
	Reason string
	Err    error
}

func (e *DecisionProcedureUnknown) Error() string {
	if e.Err == nil {
		return "decision procedure returned unknown: " + e.Reason
	}
	return fmt.Sprintf("decision procedure returned unknown: %s: %v", e.Reason, e.Err)
}

func (e *DecisionProcedureUnknown) Unwrap() error {
	return e.Err
}

// IsUnknown is a predicate: is err (or any error it wraps) a DecisionProcedureUnknown?
func IsUnknown(err error) bool {
	var u *DecisionProcedureUnknown
	return errors.As(err, &u)
}
