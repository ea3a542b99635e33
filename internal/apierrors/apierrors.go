// Package apierrors implements the seven error kinds spec.md §7 names,
// grounded in original_source/bls12_381/src/errors.rs's ApiError enum.
// Each kind wraps an optional cause with golang.org/x/xerrors so callers
// can still %+v a full chain, and maps to a google.golang.org/grpc/codes
// value so a transport front end (internal/rpc) can report failures
// without the core depending on any particular transport.
package apierrors

import (
	"fmt"

	"golang.org/x/xerrors"
	"google.golang.org/grpc/codes"
)

// Kind identifies which of the seven spec.md §7 error categories occurred.
type Kind int

const (
	// Overflow signals a limb-engine or field operation result that does
	// not fit the configured width.
	Overflow Kind = iota
	// UnexpectedZero signals a value required to be non-zero (e.g. an
	// MSM scalar count, a denominator) that turned out to be zero.
	UnexpectedZero
	// InputError signals a malformed or out-of-range input parameter.
	InputError
	// DivisionByZero signals an attempted inversion of the additive
	// identity.
	DivisionByZero
	// UnknownParameter signals a parameter whose value falls outside the
	// set this engine understands (e.g. an unrecognized curve family tag).
	UnknownParameter
	// OutputError signals a failure encoding or reporting a result.
	OutputError
	// MissingValue signals a required value that was never supplied.
	MissingValue
)

func (k Kind) String() string {
	switch k {
	case Overflow:
		return "overflow"
	case UnexpectedZero:
		return "parameter expected to be non-zero"
	case InputError:
		return "invalid input parameters"
	case DivisionByZero:
		return "division by zero"
	case UnknownParameter:
		return "parameter has value out of bounds"
	case OutputError:
		return "error outputting results"
	case MissingValue:
		return "missing value"
	default:
		return "unknown error"
	}
}

// Code maps k to the grpc/codes value an internal/rpc front end reports.
func (k Kind) Code() codes.Code {
	switch k {
	case Overflow:
		return codes.OutOfRange
	case UnexpectedZero, DivisionByZero:
		return codes.FailedPrecondition
	case InputError, UnknownParameter:
		return codes.InvalidArgument
	case OutputError:
		return codes.Internal
	case MissingValue:
		return codes.InvalidArgument
	default:
		return codes.Unknown
	}
}

// Error is an apierrors error: a Kind, an optional free-form description,
// and an optional wrapped cause.
type Error struct {
	Kind  Kind
	Descr string
	Cause error
	frame xerrors.Frame
}

// New builds an Error of the given kind with a free-form description and no
// wrapped cause.
func New(kind Kind, descr string) *Error {
	return &Error{Kind: kind, Descr: descr, frame: xerrors.Caller(1)}
}

// Wrap builds an Error of the given kind wrapping cause.
func Wrap(kind Kind, descr string, cause error) *Error {
	return &Error{Kind: kind, Descr: descr, Cause: cause, frame: xerrors.Caller(1)}
}

func (e *Error) Error() string {
	if e.Descr == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Descr
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// FormatError implements xerrors.Formatter so %+v prints the call frame
// and the wrapped cause chain.
func (e *Error) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	e.frame.Format(p)
	return e.Cause
}

// Format satisfies fmt.Formatter via xerrors.FormatError.
func (e *Error) Format(f fmt.State, verb rune) { xerrors.FormatError(e, f, verb) }
