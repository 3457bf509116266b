// Package errors is the error toolkit for ts2swift.
//
// It re-exports github.com/cockroachdb/errors so every package wraps, hints
// and inspects errors the same way, and adds the sentinels the converter
// reports:
//
//	// Missing input
//	return errors.NewNotFoundError("input %s", path)
//
//	// Operator-facing advice
//	return errors.WithHint(err, "pass --input pointing at a .ts file or directory")
//
//	// Classification
//	if errors.Is(err, errors.ErrParse) { ... }
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// Hints and details shown to the operator
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
	Join           = crdb.Join
)

// Mark makes err match reference under Is without changing its message
var Mark = crdb.Mark

// AssertionFailedf reports a broken internal invariant
var AssertionFailedf = crdb.AssertionFailedf

// Sentinels. Wrap them to add context; test with Is.
var (
	// ErrNotFound indicates an input file or directory does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates bad flags or configuration
	ErrInvalidRequest = New("invalid request")

	// ErrParse indicates a source file could not be parsed
	ErrParse = New("parse error")

	// ErrUnsupported indicates a construct the converter does not handle
	ErrUnsupported = New("unsupported")

	// ErrStale indicates generated output is missing or out of date
	ErrStale = New("output out of date")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsParseError checks if an error is or wraps ErrParse
func IsParseError(err error) bool {
	return err != nil && Is(err, ErrParse)
}

// WrapParse marks err as a parse failure of the named file
func WrapParse(err error, file string) error {
	return Wrapf(crdb.Mark(err, ErrParse), "parse %s", file)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}
