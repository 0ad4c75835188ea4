// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package errors defines the error taxonomy shared by the conversion and
// formatting pipelines. Each error type matches its sentinel through
// errors.Is and exposes the underlying cause through Unwrap.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per category.
var (
	// ErrUnsupportedFormat indicates an unknown input or output format token.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidOption indicates an option value outside its accepted set.
	ErrInvalidOption = errors.New("invalid option")
	// ErrDecode indicates malformed markdown or structured input.
	ErrDecode = errors.New("decode failed")
	// ErrIO indicates a file read, write or rename failure.
	ErrIO = errors.New("i/o failure")
	// ErrInternal indicates a broken contract inside the tool.
	ErrInternal = errors.New("internal error")
	// ErrFormattingRequired signals that a dry run found files to format.
	ErrFormattingRequired = errors.New("formatting required")
)

// UnsupportedFormatError reports a format token outside the closed set.
type UnsupportedFormatError struct {
	Direction string   // "input" or "output"
	Token     string   // offending token as given
	Accepted  []string // tokens that would have been accepted
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported %s format %q: supported formats are %s",
		e.Direction, e.Token, strings.Join(e.Accepted, ", "))
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }

// InvalidOptionError reports an option value the composer rejected.
type InvalidOptionError struct {
	Option   string
	Value    string
	Accepted []string
}

func (e *InvalidOptionError) Error() string {
	if len(e.Accepted) == 0 {
		return fmt.Sprintf("invalid value %q for option %s", e.Value, e.Option)
	}
	return fmt.Sprintf("invalid value %q for option %s: accepted values are %s",
		e.Value, e.Option, strings.Join(e.Accepted, ", "))
}

func (e *InvalidOptionError) Is(target error) bool { return target == ErrInvalidOption }

// DecodeError wraps an engine diagnostic for malformed input. Path is set
// when the input came from a named file.
type DecodeError struct {
	Format string
	Path   string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s as %s: %v", e.Path, e.Format, e.Err)
	}
	return fmt.Sprintf("failed to parse %s input: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error        { return e.Err }
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// IO steps reported by IOError.
const (
	StepRead      = "read"
	StepWriteTemp = "write temporary file"
	StepRename    = "rename"
	StepGlob      = "expand pattern"
)

// IOError reports a filesystem failure, tagged with the path and the step
// that failed.
type IOError struct {
	Path string
	Step string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Step, e.Path, e.Err)
}

func (e *IOError) Unwrap() error        { return e.Err }
func (e *IOError) Is(target error) bool { return target == ErrIO }

// InternalError reports a failure that well-formed input cannot cause.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error during %s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error        { return e.Err }
func (e *InternalError) Is(target error) bool { return target == ErrInternal }
