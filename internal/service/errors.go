package service

import (
	"errors"
	"fmt"
)

// FailureKind classifies a persistence failure.
type FailureKind int

const (
	Unknown FailureKind = iota
	Connectivity
	NotFound
	Validation
)

func (k FailureKind) String() string {
	switch k {
	case Connectivity:
		return "connectivity"
	case NotFound:
		return "not found"
	case Validation:
		return "validation"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against a *Failure of the same kind.
var (
	ErrConnectivity = errors.New("connectivity failure")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failure")
)

// ErrAuth marks failures caused by missing or revoked credentials.
// It travels inside an Unknown failure and is matched with errors.Is.
var ErrAuth = errors.New("not authorized")

// Failure is the error every backend returns.
// Msg is human-readable; for Unknown failures it is the wrapped error's text verbatim.
type Failure struct {
	Kind FailureKind
	Msg  string
	Err  error
}

func (f *Failure) Error() string { return f.Msg }

func (f *Failure) Unwrap() error { return f.Err }

// Is lets errors.Is(err, ErrNotFound) and friends match by kind.
func (f *Failure) Is(target error) bool {
	switch target {
	case ErrConnectivity:
		return f.Kind == Connectivity
	case ErrNotFound:
		return f.Kind == NotFound
	case ErrValidation:
		return f.Kind == Validation
	}
	return false
}

// Validationf returns a Validation failure.
func Validationf(format string, args ...any) *Failure {
	return &Failure{Kind: Validation, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf returns a NotFound failure.
func NotFoundf(format string, args ...any) *Failure {
	return &Failure{Kind: NotFound, Msg: fmt.Sprintf(format, args...)}
}

// ConnectivityError wraps a transport error as a Connectivity failure.
func ConnectivityError(err error) *Failure {
	return &Failure{Kind: Connectivity, Msg: "connection failed: " + err.Error(), Err: err}
}

// AsFailure returns err as a *Failure, wrapping anything else as Unknown
// with its message preserved.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: Unknown, Msg: err.Error(), Err: err}
}

// KindOf returns the failure kind of err, Unknown for foreign errors.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return Unknown
}
