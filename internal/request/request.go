// Package request models the lifecycle of one asynchronous fetch or operation.
package request

import "fmt"

// Kind identifies the active variant of a Result.
type Kind int

const (
	KindIdle Kind = iota
	KindLoading
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindLoading:
		return "loading"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is a four-variant result: Idle, Loading, Success(data) or Error(message).
// Exactly one variant is active. A Result is a value and is never mutated;
// a state transition is a new Result replacing the old one.
type Result[T any] struct {
	kind Kind
	data T
	msg  string
}

// Idle returns a Result for an operation that has not started.
func Idle[T any]() Result[T] {
	return Result[T]{kind: KindIdle}
}

// Loading returns a Result for an operation in flight.
func Loading[T any]() Result[T] {
	return Result[T]{kind: KindLoading}
}

// Success returns a Result holding data.
func Success[T any](data T) Result[T] {
	return Result[T]{kind: KindSuccess, data: data}
}

// Error returns a Result holding a human-readable failure message.
func Error[T any](msg string) Result[T] {
	return Result[T]{kind: KindError, msg: msg}
}

// Kind returns the active variant.
func (r Result[T]) Kind() Kind { return r.kind }

func (r Result[T]) IsIdle() bool    { return r.kind == KindIdle }
func (r Result[T]) IsLoading() bool { return r.kind == KindLoading }
func (r Result[T]) IsSuccess() bool { return r.kind == KindSuccess }
func (r Result[T]) IsError() bool   { return r.kind == KindError }

// VariantError reports access to a payload the active variant does not carry.
type VariantError struct {
	Want Kind
	Got  Kind
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("request: want %s result, got %s", e.Want, e.Got)
}

// MustData returns the Success payload.
// It panics with a *VariantError if r is not a Success.
func (r Result[T]) MustData() T {
	if r.kind != KindSuccess {
		panic(&VariantError{Want: KindSuccess, Got: r.kind})
	}
	return r.data
}

// Data returns the Success payload and true, or the zero value and false.
func (r Result[T]) Data() (T, bool) {
	if r.kind != KindSuccess {
		var zero T
		return zero, false
	}
	return r.data, true
}

// MustMessage returns the Error message.
// It panics with a *VariantError if r is not an Error.
func (r Result[T]) MustMessage() string {
	if r.kind != KindError {
		panic(&VariantError{Want: KindError, Got: r.kind})
	}
	return r.msg
}

// Message returns the Error message and true, or "" and false.
func (r Result[T]) Message() (string, bool) {
	if r.kind != KindError {
		return "", false
	}
	return r.msg, true
}

// Handlers holds one callback per variant for Match.
// OnSuccess is required; the others may be nil and are then skipped.
type Handlers[T any] struct {
	OnIdle    func()
	OnLoading func()
	OnSuccess func(T)
	OnError   func(string)
}

// Match calls the handler of the active variant.
func (r Result[T]) Match(h Handlers[T]) {
	switch r.kind {
	case KindIdle:
		if h.OnIdle != nil {
			h.OnIdle()
		}
	case KindLoading:
		if h.OnLoading != nil {
			h.OnLoading()
		}
	case KindSuccess:
		h.OnSuccess(r.data)
	case KindError:
		if h.OnError != nil {
			h.OnError(r.msg)
		}
	}
}

func (r Result[T]) String() string {
	switch r.kind {
	case KindSuccess:
		return fmt.Sprintf("success(%v)", r.data)
	case KindError:
		return fmt.Sprintf("error(%q)", r.msg)
	default:
		return r.kind.String()
	}
}
