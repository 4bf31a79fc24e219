package pool

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	// ErrInvalidConfiguration is returned by New when the pool cannot be built
	// from the supplied arguments, e.g. a non-positive thread count.
	ErrInvalidConfiguration = errors.New("invalid pool configuration")

	// ErrPoolClosed is returned by Submit after Close, by a second Close, and is
	// recorded for every task of a Map call that could not finish before the
	// pool shut down.
	ErrPoolClosed = errors.New("pool is closed")

	// ErrInterrupted is returned by Map when the caller's context is done before
	// every task of the call has completed. The context's cause is wrapped
	// alongside it.
	ErrInterrupted = errors.New("wait for task group interrupted")
)

// TaskError attributes a failure to the input index whose task produced it.
// Every failure recorded by a Map call is wrapped in a TaskError.
type TaskError struct {
	Index int
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d failed: %v", e.Index, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking task together with the
// stack trace of the goroutine at the point of the panic.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker panic: %v\nstack trace:\n%s", e.Value, e.Stack)
}

// Unwrap returns the recovered value when it is itself an error, so that
// panic(err) can still be matched with errors.Is.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func newPanicError(v any) *PanicError {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return &PanicError{Value: v, Stack: string(buf[:n])}
}

// GroupError is the single failure returned by Map when one or more of its
// tasks failed. First is the earliest recorded failure; the rest are kept in
// Suppressed. The order of Suppressed follows completion order and is
// therefore not deterministic.
type GroupError struct {
	First      error
	Suppressed []error
}

func (e *GroupError) Error() string {
	if len(e.Suppressed) == 0 {
		return e.First.Error()
	}

	var sb strings.Builder
	sb.WriteString(e.First.Error())
	fmt.Fprintf(&sb, " (and %d more:", len(e.Suppressed))
	for _, err := range e.Suppressed {
		sb.WriteString(" ")
		sb.WriteString(err.Error())
		sb.WriteString(";")
	}
	sb.WriteString(")")
	return sb.String()
}

// Unwrap exposes every recorded failure, first one included, to errors.Is and errors.As.
func (e *GroupError) Unwrap() []error {
	return e.Errors()
}

// Errors returns all recorded failures, the first one leading.
func (e *GroupError) Errors() []error {
	all := make([]error, 0, 1+len(e.Suppressed))
	all = append(all, e.First)
	return append(all, e.Suppressed...)
}

// newGroupError returns nil for an empty slice.
func newGroupError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &GroupError{
		First:      errs[0],
		Suppressed: append([]error(nil), errs[1:]...),
	}
}
