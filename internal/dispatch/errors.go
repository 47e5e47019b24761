package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotSealed indicates Dispatch was called before registration
	// completed. Seal the dispatcher once all handlers are registered.
	ErrNotSealed = errors.New("dispatcher is not sealed")
	// ErrSealed indicates a registration was attempted after Seal.
	ErrSealed = errors.New("dispatcher is sealed")
	// ErrUnknownMessage indicates the dispatched value implements none of
	// the message interfaces.
	ErrUnknownMessage = errors.New("message implements no dispatchable kind")
)

// ConflictError reports a second handler registered for a command or query
// name. It indicates invalid wiring and is surfaced at registration time.
type ConflictError struct {
	Kind Kind
	Name string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already has a registered handler", e.Kind, e.Name)
}

// Is reports whether target is a ConflictError.
func (e *ConflictError) Is(target error) bool {
	_, ok := target.(*ConflictError)
	return ok
}

// NoHandlerError reports a command or query dispatched with no registered
// handler. It indicates a configuration defect, not a bad runtime input.
type NoHandlerError struct {
	Kind Kind
	Name string
}

// Error implements the error interface.
func (e *NoHandlerError) Error() string {
	return fmt.Sprintf("no handler registered for %s %q", e.Kind, e.Name)
}

// Is reports whether target is a NoHandlerError.
func (e *NoHandlerError) Is(target error) bool {
	_, ok := target.(*NoHandlerError)
	return ok
}

// NotificationError collects every handler failure from one notification
// fan-out. It is returned only after all handlers have run.
type NotificationError struct {
	// Name is the notification name that was dispatched.
	Name string
	// Handlers is the number of handlers that ran.
	Handlers int
	// Failures holds one error per failed handler.
	Failures []error
}

// Error implements the error interface.
func (e *NotificationError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, err := range e.Failures {
		parts = append(parts, err.Error())
	}
	return fmt.Sprintf("notification %q: %d of %d handlers failed: %s",
		e.Name, len(e.Failures), e.Handlers, strings.Join(parts, "; "))
}

// Unwrap exposes the collected failures for errors.Is and errors.As.
func (e *NotificationError) Unwrap() []error {
	return e.Failures
}

// Partial reports whether at least one handler succeeded.
func (e *NotificationError) Partial() bool {
	return len(e.Failures) < e.Handlers
}
