package errors

import (
	stderrors "errors"

	"github.com/stonegrove/herald/internal/dispatch"
	"github.com/stonegrove/herald/internal/kernel"
)

// Classify maps an arbitrary error to its machine-readable code. Coded
// errors keep their own code; kernel and dispatch failure types map to the
// matching taxonomy entry; everything else is CodeUnknown.
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}

	var coded *Error
	if stderrors.As(err, &coded) {
		return coded.Code
	}
	if kernel.IsValidation(err) {
		return CodeValidation
	}

	var noHandler *dispatch.NoHandlerError
	if stderrors.As(err, &noHandler) {
		return CodeNoHandler
	}
	var conflict *dispatch.ConflictError
	if stderrors.As(err, &conflict) {
		return CodeRegistrationConflict
	}
	var fanout *dispatch.NotificationError
	if stderrors.As(err, &fanout) {
		return CodeNotificationFailed
	}
	if stderrors.Is(err, dispatch.ErrNotSealed) {
		return CodeDispatchNotSealed
	}

	return CodeUnknown
}

// StatusFromError converts any error into a gRPC status using Classify.
func StatusFromError(err error) error {
	if err == nil {
		return nil
	}
	var coded *Error
	if stderrors.As(err, &coded) {
		return coded.ToGRPCStatus()
	}
	return Wrap(Classify(err), err.Error(), err).ToGRPCStatus()
}
