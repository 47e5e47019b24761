// Package errors provides structured error handling with machine-readable codes.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Validation errors
	CodeValidation Code = "VALIDATION_FAILED"

	// Order errors
	CodeOrderInvalidStatusTransition Code = "ORDER_INVALID_STATUS_TRANSITION"
	CodeOrderStatusDisallowsOp       Code = "ORDER_STATUS_DISALLOWS_OPERATION"
	CodeOrderLineMissing             Code = "ORDER_LINE_MISSING"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"

	// Dispatch errors
	CodeNoHandler            Code = "NO_HANDLER"
	CodeRegistrationConflict Code = "REGISTRATION_CONFLICT"
	CodeDispatchNotSealed    Code = "DISPATCH_NOT_SEALED"
	CodeNotificationFailed   Code = "NOTIFICATION_HANDLER_FAILED"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeValidation:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeOrderInvalidStatusTransition,
		CodeOrderStatusDisallowsOp,
		CodeOrderLineMissing,
		CodeDispatchNotSealed:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeAlreadyExists:
		return codes.AlreadyExists

	// Unimplemented - a message shape with no registered handler
	case CodeNoHandler:
		return codes.Unimplemented

	default:
		return codes.Internal
	}
}
