// Package errors provides structured error handling for the runtime.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request validation errors
	CodeValidationFailure Code = "VALIDATION_FAILURE"
	CodeHandleInvalid     Code = "HANDLE_INVALID"
	CodeSystemInvalid     Code = "SYSTEM_INVALID"

	// Device availability errors
	CodeSystemUnavailable     Code = "SYSTEM_UNAVAILABLE"
	CodeFormFactorUnsupported Code = "FORM_FACTOR_UNSUPPORTED"
	CodeViewConfigUnsupported Code = "VIEW_CONFIG_UNSUPPORTED"

	// Capacity errors
	CodeSizeInsufficient Code = "SIZE_INSUFFICIENT"

	// Device service errors
	CodeDeviceServiceFatal Code = "DEVICE_SERVICE_FATAL"
	CodeDisplayInvalid     Code = "DISPLAY_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeValidationFailure:
		return codes.InvalidArgument

	// NotFound - handle or resource doesn't exist
	case CodeHandleInvalid,
		CodeSystemInvalid,
		CodeNotFound:
		return codes.NotFound

	// Unavailable - device present but not ready, retry later
	case CodeSystemUnavailable:
		return codes.Unavailable

	// FailedPrecondition - configuration the device cannot serve
	case CodeFormFactorUnsupported,
		CodeViewConfigUnsupported:
		return codes.FailedPrecondition

	// OutOfRange - caller-supplied capacity too small
	case CodeSizeInsufficient:
		return codes.OutOfRange

	default:
		return codes.Internal
	}
}
