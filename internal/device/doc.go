// Package device defines the contract between the runtime core and the
// vendor headset service.
//
// The runtime never talks to vendor hardware directly; it consumes the
// Service and Session interfaces here. Implementations live in subpackages:
// devicesim provides an in-process simulated headset, devicerpc bridges the
// contract over gRPC to a device daemon.
//
// # Error Types
//
//   - ErrUnavailable: the vendor service is not running or unreachable.
//     Callers treat this as "no headset", not as a hard failure.
package device
