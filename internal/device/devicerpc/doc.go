// Package devicerpc carries the device contract between the runtime and a
// device daemon over gRPC.
//
// The wire format is JSON registered as a gRPC content-subtype; request and
// response types are plain json-tagged structs and the service descriptor
// is assembled by hand, so no generated bindings exist on either side.
// Client and server agree on the method names in wire.go.
package devicerpc
