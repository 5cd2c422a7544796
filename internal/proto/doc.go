// Package proto describes the fintrack ledger gRPC service.
//
// The service is declared by hand instead of through generated stubs: every
// request and response travels as a google.protobuf.Struct, and the Go
// envelopes in this package are converted to and from it with Pack and
// Unpack. Records and patches stay opaque JSON objects on the wire so the
// backend does not need a schema per entity kind.
package proto
