// Package client is the device side of the fintrack ledger API.
//
// # Overview
//
// Client is the transport-agnostic contract the sync engine and the
// connectivity watcher talk to: Ping, Login, and Create/Update/Delete/List/
// BulkCreate per entity kind. GRPCClient implements it over the hand-written
// ledger service in internal/proto. It
//  1. signs the device in and keeps the access token,
//  2. injects the token into every call through a unary interceptor,
//  3. signs in again and retries once when the backend rejects the token,
//  4. maps gRPC status codes to sentinel errors.
//
// # Error Handling
//
// ErrUnavailable means the backend could not be reached and the call may be
// retried later unchanged. ErrUnauthorized and ErrNotFound mirror the
// corresponding status codes. Everything else is wrapped as an rpc error.
//
// GRPCClient is safe for concurrent use.
package client
