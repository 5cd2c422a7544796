package client

import "errors"

var (
	// ErrUnavailable means the backend could not be reached; the call may
	// succeed later without any change on our side.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("record not found on server")
)
