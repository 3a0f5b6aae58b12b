package client

import "errors"

// Sentinel errors shared across the transfer surface. Call sites add context
// with fmt.Errorf("...: %w", err) so callers can still match with errors.Is.
var (
	// ErrUnsupportedProtocol indicates a connection string names a scheme
	// outside the supported set.
	ErrUnsupportedProtocol = errors.New("unsupported protocol")

	// ErrNotConnected indicates a data operation was attempted with no
	// active handler.
	ErrNotConnected = errors.New("not connected")

	// ErrInvalidConfig indicates a required configuration field is missing.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidArgument indicates a required operation argument is missing
	// or malformed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotSupported indicates the active handler cannot perform the
	// operation (the web handler is read-only).
	ErrNotSupported = errors.New("operation not supported")
)
