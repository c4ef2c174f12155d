package domain

import "errors"

var (
	// ErrMalformedStore marks a backing file that exists but cannot be read
	// as a list of entries. Stores treat it as empty and never surface it
	ErrMalformedStore = errors.New("malformed store")

	// ErrIndexOutOfRange is returned by index deletes outside [0, len)
	ErrIndexOutOfRange = errors.New("invalid index")

	// ErrInvalidInput marks a request the caller must fix
	ErrInvalidInput = errors.New("invalid input")
)
