package kvstore

import "errors"

var (
	// ErrQuotaExceeded indicates the medium refused a write because it would
	// exceed its capacity.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrClosed indicates the medium was used after Close.
	ErrClosed = errors.New("storage closed")
)
