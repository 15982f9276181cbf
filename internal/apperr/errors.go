// Package apperr declares the error kinds shared across imgname packages.
// Callers wrap them with context and classify with errors.Is.
package apperr

import "errors"

var (
	ErrNoCaptureDate   = errors.New("no capture date")
	ErrUnreadableDate  = errors.New("unreadable date")
	ErrPatternMismatch = errors.New("filename does not match date pattern")
	ErrOutOfRange      = errors.New("timestamp out of encodable range")
	ErrDirectoryRead   = errors.New("directory read failed")
	ErrRenameFailed    = errors.New("rename failed")

	// ErrInvariantViolation means a move would have replaced a different file.
	// It is never recovered per file: the batch stops.
	ErrInvariantViolation = errors.New("invariant violation: destination exists")

	ErrAllFailed = errors.New("every file failed")
)
