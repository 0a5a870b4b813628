package emfs

import "errors"

// FsError is the domain error returned by all path engine operations.
//
// These are business logic errors (path not found, destination occupied,
// etc.) as opposed to infrastructure errors (staging I/O failures in the
// executor), and carry the offending path so callers can report it without
// re-deriving context.
type FsError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Path is the filesystem path related to the error (if applicable)
	Path string
}

// Error implements the error interface.
func (e *FsError) Error() string {
	if e.Path != "" {
		return e.Message + ": " + e.Path
	}
	return e.Message
}

// ErrorCode represents the category of a filesystem error.
type ErrorCode int

const (
	// ErrUnknown is the zero value; no operation returns it directly
	ErrUnknown ErrorCode = iota

	// ErrInvalidPath indicates a path that cannot address any node:
	// empty, relative, root where a child is required, or a trailing
	// slash where a final name is required
	ErrInvalidPath

	// ErrNotFound indicates the path does not resolve to an existing node
	ErrNotFound

	// ErrNotDirectory indicates an operation expected a directory but a
	// file occupies the path (or an intermediate component)
	ErrNotDirectory

	// ErrNotFile indicates an operation expected a file but got a directory
	ErrNotFile

	// ErrIsDirectory indicates a write-style operation targeted a directory
	ErrIsDirectory

	// ErrAlreadyExists indicates the destination name is already taken
	ErrAlreadyExists

	// ErrDirNotEmpty indicates a non-recursive remove of a non-empty
	// directory
	ErrDirNotEmpty

	// ErrCyclicMove indicates an attempt to move a directory into itself
	// or one of its own descendants
	ErrCyclicMove

	// ErrTooLarge indicates a write or append would exceed the configured
	// per-file size limit
	ErrTooLarge

	// ErrExecFailed indicates the executor could not stage or launch the
	// file. A process that ran and exited non-zero is not an error
	ErrExecFailed
)

// NewError builds an FsError for the given code, message and path.
func NewError(code ErrorCode, msg, path string) *FsError {
	return &FsError{Code: code, Message: msg, Path: path}
}

// CodeOf extracts the ErrorCode from err. Returns ErrUnknown for nil or
// non-FsError values.
func CodeOf(err error) ErrorCode {
	var fsErr *FsError
	if errors.As(err, &fsErr) {
		return fsErr.Code
	}
	return ErrUnknown
}
