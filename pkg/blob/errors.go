package blob

import "fmt"

// NotFoundError is returned when a blob or directory does not exist.
type NotFoundError struct {
	Path string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

// ConflictError is returned when a conditional write loses its precondition
// or a destination name is already taken.
type ConflictError struct {
	Path string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s", e.Path)
}

// InvalidPathError is returned for malformed blob paths.
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// UpstreamError wraps a provider failure that is neither a missing blob nor
// a failed precondition.
type UpstreamError struct {
	Op   string
	Path string
	Err  error
}

func (e UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e UpstreamError) Unwrap() error {
	return e.Err
}
