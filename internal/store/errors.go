package store

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned by Get for missing keys.
var ErrNotFound = errors.New("key not found")

// ConnectionError wraps failures to open or prepare the backing database
type ConnectionError struct {
	Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store connection failed: %v", e.Underlying)
}

func (e *ConnectionError) Unwrap() error { return e.Underlying }

// QueryError wraps failures of a single store operation
type QueryError struct {
	Op         string
	Key        string
	Underlying error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("store %s %q failed: %v", e.Op, e.Key, e.Underlying)
}

func (e *QueryError) Unwrap() error { return e.Underlying }

// WrapConnectionError creates a ConnectionError from underlying error
func WrapConnectionError(err error) error {
	if err == nil {
		return nil
	}
	return &ConnectionError{Underlying: err}
}

// WrapQueryError creates a QueryError from underlying error
func WrapQueryError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Op: op, Key: key, Underlying: err}
}
