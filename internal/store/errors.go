package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSessionFinished is returned when a quiz session that has
	// already finished is finished or answered again.
	ErrSessionFinished = errors.New("quiz session already finished")

	// ErrThreadClosed is returned when a closed doubt thread is
	// claimed.
	ErrThreadClosed = errors.New("doubt thread is closed")
)

// StorageError wraps a driver failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageErr wraps err as a StorageError, passing nil through so
// accessors can return it unconditionally.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
