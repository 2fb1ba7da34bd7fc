package storage

import "fmt"

// Error is returned by container operations with the container and blob involved.
type Error struct {
	Op        string
	Container string
	Name      string
	Err       error
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("storage.%s %s/%s: %v", e.Op, e.Container, e.Name, e.Err)
	}
	return fmt.Sprintf("storage.%s %s: %v", e.Op, e.Container, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, container, name string, err error) *Error {
	return &Error{Op: op, Container: container, Name: name, Err: err}
}
