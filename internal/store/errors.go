package store

import "errors"

// ErrNotFound is returned by Get when no row carries the requested id.
// Update and Delete never return it: matching zero rows is success there.
var ErrNotFound = errors.New("user not found")

// ErrBusy is returned by a call made while a List on the same Store is
// still yielding, such as one from inside the range loop body.
var ErrBusy = errors.New("store busy: a list is in progress")

// SchemaError reports a failure to create the users table.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string { return "ensure schema: " + e.Err.Error() }
func (e *SchemaError) Unwrap() error { return e.Err }

// StoreError reports a failed statement. Op names the record operation
// (create, list, get, update, delete, count).
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + " user: " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
