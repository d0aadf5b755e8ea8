package store

import "fmt"

// ProvisionError is returned when a DDL statement against the destination
// fails. It is fatal to the run.
type ProvisionError struct {
	Step string // which DDL statement failed
	Err  error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provision destination (%s): %v", e.Step, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// LoadError is returned when the bulk insert fails. The transaction is
// rolled back and the run aborts; there is no partial-success mode.
type LoadError struct {
	RowsAttempted int
	Err           error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("bulk load of %d rows failed: %v", e.RowsAttempted, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
