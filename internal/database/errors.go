package database

import "fmt"

// ConnectError is returned when the destination database cannot be reached
// or authenticated to. It carries troubleshooting hints for the operator.
type ConnectError struct {
	Host     string
	Port     int
	Database string
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("cannot connect to %s:%d/%s: %v", e.Host, e.Port, e.Database, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// Hints returns generic troubleshooting guidance for connection failures.
func (e *ConnectError) Hints() []string {
	return []string{
		"Verify the database password is correct",
		fmt.Sprintf("Check that PostgreSQL is running and reachable on %s:%d", e.Host, e.Port),
		fmt.Sprintf("Verify the user exists and has access to database %q", e.Database),
	}
}
