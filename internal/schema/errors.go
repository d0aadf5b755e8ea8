package schema

import "fmt"

// SchemaError is returned when a required destination column cannot be
// located after renaming, meaning the source export lacked it entirely.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required destination column %q not found in source after renaming", e.Column)
}
