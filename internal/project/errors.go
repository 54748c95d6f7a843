package project

import "fmt"

// SchemaError reports a structural or range violation in a project,
// naming the first offending path. No mutation is applied when it is
// returned.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Reason)
}

// InvariantError reports an operation that would break a model
// invariant, e.g. deleting the last slide.
type InvariantError struct {
	Op     string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func schemaErr(path, format string, args ...any) *SchemaError {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
