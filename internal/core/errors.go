package core

import "errors"

// Predefined errors returned by dmlkit statement operations.
var (
	// ErrFieldConflict is returned when an update targets a field that is not
	// a directly updatable column (many-to-many relations, reverse relations).
	ErrFieldConflict = errors.New("field cannot be updated: only non-relations and foreign keys permitted")
	// ErrJoinedExpression is returned when an update value expression reaches
	// across a join path; write-context resolution allows no joins.
	ErrJoinedExpression = errors.New("joined field references are not allowed in update expressions")
	// ErrNoInsertFields is returned when an insert statement is compiled
	// without a field list.
	ErrNoInsertFields = errors.New("insert statement has no fields")
	// ErrRowWidthMismatch is returned when a value row does not match the
	// statement's field list in length.
	ErrRowWidthMismatch = errors.New("value row does not match field list width")
	// ErrUnsupportedDialect is returned when an unsupported database dialect is specified.
	ErrUnsupportedDialect = errors.New("unsupported database dialect")
)

// WrapError wraps an error with additional context message.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
