package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformedEvent = errors.New("malformed event")

	errInvalidJSON  = errors.New("message is not valid json")
	errNotAnObject  = errors.New("message is not a json object")
	errMissingField = errors.New("field not found in payload or message")
)

// MalformedEventError reports a message of a known kind whose declared
// fields could not be extracted. It matches ErrMalformedEvent with errors.Is.
type MalformedEventError struct {
	Kind  Kind
	Field string
	Raw   json.RawMessage
	Err   error
}

func (e *MalformedEventError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed event %q: %v: %s", e.Kind, e.Err, e.Raw)
	}
	return fmt.Sprintf("malformed event %q: field %s: %v: %s", e.Kind, e.Field, e.Err, e.Raw)
}

func (e *MalformedEventError) Unwrap() error { return e.Err }

func (e *MalformedEventError) Is(target error) bool {
	return target == ErrMalformedEvent
}

// fieldError is returned by the typed getters; Decode turns it into a
// MalformedEventError.
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string { return e.field + ": " + e.err.Error() }

func (e *fieldError) Unwrap() error { return e.err }
