// Package apperr defines the error kinds surfaced by the recruiting desk.
//
// Every failure is local and recoverable. The kind decides how the UI reacts:
// NotFound and BackendFailure become a dismissible status toast, ResolutionFailure
// degrades rendering and is only logged, ValidationFailure is shown next to the
// form and blocks submission.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies an error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindBackend
	KindResolution
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindBackend:
		return "backend failure"
	case KindResolution:
		return "resolution failure"
	case KindValidation:
		return "validation failure"
	default:
		return "unknown"
	}
}

// Error carries a kind, the operation that failed and the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
	// Fields maps a form field to the reason it was rejected (validation only).
	Fields map[string]string
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.String())
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+" "+e.Fields[k])
		}
		sb.WriteString(" (")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports a record id that is not part of the current dataset.
func NotFound(op, id string) error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf("record %q", id)}
}

// Backend wraps a query or update failure of the record store.
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindBackend, Op: op, Err: err}
}

// Resolution wraps a failed field-set or identity lookup.
func Resolution(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindResolution, Op: op, Err: err}
}

// Validation reports rejected form fields. It returns nil when fields is empty.
func Validation(op string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Op: op, Fields: fields}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FieldErrors returns the rejected fields of a validation error, or nil.
func FieldErrors(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindValidation {
		return e.Fields
	}
	return nil
}
