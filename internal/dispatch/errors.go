package dispatch

import (
	"errors"
	"fmt"
)

// Kind classifies a dispatch error so callers can branch without string
// matching.
type Kind string

const (
	KindValidation Kind = "validation"
	KindForbidden  Kind = "forbidden"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindBackend    Kind = "backend"
	KindConfig     Kind = "config"
)

// Error is the structured error returned by every dispatch path. Details
// carries machine-checkable context (field names, missing IDs, dependent
// counts) alongside the human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Kind, so sentinel comparisons like
// errors.Is(err, &Error{Kind: KindForbidden}) work.
func (e *Error) Is(target error) bool {
	var de *Error
	if errors.As(target, &de) {
		return e.Kind == de.Kind
	}
	return false
}

// Detail returns a copy of the error with one more detail attached.
func (e *Error) Detail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{Kind: e.Kind, Message: e.Message, Details: details, Cause: e.Cause}
}

// KindOf extracts the Kind from an error chain, or "" if the chain holds no
// dispatch error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Validation reports malformed input. Field-level details come from the
// schema validator.
func Validation(message string, details map[string]any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// Forbidden reports that the agent type lacks permission for the operation.
// The offending agent type and operation are surfaced verbatim.
func Forbidden(agentType, operation string) *Error {
	return &Error{
		Kind:    KindForbidden,
		Message: fmt.Sprintf("agent type %q is not permitted to invoke %q", agentType, operation),
		Details: map[string]any{"agent_type": agentType, "operation": operation},
	}
}

// NotFound reports a missing operation or referenced record.
func NotFound(what, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, id),
		Details: map[string]any{"kind": what, "id": id},
	}
}

// Conflict reports a state conflict the caller can resolve, such as deleting
// a container that still has dependents.
func Conflict(message string, details map[string]any) *Error {
	return &Error{Kind: KindConflict, Message: message, Details: details}
}

// Backend wraps a store-level failure. The store name lets the caller decide
// whether the failure is worth retrying.
func Backend(store string, cause error) *Error {
	return &Error{
		Kind:    KindBackend,
		Message: fmt.Sprintf("%s store error", store),
		Details: map[string]any{"store": store},
		Cause:   cause,
	}
}

// Config reports a deploy-time misconfiguration observed at request time.
func Config(message string) *Error {
	return &Error{Kind: KindConfig, Message: message}
}
