// Package result defines the uniform shape every tool call returns: either a
// success payload or a mapping holding a single "error" key.
package result

import (
	"encoding/json"
	"fmt"
)

const (
	// ErrorKey is the sole success/failure discriminator of a Result.
	ErrorKey = "error"

	// HelpKey carries remediation text for configuration errors.
	HelpKey = "help"

	// DetailKey carries the reason a configured credential could not be used.
	DetailKey = "detail"
)

// Result is the uniform tool response. Callers must check IsError before
// reading any other key.
type Result map[string]any

// Error returns a failure Result with the given message.
func Error(msg string) Result {
	return Result{ErrorKey: msg}
}

// Errorf returns a failure Result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Error(fmt.Sprintf(format, args...))
}

// Success is the generic marker for 2xx responses without a body.
func Success() Result {
	return Result{"success": true}
}

// NotConfigured is returned when no credential could be resolved for an
// integration. detail is optional.
func NotConfigured(display, help, detail string) Result {
	r := Result{
		ErrorKey: display + " credentials not configured",
		HelpKey:  help,
	}
	if detail != "" {
		r[DetailKey] = detail
	}
	return r
}

// IsError reports whether the result carries an error key.
func (r Result) IsError() bool {
	_, ok := r[ErrorKey]
	return ok
}

// Err returns the error message and true when r is a failure.
func (r Result) Err() (string, bool) {
	v, ok := r[ErrorKey]
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Map returns the nested object stored under key, or an empty map.
func (r Result) Map(key string) map[string]any {
	if m, ok := r[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// FromJSON decodes a JSON object body into a Result.
func FromJSON(data []byte) (Result, error) {
	r := Result{}
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}
	return r, nil
}

// FromValue converts any JSON-serializable value (typically a typed API
// response) into a Result.
func FromValue(v any) (Result, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	return FromJSON(data)
}
