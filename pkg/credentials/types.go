package credentials

import "fmt"

// Credentials represents the stored tokens in credentials.toml:
//
//	version = 0
//
//	[credentials.twitter]
//	access_token = "..."
//
// Entries are kept as loose TOML tables so a hand-edited file with a
// non-string value is reported instead of silently ignored.
type Credentials struct {
	Version int                       `toml:"version"`
	Entries map[string]map[string]any `toml:"credentials"`
}

// TypeMismatchError is returned when a stored credential is not a string.
type TypeMismatchError struct {
	Integration string
	Got         any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected string from credential store for %q, got %T", e.Integration, e.Got)
}
