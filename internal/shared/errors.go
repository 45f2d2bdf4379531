package shared

import (
	"fmt"
	"strings"
)

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("authentication required")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrResponseFormat     = fmt.Errorf("response format error")
	ErrNotFound           = fmt.Errorf("not found")
	ErrStaleRevision      = fmt.Errorf("playlist revision is stale")
	ErrTrackNotLoaded     = fmt.Errorf("track detail not loaded")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)

// FormatError reports a response payload that could not be decoded into an entity.
//
// Entity is the innermost entity being decoded, Path locates the failing value from the root of the payload
// (e.g. "tracks[3].albums[0].id"), and Envelope is set when unwrapping a wrapper key failed.
type FormatError struct {
	Entity   string
	Path     string
	Envelope string
	Reason   string
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString(ErrResponseFormat.Error())
	b.WriteString(": ")
	if e.Entity != "" {
		b.WriteString(e.Entity)
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Envelope != "" {
		fmt.Fprintf(&b, " (envelope %q)", e.Envelope)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *FormatError) Unwrap() error { return ErrResponseFormat }

// Nest returns a copy of e located under parent, used when a nested entity fails.
func (e *FormatError) Nest(parent string) *FormatError {
	nested := *e
	switch {
	case parent == "":
	case nested.Path == "":
		nested.Path = parent
	case strings.HasPrefix(nested.Path, "["):
		nested.Path = parent + nested.Path
	default:
		nested.Path = parent + "." + nested.Path
	}
	return &nested
}
