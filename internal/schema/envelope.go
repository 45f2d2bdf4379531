package schema

import (
	"github.com/desertthunder/yamusic/internal/shared"
)

// Envelope names the wrapper keys a payload is nested under.
//
// One applies to a single object (and to every element of a list); Many applies to the value holding a list.
type Envelope struct {
	One  string
	Many string
}

// Key returns the wrapper key used for singular or collection decoding.
func (e Envelope) Key(many bool) string {
	if many {
		return e.Many
	}
	return e.One
}

// Unwrap extracts the value nested under the singular or collection key.
//
// A payload passes through unchanged when the key is unset.
func (e Envelope) Unwrap(payload any, many bool) (any, error) {
	key := e.Key(many)
	if key == "" {
		return payload, nil
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, &shared.FormatError{Envelope: key, Reason: "expected object, got " + describe(payload)}
	}

	value, ok := obj[key]
	if !ok {
		return nil, &shared.FormatError{Envelope: key, Reason: "required field missing"}
	}

	return value, nil
}
