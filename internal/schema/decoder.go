package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/desertthunder/yamusic/internal/shared"
)

// Decoder decodes payloads of one entity kind into typed values.
type Decoder[T any] struct {
	Schema *Schema
	Build  func(Record) T
}

// Decode unwraps the singular envelope and builds one entity.
func (d Decoder[T]) Decode(payload any, env Envelope) (T, error) {
	var zero T

	inner, err := env.Unwrap(payload, false)
	if err != nil {
		return zero, d.envelopeError(err, "")
	}

	rec, err := d.Schema.Decode(inner)
	if err != nil {
		return zero, err
	}
	return d.Build(rec), nil
}

// DecodeMany unwraps the collection envelope, then the singular envelope of every element, preserving order.
func (d Decoder[T]) DecodeMany(payload any, env Envelope) ([]T, error) {
	inner, err := env.Unwrap(payload, true)
	if err != nil {
		return nil, d.envelopeError(err, "")
	}

	items, ok := inner.([]any)
	if !ok {
		return nil, &shared.FormatError{Entity: d.Schema.Entity, Envelope: env.Many, Reason: "expected list, got " + describe(inner)}
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("[%d]", i)
		elem, err := env.Unwrap(item, false)
		if err != nil {
			return nil, d.envelopeError(err, path)
		}
		rec, err := d.Schema.Decode(elem)
		if err != nil {
			return nil, nest(err, path)
		}
		out = append(out, d.Build(rec))
	}
	return out, nil
}

// Unmarshal parses a JSON document and decodes one entity from it.
func (d Decoder[T]) Unmarshal(data []byte, env Envelope) (T, error) {
	payload, err := d.parse(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return d.Decode(payload, env)
}

// UnmarshalMany parses a JSON document and decodes a list of entities from it.
func (d Decoder[T]) UnmarshalMany(data []byte, env Envelope) ([]T, error) {
	payload, err := d.parse(data)
	if err != nil {
		return nil, err
	}
	return d.DecodeMany(payload, env)
}

func (d Decoder[T]) parse(data []byte) (any, error) {
	payload, err := Parse(data)
	if err != nil {
		var fe *shared.FormatError
		if errors.As(err, &fe) {
			fe.Entity = d.Schema.Entity
		}
		return nil, err
	}
	return payload, nil
}

func (d Decoder[T]) envelopeError(err error, path string) error {
	var fe *shared.FormatError
	if !errors.As(err, &fe) {
		return err
	}
	out := *fe
	out.Entity = d.Schema.Entity
	out.Path = path
	return &out
}

// Parse decodes a JSON document into plain values, keeping numbers as [json.Number].
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, &shared.FormatError{Reason: "invalid JSON: " + err.Error()}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &shared.FormatError{Reason: "invalid JSON: trailing data after document"}
	}
	return payload, nil
}
