// Package schema turns loosely structured JSON payloads into validated records.
//
// # Envelopes
//
// The remote API nests payloads under wrapper keys ("result", "results", "track") inconsistently across endpoints.
// An [Envelope] names the key holding a single object (One) and the key holding a collection (Many).
// Unset keys pass the payload through unchanged; a set key missing from the payload is a format error.
//
// # Schemas
//
// A [Schema] declares, once per entity, an ordered list of [Field] rules: required, default, nullable,
// target [Kind], enumeration members and nested schemas with their own envelopes.
// [Schema.Decode] applies the rules in declaration order so the first failing field is reported deterministically.
// Unknown keys are ignored.
//
// # Decoders
//
// [Decoder] pairs a schema with an infallible build function producing a typed entity from a validated [Record].
// All failures surface as [shared.FormatError] naming the entity, the field path and the envelope key.
package schema
