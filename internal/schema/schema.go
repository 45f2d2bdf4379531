package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/yamusic/internal/shared"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Schema is the declarative decoding rule set of one entity.
type Schema struct {
	Entity string
	Fields []Field

	// Check validates cross-field rules after every field decoded.
	Check func(Record) error
}

// Decode validates a plain (already unwrapped) payload and returns its decoded fields.
func (s *Schema) Decode(payload any) (Record, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, s.fail("", "expected object, got "+describe(payload))
	}

	rec := make(Record, len(s.Fields))
	for _, f := range s.Fields {
		key, raw, found := f.lookup(obj)
		if !found {
			if f.Required {
				return nil, s.fail(key, "required field missing")
			}
			rec[f.Name] = cloneDefault(f.Default)
			continue
		}

		if raw == nil {
			if !f.Nullable {
				return nil, s.fail(key, "null value for non-nullable field")
			}
			rec[f.Name] = cloneDefault(f.Default)
			continue
		}

		value, err := s.decodeField(f, key, raw)
		if err != nil {
			return nil, err
		}
		rec[f.Name] = value
	}

	if s.Check != nil {
		if err := s.Check(rec); err != nil {
			var fe *shared.FormatError
			if errors.As(err, &fe) {
				return nil, fe
			}
			return nil, s.fail("", err.Error())
		}
	}

	return rec, nil
}

// cloneDefault copies map and slice defaults so decoded records never share them.
func cloneDefault(v any) any {
	switch d := v.(type) {
	case map[string]any:
		return maps.Clone(d)
	case []any:
		return slices.Clone(d)
	case []string:
		return slices.Clone(d)
	case []Record:
		return slices.Clone(d)
	default:
		return v
	}
}

func (s *Schema) fail(path, reason string) *shared.FormatError {
	return &shared.FormatError{Entity: s.Entity, Path: path, Reason: reason}
}

func (s *Schema) decodeField(f Field, key string, raw any) (any, error) {
	switch f.Kind {
	case Object:
		return s.decodeNested(f, key, raw)
	case List:
		return s.decodeList(f, key, raw)
	default:
		v, reason := coerce(f.Kind, f.Members, raw)
		if reason != "" {
			return nil, s.fail(key, reason)
		}
		return v, nil
	}
}

func (s *Schema) decodeNested(f Field, key string, raw any) (Record, error) {
	if f.Schema == nil {
		return nil, s.fail(key, "object field declared without schema")
	}

	inner, err := f.Envelope.Unwrap(raw, false)
	if err != nil {
		return nil, s.envelopeError(err, f.Schema.Entity, key)
	}

	rec, err := f.Schema.Decode(inner)
	if err != nil {
		return nil, nest(err, key)
	}
	return rec, nil
}

func (s *Schema) decodeList(f Field, key string, raw any) (any, error) {
	inner, err := f.Envelope.Unwrap(raw, true)
	if err != nil {
		entity := s.Entity
		if f.Schema != nil {
			entity = f.Schema.Entity
		}
		return nil, s.envelopeError(err, entity, key)
	}

	items, ok := inner.([]any)
	if !ok {
		return nil, s.fail(key, "expected list, got "+describe(inner))
	}
	if len(items) < f.MinItems {
		return nil, s.fail(key, fmt.Sprintf("expected at least %d item(s), got %d", f.MinItems, len(items)))
	}

	if f.Schema != nil {
		recs := make([]Record, 0, len(items))
		for i, item := range items {
			path := fmt.Sprintf("%s[%d]", key, i)
			elem, err := f.Envelope.Unwrap(item, false)
			if err != nil {
				return nil, s.envelopeError(err, f.Schema.Entity, path)
			}
			rec, err := f.Schema.Decode(elem)
			if err != nil {
				return nil, nest(err, path)
			}
			recs = append(recs, rec)
		}
		return recs, nil
	}

	switch f.Elem {
	case String:
		out := make([]string, 0, len(items))
		for i, item := range items {
			v, reason := coerce(String, nil, item)
			if reason != "" {
				return nil, s.fail(fmt.Sprintf("%s[%d]", key, i), reason)
			}
			out = append(out, v.(string))
		}
		return out, nil
	case Int:
		out := make([]int64, 0, len(items))
		for i, item := range items {
			v, reason := coerce(Int, nil, item)
			if reason != "" {
				return nil, s.fail(fmt.Sprintf("%s[%d]", key, i), reason)
			}
			out = append(out, v.(int64))
		}
		return out, nil
	default:
		out := make([]any, 0, len(items))
		for i, item := range items {
			v, reason := coerce(f.Elem, f.Members, item)
			if reason != "" {
				return nil, s.fail(fmt.Sprintf("%s[%d]", key, i), reason)
			}
			out = append(out, v)
		}
		return out, nil
	}
}

func (s *Schema) envelopeError(err error, entity, path string) error {
	var fe *shared.FormatError
	if !errors.As(err, &fe) {
		return err
	}
	out := *fe
	out.Entity = entity
	out.Path = path
	return &out
}

func nest(err error, parent string) error {
	var fe *shared.FormatError
	if errors.As(err, &fe) {
		return fe.Nest(parent)
	}
	return err
}

// coerce converts a non-null JSON value to the Go representation of kind, returning a reason on failure.
func coerce(kind Kind, members []string, raw any) (any, string) {
	switch kind {
	case String:
		switch v := raw.(type) {
		case string:
			return v, ""
		case json.Number:
			return v.String(), ""
		}
	case Int:
		if n, ok := toInt(raw); ok {
			return n, ""
		}
		return nil, "expected integer, got " + describe(raw)
	case Bool:
		if v, ok := raw.(bool); ok {
			return v, ""
		}
	case Time:
		if v, ok := raw.(string); ok {
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					return t, ""
				}
			}
			return nil, fmt.Sprintf("expected timestamp, got %q", v)
		}
	case Enum:
		if v, ok := raw.(string); ok {
			for _, m := range members {
				if strings.EqualFold(m, v) {
					return m, ""
				}
			}
			return nil, fmt.Sprintf("unknown value %q (want one of %s)", v, strings.Join(members, ", "))
		}
	case Map:
		if v, ok := raw.(map[string]any); ok {
			return v, ""
		}
	case Raw:
		return raw, ""
	default:
		return nil, "unsupported field kind " + kind.String()
	}
	return nil, "expected " + kind.String() + ", got " + describe(raw)
}

func toInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		if f, err := v.Float64(); err == nil {
			return floatToInt(f)
		}
	case float64:
		return floatToInt(v)
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func floatToInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(t)
	case json.Number:
		return "number " + t.String()
	case float64:
		return "number " + strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return "boolean " + strconv.FormatBool(t)
	case map[string]any:
		return "object"
	case []any:
		return "list"
	default:
		return fmt.Sprintf("%T", v)
	}
}
