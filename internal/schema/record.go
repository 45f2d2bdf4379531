package schema

import "time"

// Record holds the decoded values of one entity payload keyed by [Field] name.
//
// Accessors return zero values for absent fields; a validated record always carries every declared field.
type Record map[string]any

// Has reports whether the field decoded to a non-nil value.
func (r Record) Has(name string) bool {
	return r[name] != nil
}

func (r Record) String(name string) string {
	s, _ := r[name].(string)
	return s
}

func (r Record) Int(name string) int64 {
	n, _ := r[name].(int64)
	return n
}

// OptInt returns nil when the field was absent or null.
func (r Record) OptInt(name string) *int64 {
	if n, ok := r[name].(int64); ok {
		return &n
	}
	return nil
}

func (r Record) Bool(name string) bool {
	b, _ := r[name].(bool)
	return b
}

// OptBool returns nil when the field was absent or null.
func (r Record) OptBool(name string) *bool {
	if b, ok := r[name].(bool); ok {
		return &b
	}
	return nil
}

// OptTime returns nil when the field was absent or null.
func (r Record) OptTime(name string) *time.Time {
	if t, ok := r[name].(time.Time); ok {
		return &t
	}
	return nil
}

func (r Record) Time(name string) time.Time {
	t, _ := r[name].(time.Time)
	return t
}

func (r Record) Record(name string) Record {
	rec, _ := r[name].(Record)
	return rec
}

func (r Record) Records(name string) []Record {
	recs, _ := r[name].([]Record)
	return recs
}

func (r Record) Strings(name string) []string {
	ss, _ := r[name].([]string)
	return ss
}

func (r Record) Map(name string) map[string]any {
	m, _ := r[name].(map[string]any)
	return m
}

func (r Record) List(name string) []any {
	l, _ := r[name].([]any)
	return l
}
