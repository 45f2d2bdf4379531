package schema

// Kind is the semantic type a field value is coerced to.
type Kind int

const (
	String Kind = iota // string; JSON numbers are accepted and kept verbatim
	Int                // int64; numeric strings are accepted
	Bool               // bool
	Time               // time.Time from an RFC 3339 string
	Enum               // canonical member name, matched case-insensitively
	Object             // nested [Record] decoded with Field.Schema
	List               // []Record with Field.Schema, otherwise a slice of Field.Elem
	Map                // any JSON object, kept as map[string]any
	Raw                // any JSON value, untouched
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "integer"
	case Bool:
		return "boolean"
	case Time:
		return "timestamp"
	case Enum:
		return "enumeration"
	case Object:
		return "object"
	case List:
		return "list"
	case Map:
		return "object"
	case Raw:
		return "any"
	default:
		return "unknown"
	}
}

// Field declares how one payload key is decoded.
type Field struct {
	Name     string   // payload key, also the [Record] key
	Aliases  []string // alternative payload keys tried in order when Name is absent
	Kind     Kind
	Elem     Kind // element kind of a List without Schema
	Required bool // absent values fail
	Nullable bool // null values map to Default instead of failing
	Default  any  // stored when the value is absent (or null and Nullable)
	Members  []string
	Schema   *Schema  // nested entity of an Object or List
	Envelope Envelope // wrappers around the nested value (Many) and each nested object (One)
	MinItems int      // minimum List length
}

func (f Field) lookup(obj map[string]any) (string, any, bool) {
	if v, ok := obj[f.Name]; ok {
		return f.Name, v, true
	}
	for _, alias := range f.Aliases {
		if v, ok := obj[alias]; ok {
			return alias, v, true
		}
	}
	return f.Name, nil, false
}
