package record

import "fmt"

// Type enumerates the value kinds a Field can hold.
type Type int

const (
	TypeNull Type = iota
	TypeBool
	TypeNumber
	TypeString
	TypeList
	TypeMap
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeMap:
		return "map"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Field is one node of a record's value tree. Numbers are stored as float64,
// matching the session's wire representation, so a value that crosses the
// worker boundary comes back bit-identical.
type Field struct {
	Type  Type
	Value any // nil, bool, float64, string, []Field, or map[string]Field
}

func Null() Field                  { return Field{Type: TypeNull} }
func Bool(v bool) Field            { return Field{Type: TypeBool, Value: v} }
func Number(v float64) Field       { return Field{Type: TypeNumber, Value: v} }
func String(v string) Field        { return Field{Type: TypeString, Value: v} }
func List(v []Field) Field         { return Field{Type: TypeList, Value: v} }
func Map(v map[string]Field) Field { return Field{Type: TypeMap, Value: v} }

func (f Field) BoolValue() bool {
	v, _ := f.Value.(bool)
	return v
}

func (f Field) NumberValue() float64 {
	v, _ := f.Value.(float64)
	return v
}

func (f Field) StringValue() string {
	v, _ := f.Value.(string)
	return v
}

func (f Field) ListValue() []Field {
	v, _ := f.Value.([]Field)
	return v
}

func (f Field) MapValue() map[string]Field {
	v, _ := f.Value.(map[string]Field)
	return v
}

// At returns the named entry of a map field.
func (f Field) At(key string) (Field, bool) {
	m := f.MapValue()
	v, ok := m[key]
	return v, ok
}

// Clone deep-copies the field so the copy shares no containers with the
// original.
func (f Field) Clone() Field {
	switch f.Type {
	case TypeList:
		src := f.ListValue()
		if src == nil {
			return Field{Type: TypeList}
		}
		dst := make([]Field, len(src))
		for i, e := range src {
			dst[i] = e.Clone()
		}
		return List(dst)
	case TypeMap:
		src := f.MapValue()
		if src == nil {
			return Field{Type: TypeMap}
		}
		dst := make(map[string]Field, len(src))
		for k, e := range src {
			dst[k] = e.Clone()
		}
		return Map(dst)
	default:
		return f
	}
}

// Interface converts the field tree to plain Go values (nil, bool, float64,
// string, []any, map[string]any), the shape encoding/json expects.
func (f Field) Interface() any {
	switch f.Type {
	case TypeList:
		src := f.ListValue()
		out := make([]any, len(src))
		for i, e := range src {
			out[i] = e.Interface()
		}
		return out
	case TypeMap:
		src := f.MapValue()
		out := make(map[string]any, len(src))
		for k, e := range src {
			out[k] = e.Interface()
		}
		return out
	default:
		return f.Value
	}
}

// Equal reports deep value equality.
func (f Field) Equal(o Field) bool {
	if f.Type != o.Type {
		return false
	}
	switch f.Type {
	case TypeList:
		a, b := f.ListValue(), o.ListValue()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case TypeMap:
		a, b := f.MapValue(), o.MapValue()
		if len(a) != len(b) {
			return false
		}
		for k, v := range a {
			w, ok := b[k]
			if !ok || !v.Equal(w) {
				return false
			}
		}
		return true
	default:
		return f.Value == o.Value
	}
}
