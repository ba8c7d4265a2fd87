package shared

import (
	"bytes"
	"encoding/json"

	"gorm.io/datatypes"
)

// Shape is the outer container kind of a JSON document.
type Shape int

const (
	ShapeAbsent Shape = iota
	ShapeNull
	ShapeObject
	ShapeArray
	ShapeScalar
)

func (s Shape) String() string {
	switch s {
	case ShapeNull:
		return "null"
	case ShapeObject:
		return "object"
	case ShapeArray:
		return "array"
	case ShapeScalar:
		return "scalar"
	}
	return "absent"
}

// ShapeOf classifies raw without decoding it.
func ShapeOf(raw []byte) Shape {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ShapeAbsent
	}
	switch trimmed[0] {
	case '{':
		return ShapeObject
	case '[':
		return ShapeArray
	case 'n':
		if bytes.Equal(trimmed, []byte("null")) {
			return ShapeNull
		}
	}
	return ShapeScalar
}

// JSONValue is a decoded configuration document. Exactly one of Object
// and Array is set, according to Shape.
type JSONValue struct {
	Shape  Shape
	Object map[string]any
	Array  []any
}

// ParseJSON decodes raw into its tagged variant.
func ParseJSON(raw []byte) (JSONValue, error) {
	v := JSONValue{Shape: ShapeOf(raw)}
	switch v.Shape {
	case ShapeObject:
		if err := json.Unmarshal(raw, &v.Object); err != nil {
			return JSONValue{}, err
		}
	case ShapeArray:
		if err := json.Unmarshal(raw, &v.Array); err != nil {
			return JSONValue{}, err
		}
	}
	return v, nil
}

// Empty reports whether the document carries no data.
func (v JSONValue) Empty() bool {
	switch v.Shape {
	case ShapeObject:
		return len(v.Object) == 0
	case ShapeArray:
		return len(v.Array) == 0
	case ShapeScalar:
		return false
	}
	return true
}

// HasKey reports whether the object has a non-empty value under key.
func (v JSONValue) HasKey(key string) bool {
	if v.Shape != ShapeObject {
		return false
	}
	val, ok := v.Object[key]
	if !ok || val == nil {
		return false
	}
	if s, isString := val.(string); isString {
		return s != ""
	}
	return true
}

// EmptyObject returns a fresh "{}" document.
func EmptyObject() datatypes.JSON {
	return datatypes.JSON("{}")
}

// EmptyArray returns a fresh "[]" document.
func EmptyArray() datatypes.JSON {
	return datatypes.JSON("[]")
}

// MustJSON marshals v, panicking on failure. Intended for literals.
func MustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return datatypes.JSON(b)
}
