package lang

import (
	"log/slog"
	"maps"
	"math"
	"strconv"
	"strings"
)

// ValueType identifies the variant held by a [Value].
type ValueType int

const (
	ValueNone ValueType = iota
	ValueNumber
	ValueBool
	ValueObject
)

// String returns a string representation of the value type.
func (t ValueType) String() string {
	switch t {
	case ValueNone:
		return "None"

	case ValueNumber:
		return "Number"

	case ValueBool:
		return "Bool"

	case ValueObject:
		return "Object"

	default:
		return "Unknown"
	}
}

// Value is a runtime value. The zero value is None.
//
// Values have copy semantics: the environment stores and returns clones, so
// two variables never share an object.
type Value struct {
	typ ValueType
	num float64
	b   bool
	obj map[string]Value
}

// NoneValue returns the None value.
func NoneValue() Value { return Value{} }

// NumberValue returns a Number value.
func NumberValue(f float64) Value { return Value{typ: ValueNumber, num: f} }

// BoolValue returns a Bool value.
func BoolValue(b bool) Value { return Value{typ: ValueBool, b: b} }

// ObjectValue returns an Object value holding a deep copy of fields.
func ObjectValue(fields map[string]Value) Value {
	return Value{typ: ValueObject, obj: cloneFields(fields)}
}

// Type returns the variant held by v.
func (v Value) Type() ValueType { return v.typ }

// Number returns the float held by v and whether v is a Number.
func (v Value) Number() (float64, bool) { return v.num, v.typ == ValueNumber }

// Bool returns the boolean held by v and whether v is a Bool.
func (v Value) Bool() (bool, bool) { return v.b, v.typ == ValueBool }

// Object returns a copy of the fields held by v and whether v is an Object.
func (v Value) Object() (map[string]Value, bool) {
	if v.typ != ValueObject {
		return nil, false
	}

	return cloneFields(v.obj), true
}

// Float coerces v to a number: None is 0 and a Number is itself.
// Bool and Object values cannot be coerced.
func (v Value) Float() (float64, error) {
	switch v.typ {
	case ValueNone:
		return 0, nil

	case ValueNumber:
		return v.num, nil

	case ValueBool:
		return 0, ErrTypeMismatch.
			Wrapf("cannot use boolean %t as a number", v.b)

	default:
		return 0, ErrTypeMismatch.
			Wrapf("cannot use %s as a number", v.typ)
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if v.typ == ValueObject {
		v.obj = cloneFields(v.obj)
	}

	return v
}

// Equal reports whether v and o hold the same variant and contents.
// NaN numbers are equal to each other.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}

	switch v.typ {
	case ValueNumber:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))

	case ValueBool:
		return v.b == o.b

	case ValueObject:
		return maps.EqualFunc(v.obj, o.obj, Value.Equal)

	default:
		return true
	}
}

// String returns v in source form. None is rendered as "none".
func (v Value) String() string {
	switch v.typ {
	case ValueNumber:
		return formatNumber(v.num)

	case ValueBool:
		return strconv.FormatBool(v.b)

	case ValueObject:
		keys := sortedKeys(v.obj)
		if len(keys) == 0 {
			return "{}"
		}

		part := make([]string, len(keys))
		for i, key := range keys {
			part[i] = key + ": " + v.obj[key].String()
		}

		return "{ " + strings.Join(part, ", ") + " }"

	default:
		return "none"
	}
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", v.typ.String()),
		slog.String("value", v.String()),
	)
}

// Native converts v to a plain Go value: nil, float64, bool, or
// map[string]any.
func (v Value) Native() any {
	switch v.typ {
	case ValueNumber:
		return v.num

	case ValueBool:
		return v.b

	case ValueObject:
		m := make(map[string]any, len(v.obj))
		for key, field := range v.obj {
			m[key] = field.Native()
		}

		return m

	default:
		return nil
	}
}

func cloneFields(fields map[string]Value) map[string]Value {
	if fields == nil {
		return map[string]Value{}
	}

	out := make(map[string]Value, len(fields))
	for key, field := range fields {
		out[key] = field.Clone()
	}

	return out
}
