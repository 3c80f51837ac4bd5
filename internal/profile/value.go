// Package profile implements the core of the schema profiler: key
// path counting, per-path reservoir sampling, and the document walk
// that feeds both from parsed JSON documents.
package profile

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// Kind identifies the scalar kind of a sampled value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a closed tagged variant over the scalar JSON kinds. Only
// the field matching Kind is meaningful. The struct is comparable, so
// it can key the unique-example sets directly.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
	Bool  bool
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IntValue wraps an integer.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// FloatValue wraps a float.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// FromJSON converts a decoded JSON scalar into a Value. It accepts
// the types produced by encoding/json with UseNumber as well as the
// native Go numbers a jq filter emits. Containers (and any other
// type) report ok=false.
func FromJSON(v any) (Value, bool) {
	switch x := v.(type) {
	case nil:
		return Null(), true
	case bool:
		return BoolValue(x), true
	case string:
		return StringValue(x), true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return IntValue(i), true
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, false
		}
		return FloatValue(f), true
	case int:
		return IntValue(int64(x)), true
	case int64:
		return IntValue(x), true
	case float64:
		return FloatValue(x), true
	case *big.Int:
		if x.IsInt64() {
			return IntValue(x.Int64()), true
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return FloatValue(f), true
	default:
		return Value{}, false
	}
}

// MarshalJSON emits the native JSON form of the value.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return strconv.AppendBool(nil, v.Bool), nil
	case KindInt:
		return strconv.AppendInt(nil, v.Int, 10), nil
	case KindFloat:
		return json.Marshal(v.Float)
	case KindString:
		return json.Marshal(v.Str)
	default:
		return nil, fmt.Errorf("cannot marshal value of kind %d", v.Kind)
	}
}

// Display renders the value for terminal output.
func (v Value) Display() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.Str)
	default:
		return "?"
	}
}
