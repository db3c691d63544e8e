package state

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Kind enumerates the shapes a Value can take.
type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
	KindBool
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is a variable value: a string, a number, a boolean or a structured
// object (map, slice, struct). The zero Value is invalid.
type Value struct {
	kind   Kind
	str    string
	num    float64
	flag   bool
	object interface{}
}

// String creates a string value
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number creates a numeric value
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool creates a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Object creates a structured value
func Object(o interface{}) Value { return Value{kind: KindObject, object: o} }

// ValueOf wraps an arbitrary Go value, normalising every numeric type to float64.
func ValueOf(v interface{}) Value {
	switch actual := v.(type) {
	case Value:
		return actual
	case string:
		return String(actual)
	case bool:
		return Bool(actual)
	case float64:
		return Number(actual)
	case float32:
		return Number(float64(actual))
	case int:
		return Number(float64(actual))
	case int8:
		return Number(float64(actual))
	case int16:
		return Number(float64(actual))
	case int32:
		return Number(float64(actual))
	case int64:
		return Number(float64(actual))
	case uint:
		return Number(float64(actual))
	case uint8:
		return Number(float64(actual))
	case uint16:
		return Number(float64(actual))
	case uint32:
		return Number(float64(actual))
	case uint64:
		return Number(float64(actual))
	case json.Number:
		if f, err := actual.Float64(); err == nil {
			return Number(f)
		}
		return String(actual.String())
	}
	return Object(v)
}

// Kind returns value kind
func (v Value) Kind() Kind { return v.kind }

// IsValid returns true for values created by a constructor
func (v Value) IsValid() bool { return v.kind != 0 }

// Interface returns the underlying Go value
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.flag
	case KindObject:
		return v.object
	}
	return nil
}

// Float returns the numeric payload; ok is false for non-number values.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Bool returns the boolean payload; ok is false for non-bool values.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.flag, true
}

// String renders the value for template substitution. Lists are joined with
// ", ", maps and structs are rendered as JSON.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindObject:
		return stringify(v.object)
	}
	return ""
}

func stringify(o interface{}) string {
	if o == nil {
		return ""
	}
	rValue := reflect.ValueOf(o)
	if rValue.Kind() == reflect.Slice || rValue.Kind() == reflect.Array {
		items := make([]string, 0, rValue.Len())
		for i := 0; i < rValue.Len(); i++ {
			items = append(items, ValueOf(rValue.Index(i).Interface()).String())
		}
		return strings.Join(items, ", ")
	}
	if data, err := json.Marshal(o); err == nil {
		return string(data)
	}
	return fmt.Sprintf("%v", o)
}
