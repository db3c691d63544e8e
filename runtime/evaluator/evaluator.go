// Package evaluator implements the comparison operators used by condition
// nodes. Operands are compared numerically when both coerce to numbers and
// by their string form otherwise.
package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/toolbox"
)

// Operator is a comparison operator
type Operator string

const (
	Eq  Operator = "eq"
	Neq Operator = "neq"
	Gt  Operator = "gt"
	Lt  Operator = "lt"
	Gte Operator = "gte"
	Lte Operator = "lte"
)

var aliases = map[string]Operator{
	"eq": Eq, "==": Eq, "=": Eq, "equals": Eq,
	"neq": Neq, "!=": Neq, "ne": Neq, "not_equals": Neq,
	"gt": Gt, ">": Gt, "greater_than": Gt,
	"lt": Lt, "<": Lt, "less_than": Lt,
	"gte": Gte, ">=": Gte, "ge": Gte, "greater_than_or_equal": Gte,
	"lte": Lte, "<=": Lte, "le": Lte, "less_than_or_equal": Lte,
}

// ParseOperator resolves an operator name or symbol
func ParseOperator(name string) (Operator, error) {
	if op, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return op, nil
	}
	return "", fmt.Errorf("unsupported operator %q", name)
}

// Compare evaluates left <operator> right.
func Compare(left interface{}, operator string, right interface{}) (bool, error) {
	op, err := ParseOperator(operator)
	if err != nil {
		return false, err
	}
	if l, ok := asNumber(left); ok {
		if r, ok := asNumber(right); ok {
			return compareNumbers(l, op, r), nil
		}
	}
	switch op {
	case Eq:
		return equal(left, right), nil
	case Neq:
		return !equal(left, right), nil
	}
	return compareStrings(toolbox.AsString(left), op, toolbox.AsString(right)), nil
}

func compareNumbers(l float64, op Operator, r float64) bool {
	switch op {
	case Eq:
		return l == r
	case Neq:
		return l != r
	case Gt:
		return l > r
	case Lt:
		return l < r
	case Gte:
		return l >= r
	case Lte:
		return l <= r
	}
	return false
}

func compareStrings(l string, op Operator, r string) bool {
	cmp := strings.Compare(l, r)
	switch op {
	case Gt:
		return cmp > 0
	case Lt:
		return cmp < 0
	case Gte:
		return cmp >= 0
	case Lte:
		return cmp <= 0
	}
	return false
}

func equal(left, right interface{}) bool {
	if l, ok := left.(bool); ok {
		if r, ok := asBool(right); ok {
			return l == r
		}
		return false
	}
	if r, ok := right.(bool); ok {
		if l, ok := asBool(left); ok {
			return l == r
		}
		return false
	}
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	return toolbox.AsString(left) == toolbox.AsString(right)
}

func asBool(v interface{}) (bool, bool) {
	switch actual := v.(type) {
	case bool:
		return actual, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(actual))
		return b, err == nil
	}
	return false, false
}

func asNumber(v interface{}) (float64, bool) {
	switch actual := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		if strings.TrimSpace(actual) == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(actual), 64)
		return f, err == nil
	}
	f, err := toolbox.ToFloat(v)
	return f, err == nil
}
