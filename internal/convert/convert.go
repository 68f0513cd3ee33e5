// Package convert extracts typed values from raw result rows. It is the one
// conversion point shared by every row mapper: NULL columns become absent
// options, numeric storage representations are widened or narrowed to the
// requested kind, and values that cannot be coerced fail with
// types.ErrTypeMismatch.
package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/mo"
	"github.com/spf13/cast"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Kind is the semantic type of a column.
type Kind int

// Column kinds.
const (
	KindID Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindID:
		return "id"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error reports a value that could not be coerced to a column's kind.
// It matches types.ErrTypeMismatch with errors.Is.
type Error struct {
	Column string
	Kind   Kind
	Value  any
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("column %s: cannot convert %T(%v) to %s: %v", e.Column, e.Value, e.Value, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{types.ErrTypeMismatch, e.Err}
}

// Convert looks up column in row and coerces its value to kind. A NULL value
// yields (nil, nil). The returned value is an int64, float64, string or bool.
func Convert(row types.Row, column string, kind Kind) (any, error) {
	raw, ok := row.Get(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownColumn, column)
	}
	if raw == nil {
		return nil, nil
	}
	v, err := coerce(raw, kind)
	if err != nil {
		return nil, &Error{Column: column, Kind: kind, Value: raw, Err: err}
	}
	return v, nil
}

// Int64 reads column as an integer.
func Int64(row types.Row, column string) (mo.Option[int64], error) {
	return typed[int64](row, column, KindInt)
}

// Float64 reads column as a floating-point number.
func Float64(row types.Row, column string) (mo.Option[float64], error) {
	return typed[float64](row, column, KindFloat)
}

// String reads column as text.
func String(row types.Row, column string) (mo.Option[string], error) {
	return typed[string](row, column, KindText)
}

// Bool reads column as a boolean.
func Bool(row types.Row, column string) (mo.Option[bool], error) {
	return typed[bool](row, column, KindBool)
}

func typed[T any](row types.Row, column string, kind Kind) (mo.Option[T], error) {
	v, err := Convert(row, column, kind)
	if err != nil || v == nil {
		return mo.None[T](), err
	}
	return mo.Some(v.(T)), nil
}

// FromString parses text entered by a user with the same rules applied to
// stored values. An empty string or "null" yields (nil, nil).
func FromString(kind Kind, text string) (any, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "null") {
		return nil, nil
	}
	v, err := coerce(text, kind)
	if err != nil {
		return nil, &Error{Kind: kind, Value: text, Err: err}
	}
	return v, nil
}

func coerce(raw any, kind Kind) (any, error) {
	// Some drivers hand back text and NUMERIC columns as bytes.
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	if s, ok := raw.(string); ok && kind != KindText {
		raw = strings.TrimSpace(s)
	}
	switch kind {
	case KindID, KindInt:
		return toInt64(raw)
	case KindFloat:
		return cast.ToFloat64E(raw)
	case KindText:
		return cast.ToStringE(raw)
	case KindBool:
		return cast.ToBoolE(raw)
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
}

// toInt64 reads integers strictly: text must be a base-10 literal and
// floating-point values must be integral. cast would accept "010" as octal,
// "0x0A" as hex and truncate 2.9 to 2.
func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case string:
		return strconv.ParseInt(v, 10, 64)
	case float64:
		return integral(v)
	case float32:
		return integral(float64(v))
	default:
		return cast.ToInt64E(raw)
	}
}

func integral(f float64) (int64, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	return int64(f), nil
}
