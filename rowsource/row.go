// Package rowsource is the runtime side of generated row factories and
// serializers. A Row exposes the current row of a query result by column
// name; Values collects column/value pairs for inserts.
package rowsource

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrNoColumn is returned when a row has no column with the requested name
var ErrNoColumn = errors.New("rowsource: no such column")

// Row is a read-only view of one result row. Accessors convert the stored
// value to the requested Go type; a NULL reads as the zero value.
type Row interface {
	IsNull(column string) (bool, error)
	Blob(column string) ([]byte, error)
	Float64(column string) (float64, error)
	Float32(column string) (float32, error)
	Int32(column string) (int32, error)
	Int64(column string) (int64, error)
	Int16(column string) (int16, error)
	String(column string) (string, error)
}

// Nullable reads column with read unless it is NULL, in which case it
// returns nil
func Nullable[T any](row Row, column string, read func(string) (T, error)) (*T, error) {
	null, err := row.IsNull(column)
	if err != nil {
		return nil, err
	}
	if null {
		return nil, nil
	}
	v, err := read(column)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// MapRow is a Row backed by a column to driver value map
type MapRow map[string]any

func (r MapRow) value(column string) (any, error) {
	v, ok := r[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoColumn, column)
	}
	return v, nil
}

func (r MapRow) IsNull(column string) (bool, error) {
	v, err := r.value(column)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

func (r MapRow) Blob(column string) ([]byte, error) {
	v, err := r.value(column)
	if err != nil {
		return nil, err
	}
	switch b := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	}
	return nil, conversionError(column, v, "[]byte")
}

func (r MapRow) Float64(column string) (float64, error) {
	v, err := r.value(column)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, conversionError(column, v, "float64")
	}
	return f, nil
}

func (r MapRow) Float32(column string) (float32, error) {
	f, err := r.Float64(column)
	return float32(f), err
}

func (r MapRow) Int64(column string) (int64, error) {
	v, err := r.value(column)
	if err != nil {
		return 0, err
	}
	i, ok := toInt(v)
	if !ok {
		return 0, conversionError(column, v, "int64")
	}
	return i, nil
}

func (r MapRow) Int32(column string) (int32, error) {
	i, err := r.Int64(column)
	if err != nil {
		return 0, err
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, fmt.Errorf("rowsource: column %s: %d overflows int32", column, i)
	}
	return int32(i), nil
}

func (r MapRow) Int16(column string) (int16, error) {
	i, err := r.Int64(column)
	if err != nil {
		return 0, err
	}
	if i < math.MinInt16 || i > math.MaxInt16 {
		return 0, fmt.Errorf("rowsource: column %s: %d overflows int16", column, i)
	}
	return int16(i), nil
}

func (r MapRow) String(column string) (string, error) {
	v, err := r.value(column)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(s), nil
	}
	return fmt.Sprint(v), nil
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint32:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint8:
		return int64(n), true
	case float64:
		return floatToInt(n)
	case float32:
		return floatToInt(float64(n))
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	case []byte:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

// floatToInt accepts only integral floats inside the int64 range
func floatToInt(f float64) (int64, bool) {
	if math.Trunc(f) != f || f < -(1<<63) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	}
	if i, ok := toInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

func conversionError(column string, v any, target string) error {
	return fmt.Errorf("rowsource: column %s: cannot convert %T to %s", column, v, target)
}
