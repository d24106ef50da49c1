package query

import (
	"fmt"
	"strconv"
	"time"
)

// Row gives ordinal access to one result row. Accessors never panic: the
// first conversion failure is kept and reported by Err, and later accessors
// return zero values.
type Row struct {
	values []any
	err    error
}

// Len returns the number of columns
func (r *Row) Len() int {
	return len(r.values)
}

// Err returns the first conversion error, if any
func (r *Row) Err() error {
	return r.err
}

// IsNull reports whether column i is NULL
func (r *Row) IsNull(i int) bool {
	v, ok := r.value(i)
	return ok && v == nil
}

func (r *Row) value(i int) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	if i < 0 || i >= len(r.values) {
		r.err = fmt.Errorf("column %d out of range (%d columns)", i, len(r.values))
		return nil, false
	}
	return r.values[i], true
}

func (r *Row) fail(i int, want string, v any) {
	r.err = fmt.Errorf("column %d: cannot read %T as %s", i, v, want)
}

// Int64 reads column i as an integer
func (r *Row) Int64(i int) int64 {
	v, ok := r.value(i)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case bool:
		if t {
			return 1
		}
		return 0
	case []byte:
		n, err := strconv.ParseInt(string(t), 10, 64)
		if err != nil {
			r.fail(i, "int64", v)
		}
		return n
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			r.fail(i, "int64", v)
		}
		return n
	case nil:
		return 0
	default:
		r.fail(i, "int64", v)
		return 0
	}
}

// Int reads column i as an int
func (r *Row) Int(i int) int {
	return int(r.Int64(i))
}

// Float64 reads column i as a float
func (r *Row) Float64(i int) float64 {
	v, ok := r.value(i)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case []byte:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			r.fail(i, "float64", v)
		}
		return f
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			r.fail(i, "float64", v)
		}
		return f
	case nil:
		return 0
	default:
		r.fail(i, "float64", v)
		return 0
	}
}

// String reads column i as text. NULL reads as "".
func (r *Row) String(i int) string {
	v, ok := r.value(i)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case nil:
		return ""
	default:
		r.fail(i, "string", v)
		return ""
	}
}

// Time reads column i as a timestamp stored natively or as RFC 3339 text
func (r *Row) Time(i int) time.Time {
	v, ok := r.value(i)
	if !ok {
		return time.Time{}
	}
	switch t := v.(type) {
	case time.Time:
		return t
	case string, []byte:
		s := r.String(i)
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			r.fail(i, "time", v)
		}
		return parsed
	case nil:
		return time.Time{}
	default:
		r.fail(i, "time", v)
		return time.Time{}
	}
}
