package internal

import "strconv"

// ContextValue reads a typed value from the request stash. Missing keys and
// type mismatches yield the zero value, so handlers can read optional values
// without an ok-check.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// Param returns the named URL parameter parsed as T. An absent or
// unparseable parameter yields the zero value.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	v, _ := parseValue[T](c.Param(name))
	return v
}

// Query returns the named query parameter parsed as T. An absent or
// unparseable parameter yields the zero value.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	v, _ := parseValue[T](c.Query(name))
	return v
}

// QueryDefault is Query with a fallback for absent or unparseable values.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string, fallback T) T {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, ok := parseValue[T](raw)
	if !ok {
		return fallback
	}
	return v
}

// parseValue parses raw into T. Named types based on string, int, etc. are
// admitted by the constraint but not parsed here; they report false.
func parseValue[T ~string | ~int | ~int64 | ~float64 | ~bool](raw string) (T, bool) {
	var v T
	var err error
	switch p := any(&v).(type) {
	case *string:
		*p = raw
	case *int:
		*p, err = strconv.Atoi(raw)
	case *int64:
		*p, err = strconv.ParseInt(raw, 10, 64)
	case *float64:
		*p, err = strconv.ParseFloat(raw, 64)
	case *bool:
		*p, err = strconv.ParseBool(raw)
	default:
		return v, false
	}
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}
