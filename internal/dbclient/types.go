package dbclient

import (
	"fmt"
	"strconv"
	"time"
)

// QueryResult is the database service's response to a prepared statement.
type QueryResult struct {
	Success bool             `json:"success"`
	Data    []map[string]any `json:"data"`
	Error   string           `json:"error,omitempty"`
}

// Rows returns the result rows, never nil.
func (r *QueryResult) Rows() []map[string]any {
	if r == nil || r.Data == nil {
		return []map[string]any{}
	}
	return r.Data
}

// The service returns rows as generic JSON objects, so numeric columns
// arrive as float64 and timestamps as strings. These helpers decode the
// common column types, tolerating the representation drift.

func rowString(row map[string]any, key string) string {
	if v, ok := row[key]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func rowFloat(row map[string]any, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return 0
}

func rowInt(row map[string]any, key string) int {
	switch v := row[key].(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return 0
}

func rowBool(row map[string]any, key string) bool {
	switch v := row[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "t" || v == "1"
	case float64:
		return v != 0
	}
	return false
}

// rowFloatPtr is rowFloat for nullable columns; a missing or null value
// stays nil instead of collapsing to zero.
func rowFloatPtr(row map[string]any, key string) *float64 {
	v, ok := row[key]
	if !ok || v == nil {
		return nil
	}
	f := rowFloat(row, key)
	return &f
}

// rowTimePtr is rowTime for nullable timestamp columns.
func rowTimePtr(row map[string]any, key string) *time.Time {
	t := rowTime(row, key)
	if t.IsZero() {
		return nil
	}
	return &t
}

// rowTime parses timestamp columns, trying RFC 3339 then the bare
// Postgres layouts the service is known to emit.
func rowTime(row map[string]any, key string) time.Time {
	s, ok := row[key].(string)
	if !ok || s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02 15:04:05.999999",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
