package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// now returns the current time at the precision timestamps are stored with.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// formatRFC3339 formats a timestamp for storage.
func formatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// inList returns an IN clause with one placeholder per value and appends
// the values to args.
func inList[T any](args *[]any, values []T) string {
	for _, v := range values {
		*args = append(*args, v)
	}
	return "IN (?" + strings.Repeat(", ?", len(values)-1) + ")"
}
