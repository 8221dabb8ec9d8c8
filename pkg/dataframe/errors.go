package dataframe

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is matching against the typed errors below.
var (
	ErrNotFound        = errors.New("dataset not found")
	ErrSchema          = errors.New("schema error")
	ErrEmptyTable      = errors.New("empty table")
	ErrMissingCategory = errors.New("missing category")
)

// NotFoundError reports a dataset that does not exist at the storage location.
type NotFoundError struct {
	Dataset  string
	Location string
}

func (e *NotFoundError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("dataset %q not found", e.Dataset)
	}
	return fmt.Sprintf("dataset %q not found in %s", e.Dataset, e.Location)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// SchemaError reports a missing field or a value that does not fit its column kind.
// Row is 1-based and zero when the problem is not tied to a row.
type SchemaError struct {
	Table  string
	Field  string
	Row    int
	Reason string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "table %q", e.Table)
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// EmptyTableError is returned by aggregations that need at least one row.
type EmptyTableError struct {
	Table string
	Op    string
}

func (e *EmptyTableError) Error() string {
	return fmt.Sprintf("%s over empty table %q", e.Op, e.Table)
}

func (e *EmptyTableError) Is(target error) bool { return target == ErrEmptyTable }

// MissingCategoryError is returned when an expected group label is absent from a Series.
type MissingCategoryError struct {
	Series    string
	Category  string
	Available []string
}

func (e *MissingCategoryError) Error() string {
	return fmt.Sprintf("category %q missing from %s (have %s)",
		e.Category, e.Series, strings.Join(quoteAll(e.Available), ", "))
}

func (e *MissingCategoryError) Is(target error) bool { return target == ErrMissingCategory }

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
