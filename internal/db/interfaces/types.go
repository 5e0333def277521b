package interfaces

import (
	"errors"
	"fmt"
	"strings"
)

// Operator is a comparison applied to a single column.
type Operator string

const (
	OpEq  Operator = "="
	OpGt  Operator = ">"
	OpGte Operator = ">="
	OpLt  Operator = "<"
	OpLte Operator = "<="
)

// Filter represents a field filter
type Filter struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// Filters are ANDed together.
type Filters struct {
	Conditions []Filter `json:"conditions,omitempty"`
}

// OrderBy represents sorting configuration
type OrderBy struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // "asc" or "desc"
}

// Query represents a read against a single table.
type Query struct {
	Where   *Filters  `json:"where,omitempty"`
	OrderBy []OrderBy `json:"order_by,omitempty"`
	Limit   *int      `json:"limit,omitempty"`
}

// Key returns a stable textual form of the query, used as a cache key.
func (q *Query) Key() string {
	if q == nil {
		return "all"
	}
	var b strings.Builder
	b.WriteString("where")
	if q.Where != nil {
		for _, c := range q.Where.Conditions {
			fmt.Fprintf(&b, ":%s%s%v", c.Field, c.Operator, c.Value)
		}
	}
	b.WriteString("|order")
	for _, o := range q.OrderBy {
		fmt.Fprintf(&b, ":%s.%s", o.Field, strings.ToLower(o.Direction))
	}
	if q.Limit != nil {
		fmt.Fprintf(&b, "|limit:%d", *q.Limit)
	}
	return b.String()
}

// Schema describes a table and the columns read from it, in select order.
type Schema struct {
	TableName string   `json:"table_name"`
	Columns   []string `json:"columns"`
}

// HasColumn reports whether name is one of the schema's columns.
func (s *Schema) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ErrInvalidQuery is returned when a query cannot be rendered against the schema.
var ErrInvalidQuery = errors.New("invalid query")

// DatabaseError wraps database-specific errors
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}
