package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sentimentdb/sentiment-api/internal/db/interfaces"
)

// Placeholder selects the bind parameter style of the target driver.
type Placeholder int

const (
	// Dollar emits $1, $2, ... (Postgres).
	Dollar Placeholder = iota
	// Question emits ? (SQLite).
	Question
)

// Builder helps construct database queries
type Builder struct {
	schema      *interfaces.Schema
	placeholder Placeholder
}

// NewBuilder creates a new query builder for a schema
func NewBuilder(schema *interfaces.Schema, placeholder Placeholder) *Builder {
	return &Builder{schema: schema, placeholder: placeholder}
}

// Select renders q as a parameterized SELECT over the schema's columns.
// Every value travels as a bind argument; field names and directions are
// checked against the schema before they are spliced into the statement.
func (b *Builder) Select(q *interfaces.Query) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.schema.Columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.schema.TableName)

	if q == nil {
		return sb.String(), nil, nil
	}

	var args []any
	if q.Where != nil && len(q.Where.Conditions) > 0 {
		clauses := make([]string, 0, len(q.Where.Conditions))
		for _, cond := range q.Where.Conditions {
			if !b.schema.HasColumn(cond.Field) {
				return "", nil, fmt.Errorf("%w: unknown field %q", interfaces.ErrInvalidQuery, cond.Field)
			}
			if !validOperator(cond.Operator) {
				return "", nil, fmt.Errorf("%w: unsupported operator %q", interfaces.ErrInvalidQuery, cond.Operator)
			}
			args = append(args, cond.Value)
			clauses = append(clauses, fmt.Sprintf("%s %s %s", cond.Field, cond.Operator, b.bind(len(args))))
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}

	if len(q.OrderBy) > 0 {
		orders := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			if !b.schema.HasColumn(o.Field) {
				return "", nil, fmt.Errorf("%w: unknown order field %q", interfaces.ErrInvalidQuery, o.Field)
			}
			dir := strings.ToUpper(o.Direction)
			switch dir {
			case "":
				dir = "ASC"
			case "ASC", "DESC":
			default:
				return "", nil, fmt.Errorf("%w: invalid direction %q", interfaces.ErrInvalidQuery, o.Direction)
			}
			orders = append(orders, o.Field+" "+dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(orders, ", "))
	}

	if q.Limit != nil {
		if *q.Limit < 0 {
			return "", nil, fmt.Errorf("%w: negative limit", interfaces.ErrInvalidQuery)
		}
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(*q.Limit))
	}

	return sb.String(), args, nil
}

func (b *Builder) bind(n int) string {
	if b.placeholder == Question {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

func validOperator(op interfaces.Operator) bool {
	switch op {
	case interfaces.OpEq, interfaces.OpGt, interfaces.OpGte, interfaces.OpLt, interfaces.OpLte:
		return true
	}
	return false
}
