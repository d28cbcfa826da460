package planner

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ministore/searchable/searchable/expr"
)

// SelectOptions controls rendering of a plan to SQL.
type SelectOptions struct {
	// Format defaults to sq.Question.
	Format sq.PlaceholderFormat
	// Columns defaults to every column of the root table.
	Columns []string
	Limit   uint64
	// Offset is ignored without a Limit.
	Offset uint64
}

// BuildSelect renders a plan as a squirrel SELECT over the root table and
// its joins. Joins follow many-to-one associations, so rows are not
// duplicated.
func BuildSelect(plan *Plan, opts SelectOptions) (sq.SelectBuilder, error) {
	cols := opts.Columns
	if len(cols) == 0 {
		cols = []string{expr.QuoteIdent(plan.Alias) + ".*"}
	}
	format := opts.Format
	if format == nil {
		format = sq.Question
	}

	b := sq.Select(cols...).
		From(fmt.Sprintf("%s AS %s", expr.QuoteIdent(plan.Table), expr.QuoteIdent(plan.Alias))).
		PlaceholderFormat(format)

	for _, j := range plan.Joins {
		b = b.Join(fmt.Sprintf("%s AS %s ON %s.%s = %s.%s",
			expr.QuoteIdent(j.Table), expr.QuoteIdent(j.Alias),
			expr.QuoteIdent(j.Alias), expr.QuoteIdent(j.ForeignColumn),
			expr.QuoteIdent(j.Parent), expr.QuoteIdent(j.LocalColumn),
		))
	}

	for _, n := range plan.Where {
		cond, err := expr.ToSqlizer(n)
		if err != nil {
			return b, err
		}
		b = b.Where(cond)
	}

	for _, o := range plan.Orders {
		clause, err := expr.OrderSQL(o)
		if err != nil {
			return b, err
		}
		b = b.OrderBy(clause)
	}

	if opts.Limit > 0 {
		b = b.Limit(opts.Limit)
		if opts.Offset > 0 {
			b = b.Offset(opts.Offset)
		}
	}
	return b, nil
}

// BuildSelectSQL renders a plan to SQL text and positional arguments.
func BuildSelectSQL(plan *Plan, opts SelectOptions) (string, []any, error) {
	b, err := BuildSelect(plan, opts)
	if err != nil {
		return "", nil, err
	}
	return b.ToSql()
}
