package types

import (
	"github.com/ministore/searchable/searchable/expr"
	"github.com/ministore/searchable/searchable/filter"
)

// String matches and orders case-insensitively.
type String struct{}

func (String) Name() string { return "string" }

func (s String) Filter(b expr.Binder, field expr.Column, cond filter.Condition, value any) (expr.Node, error) {
	switch cond {
	case filter.Like, filter.NotLike:
		op := expr.OpLike
		if cond == filter.NotLike {
			op = expr.OpNotLike
		}
		p := bind(b, field, cond, value)
		return expr.Comparison{Op: op, Left: expr.Lower{Of: field}, Right: expr.Lower{Of: p}}, nil
	}
	return FilterWith(s, b, field, cond, value)
}

func (String) Order(field expr.Column, dir filter.Direction) expr.Order {
	return expr.Order{Expr: expr.Lower{Of: field}, Direction: dir}
}
