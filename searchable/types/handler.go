// Package types turns (field, condition, value) into expression nodes
// according to the field's declared type.
package types

import (
	"fmt"
	"reflect"

	serrors "github.com/ministore/searchable/searchable/errors"
	"github.com/ministore/searchable/searchable/expr"
	"github.com/ministore/searchable/searchable/filter"
)

// Handler implements filtering and ordering for one declared type.
type Handler interface {
	Name() string
	Filter(b expr.Binder, field expr.Column, cond filter.Condition, value any) (expr.Node, error)
	Order(field expr.Column, dir filter.Direction) expr.Order
}

// Generic handles every catalog condition with plain comparisons.
type Generic struct{}

func (Generic) Name() string { return "generic" }

func (g Generic) Filter(b expr.Binder, field expr.Column, cond filter.Condition, value any) (expr.Node, error) {
	return FilterWith(g, b, field, cond, value)
}

func (Generic) Order(field expr.Column, dir filter.Direction) expr.Order {
	return expr.Order{Expr: field, Direction: dir}
}

var comparisons = map[filter.Condition]expr.Op{
	filter.Eq:      expr.OpEq,
	filter.Neq:     expr.OpNeq,
	filter.Lt:      expr.OpLt,
	filter.Gt:      expr.OpGt,
	filter.Lte:     expr.OpLte,
	filter.Gte:     expr.OpGte,
	filter.Like:    expr.OpLike,
	filter.NotLike: expr.OpNotLike,
}

// FilterWith applies the generic semantics. Rewritten conditions (contains,
// between, ...) are dispatched back through self, so a handler embedding
// these semantics keeps its own like/gte/lte behaviour.
func FilterWith(self Handler, b expr.Binder, field expr.Column, cond filter.Condition, value any) (expr.Node, error) {
	if op, ok := comparisons[cond]; ok {
		return expr.Compare(op, field, bind(b, field, cond, value)), nil
	}

	switch cond {
	case filter.Contains:
		return self.Filter(b, field, filter.Like, "%"+str(value)+"%")
	case filter.NotContains:
		return self.Filter(b, field, filter.NotLike, "%"+str(value)+"%")
	case filter.StartsWith:
		return self.Filter(b, field, filter.Like, str(value)+"%")
	case filter.NotStartsWith:
		return self.Filter(b, field, filter.NotLike, str(value)+"%")
	case filter.EndsWith:
		return self.Filter(b, field, filter.Like, "%"+str(value))
	case filter.NotEndsWith:
		return self.Filter(b, field, filter.NotLike, "%"+str(value))

	case filter.Null:
		return expr.Null{Operand: field, Not: !truthy(value)}, nil
	case filter.NotNull:
		return expr.Null{Operand: field, Not: truthy(value)}, nil

	case filter.In:
		return expr.Compare(expr.OpIn, field, bind(b, field, cond, list(value))), nil
	case filter.NotIn:
		return expr.Compare(expr.OpNotIn, field, bind(b, field, cond, list(value))), nil

	case filter.Between:
		lo, hi, err := bounds(value)
		if err != nil {
			return nil, err
		}
		gte, err := self.Filter(b, field, filter.Gte, lo)
		if err != nil {
			return nil, err
		}
		lte, err := self.Filter(b, field, filter.Lte, hi)
		if err != nil {
			return nil, err
		}
		return expr.And{gte, lte}, nil
	}

	return nil, serrors.ConditionNotSupported(string(cond), self.Name())
}

func bind(b expr.Binder, field expr.Column, cond filter.Condition, value any) expr.Param {
	return b.Bind(expr.ParamName(field, string(cond)), value)
}

func str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// truthy follows loose truthiness: nil, false, zero numbers, "", "0" and
// empty collections are false.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != "" && t != "0"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// list wraps a scalar so membership always binds a collection.
func list(v any) any {
	if v == nil {
		return []any{}
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return v
	}
	return []any{v}
}

func bounds(v any) (any, any, error) {
	if v == nil {
		return nil, nil, serrors.InvalidArgument("between expects an array of two values")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, nil, serrors.InvalidArgument(fmt.Sprintf("between expects an array of two values, got %T", v))
	}
	if rv.Len() != 2 {
		return nil, nil, serrors.InvalidArgument(fmt.Sprintf("between expects exactly 2 values, got %d", rv.Len()))
	}
	return rv.Index(0).Interface(), rv.Index(1).Interface(), nil
}
