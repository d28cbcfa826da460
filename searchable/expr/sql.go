package expr

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// QuoteIdent quotes an identifier for sqlite and postgres.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// SQL renders an operand that is not a parameter.
func SQL(o Operand) (string, error) {
	switch v := o.(type) {
	case Column:
		return QuoteIdent(v.Table) + "." + QuoteIdent(v.Name), nil
	case Lower:
		inner, err := SQL(v.Of)
		if err != nil {
			return "", err
		}
		return "LOWER(" + inner + ")", nil
	default:
		return "", fmt.Errorf("operand %s has no column form", o)
	}
}

// ToSqlizer converts a node into a squirrel condition with positional
// arguments in parameter order.
func ToSqlizer(n Node) (sq.Sqlizer, error) {
	switch v := n.(type) {
	case Comparison:
		return comparison(v)
	case Null:
		col, err := SQL(v.Operand)
		if err != nil {
			return nil, err
		}
		if v.Not {
			return sq.NotEq{col: nil}, nil
		}
		return sq.Eq{col: nil}, nil
	case And:
		parts, err := sqlizers(v)
		if err != nil {
			return nil, err
		}
		return sq.And(parts), nil
	case Or:
		parts, err := sqlizers(v)
		if err != nil {
			return nil, err
		}
		return sq.Or(parts), nil
	default:
		return nil, fmt.Errorf("unknown expression node %T", n)
	}
}

func sqlizers(nodes []Node) ([]sq.Sqlizer, error) {
	out := make([]sq.Sqlizer, 0, len(nodes))
	for _, n := range nodes {
		s, err := ToSqlizer(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func comparison(c Comparison) (sq.Sqlizer, error) {
	left, err := SQL(c.Left)
	if err != nil {
		return nil, err
	}

	switch r := c.Right.(type) {
	case Param:
		return typedComparison(c.Op, left, r.Value)
	case Lower:
		p, ok := r.Of.(Param)
		if !ok {
			break
		}
		return sq.Expr(fmt.Sprintf("%s %s LOWER(?)", left, c.Op), p.Value), nil
	case Column:
		right, err := SQL(r)
		if err != nil {
			return nil, err
		}
		return sq.Expr(fmt.Sprintf("%s %s %s", left, c.Op, right)), nil
	}
	return nil, fmt.Errorf("unsupported right operand %s", c.Right)
}

func typedComparison(op Op, col string, value any) (sq.Sqlizer, error) {
	switch op {
	case OpEq, OpIn:
		return sq.Eq{col: value}, nil
	case OpNeq, OpNotIn:
		return sq.NotEq{col: value}, nil
	case OpLt:
		return sq.Lt{col: value}, nil
	case OpGt:
		return sq.Gt{col: value}, nil
	case OpLte:
		return sq.LtOrEq{col: value}, nil
	case OpGte:
		return sq.GtOrEq{col: value}, nil
	case OpLike:
		return sq.Like{col: value}, nil
	case OpNotLike:
		return sq.NotLike{col: value}, nil
	default:
		return nil, fmt.Errorf("unknown operator %q", op)
	}
}

// OrderSQL renders an order directive.
func OrderSQL(o Order) (string, error) {
	col, err := SQL(o.Expr)
	if err != nil {
		return "", err
	}
	return col + " " + string(o.Direction), nil
}
