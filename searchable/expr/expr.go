// Package expr holds the boolean expression tree produced by type handlers
// and consumed by the plan renderer.
package expr

import (
	"fmt"
	"strings"

	"github.com/ministore/searchable/searchable/filter"
)

// Operand is one side of a comparison.
type Operand interface {
	operand()
	String() string
}

// Column is a resolved field. Alias is the query alias ("main_author.firstName"),
// Table the table alias and Name the physical column.
type Column struct {
	Alias string
	Table string
	Name  string
}

func (Column) operand() {}

func (c Column) String() string { return c.Alias }

// Param is a named bound value.
type Param struct {
	Name  string
	Value any
}

func (Param) operand() {}

func (p Param) String() string { return ":" + p.Name }

// Lower folds its operand to lower case.
type Lower struct {
	Of Operand
}

func (Lower) operand() {}

func (l Lower) String() string { return "LOWER(" + l.Of.String() + ")" }

// Op is a binary comparison operator.
type Op string

const (
	OpEq      Op = "="
	OpNeq     Op = "<>"
	OpLt      Op = "<"
	OpGt      Op = ">"
	OpLte     Op = "<="
	OpGte     Op = ">="
	OpLike    Op = "LIKE"
	OpNotLike Op = "NOT LIKE"
	OpIn      Op = "IN"
	OpNotIn   Op = "NOT IN"
)

// Node is a boolean expression.
type Node interface {
	node()
	String() string
}

// Comparison is Left Op Right.
type Comparison struct {
	Op    Op
	Left  Operand
	Right Operand
}

func (Comparison) node() {}

func (c Comparison) String() string {
	if c.Op == OpIn || c.Op == OpNotIn {
		return fmt.Sprintf("%s %s(%s)", c.Left, c.Op, c.Right)
	}
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

// Null is "IS NULL", or "IS NOT NULL" when Not is set.
type Null struct {
	Operand Operand
	Not     bool
}

func (Null) node() {}

func (n Null) String() string {
	if n.Not {
		return n.Operand.String() + " IS NOT NULL"
	}
	return n.Operand.String() + " IS NULL"
}

// And is a conjunction. An empty And is true.
type And []Node

func (And) node() {}

func (a And) String() string { return join([]Node(a), " AND ") }

// Or is a disjunction.
type Or []Node

func (Or) node() {}

func (o Or) String() string { return join([]Node(o), " OR ") }

func join(nodes []Node, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, n.String())
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// Order is one ORDER BY directive.
type Order struct {
	Expr      Operand
	Direction filter.Direction
}

func (o Order) String() string {
	return o.Expr.String() + " " + string(o.Direction)
}

// Compare builds left op :param.
func Compare(op Op, left Operand, p Param) Comparison {
	return Comparison{Op: op, Left: left, Right: p}
}
