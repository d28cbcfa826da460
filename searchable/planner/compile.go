package planner

import (
	"fmt"
	"strings"

	serrors "github.com/ministore/searchable/searchable/errors"
	"github.com/ministore/searchable/searchable/expr"
	"github.com/ministore/searchable/searchable/filter"
	"github.com/ministore/searchable/searchable/types"
)

// HandlerSource resolves a declared type name to its handler.
type HandlerSource interface {
	Resolve(typeName string) types.Handler
}

// Plan is the compiled form of a filter and order specification.
type Plan struct {
	Entity       string
	Table        string
	Alias        string
	Joins        []Join
	Where        []expr.Node
	Orders       []expr.Order
	ExplainSteps []string

	params expr.Params
}

// Condition returns the conjunction of all filters, or nil when there are
// none.
func (p *Plan) Condition() expr.Node {
	if len(p.Where) == 0 {
		return nil
	}
	return expr.And(p.Where)
}

// Params returns bound parameters in binding order.
func (p *Plan) Params() []expr.Param { return p.params.List() }

// ParamMap returns bound parameters keyed by name.
func (p *Plan) ParamMap() map[string]any { return p.params.Map() }

// Explain renders the plan one step per line.
func (p *Plan) Explain() string {
	return strings.Join(p.ExplainSteps, "\n")
}

// Compiler compiles one specification; it is not reused.
type Compiler struct {
	schema   Schema
	handlers HandlerSource
	joins    *JoinRegistry
	resolver *Resolver
	fields   map[string]Field
	plan     *Plan
}

// Compile resolves every path referenced by filters and orders, then
// builds the plan. Any error aborts the compile.
func Compile(schema Schema, handlers HandlerSource, filters filter.Spec, orders filter.Order) (*Plan, error) {
	joins := NewJoinRegistry()
	c := &Compiler{
		schema:   schema,
		handlers: handlers,
		joins:    joins,
		resolver: NewResolver(joins),
		fields:   make(map[string]Field),
		plan: &Plan{
			Entity: schema.Name(),
			Table:  schema.Table(),
			Alias:  RootAlias,
		},
	}

	if err := c.resolvePaths(filters.Paths()); err != nil {
		return nil, err
	}
	if err := c.resolvePaths(orders.Paths()); err != nil {
		return nil, err
	}
	c.plan.Joins = joins.Joins()
	for _, j := range c.plan.Joins {
		c.explain("JOIN %s.%s AS %s", j.Parent, j.Association, j.Alias)
	}

	for _, e := range filters {
		if err := c.compileFilter(e); err != nil {
			return nil, err
		}
	}
	for _, o := range orders {
		if err := c.compileOrder(o); err != nil {
			return nil, err
		}
	}
	return c.plan, nil
}

func (c *Compiler) explain(format string, args ...any) {
	c.plan.ExplainSteps = append(c.plan.ExplainSteps, fmt.Sprintf(format, args...))
}

func (c *Compiler) resolvePaths(paths []string) error {
	pending := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := c.fields[p]; !ok {
			pending = append(pending, p)
		}
	}
	fields, err := c.resolver.ResolveAll(pending, c.schema, RootAlias)
	if err != nil {
		return err
	}
	for _, f := range fields {
		c.fields[f.Path] = f
	}
	return nil
}

func (c *Compiler) compileFilter(e filter.Entry) error {
	t := e.Normalize()
	if len(t.Field.Paths) == 0 {
		return serrors.InvalidArgument(fmt.Sprintf("filter %q has an empty field list", e.Key))
	}

	nodes := make([]expr.Node, 0, len(t.Field.Paths))
	for _, p := range t.Field.Paths {
		n, err := c.filterField(c.fields[p], t.Condition, t.Value)
		if err != nil {
			return err
		}
		nodes = append(nodes, n)
	}

	var node expr.Node
	if t.Field.Multi {
		node = expr.Or(nodes)
	} else {
		node = nodes[0]
	}
	c.plan.Where = append(c.plan.Where, node)
	c.explain("FILTER %s", node)
	return nil
}

func (c *Compiler) filterField(f Field, cond filter.Condition, value any) (expr.Node, error) {
	return c.handlers.Resolve(f.Type).Filter(&c.plan.params, f.Expr(), cond, value)
}

func (c *Compiler) compileOrder(o filter.OrderEntry) error {
	dir, err := filter.ParseDirection(o.Direction)
	if err != nil {
		return err
	}
	f := c.fields[o.Path]
	ord := c.handlers.Resolve(f.Type).Order(f.Expr(), dir)
	c.plan.Orders = append(c.plan.Orders, ord)
	c.explain("ORDER %s", ord)
	return nil
}
