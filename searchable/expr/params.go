package expr

import (
	"fmt"
	"strings"
)

// Binder allocates named parameters.
type Binder interface {
	Bind(name string, value any) Param
}

// ParamName derives the parameter name for a condition on a column:
// "main_author.firstName" + "like" gives "main_author_firstName_like_value".
func ParamName(c Column, condition string) string {
	return strings.ReplaceAll(c.Alias, ".", "_") + "_" + condition + "_value"
}

// Params collects bound parameters for one plan. Names are unique; a
// repeated name gets a numeric suffix.
type Params struct {
	seen map[string]int
	list []Param
}

func (p *Params) Bind(name string, value any) Param {
	if p.seen == nil {
		p.seen = make(map[string]int)
	}
	n := p.seen[name]
	p.seen[name] = n + 1
	if n > 0 {
		name = fmt.Sprintf("%s_%d", name, n+1)
	}
	param := Param{Name: name, Value: value}
	p.list = append(p.list, param)
	return param
}

// List returns parameters in binding order.
func (p *Params) List() []Param {
	out := make([]Param, len(p.list))
	copy(out, p.list)
	return out
}

// Map returns parameters keyed by name.
func (p *Params) Map() map[string]any {
	out := make(map[string]any, len(p.list))
	for _, param := range p.list {
		out[param.Name] = param.Value
	}
	return out
}
