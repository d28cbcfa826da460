package filter

// Condition is a filter condition token such as "eq" or "starts_with".
type Condition string

const (
	Eq            Condition = "eq"
	Neq           Condition = "neq"
	Lt            Condition = "lt"
	Gt            Condition = "gt"
	Lte           Condition = "lte"
	Gte           Condition = "gte"
	Between       Condition = "between"
	Like          Condition = "like"
	NotLike       Condition = "not_like"
	Contains      Condition = "contains"
	NotContains   Condition = "not_contains"
	StartsWith    Condition = "starts_with"
	EndsWith      Condition = "ends_with"
	NotStartsWith Condition = "not_starts_with"
	NotEndsWith   Condition = "not_ends_with"
	Null          Condition = "null"
	NotNull       Condition = "not_null"
	In            Condition = "in"
	NotIn         Condition = "not_in"
)

var catalog = []Condition{
	Eq, Neq, Lt, Gt, Lte, Gte, Between,
	Like, NotLike, Contains, NotContains,
	StartsWith, EndsWith, NotStartsWith, NotEndsWith,
	Null, NotNull, In, NotIn,
}

var known = func() map[Condition]bool {
	m := make(map[Condition]bool, len(catalog))
	for _, c := range catalog {
		m[c] = true
	}
	return m
}()

// Conditions returns every supported condition in catalog order.
func Conditions() []Condition {
	out := make([]Condition, len(catalog))
	copy(out, catalog)
	return out
}

// Known reports whether c belongs to the catalog. Handlers still decide
// which known conditions they accept.
func (c Condition) Known() bool {
	return known[c]
}

func (c Condition) String() string {
	return string(c)
}
