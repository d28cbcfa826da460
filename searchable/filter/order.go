package filter

import (
	"fmt"
	"strings"

	serrors "github.com/ministore/searchable/searchable/errors"
)

// Direction is a normalized sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts asc/desc in any case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	default:
		return "", serrors.InvalidArgument(fmt.Sprintf("invalid order direction %q (expected ASC or DESC)", s))
	}
}

// OrderEntry orders by Path. Direction is kept as given and validated at
// compile time.
type OrderEntry struct {
	Path      string
	Direction string
}

// Order is an ordered order-by specification; slice order is output order.
type Order []OrderEntry

// By builds an OrderEntry.
func By(path, direction string) OrderEntry {
	return OrderEntry{Path: path, Direction: direction}
}

// Paths lists the ordered field paths.
func (o Order) Paths() []string {
	out := make([]string, 0, len(o))
	for _, e := range o {
		out = append(out, e.Path)
	}
	return out
}
