package types

import (
	"fmt"
	"strings"
)

// Order is one sort key of a Pageable. Column names a column of the owning
// table.
type Order struct {
	Column string
	Desc   bool
}

// Pageable requests one page of a result. Page is zero-based.
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

// Offset returns the number of rows skipped before the page.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// ParseOrder parses "column" or "column,asc|desc".
func ParseOrder(s string) (Order, error) {
	column, dir, _ := strings.Cut(s, ",")
	column = strings.TrimSpace(column)
	if column == "" {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return Order{Column: column}, nil
	case "desc":
		return Order{Column: column, Desc: true}, nil
	default:
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}
}
