package query

// Condition is a WHERE predicate.
type Condition interface {
	render(b *builder)
}

type eq struct {
	column ColumnRef
	value  any
}

func (c eq) render(b *builder) {
	b.sql.WriteString(c.column.render(b.dialect))
	b.sql.WriteString(" = ")
	b.bind(c.value)
}

type isNull struct {
	column ColumnRef
}

func (c isNull) render(b *builder) {
	b.sql.WriteString(c.column.render(b.dialect))
	b.sql.WriteString(" IS NULL")
}

type and []Condition

func (c and) render(b *builder) {
	for i, cond := range c {
		if i > 0 {
			b.sql.WriteString(" AND ")
		}
		b.sql.WriteString("(")
		cond.render(b)
		b.sql.WriteString(")")
	}
}

// Eq builds "column = ?".
func Eq(column ColumnRef, value any) Condition {
	return eq{column: column, value: value}
}

// IsNull builds "column IS NULL".
func IsNull(column ColumnRef) Condition {
	return isNull{column: column}
}

// And combines conditions. Nil conditions are ignored; with a single
// remaining condition it is returned unchanged.
func And(conds ...Condition) Condition {
	var out and
	for _, c := range conds {
		if c != nil {
			out = append(out, c)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return out
	}
}
