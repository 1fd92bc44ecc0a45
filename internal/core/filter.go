// AngelaMos | 2026
// filter.go

package core

import (
	"fmt"
	"strings"
)

// Filter accumulates AND-ed WHERE conditions with Postgres positional
// placeholders.
type Filter struct {
	conds []string
	args  []any
}

func (f *Filter) Eq(column string, value any) {
	f.args = append(f.args, value)
	f.conds = append(f.conds, fmt.Sprintf("%s = $%d", column, len(f.args)))
}

// Bind registers a value outside the WHERE clause, such as in a SET list,
// and returns its placeholder.
func (f *Filter) Bind(value any) string {
	f.args = append(f.args, value)
	return fmt.Sprintf("$%d", len(f.args))
}

func (f *Filter) IsNull(column string) {
	f.conds = append(f.conds, column+" IS NULL")
}

// Never makes the filter match no rows.
func (f *Filter) Never() {
	f.conds = append(f.conds, "FALSE")
}

// Search adds a case-insensitive substring match over columns.
func (f *Filter) Search(value string, columns ...string) {
	if value == "" || len(columns) == 0 {
		return
	}

	f.args = append(f.args, "%"+EscapeLike(value)+"%")
	idx := len(f.args)

	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, fmt.Sprintf("%s ILIKE $%d", c, idx))
	}
	f.conds = append(f.conds, "("+strings.Join(parts, " OR ")+")")
}

func (f *Filter) Where() string {
	if len(f.conds) == 0 {
		return "TRUE"
	}
	return strings.Join(f.conds, " AND ")
}

func (f *Filter) Args() []any {
	return f.args
}

// Next is the index of the next positional placeholder.
func (f *Filter) Next() int {
	return len(f.args) + 1
}

func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

// MaxPage bounds Page so Offset stays well inside the integer range.
const MaxPage = 10000

type PageParams struct {
	Page     int
	PageSize int
}

func (p *PageParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
