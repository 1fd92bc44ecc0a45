// AngelaMos | 2026
// filter_test.go

package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterBuildsPositionalConditions(t *testing.T) {
	var f Filter
	f.Eq("id", "a1")
	f.IsNull("deleted_at")
	f.Search("50%_off", "name", "email")
	f.Eq("enterprise_id", "e1")

	assert.Equal(t,
		"id = $1 AND deleted_at IS NULL AND (name ILIKE $2 OR email ILIKE $2) AND enterprise_id = $3",
		f.Where(),
	)
	assert.Equal(t, []any{"a1", `%50\%\_off%`, "e1"}, f.Args())
	assert.Equal(t, 4, f.Next())
}

func TestFilterBindSharesNumbering(t *testing.T) {
	var f Filter
	set := f.Bind("New Name")
	f.Eq("id", "x")

	assert.Equal(t, "$1", set)
	assert.Equal(t, "id = $2", f.Where())
}

func TestFilterEmptyAndNever(t *testing.T) {
	var f Filter
	f.Search("", "name")
	assert.Equal(t, "TRUE", f.Where())

	f.Never()
	assert.Equal(t, "FALSE", f.Where())
	assert.Empty(t, f.Args())
}

func TestPageParamsNormalize(t *testing.T) {
	tests := []struct {
		in         PageParams
		page, size int
		offset     int
	}{
		{PageParams{}, 1, 20, 0},
		{PageParams{Page: 3, PageSize: 10}, 3, 10, 20},
		{PageParams{Page: -2, PageSize: 1000}, 1, 100, 0},
		{PageParams{Page: math.MaxInt, PageSize: 100}, MaxPage, 100, (MaxPage - 1) * 100},
	}

	for _, tt := range tests {
		p := tt.in
		p.Normalize()
		assert.Equal(t, tt.page, p.Page)
		assert.Equal(t, tt.size, p.PageSize)
		assert.Equal(t, tt.offset, p.Offset())
	}
}
