package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginateDefaultPageSize(t *testing.T) {
	page := Paginate(seq(45), Params{Page: 2})

	require.Len(t, page.Items, 20)
	assert.Equal(t, 21, page.Items[0])
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 45, page.TotalItems)
}

func TestPaginateLastPartialPage(t *testing.T) {
	page := Paginate(seq(45), Params{Page: 3})

	require.Len(t, page.Items, 5)
	assert.Equal(t, []int{41, 42, 43, 44, 45}, page.Items)
}

func TestPaginateClampsOutOfRange(t *testing.T) {
	assert.Equal(t, 1, Paginate(seq(5), Params{Page: -4}).Page)
	assert.Equal(t, 3, Paginate(seq(45), Params{Page: 99}).Page)

	empty := Paginate([]int{}, Params{Page: 2})
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestNormalizePageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NormalizePageSize(0))
	assert.Equal(t, MaxPageSize, NormalizePageSize(1000))
	assert.Equal(t, 7, NormalizePageSize(7))
}
