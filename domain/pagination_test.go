package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	first := NewPagination(1, 10, 25)
	assert.Equal(t, int64(3), first.TotalPages)
	assert.Equal(t, int64(25), first.TotalItems)
	assert.Equal(t, int64(10), first.ItemsPerPage)
	assert.True(t, first.HasNextPage)
	assert.False(t, first.HasPrevPage)

	last := NewPagination(3, 10, 25)
	assert.False(t, last.HasNextPage)
	assert.True(t, last.HasPrevPage)

	empty := NewPagination(1, 10, 0)
	assert.Equal(t, int64(0), empty.TotalPages)
	assert.False(t, empty.HasNextPage)
	assert.False(t, empty.HasPrevPage)
}

func TestListingQuerySkip(t *testing.T) {
	query := ListingQuery{Page: 3, Limit: 10}
	assert.Equal(t, int64(20), query.Skip())
}
