package contact

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name               string
		total, page, limit int64
		expectedTotalPages int64
	}{
		{"exact pages", 20, 1, 10, 2},
		{"partial last page", 21, 3, 10, 3},
		{"empty", 0, 1, 10, 0},
		{"single page", 3, 1, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.expectedTotalPages, p.TotalPages)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
		})
	}
}

func TestFilter_Offset(t *testing.T) {
	assert.Equal(t, int64(0), Filter{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, int64(20), Filter{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, int64(0), Filter{Page: 0, Limit: 10}.Offset())

	huge := Filter{Page: math.MaxInt64, Limit: 100}
	assert.False(t, huge.PageInRange())
	assert.Equal(t, int64(math.MaxInt64), huge.Offset())

	last := Filter{Page: math.MaxInt64/100 + 1, Limit: 100}
	assert.True(t, last.PageInRange())
	assert.Positive(t, last.Offset())
}

func TestChanges_Empty(t *testing.T) {
	assert.True(t, Changes{}.Empty())

	name := "Allen"
	assert.False(t, Changes{Name: &name}.Empty())
}
