package data_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aoideee/books-api/internal/data"
)

func Test_Filters_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      data.Filters
		expected data.Filters
	}{
		{name: "zero_page", raw: data.Filters{Page: 0, PageSize: 10}, expected: data.Filters{Page: 1, PageSize: 10}},
		{name: "negative_page", raw: data.Filters{Page: -3, PageSize: 10}, expected: data.Filters{Page: 1, PageSize: 10}},
		{name: "zero_page_size", raw: data.Filters{Page: 2, PageSize: 0}, expected: data.Filters{Page: 2, PageSize: 10}},
		{name: "oversized_page_size", raw: data.Filters{Page: 1, PageSize: 500}, expected: data.Filters{Page: 1, PageSize: 100}},
		{name: "already_valid", raw: data.Filters{Page: 3, PageSize: 100}, expected: data.Filters{Page: 3, PageSize: 100}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.raw.Normalize())
		})
	}
}

func Test_Paginate_Properties(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 50, 101} {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}

		for _, size := range []int{1, 3, 10, 100} {
			for page := 1; page <= 12; page++ {
				p := data.Paginate(items, data.Filters{Page: page, PageSize: size})

				wantCount := min(size, max(0, n-(page-1)*size))
				wantPages := int(math.Ceil(float64(n) / float64(size)))

				assert.Len(t, p.Items, wantCount, "n=%d size=%d page=%d", n, size, page)
				assert.Equal(t, n, p.TotalCount)
				assert.Equal(t, wantPages, p.TotalPages)
				assert.Equal(t, page < wantPages, p.HasNextPage)
				assert.Equal(t, page > 1, p.HasPreviousPage)
				if wantCount > 0 {
					assert.Equal(t, (page-1)*size, p.Items[0])
				}
			}
		}
	}
}

func Test_Paginate_PastTheEnd(t *testing.T) {
	p := data.Paginate([]string{"a", "b", "c"}, data.Filters{Page: 5, PageSize: 2})

	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.Equal(t, 3, p.TotalCount)
	assert.Equal(t, 2, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.True(t, p.HasPreviousPage)
}

func Test_Paginate_HugePageDoesNotOverflow(t *testing.T) {
	p := data.Paginate([]int{1, 2, 3}, data.Filters{Page: math.MaxInt, PageSize: 100})

	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.TotalPages)
}
