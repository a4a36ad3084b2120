package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restbridge/restbridge/internal/types"
)

func TestParsePageRequest(t *testing.T) {
	tests := []struct {
		name       string
		rawPage    string
		rawSize    string
		maxSize    int
		expectPage int
		expectSize int
		expectErr  string
	}{
		{name: "defaults", expectPage: 1, expectSize: 80},
		{name: "explicit_values", rawPage: "3", rawSize: "25", expectPage: 3, expectSize: 25},
		{name: "negative_page", rawPage: "-1", expectErr: "Invalid page number '-1'"},
		{name: "zero_page", rawPage: "0", expectErr: "Invalid page number '0'"},
		{name: "non_numeric_page", rawPage: "abc", expectErr: "Invalid page number 'abc'"},
		{name: "negative_size", rawSize: "-5", expectErr: "Invalid page size '-5'"},
		{name: "zero_size", rawSize: "0", expectErr: "Invalid page size '0'"},
		{name: "non_numeric_size", rawSize: "lots", expectErr: "Invalid page size 'lots'"},
		{name: "size_within_cap", rawSize: "100", maxSize: 100, expectPage: 1, expectSize: 100},
		{name: "size_over_cap", rawSize: "101", maxSize: 100, expectErr: "Page size '101' exceeds the maximum of 100"},
		{name: "no_cap_allows_large_size", rawSize: "100000", expectPage: 1, expectSize: 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size, err := ParsePageRequest(tt.rawPage, tt.rawSize, tt.maxSize)
			if tt.expectErr != "" {
				require.Error(t, err)
				assert.True(t, types.IsValidation(err))
				assert.Equal(t, tt.expectErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectPage, page)
			assert.Equal(t, tt.expectSize, size)
		})
	}
}

func TestNewWindow(t *testing.T) {
	assert.Equal(t, Window{Offset: 0, Limit: 80}, NewWindow(1, 80))
	assert.Equal(t, Window{Offset: 80, Limit: 80}, NewWindow(2, 80))
	assert.Equal(t, Window{Offset: 10, Limit: 2}, NewWindow(6, 2))
}

func records(n int) []types.Record {
	out := make([]types.Record, n)
	for i := range out {
		out[i] = types.Record{"id": int64(i + 1)}
	}
	return out
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		size       int
		total      int64
		returned   int
		totalPages int
		first      bool
		last       bool
		empty      bool
	}{
		{name: "empty_result", page: 1, size: 80, total: 0, returned: 0, totalPages: 0, first: true, last: true, empty: true},
		{name: "single_partial_page", page: 1, size: 80, total: 3, returned: 3, totalPages: 1, first: true, last: true},
		{name: "first_of_two", page: 1, size: 2, total: 3, returned: 2, totalPages: 2, first: true},
		{name: "last_of_two", page: 2, size: 2, total: 3, returned: 1, totalPages: 2, last: true},
		{name: "exact_division", page: 2, size: 5, total: 10, returned: 5, totalPages: 2, last: true},
		{name: "middle_page", page: 2, size: 10, total: 35, returned: 10, totalPages: 4},
		{name: "page_past_the_end", page: 9, size: 10, total: 35, returned: 0, totalPages: 4, empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Summarize(tt.page, tt.size, tt.total, records(tt.returned), "id desc")
			assert.Equal(t, tt.total, res.TotalElements)
			assert.Equal(t, tt.totalPages, res.TotalPages)
			assert.Equal(t, tt.page, res.Number)
			assert.Equal(t, tt.size, res.Size)
			assert.Equal(t, tt.returned, res.NumberOfElements)
			assert.Equal(t, tt.first, res.First)
			assert.Equal(t, tt.last, res.Last)
			assert.Equal(t, tt.empty, res.Empty)
			assert.Equal(t, "id desc", res.Sort)
		})
	}
}

// totalPages must equal ceil(total/size) for every valid combination.
func TestSummarizeTotalPagesInvariant(t *testing.T) {
	for size := 1; size <= 7; size++ {
		for total := int64(0); total <= 25; total++ {
			res := Summarize(1, size, total, nil, "id desc")
			want := int((total + int64(size) - 1) / int64(size))
			assert.Equal(t, want, res.TotalPages,
				fmt.Sprintf("size=%d total=%d", size, total))
		}
	}
}

func TestSummarizeNilContentMarshalsAsEmptyList(t *testing.T) {
	res := Summarize(1, 80, 0, nil, "id desc")
	require.NotNil(t, res.Content)
	assert.Len(t, res.Content, 0)
}
