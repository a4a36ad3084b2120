package query

import (
	"strconv"

	"github.com/restbridge/restbridge/internal/types"
)

// Pagination defaults.
const (
	DefaultPage = 1
	// DefaultPageSize is the number of records per page when _size is
	// omitted.
	DefaultPageSize = 80
)

// Window is the store-level slice of a page request.
type Window struct {
	Offset int
	Limit  int
}

// ParsePageRequest validates the raw _page/_size values and applies the
// defaults. maxSize caps the page size when positive; breaching the cap
// is an error, never a silent clamp. The raw value is echoed in the error
// message so clients see exactly what was rejected.
func ParsePageRequest(rawPage, rawSize string, maxSize int) (page, size int, err error) {
	page = DefaultPage
	if rawPage != "" {
		page, err = strconv.Atoi(rawPage)
		if err != nil || page < 1 {
			return 0, 0, types.NewValidation("Invalid page number '%s'", rawPage)
		}
	}

	size = DefaultPageSize
	if rawSize != "" {
		size, err = strconv.Atoi(rawSize)
		if err != nil || size < 1 {
			return 0, 0, types.NewValidation("Invalid page size '%s'", rawSize)
		}
	}
	if maxSize > 0 && size > maxSize {
		return 0, 0, types.NewValidation("Page size '%d' exceeds the maximum of %d", size, maxSize)
	}
	return page, size, nil
}

// NewWindow computes the store offset and limit for a validated page
// request. A page past the end of the result produces a window the store
// answers with no rows; that is not an error.
func NewWindow(page, size int) Window {
	return Window{Offset: (page - 1) * size, Limit: size}
}

// Summarize builds the browse envelope for one fetched page.
func Summarize(page, size int, total int64, content []types.Record, sort string) types.PageResult {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	if content == nil {
		content = []types.Record{}
	}
	return types.PageResult{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Last:             totalPages == 0 || page == totalPages,
		First:            page == 1,
		NumberOfElements: len(content),
		Size:             size,
		Number:           page,
		Sort:             sort,
		Empty:            len(content) == 0,
	}
}
