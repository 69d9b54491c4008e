package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultPage     = 1
)

// Page is a normalised 1-based page request
type Page struct {
	Number int
	Size   int
}

// Offset converts the 1-based page to a SQL offset
func (p Page) Offset() uint64 {
	return uint64((p.Number - 1) * p.Size)
}

// Limit returns the page size as a SQL limit
func (p Page) Limit() uint64 {
	return uint64(p.Size)
}

// NewPage clamps the raw values into a usable page request
func NewPage(number, size int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// ParsePaginationParams extracts page and size query parameters
func ParsePaginationParams(c *gin.Context) Page {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = DefaultPage
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil {
		size = DefaultPageSize
	}
	return NewPage(page, size)
}

// TotalPages returns the page count for totalItems, at least 1
func TotalPages(totalItems int64, size int) int {
	if totalItems <= 0 || size <= 0 {
		return 1
	}
	return int(math.Ceil(float64(totalItems) / float64(size)))
}
