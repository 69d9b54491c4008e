package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Size: DefaultPageSize}, NewPage(0, 0))
	assert.Equal(t, Page{Number: 3, Size: 50}, NewPage(3, 50))
	assert.Equal(t, Page{Number: 2, Size: DefaultPageSize}, NewPage(2, MaxPageSize+1))

	p := NewPage(3, 10)
	assert.Equal(t, uint64(20), p.Offset())
	assert.Equal(t, uint64(10), p.Limit())
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/x?page=4&size=abc", nil)

	assert.Equal(t, Page{Number: 4, Size: DefaultPageSize}, ParsePaginationParams(c))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
}

func TestParseDurationAndUnix(t *testing.T) {
	assert.Equal(t, 5*time.Minute, ParseDuration("5m", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("nope", time.Hour))
	assert.True(t, UnixOrZero(0).IsZero())
	assert.Equal(t, int64(1700000000), UnixOrZero(1700000000).Unix())
}
