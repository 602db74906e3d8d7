package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, int64(25), p.Total)
	assert.Equal(t, int64(3), p.Pages)

	assert.Equal(t, int64(0), NewPagination(1, 10, 0).Pages)
	assert.Equal(t, int64(1), NewPagination(1, 10, 10).Pages)
	assert.Equal(t, int64(2), NewPagination(1, 10, 11).Pages)
}

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&limit=5", nil)
	page, limit, offset := PageParams(c, 20)
	assert.Equal(t, 3, page)
	assert.Equal(t, 5, limit)
	assert.Equal(t, 10, offset)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	page, limit, offset = PageParams(c, 20)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=-2&limit=0", nil)
	page, limit, _ = PageParams(c, 12)
	assert.Equal(t, 1, page)
	assert.Equal(t, 12, limit)
}

func TestErrorHidesDetailInProduction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	boom := errors.New("pq: connection refused")

	render := func(prod bool) Envelope {
		SetProduction(prod)
		defer SetProduction(false)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Error(c, http.StatusInternalServerError, "Something failed", boom)

		var e Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
		return e
	}

	dev := render(false)
	assert.False(t, dev.Success)
	assert.Equal(t, "Something failed", dev.Message)
	assert.Equal(t, boom.Error(), dev.Error)

	prod := render(true)
	assert.Equal(t, "Something failed", prod.Message)
	assert.Empty(t, prod.Error)
}
