package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hafizkhan902/portfolio-backend/internal/admins"
)

type stubFinder struct {
	admin *admins.Admin
	err   error
}

func (s *stubFinder) FindActiveByID(ctx context.Context, id int64) (*admins.Admin, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.admin, nil
}

func newAuthRouter(finder AdminFinder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireAdmin(testSecret, finder))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"adminId": CurrentAdminID(c)})
	})
	r.POST("/protected", func(c *gin.Context) {
		var body struct {
			Note string `json:"note"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"note": body.Note})
	})
	return r
}

func doRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestRequireAdminNoToken(t *testing.T) {
	r := newAuthRouter(&stubFinder{})
	w := doRequest(r, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access denied. No token provided.", messageOf(t, w))
}

func TestRequireAdminNullToken(t *testing.T) {
	r := newAuthRouter(&stubFinder{})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer null")
	w := doRequest(r, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access denied. Invalid token format.", messageOf(t, w))
}

func TestRequireAdminGarbageToken(t *testing.T) {
	r := newAuthRouter(&stubFinder{})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := doRequest(r, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access denied. Invalid token.", messageOf(t, w))
}

func TestRequireAdminHeaderVariants(t *testing.T) {
	admin := &admins.Admin{ID: 9, Username: "hafiz", Role: admins.RoleAdmin, IsActive: true}
	r := newAuthRouter(&stubFinder{admin: admin})
	token, err := GenerateToken(testSecret, admin.ID)
	require.NoError(t, err)

	for _, header := range []string{"Bearer " + token, "bearer " + token, token} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		w := doRequest(r, req)
		assert.Equal(t, http.StatusOK, w.Code, "header %q", header)
	}
}

func TestRequireAdminQueryToken(t *testing.T) {
	admin := &admins.Admin{ID: 3, IsActive: true, Role: admins.RoleAdmin}
	r := newAuthRouter(&stubFinder{admin: admin})
	token, err := GenerateToken(testSecret, admin.ID)
	require.NoError(t, err)

	w := doRequest(r, httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminBodyTokenPreservesBody(t *testing.T) {
	admin := &admins.Admin{ID: 5, IsActive: true, Role: admins.RoleAdmin}
	r := newAuthRouter(&stubFinder{admin: admin})
	token, err := GenerateToken(testSecret, admin.ID)
	require.NoError(t, err)

	payload := `{"token":"` + token + `","note":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/protected", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := doRequest(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	// The handler must still be able to bind the body after the peek.
	assert.Contains(t, w.Body.String(), "hello")
}

func TestRequireAdminInactiveAdmin(t *testing.T) {
	r := newAuthRouter(&stubFinder{err: admins.ErrNotFound})
	token, err := GenerateToken(testSecret, 11)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := doRequest(r, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access denied. Invalid token or inactive admin.", messageOf(t, w))
}

func TestRequireSuperAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(role string) *httptest.ResponseRecorder {
		admin := &admins.Admin{ID: 1, Role: role, IsActive: true}
		r := gin.New()
		r.Use(RequireAdmin(testSecret, &stubFinder{admin: admin}), RequireSuperAdmin())
		r.GET("/super", func(c *gin.Context) { c.Status(http.StatusOK) })

		token, _ := GenerateToken(testSecret, admin.ID)
		req := httptest.NewRequest(http.MethodGet, "/super", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return doRequest(r, req)
	}

	assert.Equal(t, http.StatusForbidden, run(admins.RoleAdmin).Code)
	assert.Equal(t, http.StatusOK, run(admins.RoleSuperAdmin).Code)
}
