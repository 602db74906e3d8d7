package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hafizkhan902/portfolio-backend/internal/admins"
)

type stubAccounts struct {
	admin    *admins.Admin
	findErr  error
	touched  []int64
	touchErr error
}

func (s *stubAccounts) FindByLogin(ctx context.Context, login string) (*admins.Admin, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.admin, nil
}

func (s *stubAccounts) TouchLastLogin(ctx context.Context, id int64) error {
	s.touched = append(s.touched, id)
	return s.touchErr
}

func (s *stubAccounts) Create(ctx context.Context, username, email, passwordHash, role string) (*admins.Admin, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAccounts) List(ctx context.Context) ([]admins.Admin, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAccounts) SetStatus(ctx context.Context, id int64, active bool) (*admins.Admin, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAccounts) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return errors.New("not implemented")
}

func newLoginRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(store, []byte("test-secret")).Register(r.Group("/admin"), r.Group("/p"), r.Group("/s"))
	return r
}

func postLogin(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginSuccess(t *testing.T) {
	hash, err := admins.HashPassword("s3cret-pass")
	require.NoError(t, err)
	store := &stubAccounts{admin: &admins.Admin{
		ID: 7, Username: "hafiz", PasswordHash: hash, Role: admins.RoleSuperAdmin, IsActive: true,
	}}
	r := newLoginRouter(store)

	w := postLogin(r, `{"username":"hafiz","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, []int64{7}, store.touched)

	id, err := ParseToken([]byte("test-secret"), resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestLoginUnknownAdmin(t *testing.T) {
	store := &stubAccounts{findErr: admins.ErrNotFound}
	r := newLoginRouter(store)

	w := postLogin(r, `{"username":"nobody","password":"whatever"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, store.touched)
}

func TestLoginStoreFailureIsServerError(t *testing.T) {
	store := &stubAccounts{findErr: errors.New("connection refused")}
	r := newLoginRouter(store)

	w := postLogin(r, `{"username":"hafiz","password":"s3cret-pass"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "Invalid credentials")
}

func TestLoginInactiveAdmin(t *testing.T) {
	hash, err := admins.HashPassword("s3cret-pass")
	require.NoError(t, err)
	store := &stubAccounts{admin: &admins.Admin{ID: 7, Username: "hafiz", PasswordHash: hash}}
	r := newLoginRouter(store)

	w := postLogin(r, `{"username":"hafiz","password":"s3cret-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "inactive account")
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := admins.HashPassword("s3cret-pass")
	require.NoError(t, err)
	store := &stubAccounts{admin: &admins.Admin{ID: 7, Username: "hafiz", PasswordHash: hash, IsActive: true}}
	r := newLoginRouter(store)

	w := postLogin(r, `{"username":"hafiz","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
