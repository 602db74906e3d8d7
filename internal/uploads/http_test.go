package uploads

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	r := gin.New()
	NewHandler(dir).Register(r.Group("/upload"))
	return r, dir
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	r, dir := newUploadRouter(t)

	body, contentType := multipartBody(t, "image", "photo.png", "image/png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/upload/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			Filename string `json:"filename"`
			URL      string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Data.Filename, "project-"))
	assert.True(t, strings.HasSuffix(resp.Data.Filename, ".png"))
	assert.Equal(t, "/uploads/"+resp.Data.Filename, resp.Data.URL)

	saved, err := os.ReadFile(filepath.Join(dir, resp.Data.Filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), saved)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	r, dir := newUploadRouter(t)

	body, contentType := multipartBody(t, "image", "doc.pdf", "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/upload/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadRequiresFile(t *testing.T) {
	r, _ := newUploadRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/upload/image", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteImage(t *testing.T) {
	r, dir := newUploadRouter(t)
	name := "project-test.png"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/upload/image/"+name, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	_, err := os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteMissingImage(t *testing.T) {
	r, _ := newUploadRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/upload/image/project-nope.png", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRejectsTraversal(t *testing.T) {
	r, _ := newUploadRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/upload/image/..%2F..%2Fetc%2Fpasswd", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
