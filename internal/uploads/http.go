// Package uploads stores project images on local disk and serves delete
// and upload endpoints for the admin console. Files land in the configured
// upload directory and are exposed statically under /uploads.
package uploads

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
)

const (
	maxImageSize = 5 << 20
	maxBatchSize = 10
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var errUnsupportedType = errors.New("unsupported image type")

type Handler struct {
	dir string
	// publicPath is the URL prefix the files are served under.
	publicPath string
}

func NewHandler(dir string) *Handler {
	return &Handler{dir: dir, publicPath: "/uploads"}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/image", h.uploadOne)
	rg.POST("/images", h.uploadMany)
	rg.DELETE("/image/:filename", h.remove)
}

func (h *Handler) save(file *multipart.FileHeader) (string, error) {
	contentType := file.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w %q", errUnsupportedType, contentType)
	}
	name := "project-" + uuid.NewString() + ext
	dst := filepath.Join(h.dir, name)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := out.ReadFrom(src); err != nil {
		os.Remove(dst)
		return "", err
	}
	return name, nil
}

func (h *Handler) fileResponse(name string) gin.H {
	return gin.H{"filename": name, "url": h.publicPath + "/" + name}
}

func (h *Handler) uploadOne(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "An image file is required (field \"image\")")
		return
	}
	if file.Size > maxImageSize {
		httpapi.Fail(c, http.StatusBadRequest, "Image must be 5MB or smaller")
		return
	}

	name, err := h.save(file)
	if err != nil {
		if errors.Is(err, errUnsupportedType) {
			httpapi.Fail(c, http.StatusBadRequest, "Only JPEG, PNG, GIF and WebP images are accepted")
			return
		}
		log.Printf("[error] save upload: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to save image", err)
		return
	}
	httpapi.Created(c, h.fileResponse(name), "Image uploaded successfully")
}

func (h *Handler) uploadMany(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Image files are required (field \"images\")")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		httpapi.Fail(c, http.StatusBadRequest, "Image files are required (field \"images\")")
		return
	}
	if len(files) > maxBatchSize {
		httpapi.Fail(c, http.StatusBadRequest, "At most 10 images per upload")
		return
	}

	saved := []gin.H{}
	for _, file := range files {
		if file.Size > maxImageSize {
			h.cleanup(saved)
			httpapi.Fail(c, http.StatusBadRequest,
				fmt.Sprintf("Image %q exceeds the 5MB limit", file.Filename))
			return
		}
		name, err := h.save(file)
		if err != nil {
			h.cleanup(saved)
			if errors.Is(err, errUnsupportedType) {
				httpapi.Fail(c, http.StatusBadRequest, "Only JPEG, PNG, GIF and WebP images are accepted")
				return
			}
			log.Printf("[error] save upload: %v", err)
			httpapi.Error(c, http.StatusInternalServerError, "Failed to save images", err)
			return
		}
		saved = append(saved, h.fileResponse(name))
	}
	httpapi.Created(c, saved, "Images uploaded successfully")
}

// cleanup removes the files written so far when a batch upload fails midway.
func (h *Handler) cleanup(saved []gin.H) {
	for _, f := range saved {
		if name, ok := f["filename"].(string); ok {
			os.Remove(filepath.Join(h.dir, name))
		}
	}
}

func (h *Handler) remove(c *gin.Context) {
	name := c.Param("filename")
	// Reject anything that could escape the upload directory.
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid filename")
		return
	}

	path := filepath.Join(h.dir, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			httpapi.Fail(c, http.StatusNotFound, "Image not found")
			return
		}
		log.Printf("[error] delete upload %s: %v", name, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to delete image", err)
		return
	}
	httpapi.OKMessage(c, nil, "Image deleted successfully")
}
