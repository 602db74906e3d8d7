package resumes

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
	"github.com/hafizkhan902/portfolio-backend/internal/auth"
)

// 10 MB is plenty for a PDF résumé.
const maxResumeSize = 10 << 20

type AdminHandler struct {
	repo *Repo
}

func NewAdminHandler(repo *Repo) *AdminHandler {
	return &AdminHandler{repo: repo}
}

func (h *AdminHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.upload)
	rg.PATCH("/:id/toggle-active", h.toggleActive)
	rg.PATCH("/:id/toggle-public", h.togglePublic)
	rg.DELETE("/:id", h.remove)
}

func (h *AdminHandler) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context(), false)
	if err != nil {
		log.Printf("[error] admin list resumes: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch resumes", err)
		return
	}
	httpapi.OK(c, items)
}

func (h *AdminHandler) upload(c *gin.Context) {
	file, err := c.FormFile("resume")
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "A resume file is required (field \"resume\")")
		return
	}
	if file.Size > maxResumeSize {
		httpapi.Fail(c, http.StatusBadRequest, "Resume file must be 10MB or smaller")
		return
	}
	contentType := file.Header.Get("Content-Type")
	if contentType != "application/pdf" {
		httpapi.Fail(c, http.StatusBadRequest, "Only PDF resumes are accepted")
		return
	}

	title := c.PostForm("title")
	version := c.PostForm("version")
	if title == "" || version == "" {
		httpapi.Fail(c, http.StatusBadRequest, "Title and version are required")
		return
	}

	src, err := file.Open()
	if err != nil {
		log.Printf("[error] open resume upload: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to read uploaded file", err)
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		log.Printf("[error] read resume upload: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to read uploaded file", err)
		return
	}

	var tags []string
	if raw := c.PostForm("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	res, err := h.repo.Upload(c.Request.Context(), UploadInput{
		Title:        title,
		OriginalName: file.Filename,
		ContentType:  contentType,
		Data:         data,
		Version:      version,
		Description:  c.PostForm("description"),
		Tags:         tags,
	}, auth.CurrentAdminID(c))
	if err != nil {
		if errors.Is(err, ErrDuplicateVersion) {
			httpapi.Fail(c, http.StatusBadRequest, "A resume with this version already exists")
			return
		}
		log.Printf("[error] upload resume: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to upload resume", err)
		return
	}
	httpapi.Created(c, res, "Resume uploaded successfully")
}

func (h *AdminHandler) toggleActive(c *gin.Context) {
	h.togglePatch(c, h.repo.ToggleActive, "Resume active status updated")
}

func (h *AdminHandler) togglePublic(c *gin.Context) {
	h.togglePatch(c, h.repo.TogglePublic, "Resume visibility updated")
}

func (h *AdminHandler) togglePatch(c *gin.Context,
	fn func(ctx context.Context, id, adminID int64) (*Resume, error), msg string) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid resume ID")
		return
	}
	res, err := fn(c.Request.Context(), id, auth.CurrentAdminID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Resume not found")
			return
		}
		log.Printf("[error] toggle resume %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to update resume", err)
		return
	}
	httpapi.OKMessage(c, res, msg)
}

func (h *AdminHandler) remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid resume ID")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Resume not found")
			return
		}
		log.Printf("[error] delete resume %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to delete resume", err)
		return
	}
	httpapi.OKMessage(c, nil, "Resume deleted successfully")
}
