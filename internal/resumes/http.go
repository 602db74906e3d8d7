package resumes

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
)

// Handler serves the public résumé routes.
type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/active", h.active)
	rg.GET("/public", h.publicList)
	rg.GET("/download/:id", h.download)
}

func (h *Handler) active(c *gin.Context) {
	res, err := h.repo.Active(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "No active resume available")
			return
		}
		log.Printf("[error] get active resume: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch resume", err)
		return
	}
	httpapi.OK(c, res)
}

func (h *Handler) publicList(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context(), true)
	if err != nil {
		log.Printf("[error] list public resumes: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch resumes", err)
		return
	}
	httpapi.OK(c, items)
}

func (h *Handler) download(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid resume ID")
		return
	}
	f, err := h.repo.Download(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Resume not found")
			return
		}
		log.Printf("[error] download resume %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to download resume", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.OriginalName))
	c.Data(http.StatusOK, f.ContentType, f.Data)
}
