package projects

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
)

// Handler serves the public, read-only project routes.
type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/meta/categories", h.categories)
	rg.GET("/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	page, limit, offset := httpapi.PageParams(c, 10)
	f := ListFilter{Category: c.Query("category"), Limit: limit, Offset: offset}
	if f.Category == "all" {
		f.Category = ""
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		f.Featured = &featured
	}

	items, total, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		log.Printf("[error] list projects: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch projects", err)
		return
	}
	httpapi.Paginated(c, items, httpapi.NewPagination(page, limit, total))
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid project ID")
		return
	}
	p, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Project not found")
			return
		}
		log.Printf("[error] get project %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch project", err)
		return
	}
	httpapi.OK(c, p)
}

func (h *Handler) categories(c *gin.Context) {
	cats, err := h.repo.DistinctCategories(c.Request.Context())
	if err != nil {
		log.Printf("[error] list project categories: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch categories", err)
		return
	}
	httpapi.OK(c, cats)
}
