package projects

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
	"github.com/hafizkhan902/portfolio-backend/internal/auth"
)

// AdminHandler serves the authenticated management routes.
type AdminHandler struct {
	repo *Repo
}

func NewAdminHandler(repo *Repo) *AdminHandler {
	return &AdminHandler{repo: repo}
}

func (h *AdminHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/stats", h.stats)
	rg.POST("/bulk", h.bulk)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.remove)
	rg.PATCH("/:id/featured", h.toggleFeatured)
}

func (h *AdminHandler) list(c *gin.Context) {
	page, limit, offset := httpapi.PageParams(c, 10)
	f := ListFilter{Category: c.Query("category"), Sort: SortByCreated, Limit: limit, Offset: offset}
	if f.Category == "all" {
		f.Category = ""
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		f.Featured = &featured
	}

	items, total, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		log.Printf("[error] admin list projects: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch projects", err)
		return
	}
	httpapi.Paginated(c, items, httpapi.NewPagination(page, limit, total))
}

func (h *AdminHandler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Title, description, technologies, image URL and category are required")
		return
	}
	if !ValidCategory(in.Category) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid project category")
		return
	}
	if in.Status != "" && !ValidStatus(in.Status) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid project status")
		return
	}

	p, err := h.repo.Create(c.Request.Context(), in, auth.CurrentAdminID(c))
	if err != nil {
		log.Printf("[error] create project: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to create project", err)
		return
	}
	httpapi.Created(c, p, "Project created successfully")
}

func (h *AdminHandler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid project ID")
		return
	}
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Category != nil && !ValidCategory(*in.Category) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid project category")
		return
	}
	if in.Status != nil && !ValidStatus(*in.Status) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid project status")
		return
	}

	p, err := h.repo.Update(c.Request.Context(), id, in, auth.CurrentAdminID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Project not found")
			return
		}
		log.Printf("[error] update project %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to update project", err)
		return
	}
	httpapi.OKMessage(c, p, "Project updated successfully")
}

func (h *AdminHandler) remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid project ID")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Project not found")
			return
		}
		log.Printf("[error] delete project %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to delete project", err)
		return
	}
	httpapi.OKMessage(c, nil, "Project deleted successfully")
}

func (h *AdminHandler) toggleFeatured(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid project ID")
		return
	}
	p, err := h.repo.ToggleFeatured(c.Request.Context(), id, auth.CurrentAdminID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Project not found")
			return
		}
		log.Printf("[error] toggle featured %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to update project", err)
		return
	}
	httpapi.OKMessage(c, p, "Project featured status updated")
}

type bulkRequest struct {
	Action     string  `json:"action" binding:"required"`
	ProjectIDs []int64 `json:"projectIds" binding:"required"`
}

func (h *AdminHandler) bulk(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ProjectIDs) == 0 {
		httpapi.Fail(c, http.StatusBadRequest, "Action and a non-empty projectIds list are required")
		return
	}

	ctx := c.Request.Context()
	adminID := auth.CurrentAdminID(c)
	var affected int64
	var err error
	switch req.Action {
	case "feature":
		affected, err = h.repo.BulkSetFeatured(ctx, req.ProjectIDs, true, adminID)
	case "unfeature":
		affected, err = h.repo.BulkSetFeatured(ctx, req.ProjectIDs, false, adminID)
	case "delete":
		affected, err = h.repo.BulkDelete(ctx, req.ProjectIDs)
	default:
		httpapi.Fail(c, http.StatusBadRequest, "Invalid bulk action")
		return
	}
	if err != nil {
		log.Printf("[error] bulk %s projects: %v", req.Action, err)
		httpapi.Error(c, http.StatusInternalServerError, "Bulk operation failed", err)
		return
	}
	httpapi.OKMessage(c, gin.H{"affected": affected}, "Bulk operation completed")
}

func (h *AdminHandler) stats(c *gin.Context) {
	s, err := h.repo.Stats(c.Request.Context())
	if err != nil {
		log.Printf("[error] project stats: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch project statistics", err)
		return
	}
	httpapi.OK(c, s)
}
