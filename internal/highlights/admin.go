package highlights

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
	"github.com/hafizkhan902/portfolio-backend/internal/auth"
)

type AdminHandler struct {
	store Store
}

func NewAdminHandler(store Store) *AdminHandler {
	return &AdminHandler{store: store}
}

func (h *AdminHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/stats", h.stats)
	rg.POST("/bulk", h.bulk)
	rg.POST("/reorder", h.reorder)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.remove)
	rg.PATCH("/:id/toggle-featured", h.toggleFeatured)
	rg.PATCH("/:id/toggle-active", h.toggleActive)
}

func (h *AdminHandler) list(c *gin.Context) {
	page, limit, offset := httpapi.PageParams(c, 12)
	f := ListFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   offset,
	}
	if v := c.Query("isActive"); v != "" {
		active := v == "true"
		f.IsActive = &active
	}
	if f.Category != "" && !ValidCategory(f.Category) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid highlight category")
		return
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		f.Featured = &featured
	}

	items, total, err := h.store.List(c.Request.Context(), f)
	if err != nil {
		log.Printf("[error] admin list highlights: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch highlights", err)
		return
	}
	httpapi.Paginated(c, items, httpapi.NewPagination(page, limit, total))
}

func (h *AdminHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid highlight ID")
		return
	}
	item, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Highlight not found")
			return
		}
		log.Printf("[error] admin get highlight %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch highlight", err)
		return
	}
	httpapi.OK(c, item)
}

func (h *AdminHandler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Title, description and category are required")
		return
	}
	if !ValidCategory(in.Category) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid highlight category")
		return
	}

	item, err := h.store.Create(c.Request.Context(), in, auth.CurrentAdminID(c))
	if err != nil {
		if errors.Is(err, ErrDuplicateOrder) {
			httpapi.Fail(c, http.StatusBadRequest, "Display order already exists. Please choose a different order.")
			return
		}
		log.Printf("[error] create highlight: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to create highlight", err)
		return
	}
	httpapi.Created(c, item, "Highlight created successfully")
}

func (h *AdminHandler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid highlight ID")
		return
	}
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Category != nil && !ValidCategory(*in.Category) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid highlight category")
		return
	}

	item, err := h.store.Update(c.Request.Context(), id, in, auth.CurrentAdminID(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpapi.Fail(c, http.StatusNotFound, "Highlight not found")
		case errors.Is(err, ErrDuplicateOrder):
			httpapi.Fail(c, http.StatusBadRequest, "Display order already exists. Please choose a different order.")
		default:
			log.Printf("[error] update highlight %d: %v", id, err)
			httpapi.Error(c, http.StatusInternalServerError, "Failed to update highlight", err)
		}
		return
	}
	httpapi.OKMessage(c, item, "Highlight updated successfully")
}

func (h *AdminHandler) remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid highlight ID")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Highlight not found")
			return
		}
		log.Printf("[error] delete highlight %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to delete highlight", err)
		return
	}
	httpapi.OKMessage(c, nil, "Highlight deleted successfully")
}

func (h *AdminHandler) toggleFeatured(c *gin.Context) {
	h.togglePatch(c, h.store.ToggleFeatured, "Highlight featured status updated")
}

func (h *AdminHandler) toggleActive(c *gin.Context) {
	h.togglePatch(c, h.store.ToggleActive, "Highlight visibility updated")
}

func (h *AdminHandler) togglePatch(c *gin.Context,
	fn func(ctx context.Context, id, adminID int64) (*Highlight, error), msg string) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid highlight ID")
		return
	}
	item, err := fn(c.Request.Context(), id, auth.CurrentAdminID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Highlight not found")
			return
		}
		log.Printf("[error] toggle highlight %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to update highlight", err)
		return
	}
	httpapi.OKMessage(c, item, msg)
}

type bulkRequest struct {
	Action       string  `json:"action" binding:"required"`
	HighlightIDs []int64 `json:"highlightIds" binding:"required"`
}

func (h *AdminHandler) bulk(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.HighlightIDs) == 0 {
		httpapi.Fail(c, http.StatusBadRequest, "Action and a non-empty highlightIds list are required")
		return
	}

	ctx := c.Request.Context()
	adminID := auth.CurrentAdminID(c)
	var affected int64
	var err error
	switch req.Action {
	case "activate":
		affected, err = h.store.BulkUpdate(ctx, req.HighlightIDs, "is_active", true, adminID)
	case "deactivate":
		affected, err = h.store.BulkUpdate(ctx, req.HighlightIDs, "is_active", false, adminID)
	case "feature":
		affected, err = h.store.BulkUpdate(ctx, req.HighlightIDs, "featured", true, adminID)
	case "unfeature":
		affected, err = h.store.BulkUpdate(ctx, req.HighlightIDs, "featured", false, adminID)
	case "delete":
		affected, err = h.store.BulkDelete(ctx, req.HighlightIDs)
	default:
		httpapi.Fail(c, http.StatusBadRequest, "Invalid bulk action")
		return
	}
	if err != nil {
		log.Printf("[error] bulk %s highlights: %v", req.Action, err)
		httpapi.Error(c, http.StatusInternalServerError, "Bulk operation failed", err)
		return
	}
	httpapi.OKMessage(c, gin.H{"affected": affected}, "Bulk operation completed")
}

type reorderRequest struct {
	HighlightIDs []int64 `json:"highlightIds" binding:"required"`
}

func (h *AdminHandler) reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.HighlightIDs) == 0 {
		httpapi.Fail(c, http.StatusBadRequest, "A non-empty highlightIds list is required")
		return
	}
	if err := h.store.Reorder(c.Request.Context(), req.HighlightIDs, auth.CurrentAdminID(c)); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpapi.Fail(c, http.StatusNotFound, "One or more highlights were not found")
		case errors.Is(err, ErrDuplicateOrder):
			httpapi.Fail(c, http.StatusBadRequest, "Reorder would leave duplicate display orders")
		default:
			log.Printf("[error] reorder highlights: %v", err)
			httpapi.Error(c, http.StatusInternalServerError, "Failed to reorder highlights", err)
		}
		return
	}
	httpapi.OKMessage(c, nil, "Highlights reordered successfully")
}

func (h *AdminHandler) stats(c *gin.Context) {
	s, err := h.store.Stats(c.Request.Context())
	if err != nil {
		log.Printf("[error] highlight stats: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch highlight statistics", err)
		return
	}
	httpapi.OK(c, s)
}
