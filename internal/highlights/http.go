package highlights

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
)

// Store is the slice of the repository the HTTP layer needs; handlers are
// wired against it so tests can substitute an in-memory implementation.
type Store interface {
	List(ctx context.Context, f ListFilter) ([]Highlight, int64, error)
	ListGrouped(ctx context.Context) ([]Grouped, error)
	ListFeatured(ctx context.Context, limit int) ([]Highlight, error)
	Get(ctx context.Context, id int64) (*Highlight, error)
	GetActive(ctx context.Context, id int64) (*Highlight, error)
	Create(ctx context.Context, in CreateInput, adminID int64) (*Highlight, error)
	Update(ctx context.Context, id int64, in UpdateInput, adminID int64) (*Highlight, error)
	Delete(ctx context.Context, id int64) error
	ToggleFeatured(ctx context.Context, id, adminID int64) (*Highlight, error)
	ToggleActive(ctx context.Context, id, adminID int64) (*Highlight, error)
	BulkUpdate(ctx context.Context, ids []int64, col string, val bool, adminID int64) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	Reorder(ctx context.Context, ids []int64, adminID int64) error
	Stats(ctx context.Context) (*Stats, error)
}

// Handler serves the public gallery routes. Only active highlights are
// visible; fetching a detail page bumps the view counter.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/grouped", h.grouped)
	rg.GET("/category/:category", h.byCategory)
	rg.GET("/featured/list", h.featured)
	rg.GET("/stats/overview", h.stats)
	rg.GET("/meta/categories", h.categories)
	rg.GET("/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	page, limit, offset := httpapi.PageParams(c, 12)
	f := ListFilter{Category: c.Query("category"), ActiveOnly: true, Limit: limit, Offset: offset}
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
		log.Printf("[error] list highlights: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch highlights", err)
		return
	}
	httpapi.Paginated(c, items, httpapi.NewPagination(page, limit, total))
}

func (h *Handler) grouped(c *gin.Context) {
	groups, err := h.store.ListGrouped(c.Request.Context())
	if err != nil {
		log.Printf("[error] list highlights grouped: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch highlights", err)
		return
	}
	httpapi.OK(c, groups)
}

func (h *Handler) byCategory(c *gin.Context) {
	category := c.Param("category")
	if !ValidCategory(category) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid highlight category")
		return
	}
	page, limit, offset := httpapi.PageParams(c, 12)
	items, total, err := h.store.List(c.Request.Context(),
		ListFilter{Category: category, ActiveOnly: true, Limit: limit, Offset: offset})
	if err != nil {
		log.Printf("[error] list highlights by category: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch highlights", err)
		return
	}
	httpapi.Paginated(c, items, httpapi.NewPagination(page, limit, total))
}

func (h *Handler) featured(c *gin.Context) {
	limit := 6
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	items, err := h.store.ListFeatured(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[error] list featured highlights: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch highlights", err)
		return
	}
	httpapi.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid highlight ID")
		return
	}
	item, err := h.store.GetActive(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Highlight not found")
			return
		}
		log.Printf("[error] get highlight %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch highlight", err)
		return
	}
	httpapi.OK(c, item)
}

func (h *Handler) stats(c *gin.Context) {
	s, err := h.store.Stats(c.Request.Context())
	if err != nil {
		log.Printf("[error] highlight stats: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch highlight statistics", err)
		return
	}
	httpapi.OK(c, s)
}

func (h *Handler) categories(c *gin.Context) {
	httpapi.OK(c, Categories)
}
