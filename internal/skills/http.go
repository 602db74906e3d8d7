package skills

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
	List(ctx context.Context, f ListFilter) ([]Skill, int64, error)
	ListGrouped(ctx context.Context) ([]Grouped, error)
	Get(ctx context.Context, id int64) (*Skill, error)
	GetActive(ctx context.Context, id int64) (*Skill, error)
	Create(ctx context.Context, in CreateInput, adminID int64) (*Skill, error)
	Update(ctx context.Context, id int64, in UpdateInput, adminID int64) (*Skill, error)
	Delete(ctx context.Context, id int64) error
	ToggleActive(ctx context.Context, id, adminID int64) (*Skill, error)
	BulkSetActive(ctx context.Context, ids []int64, active bool, adminID int64) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	Reorder(ctx context.Context, category string, ids []int64, adminID int64) error
	Stats(ctx context.Context) (*Stats, error)
}

// Handler serves the public skill routes. Only active skills are visible here.
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
	rg.GET("/stats/overview", h.stats)
	rg.GET("/meta/categories", h.categories)
	rg.GET("/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	f := ListFilter{
		Category:    c.Query("category"),
		Proficiency: c.Query("proficiency"),
		ActiveOnly:  true,
	}
	if f.Category != "" && !ValidCategory(f.Category) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid skill category")
		return
	}
	if f.Proficiency != "" && !ValidProficiency(f.Proficiency) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid proficiency level")
		return
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}

	items, _, err := h.store.List(c.Request.Context(), f)
	if err != nil {
		log.Printf("[error] list skills: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch skills", err)
		return
	}
	httpapi.OK(c, items)
}

func (h *Handler) grouped(c *gin.Context) {
	groups, err := h.store.ListGrouped(c.Request.Context())
	if err != nil {
		log.Printf("[error] list skills grouped: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch skills", err)
		return
	}
	httpapi.OK(c, groups)
}

func (h *Handler) byCategory(c *gin.Context) {
	category := c.Param("category")
	if !ValidCategory(category) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid skill category")
		return
	}
	items, _, err := h.store.List(c.Request.Context(), ListFilter{Category: category, ActiveOnly: true})
	if err != nil {
		log.Printf("[error] list skills by category: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch skills", err)
		return
	}
	httpapi.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid skill ID")
		return
	}
	s, err := h.store.GetActive(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Skill not found")
			return
		}
		log.Printf("[error] get skill %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch skill", err)
		return
	}
	httpapi.OK(c, s)
}

func (h *Handler) stats(c *gin.Context) {
	s, err := h.store.Stats(c.Request.Context())
	if err != nil {
		log.Printf("[error] skill stats: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch skill statistics", err)
		return
	}
	httpapi.OK(c, s)
}

func (h *Handler) categories(c *gin.Context) {
	httpapi.OK(c, gin.H{
		"categories":    Categories,
		"proficiencies": Proficiencies,
		"iconLibraries": IconLibraries,
	})
}
