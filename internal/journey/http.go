package journey

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
	List(ctx context.Context) ([]Entry, error)
	Get(ctx context.Context, id int64) (*Entry, error)
	Create(ctx context.Context, in CreateInput, adminID int64) (*Entry, error)
	Update(ctx context.Context, id int64, in UpdateInput, adminID int64) (*Entry, error)
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, ids []int64, adminID int64) error
	Stats(ctx context.Context) (*Stats, error)
}

// Handler serves the public timeline routes.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/stats/overview", h.stats)
	rg.GET("/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	if err != nil {
		log.Printf("[error] list journey: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch journey", err)
		return
	}
	httpapi.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid journey entry ID")
		return
	}
	e, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Journey entry not found")
			return
		}
		log.Printf("[error] get journey entry %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch journey entry", err)
		return
	}
	httpapi.OK(c, e)
}

func (h *Handler) stats(c *gin.Context) {
	s, err := h.store.Stats(c.Request.Context())
	if err != nil {
		log.Printf("[error] journey stats: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch journey statistics", err)
		return
	}
	httpapi.OK(c, s)
}
