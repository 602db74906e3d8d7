package journey

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
	"github.com/hafizkhan902/portfolio-backend/internal/auth"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
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
	rg.POST("/reorder", h.reorder)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.remove)
}

func validYear(y int) bool {
	return y >= 1900 && y <= time.Now().Year()+10
}

func (h *AdminHandler) list(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	if err != nil {
		log.Printf("[error] admin list journey: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch journey", err)
		return
	}
	httpapi.OK(c, items)
}

func (h *AdminHandler) get(c *gin.Context) {
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
		log.Printf("[error] admin get journey entry %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch journey entry", err)
		return
	}
	httpapi.OK(c, e)
}

func (h *AdminHandler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Year, title and description are required")
		return
	}
	if !validYear(*in.Year) {
		httpapi.Fail(c, http.StatusBadRequest, "Year must be between 1900 and ten years from now")
		return
	}
	if len(in.Title) > maxTitleLen {
		httpapi.Fail(c, http.StatusBadRequest, "Title must be 200 characters or fewer")
		return
	}
	if len(in.Description) > maxDescriptionLen {
		httpapi.Fail(c, http.StatusBadRequest, "Description must be 1000 characters or fewer")
		return
	}

	e, err := h.store.Create(c.Request.Context(), in, auth.CurrentAdminID(c))
	if err != nil {
		if errors.Is(err, ErrDuplicateOrder) {
			httpapi.Fail(c, http.StatusBadRequest, "Display order already exists. Please choose a different order.")
			return
		}
		log.Printf("[error] create journey entry: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to create journey entry", err)
		return
	}
	httpapi.Created(c, e, "Journey entry created successfully")
}

func (h *AdminHandler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid journey entry ID")
		return
	}
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Year != nil && !validYear(*in.Year) {
		httpapi.Fail(c, http.StatusBadRequest, "Year must be between 1900 and ten years from now")
		return
	}
	if in.Title != nil && len(*in.Title) > maxTitleLen {
		httpapi.Fail(c, http.StatusBadRequest, "Title must be 200 characters or fewer")
		return
	}
	if in.Description != nil && len(*in.Description) > maxDescriptionLen {
		httpapi.Fail(c, http.StatusBadRequest, "Description must be 1000 characters or fewer")
		return
	}

	e, err := h.store.Update(c.Request.Context(), id, in, auth.CurrentAdminID(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpapi.Fail(c, http.StatusNotFound, "Journey entry not found")
		case errors.Is(err, ErrDuplicateOrder):
			httpapi.Fail(c, http.StatusBadRequest, "Display order already exists. Please choose a different order.")
		default:
			log.Printf("[error] update journey entry %d: %v", id, err)
			httpapi.Error(c, http.StatusInternalServerError, "Failed to update journey entry", err)
		}
		return
	}
	httpapi.OKMessage(c, e, "Journey entry updated successfully")
}

func (h *AdminHandler) remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid journey entry ID")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Journey entry not found")
			return
		}
		log.Printf("[error] delete journey entry %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to delete journey entry", err)
		return
	}
	httpapi.OKMessage(c, nil, "Journey entry deleted successfully")
}

type reorderRequest struct {
	JourneyIDs []int64 `json:"journeyIds" binding:"required"`
}

func (h *AdminHandler) reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.JourneyIDs) == 0 {
		httpapi.Fail(c, http.StatusBadRequest, "A non-empty journeyIds list is required")
		return
	}
	if err := h.store.Reorder(c.Request.Context(), req.JourneyIDs, auth.CurrentAdminID(c)); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpapi.Fail(c, http.StatusNotFound, "One or more journey entries were not found")
		case errors.Is(err, ErrDuplicateOrder):
			httpapi.Fail(c, http.StatusBadRequest, "Reorder would leave duplicate display orders")
		default:
			log.Printf("[error] reorder journey: %v", err)
			httpapi.Error(c, http.StatusInternalServerError, "Failed to reorder journey", err)
		}
		return
	}
	httpapi.OKMessage(c, nil, "Journey reordered successfully")
}

func (h *AdminHandler) stats(c *gin.Context) {
	s, err := h.store.Stats(c.Request.Context())
	if err != nil {
		log.Printf("[error] journey stats: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch journey statistics", err)
		return
	}
	httpapi.OK(c, s)
}
