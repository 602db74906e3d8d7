package skills

import (
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
	rg.PATCH("/:id/toggle-active", h.toggleActive)
}

func (h *AdminHandler) validateIcon(c *gin.Context, icon *Icon) bool {
	if icon == nil {
		return true
	}
	if !ValidIconLibrary(icon.Library) {
		httpapi.Fail(c, http.StatusBadRequest, "Unknown icon library")
		return false
	}
	if !ValidIconName(icon.Name) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid icon name")
		return false
	}
	return true
}

func (h *AdminHandler) list(c *gin.Context) {
	page, limit, offset := httpapi.PageParams(c, 20)
	f := ListFilter{
		Category:    c.Query("category"),
		Proficiency: c.Query("proficiency"),
		Search:      c.Query("search"),
		Limit:       limit,
		Offset:      offset,
	}
	if f.Category != "" && !ValidCategory(f.Category) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid skill category")
		return
	}
	if v := c.Query("isActive"); v != "" {
		active := v == "true"
		f.IsActive = &active
	}

	items, total, err := h.store.List(c.Request.Context(), f)
	if err != nil {
		log.Printf("[error] admin list skills: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch skills", err)
		return
	}
	httpapi.Paginated(c, items, httpapi.NewPagination(page, limit, total))
}

func (h *AdminHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid skill ID")
		return
	}
	s, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Skill not found")
			return
		}
		log.Printf("[error] admin get skill %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch skill", err)
		return
	}
	httpapi.OK(c, s)
}

func (h *AdminHandler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Name, category, proficiency and proficiencyLevel are required")
		return
	}
	if !ValidCategory(in.Category) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid skill category")
		return
	}
	if !ValidProficiency(in.Proficiency) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid proficiency level")
		return
	}
	if *in.ProficiencyLevel < 1 || *in.ProficiencyLevel > 100 {
		httpapi.Fail(c, http.StatusBadRequest, "Proficiency level must be between 1 and 100")
		return
	}
	if !h.validateIcon(c, in.Icon) {
		return
	}

	s, err := h.store.Create(c.Request.Context(), in, auth.CurrentAdminID(c))
	if err != nil {
		if errors.Is(err, ErrDuplicateOrder) {
			httpapi.Fail(c, http.StatusBadRequest, "Display order already exists for this category. Please choose a different order.")
			return
		}
		log.Printf("[error] create skill: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to create skill", err)
		return
	}
	httpapi.Created(c, s, "Skill created successfully")
}

func (h *AdminHandler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid skill ID")
		return
	}
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Category != nil && !ValidCategory(*in.Category) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid skill category")
		return
	}
	if in.Proficiency != nil && !ValidProficiency(*in.Proficiency) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid proficiency level")
		return
	}
	if in.ProficiencyLevel != nil && (*in.ProficiencyLevel < 1 || *in.ProficiencyLevel > 100) {
		httpapi.Fail(c, http.StatusBadRequest, "Proficiency level must be between 1 and 100")
		return
	}
	if !h.validateIcon(c, in.Icon) {
		return
	}

	s, err := h.store.Update(c.Request.Context(), id, in, auth.CurrentAdminID(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpapi.Fail(c, http.StatusNotFound, "Skill not found")
		case errors.Is(err, ErrDuplicateOrder):
			httpapi.Fail(c, http.StatusBadRequest, "Display order already exists for this category. Please choose a different order.")
		default:
			log.Printf("[error] update skill %d: %v", id, err)
			httpapi.Error(c, http.StatusInternalServerError, "Failed to update skill", err)
		}
		return
	}
	httpapi.OKMessage(c, s, "Skill updated successfully")
}

func (h *AdminHandler) remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid skill ID")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Skill not found")
			return
		}
		log.Printf("[error] delete skill %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to delete skill", err)
		return
	}
	httpapi.OKMessage(c, nil, "Skill deleted successfully")
}

func (h *AdminHandler) toggleActive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid skill ID")
		return
	}
	s, err := h.store.ToggleActive(c.Request.Context(), id, auth.CurrentAdminID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Skill not found")
			return
		}
		log.Printf("[error] toggle skill active %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to update skill", err)
		return
	}
	httpapi.OKMessage(c, s, "Skill visibility updated")
}

type bulkRequest struct {
	Action   string  `json:"action" binding:"required"`
	SkillIDs []int64 `json:"skillIds" binding:"required"`
}

func (h *AdminHandler) bulk(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.SkillIDs) == 0 {
		httpapi.Fail(c, http.StatusBadRequest, "Action and a non-empty skillIds list are required")
		return
	}

	ctx := c.Request.Context()
	adminID := auth.CurrentAdminID(c)
	var affected int64
	var err error
	switch req.Action {
	case "activate":
		affected, err = h.store.BulkSetActive(ctx, req.SkillIDs, true, adminID)
	case "deactivate":
		affected, err = h.store.BulkSetActive(ctx, req.SkillIDs, false, adminID)
	case "delete":
		affected, err = h.store.BulkDelete(ctx, req.SkillIDs)
	default:
		httpapi.Fail(c, http.StatusBadRequest, "Invalid bulk action")
		return
	}
	if err != nil {
		log.Printf("[error] bulk %s skills: %v", req.Action, err)
		httpapi.Error(c, http.StatusInternalServerError, "Bulk operation failed", err)
		return
	}
	httpapi.OKMessage(c, gin.H{"affected": affected}, "Bulk operation completed")
}

type reorderRequest struct {
	Category string  `json:"category" binding:"required"`
	SkillIDs []int64 `json:"skillIds" binding:"required"`
}

func (h *AdminHandler) reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.SkillIDs) == 0 {
		httpapi.Fail(c, http.StatusBadRequest, "Category and a non-empty skillIds list are required")
		return
	}
	if !ValidCategory(req.Category) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid skill category")
		return
	}
	if err := h.store.Reorder(c.Request.Context(), req.Category, req.SkillIDs, auth.CurrentAdminID(c)); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpapi.Fail(c, http.StatusNotFound, "One or more skills were not found in this category")
		case errors.Is(err, ErrDuplicateOrder):
			httpapi.Fail(c, http.StatusBadRequest, "Reorder would leave duplicate display orders")
		default:
			log.Printf("[error] reorder skills: %v", err)
			httpapi.Error(c, http.StatusInternalServerError, "Failed to reorder skills", err)
		}
		return
	}
	httpapi.OKMessage(c, nil, "Skills reordered successfully")
}

func (h *AdminHandler) stats(c *gin.Context) {
	s, err := h.store.Stats(c.Request.Context())
	if err != nil {
		log.Printf("[error] skill stats: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch skill statistics", err)
		return
	}
	httpapi.OK(c, s)
}
