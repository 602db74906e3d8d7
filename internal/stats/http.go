package stats

import (
	"github.com/gin-gonic/gin"

	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/statistics", h.dashboard)
}

// dashboard never fails; unreachable sources report zeros.
func (h *Handler) dashboard(c *gin.Context) {
	httpapi.OK(c, h.svc.Collect(c.Request.Context()))
}
