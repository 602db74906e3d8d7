package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthResponse struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Version     string    `json:"version"`
	DB          string    `json:"db,omitempty"`
}

type HealthHandler struct {
	environment string
	version     string
	db          *pgxpool.Pool
}

func NewHealthHandler(environment, version string, db *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{
		environment: environment,
		version:     version,
		db:          db,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "disabled"
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.db.Ping(pingCtx); err != nil {
			dbStatus = "down"
		} else {
			dbStatus = "up"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Success:     true,
		Message:     "Server is running",
		Timestamp:   time.Now().UTC(),
		Environment: h.environment,
		Version:     h.version,
		DB:          dbStatus,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
