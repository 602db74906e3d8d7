package github

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/activity", h.activity)
	rg.GET("/repos", h.repos)
}

func (h *Handler) activity(c *gin.Context) {
	events, err := h.client.Activity(c.Request.Context())
	if err != nil {
		log.Printf("[error] github activity: %v", err)
		httpapi.Error(c, http.StatusBadGateway, "Failed to fetch GitHub activity", err)
		return
	}
	httpapi.OK(c, events)
}

func (h *Handler) repos(c *gin.Context) {
	repos, err := h.client.Repos(c.Request.Context())
	if err != nil {
		log.Printf("[error] github repos: %v", err)
		httpapi.Error(c, http.StatusBadGateway, "Failed to fetch GitHub repositories", err)
		return
	}
	httpapi.OK(c, repos)
}
