package messages

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
	"github.com/hafizkhan902/portfolio-backend/internal/mailer"
)

// AdminHandler manages the contact inbox.
type AdminHandler struct {
	store Store
	mail  mailer.Sender
	owner string
}

func NewAdminHandler(store Store, mail mailer.Sender, ownerName string) *AdminHandler {
	return &AdminHandler{store: store, mail: mail, owner: ownerName}
}

func (h *AdminHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/stats", h.stats)
	rg.POST("/bulk", h.bulk)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id/status", h.setStatus)
	rg.POST("/:id/reply", h.reply)
	rg.DELETE("/:id", h.remove)
}

func (h *AdminHandler) list(c *gin.Context) {
	page, limit, offset := httpapi.PageParams(c, 20)
	f := ListFilter{Status: c.Query("status"), Search: c.Query("search"), Limit: limit, Offset: offset}
	if f.Status != "" && !ValidStatus(f.Status) {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid message status")
		return
	}

	items, total, err := h.store.List(c.Request.Context(), f)
	if err != nil {
		log.Printf("[error] list messages: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch messages", err)
		return
	}
	httpapi.Paginated(c, items, httpapi.NewPagination(page, limit, total))
}

// get auto-transitions unread messages to read on first open.
func (h *AdminHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid message ID")
		return
	}
	m, err := h.store.GetAndMarkRead(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Message not found")
			return
		}
		log.Printf("[error] get message %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch message", err)
		return
	}
	httpapi.OK(c, m)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AdminHandler) setStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid message ID")
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !ValidStatus(req.Status) {
		httpapi.Fail(c, http.StatusBadRequest, "Status must be unread, read or replied")
		return
	}
	m, err := h.store.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Message not found")
			return
		}
		log.Printf("[error] set message %d status: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to update message", err)
		return
	}
	httpapi.OKMessage(c, m, "Message status updated")
}

type replyRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

// reply sends the response email first and only then marks the message
// replied; a failed send leaves the status untouched.
func (h *AdminHandler) reply(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid message ID")
		return
	}
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Reply body is required")
		return
	}

	ctx := c.Request.Context()
	m, err := h.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Message not found")
			return
		}
		log.Printf("[error] get message %d for reply: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch message", err)
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = "Re: " + m.Subject
	}
	body := fmt.Sprintf("%s\n\n--- Original message ---\nFrom: %s <%s>\nSubject: %s\n\n%s",
		req.Body, m.Name, m.Email, m.Subject, m.Message)
	if err := h.mail.Send(mailer.Message{To: m.Email, Subject: subject, Text: body}); err != nil {
		log.Printf("[error] reply to message %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to send reply", err)
		return
	}

	updated, err := h.store.SetStatus(ctx, id, "replied")
	if err != nil {
		// Mail already went out; report the message as replied anyway.
		log.Printf("[error] mark message %d replied: %v", id, err)
		updated = m
	}
	httpapi.OKMessage(c, updated, "Reply sent successfully")
}

func (h *AdminHandler) remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid message ID")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Message not found")
			return
		}
		log.Printf("[error] delete message %d: %v", id, err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to delete message", err)
		return
	}
	httpapi.OKMessage(c, nil, "Message deleted successfully")
}

type bulkRequest struct {
	Action     string  `json:"action" binding:"required"`
	MessageIDs []int64 `json:"messageIds" binding:"required"`
}

func (h *AdminHandler) bulk(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.MessageIDs) == 0 {
		httpapi.Fail(c, http.StatusBadRequest, "Action and a non-empty messageIds list are required")
		return
	}

	ctx := c.Request.Context()
	var affected int64
	var err error
	switch req.Action {
	case "mark-read":
		affected, err = h.store.BulkSetStatus(ctx, req.MessageIDs, "read")
	case "mark-unread":
		affected, err = h.store.BulkSetStatus(ctx, req.MessageIDs, "unread")
	case "delete":
		affected, err = h.store.BulkDelete(ctx, req.MessageIDs)
	default:
		httpapi.Fail(c, http.StatusBadRequest, "Invalid bulk action")
		return
	}
	if err != nil {
		log.Printf("[error] bulk %s messages: %v", req.Action, err)
		httpapi.Error(c, http.StatusInternalServerError, "Bulk operation failed", err)
		return
	}
	httpapi.OKMessage(c,
		gin.H{"affected": affected, "requested": len(req.MessageIDs)},
		fmt.Sprintf("%d of %d messages processed", affected, len(req.MessageIDs)))
}

func (h *AdminHandler) stats(c *gin.Context) {
	s, err := h.store.Stats(c.Request.Context())
	if err != nil {
		log.Printf("[error] message stats: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch message statistics", err)
		return
	}
	httpapi.OK(c, s)
}
