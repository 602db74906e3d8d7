package messages

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
	"github.com/hafizkhan902/portfolio-backend/internal/mailer"
)

// Store is the slice of the repository the HTTP layer needs; handlers are
// wired against it so tests can substitute an in-memory implementation.
type Store interface {
	Create(ctx context.Context, name, email, subject, body string) (*Message, error)
	List(ctx context.Context, f ListFilter) ([]Message, int64, error)
	GetAndMarkRead(ctx context.Context, id int64) (*Message, error)
	Get(ctx context.Context, id int64) (*Message, error)
	SetStatus(ctx context.Context, id int64, status string) (*Message, error)
	Delete(ctx context.Context, id int64) error
	BulkSetStatus(ctx context.Context, ids []int64, status string) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	Stats(ctx context.Context) (*Stats, error)
}

// ContactHandler takes contact-form submissions from the public site.
type ContactHandler struct {
	store Store
	mail  mailer.Sender
	// notifyTo receives the "new message" notification.
	notifyTo string
	owner    string
}

func NewContactHandler(store Store, mail mailer.Sender, notifyTo, ownerName string) *ContactHandler {
	return &ContactHandler{store: store, mail: mail, notifyTo: notifyTo, owner: ownerName}
}

func (h *ContactHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/contact", h.submit)
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// submit stores the message first, then sends the owner notification and the
// auto-reply. A failed send is reported as a 500 but the message stays stored.
func (h *ContactHandler) submit(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Name, a valid email, subject and message are required")
		return
	}

	msg, err := h.store.Create(c.Request.Context(), req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		log.Printf("[error] store contact message: %v", err)
		httpapi.Error(c, http.StatusInternalServerError, "Failed to send message", err)
		return
	}

	if err := h.sendNotification(msg); err != nil {
		log.Printf("[error] contact notification for message %d: %v", msg.ID, err)
		httpapi.Error(c, http.StatusInternalServerError,
			"Your message was received but the notification email failed", err)
		return
	}
	if err := h.sendAutoReply(msg); err != nil {
		log.Printf("[error] contact auto-reply for message %d: %v", msg.ID, err)
		httpapi.Error(c, http.StatusInternalServerError,
			"Your message was received but the confirmation email failed", err)
		return
	}

	httpapi.Created(c, gin.H{"id": msg.ID}, "Message sent successfully")
}

func (h *ContactHandler) sendNotification(msg *Message) error {
	if h.notifyTo == "" {
		return nil
	}
	body := fmt.Sprintf("New contact message from %s <%s>\n\nSubject: %s\n\n%s",
		msg.Name, msg.Email, msg.Subject, msg.Message)
	return h.mail.Send(mailer.Message{
		To:      h.notifyTo,
		ReplyTo: msg.Email,
		Subject: "New contact message: " + msg.Subject,
		Text:    body,
	})
}

func (h *ContactHandler) sendAutoReply(msg *Message) error {
	firstName := strings.Fields(msg.Name)
	greet := msg.Name
	if len(firstName) > 0 {
		greet = firstName[0]
	}
	body := fmt.Sprintf("Hi %s,\n\nThanks for reaching out. I received your message and will get back to you soon.\n\nYour message:\n%s\n\n%s",
		greet, msg.Message, h.owner)
	return h.mail.Send(mailer.Message{
		To:      msg.Email,
		Subject: "Thanks for your message",
		Text:    body,
	})
}
