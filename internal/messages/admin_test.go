package messages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hafizkhan902/portfolio-backend/internal/mailer"
)

type stubStore struct {
	byID       map[int64]*Message
	created    []Message
	createErr  error
	statusSets []string
	setErr     error
}

func newStubStore(msgs ...*Message) *stubStore {
	s := &stubStore{byID: map[int64]*Message{}}
	for _, m := range msgs {
		s.byID[m.ID] = m
	}
	return s
}

func (s *stubStore) Create(ctx context.Context, name, email, subject, body string) (*Message, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	m := Message{ID: int64(len(s.created) + 1), Name: name, Email: email,
		Subject: subject, Message: body, Status: "unread", CreatedAt: time.Now()}
	s.created = append(s.created, m)
	return &m, nil
}

func (s *stubStore) List(ctx context.Context, f ListFilter) ([]Message, int64, error) {
	out := []Message{}
	for _, m := range s.byID {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (s *stubStore) Get(ctx context.Context, id int64) (*Message, error) {
	m, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *stubStore) GetAndMarkRead(ctx context.Context, id int64) (*Message, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == "unread" {
		m.Status = "read"
	}
	return m, nil
}

func (s *stubStore) SetStatus(ctx context.Context, id int64, status string) (*Message, error) {
	if s.setErr != nil {
		return nil, s.setErr
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Status = status
	s.statusSets = append(s.statusSets, status)
	return m, nil
}

func (s *stubStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *stubStore) BulkSetStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	var n int64
	for _, id := range ids {
		if m, ok := s.byID[id]; ok {
			m.Status = status
			n++
		}
	}
	return n, nil
}

func (s *stubStore) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := s.byID[id]; ok {
			delete(s.byID, id)
			n++
		}
	}
	return n, nil
}

func (s *stubStore) Stats(ctx context.Context) (*Stats, error) {
	return &Stats{Total: int64(len(s.byID))}, nil
}

type stubMailer struct {
	sent []mailer.Message
	err  error
}

func (s *stubMailer) Send(msg mailer.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newAdminRouter(store Store, mail mailer.Sender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAdminHandler(store, mail, "Hafiz").Register(r.Group("/messages"))
	return r
}

func TestReplyMarksReplied(t *testing.T) {
	msg := &Message{ID: 1, Name: "Jo", Email: "jo@example.com", Subject: "Hi", Message: "Hello", Status: "read"}
	store := newStubStore(msg)
	mail := &stubMailer{}
	r := newAdminRouter(store, mail)

	req := httptest.NewRequest(http.MethodPost, "/messages/1/reply",
		strings.NewReader(`{"body":"Thanks for writing"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "jo@example.com", mail.sent[0].To)
	assert.Equal(t, "Re: Hi", mail.sent[0].Subject)
	assert.Contains(t, mail.sent[0].Text, "Thanks for writing")
	assert.Contains(t, mail.sent[0].Text, "Original message")
	assert.Equal(t, "replied", msg.Status)
}

func TestReplyFailedSendLeavesStatus(t *testing.T) {
	msg := &Message{ID: 1, Email: "jo@example.com", Subject: "Hi", Status: "read"}
	store := newStubStore(msg)
	r := newAdminRouter(store, &stubMailer{err: errors.New("smtp down")})

	req := httptest.NewRequest(http.MethodPost, "/messages/1/reply",
		strings.NewReader(`{"body":"Thanks"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "read", msg.Status)
	assert.Empty(t, store.statusSets)
}

func TestGetAutoMarksRead(t *testing.T) {
	msg := &Message{ID: 2, Status: "unread"}
	r := newAdminRouter(newStubStore(msg), &stubMailer{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/messages/2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "read", msg.Status)
}

func TestGetDoesNotDowngradeReplied(t *testing.T) {
	msg := &Message{ID: 2, Status: "replied"}
	r := newAdminRouter(newStubStore(msg), &stubMailer{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/messages/2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "replied", msg.Status)
}

func TestBulkReportsActualCount(t *testing.T) {
	store := newStubStore(&Message{ID: 1}, &Message{ID: 2})
	r := newAdminRouter(store, &stubMailer{})

	req := httptest.NewRequest(http.MethodPost, "/messages/bulk",
		strings.NewReader(`{"action":"delete","messageIds":[1,2,99]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message string `json:"message"`
		Data    struct {
			Affected int64 `json:"affected"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Data.Affected)
	assert.Equal(t, "2 of 3 messages processed", resp.Message)
}

func TestBulkRejectsUnknownAction(t *testing.T) {
	r := newAdminRouter(newStubStore(), &stubMailer{})

	req := httptest.NewRequest(http.MethodPost, "/messages/bulk",
		strings.NewReader(`{"action":"archive","messageIds":[1]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactStoresBeforeMail(t *testing.T) {
	store := newStubStore()
	mail := &stubMailer{err: errors.New("smtp down")}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewContactHandler(store, mail, "owner@example.com", "Hafiz").Register(r.Group("/api"))

	req := httptest.NewRequest(http.MethodPost, "/api/contact",
		strings.NewReader(`{"name":"Jo","email":"jo@example.com","subject":"Hi","message":"Hello"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Mail failed, but the message must already be stored.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, store.created, 1)
}

func TestContactSendsNotificationAndAutoReply(t *testing.T) {
	store := newStubStore()
	mail := &stubMailer{}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewContactHandler(store, mail, "owner@example.com", "Hafiz").Register(r.Group("/api"))

	req := httptest.NewRequest(http.MethodPost, "/api/contact",
		strings.NewReader(`{"name":"Jo Smith","email":"jo@example.com","subject":"Hi","message":"Hello"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, mail.sent, 2)
	assert.Equal(t, "owner@example.com", mail.sent[0].To)
	assert.Equal(t, "jo@example.com", mail.sent[0].ReplyTo)
	assert.Equal(t, "jo@example.com", mail.sent[1].To)
	assert.Contains(t, mail.sent[1].Text, "Hi Jo,")
}

func TestResponseRate(t *testing.T) {
	assert.Equal(t, float64(0), ResponseRate(0, 0))
	assert.Equal(t, float64(50), ResponseRate(1, 2))
	assert.Equal(t, float64(100), ResponseRate(4, 4))
}
