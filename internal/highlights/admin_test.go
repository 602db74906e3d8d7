package highlights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	byID       map[int64]*Highlight
	lastFilter ListFilter
	createErr  error
	reorderErr error
}

func newStubStore(items ...*Highlight) *stubStore {
	s := &stubStore{byID: map[int64]*Highlight{}}
	for _, h := range items {
		s.byID[h.ID] = h
	}
	return s
}

func (s *stubStore) List(ctx context.Context, f ListFilter) ([]Highlight, int64, error) {
	s.lastFilter = f
	out := []Highlight{}
	for _, h := range s.byID {
		out = append(out, *h)
	}
	return out, int64(len(out)), nil
}

func (s *stubStore) ListGrouped(ctx context.Context) ([]Grouped, error) {
	return []Grouped{}, nil
}

func (s *stubStore) ListFeatured(ctx context.Context, limit int) ([]Highlight, error) {
	return []Highlight{}, nil
}

func (s *stubStore) Get(ctx context.Context, id int64) (*Highlight, error) {
	h, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return h, nil
}

func (s *stubStore) GetActive(ctx context.Context, id int64) (*Highlight, error) {
	h, ok := s.byID[id]
	if !ok || !h.IsActive {
		return nil, ErrNotFound
	}
	h.Views++
	return h, nil
}

func (s *stubStore) Create(ctx context.Context, in CreateInput, adminID int64) (*Highlight, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	h := &Highlight{ID: int64(len(s.byID) + 1), Title: in.Title, Category: in.Category, IsActive: true}
	s.byID[h.ID] = h
	return h, nil
}

func (s *stubStore) Update(ctx context.Context, id int64, in UpdateInput, adminID int64) (*Highlight, error) {
	return s.Get(ctx, id)
}

func (s *stubStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *stubStore) ToggleFeatured(ctx context.Context, id, adminID int64) (*Highlight, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Featured = !h.Featured
	return h, nil
}

func (s *stubStore) ToggleActive(ctx context.Context, id, adminID int64) (*Highlight, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	h.IsActive = !h.IsActive
	return h, nil
}

func (s *stubStore) BulkUpdate(ctx context.Context, ids []int64, col string, val bool, adminID int64) (int64, error) {
	return int64(len(ids)), nil
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

func (s *stubStore) Reorder(ctx context.Context, ids []int64, adminID int64) error {
	if s.reorderErr != nil {
		return s.reorderErr
	}
	for _, id := range ids {
		if _, ok := s.byID[id]; !ok {
			return ErrNotFound
		}
	}
	for i, id := range ids {
		s.byID[id].DisplayOrder = i + 1
	}
	return nil
}

func (s *stubStore) Stats(ctx context.Context) (*Stats, error) {
	return &Stats{Total: int64(len(s.byID))}, nil
}

func newAdminRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAdminHandler(store).Register(r.Group("/highlights"))
	return r
}

func TestAdminListFilters(t *testing.T) {
	store := newStubStore()
	r := newAdminRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/highlights?search=landing&isActive=true&category=web-design", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "landing", store.lastFilter.Search)
	require.NotNil(t, store.lastFilter.IsActive)
	assert.True(t, *store.lastFilter.IsActive)
	assert.Equal(t, "web-design", store.lastFilter.Category)
}

func TestCreateDuplicateOrderIsBadRequest(t *testing.T) {
	store := newStubStore()
	store.createErr = ErrDuplicateOrder
	r := newAdminRouter(store)

	body := `{"title":"Landing","description":"A landing page","category":"web-design","displayOrder":1}`
	req := httptest.NewRequest(http.MethodPost, "/highlights", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Display order already exists")
}

func TestReorderAssignsSequentialOrders(t *testing.T) {
	store := newStubStore(
		&Highlight{ID: 1, DisplayOrder: 2},
		&Highlight{ID: 2, DisplayOrder: 1},
	)
	r := newAdminRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/highlights/reorder",
		strings.NewReader(`{"highlightIds":[2,1]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, store.byID[2].DisplayOrder)
	assert.Equal(t, 2, store.byID[1].DisplayOrder)
}
