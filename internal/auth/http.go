package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hafizkhan902/portfolio-backend/internal/admins"
	httpapi "github.com/hafizkhan902/portfolio-backend/internal/api/http"
)

// Store is the slice of the admins repository the account routes need;
// handlers are wired against it so tests can substitute a stub.
type Store interface {
	FindByLogin(ctx context.Context, login string) (*admins.Admin, error)
	TouchLastLogin(ctx context.Context, id int64) error
	Create(ctx context.Context, username, email, passwordHash, role string) (*admins.Admin, error)
	List(ctx context.Context) ([]admins.Admin, error)
	SetStatus(ctx context.Context, id int64, active bool) (*admins.Admin, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type Handler struct {
	repo   Store
	secret []byte
}

func NewHandler(repo Store, secret []byte) *Handler {
	return &Handler{repo: repo, secret: secret}
}

// Register wires the admin auth/account routes. rg is the /api/admin group;
// protected and super are the same group behind RequireAdmin and
// RequireSuperAdmin respectively.
func (h *Handler) Register(rg, protected, super *gin.RouterGroup) {
	rg.POST("/login", h.login)

	protected.GET("/profile", h.profile)
	protected.POST("/logout", h.logout)
	protected.PUT("/change-password", h.changePassword)

	super.POST("/create", h.create)
	super.GET("/list", h.list)
	super.PUT("/:id/status", h.setStatus)
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		httpapi.Fail(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	admin, err := h.repo.FindByLogin(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, admins.ErrNotFound) {
			httpapi.Fail(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		httpapi.Error(c, http.StatusInternalServerError, "Login failed", err)
		return
	}
	if !admin.IsActive {
		httpapi.Fail(c, http.StatusUnauthorized, "Invalid credentials or inactive account")
		return
	}

	if !admin.CheckPassword(req.Password) {
		httpapi.Fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.repo.TouchLastLogin(c.Request.Context(), admin.ID); err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Login failed", err)
		return
	}

	token, err := GenerateToken(h.secret, admin.ID)
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Login failed", err)
		return
	}

	httpapi.OKMessage(c, gin.H{
		"admin": admin,
		"token": token,
	}, "Login successful")
}

func (h *Handler) profile(c *gin.Context) {
	httpapi.OK(c, CurrentAdmin(c))
}

func (h *Handler) logout(c *gin.Context) {
	// Stateless tokens: logout is client-side removal.
	httpapi.OKMessage(c, nil, "Logout successful")
}

type createReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		req.Username == "" || req.Email == "" || req.Password == "" {
		httpapi.Fail(c, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	role := req.Role
	if role == "" {
		role = admins.RoleAdmin
	}
	if role != admins.RoleAdmin && role != admins.RoleSuperAdmin {
		httpapi.Fail(c, http.StatusBadRequest, "Role must be admin or super_admin")
		return
	}

	hash, err := admins.HashPassword(req.Password)
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Failed to create admin", err)
		return
	}

	admin, err := h.repo.Create(c.Request.Context(), req.Username, req.Email, hash, role)
	if err != nil {
		if errors.Is(err, admins.ErrDuplicate) {
			httpapi.Fail(c, http.StatusBadRequest, "Username or email already exists")
			return
		}
		httpapi.Error(c, http.StatusInternalServerError, "Failed to create admin", err)
		return
	}

	httpapi.Created(c, admin, "Admin created successfully")
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch admins", err)
		return
	}
	httpapi.OK(c, list)
}

type statusReq struct {
	IsActive *bool `json:"isActive"`
}

func (h *Handler) setStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Invalid admin id")
		return
	}

	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		httpapi.Fail(c, http.StatusBadRequest, "isActive is required")
		return
	}

	admin, err := h.repo.SetStatus(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		if errors.Is(err, admins.ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Admin not found")
			return
		}
		httpapi.Error(c, http.StatusInternalServerError, "Failed to update admin status", err)
		return
	}

	httpapi.OKMessage(c, admin, "Admin status updated successfully")
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		req.CurrentPassword == "" || req.NewPassword == "" {
		httpapi.Fail(c, http.StatusBadRequest, "Current and new password are required")
		return
	}

	admin := CurrentAdmin(c)
	if !admin.CheckPassword(req.CurrentPassword) {
		httpapi.Fail(c, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hash, err := admins.HashPassword(req.NewPassword)
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Failed to change password", err)
		return
	}

	if err := h.repo.UpdatePassword(c.Request.Context(), admin.ID, hash); err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Failed to change password", err)
		return
	}

	httpapi.OKMessage(c, nil, "Password changed successfully")
}
