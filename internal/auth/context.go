package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/hafizkhan902/portfolio-backend/internal/admins"
)

const ctxAdminKey = "current_admin"

// CurrentAdmin returns the admin attached by RequireAdmin, or nil.
func CurrentAdmin(c *gin.Context) *admins.Admin {
	v, ok := c.Get(ctxAdminKey)
	if !ok {
		return nil
	}
	admin, _ := v.(*admins.Admin)
	return admin
}

// CurrentAdminID returns the acting admin's id, or 0 outside an
// authenticated route.
func CurrentAdminID(c *gin.Context) int64 {
	if a := CurrentAdmin(c); a != nil {
		return a.ID
	}
	return 0
}
