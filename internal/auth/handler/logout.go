package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/logger"
	"admin-dashboard/internal/route"
)

// Logout clears the browser scope's session. It always ends on the login
// page; a storage failure is logged because the in-memory state is
// already logged out.
func (h *Handler) Logout(c *gin.Context) {
	scope, err := scopeOf(c)
	if err == nil {
		if err := h.sessions.Logout(c.Request.Context(), scope); err != nil {
			logger.Warn("logout token delete failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	c.Redirect(http.StatusSeeOther, route.LoginPath)
}
