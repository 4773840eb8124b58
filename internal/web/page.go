package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/middleware"
)

// Page renders the page the gate selected, inside the layout.
func Page(c *gin.Context) {
	d, ok := middleware.DecisionFromContext(c.Request.Context())
	if !ok || !d.Layout {
		c.Status(http.StatusNotFound)
		return
	}
	user, _ := middleware.UserFromContext(c.Request.Context())
	c.HTML(http.StatusOK, d.Page.Name, NewLayout(d.Page, user))
}
