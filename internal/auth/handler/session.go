package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type userResponse struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

type sessionResponse struct {
	IsAuthenticated bool          `json:"isAuthenticated"`
	User            *userResponse `json:"user"`
}

// SessionState reports the scope's current state. The token stays
// server-side.
func (h *Handler) SessionState(c *gin.Context) {
	scope, err := scopeOf(c)
	if err != nil {
		h.internalError(c, "session error", err)
		return
	}

	st := h.sessions.Current(c.Request.Context(), scope)
	resp := sessionResponse{IsAuthenticated: st.IsAuthenticated}
	if st.User != nil {
		resp.User = &userResponse{
			UserID: st.User.UserID,
			Email:  st.User.Email,
			Name:   st.User.Name,
		}
	}
	c.JSON(http.StatusOK, resp)
}
