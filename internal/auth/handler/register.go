package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/auth/credentials"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

func (h *Handler) Register(c *gin.Context) {
	if h.credentials == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "registration disabled"})
		return
	}

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	account, err := h.credentials.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, credentials.ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
		case errors.Is(err, credentials.ErrPasswordTooShort),
			errors.Is(err, credentials.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.internalError(c, "registration failed", err)
		}
		return
	}

	if err := h.signIn(c, "register", account.UserID, account.Email, account.Name); err != nil {
		h.internalError(c, "session error", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "registered",
		"user_id": account.UserID,
	})
}
