package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/auth/credentials"
	"admin-dashboard/internal/logger"
	"admin-dashboard/internal/route"
	"admin-dashboard/internal/web"
)

const (
	msgInvalidCredentials = "Invalid email or password."
	msgPasswordDisabled   = "Password sign-in is not available."
	msgSSOFailed          = "Single sign-on did not complete. Please try again."
	msgUnavailable        = "Sign-in is temporarily unavailable."
)

func (h *Handler) loginData(email, errMsg string) web.LoginData {
	return web.LoginData{
		Error:           errMsg,
		Email:           email,
		PasswordEnabled: h.credentials != nil,
		Providers:       h.providers.Names(),
	}
}

// loginPage renders regardless of the session state.
func (h *Handler) loginPage(c *gin.Context) {
	var errMsg string
	if c.Query("error") != "" {
		errMsg = msgSSOFailed
	}
	c.HTML(http.StatusOK, route.Login.Name, h.loginData("", errMsg))
}

// Login handles the password form.
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if h.credentials == nil {
		c.HTML(http.StatusServiceUnavailable, route.Login.Name, h.loginData(email, msgPasswordDisabled))
		return
	}

	account, err := h.credentials.Authenticate(c.Request.Context(), email, password)
	if errors.Is(err, credentials.ErrInvalidCredentials) {
		h.loginFailed("password", err)
		c.HTML(http.StatusUnauthorized, route.Login.Name, h.loginData(email, msgInvalidCredentials))
		return
	}
	if err != nil {
		logger.Error("password login failed", map[string]any{"error": err.Error()})
		c.HTML(http.StatusInternalServerError, route.Login.Name, h.loginData(email, msgUnavailable))
		return
	}

	if err := h.signIn(c, "password", account.UserID, account.Email, account.Name); err != nil {
		h.internalError(c, "session error", err)
		return
	}

	c.Redirect(http.StatusSeeOther, route.IndexPath)
}
