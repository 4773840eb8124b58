package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/logger"
	"admin-dashboard/internal/route"
)

const ssoFailedPath = route.LoginPath + "?error=sso"

func (h *Handler) oauthLogin(c *gin.Context) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown oauth provider"})
		return
	}

	state, err := h.generateState(c)
	if err != nil {
		h.internalError(c, "oauth state error", err)
		return
	}
	codeChallenge, err := h.generatePKCE(c)
	if err != nil {
		h.internalError(c, "oauth pkce error", err)
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, codeChallenge))
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown oauth provider"})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid state"})
		return
	}

	codeVerifier := getPKCEVerifier(c)
	h.clearFlowCookies(c)

	// The provider reported an error (user cancelled, registration flow).
	// Send the browser back to a fresh login.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, ssoFailedPath)
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing pkce verifier"})
		return
	}

	identity, err := p.ExchangeCode(c.Request.Context(), code, codeVerifier)
	if err != nil {
		h.loginFailed(providerName, err)
		c.Redirect(http.StatusFound, ssoFailedPath)
		return
	}

	if h.resolver == nil {
		h.internalError(c, "failed to resolve user", errors.New("no identity resolver configured"))
		return
	}
	userID, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		h.internalError(c, "failed to resolve user", err)
		return
	}

	if err := h.signIn(c, providerName, userID, identity.Email, identity.Name); err != nil {
		h.internalError(c, "failed to create session", err)
		return
	}

	c.Redirect(http.StatusFound, route.IndexPath)
}
