package handler

import (
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/utils"
)

const (
	stateCookieName = "__oauth_state"
	pkceCookieName  = "__oauth_pkce"
	flowTTL         = 5 * time.Minute
)

func (h *Handler) setFlowCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/oauth",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// generateState issues the anti-CSRF state for an authorization request.
func (h *Handler) generateState(c *gin.Context) (string, error) {
	state, err := utils.RandomString(32)
	if err != nil {
		return "", err
	}
	h.setFlowCookie(c, stateCookieName, state, int(flowTTL.Seconds()))
	return state, nil
}

func validateState(c *gin.Context) bool {
	stateQuery := c.Query("state")
	if stateQuery == "" {
		return false
	}

	cookie, err := c.Request.Cookie(stateCookieName)
	if err != nil {
		return false
	}

	return cookie.Value == stateQuery
}

// generatePKCE stores the verifier in a cookie and returns the S256
// challenge.
func (h *Handler) generatePKCE(c *gin.Context) (string, error) {
	verifier, err := utils.RandomString(32)
	if err != nil {
		return "", err
	}
	h.setFlowCookie(c, pkceCookieName, verifier, int(flowTTL.Seconds()))

	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:]), nil
}

func getPKCEVerifier(c *gin.Context) string {
	cookie, err := c.Request.Cookie(pkceCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// clearFlowCookies drops state and verifier once a callback consumed them.
func (h *Handler) clearFlowCookies(c *gin.Context) {
	h.setFlowCookie(c, stateCookieName, "", -1)
	h.setFlowCookie(c, pkceCookieName, "", -1)
}
