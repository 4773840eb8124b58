package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/auth/credentials"
	"admin-dashboard/internal/auth/provider"
	"admin-dashboard/internal/auth/resolver"
	"admin-dashboard/internal/logger"
	"admin-dashboard/internal/metrics"
	"admin-dashboard/internal/middleware"
	"admin-dashboard/internal/route"
	"admin-dashboard/internal/session"
	"admin-dashboard/internal/token"
)

var errNoScope = errors.New("request has no browser scope")

// Authenticator checks and creates password credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (credentials.Account, error)
	Register(ctx context.Context, email, password, name string) (credentials.Account, error)
}

// Deps are the collaborators of Handler. Credentials may be nil, which
// disables password login and registration.
type Deps struct {
	Sessions    *session.Manager
	Issuer      *token.Issuer
	Credentials Authenticator
	Providers   *provider.Registry
	Resolver    resolver.Resolver
	Metrics     *metrics.Registry
	Cookie      session.CookieOptions
}

type Handler struct {
	sessions    *session.Manager
	issuer      *token.Issuer
	credentials Authenticator
	providers   *provider.Registry
	resolver    resolver.Resolver
	metrics     *metrics.Registry
	cookie      session.CookieOptions
}

func NewHandler(d Deps) *Handler {
	providers := d.Providers
	if providers == nil {
		providers = provider.NewRegistry()
	}
	return &Handler{
		sessions:    d.Sessions,
		issuer:      d.Issuer,
		credentials: d.Credentials,
		providers:   providers,
		resolver:    d.Resolver,
		metrics:     d.Metrics,
		cookie:      d.Cookie,
	}
}

// RegisterRoutes mounts the public routes. Every one of them runs with a
// browser scope so that login and logout reach the right session store.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	public := r.Group("/", middleware.Gin(middleware.EnsureScope(h.cookie)))

	public.GET(route.LoginPath, h.loginPage)
	public.POST(route.LoginPath, h.Login)
	public.POST("/logout", h.Logout)
	public.POST("/auth/register", h.Register)
	public.GET("/oauth/login/:provider", h.oauthLogin)
	public.GET("/oauth/callback/:provider", h.oauthCallback)
	public.GET("/api/session", h.SessionState)
}

func scopeOf(c *gin.Context) (string, error) {
	scope, ok := middleware.ScopeFromContext(c.Request.Context())
	if !ok {
		return "", errNoScope
	}
	return scope, nil
}

// signIn issues a token for the user and logs the browser scope in.
func (h *Handler) signIn(c *gin.Context, method, userID, email, name string) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}

	user, err := h.issuer.UserRecord(userID, email, name)
	if err != nil {
		return err
	}

	if err := h.sessions.Login(c.Request.Context(), scope, user); err != nil {
		return err
	}

	logger.Info("login succeeded", map[string]any{
		"method":  method,
		"user_id": userID,
		"ip":      c.ClientIP(),
	})
	return nil
}

func (h *Handler) loginFailed(method string, err error) {
	if h.metrics != nil {
		h.metrics.LoginFailures.WithLabelValues(method).Inc()
	}
	logger.Warn("login failed", map[string]any{
		"method": method,
		"error":  err.Error(),
	})
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	logger.Error(msg, map[string]any{"error": err.Error()})
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
