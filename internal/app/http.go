package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/auth/credentials"
	"admin-dashboard/internal/auth/handler"
	"admin-dashboard/internal/auth/provider"
	"admin-dashboard/internal/auth/provider/google"
	"admin-dashboard/internal/auth/provider/keycloak"
	"admin-dashboard/internal/auth/resolver"
	"admin-dashboard/internal/config"
	"admin-dashboard/internal/logger"
	"admin-dashboard/internal/metrics"
	"admin-dashboard/internal/middleware"
	"admin-dashboard/internal/route"
	"admin-dashboard/internal/session"
	"admin-dashboard/internal/token"
	"admin-dashboard/internal/utils"
	"admin-dashboard/internal/web"
)

const sessionSweepInterval = time.Minute

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	issuer, err := newIssuer(cfg)
	if err != nil {
		return nil, nil, errors.Join(err, infra.closeDB())
	}

	var tokens session.TokenStore = session.NewMemoryTokenStore()
	if infra.Redis != nil {
		tokens = session.NewRedisTokenStore(infra.Redis.Client, cfg.TokenTTL)
	}

	reg := metrics.New()

	opts := []session.Option{
		session.WithTokenCheck(issuer),
		session.WithObserver(reg.ObserveTransition),
		session.WithObserver(logTransition),
	}
	if cfg.SessionRestore {
		opts = append(opts, session.WithRestore(issuer))
	}
	sessions := session.NewManager(tokens, opts...)
	go sessions.RunSweeper(ctx, sessionSweepInterval)

	// Closes the token store, and with it the redis client.
	cleanup := func() error {
		return errors.Join(sessions.Close(), infra.closeDB())
	}

	providers, err := setupProviders(ctx, cfg)
	if err != nil {
		return nil, nil, errors.Join(err, cleanup())
	}

	deps := handler.Deps{
		Sessions:  sessions,
		Issuer:    issuer,
		Providers: providers,
		Resolver:  resolver.DerivedResolver{},
		Metrics:   reg,
		Cookie: session.CookieOptions{
			Secure:   cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		},
	}
	if infra.DB != nil {
		deps.Credentials = credentials.NewService(infra.DB)
		deps.Resolver = resolver.NewDBResolver(infra.DB)
	}

	router, err := NewRouter(deps)
	if err != nil {
		return nil, nil, errors.Join(err, cleanup())
	}

	return router, cleanup, nil
}

// NewRouter mounts public routes, the gated dashboard pages and the
// operational endpoints.
func NewRouter(deps handler.Deps) (*gin.Engine, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.HTMLRender = renderer
	router.Use(gin.Recovery(), middleware.RequestLogger())

	// ----------------------------
	// Public Routes
	// ----------------------------

	handler.NewHandler(deps).RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// ----------------------------
	// Protected Web Routes
	// ----------------------------

	gate := middleware.NewGate(deps.Sessions, deps.Metrics)
	protected := router.Group("/", middleware.GinRequireSession(gate))
	for _, p := range route.Pages {
		protected.GET(p.Path, web.Page)
	}

	for _, rt := range router.Routes() {
		logger.Debug("route registered", map[string]any{
			"method": rt.Method,
			"path":   rt.Path,
		})
	}

	return router, nil
}

func newIssuer(cfg config.Config) (*token.Issuer, error) {
	secret := cfg.TokenSecret
	if secret == "" {
		generated, err := utils.RandomString(32)
		if err != nil {
			return nil, err
		}
		secret = generated
		logger.Warn("TOKEN_SECRET not set, issued tokens will not survive a restart", nil)
	}
	return token.NewIssuer([]byte(secret), cfg.TokenTTL)
}

func setupProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.GoogleEnabled() {
		p, err := google.New(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.KeycloakEnabled() {
		p, err := keycloak.New(
			ctx,
			cfg.KeycloakIssuer,
			cfg.KeycloakClientID,
			cfg.KeycloakRedirectURL,
			cfg.KeycloakPublicBaseURL,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	registry := provider.NewRegistry(list...)
	logger.Info("sso providers", map[string]any{"enabled": registry.Names()})
	return registry, nil
}

func logTransition(_ string, from, to session.State) {
	fields := map[string]any{
		"from_authenticated": from.IsAuthenticated,
		"to_authenticated":   to.IsAuthenticated,
	}
	if to.User != nil {
		fields["user_id"] = to.User.UserID
	}
	logger.Info("session state changed", fields)
}
