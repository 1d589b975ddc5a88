package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/landinvestpro/marketplace-gateway/docs"
	"github.com/landinvestpro/marketplace-gateway/internal/api/handler"
	"github.com/landinvestpro/marketplace-gateway/internal/api/middleware"
	"github.com/landinvestpro/marketplace-gateway/internal/core/ports"
)

// RouterOptions groups the dependencies the router wires together.
type RouterOptions struct {
	Sessions     ports.SessionManager
	Backend      ports.BackendClient
	Redis        *redis.Client
	CookieSecret string
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Route layout mirrors the frontend's surfaces: public auth endpoints,
// authenticated baseline views, and role-restricted views. The Session
// middleware runs globally so every guard decides on a hydrated request.
func NewRouter(opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace_gateway"))
	e.Use(middleware.Session(opts.Sessions, opts.CookieSecret))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(opts.Sessions, opts.CookieSecret)
	profileHandler := handler.NewProfileHandler(opts.Backend, opts.Sessions)
	dashboardHandler := handler.NewDashboardHandler()
	viewsHandler := handler.NewViewsHandler(opts.Backend)

	// --- Public-only surfaces (authenticated users are redirected away) ---
	public := e.Group("", middleware.PublicOnly())
	public.POST("/auth/login", authHandler.Login)
	public.POST("/auth/register", authHandler.Register)

	// Logout is deliberately unguarded: clearing an absent session is a no-op.
	e.POST("/auth/logout", authHandler.Logout)

	// --- Authenticated baseline ---
	authed := e.Group("", middleware.Authenticated())
	authed.GET("/auth/me", authHandler.Me)
	authed.GET("/users/profile", profileHandler.Get)
	authed.PUT("/users/profile", profileHandler.Update)
	authed.GET("/dashboard", dashboardHandler.View)
	authed.GET("/navigation", dashboardHandler.Navigation)
	authed.GET("/marketplace", viewsHandler.Marketplace)
	authed.GET("/document-management", viewsHandler.Documents)

	// --- Role-restricted surfaces ---
	e.GET("/document-review", viewsHandler.DocumentReview, middleware.ReviewerOnly())
	e.GET("/project-management", viewsHandler.ProjectManagement, middleware.OwnerOnly())
	e.GET("/admin/users", viewsHandler.AdminUsers, middleware.AdminOnly())

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.Redis, opts.Backend)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
