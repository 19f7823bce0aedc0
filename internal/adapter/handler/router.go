package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/rondagdag/audience-survey/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	authHandler    *Auth
	sessionHandler *Session
	surveyHandler  *Survey
	adminMW        echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, authHandler *Auth, sessionHandler *Session, surveyHandler *Survey, adminMW echo.MiddlewareFunc) *Router {
	return &Router{
		cfg:            cfg,
		authHandler:    authHandler,
		sessionHandler: sessionHandler,
		surveyHandler:  surveyHandler,
		adminMW:        adminMW,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API docs
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAuthRoutes(v1)
	rt.setupSessionRoutes(v1)
	rt.setupSurveyRoutes(v1)
	rt.setupTestRoutes(v1)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	if rt.authHandler != nil {
		authGroup.POST("/verify", rt.authHandler.Verify)
	} else {
		authGroup.POST("/verify", rt.notImplemented)
	}
}

// setupSessionRoutes configures session routes; mutations and export require admin
func (rt *Router) setupSessionRoutes(g *echo.Group) {
	sessions := g.Group("/sessions")
	h := rt.sessionHandler

	sessions.GET("", h.ListSessions)
	sessions.GET("/:id/summary", h.GetSummary)
	sessions.GET("/:id/live", h.Live)

	sessions.POST("", h.CreateSession, rt.adminMW)
	sessions.PATCH("/:id/close", h.CloseSession, rt.adminMW)
	sessions.PUT("/:id/reactivate", h.ReactivateSession, rt.adminMW)
	sessions.DELETE("/:id", h.DeleteSession, rt.adminMW)
	sessions.GET("/:id/export", h.ExportCSV, rt.adminMW)
}

// setupSurveyRoutes configures survey submission routes
func (rt *Router) setupSurveyRoutes(g *echo.Group) {
	g.POST("/analyze", rt.surveyHandler.Analyze)
}

// setupTestRoutes configures routes used by end-to-end tests
func (rt *Router) setupTestRoutes(g *echo.Group) {
	g.POST("/test/clear", rt.sessionHandler.Clear)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := "development"
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": env,
	})
}
