package api

import (
	"github.com/brpaz/echozap"
	"github.com/google/uuid"
	"github.com/integrada/portal/view"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func NewServer(handler *Handler, healthCheck *HealthCheck, renderer *view.Renderer, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Skip request ids and access logs for the readiness probe
	skipper := RouteSkipper([]string{readinessRoute})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Skipper:   skipper,
		Generator: uuid.NewString,
	}))
	e.Use(Skip(skipper, echozap.ZapLogger(logger)))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "no-referrer",
	}))

	e.Renderer = renderer
	e.HTTPErrorHandler = NewErrorHandler(logger.Sugar())

	e.GET(readinessRoute, healthCheck.Ready)
	RegisterHandlers(e, handler)

	return e
}

func RegisterHandlers(e *echo.Echo, h *Handler) {
	e.GET("/", h.Page)
	e.POST("/refresh", h.Refresh)
	e.POST("/respondent", h.SelectRespondent)
	e.POST("/respondent/change", h.ChangeRespondent)
	e.GET("/tests/:code/fill", h.Fill)
	e.POST("/theme", h.ToggleTheme)
	e.GET("/logout", h.Logout)

	e.GET("/api/session", h.Session)
	e.GET("/api/tests/:code/share", h.Share)
}
