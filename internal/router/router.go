package router // package router defines how HTTP routes are registered for the dashboard

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/door-access-admin/internal/handler"    // handlers implementing each endpoint
	"github.com/iliyamo/door-access-admin/internal/middleware" // session gate, device auth and rate limiting
	"github.com/iliyamo/door-access-admin/internal/utils"      // device role name
)

// RegisterRoutes registers routes that need neither a session nor a device
// token.  Currently it exposes only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login, OAuth callback and logout routes.  The
// limiter guards the two endpoints that reach the OAuth provider.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	e.GET("/login", a.Login, limiter)
	e.GET("/oauth/redirect", a.OAuthRedirect, limiter)
	e.GET("/logout", a.Logout)
}

// RegisterDevice registers the door controller API under /api/v1.  Every
// route requires a bearer token signed with deviceKey that carries the
// DEVICE role.  The limiter runs after authentication so buckets are keyed
// by device.
func RegisterDevice(e *echo.Echo, h *handler.DeviceHandler, deviceKey []byte, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/api/v1",
		middleware.DeviceAuth(deviceKey),
		middleware.RequireRole(utils.RoleDevice),
		limiter,
	)
	g.GET("/badges/:uid", h.GetBadge)
	g.POST("/doors/:name/status", h.SetDoorStatus)
	g.POST("/access-logs", h.RecordAccess)
}
