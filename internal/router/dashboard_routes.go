package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/door-access-admin/internal/handler"
	"github.com/iliyamo/door-access-admin/internal/middleware"
	"github.com/iliyamo/door-access-admin/internal/session"
)

// RegisterDashboard registers the signed-in pages and forms.  All of them
// sit behind the session gate, which sends anonymous visitors to /login.
// The gate is attached per route rather than through a root group so that
// unknown paths still answer 404.
func RegisterDashboard(e *echo.Echo, h *handler.DashboardHandler, sessions *session.Manager) {
	gate := middleware.RequireSession(sessions)

	e.GET("/", h.Home, gate)
	e.GET("/data/:page", h.ShowData, gate)

	e.POST("/add/personeel", h.AddPersonnel, gate)
	e.POST("/add/deur", h.AddDoor, gate)
	e.POST("/add/autorisatie", h.AddAuthorization, gate)

	e.POST("/delete/:collection/:id", h.Delete, gate)
}
