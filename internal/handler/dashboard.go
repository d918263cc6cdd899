package handler

import (
    "errors"
    "log/slog"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/door-access-admin/internal/middleware"
    "github.com/iliyamo/door-access-admin/internal/session"
    "github.com/iliyamo/door-access-admin/internal/view"
    "github.com/iliyamo/door-access-admin/internal/web"
)

// DashboardHandler serves the signed-in pages: the landing page, the data
// pages and the add and delete forms posted from them.
type DashboardHandler struct {
    Reader   *view.Reader
    Stores   Stores
    Sessions *session.Manager
    Events   EventPublisher
}

// NewDashboardHandler wires the reader over the same repositories the
// writers use.  events may be nil.
func NewDashboardHandler(st Stores, sessions *session.Manager, events EventPublisher) *DashboardHandler {
    if sessions == nil {
        panic("nil session manager passed to NewDashboardHandler")
    }
    reader := view.NewReader(view.Sources{
        Personnel:  st.Personnel,
        Badges:     st.Badges,
        Doors:      st.Doors,
        AccessLogs: st.AccessLogs,
    })
    return &DashboardHandler{Reader: reader, Stores: st, Sessions: sessions, Events: events}
}

// Home handles GET /.
func (h *DashboardHandler) Home(c echo.Context) error {
    return c.Render(http.StatusOK, web.TemplateHome, web.HomePage{
        UserName: middleware.UserName(c),
        Pages:    view.Pages(),
        Flash:    h.Sessions.PopFlash(c),
    })
}

// ShowData handles GET /data/:page.  Unknown pages are 404; an unreachable
// store is 500 with a plain message, never a crash.
func (h *DashboardHandler) ShowData(c echo.Context) error {
    page := pathParam(c, "page")
    pv, err := h.Reader.ShowData(c.Request().Context(), page)
    if err != nil {
        if errors.Is(err, view.ErrUnknownPage) {
            return renderError(c, http.StatusNotFound, "page not found")
        }
        return storeFailure(c, "show data", err, "page", page)
    }
    pv.UserName = middleware.UserName(c)
    pv.Flash = h.Sessions.PopFlash(c)
    return c.Render(http.StatusOK, web.TemplateData, pv)
}

// flashAndReturn stores msg for the next page render and sends the browser
// back to page.
func (h *DashboardHandler) flashAndReturn(c echo.Context, page, msg string) error {
    if err := h.Sessions.SetFlash(c, msg); err != nil {
        slog.WarnContext(c.Request().Context(), "flash not stored", "error", err)
    }
    return c.Redirect(http.StatusSeeOther, dataPath(page))
}
