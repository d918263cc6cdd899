package middleware

// identity.go holds the dashboard session gate and the context keys shared by
// the middleware in this package.  Page routes read the display name bound
// by RequireSession; device routes read the subject bound by DeviceAuth.

import (
    "errors"
    "log/slog"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/door-access-admin/internal/session"
)

// Context keys set by the middleware in this package.
const (
    CtxUserName  = "user_name"
    CtxSessionID = "session_id"
    CtxDevice    = "device"
    CtxRole      = "role"
)

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// RequireSession lets a request through only when its session carries a
// display name.  Anything else (no cookie, a tampered or expired cookie, a
// session that was destroyed) is redirected to the login page with 303.
// There is no resume-after-login.
func RequireSession(m *session.Manager) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            id, data, err := m.Current(c)
            if err != nil && !errors.Is(err, session.ErrNotFound) {
                // The store itself failed; the user is not known to be
                // signed out, but nothing can be served without a name.
                slog.ErrorContext(c.Request().Context(), "session lookup failed", "error", err)
            }
            if err != nil || data.UserName == "" {
                return c.Redirect(http.StatusSeeOther, LoginPath)
            }
            c.Set(CtxSessionID, id)
            c.Set(CtxUserName, data.UserName)
            return next(c)
        }
    }
}

// UserName returns the display name bound by RequireSession, or "".
func UserName(c echo.Context) string {
    if v, ok := c.Get(CtxUserName).(string); ok {
        return v
    }
    return ""
}

// Device returns the subject of the device token bound by DeviceAuth, or
// "unknown".
func Device(c echo.Context) string {
    if v, ok := c.Get(CtxDevice).(string); ok && v != "" {
        return v
    }
    return "unknown"
}
