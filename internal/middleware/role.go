package middleware // middleware provides shared request processing for handlers

import (
    "log/slog" // structured logging of rejected callers
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireRole rejects requests whose "role" context value, as stored by
// DeviceAuth, is not one of roles.  A rejected request gets 403 Forbidden.
// It must be registered after DeviceAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]struct{}, len(roles))
    for _, r := range roles {
        allowed[r] = struct{}{}
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, _ := c.Get(CtxRole).(string)
            if _, ok := allowed[role]; !ok {
                slog.WarnContext(c.Request().Context(), "role rejected",
                    "device", Device(c), "role", role, "path", c.Path())
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
