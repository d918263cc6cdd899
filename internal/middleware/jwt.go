package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/door-access-admin/internal/utils" // device token verification
)

// DeviceAuth returns an Echo middleware that validates the Bearer token sent
// by a door controller and injects the token's subject and role claims into
// the request context.  key must be the device key derived from the session
// secret (utils.PurposeDeviceToken); tokens signed with any other key,
// including session cookies, are rejected.  Handlers read the controller
// name via Device(c) and the role via c.Get("role").
func DeviceAuth(key []byte) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

            // Signature, algorithm and expiry are all checked by the parser.
            subject, role, err := utils.ParseDeviceToken(key, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            c.Set(CtxDevice, subject)
            c.Set(CtxRole, role)
            return next(c)
        }
    }
}
