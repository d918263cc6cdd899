package handler

import (
    "errors"
    "log/slog"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/door-access-admin/internal/oauth"
    "github.com/iliyamo/door-access-admin/internal/session"
    "github.com/iliyamo/door-access-admin/internal/web"
)

// AuthHandler bundles dependencies for the login, OAuth callback and logout
// endpoints.
type AuthHandler struct {
    OAuth    *oauth.Client
    Sessions *session.Manager
}

func NewAuthHandler(client *oauth.Client, sessions *session.Manager) *AuthHandler {
    return &AuthHandler{OAuth: client, Sessions: sessions}
}

// Login renders the login page with a link to the provider's consent
// screen.  The browser follows the link itself.
func (h *AuthHandler) Login(c echo.Context) error {
    return c.Render(http.StatusOK, web.TemplateLogin, web.LoginPage{AuthURL: h.OAuth.AuthCodeURL()})
}

// OAuthRedirect handles GET /oauth/redirect?code=.  The code is exchanged
// for a token, the owner's display name is bound to a fresh session and
// the browser is sent to the landing page.
func (h *AuthHandler) OAuthRedirect(c echo.Context) error {
    code := c.QueryParam("code")
    if code == "" {
        return renderError(c, http.StatusBadRequest, "no code")
    }

    ctx := c.Request().Context()
    id, err := h.OAuth.Exchange(ctx, code)
    if err != nil {
        var xe *oauth.ExchangeError
        if errors.As(err, &xe) {
            slog.WarnContext(ctx, "oauth exchange rejected", "status", xe.Status, "body", xe.Body)
        } else {
            slog.ErrorContext(ctx, "oauth exchange failed", "error", err)
        }
        return renderError(c, http.StatusBadRequest, "login failed")
    }

    if err := h.Sessions.Start(c, id.UserName); err != nil {
        slog.ErrorContext(ctx, "session start failed", "error", err)
        return renderError(c, http.StatusInternalServerError, msgInternal)
    }
    slog.InfoContext(ctx, "user signed in", "user", id.UserName)
    return c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the whole session and returns to the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
    if err := h.Sessions.Destroy(c); err != nil {
        slog.WarnContext(c.Request().Context(), "session destroy failed", "error", err)
    }
    return c.Redirect(http.StatusSeeOther, "/login")
}
