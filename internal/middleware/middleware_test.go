package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/door-access-admin/internal/config"
    "github.com/iliyamo/door-access-admin/internal/session"
    "github.com/iliyamo/door-access-admin/internal/utils"
)

const testSecret = "middleware-test-secret"

func okHandler(c echo.Context) error {
    return c.String(http.StatusOK, UserName(c)+"|"+Device(c))
}

// signIn starts a session for name and returns the cookie the browser
// would send back.
func signIn(t *testing.T, e *echo.Echo, m *session.Manager, name string) *http.Cookie {
    t.Helper()
    req := httptest.NewRequest(http.MethodGet, "/oauth/redirect", nil)
    rec := httptest.NewRecorder()
    if err := m.Start(e.NewContext(req, rec), name); err != nil {
        t.Fatalf("Start: %v", err)
    }
    cookies := rec.Result().Cookies()
    if len(cookies) != 1 {
        t.Fatalf("Expected one cookie, got %d", len(cookies))
    }
    return cookies[0]
}

func TestRequireSessionRedirectsAnonymous(t *testing.T) {
    e := echo.New()
    m := session.NewManager(session.NewMemoryStore(), testSecret, time.Hour, false)
    e.GET("/", okHandler, RequireSession(m))

    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
    if rec.Code != http.StatusSeeOther {
        t.Fatalf("Expected 303, got %d", rec.Code)
    }
    if loc := rec.Header().Get("Location"); loc != LoginPath {
        t.Errorf("Expected redirect to %s, got %q", LoginPath, loc)
    }
}

func TestRequireSessionPassesSignedIn(t *testing.T) {
    e := echo.New()
    m := session.NewManager(session.NewMemoryStore(), testSecret, time.Hour, false)
    e.GET("/", okHandler, RequireSession(m))
    ck := signIn(t, e, m, "Lotte")

    req := httptest.NewRequest(http.MethodGet, "/", nil)
    req.AddCookie(ck)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    if rec.Code != http.StatusOK {
        t.Fatalf("Expected 200, got %d", rec.Code)
    }
    if rec.Body.String() != "Lotte|unknown" {
        t.Errorf("Unexpected body %q", rec.Body.String())
    }
}

func TestDeviceAuth(t *testing.T) {
    key := utils.DeriveKey(testSecret, utils.PurposeDeviceToken)
    e := echo.New()
    e.GET("/api", okHandler, DeviceAuth(key), RequireRole(utils.RoleDevice))

    tok, err := utils.NewDeviceToken(key, "Hoofdingang", time.Hour)
    if err != nil {
        t.Fatalf("NewDeviceToken: %v", err)
    }
    cookieKey := utils.DeriveKey(testSecret, utils.PurposeSessionCookie)
    foreign, _ := utils.NewDeviceToken(cookieKey, "Hoofdingang", time.Hour)

    cases := []struct {
        name   string
        header string
        want   int
    }{
        {"missing", "", http.StatusUnauthorized},
        {"not bearer", "Basic abc", http.StatusUnauthorized},
        {"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
        {"wrong key", "Bearer " + foreign.Token, http.StatusUnauthorized},
        {"valid", "Bearer " + tok.Token, http.StatusOK},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            req := httptest.NewRequest(http.MethodGet, "/api", nil)
            if tc.header != "" {
                req.Header.Set("Authorization", tc.header)
            }
            rec := httptest.NewRecorder()
            e.ServeHTTP(rec, req)
            if rec.Code != tc.want {
                t.Fatalf("Expected %d, got %d", tc.want, rec.Code)
            }
            if tc.want == http.StatusOK && rec.Body.String() != "|Hoofdingang" {
                t.Errorf("Unexpected body %q", rec.Body.String())
            }
        })
    }
}

func TestRequireRoleForbidden(t *testing.T) {
    e := echo.New()
    e.GET("/api", okHandler, func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            c.Set(CtxRole, "VISITOR")
            return next(c)
        }
    }, RequireRole(utils.RoleDevice))

    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api", nil))
    if rec.Code != http.StatusForbidden {
        t.Errorf("Expected 403, got %d", rec.Code)
    }
}

func TestTokenBucketPassThroughWithoutRedis(t *testing.T) {
    e := echo.New()
    cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Hour, TTL: time.Hour, Prefix: "rl"}
    e.GET("/login", okHandler, NewTokenBucket(cfg, nil))
    for i := 0; i < 3; i++ {
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
        if rec.Code != http.StatusOK {
            t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
        }
    }
}

func TestRateKey(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/api/v1/doors/Kelder/status", nil)
    req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/api/v1/doors/:name/status")

    if got, want := rateKey("rl", c), "rl:ip:10.0.0.7:route:POST /api/v1/doors/:name/status"; got != want {
        t.Errorf("got %q, want %q", got, want)
    }
    c.Set(CtxDevice, "Kelder")
    if got, want := rateKey("rl", c), "rl:device:Kelder:route:POST /api/v1/doors/:name/status"; got != want {
        t.Errorf("got %q, want %q", got, want)
    }
}

func TestRetryAfterSeconds(t *testing.T) {
    if got := retryAfterSeconds(1500); got != 2 {
        t.Errorf("Expected 2, got %d", got)
    }
    if got := retryAfterSeconds(-5); got != 0 {
        t.Errorf("Expected 0, got %d", got)
    }
}
