package handler_test

import (
    "context"
    "database/sql"
    "net/http"
    "net/http/httptest"
    "net/url"
    "strings"
    "sync"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/door-access-admin/internal/config"
    "github.com/iliyamo/door-access-admin/internal/handler"
    "github.com/iliyamo/door-access-admin/internal/middleware"
    "github.com/iliyamo/door-access-admin/internal/oauth"
    "github.com/iliyamo/door-access-admin/internal/queue"
    "github.com/iliyamo/door-access-admin/internal/router"
    "github.com/iliyamo/door-access-admin/internal/session"
    "github.com/iliyamo/door-access-admin/internal/utils"
    "github.com/iliyamo/door-access-admin/internal/web"
)

const testSecret = "handler-test-secret"

type sentEvent struct {
    queue string
    event any
}

type fakeEvents struct {
    enabled bool
    err     error

    mu   sync.Mutex
    sent []sentEvent
}

func (f *fakeEvents) Enabled() bool { return f.enabled }

func (f *fakeEvents) Publish(_ context.Context, queueName string, event any) error {
    if f.err != nil {
        return f.err
    }
    f.mu.Lock()
    defer f.mu.Unlock()
    f.sent = append(f.sent, sentEvent{queue: queueName, event: event})
    return nil
}

// revoked lists the uids of the badge.revoked events sent so far.
func (f *fakeEvents) revoked() []string {
    f.mu.Lock()
    defer f.mu.Unlock()
    var out []string
    for _, s := range f.sent {
        if ev, ok := s.event.(queue.BadgeRevokedEvent); ok && s.queue == queue.QueueBadgeRevoked {
            out = append(out, ev.UID)
        }
    }
    return out
}

func (f *fakeEvents) queues() []string {
    f.mu.Lock()
    defer f.mu.Unlock()
    var out []string
    for _, s := range f.sent {
        out = append(out, s.queue)
    }
    return out
}

type testApp struct {
    e        *echo.Echo
    stores   handler.Stores
    sessions *session.Manager
    events   *fakeEvents
    cookie   *http.Cookie
}

// newTestApp wires the full router over db.  A nil db simulates a store
// that could not be reached at startup.
func newTestApp(t *testing.T, db *sql.DB, tokenURL string) *testApp {
    t.Helper()
    e := echo.New()
    e.Renderer = web.MustRenderer()

    sessions := session.NewManager(session.NewMemoryStore(), testSecret, time.Hour, false)
    events := &fakeEvents{enabled: true}
    stores := handler.NewStores(db)
    if tokenURL == "" {
        tokenURL = "http://127.0.0.1:1/token"
    }
    client := oauth.New("cid", "csecret", "http://localhost:5000/oauth/redirect", config.DefaultAuthURL, tokenURL, 5*time.Second)
    limiter := middleware.NewTokenBucket(config.RateLimitConfig{}, nil)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, handler.NewAuthHandler(client, sessions), limiter)
    router.RegisterDashboard(e, handler.NewDashboardHandler(stores, sessions, events), sessions)
    router.RegisterDevice(e, handler.NewDeviceHandler(stores, events),
        utils.DeriveKey(testSecret, utils.PurposeDeviceToken), limiter)

    app := &testApp{e: e, stores: stores, sessions: sessions, events: events}

    // Sign in the way the OAuth callback does.
    req := httptest.NewRequest(http.MethodGet, "/oauth/redirect", nil)
    rec := httptest.NewRecorder()
    if err := sessions.Start(e.NewContext(req, rec), "Test Gebruiker"); err != nil {
        t.Fatalf("Start: %v", err)
    }
    app.cookie = rec.Result().Cookies()[0]
    return app
}

func (a *testApp) do(req *http.Request, signedIn bool) *httptest.ResponseRecorder {
    if signedIn {
        req.AddCookie(a.cookie)
    }
    rec := httptest.NewRecorder()
    a.e.ServeHTTP(rec, req)
    return rec
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
    return a.do(httptest.NewRequest(http.MethodGet, path, nil), true)
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
    req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
    return a.do(req, true)
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
    t.Helper()
    if rec.Code != http.StatusSeeOther {
        t.Fatalf("Expected 303, got %d: %s", rec.Code, rec.Body.String())
    }
    if got := rec.Header().Get("Location"); got != location {
        t.Fatalf("Expected redirect to %q, got %q", location, got)
    }
}

func TestHealth(t *testing.T) {
    app := newTestApp(t, nil, "")
    rec := app.do(httptest.NewRequest(http.MethodGet, "/healthz", nil), false)
    if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
        t.Errorf("Unexpected health response %d %q", rec.Code, rec.Body.String())
    }
}
