package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newContext(e *echo.Echo, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatal("Expected session cookie to be set")
	return nil
}

func TestStartAndCurrent(t *testing.T) {
	e := echo.New()
	store := NewMemoryStore()
	m := NewManager(store, "secret", time.Hour, false)

	c, rec := newContext(e)
	if err := m.Start(c, "Sofie"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ck := sessionCookie(t, rec)
	if !ck.HttpOnly {
		t.Error("Expected HttpOnly cookie")
	}

	c2, _ := newContext(e, ck)
	_, d, err := m.Current(c2)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if d.UserName != "Sofie" {
		t.Errorf("Expected Sofie, got %q", d.UserName)
	}
}

func TestCurrentWithoutOrTamperedCookie(t *testing.T) {
	e := echo.New()
	m := NewManager(NewMemoryStore(), "secret", time.Hour, false)

	c, _ := newContext(e)
	if _, _, err := m.Current(c); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound without cookie, got %v", err)
	}

	c, _ = newContext(e, &http.Cookie{Name: CookieName, Value: "not-a-token"})
	if _, _, err := m.Current(c); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for tampered cookie, got %v", err)
	}

	// A cookie signed with another secret is rejected.
	other := NewManager(NewMemoryStore(), "other-secret", time.Hour, false)
	c, rec := newContext(e)
	_ = other.Start(c, "Mallory")
	c, _ = newContext(e, sessionCookie(t, rec))
	if _, _, err := m.Current(c); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign cookie, got %v", err)
	}
}

func TestDestroyClearsStore(t *testing.T) {
	e := echo.New()
	store := NewMemoryStore()
	m := NewManager(store, "secret", time.Hour, false)

	c, rec := newContext(e)
	_ = m.Start(c, "Sofie")
	ck := sessionCookie(t, rec)

	c, rec = newContext(e, ck)
	if err := m.Destroy(c); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d", store.Len())
	}
	if cleared := sessionCookie(t, rec); cleared.MaxAge >= 0 {
		t.Errorf("Expected expired cookie, got MaxAge %d", cleared.MaxAge)
	}

	c, _ = newContext(e, ck)
	if _, _, err := m.Current(c); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after destroy, got %v", err)
	}
}

func TestFlashIsOneShot(t *testing.T) {
	e := echo.New()
	m := NewManager(NewMemoryStore(), "secret", time.Hour, false)

	c, rec := newContext(e)
	_ = m.Start(c, "Sofie")
	ck := sessionCookie(t, rec)

	c, _ = newContext(e, ck)
	if err := m.SetFlash(c, "deur_naam is verplicht"); err != nil {
		t.Fatalf("SetFlash: %v", err)
	}
	c, _ = newContext(e, ck)
	if got := m.PopFlash(c); got != "deur_naam is verplicht" {
		t.Errorf("Unexpected flash %q", got)
	}
	c, _ = newContext(e, ck)
	if got := m.PopFlash(c); got != "" {
		t.Errorf("Expected flash consumed, got %q", got)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Save(ctx, "a", Data{UserName: "x"}, time.Minute)
	now = now.Add(2 * time.Minute)
	if _, err := store.Load(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected expired session, got %v", err)
	}
}
