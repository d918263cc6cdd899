package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/door-access-admin/internal/utils"
)

// CookieName is the name of the session cookie.
const CookieName = "door_admin_session"

// Manager ties the session cookie to the Store.
type Manager struct {
	store  Store
	key    []byte
	ttl    time.Duration
	secure bool
}

// NewManager builds a Manager. The cookie signing key is derived from
// secret.
func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{
		store:  store,
		key:    utils.DeriveKey(secret, utils.PurposeSessionCookie),
		ttl:    ttl,
		secure: secure,
	}
}

// Start creates a new session for userName and sets the cookie. Any
// session the request already carried is discarded first.
func (m *Manager) Start(c echo.Context, userName string) error {
	ctx := c.Request().Context()
	if id, err := m.sessionID(c); err == nil {
		_ = m.store.Delete(ctx, id)
	}
	id, err := utils.RandomHex(32)
	if err != nil {
		return fmt.Errorf("session id: %w", err)
	}
	if err := m.store.Save(ctx, id, Data{UserName: userName}, m.ttl); err != nil {
		return err
	}
	token, err := utils.NewSessionToken(m.key, id, m.ttl)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	c.SetCookie(m.cookie(token, int(m.ttl/time.Second)))
	return nil
}

// Current returns the id and data of the request's session. ErrNotFound
// covers a missing, tampered or expired cookie as well as an unknown id.
func (m *Manager) Current(c echo.Context) (string, Data, error) {
	id, err := m.sessionID(c)
	if err != nil {
		return "", Data{}, err
	}
	d, err := m.store.Load(c.Request().Context(), id)
	if err != nil {
		return "", Data{}, err
	}
	return id, d, nil
}

// Destroy clears the whole session server-side and expires the cookie.
func (m *Manager) Destroy(c echo.Context) error {
	c.SetCookie(m.cookie("", -1))
	id, err := m.sessionID(c)
	if err != nil {
		return nil
	}
	return m.store.Delete(c.Request().Context(), id)
}

// SetFlash stores a one-shot message shown on the next page render.
func (m *Manager) SetFlash(c echo.Context, msg string) error {
	id, d, err := m.Current(c)
	if err != nil {
		return err
	}
	d.Flash = msg
	return m.store.Save(c.Request().Context(), id, d, m.ttl)
}

// PopFlash returns and clears the pending flash message.
func (m *Manager) PopFlash(c echo.Context) string {
	id, d, err := m.Current(c)
	if err != nil || d.Flash == "" {
		return ""
	}
	msg := d.Flash
	d.Flash = ""
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	_ = m.store.Save(ctx, id, d, m.ttl)
	return msg
}

func (m *Manager) sessionID(c echo.Context) (string, error) {
	ck, err := c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return "", ErrNotFound
	}
	id, err := utils.ParseSessionToken(m.key, ck.Value)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) {
			return "", ErrNotFound
		}
		return "", err
	}
	return id, nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
