// Package oauth performs the authorization-code handshake with the Notion
// OAuth provider and extracts the display name of the signed-in owner.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultUserName is used when the token response carries no owner name.
const DefaultUserName = "Gebruiker"

// ExchangeError describes a token endpoint that answered with a non-success
// status. Body is kept for server-side logging only.
type ExchangeError struct {
	Status int
	Body   string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed with status %d", e.Status)
}

// Identity is what the dashboard keeps from a successful exchange.
type Identity struct {
	UserName string
}

// Client wraps the provider endpoints and client credentials.
type Client struct {
	cfg        *oauth2.Config
	timeout    time.Duration
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for the token exchange.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a Client. Client credentials are sent with HTTP basic auth as
// Notion requires.
func New(clientID, clientSecret, redirectURI, authURL, tokenURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		timeout: timeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// AuthCodeURL returns the provider authorization URL for the owner scope.
func (c *Client) AuthCodeURL() string {
	return c.cfg.AuthCodeURL("", oauth2.SetAuthURLParam("owner", "user"))
}

// Exchange trades an authorization code for a token and returns the
// identity found at owner.user.name. Any 2xx answer is accepted, but it
// must carry an access_token. A non-2xx answer is reported as
// *ExchangeError.
func (c *Client) Exchange(ctx context.Context, code string) (Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}

	tok, err := c.cfg.Exchange(ctx, code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return Identity{}, &ExchangeError{Status: re.Response.StatusCode, Body: string(re.Body)}
		}
		return Identity{}, fmt.Errorf("token exchange: %w", err)
	}
	return Identity{UserName: ownerName(tok.Extra("owner"))}, nil
}

// ownerName digs owner.user.name out of the decoded token response.
func ownerName(owner any) string {
	o, ok := owner.(map[string]any)
	if !ok {
		return DefaultUserName
	}
	u, ok := o["user"].(map[string]any)
	if !ok {
		return DefaultUserName
	}
	name, ok := u["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return DefaultUserName
	}
	return name
}
