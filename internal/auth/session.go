// Package auth authenticates API requests, either with a session token
// obtained from the login endpoint or with HTTP basic credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fivetwenty-io/rossum/internal/constants"
	rossumhttp "github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// Authenticator authorizes requests and ends the session it opened.
type Authenticator interface {
	rossumhttp.TokenManager
	// Logout invalidates the session. It is idempotent.
	Logout(ctx context.Context) error
}

// Credentials are the resolved login settings.
type Credentials struct {
	Username string
	Password string
	// Token skips login when set.
	Token string
	// MaxTokenLifetime is sent as max_token_lifetime_s when positive.
	MaxTokenLifetime time.Duration
}

// New returns a basic auth authenticator when basic is set, a token session
// otherwise. The transport performs login and logout calls; it must not carry
// a token manager of its own.
func New(transport *rossumhttp.Client, creds Credentials, basic bool) Authenticator {
	if basic {
		return NewBasicAuth(creds.Username, creds.Password)
	}

	return NewSession(transport, creds)
}

// Session lazily logs in on the first authorized request and caches the
// issued token for the life of the client.
type Session struct {
	transport   *rossumhttp.Client
	username    string
	password    string
	maxLifetime time.Duration

	// mu serializes login and logout so that one token is issued at a time.
	mu    sync.Mutex
	store *TokenStore
}

// NewSession creates a token session. A non-empty creds.Token is used as is.
func NewSession(transport *rossumhttp.Client, creds Credentials) *Session {
	session := &Session{
		transport:   transport,
		username:    creds.Username,
		password:    creds.Password,
		maxLifetime: creds.MaxTokenLifetime,
		store:       NewTokenStore(),
	}

	if creds.Token != "" {
		session.store.Set(&Token{Key: creds.Token})
	}

	return session
}

// Authorize implements rossumhttp.TokenManager.
func (s *Session) Authorize(ctx context.Context, req *http.Request) error {
	key, err := s.Token(ctx)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", constants.TokenAuthScheme+" "+key)

	return nil
}

// Token returns the cached token, logging in first when there is none.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token := s.store.Get(); token.Valid() {
		return token.Key, nil
	}

	token, err := s.login(ctx)
	if err != nil {
		return "", err
	}

	s.store.Set(token)

	return token.Key, nil
}

// LoggedIn reports whether a token is cached.
func (s *Session) LoggedIn() bool {
	return s.store.Get().Valid()
}

func (s *Session) login(ctx context.Context) (*Token, error) {
	body := map[string]interface{}{
		"username": s.username,
		"password": s.password,
	}

	if s.maxLifetime > 0 {
		body["max_token_lifetime_s"] = int(s.maxLifetime / time.Second)
	}

	resp, err := s.transport.Do(ctx, &rossumhttp.Request{
		Method:         http.MethodPost,
		Path:           constants.LoginPath,
		Body:           body,
		ExpectedStatus: http.StatusOK,
	})
	if err != nil {
		apiErr := &rossum.APIError{}
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, rossum.ErrInvalidCredentials
		}

		return nil, err
	}

	record, err := resp.Record()
	if err != nil {
		return nil, err
	}

	key := record.String("key")
	if key == "" {
		return nil, &rossum.MalformedResponseError{URL: resp.URL, Body: resp.Text()}
	}

	return &Token{Key: key}, nil
}

// Logout posts to the logout endpoint when a token is cached and forgets the
// token. Without a token it does nothing.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.store.Get()
	if token == nil || token.Key == "" {
		return nil
	}

	s.store.Clear()

	_, err := s.transport.Do(ctx, &rossumhttp.Request{
		Method: http.MethodPost,
		Path:   constants.LogoutPath,
		Body:   map[string]interface{}{},
		Headers: map[string]string{
			"Authorization": constants.TokenAuthScheme + " " + token.Key,
		},
		ExpectedStatus: http.StatusOK,
	})
	if err != nil {
		return fmt.Errorf("logging out: %w", err)
	}

	return nil
}

// BasicAuth sends the username and password with every request.
type BasicAuth struct {
	username string
	password string
}

// NewBasicAuth creates a basic auth authenticator.
func NewBasicAuth(username, password string) *BasicAuth {
	return &BasicAuth{username: username, password: password}
}

// Authorize implements rossumhttp.TokenManager.
func (b *BasicAuth) Authorize(_ context.Context, req *http.Request) error {
	req.SetBasicAuth(b.username, b.password)

	return nil
}

// Logout does nothing; basic auth has no session.
func (b *BasicAuth) Logout(context.Context) error {
	return nil
}
