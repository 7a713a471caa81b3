package auth

import "sync"

// Token is a session token issued by the login endpoint. It is kept until
// logout; a requested lifetime is left to the server to enforce.
type Token struct {
	Key string
}

// Valid reports whether the token holds a key.
func (t *Token) Valid() bool {
	return t != nil && t.Key != ""
}

// TokenStore holds at most one token.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token or nil.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear discards the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}
