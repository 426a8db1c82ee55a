package session

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type tokenMeta struct {
	SessionID string
	ExpiresAt time.Time
}

// tokenManager maps opaque bearer tokens to session ids with a sliding expiry.
type tokenManager struct {
	mu     sync.RWMutex
	tokens map[string]tokenMeta
	now    func() time.Time
}

func newTokenManager(now func() time.Time) *tokenManager {
	return &tokenManager{
		tokens: make(map[string]tokenMeta),
		now:    now,
	}
}

func (m *tokenManager) Issue(sessionID string, ttl time.Duration) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	meta := tokenMeta{
		SessionID: sessionID,
		ExpiresAt: m.now().Add(ttl),
	}
	m.mu.Lock()
	m.tokens[token] = meta
	m.mu.Unlock()
	return token, nil
}

// Validate returns the token's metadata and pushes its expiry out by ttl.
func (m *tokenManager) Validate(token string, ttl time.Duration) (tokenMeta, bool) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	meta, ok := m.tokens[token]
	if !ok {
		return tokenMeta{}, false
	}
	if now.After(meta.ExpiresAt) {
		delete(m.tokens, token)
		return tokenMeta{}, false
	}
	meta.ExpiresAt = now.Add(ttl)
	m.tokens[token] = meta
	return meta, true
}

// Sweep drops expired tokens and returns the session ids they pointed to.
func (m *tokenManager) Sweep() []string {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []string
	for token, meta := range m.tokens {
		if now.After(meta.ExpiresAt) {
			delete(m.tokens, token)
			expired = append(expired, meta.SessionID)
		}
	}
	return expired
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
