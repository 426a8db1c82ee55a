package session

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"lumina-commerce/internal/cart"
	"lumina-commerce/internal/order"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Session is one shopper's private state: a cart and the last tracking lookup.
type Session struct {
	ID        string
	Cart      *cart.Store
	Tracking  *order.View
	CreatedAt time.Time
}

type Service struct {
	tokens        *tokenManager
	ttl           time.Duration
	looker        order.Looker
	lookupTimeout time.Duration
	logger        *log.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New builds a session service. Sessions expire after ttl without use; each
// session's tracking view runs lookups through looker bounded by lookupTimeout.
func New(ttl time.Duration, looker order.Looker, lookupTimeout time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		tokens:        newTokenManager(time.Now),
		ttl:           ttl,
		looker:        looker,
		lookupTimeout: lookupTimeout,
		logger:        logger,
		sessions:      make(map[string]*Session),
	}
}

// Issue creates a session and returns its bearer token.
func (s *Service) Issue(ctx context.Context) (string, *Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		Cart:      cart.NewStore(),
		Tracking:  order.NewView(s.looker, s.lookupTimeout),
		CreatedAt: time.Now().UTC(),
	}
	token, err := s.tokens.Issue(sess.ID, s.ttl)
	if err != nil {
		return "", nil, err
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.logger.Printf("session: issued id=%s", sess.ID)
	return token, sess, nil
}

// LookupByToken resolves a bearer token and refreshes its expiry.
func (s *Service) LookupByToken(ctx context.Context, token string) (*Session, error) {
	meta, ok := s.tokens.Validate(token, s.ttl)
	if !ok {
		return nil, ErrInvalidToken
	}
	s.mu.RLock()
	sess, ok := s.sessions[meta.SessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidToken
	}
	return sess, nil
}

// Sweep discards expired sessions and reports how many were dropped.
func (s *Service) Sweep() int {
	expired := s.tokens.Sweep()
	if len(expired) == 0 {
		return 0
	}
	s.mu.Lock()
	for _, id := range expired {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	s.logger.Printf("session: swept %d expired", len(expired))
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
