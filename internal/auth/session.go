package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/shopledger/internal/config"
)

var (
	// ErrInvalidCredentials is returned for a wrong console password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionNotFound is returned for unknown, expired or logged-out tokens.
	ErrSessionNotFound = errors.New("session not found")
	// ErrAlreadyAuthenticated is returned when logging in an authenticated session.
	ErrAlreadyAuthenticated = errors.New("session already authenticated")
	// ErrNotAuthenticated is returned when logging out an anonymous session.
	ErrNotAuthenticated = errors.New("session not authenticated")
)

// Session is an operator's console session. It starts anonymous and moves to
// authenticated through Login; Logout moves it back.
type Session struct {
	ID            string    `json:"id"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
	LastSeen      time.Time `json:"last_seen"`
}

// Login marks the session authenticated.
func (s *Session) Login(now time.Time) error {
	if s.Authenticated {
		return ErrAlreadyAuthenticated
	}
	s.Authenticated = true
	s.LastSeen = now
	return nil
}

// Logout drops the authentication.
func (s *Session) Logout(now time.Time) error {
	if !s.Authenticated {
		return ErrNotAuthenticated
	}
	s.Authenticated = false
	s.LastSeen = now
	return nil
}

// SessionManager checks the console password and tracks sessions by token.
type SessionManager struct {
	hash     []byte
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewSessionManager builds a manager from config. A plain password is hashed
// once at start-up; an explicit hash wins when both are set.
func NewSessionManager(cfg config.AuthConfig) (*SessionManager, error) {
	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		if cfg.Password == "" {
			return nil, errors.New("console password is not configured")
		}
		generated, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = generated
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, err
	}

	return &SessionManager{
		hash:     hash,
		ttl:      cfg.SessionTTL,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}, nil
}

// Login checks the password and returns a new authenticated session.
func (m *SessionManager) Login(password string) (Session, error) {
	if err := bcrypt.CompareHashAndPassword(m.hash, []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	now := m.now()
	session := &Session{ID: uuid.NewString(), CreatedAt: now}
	if err := session.Login(now); err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictExpired(now)
	m.sessions[session.ID] = session
	return *session, nil
}

// Authenticate resolves a token to its live session and refreshes its idle timer.
func (m *SessionManager) Authenticate(token string) (Session, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok || !session.Authenticated {
		return Session{}, ErrSessionNotFound
	}
	if m.expired(session, now) {
		delete(m.sessions, token)
		return Session{}, ErrSessionNotFound
	}
	session.LastSeen = now
	return *session, nil
}

// Logout ends the session behind token.
func (m *SessionManager) Logout(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok {
		return ErrSessionNotFound
	}
	if err := session.Logout(m.now()); err != nil {
		return err
	}
	delete(m.sessions, token)
	return nil
}

// Active counts live authenticated sessions.
func (m *SessionManager) Active() int {
	now := m.now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, session := range m.sessions {
		if session.Authenticated && !m.expired(session, now) {
			count++
		}
	}
	return count
}

func (m *SessionManager) expired(session *Session, now time.Time) bool {
	return m.ttl > 0 && now.Sub(session.LastSeen) > m.ttl
}

func (m *SessionManager) evictExpired(now time.Time) {
	for id, session := range m.sessions {
		if m.expired(session, now) {
			delete(m.sessions, id)
		}
	}
}

// TTL is the idle timeout after which a session expires. Zero disables expiry.
func (m *SessionManager) TTL() time.Duration { return m.ttl }
