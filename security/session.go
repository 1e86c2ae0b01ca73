package security

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// Authenticator is the identity provider behind sessions.
type Authenticator interface {
	// SignUp registers the credentials and returns the new user id.
	SignUp(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// Verify resolves a token issued by SignIn into a live session.
	Verify(ctx context.Context, token string) (*Session, error)
	// SignOut invalidates token. Verify rejects it afterwards.
	SignOut(ctx context.Context, token string) error
	// DeleteAccount removes the credentials of userID so the email can
	// register again.
	DeleteAccount(ctx context.Context, userID string) error
}

// Session is the signed-in user of one client. It is passed explicitly to
// every operation that acts on behalf of a user.
type Session struct {
	mu     sync.RWMutex
	auth   Authenticator
	userID string
	token  string
}

func NewSession(auth Authenticator, userID, token string) *Session {
	return &Session{auth: auth, userID: userID, token: token}
}

func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) HasUser() bool {
	return s.UserID() != ""
}

// SignOut clears the session and invalidates its token with the provider.
// The session is cleared even when the provider call fails.
func (s *Session) SignOut(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	token := s.token
	s.userID, s.token = "", ""
	s.mu.Unlock()

	if token == "" || s.auth == nil {
		return nil
	}
	return s.auth.SignOut(ctx, token)
}
