package usecase

import (
	"errors"

	"chat-sync-app/security"
)

var (
	ErrNotAuthenticated = errors.New("user is not logged in")
	ErrForbidden        = errors.New("operation not permitted")
	ErrSelfRelation     = errors.New("cannot relate a user to themselves")
)

func requireSession(session *security.Session) (string, error) {
	if !session.HasUser() {
		return "", ErrNotAuthenticated
	}
	return session.UserID(), nil
}
