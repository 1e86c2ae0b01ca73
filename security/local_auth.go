package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chat-sync-app/entity"
	"chat-sync-app/repository"

	"gorm.io/gorm"
)

// LocalAuth keeps bcrypt accounts in the relational store and issues JWTs
// whose jti names a t_session row. Deleting the row revokes the token.
type LocalAuth struct {
	DB       *gorm.DB
	Accounts *repository.AuthRepository
	Sessions *repository.SessionRepository
	JWT      *JWT
	now      func() time.Time
}

func NewLocalAuth(db *gorm.DB, jwt *JWT) *LocalAuth {
	return &LocalAuth{
		DB:       db,
		Accounts: repository.NewAuthRepository(),
		Sessions: repository.NewSessionRepository(),
		JWT:      jwt,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *LocalAuth) SignUp(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	_, err := a.Accounts.FindByEmail(ctx, a.DB, email)
	if err == nil {
		return "", ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("look up account: %w", err)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	account := &entity.Account{Email: email, Password: hashed}
	if err := a.Accounts.Save(ctx, a.DB, account); err != nil {
		return "", fmt.Errorf("save account: %w", err)
	}
	return account.ID, nil
}

func (a *LocalAuth) SignIn(ctx context.Context, email, password string) (*Session, error) {
	account, err := a.Accounts.FindByEmail(ctx, a.DB, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up account: %w", err)
	}
	if !CheckPassword(account.Password, password) {
		return nil, ErrInvalidCredentials
	}

	now := a.now()
	sessionID := entity.NewID()
	token, expiresAt, err := a.JWT.GenerateToken(account.ID, sessionID, now)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	row := &entity.Session{ID: sessionID, UserID: account.ID, ExpiresAt: expiresAt}
	if err := a.Sessions.Save(ctx, a.DB, row); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return NewSession(a, account.ID, token), nil
}

func (a *LocalAuth) Verify(ctx context.Context, token string) (*Session, error) {
	userID, sessionID, err := a.JWT.ParseToken(token)
	if err != nil {
		return nil, err
	}
	row, err := a.Sessions.FindActive(ctx, a.DB, sessionID, a.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("look up session: %w", err)
	}
	if row.UserID != userID {
		return nil, ErrInvalidToken
	}
	return NewSession(a, userID, token), nil
}

func (a *LocalAuth) SignOut(ctx context.Context, token string) error {
	_, sessionID, err := a.JWT.ParseToken(token)
	if err != nil {
		return err
	}
	return a.Sessions.DeleteByID(ctx, a.DB, sessionID)
}

func (a *LocalAuth) DeleteAccount(ctx context.Context, userID string) error {
	return a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := a.Sessions.DeleteByUser(ctx, tx, userID); err != nil {
			return fmt.Errorf("delete sessions of %s: %w", userID, err)
		}
		account := &entity.Account{BaseEntity: entity.BaseEntity{ID: userID}}
		if err := a.Accounts.Delete(ctx, tx, account); err != nil {
			return fmt.Errorf("delete account %s: %w", userID, err)
		}
		return nil
	})
}

// PurgeExpired drops session rows whose tokens can no longer verify.
func (a *LocalAuth) PurgeExpired(ctx context.Context) (int64, error) {
	return a.Sessions.DeleteExpired(ctx, a.DB, a.now())
}
