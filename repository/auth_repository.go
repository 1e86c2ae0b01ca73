package repository

import (
	"context"
	"errors"
	"time"

	"chat-sync-app/entity"

	"gorm.io/gorm"
)

type AuthRepository struct {
	Repository[entity.Account]
}

func NewAuthRepository() *AuthRepository {
	return &AuthRepository{}
}

func (repository AuthRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.Account, error) {
	account := &entity.Account{}
	err := db.WithContext(ctx).Where("email = ?", email).First(account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

type SessionRepository struct {
	Repository[entity.Session]
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// FindActive returns the session only while it is unexpired.
func (repository SessionRepository) FindActive(ctx context.Context, db *gorm.DB, id string, now time.Time) (*entity.Session, error) {
	session := &entity.Session{}
	err := db.WithContext(ctx).Where("id = ? AND expires_at > ?", id, now).First(session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (repository SessionRepository) DeleteByID(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Session{}).Error
}

func (repository SessionRepository) DeleteByUser(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.Session{}).Error
}

func (repository SessionRepository) DeleteExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	result := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&entity.Session{})
	return result.RowsAffected, result.Error
}
