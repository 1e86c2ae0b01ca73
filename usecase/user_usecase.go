package usecase

import (
	"context"

	"chat-sync-app/dto/req"
	"chat-sync-app/entity"
	"chat-sync-app/listener"
	"chat-sync-app/security"
	"chat-sync-app/storage"
)

type UserUsecase interface {
	GetUser(ctx context.Context, session *security.Session, userID string) (*entity.User, error)
	UpdateProfile(ctx context.Context, session *security.Session, request *req.EditProfileRequest, image *storage.Image) (*entity.User, error)
	ListenSearch(ctx context.Context, session *security.Session, prefix string) (<-chan listener.Snapshot[entity.User], error)
}
