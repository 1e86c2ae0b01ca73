package usecase

import (
	"context"

	"chat-sync-app/dto/req"
	"chat-sync-app/entity"
	"chat-sync-app/security"
	"chat-sync-app/storage"
)

type AuthUsecase interface {
	SignUp(ctx context.Context, request *req.RegisterRequest, image *storage.Image) (*security.Session, *entity.User, error)
	SignIn(ctx context.Context, request *req.LoginRequest) (*security.Session, *entity.User, error)
	SignOut(ctx context.Context, session *security.Session) error
	Authenticate(ctx context.Context, token string) (*security.Session, error)
	Me(ctx context.Context, session *security.Session) (*entity.User, error)
}
