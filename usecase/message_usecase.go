package usecase

import (
	"context"

	"chat-sync-app/dto/req"
	"chat-sync-app/entity"
	"chat-sync-app/listener"
	"chat-sync-app/security"
	"chat-sync-app/storage"
)

type MessageUsecase interface {
	SendMessage(ctx context.Context, session *security.Session, roomID string, request *req.MessageRequest, image *storage.Image) (*entity.Message, error)
	DeleteMessage(ctx context.Context, session *security.Session, roomID, messageID string) error
	ListenMessages(ctx context.Context, session *security.Session, roomID string) (<-chan listener.Snapshot[entity.Message], error)
}
