package usecase

import (
	"context"

	"chat-sync-app/dto/req"
	"chat-sync-app/entity"
	"chat-sync-app/listener"
	"chat-sync-app/security"
	"chat-sync-app/storage"
)

type RoomUsecase interface {
	CreateRoom(ctx context.Context, session *security.Session, request *req.RoomRequest, image *storage.Image) (*entity.Room, error)
	GetRoom(ctx context.Context, session *security.Session, roomID string) (*entity.Room, error)
	UpdateRoom(ctx context.Context, session *security.Session, roomID string, request *req.RoomRequest, image *storage.Image) (*entity.Room, error)
	DeleteRoom(ctx context.Context, session *security.Session, roomID string) error
	MarkSeen(ctx context.Context, session *security.Session, roomID string, seen bool) error
	ListenRooms(ctx context.Context, session *security.Session) (<-chan listener.Snapshot[entity.Room], error)
}
