package usecase

import (
	"context"

	"chat-sync-app/entity"
	"chat-sync-app/enum"
	"chat-sync-app/listener"
	"chat-sync-app/security"
)

type RelationUsecase interface {
	AddFriend(ctx context.Context, session *security.Session, userID string) error
	RemoveFriend(ctx context.Context, session *security.Session, userID string) error
	BlockUser(ctx context.Context, session *security.Session, userID string) error
	UnblockUser(ctx context.Context, session *security.Session, userID string) error
	HasRelation(ctx context.Context, session *security.Session, kind enum.RelationKind, userID string) (bool, error)
	ListenFriends(ctx context.Context, session *security.Session) (<-chan listener.Snapshot[entity.User], error)
	ListenBlocked(ctx context.Context, session *security.Session) (<-chan listener.Snapshot[entity.User], error)
}
