package repository

import (
	"context"

	"chat-sync-app/entity"
	"chat-sync-app/enum"
	"chat-sync-app/listener"
)

type ProfileUpdate struct {
	UserName string
	Bio      string
	ImageURL string
}

type RoomUpdate struct {
	RoomName string
	ImageURL string
	Users    []string
}

// Store is the backend contract shared by the relational and the document
// implementations. Listen methods emit full ordered snapshots until ctx is
// cancelled or the first failure.
type Store interface {
	SaveUser(ctx context.Context, user *entity.User) error
	FindUser(ctx context.Context, id string) (*entity.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
	ListenUsersByName(ctx context.Context, excludeID, prefix string) <-chan listener.Snapshot[entity.User]

	CreateRoom(ctx context.Context, room *entity.Room) error
	FindRoom(ctx context.Context, id string) (*entity.Room, error)
	UpdateRoom(ctx context.Context, id string, update RoomUpdate) error
	DeleteRoom(ctx context.Context, id string) error
	UpdateLastMessage(ctx context.Context, roomID, body, senderID string) error
	MarkLastMessageSeen(ctx context.Context, roomID string, seen bool) error
	ListenRooms(ctx context.Context, userID string) <-chan listener.Snapshot[entity.Room]

	SendMessage(ctx context.Context, message *entity.Message) error
	FindMessage(ctx context.Context, roomID, messageID string) (*entity.Message, error)
	DeleteMessage(ctx context.Context, roomID, messageID string) error
	ListenMessages(ctx context.Context, roomID string) <-chan listener.Snapshot[entity.Message]

	PutRelation(ctx context.Context, relation entity.Relation) error
	DeleteRelation(ctx context.Context, ownerID string, kind enum.RelationKind, userID string) error
	HasRelation(ctx context.Context, ownerID string, kind enum.RelationKind, userID string) (bool, error)
	ListenRelations(ctx context.Context, ownerID string, kind enum.RelationKind) <-chan listener.Snapshot[entity.Relation]
}
