package repository

import (
	"context"
	"fmt"
	"time"

	"chat-sync-app/entity"
	"chat-sync-app/enum"
	"chat-sync-app/listener"

	"gorm.io/gorm"
)

// GormStore implements Store on a relational database. Writes publish their
// topics on Hub so that open listeners re-query.
type GormStore struct {
	DB       *gorm.DB
	Hub      *listener.Hub
	Users    *UserRepository
	Rooms    *RoomRepository
	Messages *MessageRepository
	Relation *RelationRepository
	now      func() time.Time
}

func NewGormStore(db *gorm.DB, hub *listener.Hub) *GormStore {
	return &GormStore{
		DB:       db,
		Hub:      hub,
		Users:    NewUserRepository(),
		Rooms:    NewRoomRepository(),
		Messages: NewMessageRepository(),
		Relation: NewRelationRepository(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *GormStore) SaveUser(ctx context.Context, user *entity.User) error {
	if err := s.DB.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	s.Hub.Publish(listener.TopicUsers)
	return nil
}

func (s *GormStore) FindUser(ctx context.Context, id string) (*entity.User, error) {
	user := &entity.User{}
	if err := s.Users.FindById(ctx, s.DB, user, id); err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return user, nil
}

func (s *GormStore) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error {
	rows, err := s.Users.UpdateProfile(ctx, s.DB, id, update)
	if err != nil {
		return fmt.Errorf("update profile %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("update profile %s: %w", id, ErrNotFound)
	}
	s.Hub.Publish(listener.TopicUsers)
	return nil
}

func (s *GormStore) ListenUsersByName(ctx context.Context, excludeID, prefix string) <-chan listener.Snapshot[entity.User] {
	return listener.Listen(ctx, s.Hub, listener.TopicUsers, func(ctx context.Context) ([]entity.User, error) {
		return s.Users.FindByNamePrefix(ctx, s.DB, excludeID, prefix)
	})
}

func (s *GormStore) CreateRoom(ctx context.Context, room *entity.Room) error {
	if room.ID == "" {
		room.ID = entity.NewID()
	}
	if err := s.Rooms.CreateWithMembers(ctx, s.DB, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	s.Hub.Publish(listener.TopicRooms)
	return nil
}

func (s *GormStore) FindRoom(ctx context.Context, id string) (*entity.Room, error) {
	room, err := s.Rooms.FindRoomByID(ctx, s.DB, id)
	if err != nil {
		return nil, fmt.Errorf("find room %s: %w", id, err)
	}
	return room, nil
}

func (s *GormStore) UpdateRoom(ctx context.Context, id string, update RoomUpdate) error {
	if err := s.Rooms.UpdateWithMembers(ctx, s.DB, id, update); err != nil {
		return fmt.Errorf("update room %s: %w", id, err)
	}
	s.Hub.Publish(listener.TopicRooms)
	return nil
}

func (s *GormStore) DeleteRoom(ctx context.Context, id string) error {
	if err := s.Rooms.DeleteCascade(ctx, s.DB, id); err != nil {
		return fmt.Errorf("delete room %s: %w", id, err)
	}
	s.Hub.Publish(listener.TopicRooms, listener.TopicMessages(id))
	return nil
}

func (s *GormStore) UpdateLastMessage(ctx context.Context, roomID, body, senderID string) error {
	err := s.Rooms.UpdateFields(ctx, s.DB, roomID, map[string]interface{}{
		"last_message_sent": body,
		"last_message_by":   senderID,
		"last_message_seen": false,
	})
	if err != nil {
		return fmt.Errorf("update last message of room %s: %w", roomID, err)
	}
	s.Hub.Publish(listener.TopicRooms)
	return nil
}

func (s *GormStore) MarkLastMessageSeen(ctx context.Context, roomID string, seen bool) error {
	err := s.Rooms.UpdateFields(ctx, s.DB, roomID, map[string]interface{}{
		"last_message_seen": seen,
	})
	if err != nil {
		return fmt.Errorf("mark room %s seen: %w", roomID, err)
	}
	s.Hub.Publish(listener.TopicRooms)
	return nil
}

func (s *GormStore) ListenRooms(ctx context.Context, userID string) <-chan listener.Snapshot[entity.Room] {
	return listener.Listen(ctx, s.Hub, listener.TopicRooms, func(ctx context.Context) ([]entity.Room, error) {
		return s.Rooms.FindAllByMember(ctx, s.DB, userID)
	})
}

// SendMessage assigns the message id and the server timestamp before insert.
func (s *GormStore) SendMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = entity.NewID()
	}
	message.TimeSent = s.now()
	if err := s.Messages.Save(ctx, s.DB, message); err != nil {
		return fmt.Errorf("send message to room %s: %w", message.RoomID, err)
	}
	s.Hub.Publish(listener.TopicMessages(message.RoomID))
	return nil
}

func (s *GormStore) FindMessage(ctx context.Context, roomID, messageID string) (*entity.Message, error) {
	message, err := s.Messages.FindInRoom(ctx, s.DB, roomID, messageID)
	if err != nil {
		return nil, fmt.Errorf("find message %s: %w", messageID, err)
	}
	return message, nil
}

func (s *GormStore) DeleteMessage(ctx context.Context, roomID, messageID string) error {
	if err := s.Messages.DeleteInRoom(ctx, s.DB, roomID, messageID); err != nil {
		return fmt.Errorf("delete message %s: %w", messageID, err)
	}
	s.Hub.Publish(listener.TopicMessages(roomID))
	return nil
}

func (s *GormStore) ListenMessages(ctx context.Context, roomID string) <-chan listener.Snapshot[entity.Message] {
	return listener.Listen(ctx, s.Hub, listener.TopicMessages(roomID), func(ctx context.Context) ([]entity.Message, error) {
		return s.Messages.FindByRoom(ctx, s.DB, roomID)
	})
}

func (s *GormStore) PutRelation(ctx context.Context, relation entity.Relation) error {
	if err := s.Relation.Upsert(ctx, s.DB, &relation); err != nil {
		return fmt.Errorf("put %s relation: %w", relation.Kind, err)
	}
	s.Hub.Publish(listener.TopicRelations(relation.OwnerID, relation.Kind))
	return nil
}

func (s *GormStore) DeleteRelation(ctx context.Context, ownerID string, kind enum.RelationKind, userID string) error {
	if err := s.Relation.DeleteOne(ctx, s.DB, ownerID, kind, userID); err != nil {
		return fmt.Errorf("delete %s relation: %w", kind, err)
	}
	s.Hub.Publish(listener.TopicRelations(ownerID, kind))
	return nil
}

func (s *GormStore) HasRelation(ctx context.Context, ownerID string, kind enum.RelationKind, userID string) (bool, error) {
	ok, err := s.Relation.Exists(ctx, s.DB, ownerID, kind, userID)
	if err != nil {
		return false, fmt.Errorf("check %s relation: %w", kind, err)
	}
	return ok, nil
}

func (s *GormStore) ListenRelations(ctx context.Context, ownerID string, kind enum.RelationKind) <-chan listener.Snapshot[entity.Relation] {
	return listener.Listen(ctx, s.Hub, listener.TopicRelations(ownerID, kind), func(ctx context.Context) ([]entity.Relation, error) {
		return s.Relation.FindByOwner(ctx, s.DB, ownerID, kind)
	})
}
