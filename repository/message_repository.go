package repository

import (
	"context"
	"errors"

	"chat-sync-app/entity"

	"gorm.io/gorm"
)

type MessageRepository struct {
	Repository[entity.Message]
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

// FindByRoom lists a room's messages by server timestamp, oldest first.
func (repository MessageRepository) FindByRoom(ctx context.Context, db *gorm.DB, roomID string) ([]entity.Message, error) {
	var messages []entity.Message
	err := db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("time_sent ASC").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

func (repository MessageRepository) FindInRoom(ctx context.Context, db *gorm.DB, roomID, messageID string) (*entity.Message, error) {
	var message entity.Message
	err := db.WithContext(ctx).Where("room_id = ? AND id = ?", roomID, messageID).First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (repository MessageRepository) DeleteInRoom(ctx context.Context, db *gorm.DB, roomID, messageID string) error {
	return db.WithContext(ctx).Where("room_id = ? AND id = ?", roomID, messageID).Delete(&entity.Message{}).Error
}
