package repository

import (
	"context"
	"errors"

	"chat-sync-app/entity"

	"gorm.io/gorm"
)

type RoomRepository struct {
	Repository[entity.Room]
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{}
}

func orderedMembers(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (repository RoomRepository) CreateWithMembers(ctx context.Context, db *gorm.DB, room *entity.Room) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Create(room).Error; err != nil {
			return err
		}
		return repository.replaceMembers(tx, room.ID, room.Users)
	})
}

func (repository RoomRepository) replaceMembers(tx *gorm.DB, roomID string, users []string) error {
	if err := tx.Where("room_id = ?", roomID).Delete(&entity.RoomMember{}).Error; err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}
	members := make([]entity.RoomMember, 0, len(users))
	for i, id := range users {
		members = append(members, entity.RoomMember{RoomID: roomID, UserID: id, Position: i})
	}
	return tx.Create(&members).Error
}

func (repository RoomRepository) FindRoomByID(ctx context.Context, db *gorm.DB, id string) (*entity.Room, error) {
	var room entity.Room
	err := db.WithContext(ctx).
		Preload("Members", orderedMembers).
		Where("id = ?", id).
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	room.UsersFromMembers()
	return &room, nil
}

// FindAllByMember returns the rooms whose member list contains userID,
// ordered by room id.
func (repository RoomRepository) FindAllByMember(ctx context.Context, db *gorm.DB, userID string) ([]entity.Room, error) {
	var rooms []entity.Room
	err := db.WithContext(ctx).
		Model(&entity.Room{}).
		Joins("JOIN t_room_member rm ON rm.room_id = t_room.id").
		Where("rm.user_id = ?", userID).
		Preload("Members", orderedMembers).
		Order("t_room.id ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		rooms[i].UsersFromMembers()
	}
	return rooms, nil
}

func (repository RoomRepository) UpdateWithMembers(ctx context.Context, db *gorm.DB, id string, update RoomUpdate) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Room{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"room_name": update.RoomName,
				"image_url": update.ImageURL,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return repository.replaceMembers(tx, id, update.Users)
	})
}

func (repository RoomRepository) UpdateFields(ctx context.Context, db *gorm.DB, id string, fields map[string]interface{}) error {
	result := db.WithContext(ctx).Model(&entity.Room{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCascade removes the room with its members and messages.
func (repository RoomRepository) DeleteCascade(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&entity.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&entity.RoomMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Room{}).Error
	})
}
