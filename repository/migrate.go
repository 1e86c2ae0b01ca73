package repository

import (
	"chat-sync-app/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// NamingStrategy gives every table the t_ prefix in singular form.
var NamingStrategy = schema.NamingStrategy{
	TablePrefix:   "t_",
	SingularTable: true,
}

func Migrate(db *gorm.DB) error {
	var account entity.Account
	var session entity.Session
	var user entity.User
	var room entity.Room
	var member entity.RoomMember
	var message entity.Message
	var relation entity.Relation
	return db.AutoMigrate(&account, &session, &user, &room, &member, &message, &relation)
}
