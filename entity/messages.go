package entity

import "time"

type Message struct {
	ID       string    `json:"messageId" gorm:"primaryKey;type:varchar(255)"`
	RoomID   string    `json:"roomId" gorm:"type:varchar(255);index;not null"`
	UserID   string    `json:"userId" gorm:"type:varchar(255);not null"`
	UserName string    `json:"userName" gorm:"type:varchar(100)"`
	Body     string    `json:"message" gorm:"type:text"`
	ImageURL string    `json:"imageUrl" gorm:"type:text"`
	TimeSent time.Time `json:"timeSent" gorm:"index;not null"`
}
