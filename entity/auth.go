package entity

import "time"

type Account struct {
	BaseEntity
	Email    string `json:"email" gorm:"unique;type:varchar(100)"`
	Password string `json:"-" gorm:"type:varchar(255)"`
}

// Session is one signed-in device. Deleting the row signs the device out.
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(255)"`
	UserID    string    `gorm:"type:varchar(255);index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
