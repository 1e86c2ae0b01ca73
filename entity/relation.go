package entity

import (
	"time"

	"chat-sync-app/enum"
)

// Relation is a copy of another user's record filed under its owner. The
// row's presence is the relation; there is no status flag.
type Relation struct {
	OwnerID   string            `json:"-" gorm:"primaryKey;type:varchar(255)"`
	Kind      enum.RelationKind `json:"-" gorm:"primaryKey;type:varchar(10)"`
	UserID    string            `json:"userId" gorm:"primaryKey;type:varchar(255)"`
	UserName  string            `json:"userName" gorm:"type:varchar(100)"`
	ImageURL  string            `json:"imageUrl" gorm:"type:text"`
	Bio       string            `json:"bio" gorm:"type:text"`
	Email     string            `json:"email" gorm:"type:varchar(100)"`
	CreatedAt time.Time         `json:"-" gorm:"autoCreateTime"`
}

func NewRelation(ownerID string, kind enum.RelationKind, other User) Relation {
	return Relation{
		OwnerID:  ownerID,
		Kind:     kind,
		UserID:   other.ID,
		UserName: other.UserName,
		ImageURL: other.ImageURL,
		Bio:      other.Bio,
		Email:    other.Email,
	}
}

func (r Relation) ToUser() User {
	return User{
		BaseEntity: BaseEntity{ID: r.UserID},
		UserName:   r.UserName,
		ImageURL:   r.ImageURL,
		Bio:        r.Bio,
		Email:      r.Email,
	}
}
