package entity

const DefaultBio = "Default Bio"

type User struct {
	BaseEntity
	UserName string `json:"userName" gorm:"type:varchar(100);index"`
	ImageURL string `json:"imageUrl" gorm:"type:text"`
	Bio      string `json:"bio" gorm:"type:text"`
	Email    string `json:"email" gorm:"type:varchar(100)"`
}

// WithDefaults fills optional fields that were left empty.
func (u User) WithDefaults() User {
	if u.Bio == "" {
		u.Bio = DefaultBio
	}
	return u
}
