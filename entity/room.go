package entity

type Room struct {
	BaseEntity
	RoomName        string `json:"roomName" gorm:"type:varchar(100)"`
	ImageURL        string `json:"imageUrl" gorm:"type:text"`
	LastMessageSent string `json:"lastMessageSent" gorm:"type:text"`
	LastMessageBy   string `json:"lastMessageBy" gorm:"type:varchar(255)"`
	LastMessageSeen bool   `json:"lastMessageSeen"`

	Members []RoomMember `json:"-" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE;"`
	Users   []string     `json:"users" gorm:"-"`
}

type RoomMember struct {
	RoomID   string `gorm:"primaryKey;type:varchar(255)"`
	UserID   string `gorm:"primaryKey;type:varchar(255);index"`
	Position int    `gorm:"not null;default:0"`
}

// HasMember reports whether userID is in the room's member list.
func (r Room) HasMember(userID string) bool {
	for _, id := range r.Users {
		if id == userID {
			return true
		}
	}
	return false
}

// MembersFromUsers rebuilds the join rows from the Users list.
func (r *Room) MembersFromUsers() {
	r.Members = make([]RoomMember, 0, len(r.Users))
	for _, id := range r.Users {
		r.Members = append(r.Members, RoomMember{RoomID: r.ID, UserID: id})
	}
}

// UsersFromMembers fills Users from the loaded join rows.
func (r *Room) UsersFromMembers() {
	r.Users = make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		r.Users = append(r.Users, m.UserID)
	}
}

// UniqueMembers returns ids with blanks and duplicates removed, keeping order.
func UniqueMembers(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
