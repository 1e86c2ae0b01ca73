package cloud

import (
	"sort"
	"time"

	"chat-sync-app/entity"
	"chat-sync-app/enum"
)

const (
	usersCollection    = "Users"
	roomsCollection    = "MessageRooms"
	messagesCollection = "Messages"
	friendsCollection  = "Friends"
	blockedCollection  = "Blocked"

	// prefixEnd sorts after every character that can appear in a name.
	prefixEnd = "\uf8ff"
)

type userDocument struct {
	UserID   string `firestore:"userId"`
	UserName string `firestore:"userName"`
	ImageURL string `firestore:"imageUrl"`
	Bio      string `firestore:"bio"`
	Email    string `firestore:"email"`
}

type roomDocument struct {
	RoomID          string   `firestore:"roomId"`
	RoomName        string   `firestore:"roomName"`
	ImageURL        string   `firestore:"imageUrl"`
	Users           []string `firestore:"users"`
	LastMessageSent string   `firestore:"lastMessageSent"`
	LastMessageBy   string   `firestore:"lastMessageBy"`
	LastMessageSeen bool     `firestore:"lastMessageSeen"`
}

type messageDocument struct {
	MessageID string    `firestore:"messageId"`
	UserID    string    `firestore:"userId"`
	UserName  string    `firestore:"userName"`
	Message   string    `firestore:"message"`
	ImageURL  string    `firestore:"imageUrl"`
	TimeSent  time.Time `firestore:"timeSent,serverTimestamp"`
}

func relationCollection(kind enum.RelationKind) string {
	if kind == enum.RelationBlocked {
		return blockedCollection
	}
	return friendsCollection
}

func userToDocument(u entity.User) userDocument {
	return userDocument{UserID: u.ID, UserName: u.UserName, ImageURL: u.ImageURL, Bio: u.Bio, Email: u.Email}
}

func (d userDocument) toEntity(id string) entity.User {
	if d.UserID == "" {
		d.UserID = id
	}
	return entity.User{
		BaseEntity: entity.BaseEntity{ID: d.UserID},
		UserName:   d.UserName,
		ImageURL:   d.ImageURL,
		Bio:        d.Bio,
		Email:      d.Email,
	}
}

func roomToDocument(r entity.Room) roomDocument {
	return roomDocument{
		RoomID:          r.ID,
		RoomName:        r.RoomName,
		ImageURL:        r.ImageURL,
		Users:           r.Users,
		LastMessageSent: r.LastMessageSent,
		LastMessageBy:   r.LastMessageBy,
		LastMessageSeen: r.LastMessageSeen,
	}
}

func (d roomDocument) toEntity(id string) entity.Room {
	return entity.Room{
		BaseEntity:      entity.BaseEntity{ID: id},
		RoomName:        d.RoomName,
		ImageURL:        d.ImageURL,
		Users:           d.Users,
		LastMessageSent: d.LastMessageSent,
		LastMessageBy:   d.LastMessageBy,
		LastMessageSeen: d.LastMessageSeen,
	}
}

func messageToDocument(m entity.Message) messageDocument {
	return messageDocument{
		MessageID: m.ID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		Message:   m.Body,
		ImageURL:  m.ImageURL,
	}
}

func (d messageDocument) toEntity(roomID, id string) entity.Message {
	return entity.Message{
		ID:       id,
		RoomID:   roomID,
		UserID:   d.UserID,
		UserName: d.UserName,
		Body:     d.Message,
		ImageURL: d.ImageURL,
		TimeSent: d.TimeSent,
	}
}

func (d userDocument) toRelation(ownerID string, kind enum.RelationKind, id string) entity.Relation {
	return entity.NewRelation(ownerID, kind, d.toEntity(id))
}

// withoutUser drops excludeID and keeps the remaining users ordered by name.
func withoutUser(users []entity.User, excludeID string) []entity.User {
	out := users[:0]
	for _, u := range users {
		if u.ID != excludeID {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UserName != out[j].UserName {
			return out[i].UserName < out[j].UserName
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func sortRooms(rooms []entity.Room) {
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
}
