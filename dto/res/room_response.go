package res

import "chat-sync-app/entity"

type RoomResponse struct {
	RoomID          string   `json:"roomId"`
	RoomName        string   `json:"roomName"`
	ImageURL        string   `json:"imageUrl"`
	Users           []string `json:"users"`
	LastMessageSent string   `json:"lastMessageSent"`
	LastMessageBy   string   `json:"lastMessageBy"`
	LastMessageSeen bool     `json:"lastMessageSeen"`
}

func NewRoomResponse(room entity.Room) RoomResponse {
	users := room.Users
	if users == nil {
		users = []string{}
	}
	return RoomResponse{
		RoomID:          room.ID,
		RoomName:        room.RoomName,
		ImageURL:        room.ImageURL,
		Users:           users,
		LastMessageSent: room.LastMessageSent,
		LastMessageBy:   room.LastMessageBy,
		LastMessageSeen: room.LastMessageSeen,
	}
}

func NewRoomResponses(rooms []entity.Room) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, NewRoomResponse(r))
	}
	return out
}
