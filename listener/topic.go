package listener

import (
	"chat-sync-app/enum"
)

const (
	TopicRooms = "rooms"
	TopicUsers = "users"
)

func TopicMessages(roomID string) string {
	return "messages/" + roomID
}

func TopicRelations(ownerID string, kind enum.RelationKind) string {
	return "relations/" + ownerID + "/" + string(kind)
}
