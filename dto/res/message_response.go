package res

import (
	"time"

	"chat-sync-app/entity"
	"chat-sync-app/textfmt"
)

type MessageResponse struct {
	MessageID string `json:"messageId"`
	RoomID    string `json:"roomId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Message   string `json:"message"`
	HTML      string `json:"html"`
	ImageURL  string `json:"imageUrl"`
	TimeSent  string `json:"timeSent"`
}

func NewMessageResponse(message entity.Message) MessageResponse {
	return MessageResponse{
		MessageID: message.ID,
		RoomID:    message.RoomID,
		UserID:    message.UserID,
		UserName:  message.UserName,
		Message:   message.Body,
		HTML:      textfmt.RenderMarkdown(message.Body),
		ImageURL:  message.ImageURL,
		TimeSent:  message.TimeSent.UTC().Format(time.RFC3339Nano),
	}
}

func NewMessageResponses(messages []entity.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, NewMessageResponse(m))
	}
	return out
}
