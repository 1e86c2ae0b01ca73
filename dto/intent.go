package dto

// IntentMessage is a mutation sent by a client over a screen websocket.
type IntentMessage struct {
	Action    string `json:"action"`
	Text      string `json:"text,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	RoomID    string `json:"roomId,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
	Seen      *bool  `json:"seen,omitempty"`
}

// IntentResult reports the outcome of an IntentMessage.
type IntentResult struct {
	Action  string `json:"action"`
	Success bool   `json:"success"`
}

const (
	ActionPostMessage   = "postMessage"
	ActionDeleteMessage = "deleteMessage"
	ActionMarkSeen      = "markSeen"
	ActionDeleteRoom    = "deleteRoom"
	ActionSearch        = "search"
)
