package res

import "chat-sync-app/enum"

// ResourceResponse is one frame of a live screen: the whole current state.
type ResourceResponse[T any] struct {
	Screen string              `json:"screen"`
	Status enum.ResourceStatus `json:"status"`
	Data   T                   `json:"data"`
	Error  string              `json:"error,omitempty"`
}
