package req

// RoomRequest creates or edits a room. Users lists the other members; the
// caller is always added.
type RoomRequest struct {
	RoomName string   `json:"roomName" form:"roomName" validate:"required,min=1,max=100"`
	Users    []string `json:"users" form:"users" validate:"dive,required"`
	ImageURL string   `json:"imageUrl" form:"imageUrl" validate:"omitempty,url"`
}
