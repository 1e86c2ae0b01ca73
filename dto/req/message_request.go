package req

type MessageRequest struct {
	Message  string `json:"message" form:"message" validate:"required_without=ImageURL,max=4000"`
	ImageURL string `json:"imageUrl" form:"imageUrl" validate:"omitempty,url"`
}
