package res

import "chat-sync-app/entity"

type UserResponse struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	ImageURL string `json:"imageUrl"`
	Bio      string `json:"bio"`
	Email    string `json:"email"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func NewUserResponse(user entity.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		UserName: user.UserName,
		ImageURL: user.ImageURL,
		Bio:      user.Bio,
		Email:    user.Email,
	}
}

func NewUserResponses(users []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
