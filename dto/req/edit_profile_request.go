package req

type EditProfileRequest struct {
	UserName string `json:"userName" form:"userName" validate:"required,min=1,max=50"`
	Bio      string `json:"bio" form:"bio" validate:"max=500"`
}
