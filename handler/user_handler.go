package handler

import (
	"chat-sync-app/dto/req"
	"chat-sync-app/dto/res"
	"chat-sync-app/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	usecase.UserUsecase
	*logrus.Logger
}

func NewUserHandler(userUsecase usecase.UserUsecase, logger *logrus.Logger) *UserHandler {
	return &UserHandler{UserUsecase: userUsecase, Logger: logger}
}

func (handler *UserHandler) GetUserByID(ctx *fiber.Ctx) error {
	user, err := handler.UserUsecase.GetUser(ctx.UserContext(), sessionFrom(ctx), ctx.Params("id"))
	if err != nil {
		handler.Logger.WithError(err).Errorln("Failed to get user by id")
		return err
	}

	response := res.CommonResponse[res.UserResponse]{
		Message:    "Successfully To Get User By ID",
		StatusCode: fiber.StatusOK,
		Data:       res.NewUserResponse(*user),
	}
	return ctx.Status(fiber.StatusOK).JSON(response)
}

// EditUser updates the caller's name and bio, with an optional new image in
// the "image" part of a multipart body.
func (handler *UserHandler) EditUser(ctx *fiber.Ctx) error {
	payload := new(req.EditProfileRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	image, closeImage, err := imageFrom(ctx, "image")
	if err != nil {
		return err
	}
	defer closeImage()

	user, err := handler.UserUsecase.UpdateProfile(ctx.UserContext(), sessionFrom(ctx), payload, image)
	if err != nil {
		handler.Logger.WithError(err).Errorln("Failed to update profile")
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(res.CommonResponse[res.UserResponse]{
		Message:    "Successfully To Update Profile",
		StatusCode: fiber.StatusOK,
		Data:       res.NewUserResponse(*user),
	})
}
