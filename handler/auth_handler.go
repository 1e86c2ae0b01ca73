package handler

import (
	"chat-sync-app/dto/req"
	"chat-sync-app/dto/res"
	"chat-sync-app/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	usecase.AuthUsecase
	*logrus.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUsecase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{AuthUsecase: authUseCase, Logger: logger}
}

func (handler *AuthHandler) RegisterUser(ctx *fiber.Ctx) error {
	// parse request
	payload := new(req.RegisterRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	image, closeImage, err := imageFrom(ctx, "image")
	if err != nil {
		return err
	}
	defer closeImage()

	// get from useCase
	session, user, err := handler.AuthUsecase.SignUp(ctx.UserContext(), payload, image)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to register new user: %v", err)
		return err
	}
	// response
	response := res.CommonResponse[res.AuthResponse]{
		Message:    "Successfully to register new user",
		StatusCode: fiber.StatusCreated,
		Data:       res.AuthResponse{Token: session.Token(), User: res.NewUserResponse(*user)},
	}
	handler.Logger.Infof("Success register user with id: %s", user.ID)
	return ctx.Status(fiber.StatusCreated).JSON(response)
}

func (handler *AuthHandler) LoginUser(ctx *fiber.Ctx) error {
	payload := new(req.LoginRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	session, user, err := handler.AuthUsecase.SignIn(ctx.UserContext(), payload)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to login: %v", err)
		return err
	}
	response := res.CommonResponse[res.AuthResponse]{
		Message:    "Successfully to login",
		StatusCode: fiber.StatusOK,
		Data:       res.AuthResponse{Token: session.Token(), User: res.NewUserResponse(*user)},
	}
	return ctx.Status(fiber.StatusOK).JSON(response)
}

func (handler *AuthHandler) LogoutUser(ctx *fiber.Ctx) error {
	if err := handler.AuthUsecase.SignOut(ctx.UserContext(), sessionFrom(ctx)); err != nil {
		handler.Logger.WithError(err).Errorf("Failed to logout: %v", err)
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(res.CommonResponse[any]{
		Message:    "Successfully to logout",
		StatusCode: fiber.StatusOK,
	})
}

func (handler *AuthHandler) GetCurrentUser(ctx *fiber.Ctx) error {
	user, err := handler.AuthUsecase.Me(ctx.UserContext(), sessionFrom(ctx))
	if err != nil {
		handler.Logger.WithError(err).Errorln("Failed to get current user")
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(res.CommonResponse[res.UserResponse]{
		Message:    "Successfully To Get Current User",
		StatusCode: fiber.StatusOK,
		Data:       res.NewUserResponse(*user),
	})
}
