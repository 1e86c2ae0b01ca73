package handler

import (
	"context"

	"chat-sync-app/dto/res"
	"chat-sync-app/security"
	"chat-sync-app/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type RelationHandler struct {
	usecase.RelationUsecase
	*logrus.Logger
}

func NewRelationHandler(relationUsecase usecase.RelationUsecase, logger *logrus.Logger) *RelationHandler {
	return &RelationHandler{RelationUsecase: relationUsecase, Logger: logger}
}

type relationAction func(ctx context.Context, session *security.Session, userID string) error

func (handler *RelationHandler) run(ctx *fiber.Ctx, action relationAction, message string) error {
	if err := action(ctx.UserContext(), sessionFrom(ctx), ctx.Params("userId")); err != nil {
		handler.Logger.WithError(err).Errorf("Failed to %s: %v", message, err)
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(res.CommonResponse[any]{
		Message:    "Successfully To " + message,
		StatusCode: fiber.StatusOK,
	})
}

func (handler *RelationHandler) AddFriend(ctx *fiber.Ctx) error {
	return handler.run(ctx, handler.RelationUsecase.AddFriend, "Add Friend")
}

func (handler *RelationHandler) RemoveFriend(ctx *fiber.Ctx) error {
	return handler.run(ctx, handler.RelationUsecase.RemoveFriend, "Remove Friend")
}

func (handler *RelationHandler) BlockUser(ctx *fiber.Ctx) error {
	return handler.run(ctx, handler.RelationUsecase.BlockUser, "Block User")
}

func (handler *RelationHandler) UnblockUser(ctx *fiber.Ctx) error {
	return handler.run(ctx, handler.RelationUsecase.UnblockUser, "Unblock User")
}
