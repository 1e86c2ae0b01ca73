package handler

import (
	"chat-sync-app/dto/req"
	"chat-sync-app/dto/res"
	"chat-sync-app/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type RoomHandler struct {
	usecase.RoomUsecase
	usecase.MessageUsecase
	*logrus.Logger
}

func NewRoomHandler(roomUsecase usecase.RoomUsecase, messageUsecase usecase.MessageUsecase, logger *logrus.Logger) *RoomHandler {
	return &RoomHandler{RoomUsecase: roomUsecase, MessageUsecase: messageUsecase, Logger: logger}
}

func (handler *RoomHandler) parseRoom(ctx *fiber.Ctx) (*req.RoomRequest, error) {
	payload := new(req.RoomRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return payload, nil
}

func (handler *RoomHandler) CreateRoom(ctx *fiber.Ctx) error {
	payload, err := handler.parseRoom(ctx)
	if err != nil {
		return err
	}
	image, closeImage, err := imageFrom(ctx, "image")
	if err != nil {
		return err
	}
	defer closeImage()

	room, err := handler.RoomUsecase.CreateRoom(ctx.UserContext(), sessionFrom(ctx), payload, image)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to create room: %v", err)
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res.CommonResponse[res.RoomResponse]{
		Message:    "Successfully To Create Room",
		StatusCode: fiber.StatusCreated,
		Data:       res.NewRoomResponse(*room),
	})
}

func (handler *RoomHandler) GetRoomByID(ctx *fiber.Ctx) error {
	room, err := handler.RoomUsecase.GetRoom(ctx.UserContext(), sessionFrom(ctx), ctx.Params("roomId"))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(res.CommonResponse[res.RoomResponse]{
		Message:    "Successfully To Get Room",
		StatusCode: fiber.StatusOK,
		Data:       res.NewRoomResponse(*room),
	})
}

func (handler *RoomHandler) UpdateRoom(ctx *fiber.Ctx) error {
	payload, err := handler.parseRoom(ctx)
	if err != nil {
		return err
	}
	image, closeImage, err := imageFrom(ctx, "image")
	if err != nil {
		return err
	}
	defer closeImage()

	room, err := handler.RoomUsecase.UpdateRoom(ctx.UserContext(), sessionFrom(ctx), ctx.Params("roomId"), payload, image)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to update room: %v", err)
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(res.CommonResponse[res.RoomResponse]{
		Message:    "Successfully To Update Room",
		StatusCode: fiber.StatusOK,
		Data:       res.NewRoomResponse(*room),
	})
}

func (handler *RoomHandler) DeleteRoom(ctx *fiber.Ctx) error {
	if err := handler.RoomUsecase.DeleteRoom(ctx.UserContext(), sessionFrom(ctx), ctx.Params("roomId")); err != nil {
		handler.Logger.WithError(err).Errorf("Failed to delete room: %v", err)
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(res.CommonResponse[any]{
		Message:    "Successfully To Delete Room",
		StatusCode: fiber.StatusOK,
	})
}

// MarkSeen sets the room's seen flag; ?seen=false clears it.
func (handler *RoomHandler) MarkSeen(ctx *fiber.Ctx) error {
	seen := ctx.QueryBool("seen", true)
	if err := handler.RoomUsecase.MarkSeen(ctx.UserContext(), sessionFrom(ctx), ctx.Params("roomId"), seen); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(res.CommonResponse[any]{
		Message:    "Successfully To Mark Room Seen",
		StatusCode: fiber.StatusOK,
	})
}

func (handler *RoomHandler) SendMessage(ctx *fiber.Ctx) error {
	payload := new(req.MessageRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	image, closeImage, err := imageFrom(ctx, "image")
	if err != nil {
		return err
	}
	defer closeImage()

	message, err := handler.MessageUsecase.SendMessage(ctx.UserContext(), sessionFrom(ctx), ctx.Params("roomId"), payload, image)
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to send message: %v", err)
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res.CommonResponse[res.MessageResponse]{
		Message:    "Successfully To Send Message",
		StatusCode: fiber.StatusCreated,
		Data:       res.NewMessageResponse(*message),
	})
}

func (handler *RoomHandler) DeleteMessage(ctx *fiber.Ctx) error {
	err := handler.MessageUsecase.DeleteMessage(ctx.UserContext(), sessionFrom(ctx), ctx.Params("roomId"), ctx.Params("messageId"))
	if err != nil {
		handler.Logger.WithError(err).Errorf("Failed to delete message: %v", err)
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(res.CommonResponse[any]{
		Message:    "Successfully To Delete Message",
		StatusCode: fiber.StatusOK,
	})
}
