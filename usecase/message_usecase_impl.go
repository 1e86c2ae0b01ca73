package usecase

import (
	"context"
	"fmt"

	"chat-sync-app/dto/req"
	"chat-sync-app/entity"
	"chat-sync-app/listener"
	"chat-sync-app/repository"
	"chat-sync-app/security"
	"chat-sync-app/storage"
	"chat-sync-app/textfmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ImagePreview stands in for the last message of a room when the message
// only carries an attachment.
const ImagePreview = "Image"

type messageUsecase struct {
	store       repository.Store
	blobs       storage.BlobStore
	validate    *validator.Validate
	log         *logrus.Logger
	roomUsecase RoomUsecase
}

func NewMessageUsecase(store repository.Store, blobs storage.BlobStore, validate *validator.Validate, logger *logrus.Logger, roomUC RoomUsecase) MessageUsecase {
	return &messageUsecase{store: store, blobs: blobs, validate: validate, log: logger, roomUsecase: roomUC}
}

// SendMessage stores the message with the sender's current name, then
// copies its preview onto the room and clears the seen flag.
func (uc *messageUsecase) SendMessage(ctx context.Context, session *security.Session, roomID string, request *req.MessageRequest, image *storage.Image) (*entity.Message, error) {
	userID, err := requireSession(session)
	if err != nil {
		return nil, err
	}
	if image == nil {
		if err := uc.validate.Struct(request); err != nil {
			uc.log.WithError(err).Errorf("failed to validate request : %v", err)
			return nil, err
		}
	}
	if _, err := uc.roomUsecase.GetRoom(ctx, session, roomID); err != nil {
		return nil, err
	}

	sender, err := uc.store.FindUser(ctx, userID)
	if err != nil {
		uc.log.WithError(err).Errorf("failed to load sender %s", userID)
		return nil, err
	}

	message := &entity.Message{
		ID:       entity.NewID(),
		RoomID:   roomID,
		UserID:   userID,
		UserName: sender.UserName,
		Body:     textfmt.Sanitize(request.Message),
		ImageURL: request.ImageURL,
	}
	if image != nil {
		url, err := storage.Upload(ctx, uc.blobs, storage.MessageImagePath(roomID, message.ID), *image)
		if err != nil {
			uc.log.WithError(err).Errorf("failed to upload message image = %v", err)
			return nil, fmt.Errorf("upload message image: %w", err)
		}
		message.ImageURL = url
	}

	if err := uc.store.SendMessage(ctx, message); err != nil {
		uc.log.WithError(err).Errorf("failed to send message to room %s", roomID)
		return nil, err
	}

	preview := message.Body
	if preview == "" {
		preview = ImagePreview
	}
	if err := uc.store.UpdateLastMessage(ctx, roomID, preview, userID); err != nil {
		uc.log.WithError(err).Errorf("failed to update last message of room %s", roomID)
		return message, err
	}
	return message, nil
}

// DeleteMessage removes a message. Only its sender may do so.
func (uc *messageUsecase) DeleteMessage(ctx context.Context, session *security.Session, roomID, messageID string) error {
	userID, err := requireSession(session)
	if err != nil {
		return err
	}
	message, err := uc.store.FindMessage(ctx, roomID, messageID)
	if err != nil {
		return err
	}
	if message.UserID != userID {
		return fmt.Errorf("%w: message %s was sent by another user", ErrForbidden, messageID)
	}
	if err := uc.store.DeleteMessage(ctx, roomID, messageID); err != nil {
		uc.log.WithError(err).Errorf("failed to delete message %s", messageID)
		return err
	}
	return nil
}

func (uc *messageUsecase) ListenMessages(ctx context.Context, session *security.Session, roomID string) (<-chan listener.Snapshot[entity.Message], error) {
	if _, err := uc.roomUsecase.GetRoom(ctx, session, roomID); err != nil {
		return nil, err
	}
	return uc.store.ListenMessages(ctx, roomID), nil
}
