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

type RoomUsecaseImpl struct {
	repository.Store
	storage.BlobStore
	*validator.Validate
	*logrus.Logger
}

func NewRoomUsecase(store repository.Store, blobs storage.BlobStore, validate *validator.Validate, logger *logrus.Logger) RoomUsecase {
	return &RoomUsecaseImpl{Store: store, BlobStore: blobs, Validate: validate, Logger: logger}
}

// members puts the caller first and drops blanks and repeats.
func members(callerID string, others []string) []string {
	return entity.UniqueMembers(append([]string{callerID}, others...))
}

// memberRoom loads roomID and checks that userID belongs to it.
func (uc *RoomUsecaseImpl) memberRoom(ctx context.Context, userID, roomID string) (*entity.Room, error) {
	room, err := uc.Store.FindRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(userID) {
		return nil, fmt.Errorf("%w: %s is not a member of room %s", ErrForbidden, userID, roomID)
	}
	return room, nil
}

func (uc *RoomUsecaseImpl) roomImage(ctx context.Context, roomID, imageURL string, image *storage.Image) (string, error) {
	if image == nil {
		return imageURL, nil
	}
	url, err := storage.Upload(ctx, uc.BlobStore, storage.RoomImagePath(roomID), *image)
	if err != nil {
		uc.Logger.WithError(err).Errorf("failed to upload room image = %v", err)
		return "", fmt.Errorf("upload room image: %w", err)
	}
	return url, nil
}

func (uc *RoomUsecaseImpl) CreateRoom(ctx context.Context, session *security.Session, request *req.RoomRequest, image *storage.Image) (*entity.Room, error) {
	userID, err := requireSession(session)
	if err != nil {
		return nil, err
	}
	if err := uc.Validate.Struct(request); err != nil {
		uc.Logger.WithError(err).Errorf("failed to validate request : %v", err)
		return nil, err
	}

	room := &entity.Room{
		BaseEntity:      entity.BaseEntity{ID: entity.NewID()},
		RoomName:        textfmt.Sanitize(request.RoomName),
		Users:           members(userID, request.Users),
		LastMessageSeen: true,
	}
	if room.ImageURL, err = uc.roomImage(ctx, room.ID, request.ImageURL, image); err != nil {
		return nil, err
	}

	if err := uc.Store.CreateRoom(ctx, room); err != nil {
		uc.Logger.WithError(err).Errorf("failed to create room = %v", err)
		return nil, err
	}
	uc.Logger.WithField("roomId", room.ID).WithField("members", len(room.Users)).Info("room created")
	return room, nil
}

func (uc *RoomUsecaseImpl) GetRoom(ctx context.Context, session *security.Session, roomID string) (*entity.Room, error) {
	userID, err := requireSession(session)
	if err != nil {
		return nil, err
	}
	return uc.memberRoom(ctx, userID, roomID)
}

// UpdateRoom rewrites name, image and members. The caller stays a member.
func (uc *RoomUsecaseImpl) UpdateRoom(ctx context.Context, session *security.Session, roomID string, request *req.RoomRequest, image *storage.Image) (*entity.Room, error) {
	userID, err := requireSession(session)
	if err != nil {
		return nil, err
	}
	if err := uc.Validate.Struct(request); err != nil {
		uc.Logger.WithError(err).Errorf("failed to validate request : %v", err)
		return nil, err
	}
	room, err := uc.memberRoom(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}

	imageURL := request.ImageURL
	if imageURL == "" {
		imageURL = room.ImageURL
	}
	update := repository.RoomUpdate{
		RoomName: textfmt.Sanitize(request.RoomName),
		Users:    members(userID, request.Users),
	}
	if update.ImageURL, err = uc.roomImage(ctx, roomID, imageURL, image); err != nil {
		return nil, err
	}

	if err := uc.Store.UpdateRoom(ctx, roomID, update); err != nil {
		uc.Logger.WithError(err).Errorf("failed to update room %s", roomID)
		return nil, err
	}
	room.RoomName = update.RoomName
	room.ImageURL = update.ImageURL
	room.Users = update.Users
	return room, nil
}

func (uc *RoomUsecaseImpl) DeleteRoom(ctx context.Context, session *security.Session, roomID string) error {
	userID, err := requireSession(session)
	if err != nil {
		return err
	}
	if _, err := uc.memberRoom(ctx, userID, roomID); err != nil {
		return err
	}
	if err := uc.Store.DeleteRoom(ctx, roomID); err != nil {
		uc.Logger.WithError(err).Errorf("failed to delete room %s", roomID)
		return err
	}
	uc.Logger.WithField("roomId", roomID).Info("room deleted")
	return nil
}

func (uc *RoomUsecaseImpl) MarkSeen(ctx context.Context, session *security.Session, roomID string, seen bool) error {
	userID, err := requireSession(session)
	if err != nil {
		return err
	}
	if _, err := uc.memberRoom(ctx, userID, roomID); err != nil {
		return err
	}
	return uc.Store.MarkLastMessageSeen(ctx, roomID, seen)
}

// ListenRooms follows the rooms that list the caller as a member.
func (uc *RoomUsecaseImpl) ListenRooms(ctx context.Context, session *security.Session) (<-chan listener.Snapshot[entity.Room], error) {
	userID, err := requireSession(session)
	if err != nil {
		return nil, err
	}
	return uc.Store.ListenRooms(ctx, userID), nil
}
