package usecase

import (
	"context"
	"fmt"
	"strings"

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

type UserUsecaseImpl struct {
	repository.Store
	storage.BlobStore
	*validator.Validate
	*logrus.Logger
}

func NewUserUsecase(store repository.Store, blobs storage.BlobStore, validate *validator.Validate, logger *logrus.Logger) UserUsecase {
	return &UserUsecaseImpl{Store: store, BlobStore: blobs, Validate: validate, Logger: logger}
}

func (uc *UserUsecaseImpl) GetUser(ctx context.Context, session *security.Session, userID string) (*entity.User, error) {
	if _, err := requireSession(session); err != nil {
		return nil, err
	}
	user, err := uc.Store.FindUser(ctx, userID)
	if err != nil {
		uc.Logger.WithError(err).WithField("userId", userID).Warn("user lookup failed")
		return nil, err
	}
	return user, nil
}

// UpdateProfile uploads the new image first when one is given, then writes
// the name, bio and image URL together.
func (uc *UserUsecaseImpl) UpdateProfile(ctx context.Context, session *security.Session, request *req.EditProfileRequest, image *storage.Image) (*entity.User, error) {
	userID, err := requireSession(session)
	if err != nil {
		return nil, err
	}
	if err := uc.Validate.Struct(request); err != nil {
		uc.Logger.WithError(err).Errorf("failed to validate request : %v", err)
		return nil, err
	}

	current, err := uc.Store.FindUser(ctx, userID)
	if err != nil {
		uc.Logger.WithError(err).Errorf("failed to load profile of %s", userID)
		return nil, err
	}

	update := repository.ProfileUpdate{
		UserName: textfmt.Sanitize(request.UserName),
		Bio:      textfmt.Sanitize(request.Bio),
		ImageURL: current.ImageURL,
	}
	if update.Bio == "" {
		update.Bio = entity.DefaultBio
	}
	if image != nil {
		url, err := storage.Upload(ctx, uc.BlobStore, storage.ProfileImagePath(userID), *image)
		if err != nil {
			uc.Logger.WithError(err).Errorf("failed to upload profile image = %v", err)
			return nil, fmt.Errorf("upload profile image: %w", err)
		}
		update.ImageURL = url
	}

	if err := uc.Store.UpdateProfile(ctx, userID, update); err != nil {
		uc.Logger.WithError(err).Errorf("failed to update profile of %s", userID)
		return nil, err
	}

	current.UserName = update.UserName
	current.Bio = update.Bio
	current.ImageURL = update.ImageURL
	return current, nil
}

// ListenSearch follows the users whose name starts with prefix, leaving out
// the caller.
func (uc *UserUsecaseImpl) ListenSearch(ctx context.Context, session *security.Session, prefix string) (<-chan listener.Snapshot[entity.User], error) {
	userID, err := requireSession(session)
	if err != nil {
		return nil, err
	}
	return uc.Store.ListenUsersByName(ctx, userID, strings.TrimSpace(prefix)), nil
}
