package usecase

import (
	"context"
	"fmt"

	"chat-sync-app/dto/req"
	"chat-sync-app/entity"
	"chat-sync-app/repository"
	"chat-sync-app/security"
	"chat-sync-app/storage"
	"chat-sync-app/textfmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type AuthUsecaseImpl struct {
	repository.Store
	security.Authenticator
	storage.BlobStore
	*validator.Validate
	*logrus.Logger
}

func NewAuthUsecase(store repository.Store, authenticator security.Authenticator, blobs storage.BlobStore, validate *validator.Validate, logger *logrus.Logger) AuthUsecase {
	return &AuthUsecaseImpl{Store: store, Authenticator: authenticator, BlobStore: blobs, Validate: validate, Logger: logger}
}

// SignUp registers the account, stores the optional profile image, writes the
// user record and signs the new user in.
func (uc *AuthUsecaseImpl) SignUp(ctx context.Context, request *req.RegisterRequest, image *storage.Image) (*security.Session, *entity.User, error) {
	// validate request
	if err := uc.Validate.Struct(request); err != nil {
		uc.Logger.WithError(err).Errorf("failed to validate request : %v", err)
		return nil, nil, err
	}
	if image != nil {
		if err := storage.CheckImage(image.ContentType, image.Size); err != nil {
			return nil, nil, err
		}
	}

	userID, err := uc.Authenticator.SignUp(ctx, request.Email, request.Password)
	if err != nil {
		uc.Logger.WithError(err).Errorf("failed to register account = %v", err)
		return nil, nil, err
	}

	user := entity.User{
		BaseEntity: entity.BaseEntity{ID: userID},
		UserName:   textfmt.Sanitize(request.UserName),
		Bio:        textfmt.Sanitize(request.Bio),
		Email:      request.Email,
	}.WithDefaults()

	if image != nil {
		url, err := storage.Upload(ctx, uc.BlobStore, storage.ProfileImagePath(userID), *image)
		if err != nil {
			uc.Logger.WithError(err).Errorf("failed to upload profile image = %v", err)
			uc.dropAccount(ctx, userID)
			return nil, nil, fmt.Errorf("upload profile image: %w", err)
		}
		user.ImageURL = url
	}

	if err := uc.Store.SaveUser(ctx, &user); err != nil {
		uc.Logger.WithError(err).Errorf("failed to save user = %v", err)
		uc.dropAccount(ctx, userID)
		return nil, nil, err
	}

	session, err := uc.Authenticator.SignIn(ctx, request.Email, request.Password)
	if err != nil {
		uc.Logger.WithError(err).Errorf("failed to sign in new user = %v", err)
		return nil, nil, err
	}
	uc.Logger.WithField("userId", userID).Info("user registered")
	return session, &user, nil
}

// dropAccount undoes Authenticator.SignUp when the user record could not be
// completed.
func (uc *AuthUsecaseImpl) dropAccount(ctx context.Context, userID string) {
	if err := uc.Authenticator.DeleteAccount(context.WithoutCancel(ctx), userID); err != nil {
		uc.Logger.WithError(err).Errorf("failed to roll back account %s", userID)
	}
}

func (uc *AuthUsecaseImpl) SignIn(ctx context.Context, request *req.LoginRequest) (*security.Session, *entity.User, error) {
	if err := uc.Validate.Struct(request); err != nil {
		uc.Logger.WithError(err).Errorf("failed to validate request : %v", err)
		return nil, nil, err
	}

	session, err := uc.Authenticator.SignIn(ctx, request.Email, request.Password)
	if err != nil {
		uc.Logger.WithError(err).Warn("sign in rejected")
		return nil, nil, err
	}

	user, err := uc.Store.FindUser(ctx, session.UserID())
	if err != nil {
		uc.Logger.WithError(err).Errorf("failed to load signed in user = %v", err)
		return nil, nil, err
	}
	return session, user, nil
}

func (uc *AuthUsecaseImpl) SignOut(ctx context.Context, session *security.Session) error {
	if !session.HasUser() {
		return ErrNotAuthenticated
	}
	userID := session.UserID()
	if err := session.SignOut(ctx); err != nil {
		uc.Logger.WithError(err).Errorf("failed to revoke session of %s", userID)
		return err
	}
	uc.Logger.WithField("userId", userID).Info("user signed out")
	return nil
}

func (uc *AuthUsecaseImpl) Authenticate(ctx context.Context, token string) (*security.Session, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	session, err := uc.Authenticator.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}
	return session, nil
}

func (uc *AuthUsecaseImpl) Me(ctx context.Context, session *security.Session) (*entity.User, error) {
	userID, err := requireSession(session)
	if err != nil {
		return nil, err
	}
	return uc.Store.FindUser(ctx, userID)
}
