package usecase

import (
	"context"
	"fmt"

	"chat-sync-app/entity"
	"chat-sync-app/enum"
	"chat-sync-app/listener"
	"chat-sync-app/repository"
	"chat-sync-app/security"

	"github.com/sirupsen/logrus"
)

type RelationUsecaseImpl struct {
	repository.Store
	*logrus.Logger
}

func NewRelationUsecase(store repository.Store, logger *logrus.Logger) RelationUsecase {
	return &RelationUsecaseImpl{Store: store, Logger: logger}
}

func (uc *RelationUsecaseImpl) AddFriend(ctx context.Context, session *security.Session, userID string) error {
	return uc.put(ctx, session, enum.RelationFriends, userID)
}

func (uc *RelationUsecaseImpl) BlockUser(ctx context.Context, session *security.Session, userID string) error {
	return uc.put(ctx, session, enum.RelationBlocked, userID)
}

func (uc *RelationUsecaseImpl) RemoveFriend(ctx context.Context, session *security.Session, userID string) error {
	return uc.remove(ctx, session, enum.RelationFriends, userID)
}

func (uc *RelationUsecaseImpl) UnblockUser(ctx context.Context, session *security.Session, userID string) error {
	return uc.remove(ctx, session, enum.RelationBlocked, userID)
}

// put files a copy of the target under kind after removing it from the
// opposite list. The two writes are separate; a reader can briefly see the
// target in neither list.
func (uc *RelationUsecaseImpl) put(ctx context.Context, session *security.Session, kind enum.RelationKind, userID string) error {
	ownerID, err := uc.checkTarget(session, userID)
	if err != nil {
		return err
	}
	target, err := uc.Store.FindUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := uc.Store.DeleteRelation(ctx, ownerID, kind.Opposite(), userID); err != nil {
		uc.Logger.WithError(err).Errorf("failed to clear %s relation with %s", kind.Opposite(), userID)
		return err
	}
	if err := uc.Store.PutRelation(ctx, entity.NewRelation(ownerID, kind, *target)); err != nil {
		uc.Logger.WithError(err).Errorf("failed to add %s relation with %s", kind, userID)
		return err
	}
	uc.Logger.WithFields(logrus.Fields{"owner": ownerID, "user": userID, "kind": kind}).Info("relation added")
	return nil
}

func (uc *RelationUsecaseImpl) remove(ctx context.Context, session *security.Session, kind enum.RelationKind, userID string) error {
	ownerID, err := uc.checkTarget(session, userID)
	if err != nil {
		return err
	}
	if err := uc.Store.DeleteRelation(ctx, ownerID, kind, userID); err != nil {
		uc.Logger.WithError(err).Errorf("failed to remove %s relation with %s", kind, userID)
		return err
	}
	return nil
}

func (uc *RelationUsecaseImpl) checkTarget(session *security.Session, userID string) (string, error) {
	ownerID, err := requireSession(session)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", fmt.Errorf("%w: empty user id", repository.ErrNotFound)
	}
	if userID == ownerID {
		return "", ErrSelfRelation
	}
	return ownerID, nil
}

func (uc *RelationUsecaseImpl) HasRelation(ctx context.Context, session *security.Session, kind enum.RelationKind, userID string) (bool, error) {
	ownerID, err := requireSession(session)
	if err != nil {
		return false, err
	}
	return uc.Store.HasRelation(ctx, ownerID, kind, userID)
}

func (uc *RelationUsecaseImpl) ListenFriends(ctx context.Context, session *security.Session) (<-chan listener.Snapshot[entity.User], error) {
	return uc.listen(ctx, session, enum.RelationFriends)
}

func (uc *RelationUsecaseImpl) ListenBlocked(ctx context.Context, session *security.Session) (<-chan listener.Snapshot[entity.User], error) {
	return uc.listen(ctx, session, enum.RelationBlocked)
}

func (uc *RelationUsecaseImpl) listen(ctx context.Context, session *security.Session, kind enum.RelationKind) (<-chan listener.Snapshot[entity.User], error) {
	ownerID, err := requireSession(session)
	if err != nil {
		return nil, err
	}
	relations := uc.Store.ListenRelations(ctx, ownerID, kind)
	return listener.Map(relations, entity.Relation.ToUser), nil
}
