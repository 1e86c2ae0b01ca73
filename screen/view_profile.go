package screen

import (
	"context"
	"sync"

	"chat-sync-app/entity"
	"chat-sync-app/listener"
	"chat-sync-app/security"
	"chat-sync-app/viewstate"
)

// ViewProfileScreen shows another user and the caller's relation to them.
type ViewProfileScreen struct {
	deps     Deps
	session  *security.Session
	TargetID string
	Friends  *viewstate.Synchronizer[entity.User]
	Blocked  *viewstate.Synchronizer[entity.User]

	mu     sync.Mutex
	target *entity.User
}

func NewViewProfileScreen(deps Deps, session *security.Session, targetID string) *ViewProfileScreen {
	return &ViewProfileScreen{
		deps:     deps,
		session:  session,
		TargetID: targetID,
		Friends: viewstate.NewSynchronizer[entity.User]("view profile friends", func(ctx context.Context) (<-chan listener.Snapshot[entity.User], error) {
			return deps.Relations.ListenFriends(ctx, session)
		}, deps.Stream),
		Blocked: viewstate.NewSynchronizer[entity.User]("view profile blocked", func(ctx context.Context) (<-chan listener.Snapshot[entity.User], error) {
			return deps.Relations.ListenBlocked(ctx, session)
		}, deps.Stream),
	}
}

func (v *ViewProfileScreen) Activate(ctx context.Context) {
	v.Friends.Activate(ctx)
	v.Blocked.Activate(ctx)
	v.Load(ctx, nil)
}

func (v *ViewProfileScreen) Deactivate() {
	v.Friends.Deactivate()
	v.Blocked.Deactivate()
}

func (v *ViewProfileScreen) Load(ctx context.Context, onComplete func(bool)) {
	viewstate.Dispatch(v.deps.Log, "load user", func() error {
		user, err := v.deps.Users.GetUser(ctx, v.session, v.TargetID)
		if err != nil {
			return err
		}
		v.mu.Lock()
		v.target = user
		v.mu.Unlock()
		return nil
	}, onComplete)
}

func (v *ViewProfileScreen) Target() (entity.User, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.target == nil {
		return entity.User{}, false
	}
	return *v.target, true
}

func (v *ViewProfileScreen) AddFriend(ctx context.Context, onComplete func(bool)) {
	viewstate.Dispatch(v.deps.Log, "add friend", func() error {
		return v.deps.Relations.AddFriend(ctx, v.session, v.TargetID)
	}, onComplete)
}

func (v *ViewProfileScreen) RemoveFriend(ctx context.Context, onComplete func(bool)) {
	viewstate.Dispatch(v.deps.Log, "remove friend", func() error {
		return v.deps.Relations.RemoveFriend(ctx, v.session, v.TargetID)
	}, onComplete)
}

func (v *ViewProfileScreen) BlockUser(ctx context.Context, onComplete func(bool)) {
	viewstate.Dispatch(v.deps.Log, "block user", func() error {
		return v.deps.Relations.BlockUser(ctx, v.session, v.TargetID)
	}, onComplete)
}

func (v *ViewProfileScreen) UnblockUser(ctx context.Context, onComplete func(bool)) {
	viewstate.Dispatch(v.deps.Log, "unblock user", func() error {
		return v.deps.Relations.UnblockUser(ctx, v.session, v.TargetID)
	}, onComplete)
}

// IsFriend reads the latest friends snapshot.
func (v *ViewProfileScreen) IsFriend() bool {
	return contains(v.Friends.State().Data, v.TargetID)
}

func (v *ViewProfileScreen) IsBlocked() bool {
	return contains(v.Blocked.State().Data, v.TargetID)
}

func contains(users []entity.User, id string) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}
