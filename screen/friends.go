package screen

import (
	"context"

	"chat-sync-app/entity"
	"chat-sync-app/listener"
	"chat-sync-app/security"
	"chat-sync-app/viewstate"
)

type FriendsScreen struct {
	Friends *viewstate.Synchronizer[entity.User]
	Blocked *viewstate.Synchronizer[entity.User]
}

func NewFriendsScreen(deps Deps, session *security.Session) *FriendsScreen {
	return &FriendsScreen{
		Friends: viewstate.NewSynchronizer[entity.User]("friends", func(ctx context.Context) (<-chan listener.Snapshot[entity.User], error) {
			return deps.Relations.ListenFriends(ctx, session)
		}, deps.Stream),
		Blocked: viewstate.NewSynchronizer[entity.User]("blocked", func(ctx context.Context) (<-chan listener.Snapshot[entity.User], error) {
			return deps.Relations.ListenBlocked(ctx, session)
		}, deps.Stream),
	}
}

func (f *FriendsScreen) Activate(ctx context.Context) {
	f.Friends.Activate(ctx)
	f.Blocked.Activate(ctx)
}

func (f *FriendsScreen) Deactivate() {
	f.Friends.Deactivate()
	f.Blocked.Deactivate()
}
