package screen

import (
	"context"

	"chat-sync-app/entity"
	"chat-sync-app/listener"
	"chat-sync-app/security"
	"chat-sync-app/viewstate"
)

// HomeScreen lists the rooms of the signed-in user.
type HomeScreen struct {
	deps        Deps
	session     *security.Session
	Rooms       *viewstate.Synchronizer[entity.Room]
	roomDeleted viewstate.Flag
}

func NewHomeScreen(deps Deps, session *security.Session) *HomeScreen {
	h := &HomeScreen{deps: deps, session: session}
	h.Rooms = viewstate.NewSynchronizer[entity.Room]("home", func(ctx context.Context) (<-chan listener.Snapshot[entity.Room], error) {
		return deps.Rooms.ListenRooms(ctx, session)
	}, deps.Stream)
	return h
}

func (h *HomeScreen) Activate(ctx context.Context) { h.Rooms.Activate(ctx) }

func (h *HomeScreen) Deactivate() { h.Rooms.Deactivate() }

func (h *HomeScreen) HasUser() bool { return h.session.HasUser() }

func (h *HomeScreen) DeleteRoom(ctx context.Context, roomID string, onComplete func(bool)) {
	viewstate.Dispatch(h.deps.Log, "delete room", func() error {
		return h.deps.Rooms.DeleteRoom(ctx, h.session, roomID)
	}, func(ok bool) {
		h.roomDeleted.Set(ok)
		if onComplete != nil {
			onComplete(ok)
		}
	})
}

// RoomDeletedStatus reports the outcome of the last DeleteRoom, if any.
func (h *HomeScreen) RoomDeletedStatus() (deleted, reported bool) {
	return h.roomDeleted.Get()
}

// SignOut ends the session and closes the room subscription.
func (h *HomeScreen) SignOut(ctx context.Context, onComplete func(bool)) {
	h.Deactivate()
	viewstate.Dispatch(h.deps.Log, "sign out", func() error {
		return h.deps.Auth.SignOut(ctx, h.session)
	}, onComplete)
}
