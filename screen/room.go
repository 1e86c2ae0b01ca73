package screen

import (
	"context"
	"sync"

	"chat-sync-app/dto/req"
	"chat-sync-app/entity"
	"chat-sync-app/listener"
	"chat-sync-app/security"
	"chat-sync-app/storage"
	"chat-sync-app/viewstate"
)

// RoomScreen builds or edits a room from the user's friends.
type RoomScreen struct {
	deps    Deps
	session *security.Session
	Friends *viewstate.Synchronizer[entity.User]

	mu        sync.Mutex
	selected  []string
	roomAdded viewstate.Flag
}

func NewRoomScreen(deps Deps, session *security.Session) *RoomScreen {
	r := &RoomScreen{deps: deps, session: session}
	r.Friends = viewstate.NewSynchronizer[entity.User]("room", func(ctx context.Context) (<-chan listener.Snapshot[entity.User], error) {
		return deps.Relations.ListenFriends(ctx, session)
	}, deps.Stream)
	return r
}

func (r *RoomScreen) Activate(ctx context.Context) { r.Friends.Activate(ctx) }

func (r *RoomScreen) Deactivate() { r.Friends.Deactivate() }

func (r *RoomScreen) SelectUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = entity.UniqueMembers(append(r.selected, userID))
}

func (r *RoomScreen) DeselectUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.selected[:0]
	for _, id := range r.selected {
		if id != userID {
			kept = append(kept, id)
		}
	}
	r.selected = kept
}

func (r *RoomScreen) SelectedUsers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.selected...)
}

// CreateRoom creates a room with the selected users and the caller.
func (r *RoomScreen) CreateRoom(ctx context.Context, roomName string, image *storage.Image, onComplete func(bool)) {
	request := &req.RoomRequest{RoomName: roomName, Users: r.SelectedUsers()}
	viewstate.Dispatch(r.deps.Log, "create room", func() error {
		_, err := r.deps.Rooms.CreateRoom(ctx, r.session, request, image)
		return err
	}, r.report(onComplete))
}

// UpdateRoom replaces the room's name, image and members with the selection.
func (r *RoomScreen) UpdateRoom(ctx context.Context, roomID, roomName string, image *storage.Image, onComplete func(bool)) {
	request := &req.RoomRequest{RoomName: roomName, Users: r.SelectedUsers()}
	viewstate.Dispatch(r.deps.Log, "update room", func() error {
		_, err := r.deps.Rooms.UpdateRoom(ctx, r.session, roomID, request, image)
		return err
	}, r.report(onComplete))
}

func (r *RoomScreen) report(onComplete func(bool)) func(bool) {
	return func(ok bool) {
		r.roomAdded.Set(ok)
		if onComplete != nil {
			onComplete(ok)
		}
	}
}

func (r *RoomScreen) RoomAddedStatus() (added, reported bool) {
	return r.roomAdded.Get()
}

// ResetState clears the selection and the last reported status.
func (r *RoomScreen) ResetState() {
	r.mu.Lock()
	r.selected = nil
	r.mu.Unlock()
	r.roomAdded.Reset()
}

// FriendsInRoom filters the current friends snapshot to members of room.
func (r *RoomScreen) FriendsInRoom(room entity.Room) []entity.User {
	return r.filterFriends(func(u entity.User) bool { return room.HasMember(u.ID) })
}

func (r *RoomScreen) FriendsNotInRoom(room entity.Room) []entity.User {
	return r.filterFriends(func(u entity.User) bool { return !room.HasMember(u.ID) })
}

func (r *RoomScreen) filterFriends(keep func(entity.User) bool) []entity.User {
	var out []entity.User
	for _, u := range r.Friends.State().Data {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out
}
