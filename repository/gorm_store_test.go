package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"chat-sync-app/entity"
	"chat-sync-app/enum"
	"chat-sync-app/listener"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: NamingStrategy,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	conn, err := db.DB()
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, Migrate(db))
	return NewGormStore(db, listener.NewHub())
}

func next[T any](t *testing.T, ch <-chan listener.Snapshot[T]) listener.Snapshot[T] {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "listener closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot")
	}
	return listener.Snapshot[T]{}
}

func roomIDs(rooms []entity.Room) []string {
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestRoomsContainingMember(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	room := &entity.Room{RoomName: "ab", Users: []string{"A", "B"}, LastMessageSeen: true}
	require.NoError(t, store.CreateRoom(ctx, room))

	listenA, cancelA := context.WithCancel(ctx)
	defer cancelA()
	snapA := next(t, store.ListenRooms(listenA, "A"))
	require.NoError(t, snapA.Err)
	assert.Equal(t, []string{room.ID}, roomIDs(snapA.Items))
	assert.Equal(t, []string{"A", "B"}, snapA.Items[0].Users)
	assert.True(t, snapA.Items[0].LastMessageSeen)

	listenC, cancelC := context.WithCancel(ctx)
	defer cancelC()
	snapC := next(t, store.ListenRooms(listenC, "C"))
	require.NoError(t, snapC.Err)
	assert.Empty(t, snapC.Items)
}

func TestListenRoomsOnlyReturnsMemberRooms(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.CreateRoom(ctx, &entity.Room{RoomName: "one", Users: []string{"A", "B"}}))
	require.NoError(t, store.CreateRoom(ctx, &entity.Room{RoomName: "two", Users: []string{"B", "C"}}))
	require.NoError(t, store.CreateRoom(ctx, &entity.Room{RoomName: "three", Users: []string{"C", "A"}}))

	snap := next(t, store.ListenRooms(ctx, "A"))
	require.NoError(t, snap.Err)
	require.Len(t, snap.Items, 2)
	for _, room := range snap.Items {
		assert.True(t, room.HasMember("A"), room.RoomName)
	}
	assert.True(t, snap.Items[0].ID < snap.Items[1].ID)
}

func TestDeletedRoomLeavesSnapshots(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	room := &entity.Room{RoomName: "gone", Users: []string{"A"}}
	require.NoError(t, store.CreateRoom(ctx, room))
	require.NoError(t, store.SendMessage(ctx, &entity.Message{RoomID: room.ID, UserID: "A", Body: "hi"}))

	rooms := store.ListenRooms(ctx, "A")
	assert.Len(t, next(t, rooms).Items, 1)

	require.NoError(t, store.DeleteRoom(ctx, room.ID))
	snap := next(t, rooms)
	require.NoError(t, snap.Err)
	assert.Empty(t, snap.Items)

	_, err := store.FindRoom(ctx, room.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	messages := next(t, store.ListenMessages(ctx, room.ID))
	assert.Empty(t, messages.Items)
}

func TestUpdateRoomReplacesMembers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	room := &entity.Room{RoomName: "old", Users: []string{"A", "B"}}
	require.NoError(t, store.CreateRoom(ctx, room))

	err := store.UpdateRoom(ctx, room.ID, RoomUpdate{RoomName: "new", ImageURL: "img", Users: []string{"C", "A"}})
	require.NoError(t, err)

	got, err := store.FindRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.RoomName)
	assert.Equal(t, "img", got.ImageURL)
	assert.Equal(t, []string{"C", "A"}, got.Users)

	err = store.UpdateRoom(ctx, "missing", RoomUpdate{RoomName: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLastMessageFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	room := &entity.Room{RoomName: "r", Users: []string{"A"}, LastMessageSeen: true}
	require.NoError(t, store.CreateRoom(ctx, room))

	require.NoError(t, store.UpdateLastMessage(ctx, room.ID, "hello", "A"))
	got, err := store.FindRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.LastMessageSent)
	assert.Equal(t, "A", got.LastMessageBy)
	assert.False(t, got.LastMessageSeen)

	require.NoError(t, store.MarkLastMessageSeen(ctx, room.ID, true))
	got, err = store.FindRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, got.LastMessageSeen)

	assert.ErrorIs(t, store.MarkLastMessageSeen(ctx, "missing", true), ErrNotFound)
}

func TestMessagesOrderedByTimeSent(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := 0
	store.now = func() time.Time {
		ticks++
		// out of order on purpose: the third message gets the earliest stamp
		return base.Add(time.Duration([]int{2, 3, 1}[ticks-1]) * time.Second)
	}

	for _, body := range []string{"first", "second", "third"} {
		require.NoError(t, store.SendMessage(ctx, &entity.Message{RoomID: "room", UserID: "A", Body: body}))
	}

	snap := next(t, store.ListenMessages(ctx, "room"))
	require.NoError(t, snap.Err)
	require.Len(t, snap.Items, 3)
	assert.Equal(t, "third", snap.Items[0].Body)
	for i := 1; i < len(snap.Items); i++ {
		assert.False(t, snap.Items[i].TimeSent.Before(snap.Items[i-1].TimeSent))
	}
}

func TestListenMessagesSeesSendAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages := store.ListenMessages(ctx, "room")
	assert.Empty(t, next(t, messages).Items)

	msg := &entity.Message{RoomID: "room", UserID: "A", UserName: "alice", Body: "hi"}
	require.NoError(t, store.SendMessage(ctx, msg))
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.TimeSent.IsZero())

	snap := next(t, messages)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "alice", snap.Items[0].UserName)

	found, err := store.FindMessage(ctx, "room", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", found.Body)

	require.NoError(t, store.DeleteMessage(ctx, "room", msg.ID))
	assert.Empty(t, next(t, messages).Items)

	_, err = store.FindMessage(ctx, "room", msg.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRelations(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bob := entity.User{BaseEntity: entity.BaseEntity{ID: "B"}, UserName: "bob", Bio: "hi"}
	friends := store.ListenRelations(ctx, "A", enum.RelationFriends)
	assert.Empty(t, next(t, friends).Items)

	require.NoError(t, store.PutRelation(ctx, entity.NewRelation("A", enum.RelationFriends, bob)))
	snap := next(t, friends)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "bob", snap.Items[0].UserName)

	bob.UserName = "bobby"
	require.NoError(t, store.PutRelation(ctx, entity.NewRelation("A", enum.RelationFriends, bob)))
	snap = next(t, friends)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "bobby", snap.Items[0].UserName)

	ok, err := store.HasRelation(ctx, "A", enum.RelationFriends, "B")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.HasRelation(ctx, "A", enum.RelationBlocked, "B")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.DeleteRelation(ctx, "A", enum.RelationFriends, "B"))
	assert.Empty(t, next(t, friends).Items)
}

func TestUsersByNamePrefix(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for id, name := range map[string]string{"1": "alice", "2": "alina", "3": "bob", "4": "al_x"} {
		u := entity.User{BaseEntity: entity.BaseEntity{ID: id}, UserName: name}.WithDefaults()
		require.NoError(t, store.SaveUser(ctx, &u))
	}

	search := store.ListenUsersByName(ctx, "1", "ali")
	snap := next(t, search)
	require.NoError(t, snap.Err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "alina", snap.Items[0].UserName)
	assert.Equal(t, entity.DefaultBio, snap.Items[0].Bio)

	require.NoError(t, store.UpdateProfile(ctx, "3", ProfileUpdate{UserName: "alison", Bio: "b"}))
	snap = next(t, search)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "alina", snap.Items[0].UserName)
	assert.Equal(t, "alison", snap.Items[1].UserName)

	underscore := next(t, store.ListenUsersByName(ctx, "", "al_"))
	require.Len(t, underscore.Items, 1)
	assert.Equal(t, "al_x", underscore.Items[0].UserName)

	assert.ErrorIs(t, store.UpdateProfile(ctx, "missing", ProfileUpdate{UserName: "x"}), ErrNotFound)
}
