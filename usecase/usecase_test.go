package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"chat-sync-app/config/common"
	"chat-sync-app/dto/req"
	"chat-sync-app/entity"
	"chat-sync-app/enum"
	"chat-sync-app/listener"
	"chat-sync-app/repository"
	"chat-sync-app/security"
	"chat-sync-app/storage"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	store    *repository.GormStore
	authn    *security.LocalAuth
	auth     AuthUsecase
	users    UserUsecase
	rooms    RoomUsecase
	messages MessageUsecase
	relation RelationUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: repository.NamingStrategy,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	conn, err := db.DB()
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repository.Migrate(db))

	v := viper.New()
	v.Set("JWT_SECRET", "usecase-secret")
	authenticator := security.NewLocalAuth(db, security.NewJWT(common.NewConfig(v)))

	log := logrus.New()
	log.SetOutput(io.Discard)
	validate := validator.New()
	store := repository.NewGormStore(db, listener.NewHub())
	blobs := storage.NewDiskStore(t.TempDir(), "/blobs")

	rooms := NewRoomUsecase(store, blobs, validate, log)
	return &testEnv{
		store:    store,
		authn:    authenticator,
		auth:     NewAuthUsecase(store, authenticator, blobs, validate, log),
		users:    NewUserUsecase(store, blobs, validate, log),
		rooms:    rooms,
		messages: NewMessageUsecase(store, blobs, validate, log, rooms),
		relation: NewRelationUsecase(store, log),
	}
}

func (env *testEnv) signUp(t *testing.T, name string) *security.Session {
	t.Helper()
	session, user, err := env.auth.SignUp(context.Background(), &req.RegisterRequest{
		UserName:        name,
		Email:           name + "@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, session.UserID(), user.ID)
	return session
}

func first[T any](t *testing.T, ch <-chan listener.Snapshot[T]) listener.Snapshot[T] {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok)
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot")
	}
	return listener.Snapshot[T]{}
}

func TestSignUpSignInSignOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	image := &storage.Image{ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}
	session, user, err := env.auth.SignUp(ctx, &req.RegisterRequest{
		UserName:        "<i>alice</i>",
		Email:           "alice@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
	}, image)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)
	assert.Equal(t, entity.DefaultBio, user.Bio)
	assert.Equal(t, "/blobs/Users/"+user.ID+"/Images/"+user.ID+".png", user.ImageURL)

	me, err := env.auth.Me(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	again, loaded, err := env.auth.SignIn(ctx, &req.LoginRequest{Email: "alice@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)

	resolved, err := env.auth.Authenticate(ctx, again.Token())
	require.NoError(t, err)
	assert.True(t, resolved.HasUser())

	token := again.Token()
	require.NoError(t, env.auth.SignOut(ctx, again))
	assert.False(t, again.HasUser())
	_, err = env.auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	assert.ErrorIs(t, env.auth.SignOut(ctx, again), ErrNotAuthenticated)
}

func TestSignUpValidation(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.auth.SignUp(context.Background(), &req.RegisterRequest{UserName: "x", Email: "nope", Password: "1"}, nil)
	var validationErrors validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrors)

	_, _, err = env.auth.SignUp(context.Background(), &req.RegisterRequest{UserName: "x", Email: "x@example.com", Password: "password1", ConfirmPassword: "password1"},
		&storage.Image{ContentType: "text/html", Size: 1, Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)

	_, _, err = env.auth.SignUp(context.Background(), &req.RegisterRequest{
		UserName:        "y",
		Email:           "y@example.com",
		Password:        "password1",
		ConfirmPassword: "password2",
	}, nil)
	require.ErrorAs(t, err, &validationErrors)
	assert.Equal(t, "ConfirmPassword", validationErrors[0].Field())
	assert.Equal(t, "eqfield", validationErrors[0].Tag())
}

type failingBlobs struct{}

func (failingBlobs) Put(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	return "", errors.New("bucket unavailable")
}

func TestSignUpRollsBackAccountWhenProfileFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	log := logrus.New()
	log.SetOutput(io.Discard)
	auth := NewAuthUsecase(env.store, env.authn, failingBlobs{}, validator.New(), log)

	request := &req.RegisterRequest{
		UserName:               "alice",
		Email:                  "alice@example.com",
		Password:               "password1",
		ConfirmPassword: "password1",
	}
	image := &storage.Image{ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}
	_, _, err := auth.SignUp(ctx, request, image)
	require.Error(t, err)

	_, err = env.authn.SignIn(ctx, "alice@example.com", "password1")
	assert.ErrorIs(t, err, security.ErrInvalidCredentials)

	session, user, err := env.auth.SignUp(ctx, request, nil)
	require.NoError(t, err)
	assert.Equal(t, session.UserID(), user.ID)
}

func TestUnauthenticatedCalls(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	var nobody *security.Session

	_, err := env.rooms.ListenRooms(ctx, nobody)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = env.relation.ListenFriends(ctx, nobody)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = env.users.ListenSearch(ctx, nobody, "a")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = env.messages.ListenMessages(ctx, nobody, "room")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, env.relation.AddFriend(ctx, nobody, "x"), ErrNotAuthenticated)
	assert.ErrorIs(t, env.rooms.DeleteRoom(ctx, nobody, "x"), ErrNotAuthenticated)
	_, err = env.auth.Me(ctx, nobody)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRoomMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alice := env.signUp(t, "alice")
	bob := env.signUp(t, "bob")
	carol := env.signUp(t, "carol")

	room, err := env.rooms.CreateRoom(ctx, alice, &req.RoomRequest{RoomName: "ab", Users: []string{bob.UserID(), bob.UserID(), alice.UserID()}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.UserID(), bob.UserID()}, room.Users)
	assert.True(t, room.LastMessageSeen)

	aliceRooms, err := env.rooms.ListenRooms(ctx, alice)
	require.NoError(t, err)
	snap := first(t, aliceRooms)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, room.ID, snap.Items[0].ID)

	carolRooms, err := env.rooms.ListenRooms(ctx, carol)
	require.NoError(t, err)
	assert.Empty(t, first(t, carolRooms).Items)

	_, err = env.rooms.GetRoom(ctx, carol, room.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, env.rooms.DeleteRoom(ctx, carol, room.ID), ErrForbidden)

	require.NoError(t, env.rooms.DeleteRoom(ctx, bob, room.ID))
	assert.Empty(t, first(t, aliceRooms).Items)

	_, err = env.rooms.GetRoom(ctx, alice, room.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateRoomKeepsCaller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.signUp(t, "alice")
	bob := env.signUp(t, "bob")

	room, err := env.rooms.CreateRoom(ctx, alice, &req.RoomRequest{RoomName: "r", ImageURL: "https://img.example.com/a.png"}, nil)
	require.NoError(t, err)

	updated, err := env.rooms.UpdateRoom(ctx, alice, room.ID, &req.RoomRequest{RoomName: "renamed", Users: []string{bob.UserID()}},
		&storage.Image{ContentType: "image/jpeg", Size: 4, Body: strings.NewReader("jpeg")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.RoomName)
	assert.Equal(t, []string{alice.UserID(), bob.UserID()}, updated.Users)
	assert.Equal(t, "/blobs/Rooms/"+room.ID+"/Images/"+room.ID+".jpg", updated.ImageURL)

	got, err := env.rooms.GetRoom(ctx, bob, room.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ImageURL, got.ImageURL)
}

func TestSendAndDeleteMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alice := env.signUp(t, "alice")
	bob := env.signUp(t, "bob")
	carol := env.signUp(t, "carol")
	room, err := env.rooms.CreateRoom(ctx, alice, &req.RoomRequest{RoomName: "r", Users: []string{bob.UserID()}}, nil)
	require.NoError(t, err)

	_, err = env.messages.SendMessage(ctx, carol, room.ID, &req.MessageRequest{Message: "hi"}, nil)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.messages.ListenMessages(ctx, carol, room.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.messages.SendMessage(ctx, alice, room.ID, &req.MessageRequest{}, nil)
	assert.Error(t, err)

	msg, err := env.messages.SendMessage(ctx, alice, room.ID, &req.MessageRequest{Message: "hello **bob**"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", msg.UserName)

	got, err := env.rooms.GetRoom(ctx, bob, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello **bob**", got.LastMessageSent)
	assert.Equal(t, alice.UserID(), got.LastMessageBy)
	assert.False(t, got.LastMessageSeen)

	require.NoError(t, env.rooms.MarkSeen(ctx, bob, room.ID, true))
	got, err = env.rooms.GetRoom(ctx, bob, room.ID)
	require.NoError(t, err)
	assert.True(t, got.LastMessageSeen)

	_, err = env.messages.SendMessage(ctx, bob, room.ID, &req.MessageRequest{},
		&storage.Image{ContentType: "image/gif", Size: 3, Body: strings.NewReader("gif")})
	require.NoError(t, err)
	got, err = env.rooms.GetRoom(ctx, bob, room.ID)
	require.NoError(t, err)
	assert.Equal(t, ImagePreview, got.LastMessageSent)

	messages, err := env.messages.ListenMessages(ctx, bob, room.ID)
	require.NoError(t, err)
	snap := first(t, messages)
	require.Len(t, snap.Items, 2)
	for i := 1; i < len(snap.Items); i++ {
		assert.False(t, snap.Items[i].TimeSent.Before(snap.Items[i-1].TimeSent))
	}

	assert.ErrorIs(t, env.messages.DeleteMessage(ctx, bob, room.ID, msg.ID), ErrForbidden)
	require.NoError(t, env.messages.DeleteMessage(ctx, alice, room.ID, msg.ID))
	assert.Len(t, first(t, messages).Items, 1)
}

func TestFriendAndBlockAreExclusive(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alice := env.signUp(t, "alice")
	bob := env.signUp(t, "bob")

	require.NoError(t, env.relation.BlockUser(ctx, alice, bob.UserID()))
	blocked, err := env.relation.HasRelation(ctx, alice, enum.RelationBlocked, bob.UserID())
	require.NoError(t, err)
	assert.True(t, blocked)

	require.NoError(t, env.relation.AddFriend(ctx, alice, bob.UserID()))
	blocked, err = env.relation.HasRelation(ctx, alice, enum.RelationBlocked, bob.UserID())
	require.NoError(t, err)
	assert.False(t, blocked)

	friends, err := env.relation.ListenFriends(ctx, alice)
	require.NoError(t, err)
	snap := first(t, friends)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, bob.UserID(), snap.Items[0].ID)
	assert.Equal(t, "bob", snap.Items[0].UserName)

	require.NoError(t, env.relation.BlockUser(ctx, alice, bob.UserID()))
	assert.Empty(t, first(t, friends).Items)

	blockedList, err := env.relation.ListenBlocked(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, first(t, blockedList).Items, 1)

	require.NoError(t, env.relation.UnblockUser(ctx, alice, bob.UserID()))
	assert.Empty(t, first(t, blockedList).Items)

	// relations are one-sided
	bobFriends, err := env.relation.ListenFriends(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, first(t, bobFriends).Items)

	assert.ErrorIs(t, env.relation.AddFriend(ctx, alice, alice.UserID()), ErrSelfRelation)
	assert.ErrorIs(t, env.relation.AddFriend(ctx, alice, "ghost"), repository.ErrNotFound)
}

func TestProfileAndSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alice := env.signUp(t, "alice")
	env.signUp(t, "alina")
	env.signUp(t, "bob")

	search, err := env.users.ListenSearch(ctx, alice, " ali ")
	require.NoError(t, err)
	snap := first(t, search)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "alina", snap.Items[0].UserName)

	updated, err := env.users.UpdateProfile(ctx, alice, &req.EditProfileRequest{UserName: "alicia", Bio: ""},
		&storage.Image{ContentType: "image/webp", Size: 4, Body: strings.NewReader("webp")})
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.UserName)
	assert.Equal(t, entity.DefaultBio, updated.Bio)
	assert.True(t, strings.HasSuffix(updated.ImageURL, ".webp"))

	got, err := env.users.GetUser(ctx, alice, alice.UserID())
	require.NoError(t, err)
	assert.Equal(t, "alicia", got.UserName)

	_, err = env.users.UpdateProfile(ctx, alice, &req.EditProfileRequest{}, nil)
	assert.Error(t, err)
}
