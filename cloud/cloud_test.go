package cloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chat-sync-app/entity"
	"chat-sync-app/enum"
	"chat-sync-app/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadURL(t *testing.T) {
	got := DownloadURL("demo.appspot.com", "Users/u1/Images/u1", "tok")
	assert.Equal(t, "https://firebasestorage.googleapis.com/v0/b/demo.appspot.com/o/Users%2Fu1%2FImages%2Fu1?alt=media&token=tok", got)
}

func TestRelationCollection(t *testing.T) {
	assert.Equal(t, "Friends", relationCollection(enum.RelationFriends))
	assert.Equal(t, "Blocked", relationCollection(enum.RelationBlocked))
}

func TestDocumentMapping(t *testing.T) {
	user := entity.User{BaseEntity: entity.BaseEntity{ID: "u1"}, UserName: "alice", Bio: "b", Email: "a@example.com"}
	doc := userToDocument(user)
	assert.Equal(t, "u1", doc.UserID)
	assert.Equal(t, user, doc.toEntity("ignored"))

	// documents written without a userId field fall back to the document id
	assert.Equal(t, "doc-id", userDocument{UserName: "x"}.toEntity("doc-id").ID)

	room := entity.Room{BaseEntity: entity.BaseEntity{ID: "r1"}, RoomName: "r", Users: []string{"a", "b"}, LastMessageSeen: true}
	assert.Equal(t, room, roomToDocument(room).toEntity("r1"))

	sent := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	msgDoc := messageToDocument(entity.Message{ID: "m1", RoomID: "r1", UserID: "a", Body: "hi"})
	assert.True(t, msgDoc.TimeSent.IsZero())
	msgDoc.TimeSent = sent
	msg := msgDoc.toEntity("r1", "m1")
	assert.Equal(t, "hi", msg.Body)
	assert.Equal(t, "r1", msg.RoomID)
	assert.Equal(t, sent, msg.TimeSent)

	relation := userToDocument(user).toRelation("owner", enum.RelationBlocked, "u1")
	assert.Equal(t, entity.NewRelation("owner", enum.RelationBlocked, user), relation)
}

func TestWithoutUser(t *testing.T) {
	users := []entity.User{
		{BaseEntity: entity.BaseEntity{ID: "2"}, UserName: "bob"},
		{BaseEntity: entity.BaseEntity{ID: "1"}, UserName: "alice"},
		{BaseEntity: entity.BaseEntity{ID: "3"}, UserName: "al"},
	}
	got := withoutUser(users, "1")
	require.Len(t, got, 2)
	assert.Equal(t, "al", got[0].UserName)
	assert.Equal(t, "bob", got[1].UserName)
}

func TestSortRooms(t *testing.T) {
	rooms := []entity.Room{{BaseEntity: entity.BaseEntity{ID: "b"}}, {BaseEntity: entity.BaseEntity{ID: "a"}}}
	sortRooms(rooms)
	assert.Equal(t, "a", rooms[0].ID)
}

func TestFirebaseSignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "api-key", r.URL.Query().Get("key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "password1" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_PASSWORD"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(signInResponse{IDToken: "id-token", LocalID: "uid-1", ExpiresIn: "3600"})
	}))
	defer srv.Close()

	a := &FirebaseAuth{APIKey: "api-key", Endpoint: srv.URL, HTTP: srv.Client()}

	session, err := a.SignIn(context.Background(), " alice@example.com ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", session.UserID())
	assert.Equal(t, "id-token", session.Token())

	_, err = a.SignIn(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, security.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "INVALID_PASSWORD")
}
