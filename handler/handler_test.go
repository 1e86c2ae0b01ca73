package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chat-sync-app/config"
	"chat-sync-app/config/common"
	"chat-sync-app/config/logger"
	"chat-sync-app/dto/res"
	"chat-sync-app/handler"
	"chat-sync-app/listener"
	"chat-sync-app/repository"
	"chat-sync-app/security"
	"chat-sync-app/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testServer struct {
	app *fiber.App
	hub *listener.Hub
	ws  *handler.WebSocketHandler
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return newTestServer(t).app
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: repository.NamingStrategy,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	conn, err := db.DB()
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repository.Migrate(db))

	v := viper.New()
	v.Set("JWT_SECRET", "handler-secret")
	cfg := common.NewConfig(v)

	log := logrus.New()
	log.SetOutput(io.Discard)

	hub := listener.NewHub()
	app := config.NewFiber(cfg, log)
	ws := config.App(&config.AppConfig{
		App:       app,
		Config:    cfg,
		Validate:  config.NewValidator(),
		Logger:    log,
		AppLogger: logger.Nop(),
		Backend: &config.Backend{
			Store: repository.NewGormStore(db, hub),
			Auth:  security.NewLocalAuth(db, security.NewJWT(cfg)),
			Blobs: storage.NewDiskStore(t.TempDir(), "/blobs"),
		},
	})
	return &testServer{app: app, hub: hub, ws: ws}
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	response, err := app.Test(request, -1)
	require.NoError(t, err)
	defer response.Body.Close()
	data, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	return response.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out res.CommonResponse[T]
	require.NoError(t, json.Unmarshal(data, &out))
	return out.Data
}

func register(t *testing.T, app *fiber.App, name string) res.AuthResponse {
	t.Helper()
	code, data := call(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"userName":        name,
		"email":           name + "@example.com",
		"password":        "password1",
		"confirmPassword": "password1",
	})
	require.Equal(t, http.StatusCreated, code, string(data))
	return decode[res.AuthResponse](t, data)
}

func TestAuthRoutes(t *testing.T) {
	app := newTestApp(t)
	alice := register(t, app, "alice")
	assert.NotEmpty(t, alice.Token)
	assert.Equal(t, "alice", alice.User.UserName)

	code, _ := call(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"userName": "other", "email": "alice@example.com", "password": "password1", "confirmPassword": "password1",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = call(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"userName": "bad", "email": "not-an-email", "password": "password1", "confirmPassword": "password1",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"userName": "typo", "email": "typo@example.com", "password": "password1", "confirmPassword": "password2",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, data := call(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "password1",
	})
	require.Equal(t, http.StatusOK, code)
	login := decode[res.AuthResponse](t, data)

	code, data = call(t, app, http.MethodGet, "/api/v1/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, alice.User.ID, decode[res.UserResponse](t, data).ID)

	code, data = call(t, app, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	var failure res.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &failure))
	assert.Equal(t, res.ErrorResponse{Status: "Unauthorized", StatusCode: http.StatusUnauthorized, Error: "Token is not valid"}, failure)

	code, _ = call(t, app, http.MethodPost, "/api/v1/auth/logout", login.Token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, app, http.MethodGet, "/api/v1/auth/me", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// the first session is still live
	code, _ = call(t, app, http.MethodGet, "/api/v1/auth/me", alice.Token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestTokenLookup(t *testing.T) {
	app := newTestApp(t)
	alice := register(t, app, "alice")

	send := func(request *http.Request) int {
		response, err := app.Test(request, -1)
		require.NoError(t, err)
		_ = response.Body.Close()
		return response.StatusCode
	}

	request := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	request.Header.Set(fiber.HeaderAuthorization, "Bearer "+alice.Token)
	assert.Equal(t, http.StatusOK, send(request))

	request = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me?token="+alice.Token, nil)
	assert.Equal(t, http.StatusOK, send(request))

	request = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	request.Header.Set(fiber.HeaderAuthorization, alice.Token)
	assert.Equal(t, http.StatusUnauthorized, send(request))

	request = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me?token=not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, send(request))
}

func TestRoomAndMessageRoutes(t *testing.T) {
	app := newTestApp(t)
	alice := register(t, app, "alice")
	bob := register(t, app, "bob")
	carol := register(t, app, "carol")

	code, data := call(t, app, http.MethodPost, "/api/v1/rooms", alice.Token, map[string]any{
		"roomName": "lunch",
		"users":    []string{bob.User.ID},
	})
	require.Equal(t, http.StatusCreated, code, string(data))
	room := decode[res.RoomResponse](t, data)
	assert.Equal(t, []string{alice.User.ID, bob.User.ID}, room.Users)
	roomPath := "/api/v1/rooms/" + room.RoomID

	code, _ = call(t, app, http.MethodGet, roomPath, carol.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, data = call(t, app, http.MethodPost, roomPath+"/messages", bob.Token, map[string]string{
		"message": "**hi**",
	})
	require.Equal(t, http.StatusCreated, code, string(data))
	message := decode[res.MessageResponse](t, data)
	assert.Equal(t, "bob", message.UserName)
	assert.Contains(t, message.HTML, "<strong>hi</strong>")

	code, data = call(t, app, http.MethodGet, roomPath, alice.Token, nil)
	require.Equal(t, http.StatusOK, code)
	got := decode[res.RoomResponse](t, data)
	assert.Equal(t, "**hi**", got.LastMessageSent)
	assert.Equal(t, bob.User.ID, got.LastMessageBy)
	assert.False(t, got.LastMessageSeen)

	code, _ = call(t, app, http.MethodPost, roomPath+"/seen", alice.Token, nil)
	require.Equal(t, http.StatusOK, code)
	_, data = call(t, app, http.MethodGet, roomPath, alice.Token, nil)
	assert.True(t, decode[res.RoomResponse](t, data).LastMessageSeen)

	code, _ = call(t, app, http.MethodDelete, roomPath+"/messages/"+message.MessageID, alice.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = call(t, app, http.MethodDelete, roomPath+"/messages/"+message.MessageID, bob.Token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, app, http.MethodPost, roomPath+"/messages", bob.Token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, app, http.MethodDelete, roomPath, alice.Token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = call(t, app, http.MethodGet, roomPath, alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRelationAndUserRoutes(t *testing.T) {
	app := newTestApp(t)
	alice := register(t, app, "alice")
	bob := register(t, app, "bob")

	code, _ := call(t, app, http.MethodPut, "/api/v1/friends/"+bob.User.ID, alice.Token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, app, http.MethodPut, "/api/v1/blocked/"+bob.User.ID, alice.Token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, app, http.MethodDelete, "/api/v1/blocked/"+bob.User.ID, alice.Token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, app, http.MethodPut, "/api/v1/friends/"+alice.User.ID, alice.Token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, data := call(t, app, http.MethodGet, "/api/v1/users/"+bob.User.ID, alice.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "bob", decode[res.UserResponse](t, data).UserName)

	code, _ = call(t, app, http.MethodGet, "/api/v1/users/missing", alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, data = call(t, app, http.MethodPut, "/api/v1/users/me", alice.Token, map[string]string{
		"userName": "alicia",
		"bio":      "hello",
	})
	require.Equal(t, http.StatusOK, code, string(data))
	assert.Equal(t, "alicia", decode[res.UserResponse](t, data).UserName)
}

func TestWebSocketRoutesRequireUpgrade(t *testing.T) {
	app := newTestApp(t)
	alice := register(t, app, "alice")

	code, _ := call(t, app, http.MethodGet, "/ws/rooms", alice.Token, nil)
	assert.Equal(t, http.StatusUpgradeRequired, code)
}
