package routes

import (
	"chat-sync-app/handler"
	"chat-sync-app/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type ConfigRoute struct {
	*fiber.App
	*middleware.Middleware
	*handler.AuthHandler
	*handler.UserHandler
	*handler.RoomHandler
	*handler.RelationHandler
	BlobDir     string
	BlobBaseURL string
}

func (rc *ConfigRoute) GetRoute() {
	rc.GetPublicRoute()
	rc.GetProtectedRoute()
}

func (rc *ConfigRoute) GetPublicRoute() {
	app := rc.App.Group("/api/v1")
	app.Post("/auth/register", rc.AuthHandler.RegisterUser)
	app.Post("/auth/login", rc.AuthHandler.LoginUser)

	if rc.BlobDir != "" {
		rc.App.Static(rc.BlobBaseURL, rc.BlobDir)
	}
}

func (rc *ConfigRoute) GetProtectedRoute() {
	app := rc.App.Group("/api/v1")
	app.Use(rc.Middleware.JWTProtected, rc.Middleware.Authenticate)

	app.Get("/auth/me", rc.AuthHandler.GetCurrentUser)
	app.Post("/auth/logout", rc.AuthHandler.LogoutUser)

	app.Put("/users/me", rc.UserHandler.EditUser)
	app.Get("/users/:id", rc.UserHandler.GetUserByID)

	app.Post("/rooms", rc.RoomHandler.CreateRoom)
	app.Get("/rooms/:roomId", rc.RoomHandler.GetRoomByID)
	app.Put("/rooms/:roomId", rc.RoomHandler.UpdateRoom)
	app.Delete("/rooms/:roomId", rc.RoomHandler.DeleteRoom)
	app.Post("/rooms/:roomId/seen", rc.RoomHandler.MarkSeen)
	app.Post("/rooms/:roomId/messages", rc.RoomHandler.SendMessage)
	app.Delete("/rooms/:roomId/messages/:messageId", rc.RoomHandler.DeleteMessage)

	app.Put("/friends/:userId", rc.RelationHandler.AddFriend)
	app.Delete("/friends/:userId", rc.RelationHandler.RemoveFriend)
	app.Put("/blocked/:userId", rc.RelationHandler.BlockUser)
	app.Delete("/blocked/:userId", rc.RelationHandler.UnblockUser)
}

func (rc *ConfigRoute) GetWebSocketRoute(wsHandler *handler.WebSocketHandler) {
	ws := rc.App.Group("/ws")
	ws.Use(rc.Middleware.WebSocketUpgrade, rc.Middleware.JWTProtected, rc.Middleware.Authenticate)

	ws.Get("/rooms", websocket.New(wsHandler.HandleRooms))
	ws.Get("/rooms/:roomId/messages", websocket.New(wsHandler.HandleMessages))
	ws.Get("/friends", websocket.New(wsHandler.HandleFriends))
	ws.Get("/users/search", websocket.New(wsHandler.HandleSearch))
}
