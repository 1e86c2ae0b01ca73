package middleware

import (
	"strings"

	"chat-sync-app/config/common"
	"chat-sync-app/dto/res"
	"chat-sync-app/handler"
	"chat-sync-app/usecase"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Middleware struct {
	*common.Config
	usecase.AuthUsecase
	Log *logrus.Logger
}

func NewMiddleware(config *common.Config, authUsecase usecase.AuthUsecase, logger *logrus.Logger) *Middleware {
	return &Middleware{Config: config, AuthUsecase: authUsecase, Log: logger}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(res.NewErrorResponse(fiber.StatusUnauthorized, message))
}

// JWTProtected checks the signature and expiry of locally issued tokens.
// Firebase ID tokens are checked by Authenticate alone.
func (middleware *Middleware) JWTProtected(c *fiber.Ctx) error {
	if middleware.GetAuthProvider() == common.AuthFirebase {
		return c.Next()
	}
	secretKey := middleware.GetJwtConfig()

	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS512, Key: secretKey},
		ContextKey:  "jwt",
		TokenLookup: "header:Authorization,query:token",
		AuthScheme:  "Bearer",
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			middleware.Log.WithError(err).Error("Failed to validate JWT")
			return unauthorized(ctx, "Token is not valid")
		},
	})(c)
}

// Authenticate resolves the bearer token into a session and stores it under
// handler.SessionKey.
func (middleware *Middleware) Authenticate(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return unauthorized(c, "Missing token")
	}

	session, err := middleware.AuthUsecase.Authenticate(c.UserContext(), token)
	if err != nil {
		middleware.Log.WithError(err).Error("Failed to resolve session from token")
		return unauthorized(c, "Token is not valid")
	}

	middleware.Log.Debug("User ID From Middleware: ", session.UserID())
	c.Locals(handler.SessionKey, session)
	return c.Next()
}

// WebSocketUpgrade rejects plain HTTP requests on websocket routes.
func (middleware *Middleware) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return c.Query("token")
}
