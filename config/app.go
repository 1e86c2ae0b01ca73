package config

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-sync-app/config/common"
	"chat-sync-app/config/logger"
	"chat-sync-app/handler"
	"chat-sync-app/middleware"
	"chat-sync-app/routes"
	"chat-sync-app/screen"
	"chat-sync-app/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	*fiber.App
	*common.Config
	*validator.Validate
	*logrus.Logger
	*logger.AppLogger
	*Backend
}

func RunServer() {
	newConfig := common.NewViper()
	log := NewLogger(newConfig)
	_, logDir, _ := newConfig.GetLogConfig()
	appLogger := logger.NewLogger(logDir)
	app := NewFiber(newConfig, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := NewBackend(ctx, newConfig, log, appLogger)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialise backend")
	}
	defer backend.Close()
	go backend.PurgeSessions(ctx, 10*time.Minute, log)

	// middleware CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins: newConfig.GetCorsOrigins(),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	App(&AppConfig{
		App:       app,
		Config:    newConfig,
		Validate:  NewValidator(),
		Logger:    log,
		AppLogger: appLogger,
		Backend:   backend,
	})

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.WithError(err).Warn("Server shutdown was not clean")
		}
	}()

	if err := app.Listen(newConfig.GetListenAddr()); err != nil {
		log.WithError(err).Errorf("Failed to start server: %v", err)
	}
}

// App wires usecases, handlers and routes onto aC.App.
func App(aC *AppConfig) *handler.WebSocketHandler {
	newAuthUsecase := usecase.NewAuthUsecase(aC.Store, aC.Auth, aC.Blobs, aC.Validate, aC.Logger)
	newUserUsecase := usecase.NewUserUsecase(aC.Store, aC.Blobs, aC.Validate, aC.Logger)
	newRoomUsecase := usecase.NewRoomUsecase(aC.Store, aC.Blobs, aC.Validate, aC.Logger)
	newMessageUsecase := usecase.NewMessageUsecase(aC.Store, aC.Blobs, aC.Validate, aC.Logger, newRoomUsecase)
	newRelationUsecase := usecase.NewRelationUsecase(aC.Store, aC.Logger)

	newMiddleware := middleware.NewMiddleware(aC.Config, newAuthUsecase, aC.Logger)

	newAuthHandler := handler.NewAuthHandler(newAuthUsecase, aC.Logger)
	newUserHandler := handler.NewUserHandler(newUserUsecase, aC.Logger)
	newRoomHandler := handler.NewRoomHandler(newRoomUsecase, newMessageUsecase, aC.Logger)
	newRelationHandler := handler.NewRelationHandler(newRelationUsecase, aC.Logger)

	wsHandler := handler.NewWebSocketHandler(screen.Deps{
		Auth:      newAuthUsecase,
		Users:     newUserUsecase,
		Rooms:     newRoomUsecase,
		Messages:  newMessageUsecase,
		Relations: newRelationUsecase,
		Log:       aC.Logger,
		Stream:    aC.AppLogger.WS.Stream,
	}, aC.AppLogger)

	route := routes.ConfigRoute{
		App:             aC.App,
		Middleware:      newMiddleware,
		AuthHandler:     newAuthHandler,
		UserHandler:     newUserHandler,
		RoomHandler:     newRoomHandler,
		RelationHandler: newRelationHandler,
		BlobDir:         aC.BlobDir,
		BlobBaseURL:     aC.BlobBaseURL,
	}
	route.GetRoute()
	route.GetWebSocketRoute(wsHandler)
	return wsHandler
}
