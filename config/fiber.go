package config

import (
	"chat-sync-app/config/common"
	"chat-sync-app/handler"
	"chat-sync-app/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func NewFiber(cfg *common.Config, log *logrus.Logger) *fiber.App {
	appName := cfg.GetAppConfig()
	return fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
		AppName:       appName,
		BodyLimit:     storage.MaxImageSize + 1024*1024,
		ErrorHandler:  handler.ErrorHandler(log),
	})
}
