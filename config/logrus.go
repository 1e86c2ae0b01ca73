package config

import (
	"context"

	"chat-sync-app/config/common"
	"chat-sync-app/config/logger"

	"github.com/sirupsen/logrus"
)

func NewLogger(cfg *common.Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	levelName, _, sink := cfg.GetLogConfig()
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		log.WithError(err).Warnf("Unknown log level %q, using info", levelName)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if sink == common.LogSinkGCloud {
		projectID, _, _, _ := cfg.GetFirebaseConfig()
		hook, err := logger.NewCloudHook(context.Background(), projectID, cfg.GetAppConfig())
		if err != nil {
			log.WithError(err).Error("Failed to attach Cloud Logging, staying on stdout")
			return log
		}
		log.AddHook(hook)
	}
	return log
}
