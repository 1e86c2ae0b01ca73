package config

import (
	"fmt"
	"time"

	"chat-sync-app/config/common"
	"chat-sync-app/config/logger"
	"chat-sync-app/repository"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type DBConfig struct {
	*gorm.DB
	*logger.AppLogger
}

func NewDB(config *common.Config, log *logger.AppLogger) (*DBConfig, error) {
	db, err := initDatabase(config, log)
	if err != nil {
		return nil, err
	}
	return &DBConfig{DB: db, AppLogger: log}, nil
}

func (db *DBConfig) GetDB() *gorm.DB {
	return db.DB
}

func dialector(cfg *common.Config) gorm.Dialector {
	if cfg.GetBackend() == common.BackendPostgres {
		dbHost, dbUser, dbPassword, dbName, dbPort := cfg.GetDatabaseConfig()
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
			dbHost, dbUser, dbPassword, dbName, dbPort, cfg.GetDatabaseTimezone(),
		)
		return postgres.Open(dsn)
	}
	return sqlite.Open(cfg.GetSQLitePath() + "?_busy_timeout=5000")
}

func initDatabase(cfg *common.Config, log *logger.AppLogger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		NamingStrategy: repository.NamingStrategy,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Http.Error.Error().Err(err).Msg("failed to connect to database")
		return nil, err
	}

	log.Http.Info.Info().Str("backend", cfg.GetBackend()).Msg("Connection Opened to Database")
	conn, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := repository.Migrate(db); err != nil {
		log.Http.Error.Error().Err(err).Msg("failed run migration")
		return nil, err
	}

	if cfg.GetBackend() == common.BackendSQLite {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxIdleConns(10)
		conn.SetMaxOpenConns(100)
	}
	conn.SetConnMaxLifetime(time.Second * time.Duration(300))
	return db, nil
}
