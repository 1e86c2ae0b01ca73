package config

import (
	"context"
	"errors"
	"time"

	"chat-sync-app/config/common"
	"chat-sync-app/config/logger"
	"chat-sync-app/listener"
	"chat-sync-app/repository"
	"chat-sync-app/security"
	"chat-sync-app/storage"

	"github.com/sirupsen/logrus"
)

var ErrLocalAuthWithoutDB = errors.New("local auth needs the postgres or sqlite backend")

// Backend is the selected implementation of every outside dependency.
type Backend struct {
	Store repository.Store
	Auth  security.Authenticator
	Blobs storage.BlobStore

	// BlobDir is set when images are written to local disk and must be
	// served by this process.
	BlobDir     string
	BlobBaseURL string

	local   *security.LocalAuth
	closers []func() error
}

func NewBackend(ctx context.Context, cfg *common.Config, log *logrus.Logger, appLog *logger.AppLogger) (*Backend, error) {
	backend := &Backend{}
	fb := &firebaseServices{cfg: cfg}

	var db *DBConfig
	if cfg.GetBackend() == common.BackendFirebase {
		store, closeStore, err := fb.Store(ctx)
		if err != nil {
			return nil, err
		}
		backend.Store = store
		backend.closers = append(backend.closers, closeStore)
	} else {
		var err error
		db, err = NewDB(cfg, appLog)
		if err != nil {
			return nil, err
		}
		backend.Store = repository.NewGormStore(db.GetDB(), listener.NewHub())
		if conn, err := db.GetDB().DB(); err == nil {
			backend.closers = append(backend.closers, conn.Close)
		}
	}

	if cfg.GetAuthProvider() == common.AuthFirebase {
		auth, err := fb.Auth(ctx)
		if err != nil {
			backend.Close()
			return nil, err
		}
		backend.Auth = auth
	} else {
		if db == nil {
			backend.Close()
			return nil, ErrLocalAuthWithoutDB
		}
		backend.local = security.NewLocalAuth(db.GetDB(), security.NewJWT(cfg))
		backend.Auth = backend.local
	}

	if _, _, _, bucket := cfg.GetFirebaseConfig(); bucket != "" {
		blobs, err := fb.Blobs(ctx)
		if err != nil {
			backend.Close()
			return nil, err
		}
		backend.Blobs = blobs
	} else {
		dir, baseURL := cfg.GetBlobConfig()
		backend.Blobs = storage.NewDiskStore(dir, baseURL)
		backend.BlobDir, backend.BlobBaseURL = dir, baseURL
	}

	log.WithFields(logrus.Fields{
		"backend": cfg.GetBackend(),
		"auth":    cfg.GetAuthProvider(),
		"disk":    backend.BlobDir != "",
	}).Info("Backend ready")
	return backend, nil
}

// PurgeSessions drops expired local sessions every interval until ctx ends.
func (b *Backend) PurgeSessions(ctx context.Context, interval time.Duration, log *logrus.Logger) {
	if b.local == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := b.local.PurgeExpired(ctx)
			if err != nil {
				log.WithError(err).Warn("Failed to purge expired sessions")
				continue
			}
			if n > 0 {
				log.Infof("Purged %d expired sessions", n)
			}
		}
	}
}

func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
	b.closers = nil
}
