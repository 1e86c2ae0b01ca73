// Package screen holds one view-state object per client screen. Each screen
// binds a session to the live queries it shows and to the mutations it
// offers.
package screen

import (
	"context"

	"chat-sync-app/usecase"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
)

type Deps struct {
	Auth      usecase.AuthUsecase
	Users     usecase.UserUsecase
	Rooms     usecase.RoomUsecase
	Messages  usecase.MessageUsecase
	Relations usecase.RelationUsecase
	Log       *logrus.Logger
	Stream    zerolog.Logger
}

// Screen is implemented by every screen in this package.
type Screen interface {
	Activate(ctx context.Context)
	Deactivate()
}
