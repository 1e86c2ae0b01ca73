package screen

import (
	"context"

	"chat-sync-app/dto/req"
	"chat-sync-app/entity"
	"chat-sync-app/listener"
	"chat-sync-app/security"
	"chat-sync-app/storage"
	"chat-sync-app/viewstate"
)

// ChatScreen shows the messages of one room, oldest first.
type ChatScreen struct {
	deps     Deps
	session  *security.Session
	RoomID   string
	Messages *viewstate.Synchronizer[entity.Message]
}

func NewChatScreen(deps Deps, session *security.Session, roomID string) *ChatScreen {
	c := &ChatScreen{deps: deps, session: session, RoomID: roomID}
	c.Messages = viewstate.NewSynchronizer[entity.Message]("chat", func(ctx context.Context) (<-chan listener.Snapshot[entity.Message], error) {
		return deps.Messages.ListenMessages(ctx, session, roomID)
	}, deps.Stream.With().Str("roomId", roomID).Logger())
	return c
}

func (c *ChatScreen) Activate(ctx context.Context) { c.Messages.Activate(ctx) }

func (c *ChatScreen) Deactivate() { c.Messages.Deactivate() }

func (c *ChatScreen) PostMessage(ctx context.Context, text string, image *storage.Image, onComplete func(bool)) {
	viewstate.Dispatch(c.deps.Log, "post message", func() error {
		_, err := c.deps.Messages.SendMessage(ctx, c.session, c.RoomID, &req.MessageRequest{Message: text}, image)
		return err
	}, onComplete)
}

func (c *ChatScreen) DeleteMessage(ctx context.Context, messageID string, onComplete func(bool)) {
	viewstate.Dispatch(c.deps.Log, "delete message", func() error {
		return c.deps.Messages.DeleteMessage(ctx, c.session, c.RoomID, messageID)
	}, onComplete)
}

func (c *ChatScreen) MarkSeen(ctx context.Context, seen bool, onComplete func(bool)) {
	viewstate.Dispatch(c.deps.Log, "mark seen", func() error {
		return c.deps.Rooms.MarkSeen(ctx, c.session, c.RoomID, seen)
	}, onComplete)
}
