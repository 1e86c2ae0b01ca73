package handler

import (
	"context"
	"errors"
	"sync"

	"chat-sync-app/config/logger"
	"chat-sync-app/dto"
	"chat-sync-app/dto/res"
	"chat-sync-app/screen"
	"chat-sync-app/security"
	"chat-sync-app/viewstate"

	"github.com/gofiber/contrib/websocket"
)

var errConnClosed = errors.New("websocket connection closed")

type WebSocketHandler struct {
	screen.Deps
	*logger.AppLogger
	sync.Mutex
	Clients map[string]map[*websocket.Conn]bool // screen key -> list of clients
}

func NewWebSocketHandler(deps screen.Deps, log *logger.AppLogger) *WebSocketHandler {
	return &WebSocketHandler{
		Deps:      deps,
		AppLogger: log,
		Clients:   make(map[string]map[*websocket.Conn]bool),
	}
}

// wsConn serializes writes; frames and intent results come from different
// goroutines. Once closed, writes are dropped: the underlying connection
// goes back to a pool when the handler returns.
type wsConn struct {
	*websocket.Conn
	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

func (c *wsConn) write(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errConnClosed
	}
	return c.WriteJSON(v)
}

// reply returns the completion callback of one intent. Every callback must
// be called exactly once; close waits for the outstanding ones.
func (c *wsConn) reply(action string) func(bool) {
	c.pending.Add(1)
	return func(ok bool) {
		defer c.pending.Done()
		_ = c.write(dto.IntentResult{Action: action, Success: ok})
	}
}

func (c *wsConn) close() {
	c.pending.Wait()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

type intentFunc func(ctx context.Context, conn *wsConn, intent dto.IntentMessage)

// streamFrames writes initial and then every update of s until ctx ends.
func streamFrames[T, R any](ctx context.Context, conn *wsConn, name string, s *viewstate.Synchronizer[T], initial viewstate.Resource[T], convert func([]T) R) {
	send := func(r viewstate.Resource[T]) error {
		return conn.write(res.ResourceResponse[R]{
			Screen: name,
			Status: r.Status,
			Data:   convert(r.Data),
			Error:  r.ErrorMessage(),
		})
	}
	if err := send(initial); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-s.Updates():
			if err := send(r); err != nil {
				return
			}
		}
	}
}

func (handler *WebSocketHandler) serve(c *websocket.Conn, key string, sc screen.Screen, streams func(ctx context.Context, conn *wsConn, wg *sync.WaitGroup), intents intentFunc) {
	conn := &wsConn{Conn: c}
	ctx, cancel := context.WithCancel(context.Background())

	handler.registerClient(key, c)

	var wg sync.WaitGroup
	streams(ctx, conn, &wg)
	sc.Activate(ctx)

	defer func() {
		cancel()
		sc.Deactivate()
		wg.Wait()
		conn.close()
		handler.removeClient(key, c)
		c.Close()
	}()

	for {
		var intent dto.IntentMessage
		if err := c.ReadJSON(&intent); err != nil {
			handler.WS.Trace.Debug().Err(err).Str("screen", key).Msg("read loop ended")
			return
		}
		if intents == nil {
			handler.WS.Warning.Warn().Str("screen", key).Str("action", intent.Action).Msg("screen accepts no intents")
			continue
		}
		intents(ctx, conn, intent)
	}
}

func stream[T, R any](s *viewstate.Synchronizer[T], name string, convert func([]T) R) func(context.Context, *wsConn, *sync.WaitGroup) {
	return func(ctx context.Context, conn *wsConn, wg *sync.WaitGroup) {
		initial := s.State()
		wg.Add(1)
		go func() {
			defer wg.Done()
			streamFrames(ctx, conn, name, s, initial, convert)
		}()
	}
}

func sessionOf(c *websocket.Conn) *security.Session {
	session, _ := c.Locals(SessionKey).(*security.Session)
	return session
}

func (handler *WebSocketHandler) HandleRooms(c *websocket.Conn) {
	session := sessionOf(c)
	home := screen.NewHomeScreen(handler.Deps, session)
	handler.serve(c, "rooms:"+session.UserID(), home,
		stream(home.Rooms, "rooms", res.NewRoomResponses),
		func(ctx context.Context, conn *wsConn, intent dto.IntentMessage) {
			switch intent.Action {
			case dto.ActionDeleteRoom:
				home.DeleteRoom(context.WithoutCancel(ctx), intent.RoomID, conn.reply(intent.Action))
			default:
				conn.reply(intent.Action)(false)
			}
		})
}

func (handler *WebSocketHandler) HandleMessages(c *websocket.Conn) {
	session := sessionOf(c)
	roomID := c.Params("roomId")
	chat := screen.NewChatScreen(handler.Deps, session, roomID)
	handler.serve(c, "messages:"+roomID, chat,
		stream(chat.Messages, "messages", res.NewMessageResponses),
		func(ctx context.Context, conn *wsConn, intent dto.IntentMessage) {
			// a mutation finishes even when the client leaves mid-way
			ctx = context.WithoutCancel(ctx)
			switch intent.Action {
			case dto.ActionPostMessage:
				chat.PostMessage(ctx, intent.Text, nil, conn.reply(intent.Action))
			case dto.ActionDeleteMessage:
				chat.DeleteMessage(ctx, intent.MessageID, conn.reply(intent.Action))
			case dto.ActionMarkSeen:
				seen := true
				if intent.Seen != nil {
					seen = *intent.Seen
				}
				chat.MarkSeen(ctx, seen, conn.reply(intent.Action))
			default:
				conn.reply(intent.Action)(false)
			}
		})
}

func (handler *WebSocketHandler) HandleFriends(c *websocket.Conn) {
	session := sessionOf(c)
	friends := screen.NewFriendsScreen(handler.Deps, session)
	handler.serve(c, "friends:"+session.UserID(), friends,
		func(ctx context.Context, conn *wsConn, wg *sync.WaitGroup) {
			stream(friends.Friends, "friends", res.NewUserResponses)(ctx, conn, wg)
			stream(friends.Blocked, "blocked", res.NewUserResponses)(ctx, conn, wg)
		}, nil)
}

func (handler *WebSocketHandler) HandleSearch(c *websocket.Conn) {
	session := sessionOf(c)
	search := screen.NewSearchScreen(handler.Deps, session)
	search.SetPrefix(c.Query("q"))
	handler.serve(c, "search:"+session.UserID(), search,
		stream(search.Results, "search", res.NewUserResponses),
		func(ctx context.Context, conn *wsConn, intent dto.IntentMessage) {
			if intent.Action != dto.ActionSearch {
				conn.reply(intent.Action)(false)
				return
			}
			search.Search(ctx, intent.Prefix)
			conn.reply(intent.Action)(true)
		})
}

func (handler *WebSocketHandler) registerClient(key string, conn *websocket.Conn) {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()

	if handler.Clients[key] == nil {
		handler.Clients[key] = make(map[*websocket.Conn]bool)
	}
	handler.Clients[key][conn] = true
	handler.WS.Info.Info().Str("screen", key).Int("clients", len(handler.Clients[key])).Msg("client joined screen")
}

func (handler *WebSocketHandler) removeClient(key string, conn *websocket.Conn) {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()

	if clients, ok := handler.Clients[key]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(handler.Clients, key)
		}
	}
	handler.WS.Info.Info().Str("screen", key).Msg("client left screen")
}

// ClientCount returns the number of open connections on a screen key.
func (handler *WebSocketHandler) ClientCount(key string) int {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()
	return len(handler.Clients[key])
}
