package screen

import (
	"context"
	"sync"

	"chat-sync-app/entity"
	"chat-sync-app/listener"
	"chat-sync-app/security"
	"chat-sync-app/viewstate"
)

// SearchScreen matches other users by the start of their name.
type SearchScreen struct {
	Results *viewstate.Synchronizer[entity.User]

	mu     sync.Mutex
	prefix string
}

func NewSearchScreen(deps Deps, session *security.Session) *SearchScreen {
	s := &SearchScreen{}
	s.Results = viewstate.NewSynchronizer[entity.User]("search", func(ctx context.Context) (<-chan listener.Snapshot[entity.User], error) {
		return deps.Users.ListenSearch(ctx, session, s.Prefix())
	}, deps.Stream)
	return s
}

func (s *SearchScreen) Prefix() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefix
}

func (s *SearchScreen) Activate(ctx context.Context) { s.Results.Activate(ctx) }

func (s *SearchScreen) Deactivate() { s.Results.Deactivate() }

// Search swaps the live query for one on prefix.
func (s *SearchScreen) Search(ctx context.Context, prefix string) {
	s.Results.Deactivate()
	s.SetPrefix(prefix)
	s.Results.Activate(ctx)
}

// SetPrefix changes the prefix used by the next activation.
func (s *SearchScreen) SetPrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefix = prefix
}
